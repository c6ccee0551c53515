package commands

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/parsec-io/parsec-core/cmd/parsecctl/cmdutil"
	"github.com/parsec-io/parsec-core/internal/client"
	"github.com/parsec-io/parsec-core/internal/wire"
	"github.com/parsec-io/parsec-core/internal/wire/body"
)

var listKeysCmd = &cobra.Command{
	Use:   "list-keys",
	Short: "List the keys owned by an application",
	RunE:  runListKeys,
}

// KeyList renders a ListKeysResult as a table.
type KeyList []body.KeyListEntry

func (kl KeyList) Headers() []string {
	return []string{"NAME", "PROVIDER", "TYPE", "BITS", "ALGORITHM", "USAGE"}
}

func (kl KeyList) Rows() [][]string {
	rows := make([][]string, 0, len(kl))
	for _, k := range kl {
		rows = append(rows, []string{
			k.Name,
			wire.ProviderID(k.ProviderID).String(),
			keyTypeName(k.Attributes.KeyType),
			fmt.Sprintf("%d", k.Attributes.Bits),
			algorithmName(k.Attributes.Algorithm),
			usageFlagsString(k.Attributes.UsageFlags),
		})
	}
	return rows
}

// Footer implements output.Footerer, summarizing the key count below the
// listing.
func (kl KeyList) Footer() []string {
	return []string{"", "", "", "", "", fmt.Sprintf("%d key(s)", len(kl))}
}

func init() {
	listKeysCmd.Flags().String("provider", "Core", "Provider to route the request through")
}

func runListKeys(cmd *cobra.Command, args []string) error {
	providerName, _ := cmd.Flags().GetString("provider")
	provider, err := client.ParseProviderID(providerName)
	if err != nil {
		return err
	}

	c := cmdutil.NewClient(socketPath, timeout)
	res, err := c.ListKeys(context.Background(), provider)
	if err != nil {
		return fmt.Errorf("list-keys failed: %w", err)
	}

	list := KeyList(res.Keys)
	return cmdutil.PrintOutput(os.Stdout, outputFmt, list, len(list) == 0, "No keys on record.", list)
}

var (
	genKeyProvider  string
	genKeyType      string
	genKeyBits      uint32
	genKeyAlgorithm string
	genKeyUsage     string
	genKeyLifetime  uint8
)

var generateKeyCmd = &cobra.Command{
	Use:   "generate-key <name>",
	Short: "Generate a new key",
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerateKey,
}

func init() {
	generateKeyCmd.Flags().StringVar(&genKeyProvider, "provider", "MbedCrypto", "Provider to create the key under")
	generateKeyCmd.Flags().StringVar(&genKeyType, "key-type", "rsa-key-pair", "Key type (raw-data|rsa-key-pair|rsa-public-key|ecc-key-pair|ecc-public-key)")
	generateKeyCmd.Flags().Uint32Var(&genKeyBits, "bits", 2048, "Key size in bits")
	generateKeyCmd.Flags().StringVar(&genKeyAlgorithm, "algorithm", "rsa-pkcs1v15-sign-sha256", "Permitted algorithm")
	generateKeyCmd.Flags().StringVar(&genKeyUsage, "usage", "sign-hash,verify-hash", "Comma-separated usage flags (export,encrypt,decrypt,sign-hash,verify-hash)")
	generateKeyCmd.Flags().Uint8Var(&genKeyLifetime, "lifetime", 0, "PSA key lifetime")
}

func runGenerateKey(cmd *cobra.Command, args []string) error {
	provider, err := client.ParseProviderID(genKeyProvider)
	if err != nil {
		return err
	}
	kt, err := parseKeyType(genKeyType)
	if err != nil {
		return err
	}
	alg, err := parseAlgorithm(genKeyAlgorithm)
	if err != nil {
		return err
	}
	usage, err := parseUsageFlags(genKeyUsage)
	if err != nil {
		return err
	}

	attrs := body.KeyAttributes{KeyType: kt, Bits: genKeyBits, Algorithm: alg, UsageFlags: usage, Lifetime: genKeyLifetime}

	c := cmdutil.NewClient(socketPath, timeout)
	if err := c.GenerateKey(context.Background(), provider, args[0], attrs); err != nil {
		return fmt.Errorf("generate-key failed: %w", err)
	}

	cmdutil.PrintSuccess(outputFmt, fmt.Sprintf("key %q generated", args[0]))
	return nil
}

var (
	importKeyProvider  string
	importKeyType      string
	importKeyBits      uint32
	importKeyAlgorithm string
	importKeyUsage     string
	importKeyData      string
)

var importKeyCmd = &cobra.Command{
	Use:   "import-key <name>",
	Short: "Import externally-supplied key material",
	Args:  cobra.ExactArgs(1),
	RunE:  runImportKey,
}

func init() {
	importKeyCmd.Flags().StringVar(&importKeyProvider, "provider", "MbedCrypto", "Provider to import the key into")
	importKeyCmd.Flags().StringVar(&importKeyType, "key-type", "rsa-key-pair", "Key type (raw-data|rsa-key-pair|rsa-public-key|ecc-key-pair|ecc-public-key)")
	importKeyCmd.Flags().Uint32Var(&importKeyBits, "bits", 2048, "Key size in bits")
	importKeyCmd.Flags().StringVar(&importKeyAlgorithm, "algorithm", "rsa-pkcs1v15-sign-sha256", "Permitted algorithm")
	importKeyCmd.Flags().StringVar(&importKeyUsage, "usage", "sign-hash,verify-hash", "Comma-separated usage flags (export,encrypt,decrypt,sign-hash,verify-hash)")
	importKeyCmd.Flags().StringVar(&importKeyData, "data", "", "Hex-encoded key material (required)")
	_ = importKeyCmd.MarkFlagRequired("data")
}

func runImportKey(cmd *cobra.Command, args []string) error {
	provider, err := client.ParseProviderID(importKeyProvider)
	if err != nil {
		return err
	}
	kt, err := parseKeyType(importKeyType)
	if err != nil {
		return err
	}
	alg, err := parseAlgorithm(importKeyAlgorithm)
	if err != nil {
		return err
	}
	usage, err := parseUsageFlags(importKeyUsage)
	if err != nil {
		return err
	}
	data, err := hex.DecodeString(importKeyData)
	if err != nil {
		return fmt.Errorf("invalid --data, expected hex: %w", err)
	}

	attrs := body.KeyAttributes{KeyType: kt, Bits: importKeyBits, Algorithm: alg, UsageFlags: usage}

	c := cmdutil.NewClient(socketPath, timeout)
	if err := c.ImportKey(context.Background(), provider, args[0], attrs, data); err != nil {
		return fmt.Errorf("import-key failed: %w", err)
	}

	cmdutil.PrintSuccess(outputFmt, fmt.Sprintf("key %q imported", args[0]))
	return nil
}

var exportKeyProvider string

var exportPublicKeyCmd = &cobra.Command{
	Use:   "export-public-key <name>",
	Short: "Export the DER-encoded public half of an asymmetric key",
	Args:  cobra.ExactArgs(1),
	RunE:  runExportPublicKey,
}

func init() {
	exportPublicKeyCmd.Flags().StringVar(&exportKeyProvider, "provider", "MbedCrypto", "Provider that holds the key")
}

func runExportPublicKey(cmd *cobra.Command, args []string) error {
	provider, err := client.ParseProviderID(exportKeyProvider)
	if err != nil {
		return err
	}

	c := cmdutil.NewClient(socketPath, timeout)
	data, err := c.ExportPublicKey(context.Background(), provider, args[0])
	if err != nil {
		return fmt.Errorf("export-public-key failed: %w", err)
	}

	fmt.Println(hex.EncodeToString(data))
	return nil
}

var (
	destroyKeyProvider string
	destroyKeyForce    bool
)

var destroyKeyCmd = &cobra.Command{
	Use:   "destroy-key <name>",
	Short: "Permanently destroy a key",
	Args:  cobra.ExactArgs(1),
	RunE:  runDestroyKey,
}

func init() {
	destroyKeyCmd.Flags().StringVar(&destroyKeyProvider, "provider", "MbedCrypto", "Provider that holds the key")
	destroyKeyCmd.Flags().BoolVarP(&destroyKeyForce, "force", "f", false, "Skip the confirmation prompt")
}

func runDestroyKey(cmd *cobra.Command, args []string) error {
	provider, err := client.ParseProviderID(destroyKeyProvider)
	if err != nil {
		return err
	}

	if !cmdutil.Confirm(fmt.Sprintf("Destroy key %q?", args[0]), destroyKeyForce) {
		fmt.Println("Aborted.")
		return nil
	}

	c := cmdutil.NewClient(socketPath, timeout)
	if err := c.DestroyKey(context.Background(), provider, args[0]); err != nil {
		return fmt.Errorf("destroy-key failed: %w", err)
	}

	cmdutil.PrintSuccess(outputFmt, fmt.Sprintf("key %q destroyed", args[0]))
	return nil
}

func parseKeyType(s string) (body.KeyType, error) {
	switch strings.ToLower(s) {
	case "raw-data":
		return body.KeyTypeRawData, nil
	case "rsa-key-pair":
		return body.KeyTypeRSAKeyPair, nil
	case "rsa-public-key":
		return body.KeyTypeRSAPublicKey, nil
	case "ecc-key-pair":
		return body.KeyTypeECCKeyPair, nil
	case "ecc-public-key":
		return body.KeyTypeECCPublicKey, nil
	default:
		return 0, fmt.Errorf("unknown key type %q", s)
	}
}

func keyTypeName(kt body.KeyType) string {
	switch kt {
	case body.KeyTypeRawData:
		return "raw-data"
	case body.KeyTypeRSAKeyPair:
		return "rsa-key-pair"
	case body.KeyTypeRSAPublicKey:
		return "rsa-public-key"
	case body.KeyTypeECCKeyPair:
		return "ecc-key-pair"
	case body.KeyTypeECCPublicKey:
		return "ecc-public-key"
	default:
		return fmt.Sprintf("KeyType(%d)", kt)
	}
}

func parseAlgorithm(s string) (body.Algorithm, error) {
	switch strings.ToLower(s) {
	case "none":
		return body.AlgNone, nil
	case "rsa-pkcs1v15-sign-raw":
		return body.AlgRSAPkcs1v15SignRaw, nil
	case "rsa-pkcs1v15-sign-sha256":
		return body.AlgRSAPkcs1v15SignSHA256, nil
	case "rsa-oaep-sha256":
		return body.AlgRSAOaepSHA256, nil
	case "ecdsa-sha256":
		return body.AlgECDSASHA256, nil
	default:
		return 0, fmt.Errorf("unknown algorithm %q", s)
	}
}

func algorithmName(alg body.Algorithm) string {
	switch alg {
	case body.AlgNone:
		return "none"
	case body.AlgRSAPkcs1v15SignRaw:
		return "rsa-pkcs1v15-sign-raw"
	case body.AlgRSAPkcs1v15SignSHA256:
		return "rsa-pkcs1v15-sign-sha256"
	case body.AlgRSAOaepSHA256:
		return "rsa-oaep-sha256"
	case body.AlgECDSASHA256:
		return "ecdsa-sha256"
	default:
		return fmt.Sprintf("Algorithm(%d)", alg)
	}
}

func parseUsageFlags(s string) (body.UsageFlags, error) {
	var flags body.UsageFlags
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if part == "" {
			continue
		}
		switch part {
		case "export":
			flags |= body.UsageExport
		case "encrypt":
			flags |= body.UsageEncrypt
		case "decrypt":
			flags |= body.UsageDecrypt
		case "sign-hash":
			flags |= body.UsageSignHash
		case "verify-hash":
			flags |= body.UsageVerifyHash
		default:
			return 0, fmt.Errorf("unknown usage flag %q", part)
		}
	}
	return flags, nil
}

func usageFlagsString(flags body.UsageFlags) string {
	var parts []string
	if flags&body.UsageExport != 0 {
		parts = append(parts, "export")
	}
	if flags&body.UsageEncrypt != 0 {
		parts = append(parts, "encrypt")
	}
	if flags&body.UsageDecrypt != 0 {
		parts = append(parts, "decrypt")
	}
	if flags&body.UsageSignHash != 0 {
		parts = append(parts, "sign-hash")
	}
	if flags&body.UsageVerifyHash != 0 {
		parts = append(parts, "verify-hash")
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ",")
}
