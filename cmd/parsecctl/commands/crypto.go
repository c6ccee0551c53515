package commands

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parsec-io/parsec-core/cmd/parsecctl/cmdutil"
	"github.com/parsec-io/parsec-core/internal/client"
)

var (
	signHashProvider  string
	signHashAlgorithm string
	signHashHex       string
)

var signHashCmd = &cobra.Command{
	Use:   "sign-hash <name>",
	Short: "Sign a pre-hashed digest with a key",
	Args:  cobra.ExactArgs(1),
	RunE:  runSignHash,
}

func init() {
	signHashCmd.Flags().StringVar(&signHashProvider, "provider", "MbedCrypto", "Provider that holds the key")
	signHashCmd.Flags().StringVar(&signHashAlgorithm, "algorithm", "rsa-pkcs1v15-sign-sha256", "Algorithm under which the key permits signing")
	signHashCmd.Flags().StringVar(&signHashHex, "hash", "", "Hex-encoded digest to sign (required)")
	_ = signHashCmd.MarkFlagRequired("hash")
}

func runSignHash(cmd *cobra.Command, args []string) error {
	provider, err := client.ParseProviderID(signHashProvider)
	if err != nil {
		return err
	}
	alg, err := parseAlgorithm(signHashAlgorithm)
	if err != nil {
		return err
	}
	hash, err := hex.DecodeString(signHashHex)
	if err != nil {
		return fmt.Errorf("invalid --hash, expected hex: %w", err)
	}

	c := cmdutil.NewClient(socketPath, timeout)
	sig, err := c.SignHash(context.Background(), provider, args[0], alg, hash)
	if err != nil {
		return fmt.Errorf("sign-hash failed: %w", err)
	}

	fmt.Println(hex.EncodeToString(sig))
	return nil
}

var (
	verifyHashProvider  string
	verifyHashAlgorithm string
	verifyHashHashHex   string
	verifyHashSigHex    string
)

var verifyHashCmd = &cobra.Command{
	Use:   "verify-hash <name>",
	Short: "Verify a signature over a pre-hashed digest",
	Args:  cobra.ExactArgs(1),
	RunE:  runVerifyHash,
}

func init() {
	verifyHashCmd.Flags().StringVar(&verifyHashProvider, "provider", "MbedCrypto", "Provider that holds the key")
	verifyHashCmd.Flags().StringVar(&verifyHashAlgorithm, "algorithm", "rsa-pkcs1v15-sign-sha256", "Algorithm the signature was produced under")
	verifyHashCmd.Flags().StringVar(&verifyHashHashHex, "hash", "", "Hex-encoded digest that was signed (required)")
	verifyHashCmd.Flags().StringVar(&verifyHashSigHex, "signature", "", "Hex-encoded signature to verify (required)")
	_ = verifyHashCmd.MarkFlagRequired("hash")
	_ = verifyHashCmd.MarkFlagRequired("signature")
}

func runVerifyHash(cmd *cobra.Command, args []string) error {
	provider, err := client.ParseProviderID(verifyHashProvider)
	if err != nil {
		return err
	}
	alg, err := parseAlgorithm(verifyHashAlgorithm)
	if err != nil {
		return err
	}
	hash, err := hex.DecodeString(verifyHashHashHex)
	if err != nil {
		return fmt.Errorf("invalid --hash, expected hex: %w", err)
	}
	sig, err := hex.DecodeString(verifyHashSigHex)
	if err != nil {
		return fmt.Errorf("invalid --signature, expected hex: %w", err)
	}

	c := cmdutil.NewClient(socketPath, timeout)
	if err := c.VerifyHash(context.Background(), provider, args[0], alg, hash, sig); err != nil {
		return fmt.Errorf("signature did not verify: %w", err)
	}

	fmt.Println("signature OK")
	return nil
}

var (
	encryptProvider  string
	encryptAlgorithm string
	encryptPlaintext string
	encryptSalt      string
)

var encryptCmd = &cobra.Command{
	Use:   "encrypt <name>",
	Short: "Encrypt plaintext under a public key",
	Args:  cobra.ExactArgs(1),
	RunE:  runEncrypt,
}

func init() {
	encryptCmd.Flags().StringVar(&encryptProvider, "provider", "MbedCrypto", "Provider that holds the key")
	encryptCmd.Flags().StringVar(&encryptAlgorithm, "algorithm", "rsa-oaep-sha256", "Algorithm under which the key permits encryption")
	encryptCmd.Flags().StringVar(&encryptPlaintext, "plaintext", "", "Hex-encoded plaintext to encrypt (required)")
	encryptCmd.Flags().StringVar(&encryptSalt, "salt", "", "Hex-encoded salt/label, if any")
	_ = encryptCmd.MarkFlagRequired("plaintext")
}

func runEncrypt(cmd *cobra.Command, args []string) error {
	provider, err := client.ParseProviderID(encryptProvider)
	if err != nil {
		return err
	}
	alg, err := parseAlgorithm(encryptAlgorithm)
	if err != nil {
		return err
	}
	plaintext, err := hex.DecodeString(encryptPlaintext)
	if err != nil {
		return fmt.Errorf("invalid --plaintext, expected hex: %w", err)
	}
	salt, err := hex.DecodeString(encryptSalt)
	if err != nil {
		return fmt.Errorf("invalid --salt, expected hex: %w", err)
	}

	c := cmdutil.NewClient(socketPath, timeout)
	ciphertext, err := c.Encrypt(context.Background(), provider, args[0], alg, plaintext, salt)
	if err != nil {
		return fmt.Errorf("encrypt failed: %w", err)
	}

	fmt.Println(hex.EncodeToString(ciphertext))
	return nil
}

var (
	decryptProvider   string
	decryptAlgorithm  string
	decryptCiphertext string
	decryptSalt       string
)

var decryptCmd = &cobra.Command{
	Use:   "decrypt <name>",
	Short: "Decrypt ciphertext under a private key",
	Args:  cobra.ExactArgs(1),
	RunE:  runDecrypt,
}

func init() {
	decryptCmd.Flags().StringVar(&decryptProvider, "provider", "MbedCrypto", "Provider that holds the key")
	decryptCmd.Flags().StringVar(&decryptAlgorithm, "algorithm", "rsa-oaep-sha256", "Algorithm under which the key permits decryption")
	decryptCmd.Flags().StringVar(&decryptCiphertext, "ciphertext", "", "Hex-encoded ciphertext to decrypt (required)")
	decryptCmd.Flags().StringVar(&decryptSalt, "salt", "", "Hex-encoded salt/label, if any")
	_ = decryptCmd.MarkFlagRequired("ciphertext")
}

func runDecrypt(cmd *cobra.Command, args []string) error {
	provider, err := client.ParseProviderID(decryptProvider)
	if err != nil {
		return err
	}
	alg, err := parseAlgorithm(decryptAlgorithm)
	if err != nil {
		return err
	}
	ciphertext, err := hex.DecodeString(decryptCiphertext)
	if err != nil {
		return fmt.Errorf("invalid --ciphertext, expected hex: %w", err)
	}
	salt, err := hex.DecodeString(decryptSalt)
	if err != nil {
		return fmt.Errorf("invalid --salt, expected hex: %w", err)
	}

	c := cmdutil.NewClient(socketPath, timeout)
	plaintext, err := c.Decrypt(context.Background(), provider, args[0], alg, ciphertext, salt)
	if err != nil {
		return fmt.Errorf("decrypt failed: %w", err)
	}

	fmt.Println(hex.EncodeToString(plaintext))
	return nil
}
