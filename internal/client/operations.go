package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/parsec-io/parsec-core/internal/wire"
	"github.com/parsec-io/parsec-core/internal/wire/body"
)

// Ping reports the wire protocol version parsecd speaks.
func (c *Client) Ping(ctx context.Context) (body.PingResult, error) {
	res, err := c.call(ctx, wire.ProviderCore, wire.OpPing, body.PingOp{})
	if err != nil {
		return body.PingResult{}, err
	}
	return res.(body.PingResult), nil
}

// ListProviders enumerates the providers registered with parsecd.
func (c *Client) ListProviders(ctx context.Context) (body.ListProvidersResult, error) {
	res, err := c.call(ctx, wire.ProviderCore, wire.OpListProviders, body.ListProvidersOp{})
	if err != nil {
		return body.ListProvidersResult{}, err
	}
	return res.(body.ListProvidersResult), nil
}

// ListOpcodes enumerates the opcodes a single provider supports.
func (c *Client) ListOpcodes(ctx context.Context, provider wire.ProviderID) (body.ListOpcodesResult, error) {
	res, err := c.call(ctx, wire.ProviderCore, wire.OpListOpcodes, body.ListOpcodesOp{Provider: uint8(provider)})
	if err != nil {
		return body.ListOpcodesResult{}, err
	}
	return res.(body.ListOpcodesResult), nil
}

// ListAuthenticators enumerates the authenticators parsecd accepts.
func (c *Client) ListAuthenticators(ctx context.Context) (body.ListAuthenticatorsResult, error) {
	res, err := c.call(ctx, wire.ProviderCore, wire.OpListAuthenticators, body.ListAuthenticatorsOp{})
	if err != nil {
		return body.ListAuthenticatorsResult{}, err
	}
	return res.(body.ListAuthenticatorsResult), nil
}

// ListKeys enumerates the keys owned by the client's authenticated
// application name. provider selects which backend's handler serves the
// call; Core is the conventional choice since the result is not
// provider-scoped.
func (c *Client) ListKeys(ctx context.Context, provider wire.ProviderID) (body.ListKeysResult, error) {
	res, err := c.call(ctx, provider, wire.OpListKeys, body.ListKeysOp{})
	if err != nil {
		return body.ListKeysResult{}, err
	}
	return res.(body.ListKeysResult), nil
}

// ListClients enumerates every application name with at least one key on
// record, service-wide.
func (c *Client) ListClients(ctx context.Context, provider wire.ProviderID) (body.ListClientsResult, error) {
	res, err := c.call(ctx, provider, wire.OpListClients, body.ListClientsOp{})
	if err != nil {
		return body.ListClientsResult{}, err
	}
	return res.(body.ListClientsResult), nil
}

// GenerateKey asks provider to create a new key under name with attrs.
func (c *Client) GenerateKey(ctx context.Context, provider wire.ProviderID, name string, attrs body.KeyAttributes) error {
	_, err := c.call(ctx, provider, wire.OpPsaGenerateKey, body.PsaGenerateKeyOp{KeyName: name, Attributes: attrs})
	return err
}

// ImportKey asks provider to import externally-supplied key material
// under name.
func (c *Client) ImportKey(ctx context.Context, provider wire.ProviderID, name string, attrs body.KeyAttributes, data []byte) error {
	_, err := c.call(ctx, provider, wire.OpPsaImportKey, body.PsaImportKeyOp{KeyName: name, Attributes: attrs, Data: data})
	return err
}

// ExportPublicKey returns the DER-encoded public half of an asymmetric
// key.
func (c *Client) ExportPublicKey(ctx context.Context, provider wire.ProviderID, name string) ([]byte, error) {
	res, err := c.call(ctx, provider, wire.OpPsaExportPublicKey, body.PsaExportPublicKeyOp{KeyName: name})
	if err != nil {
		return nil, err
	}
	return res.(body.PsaExportPublicKeyResult).Data, nil
}

// DestroyKey permanently removes a key.
func (c *Client) DestroyKey(ctx context.Context, provider wire.ProviderID, name string) error {
	_, err := c.call(ctx, provider, wire.OpPsaDestroyKey, body.PsaDestroyKeyOp{KeyName: name})
	return err
}

// SignHash signs a pre-hashed digest under name with alg, returning the
// signature.
func (c *Client) SignHash(ctx context.Context, provider wire.ProviderID, name string, alg body.Algorithm, hash []byte) ([]byte, error) {
	res, err := c.call(ctx, provider, wire.OpPsaSignHash, body.PsaSignHashOp{KeyName: name, Alg: alg, Hash: hash})
	if err != nil {
		return nil, err
	}
	return res.(body.PsaSignHashResult).Signature, nil
}

// VerifyHash verifies a signature over a pre-hashed digest. A non-nil
// error (a *client.Error carrying wire.StatusPsaErrorInvalidArgument or
// similar) means the signature did not verify, not that the call failed
// to reach parsecd.
func (c *Client) VerifyHash(ctx context.Context, provider wire.ProviderID, name string, alg body.Algorithm, hash, signature []byte) error {
	_, err := c.call(ctx, provider, wire.OpPsaVerifyHash, body.PsaVerifyHashOp{KeyName: name, Alg: alg, Hash: hash, Signature: signature})
	return err
}

// Encrypt encrypts plaintext under a public key.
func (c *Client) Encrypt(ctx context.Context, provider wire.ProviderID, name string, alg body.Algorithm, plaintext, salt []byte) ([]byte, error) {
	res, err := c.call(ctx, provider, wire.OpPsaAsymmetricEncrypt, body.PsaAsymmetricEncryptOp{KeyName: name, Alg: alg, Plaintext: plaintext, Salt: salt})
	if err != nil {
		return nil, err
	}
	return res.(body.PsaAsymmetricEncryptResult).Ciphertext, nil
}

// Decrypt decrypts ciphertext under a private key.
func (c *Client) Decrypt(ctx context.Context, provider wire.ProviderID, name string, alg body.Algorithm, ciphertext, salt []byte) ([]byte, error) {
	res, err := c.call(ctx, provider, wire.OpPsaAsymmetricDecrypt, body.PsaAsymmetricDecryptOp{KeyName: name, Alg: alg, Ciphertext: ciphertext, Salt: salt})
	if err != nil {
		return nil, err
	}
	return res.(body.PsaAsymmetricDecryptResult).Plaintext, nil
}

// ParseProviderID maps a case-insensitive provider name (as printed by
// wire.ProviderID.String) back to its ID, for CLI flag parsing.
func ParseProviderID(name string) (wire.ProviderID, error) {
	for id := wire.ProviderCore; id <= wire.ProviderTrustedService; id++ {
		if strings.EqualFold(id.String(), name) {
			return id, nil
		}
	}
	return 0, fmt.Errorf("client: unknown provider %q", name)
}
