// Package tpm is a minimal stand-in for a TPM 2.0-backed provider. No TPM
// transport is reachable in this environment, so every advertised PSA
// operation fails with a communication-failure status (asymmetric
// encrypt/decrypt are not advertised and fail with not-supported); the
// provider still registers its
// full Info/Opcodes so the routing matrix is exercised for this ProviderID.
package tpm

import (
	"context"

	"github.com/google/uuid"

	"github.com/parsec-io/parsec-core/internal/provider"
	"github.com/parsec-io/parsec-core/internal/wire"
	"github.com/parsec-io/parsec-core/internal/wire/body"
)

// Provider is the TPM stand-in.
type Provider struct{}

// New returns a Provider.
func New() *Provider { return &Provider{} }

func (p *Provider) Info() provider.Info {
	return provider.Info{
		ID:          wire.ProviderTPM,
		UUID:        uuid.MustParse("1a4c8a66-49de-41ae-a7ad-92b0de11e8a7"),
		Description: "TPM 2.0-backed provider (no device configured)",
		Vendor:      "parsec-io",
		VersionMaj:  1,
	}
}

func (p *Provider) Opcodes() []wire.Opcode {
	return []wire.Opcode{
		wire.OpPsaGenerateKey,
		wire.OpPsaImportKey,
		wire.OpPsaExportPublicKey,
		wire.OpPsaDestroyKey,
		wire.OpPsaSignHash,
		wire.OpPsaVerifyHash,
	}
}

var errNoDevice = provider.NewError(wire.StatusPsaErrorCommunicationFailure, "tpm: no device configured")

func (p *Provider) GenerateKey(context.Context, string, body.PsaGenerateKeyOp) (body.PsaGenerateKeyResult, error) {
	return body.PsaGenerateKeyResult{}, errNoDevice
}

func (p *Provider) ImportKey(context.Context, string, body.PsaImportKeyOp) (body.PsaImportKeyResult, error) {
	return body.PsaImportKeyResult{}, errNoDevice
}

func (p *Provider) ExportPublicKey(context.Context, string, body.PsaExportPublicKeyOp) (body.PsaExportPublicKeyResult, error) {
	return body.PsaExportPublicKeyResult{}, errNoDevice
}

func (p *Provider) DestroyKey(context.Context, string, body.PsaDestroyKeyOp) (body.PsaDestroyKeyResult, error) {
	return body.PsaDestroyKeyResult{}, errNoDevice
}

func (p *Provider) SignHash(context.Context, string, body.PsaSignHashOp) (body.PsaSignHashResult, error) {
	return body.PsaSignHashResult{}, errNoDevice
}

func (p *Provider) VerifyHash(context.Context, string, body.PsaVerifyHashOp) (body.PsaVerifyHashResult, error) {
	return body.PsaVerifyHashResult{}, errNoDevice
}

func (p *Provider) AsymmetricEncrypt(context.Context, string, body.PsaAsymmetricEncryptOp) (body.PsaAsymmetricEncryptResult, error) {
	return body.PsaAsymmetricEncryptResult{}, provider.NewError(wire.StatusPsaErrorNotSupported, "tpm: asymmetric encryption not supported")
}

func (p *Provider) AsymmetricDecrypt(context.Context, string, body.PsaAsymmetricDecryptOp) (body.PsaAsymmetricDecryptResult, error) {
	return body.PsaAsymmetricDecryptResult{}, provider.NewError(wire.StatusPsaErrorNotSupported, "tpm: asymmetric decryption not supported")
}
