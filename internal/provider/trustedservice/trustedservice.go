// Package trustedservice is a minimal stand-in for a provider that
// forwards operations to a trusted execution environment over a secure
// channel (the real Parsec trusted-service provider's role). No such
// channel is reachable in this environment, so every PSA operation fails
// with a communication-failure status; the provider still registers its
// full Info/Opcodes so the routing matrix is exercised for this ProviderID.
package trustedservice

import (
	"context"

	"github.com/google/uuid"

	"github.com/parsec-io/parsec-core/internal/provider"
	"github.com/parsec-io/parsec-core/internal/wire"
	"github.com/parsec-io/parsec-core/internal/wire/body"
)

// Provider is the trusted-service stand-in.
type Provider struct{}

// New returns a Provider.
func New() *Provider { return &Provider{} }

func (p *Provider) Info() provider.Info {
	return provider.Info{
		ID:          wire.ProviderTrustedService,
		UUID:        uuid.MustParse("ca13e4a0-4e5a-4056-a3c2-3ed07ab21f86"),
		Description: "trusted execution environment provider (no channel configured)",
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
		wire.OpPsaAsymmetricEncrypt,
		wire.OpPsaAsymmetricDecrypt,
	}
}

var errNoChannel = provider.NewError(wire.StatusPsaErrorCommunicationFailure, "trustedservice: no channel configured")

func (p *Provider) GenerateKey(context.Context, string, body.PsaGenerateKeyOp) (body.PsaGenerateKeyResult, error) {
	return body.PsaGenerateKeyResult{}, errNoChannel
}

func (p *Provider) ImportKey(context.Context, string, body.PsaImportKeyOp) (body.PsaImportKeyResult, error) {
	return body.PsaImportKeyResult{}, errNoChannel
}

func (p *Provider) ExportPublicKey(context.Context, string, body.PsaExportPublicKeyOp) (body.PsaExportPublicKeyResult, error) {
	return body.PsaExportPublicKeyResult{}, errNoChannel
}

func (p *Provider) DestroyKey(context.Context, string, body.PsaDestroyKeyOp) (body.PsaDestroyKeyResult, error) {
	return body.PsaDestroyKeyResult{}, errNoChannel
}

func (p *Provider) SignHash(context.Context, string, body.PsaSignHashOp) (body.PsaSignHashResult, error) {
	return body.PsaSignHashResult{}, errNoChannel
}

func (p *Provider) VerifyHash(context.Context, string, body.PsaVerifyHashOp) (body.PsaVerifyHashResult, error) {
	return body.PsaVerifyHashResult{}, errNoChannel
}

func (p *Provider) AsymmetricEncrypt(context.Context, string, body.PsaAsymmetricEncryptOp) (body.PsaAsymmetricEncryptResult, error) {
	return body.PsaAsymmetricEncryptResult{}, errNoChannel
}

func (p *Provider) AsymmetricDecrypt(context.Context, string, body.PsaAsymmetricDecryptOp) (body.PsaAsymmetricDecryptResult, error) {
	return body.PsaAsymmetricDecryptResult{}, errNoChannel
}
