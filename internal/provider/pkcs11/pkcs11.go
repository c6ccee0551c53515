// Package pkcs11 is a minimal stand-in for a PKCS#11-backed provider (an
// HSM or software token reachable through a PKCS#11 module). No PKCS#11
// binding is fetchable in this environment, so every PSA operation fails
// with a generic-error status; the provider still registers its full
// Info/Opcodes so ListProviders, ListOpcodes and the dispatcher's routing
// table exercise all five ProviderID values spec.md's enum names.
package pkcs11

import (
	"context"

	"github.com/google/uuid"

	"github.com/parsec-io/parsec-core/internal/provider"
	"github.com/parsec-io/parsec-core/internal/wire"
	"github.com/parsec-io/parsec-core/internal/wire/body"
)

// Provider is the PKCS#11 stand-in.
type Provider struct{}

// New returns a Provider.
func New() *Provider { return &Provider{} }

func (p *Provider) Info() provider.Info {
	return provider.Info{
		ID:          wire.ProviderPkcs11,
		UUID:        uuid.MustParse("30e39502-eba6-4d60-9cc7-3ae8dd5a8da0"),
		Description: "PKCS#11-backed provider (no module configured)",
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

var errNoModule = provider.NewError(wire.StatusPsaErrorGenericError, "pkcs11: no module configured")

func (p *Provider) GenerateKey(context.Context, string, body.PsaGenerateKeyOp) (body.PsaGenerateKeyResult, error) {
	return body.PsaGenerateKeyResult{}, errNoModule
}

func (p *Provider) ImportKey(context.Context, string, body.PsaImportKeyOp) (body.PsaImportKeyResult, error) {
	return body.PsaImportKeyResult{}, errNoModule
}

func (p *Provider) ExportPublicKey(context.Context, string, body.PsaExportPublicKeyOp) (body.PsaExportPublicKeyResult, error) {
	return body.PsaExportPublicKeyResult{}, errNoModule
}

func (p *Provider) DestroyKey(context.Context, string, body.PsaDestroyKeyOp) (body.PsaDestroyKeyResult, error) {
	return body.PsaDestroyKeyResult{}, errNoModule
}

func (p *Provider) SignHash(context.Context, string, body.PsaSignHashOp) (body.PsaSignHashResult, error) {
	return body.PsaSignHashResult{}, errNoModule
}

func (p *Provider) VerifyHash(context.Context, string, body.PsaVerifyHashOp) (body.PsaVerifyHashResult, error) {
	return body.PsaVerifyHashResult{}, errNoModule
}

func (p *Provider) AsymmetricEncrypt(context.Context, string, body.PsaAsymmetricEncryptOp) (body.PsaAsymmetricEncryptResult, error) {
	return body.PsaAsymmetricEncryptResult{}, errNoModule
}

func (p *Provider) AsymmetricDecrypt(context.Context, string, body.PsaAsymmetricDecryptOp) (body.PsaAsymmetricDecryptResult, error) {
	return body.PsaAsymmetricDecryptResult{}, errNoModule
}
