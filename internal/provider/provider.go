// Package provider defines the Provider contract every cryptographic
// backend implements: metadata for introspection plus one method per
// identity-bearing PSA operation. Package core implements the special
// introspection-only provider; mbedcrypto, pkcs11, tpm and trustedservice
// implement concrete backends.
package provider

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/parsec-io/parsec-core/internal/wire"
	"github.com/parsec-io/parsec-core/internal/wire/body"
)

// Info is the metadata ListProviders reports for one registered provider.
type Info struct {
	ID          wire.ProviderID
	UUID        uuid.UUID
	Description string
	Vendor      string
	VersionMaj  uint8
	VersionMin  uint8
	VersionRev  uint8
}

// Provider is implemented by every cryptographic backend. Methods take an
// ApplicationName identity (empty for the Core provider's introspection
// calls, which never reach a non-Core provider) and the typed operation
// from internal/wire/body, and return the matching typed result or an
// error the caller maps to a wire.ResponseStatus.
type Provider interface {
	// Info returns this provider's introspection metadata.
	Info() Info

	// Opcodes returns the set of opcodes this provider advertises via
	// ListOpcodes.
	Opcodes() []wire.Opcode

	GenerateKey(ctx context.Context, app string, op body.PsaGenerateKeyOp) (body.PsaGenerateKeyResult, error)
	ImportKey(ctx context.Context, app string, op body.PsaImportKeyOp) (body.PsaImportKeyResult, error)
	ExportPublicKey(ctx context.Context, app string, op body.PsaExportPublicKeyOp) (body.PsaExportPublicKeyResult, error)
	DestroyKey(ctx context.Context, app string, op body.PsaDestroyKeyOp) (body.PsaDestroyKeyResult, error)
	SignHash(ctx context.Context, app string, op body.PsaSignHashOp) (body.PsaSignHashResult, error)
	VerifyHash(ctx context.Context, app string, op body.PsaVerifyHashOp) (body.PsaVerifyHashResult, error)
	AsymmetricEncrypt(ctx context.Context, app string, op body.PsaAsymmetricEncryptOp) (body.PsaAsymmetricEncryptResult, error)
	AsymmetricDecrypt(ctx context.Context, app string, op body.PsaAsymmetricDecryptOp) (body.PsaAsymmetricDecryptResult, error)
}

// Executor dispatches one decoded operation to whichever concrete method
// handles its opcode, returning the matching typed result. Back-end
// handlers talk to providers exclusively through Executor: Adapt gives any
// Provider one, and the Core provider (internal/provider/core) implements
// it directly since its opcode set has no identity-bearing PSA operations.
type Executor interface {
	Execute(ctx context.Context, app string, opcode wire.Opcode, op any) (result any, err error)
}

// Adapt wraps a Provider as an Executor, switching on opcode to the
// matching PSA method. It panics on an opcode the back-end handler should
// never forward (anything outside Opcodes()), since that would indicate a
// dispatcher/handler wiring bug rather than a request-shaped error.
func Adapt(p Provider) Executor {
	return adapter{p}
}

type adapter struct{ p Provider }

func (a adapter) Execute(ctx context.Context, app string, opcode wire.Opcode, op any) (any, error) {
	switch opcode {
	case wire.OpPsaGenerateKey:
		return a.p.GenerateKey(ctx, app, op.(body.PsaGenerateKeyOp))
	case wire.OpPsaImportKey:
		return a.p.ImportKey(ctx, app, op.(body.PsaImportKeyOp))
	case wire.OpPsaExportPublicKey:
		return a.p.ExportPublicKey(ctx, app, op.(body.PsaExportPublicKeyOp))
	case wire.OpPsaDestroyKey:
		return a.p.DestroyKey(ctx, app, op.(body.PsaDestroyKeyOp))
	case wire.OpPsaSignHash:
		return a.p.SignHash(ctx, app, op.(body.PsaSignHashOp))
	case wire.OpPsaVerifyHash:
		return a.p.VerifyHash(ctx, app, op.(body.PsaVerifyHashOp))
	case wire.OpPsaAsymmetricEncrypt:
		return a.p.AsymmetricEncrypt(ctx, app, op.(body.PsaAsymmetricEncryptOp))
	case wire.OpPsaAsymmetricDecrypt:
		return a.p.AsymmetricDecrypt(ctx, app, op.(body.PsaAsymmetricDecryptOp))
	default:
		panic(fmt.Sprintf("provider: adapter got unroutable opcode %s", opcode))
	}
}

// Error is a PSA-style provider error carrying the wire status it maps to,
// so a provider can fail an operation without importing internal/wire
// itself for anything beyond this one mapping.
type Error struct {
	Status wire.ResponseStatus
	Msg    string
}

func (e *Error) Error() string { return e.Msg }

// NewError constructs a provider Error.
func NewError(status wire.ResponseStatus, msg string) *Error {
	return &Error{Status: status, Msg: msg}
}
