// Package mbedcrypto implements a real, in-process software provider for
// the PSA-aligned key operations, backed by Go's standard crypto/rsa,
// crypto/ecdsa and crypto/rand packages. It is the one place this service
// reaches for asymmetric cryptography directly off the standard library
// rather than a third-party dependency: no third-party PSA-crypto binding
// exists anywhere in the example pack this service was built from, and
// hand-rolling RSA/ECDSA on a borrowed primitive would be actively unsafe.
// Named after (and standing in for) the real Parsec mbed-crypto provider,
// whose role is likewise a software-only backend.
package mbedcrypto

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/parsec-io/parsec-core/internal/keyinfo"
	"github.com/parsec-io/parsec-core/internal/provider"
	"github.com/parsec-io/parsec-core/internal/wire"
	"github.com/parsec-io/parsec-core/internal/wire/body"
)

// keyHandle is the in-process record behind a KeyInfo.KeyID: the raw
// private key material, kept only in memory and referenced by an opaque
// numeric handle so the durable keyinfo.Manager never stores key material
// itself.
type keyHandle struct {
	attrs   body.KeyAttributes
	rsaKey  *rsa.PrivateKey
	ecdsaKey *ecdsa.PrivateKey
}

// Provider is the mbed-crypto software provider.
type Provider struct {
	store keyinfo.Manager

	idCounter atomic.Uint64

	mu      sync.RWMutex
	handles map[uint64]*keyHandle
}

// New returns a Provider backed by store for durable KeyTriple->KeyInfo
// bookkeeping; key material itself lives only in this process's memory.
func New(store keyinfo.Manager) *Provider {
	return &Provider{store: store, handles: make(map[uint64]*keyHandle)}
}

// Info returns this provider's introspection metadata.
func (p *Provider) Info() provider.Info {
	return provider.Info{
		ID:          wire.ProviderMbedCrypto,
		UUID:        uuid.MustParse("1c1139dc-ad20-432a-9c3e-813c1c1cf5ad"),
		Description: "software provider backed by Go's standard crypto packages",
		Vendor:      "parsec-io",
		VersionMaj:  1,
	}
}

// Opcodes returns the PSA opcode set this provider advertises.
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

func (p *Provider) triple(app, keyName string) keyinfo.KeyTriple {
	return keyinfo.KeyTriple{Application: app, Provider: uint8(wire.ProviderMbedCrypto), KeyName: keyName}
}

func (p *Provider) nextHandle() uint64 {
	return p.idCounter.Add(1)
}

func encodeHandle(id uint64) []byte {
	return []byte{
		byte(id >> 56), byte(id >> 48), byte(id >> 40), byte(id >> 32),
		byte(id >> 24), byte(id >> 16), byte(id >> 8), byte(id),
	}
}

func decodeHandle(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("mbedcrypto: malformed key handle")
	}
	var id uint64
	for _, x := range b {
		id = id<<8 | uint64(x)
	}
	return id, nil
}

func (p *Provider) GenerateKey(_ context.Context, app string, op body.PsaGenerateKeyOp) (body.PsaGenerateKeyResult, error) {
	triple := p.triple(app, op.KeyName)

	handle := &keyHandle{attrs: op.Attributes}
	switch op.Attributes.KeyType {
	case body.KeyTypeRSAKeyPair:
		bits := int(op.Attributes.Bits)
		if bits == 0 {
			bits = 2048
		}
		key, err := rsa.GenerateKey(rand.Reader, bits)
		if err != nil {
			return body.PsaGenerateKeyResult{}, provider.NewError(wire.StatusPsaErrorGenericError, err.Error())
		}
		handle.rsaKey = key
	case body.KeyTypeECCKeyPair:
		key, err := ecdsa.GenerateKey(ellipticCurve(op.Attributes.Bits), rand.Reader)
		if err != nil {
			return body.PsaGenerateKeyResult{}, provider.NewError(wire.StatusPsaErrorGenericError, err.Error())
		}
		handle.ecdsaKey = key
	default:
		return body.PsaGenerateKeyResult{}, provider.NewError(wire.StatusPsaErrorNotSupported,
			fmt.Sprintf("mbedcrypto: unsupported key type %d", op.Attributes.KeyType))
	}

	id := p.nextHandle()
	if err := p.insertNew(triple, op.KeyName, keyinfo.KeyInfo{KeyID: encodeHandle(id), Attributes: op.Attributes}); err != nil {
		return body.PsaGenerateKeyResult{}, err
	}
	p.mu.Lock()
	p.handles[id] = handle
	p.mu.Unlock()

	return body.PsaGenerateKeyResult{}, nil
}

// insertNew records info for triple, rejecting with StatusKeyAlreadyExists
// if one was already on file. The store's Insert always overwrites, so a
// collision is detected from its returned previous value rather than a
// separate existence check, and the prior record is restored before
// reporting the error.
func (p *Provider) insertNew(triple keyinfo.KeyTriple, keyName string, info keyinfo.KeyInfo) error {
	prev, existed, err := p.store.Insert(triple, info)
	if err != nil {
		return err
	}
	if existed {
		if _, _, restoreErr := p.store.Insert(triple, prev); restoreErr != nil {
			return restoreErr
		}
		return provider.NewError(wire.StatusKeyAlreadyExists,
			fmt.Sprintf("mbedcrypto: key %q already exists", keyName))
	}
	return nil
}

func ellipticCurve(bits uint32) elliptic.Curve {
	switch {
	case bits <= 224:
		return elliptic.P224()
	case bits <= 256:
		return elliptic.P256()
	case bits <= 384:
		return elliptic.P384()
	default:
		return elliptic.P521()
	}
}

func (p *Provider) ImportKey(_ context.Context, app string, op body.PsaImportKeyOp) (body.PsaImportKeyResult, error) {
	triple := p.triple(app, op.KeyName)

	handle := &keyHandle{attrs: op.Attributes}
	switch op.Attributes.KeyType {
	case body.KeyTypeRSAKeyPair:
		key, err := x509.ParsePKCS1PrivateKey(op.Data)
		if err != nil {
			return body.PsaImportKeyResult{}, provider.NewError(wire.StatusPsaErrorInvalidArgument, err.Error())
		}
		handle.rsaKey = key
	case body.KeyTypeECCKeyPair:
		key, err := x509.ParseECPrivateKey(op.Data)
		if err != nil {
			return body.PsaImportKeyResult{}, provider.NewError(wire.StatusPsaErrorInvalidArgument, err.Error())
		}
		handle.ecdsaKey = key
	default:
		return body.PsaImportKeyResult{}, provider.NewError(wire.StatusPsaErrorNotSupported,
			fmt.Sprintf("mbedcrypto: unsupported key type %d", op.Attributes.KeyType))
	}

	id := p.nextHandle()
	if err := p.insertNew(triple, op.KeyName, keyinfo.KeyInfo{KeyID: encodeHandle(id), Attributes: op.Attributes}); err != nil {
		return body.PsaImportKeyResult{}, err
	}
	p.mu.Lock()
	p.handles[id] = handle
	p.mu.Unlock()

	return body.PsaImportKeyResult{}, nil
}

func (p *Provider) lookup(app, keyName string) (uint64, *keyHandle, error) {
	triple := p.triple(app, keyName)
	info, ok, err := p.store.Get(triple)
	if err != nil {
		return 0, nil, err
	}
	if !ok {
		return 0, nil, provider.NewError(wire.StatusKeyDoesNotExist,
			fmt.Sprintf("mbedcrypto: key %q does not exist", keyName))
	}
	id, err := decodeHandle(info.KeyID)
	if err != nil {
		return 0, nil, provider.NewError(wire.StatusKeyDoesNotExist, err.Error())
	}
	p.mu.RLock()
	handle, ok := p.handles[id]
	p.mu.RUnlock()
	if !ok {
		// Durable record survived a restart but key material is
		// in-memory only: the handle cannot be recovered.
		return 0, nil, provider.NewError(wire.StatusKeyDoesNotExist,
			fmt.Sprintf("mbedcrypto: key %q material not resident in this process", keyName))
	}
	return id, handle, nil
}

func (p *Provider) ExportPublicKey(_ context.Context, app string, op body.PsaExportPublicKeyOp) (body.PsaExportPublicKeyResult, error) {
	_, handle, err := p.lookup(app, op.KeyName)
	if err != nil {
		return body.PsaExportPublicKeyResult{}, err
	}

	var (
		der []byte
		e   error
	)
	switch {
	case handle.rsaKey != nil:
		der, e = x509.MarshalPKIXPublicKey(&handle.rsaKey.PublicKey)
	case handle.ecdsaKey != nil:
		der, e = x509.MarshalPKIXPublicKey(&handle.ecdsaKey.PublicKey)
	default:
		return body.PsaExportPublicKeyResult{}, provider.NewError(wire.StatusPsaErrorGenericError,
			"mbedcrypto: key handle has no material")
	}
	if e != nil {
		return body.PsaExportPublicKeyResult{}, provider.NewError(wire.StatusPsaErrorGenericError, e.Error())
	}
	return body.PsaExportPublicKeyResult{Data: der}, nil
}

func (p *Provider) DestroyKey(_ context.Context, app string, op body.PsaDestroyKeyOp) (body.PsaDestroyKeyResult, error) {
	triple := p.triple(app, op.KeyName)
	info, ok, err := p.store.Get(triple)
	if err != nil {
		return body.PsaDestroyKeyResult{}, err
	}
	if !ok {
		return body.PsaDestroyKeyResult{}, provider.NewError(wire.StatusKeyDoesNotExist,
			fmt.Sprintf("mbedcrypto: key %q does not exist", op.KeyName))
	}
	if _, _, err := p.store.Remove(triple); err != nil {
		return body.PsaDestroyKeyResult{}, err
	}
	if id, err := decodeHandle(info.KeyID); err == nil {
		p.mu.Lock()
		delete(p.handles, id)
		p.mu.Unlock()
	}
	return body.PsaDestroyKeyResult{}, nil
}

func (p *Provider) SignHash(_ context.Context, app string, op body.PsaSignHashOp) (body.PsaSignHashResult, error) {
	_, handle, err := p.lookup(app, op.KeyName)
	if err != nil {
		return body.PsaSignHashResult{}, err
	}
	if handle.attrs.UsageFlags&body.UsageSignHash == 0 {
		return body.PsaSignHashResult{}, provider.NewError(wire.StatusPsaErrorNotSupported,
			"mbedcrypto: key is not permitted to sign")
	}

	switch {
	case handle.rsaKey != nil:
		sig, err := rsa.SignPKCS1v15(rand.Reader, handle.rsaKey, crypto.SHA256, op.Hash)
		if err != nil {
			return body.PsaSignHashResult{}, provider.NewError(wire.StatusPsaErrorGenericError, err.Error())
		}
		return body.PsaSignHashResult{Signature: sig}, nil
	case handle.ecdsaKey != nil:
		sig, err := ecdsa.SignASN1(rand.Reader, handle.ecdsaKey, op.Hash)
		if err != nil {
			return body.PsaSignHashResult{}, provider.NewError(wire.StatusPsaErrorGenericError, err.Error())
		}
		return body.PsaSignHashResult{Signature: sig}, nil
	default:
		return body.PsaSignHashResult{}, provider.NewError(wire.StatusPsaErrorGenericError,
			"mbedcrypto: key handle has no material")
	}
}

func (p *Provider) VerifyHash(_ context.Context, app string, op body.PsaVerifyHashOp) (body.PsaVerifyHashResult, error) {
	_, handle, err := p.lookup(app, op.KeyName)
	if err != nil {
		return body.PsaVerifyHashResult{}, err
	}

	switch {
	case handle.rsaKey != nil:
		if err := rsa.VerifyPKCS1v15(&handle.rsaKey.PublicKey, crypto.SHA256, op.Hash, op.Signature); err != nil {
			return body.PsaVerifyHashResult{}, provider.NewError(wire.StatusPsaErrorInvalidArgument, "signature verification failed")
		}
		return body.PsaVerifyHashResult{}, nil
	case handle.ecdsaKey != nil:
		if !ecdsa.VerifyASN1(&handle.ecdsaKey.PublicKey, op.Hash, op.Signature) {
			return body.PsaVerifyHashResult{}, provider.NewError(wire.StatusPsaErrorInvalidArgument, "signature verification failed")
		}
		return body.PsaVerifyHashResult{}, nil
	default:
		return body.PsaVerifyHashResult{}, provider.NewError(wire.StatusPsaErrorGenericError,
			"mbedcrypto: key handle has no material")
	}
}

func (p *Provider) AsymmetricEncrypt(_ context.Context, app string, op body.PsaAsymmetricEncryptOp) (body.PsaAsymmetricEncryptResult, error) {
	_, handle, err := p.lookup(app, op.KeyName)
	if err != nil {
		return body.PsaAsymmetricEncryptResult{}, err
	}
	if handle.rsaKey == nil {
		return body.PsaAsymmetricEncryptResult{}, provider.NewError(wire.StatusPsaErrorNotSupported,
			"mbedcrypto: asymmetric encryption requires an RSA key")
	}
	ct, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, &handle.rsaKey.PublicKey, op.Plaintext, op.Salt)
	if err != nil {
		return body.PsaAsymmetricEncryptResult{}, provider.NewError(wire.StatusPsaErrorGenericError, err.Error())
	}
	return body.PsaAsymmetricEncryptResult{Ciphertext: ct}, nil
}

func (p *Provider) AsymmetricDecrypt(_ context.Context, app string, op body.PsaAsymmetricDecryptOp) (body.PsaAsymmetricDecryptResult, error) {
	_, handle, err := p.lookup(app, op.KeyName)
	if err != nil {
		return body.PsaAsymmetricDecryptResult{}, err
	}
	if handle.rsaKey == nil {
		return body.PsaAsymmetricDecryptResult{}, provider.NewError(wire.StatusPsaErrorNotSupported,
			"mbedcrypto: asymmetric decryption requires an RSA key")
	}
	pt, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, handle.rsaKey, op.Ciphertext, op.Salt)
	if err != nil {
		return body.PsaAsymmetricDecryptResult{}, provider.NewError(wire.StatusPsaErrorGenericError, err.Error())
	}
	return body.PsaAsymmetricDecryptResult{Plaintext: pt}, nil
}
