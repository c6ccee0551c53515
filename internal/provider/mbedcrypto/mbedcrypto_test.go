package mbedcrypto

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parsec-io/parsec-core/internal/keyinfo/memory"
	"github.com/parsec-io/parsec-core/internal/provider"
	"github.com/parsec-io/parsec-core/internal/wire"
	"github.com/parsec-io/parsec-core/internal/wire/body"
)

func TestKeyLifecycle(t *testing.T) {
	p := New(memory.New())
	ctx := t.Context()

	_, err := p.GenerateKey(ctx, "app1", body.PsaGenerateKeyOp{
		KeyName: "k1",
		Attributes: body.KeyAttributes{
			KeyType:    body.KeyTypeRSAKeyPair,
			Bits:       2048,
			UsageFlags: body.UsageExport | body.UsageSignHash | body.UsageVerifyHash,
		},
	})
	require.NoError(t, err)

	exported, err := p.ExportPublicKey(ctx, "app1", body.PsaExportPublicKeyOp{KeyName: "k1"})
	require.NoError(t, err)
	assert.NotEmpty(t, exported.Data)

	_, err = p.DestroyKey(ctx, "app1", body.PsaDestroyKeyOp{KeyName: "k1"})
	require.NoError(t, err)

	_, err = p.ExportPublicKey(ctx, "app1", body.PsaExportPublicKeyOp{KeyName: "k1"})
	require.Error(t, err)
	var provErr *provider.Error
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, wire.StatusKeyDoesNotExist, provErr.Status)
}

func TestGenerateKeyRejectsDuplicateName(t *testing.T) {
	p := New(memory.New())
	ctx := t.Context()
	op := body.PsaGenerateKeyOp{KeyName: "k1", Attributes: body.KeyAttributes{KeyType: body.KeyTypeECCKeyPair, Bits: 256}}

	_, err := p.GenerateKey(ctx, "app1", op)
	require.NoError(t, err)

	_, err = p.GenerateKey(ctx, "app1", op)
	require.Error(t, err)
	var provErr *provider.Error
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, wire.StatusKeyAlreadyExists, provErr.Status)
}

func TestSignAndVerifyHashRSA(t *testing.T) {
	p := New(memory.New())
	ctx := t.Context()

	_, err := p.GenerateKey(ctx, "app1", body.PsaGenerateKeyOp{
		KeyName: "signing-key",
		Attributes: body.KeyAttributes{
			KeyType:    body.KeyTypeRSAKeyPair,
			Bits:       2048,
			UsageFlags: body.UsageSignHash | body.UsageVerifyHash,
		},
	})
	require.NoError(t, err)

	digest := sha256.Sum256([]byte("message"))
	signed, err := p.SignHash(ctx, "app1", body.PsaSignHashOp{KeyName: "signing-key", Alg: body.AlgRSAPkcs1v15SignSHA256, Hash: digest[:]})
	require.NoError(t, err)
	assert.NotEmpty(t, signed.Signature)

	_, err = p.VerifyHash(ctx, "app1", body.PsaVerifyHashOp{
		KeyName:   "signing-key",
		Alg:       body.AlgRSAPkcs1v15SignSHA256,
		Hash:      digest[:],
		Signature: signed.Signature,
	})
	require.NoError(t, err)

	badDigest := sha256.Sum256([]byte("tampered"))
	_, err = p.VerifyHash(ctx, "app1", body.PsaVerifyHashOp{
		KeyName:   "signing-key",
		Alg:       body.AlgRSAPkcs1v15SignSHA256,
		Hash:      badDigest[:],
		Signature: signed.Signature,
	})
	require.Error(t, err)
}

func TestKeysAreIsolatedPerApplication(t *testing.T) {
	p := New(memory.New())
	ctx := t.Context()

	_, err := p.GenerateKey(ctx, "app1", body.PsaGenerateKeyOp{
		KeyName:    "k1",
		Attributes: body.KeyAttributes{KeyType: body.KeyTypeECCKeyPair, Bits: 256},
	})
	require.NoError(t, err)

	_, err = p.ExportPublicKey(ctx, "app2", body.PsaExportPublicKeyOp{KeyName: "k1"})
	require.Error(t, err)
	var provErr *provider.Error
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, wire.StatusKeyDoesNotExist, provErr.Status)
}
