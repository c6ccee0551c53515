package body

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPsaGenerateKeyOpRoundTrip(t *testing.T) {
	op := PsaGenerateKeyOp{
		KeyName: "my-signing-key",
		Attributes: KeyAttributes{
			KeyType:    KeyTypeRSAKeyPair,
			Bits:       2048,
			Algorithm:  AlgRSAPkcs1v15SignSHA256,
			UsageFlags: UsageSignHash | UsageVerifyHash,
			Lifetime:   0,
		},
	}

	w := NewWriter()
	op.Encode(w)

	got, err := DecodePsaGenerateKeyOp(NewReader(w.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, op, got)
}

func TestListKeysResultRoundTrip(t *testing.T) {
	res := ListKeysResult{Keys: []KeyListEntry{
		{ProviderID: 1, Name: "a", Attributes: KeyAttributes{KeyType: KeyTypeECCKeyPair, Bits: 256}},
		{ProviderID: 1, Name: "b", Attributes: KeyAttributes{KeyType: KeyTypeRSAKeyPair, Bits: 4096}},
	}}

	w := NewWriter()
	res.Encode(w)

	r := NewReader(w.Bytes())
	got, err := DecodeListKeysResult(r)
	require.NoError(t, err)
	assert.Equal(t, res, got)
	assert.True(t, r.Done())
}

func TestReaderRejectsTruncatedInput(t *testing.T) {
	w := NewWriter()
	w.PutBytes([]byte("hello"))
	buf := w.Bytes()[:len(w.Bytes())-2] // truncate the payload

	_, err := NewReader(buf).Bytes()
	assert.Error(t, err)
}

func TestPsaSignHashOpRoundTrip(t *testing.T) {
	op := PsaSignHashOp{
		KeyName: "k",
		Alg:     AlgECDSASHA256,
		Hash:    []byte{1, 2, 3, 4},
	}
	w := NewWriter()
	op.Encode(w)

	got, err := DecodePsaSignHashOp(NewReader(w.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, op, got)
}
