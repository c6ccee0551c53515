package ondisk

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parsec-io/parsec-core/internal/keyinfo"
	"github.com/parsec-io/parsec-core/internal/wire/body"
)

func TestInsertGetRemove(t *testing.T) {
	dir := t.TempDir()
	m, err := Open(dir, nil)
	require.NoError(t, err)

	triple := keyinfo.KeyTriple{Application: "app/weird:name", Provider: 1, KeyName: "my key"}
	info := keyinfo.KeyInfo{
		KeyID:      []byte{9, 9, 9},
		Attributes: body.KeyAttributes{KeyType: body.KeyTypeECCKeyPair, Bits: 256},
	}

	_, existed, err := m.Insert(triple, info)
	require.NoError(t, err)
	assert.False(t, existed)

	got, ok, err := m.Get(triple)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, info, got)

	prev, removed, err := m.Remove(triple)
	require.NoError(t, err)
	require.True(t, removed)
	assert.Equal(t, info, prev)
	_, ok, err = m.Get(triple)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	triple := keyinfo.KeyTriple{Application: "app1", Provider: 2, KeyName: "k1"}
	info := keyinfo.KeyInfo{KeyID: []byte{1, 2, 3}, Attributes: body.KeyAttributes{Bits: 2048}}

	m1, err := Open(dir, nil)
	require.NoError(t, err)
	_, _, err = m1.Insert(triple, info)
	require.NoError(t, err)

	m2, err := Open(dir, nil)
	require.NoError(t, err)

	got, ok, err := m2.Get(triple)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, info, got)
}

func TestRecoverySkipsCorruptEntries(t *testing.T) {
	dir := t.TempDir()
	triple := keyinfo.KeyTriple{Application: "app1", Provider: 1, KeyName: "good"}

	m1, err := Open(dir, nil)
	require.NoError(t, err)
	_, _, err = m1.Insert(triple, keyinfo.KeyInfo{KeyID: []byte{1}})
	require.NoError(t, err)

	// Plant a corrupt sibling entry directly on disk.
	corruptPath := filepath.Join(dir, encodeSegment("app1"), "1", encodeSegment("bad"))
	require.NoError(t, os.WriteFile(corruptPath, []byte{0xFF, 0xFF}, 0o600))

	m2, err := Open(dir, nil)
	require.NoError(t, err)

	_, ok, err := m2.Get(triple)
	require.NoError(t, err)
	assert.True(t, ok)

	_, ok, err = m2.Get(keyinfo.KeyTriple{Application: "app1", Provider: 1, KeyName: "bad"})
	require.NoError(t, err)
	assert.False(t, ok)
}
