package badger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parsec-io/parsec-core/internal/keyinfo"
	"github.com/parsec-io/parsec-core/internal/wire/body"
)

func TestManagerInsertGetRemove(t *testing.T) {
	m, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	triple := keyinfo.KeyTriple{Application: "app1", Provider: 1, KeyName: "k1"}
	info := keyinfo.KeyInfo{KeyID: []byte{1, 2, 3}, Attributes: body.KeyAttributes{Bits: 2048}}

	_, ok, err := m.Get(triple)
	require.NoError(t, err)
	assert.False(t, ok)

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

func TestManagerListKeysAndClients(t *testing.T) {
	m, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	_, _, err = m.Insert(keyinfo.KeyTriple{Application: "a", Provider: 1, KeyName: "k1"}, keyinfo.KeyInfo{})
	require.NoError(t, err)
	_, _, err = m.Insert(keyinfo.KeyTriple{Application: "a", Provider: 1, KeyName: "k2"}, keyinfo.KeyInfo{})
	require.NoError(t, err)
	_, _, err = m.Insert(keyinfo.KeyTriple{Application: "b", Provider: 1, KeyName: "k1"}, keyinfo.KeyInfo{})
	require.NoError(t, err)

	keys, err := m.ListKeys("a")
	require.NoError(t, err)
	assert.Len(t, keys, 2)

	clients, err := m.ListClients()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, clients)
}
