package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parsec-io/parsec-core/internal/keyinfo"
)

func TestManagerInsertGetRemove(t *testing.T) {
	m := New()
	triple := keyinfo.KeyTriple{Application: "app1", Provider: 1, KeyName: "k1"}
	info := keyinfo.KeyInfo{KeyID: []byte{1, 2, 3}}

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

	exists, err := m.Exists(triple)
	require.NoError(t, err)
	assert.True(t, exists)

	prev, removed, err := m.Remove(triple)
	require.NoError(t, err)
	require.True(t, removed)
	assert.Equal(t, info, prev)
	_, ok, err = m.Get(triple)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestManagerListKeysIsolatedPerApplication(t *testing.T) {
	m := New()
	_, _, err := m.Insert(keyinfo.KeyTriple{Application: "app1", Provider: 1, KeyName: "k1"}, keyinfo.KeyInfo{})
	require.NoError(t, err)
	_, _, err = m.Insert(keyinfo.KeyTriple{Application: "app2", Provider: 1, KeyName: "k1"}, keyinfo.KeyInfo{})
	require.NoError(t, err)

	keys, err := m.ListKeys("app1")
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, "app1", keys[0].Application)

	clients, err := m.ListClients()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"app1", "app2"}, clients)
}
