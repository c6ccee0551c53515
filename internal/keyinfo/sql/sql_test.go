package sql

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/parsec-io/parsec-core/internal/keyinfo"
	"github.com/parsec-io/parsec-core/internal/wire/body"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keyinfo.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	require.NoError(t, err)
	return db
}

func TestManagerInsertGetRemove(t *testing.T) {
	m, err := Open(openTestDB(t), "")
	require.NoError(t, err)

	triple := keyinfo.KeyTriple{Application: "app1", Provider: 1, KeyName: "k1"}
	info := keyinfo.KeyInfo{KeyID: []byte{4, 5, 6}, Attributes: body.KeyAttributes{Bits: 4096}}

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

	// Insert again under the same triple replaces, never duplicates, and
	// reports the replaced value.
	info2 := keyinfo.KeyInfo{KeyID: []byte{7, 8, 9}}
	prev, existed, err := m.Insert(triple, info2)
	require.NoError(t, err)
	require.True(t, existed)
	assert.Equal(t, info, prev)
	got2, ok, err := m.Get(triple)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, info2, got2)

	removedPrev, removed, err := m.Remove(triple)
	require.NoError(t, err)
	require.True(t, removed)
	assert.Equal(t, info2, removedPrev)
	_, ok, err = m.Get(triple)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestManagerListClients(t *testing.T) {
	m, err := Open(openTestDB(t), "")
	require.NoError(t, err)

	_, _, err = m.Insert(keyinfo.KeyTriple{Application: "a", Provider: 1, KeyName: "k1"}, keyinfo.KeyInfo{})
	require.NoError(t, err)
	_, _, err = m.Insert(keyinfo.KeyTriple{Application: "b", Provider: 1, KeyName: "k1"}, keyinfo.KeyInfo{})
	require.NoError(t, err)

	clients, err := m.ListClients()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, clients)
}
