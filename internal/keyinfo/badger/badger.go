// Package badger implements a keyinfo.Manager backed by
// github.com/dgraph-io/badger/v4: one KV pair per KeyTriple, key =
// "app\x00provider\x00keyname", value = the encoded KeyInfo record.
package badger

import (
	"bytes"
	"fmt"
	"sync"

	bdg "github.com/dgraph-io/badger/v4"

	"github.com/parsec-io/parsec-core/internal/keyinfo"
	"github.com/parsec-io/parsec-core/internal/wire/body"
)

// Manager is the badger-backed keyinfo.Manager.
type Manager struct {
	db *bdg.DB
	// mu serializes Insert/Remove so the "disk before memory" ordering
	// invariant has a single well-defined writer at a time; reads go
	// straight to badger's own MVCC snapshot and need no external lock.
	mu sync.Mutex
}

// Open opens (creating if absent) a badger database at dir.
func Open(dir string) (*Manager, error) {
	opts := bdg.DefaultOptions(dir).WithLogger(nil)
	db, err := bdg.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("keyinfo/badger: open %s: %w", dir, err)
	}
	return &Manager{db: db}, nil
}

// Close releases the underlying badger database.
func (m *Manager) Close() error {
	return m.db.Close()
}

const keySep = 0x00

func encodeKey(triple keyinfo.KeyTriple) []byte {
	var buf bytes.Buffer
	buf.WriteString(triple.Application)
	buf.WriteByte(keySep)
	buf.WriteByte(triple.Provider)
	buf.WriteByte(keySep)
	buf.WriteString(triple.KeyName)
	return buf.Bytes()
}

func encodeValue(info keyinfo.KeyInfo) []byte {
	w := body.NewWriter()
	w.PutBytes(info.KeyID)
	info.Attributes.Encode(w)
	return w.Bytes()
}

func decodeValue(raw []byte) (keyinfo.KeyInfo, error) {
	r := body.NewReader(raw)
	keyID, err := r.Bytes()
	if err != nil {
		return keyinfo.KeyInfo{}, err
	}
	attrs, err := body.DecodeKeyAttributes(r)
	if err != nil {
		return keyinfo.KeyInfo{}, err
	}
	return keyinfo.KeyInfo{KeyID: keyID, Attributes: attrs}, nil
}

func (m *Manager) Get(triple keyinfo.KeyTriple) (keyinfo.KeyInfo, bool, error) {
	var info keyinfo.KeyInfo
	found := false
	err := m.db.View(func(txn *bdg.Txn) error {
		item, err := txn.Get(encodeKey(triple))
		if err == bdg.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			decoded, err := decodeValue(val)
			if err != nil {
				return err
			}
			info, found = decoded, true
			return nil
		})
	})
	return info, found, err
}

func (m *Manager) GetAll(provider uint8) (map[keyinfo.KeyTriple]keyinfo.KeyInfo, error) {
	all, err := m.getAll()
	if err != nil {
		return nil, err
	}
	out := make(map[keyinfo.KeyTriple]keyinfo.KeyInfo)
	for triple, info := range all {
		if triple.Provider == provider {
			out[triple] = info
		}
	}
	return out, nil
}

// getAll returns every KeyTriple/KeyInfo pair, unfiltered by provider. Used
// internally by ListKeys and ListClients, which enumerate across providers.
func (m *Manager) getAll() (map[keyinfo.KeyTriple]keyinfo.KeyInfo, error) {
	out := make(map[keyinfo.KeyTriple]keyinfo.KeyInfo)
	err := m.db.View(func(txn *bdg.Txn) error {
		it := txn.NewIterator(bdg.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			triple, err := decodeKey(item.KeyCopy(nil))
			if err != nil {
				continue
			}
			if err := item.Value(func(val []byte) error {
				info, err := decodeValue(val)
				if err != nil {
					return nil // skip corrupt entry
				}
				out[triple] = info
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	return out, err
}

func decodeKey(k []byte) (keyinfo.KeyTriple, error) {
	first := bytes.IndexByte(k, keySep)
	if first < 0 {
		return keyinfo.KeyTriple{}, fmt.Errorf("keyinfo/badger: malformed key")
	}
	app := string(k[:first])
	rest := k[first+1:]
	if len(rest) < 2 || rest[1] != keySep {
		return keyinfo.KeyTriple{}, fmt.Errorf("keyinfo/badger: malformed key")
	}
	provider := rest[0]
	keyName := string(rest[2:])
	return keyinfo.KeyTriple{Application: app, Provider: provider, KeyName: keyName}, nil
}

func (m *Manager) Insert(triple keyinfo.KeyTriple, info keyinfo.KeyInfo) (keyinfo.KeyInfo, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var prev keyinfo.KeyInfo
	var found bool
	err := m.db.Update(func(txn *bdg.Txn) error {
		item, err := txn.Get(encodeKey(triple))
		switch {
		case err == bdg.ErrKeyNotFound:
		case err != nil:
			return err
		default:
			if err := item.Value(func(val []byte) error {
				decoded, err := decodeValue(val)
				if err != nil {
					return err
				}
				prev, found = decoded, true
				return nil
			}); err != nil {
				return err
			}
		}
		return txn.Set(encodeKey(triple), encodeValue(info))
	})
	return prev, found, err
}

func (m *Manager) Remove(triple keyinfo.KeyTriple) (keyinfo.KeyInfo, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var prev keyinfo.KeyInfo
	var found bool
	err := m.db.Update(func(txn *bdg.Txn) error {
		item, err := txn.Get(encodeKey(triple))
		switch {
		case err == bdg.ErrKeyNotFound:
			return nil
		case err != nil:
			return err
		}
		if err := item.Value(func(val []byte) error {
			decoded, err := decodeValue(val)
			if err != nil {
				return err
			}
			prev, found = decoded, true
			return nil
		}); err != nil {
			return err
		}
		return txn.Delete(encodeKey(triple))
	})
	return prev, found, err
}

func (m *Manager) Exists(triple keyinfo.KeyTriple) (bool, error) {
	_, ok, err := m.Get(triple)
	return ok, err
}

func (m *Manager) ListKeys(application string) ([]keyinfo.KeyTriple, error) {
	all, err := m.getAll()
	if err != nil {
		return nil, err
	}
	var out []keyinfo.KeyTriple
	for triple := range all {
		if triple.Application == application {
			out = append(out, triple)
		}
	}
	return out, nil
}

func (m *Manager) ListClients() ([]string, error) {
	all, err := m.getAll()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	for triple := range all {
		seen[triple.Application] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for app := range seen {
		out = append(out, app)
	}
	return out, nil
}
