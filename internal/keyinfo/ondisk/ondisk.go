// Package ondisk implements the durable, one-file-per-triple keyinfo.Manager
// backend: <root>/<base64url(app)>/<provider-id>/<base64url(key-name)>,
// each file holding one encoded KeyInfo record. An in-memory index mirrors
// the directory contents for fast lookup; every mutation writes the disk
// file first and only updates the in-memory index once that write lands.
package ondisk

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/parsec-io/parsec-core/internal/keyinfo"
	"github.com/parsec-io/parsec-core/internal/wire/body"
)

// Manager is the on-disk keyinfo.Manager.
type Manager struct {
	root string
	log  *slog.Logger

	mu    sync.RWMutex
	index map[keyinfo.KeyTriple]keyinfo.KeyInfo
}

// Open loads the on-disk tree rooted at root, skipping and logging any
// entry that fails to decode rather than aborting startup. Corrupt entries
// are left in place on disk; only the in-memory index omits them.
func Open(root string, log *slog.Logger) (*Manager, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := os.MkdirAll(root, 0o700); err != nil {
		return nil, fmt.Errorf("keyinfo/ondisk: create root: %w", err)
	}

	m := &Manager{root: root, log: log, index: make(map[keyinfo.KeyTriple]keyinfo.KeyInfo)}
	if err := m.recover(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) recover() error {
	appDirs, err := os.ReadDir(m.root)
	if err != nil {
		return err
	}
	for _, appDir := range appDirs {
		if !appDir.IsDir() {
			continue
		}
		appName, err := decodeSegment(appDir.Name())
		if err != nil {
			m.log.Warn("keyinfo/ondisk: skipping undecodable application directory", "dir", appDir.Name(), "error", err)
			continue
		}
		providerDirs, err := os.ReadDir(filepath.Join(m.root, appDir.Name()))
		if err != nil {
			m.log.Warn("keyinfo/ondisk: skipping unreadable application directory", "app", appName, "error", err)
			continue
		}
		for _, providerDir := range providerDirs {
			if !providerDir.IsDir() {
				continue
			}
			providerID, err := strconv.ParseUint(providerDir.Name(), 10, 8)
			if err != nil {
				m.log.Warn("keyinfo/ondisk: skipping non-numeric provider directory", "app", appName, "dir", providerDir.Name())
				continue
			}
			entries, err := os.ReadDir(filepath.Join(m.root, appDir.Name(), providerDir.Name()))
			if err != nil {
				m.log.Warn("keyinfo/ondisk: skipping unreadable provider directory", "app", appName, "provider", providerID, "error", err)
				continue
			}
			for _, entry := range entries {
				if entry.IsDir() {
					continue
				}
				keyName, err := decodeSegment(entry.Name())
				if err != nil {
					m.log.Warn("keyinfo/ondisk: skipping undecodable key entry", "app", appName, "file", entry.Name(), "error", err)
					continue
				}
				triple := keyinfo.KeyTriple{Application: appName, Provider: uint8(providerID), KeyName: keyName}
				info, err := m.readFile(triple)
				if err != nil {
					m.log.Warn("keyinfo/ondisk: skipping corrupt key entry", "triple", triple, "error", err)
					continue
				}
				m.index[triple] = info
			}
		}
	}
	return nil
}

func encodeSegment(s string) string {
	return base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString([]byte(s))
}

func decodeSegment(s string) (string, error) {
	b, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (m *Manager) path(triple keyinfo.KeyTriple) string {
	return filepath.Join(
		m.root,
		encodeSegment(triple.Application),
		strconv.FormatUint(uint64(triple.Provider), 10),
		encodeSegment(triple.KeyName),
	)
}

func encodeKeyInfo(info keyinfo.KeyInfo) []byte {
	w := body.NewWriter()
	w.PutBytes(info.KeyID)
	info.Attributes.Encode(w)
	return w.Bytes()
}

func decodeKeyInfo(raw []byte) (keyinfo.KeyInfo, error) {
	r := body.NewReader(raw)
	keyID, err := r.Bytes()
	if err != nil {
		return keyinfo.KeyInfo{}, err
	}
	attrs, err := body.DecodeKeyAttributes(r)
	if err != nil {
		return keyinfo.KeyInfo{}, err
	}
	if !r.Done() {
		return keyinfo.KeyInfo{}, fmt.Errorf("keyinfo/ondisk: trailing bytes in key-info record")
	}
	return keyinfo.KeyInfo{KeyID: keyID, Attributes: attrs}, nil
}

func (m *Manager) readFile(triple keyinfo.KeyTriple) (keyinfo.KeyInfo, error) {
	raw, err := os.ReadFile(m.path(triple))
	if err != nil {
		return keyinfo.KeyInfo{}, err
	}
	return decodeKeyInfo(raw)
}

// writeFile durably (delete-then-create) writes info for triple to disk.
func (m *Manager) writeFile(triple keyinfo.KeyTriple, info keyinfo.KeyInfo) error {
	path := m.path(triple)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	_ = os.Remove(path)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, encodeKeyInfo(info), 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (m *Manager) Get(triple keyinfo.KeyTriple) (keyinfo.KeyInfo, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	info, ok := m.index[triple]
	return info, ok, nil
}

func (m *Manager) GetAll(provider uint8) (map[keyinfo.KeyTriple]keyinfo.KeyInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[keyinfo.KeyTriple]keyinfo.KeyInfo)
	for k, v := range m.index {
		if k.Provider == provider {
			out[k] = v
		}
	}
	return out, nil
}

func (m *Manager) Insert(triple keyinfo.KeyTriple, info keyinfo.KeyInfo) (keyinfo.KeyInfo, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.writeFile(triple, info); err != nil {
		return keyinfo.KeyInfo{}, false, fmt.Errorf("keyinfo/ondisk: insert %v: %w", triple, err)
	}
	prev, ok := m.index[triple]
	m.index[triple] = info
	return prev, ok, nil
}

func (m *Manager) Remove(triple keyinfo.KeyTriple) (keyinfo.KeyInfo, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := os.Remove(m.path(triple)); err != nil && !os.IsNotExist(err) {
		return keyinfo.KeyInfo{}, false, fmt.Errorf("keyinfo/ondisk: remove %v: %w", triple, err)
	}
	prev, ok := m.index[triple]
	delete(m.index, triple)
	return prev, ok, nil
}

func (m *Manager) Exists(triple keyinfo.KeyTriple) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.index[triple]
	return ok, nil
}

func (m *Manager) ListKeys(application string) ([]keyinfo.KeyTriple, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []keyinfo.KeyTriple
	for k := range m.index {
		if k.Application == application {
			out = append(out, k)
		}
	}
	return out, nil
}

func (m *Manager) ListClients() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[string]struct{})
	for k := range m.index {
		seen[k.Application] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for app := range seen {
		out = append(out, app)
	}
	return out, nil
}
