// Package memory implements an in-process keyinfo.Manager backed by a
// plain map. It has no durability: a crash or restart loses every key
// record. Used by tests and by deployments with no durability requirement.
package memory

import (
	"sync"

	"github.com/parsec-io/parsec-core/internal/keyinfo"
)

// Manager is an in-memory keyinfo.Manager.
type Manager struct {
	mu    sync.RWMutex
	index map[keyinfo.KeyTriple]keyinfo.KeyInfo
}

// New returns an empty Manager.
func New() *Manager {
	return &Manager{index: make(map[keyinfo.KeyTriple]keyinfo.KeyInfo)}
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
	prev, ok := m.index[triple]
	m.index[triple] = info
	return prev, ok, nil
}

func (m *Manager) Remove(triple keyinfo.KeyTriple) (keyinfo.KeyInfo, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
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
