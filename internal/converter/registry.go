package converter

import (
	"fmt"
	"sync"

	"github.com/parsec-io/parsec-core/internal/wire"
)

// Registry maps a wire.BodyType to the Converter that speaks it, the way
// internal/authn's Registry maps auth types:
// RWMutex-guarded, populated once at startup, read-heavy thereafter.
type Registry struct {
	mu         sync.RWMutex
	converters map[wire.BodyType]Converter
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{converters: make(map[wire.BodyType]Converter)}
}

// Register adds a converter for bodyType. It returns an error if one is
// already registered for that type.
func (r *Registry) Register(bodyType wire.BodyType, c Converter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.converters[bodyType]; exists {
		return fmt.Errorf("converter: %s already registered", bodyType)
	}
	r.converters[bodyType] = c
	return nil
}

// Get returns the converter registered for bodyType, or false if none is.
func (r *Registry) Get(bodyType wire.BodyType) (Converter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.converters[bodyType]
	return c, ok
}
