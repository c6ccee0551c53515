// Package authn implements the authenticator registry: conversion of a
// request's wire-level auth_type tag and opaque auth bytes into the
// ApplicationName identity that flows through dispatch.
package authn

import (
	"context"
	"fmt"
	"sync"

	"github.com/parsec-io/parsec-core/internal/wire"
)

// TransportInfo carries connection-level context an authenticator may need
// beyond the auth bytes themselves (e.g. peer credentials for
// UnixPeerCredentials).
type TransportInfo struct {
	// PeerUID and PeerGID are populated for Unix-domain connections by
	// the front-end before authentication; zero-valued (and meaningless)
	// otherwise.
	PeerUID uint32
	PeerGID uint32
}

// Authenticator converts a request's auth_type-tagged bytes, plus
// transport-level context, into an ApplicationName, or fails with an
// error the front-end maps to wire.StatusAuthenticationError.
type Authenticator interface {
	Authenticate(ctx context.Context, authBytes []byte, transport TransportInfo) (applicationName string, err error)
}

// ErrAuthenticatorNotRegistered is returned by Registry.Get when no
// authenticator has been registered for the requested auth_type.
var ErrAuthenticatorNotRegistered = fmt.Errorf("authn: authenticator not registered")

// Registry maps a wire.AuthType to the Authenticator that handles it.
type Registry struct {
	mu    sync.RWMutex
	byTag map[wire.AuthType]Authenticator
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byTag: make(map[wire.AuthType]Authenticator)}
}

// Register adds an authenticator for authType. It returns an error if one
// is already registered for that type.
func (r *Registry) Register(authType wire.AuthType, a Authenticator) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byTag[authType]; exists {
		return fmt.Errorf("authn: %s already registered", authType)
	}
	r.byTag[authType] = a
	return nil
}

// Get returns the authenticator registered for authType.
func (r *Registry) Get(authType wire.AuthType) (Authenticator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byTag[authType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAuthenticatorNotRegistered, authType)
	}
	return a, nil
}

// List returns the auth types currently registered, in no particular order.
func (r *Registry) List() []wire.AuthType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]wire.AuthType, 0, len(r.byTag))
	for t := range r.byTag {
		out = append(out, t)
	}
	return out
}
