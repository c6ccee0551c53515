// Package keyinfo defines the durable mapping from an application's key
// identity to a provider-opaque key handle, and the KeyInfo Manager
// contract every persistence backend implements.
package keyinfo

import "github.com/parsec-io/parsec-core/internal/wire/body"

// KeyTriple uniquely identifies a key within the service. It is
// comparable, so it can be used directly as a map key: equality and
// hashing are over all three fields, exactly as the data model requires.
type KeyTriple struct {
	Application string
	Provider    uint8
	KeyName     string
}

// KeyInfo is the durable record for one KeyTriple: a provider-opaque
// key-id handle plus the attributes it was created or imported with.
type KeyInfo struct {
	KeyID      []byte
	Attributes body.KeyAttributes
}

// Manager is the capability set every key-info persistence backend
// implements: lookup, enumeration and mutation of the KeyTriple -> KeyInfo
// mapping.
type Manager interface {
	// Get returns the KeyInfo for triple, or ok=false if no such key exists.
	Get(triple KeyTriple) (info KeyInfo, ok bool, err error)

	// GetAll returns every KeyTriple/KeyInfo pair on record for provider.
	// Used by a provider's startup reconciliation against its own backing
	// store.
	GetAll(provider uint8) (map[KeyTriple]KeyInfo, error)

	// Insert durably records info for triple, replacing any existing
	// entry, and returns the entry it replaced. prev is the zero value and
	// ok is false if triple had no prior entry, so a single call both
	// performs the write and detects an overwrite without a separate
	// existence check.
	Insert(triple KeyTriple, info KeyInfo) (prev KeyInfo, ok bool, err error)

	// Remove durably deletes the entry for triple and returns the entry it
	// deleted. It is not an error to remove a triple that does not exist;
	// ok is false in that case.
	Remove(triple KeyTriple) (prev KeyInfo, ok bool, err error)

	// Exists reports whether triple has a recorded entry, without
	// decoding its KeyInfo.
	Exists(triple KeyTriple) (bool, error)

	// ListKeys returns the (provider, key-name) pairs owned by
	// application.
	ListKeys(application string) ([]KeyTriple, error)

	// ListClients returns every distinct application with at least one
	// key on record, service-wide.
	ListClients() ([]string, error)
}
