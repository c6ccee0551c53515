// Package dispatch implements the dispatcher: routes a decoded request to
// the back-end handler registered for its provider-id.
package dispatch

import (
	"context"

	"github.com/parsec-io/parsec-core/internal/backend"
	"github.com/parsec-io/parsec-core/internal/wire"
)

// Dispatcher holds a provider-id -> back-end-handler map, built once at
// startup and read-only for the lifetime of the process: no lock is
// needed since nothing ever mutates it after construction.
type Dispatcher struct {
	handlers map[wire.ProviderID]*backend.Handler
}

// New returns a Dispatcher over the given handlers, keyed by their own
// Provider field.
func New(handlers ...*backend.Handler) *Dispatcher {
	byID := make(map[wire.ProviderID]*backend.Handler, len(handlers))
	for _, h := range handlers {
		byID[h.Provider] = h
	}
	return &Dispatcher{handlers: byID}
}

// Dispatch looks up the handler for req's provider, checks capability, and
// forwards to ExecuteRequest. It returns the response body and status the
// front-end should send back.
func (d *Dispatcher) Dispatch(ctx context.Context, hdr *wire.RequestHeader, requestBody []byte, identity string) ([]byte, wire.ResponseStatus) {
	h, ok := d.handlers[hdr.Provider]
	if !ok {
		return nil, wire.StatusWrongProviderID
	}
	if status := h.IsCapable(hdr); status != wire.StatusSuccess {
		return nil, status
	}
	return h.ExecuteRequest(ctx, hdr, requestBody, identity)
}
