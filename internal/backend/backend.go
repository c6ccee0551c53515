// Package backend implements the back-end handler: one instance per
// (provider, content_type, accept_type), responsible for capability
// checking, body decode, operation dispatch, result encode, and status
// wrapping for a single provider.
package backend

import (
	"context"
	"fmt"

	"github.com/parsec-io/parsec-core/internal/converter"
	"github.com/parsec-io/parsec-core/internal/provider"
	"github.com/parsec-io/parsec-core/internal/wire"
)

// Handler is one (provider, content_type, accept_type) back-end instance.
type Handler struct {
	Provider    wire.ProviderID
	ContentType wire.BodyType
	AcceptType  wire.BodyType
	MaxVersion  wire.Version

	Converters *converter.Registry
	Executor   provider.Executor
}

// IsCapable checks hdr against this handler's configured tuple, before any
// body decoding happens. It returns wire.StatusSuccess when capable, or
// the specific mismatch status otherwise.
func (h *Handler) IsCapable(hdr *wire.RequestHeader) wire.ResponseStatus {
	if hdr.Provider != h.Provider {
		return wire.StatusWrongProviderID
	}
	if hdr.ContentType != h.ContentType {
		return wire.StatusContentTypeNotSupported
	}
	if hdr.AcceptType != h.AcceptType {
		return wire.StatusAcceptTypeNotSupported
	}
	if hdr.Version().ExceedsMax(h.MaxVersion) {
		return wire.StatusVersionTooBig
	}
	return wire.StatusSuccess
}

// ExecuteRequest decodes the body under hdr.ContentType and hdr.Opcode,
// dispatches to the provider (passing identity only for identity-bearing
// opcodes), and encodes the typed result back under hdr.AcceptType. Any
// failure at any stage returns the status it maps to and a nil body; the
// caller builds the status-only response from that status.
func (h *Handler) ExecuteRequest(ctx context.Context, hdr *wire.RequestHeader, requestBody []byte, identity string) ([]byte, wire.ResponseStatus) {
	dec, ok := h.Converters.Get(hdr.ContentType)
	if !ok {
		return nil, wire.StatusContentTypeNotSupported
	}

	op, err := dec.DecodeOperation(hdr.Opcode, requestBody)
	if err != nil {
		return nil, wire.StatusDeserializingBodyFailed
	}

	if hdr.Opcode.RequiresIdentity() && identity == "" {
		return nil, wire.StatusAuthenticationError
	}
	if !hdr.Opcode.RequiresIdentity() {
		identity = ""
	}

	result, err := h.Executor.Execute(ctx, identity, hdr.Opcode, op)
	if err != nil {
		if provErr, ok := err.(*provider.Error); ok {
			return nil, provErr.Status
		}
		return nil, wire.StatusPsaErrorGenericError
	}

	enc, ok := h.Converters.Get(hdr.AcceptType)
	if !ok {
		return nil, wire.StatusAcceptTypeNotSupported
	}
	respBody, err := enc.EncodeResult(hdr.Opcode, result)
	if err != nil {
		return nil, wire.StatusSerializingBodyFailed
	}

	return respBody, wire.StatusSuccess
}

// String returns a short identifier for logging.
func (h *Handler) String() string {
	return fmt.Sprintf("backend(provider=%s content=%s accept=%s)", h.Provider, h.ContentType, h.AcceptType)
}
