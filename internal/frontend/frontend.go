// Package frontend implements the per-connection driver: decode one
// request, authenticate it, dispatch it, encode and write back exactly one
// response, then let the caller close the stream.
package frontend

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/parsec-io/parsec-core/internal/authn"
	"github.com/parsec-io/parsec-core/internal/dispatch"
	"github.com/parsec-io/parsec-core/internal/logger"
	"github.com/parsec-io/parsec-core/internal/metrics"
	"github.com/parsec-io/parsec-core/internal/wire"
)

// Handler drives exactly one request/response pair per invocation.
type Handler struct {
	Auth       *authn.Registry
	Dispatcher *dispatch.Dispatcher
	BodyLimit  uint32
	Log        *slog.Logger

	// Metrics records per-request counters/histograms. Nil disables
	// collection with zero overhead.
	Metrics metrics.RequestMetrics
}

// logger returns h.Log, or slog.Default() if unset.
func (h *Handler) logger() *slog.Logger {
	if h.Log != nil {
		return h.Log
	}
	return slog.Default()
}

// noopMetrics satisfies metrics.RequestMetrics with no-op methods, so
// HandleConnection never has to guard a nil interface value itself.
type noopMetrics struct{}

func (noopMetrics) RecordRequest(string, string, string, time.Duration) {}
func (noopMetrics) RecordRequestStart(string, string)                   {}
func (noopMetrics) RecordRequestEnd(string, string)                     {}
func (noopMetrics) SetActiveConnections(int)                            {}

func (h *Handler) metrics() metrics.RequestMetrics {
	if h.Metrics != nil {
		return h.Metrics
	}
	return noopMetrics{}
}

// HandleConnection reads one request from rw, authenticates and dispatches
// it, and writes back one response. It never returns an error for a
// request-shaped failure (those become a status-only response written to
// rw); it returns an error only when rw itself could not be read from or
// written to.
func (h *Handler) HandleConnection(ctx context.Context, rw io.ReadWriter, transport authn.TransportInfo) error {
	req, err := wire.ReadRequest(rw, h.BodyLimit)
	if err != nil {
		var decErr *wire.DecodeError
		if errors.As(err, &decErr) {
			h.logger().Warn("request decode failed", "status", decErr.Status, logger.ErrDetail(decErr.Err))
			return wire.WriteResponse(rw, decErr.ResponseHeader(), nil)
		}
		return err
	}

	provider := req.Header.Provider.String()
	opcode := req.Header.Opcode.String()
	m := h.metrics()
	m.RecordRequestStart(provider, opcode)
	defer m.RecordRequestEnd(provider, opcode)
	start := time.Now()

	identity, status := h.authenticate(ctx, req.Header, req.Auth, transport)
	var respBody []byte
	if status == wire.StatusSuccess {
		respBody, status = h.Dispatcher.Dispatch(ctx, req.Header, req.Body, identity)
	}
	m.RecordRequest(provider, opcode, status.String(), time.Since(start))

	respHdr := wire.EchoResponseHeader(req.Header, status)
	if err := wire.WriteResponse(rw, respHdr, respBody); err != nil {
		h.logger().Warn("response write failed", "error", err)
		return err
	}
	return nil
}

func (h *Handler) authenticate(ctx context.Context, hdr *wire.RequestHeader, authBytes []byte, transport authn.TransportInfo) (string, wire.ResponseStatus) {
	if hdr.AuthType == wire.AuthTypeNoAuth {
		return "", wire.StatusSuccess
	}

	a, err := h.Auth.Get(hdr.AuthType)
	if err != nil {
		return "", wire.StatusAuthenticatorNotRegistered
	}

	identity, err := a.Authenticate(ctx, authBytes, transport)
	if err != nil {
		h.logger().Warn("authentication failed", "auth_type", hdr.AuthType, logger.ErrDetail(err))
		return "", wire.StatusAuthenticationError
	}
	return identity, wire.StatusSuccess
}
