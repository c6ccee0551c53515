package logger

import (
	"context"
	"time"
)

// contextKey is a private type for context keys to avoid collisions
type contextKey struct{}

// logContextKey is the key for LogContext in context.Context
var logContextKey = contextKey{}

// LogContext holds request-scoped logging context for a single wire
// request, carried in a context.Context. The front-end handler,
// dispatcher and providers do not attach one.
type LogContext struct {
	TraceID   string    // OpenTelemetry trace ID
	SpanID    string    // OpenTelemetry span ID
	Provider  uint8     // Wire provider ID
	Opcode    uint16    // Wire opcode
	AppName   string    // Resolved application identity
	AuthType  uint8     // Authenticator tag used for the request
	PeerUID   uint32    // Unix peer credential UID
	PeerGID   uint32    // Unix peer credential GID
	StartTime time.Time // For duration calculation
}

// WithContext returns a new context with the given LogContext
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext retrieves the LogContext from context, or nil if not present
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey).(*LogContext)
	return lc
}

// NewLogContext creates a new LogContext with the current time as StartTime.
func NewLogContext() *LogContext {
	return &LogContext{StartTime: time.Now()}
}

// Clone creates a copy of the LogContext
func (lc *LogContext) Clone() *LogContext {
	if lc == nil {
		return nil
	}
	clone := *lc
	return &clone
}

// WithRequest returns a copy with the provider and opcode set.
func (lc *LogContext) WithRequest(provider uint8, opcode uint16) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.Provider = provider
		clone.Opcode = opcode
	}
	return clone
}

// WithIdentity returns a copy with the resolved application identity set.
func (lc *LogContext) WithIdentity(authType uint8, appName string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.AuthType = authType
		clone.AppName = appName
	}
	return clone
}

// WithPeer returns a copy with Unix peer credentials set.
func (lc *LogContext) WithPeer(uid, gid uint32) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.PeerUID = uid
		clone.PeerGID = gid
	}
	return clone
}

// WithTrace returns a copy with trace info set
func (lc *LogContext) WithTrace(traceID, spanID string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.TraceID = traceID
		clone.SpanID = spanID
	}
	return clone
}

// DurationMs returns the duration since StartTime in milliseconds
func (lc *LogContext) DurationMs() float64 {
	if lc == nil || lc.StartTime.IsZero() {
		return 0
	}
	return float64(time.Since(lc.StartTime).Microseconds()) / 1000.0
}
