package logger

import (
	"log/slog"
)

// Standard field keys for structured logging.
// Use these keys consistently across all log statements so that a single
// request's fields stay queryable across the front-end, dispatcher, and
// provider layers.
const (
	// ========================================================================
	// Distributed Tracing
	// ========================================================================
	KeyTraceID = "trace_id" // OpenTelemetry trace ID for request correlation
	KeySpanID  = "span_id"  // OpenTelemetry span ID for operation tracking

	// ========================================================================
	// Wire Request
	// ========================================================================
	KeyProvider    = "provider"     // Provider ID the request targeted
	KeyOpcode      = "opcode"       // Operation opcode
	KeyContentType = "content_type" // Body wire encoding of the request
	KeyAcceptType  = "accept_type"  // Body wire encoding requested for the response
	KeyVersionMaj  = "version_maj"  // Wire protocol major version
	KeyVersionMin  = "version_min"  // Wire protocol minor version
	KeyBodyLen     = "body_len"     // Decoded request body length in bytes
	KeyAuthLen     = "auth_len"     // Raw authentication field length in bytes

	// ========================================================================
	// Authentication & Identity
	// ========================================================================
	KeyAuthType = "auth_type" // Authenticator tag used for the request
	KeyAppName  = "app_name"  // Resolved application identity
	KeyPeerUID  = "peer_uid"  // Unix peer credential UID (SO_PEERCRED)
	KeyPeerGID  = "peer_gid"  // Unix peer credential GID (SO_PEERCRED)

	// ========================================================================
	// Keys
	// ========================================================================
	KeyKeyName   = "key_name"  // Client-chosen key name within a KeyTriple
	KeyKeyID     = "key_id"    // Provider-internal key identifier
	KeyKeyType   = "key_type"  // PSA key type
	KeyAlgorithm = "algorithm" // PSA algorithm used for the operation

	// ========================================================================
	// Connection
	// ========================================================================
	KeySocketPath   = "socket_path"   // Listening Unix domain socket path
	KeyConnectionID = "connection_id" // Per-connection identifier
	KeyClientAddr   = "client_addr"   // Peer address string (best effort for Unix sockets)

	// ========================================================================
	// Operation Metadata
	// ========================================================================
	KeyStatus     = "status"      // wire.ResponseStatus of the completed request
	KeyDurationMs = "duration_ms" // Operation duration in milliseconds
	KeyError      = "error"       // Error message
	KeyErrorCode  = "error_code"  // Numeric error code

	// ========================================================================
	// Persistence Backend (keyinfo)
	// ========================================================================
	KeyStoreName = "store_name" // Keyinfo backend name: memory, ondisk, badger, sql
	KeyTriplesN  = "triples_n"  // Count of key triples touched by an operation

	// KeyAuthBytes would carry the raw authentication payload (AP-REQ,
	// JWT, credential blob) for a request. No call site logs it; the key
	// exists so ColorTextHandler's redaction list has a name to match if
	// one ever does.
	KeyAuthBytes = "auth_bytes"
)

// TraceID returns a slog.Attr for OpenTelemetry trace ID.
func TraceID(id string) slog.Attr {
	return slog.String(KeyTraceID, id)
}

// SpanID returns a slog.Attr for OpenTelemetry span ID.
func SpanID(id string) slog.Attr {
	return slog.String(KeySpanID, id)
}

// Provider returns a slog.Attr for a wire provider ID.
func Provider(id uint8) slog.Attr {
	return slog.Any(KeyProvider, id)
}

// Opcode returns a slog.Attr for a wire opcode.
func Opcode(op uint16) slog.Attr {
	return slog.Any(KeyOpcode, op)
}

// ContentType returns a slog.Attr for a request's body encoding.
func ContentType(t uint8) slog.Attr {
	return slog.Any(KeyContentType, t)
}

// AcceptType returns a slog.Attr for a request's accepted response encoding.
func AcceptType(t uint8) slog.Attr {
	return slog.Any(KeyAcceptType, t)
}

// VersionMaj returns a slog.Attr for the wire protocol major version.
func VersionMaj(v uint8) slog.Attr {
	return slog.Any(KeyVersionMaj, v)
}

// VersionMin returns a slog.Attr for the wire protocol minor version.
func VersionMin(v uint8) slog.Attr {
	return slog.Any(KeyVersionMin, v)
}

// BodyLen returns a slog.Attr for a decoded body length.
func BodyLen(n uint32) slog.Attr {
	return slog.Any(KeyBodyLen, n)
}

// AuthLen returns a slog.Attr for a raw authentication field length.
func AuthLen(n uint16) slog.Attr {
	return slog.Any(KeyAuthLen, n)
}

// AuthType returns a slog.Attr for an authenticator tag.
func AuthType(t uint8) slog.Attr {
	return slog.Any(KeyAuthType, t)
}

// AppName returns a slog.Attr for a resolved application identity.
func AppName(name string) slog.Attr {
	return slog.String(KeyAppName, name)
}

// PeerUID returns a slog.Attr for a Unix peer credential UID.
func PeerUID(uid uint32) slog.Attr {
	return slog.Any(KeyPeerUID, uid)
}

// PeerGID returns a slog.Attr for a Unix peer credential GID.
func PeerGID(gid uint32) slog.Attr {
	return slog.Any(KeyPeerGID, gid)
}

// KeyName returns a slog.Attr for a client-chosen key name.
func KeyName(name string) slog.Attr {
	return slog.String(KeyKeyName, name)
}

// KeyID returns a slog.Attr for a provider-internal key identifier.
func KeyID(id string) slog.Attr {
	return slog.String(KeyKeyID, id)
}

// KeyType returns a slog.Attr for a PSA key type.
func KeyType(t uint8) slog.Attr {
	return slog.Any(KeyKeyType, t)
}

// Algorithm returns a slog.Attr for a PSA algorithm.
func Algorithm(alg uint32) slog.Attr {
	return slog.Any(KeyAlgorithm, alg)
}

// SocketPath returns a slog.Attr for the listening socket path.
func SocketPath(path string) slog.Attr {
	return slog.String(KeySocketPath, path)
}

// ConnectionID returns a slog.Attr for a per-connection identifier.
func ConnectionID(id string) slog.Attr {
	return slog.String(KeyConnectionID, id)
}

// ClientAddr returns a slog.Attr for a peer address string.
func ClientAddr(addr string) slog.Attr {
	return slog.String(KeyClientAddr, addr)
}

// Status returns a slog.Attr for a response status.
func Status(status uint16) slog.Attr {
	return slog.Any(KeyStatus, status)
}

// DurationMs returns a slog.Attr for duration in milliseconds.
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Err returns a slog.Attr for an error, or a zero Attr if err is nil.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// ErrorCode returns a slog.Attr for a numeric error code.
func ErrorCode(code int) slog.Attr {
	return slog.Int(KeyErrorCode, code)
}

// StoreName returns a slog.Attr for a keyinfo backend name.
func StoreName(name string) slog.Attr {
	return slog.String(KeyStoreName, name)
}

// TriplesN returns a slog.Attr for a count of key triples.
func TriplesN(n int) slog.Attr {
	return slog.Int(KeyTriplesN, n)
}
