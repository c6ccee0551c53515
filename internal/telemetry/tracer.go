package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Common attribute keys for request tracing.
// These follow OpenTelemetry semantic conventions where applicable.
const (
	// ========================================================================
	// Connection attributes
	// ========================================================================
	AttrSocketPath   = "service.socket_path"
	AttrConnectionID = "service.connection_id"

	// ========================================================================
	// Wire request attributes
	// ========================================================================
	AttrProvider    = "wire.provider"
	AttrOpcode      = "wire.opcode"
	AttrContentType = "wire.content_type"
	AttrAcceptType  = "wire.accept_type"
	AttrVersionMaj  = "wire.version_maj"
	AttrVersionMin  = "wire.version_min"
	AttrBodyLen     = "wire.body_len"
	AttrStatus      = "wire.status"

	// ========================================================================
	// Authentication / identity attributes
	// ========================================================================
	AttrAuthType = "auth.type"
	AttrAppName  = "auth.app_name"
	AttrPeerUID  = "auth.peer_uid"
	AttrPeerGID  = "auth.peer_gid"

	// ========================================================================
	// Key attributes
	// ========================================================================
	AttrKeyName   = "key.name"
	AttrKeyType   = "key.type"
	AttrAlgorithm = "key.algorithm"

	// ========================================================================
	// Persistence backend attributes
	// ========================================================================
	AttrStoreName = "store.name"
	AttrStoreType = "store.type"
)

// Span names for operations.
const (
	// Root span for a single wire request/response cycle
	SpanRequest = "wire.request"

	// Front-end stages
	SpanDecodeHeader  = "wire.decode_header"
	SpanAuthenticate  = "wire.authenticate"
	SpanDispatch      = "wire.dispatch"
	SpanEncodeResult  = "wire.encode_result"

	// Provider operations, named after the PSA opcode they implement
	SpanPsaGenerateKey      = "provider.psa_generate_key"
	SpanPsaImportKey        = "provider.psa_import_key"
	SpanPsaExportPublicKey  = "provider.psa_export_public_key"
	SpanPsaDestroyKey       = "provider.psa_destroy_key"
	SpanPsaSignHash         = "provider.psa_sign_hash"
	SpanPsaVerifyHash       = "provider.psa_verify_hash"
	SpanPsaAsymmetricEncrypt = "provider.psa_asymmetric_encrypt"
	SpanPsaAsymmetricDecrypt = "provider.psa_asymmetric_decrypt"

	// Keyinfo persistence operations
	SpanKeyinfoInsert = "keyinfo.insert"
	SpanKeyinfoGet    = "keyinfo.get"
	SpanKeyinfoRemove = "keyinfo.remove"
)

// SocketPath returns an attribute for the listening socket path.
func SocketPath(path string) attribute.KeyValue {
	return attribute.String(AttrSocketPath, path)
}

// ConnectionID returns an attribute for a per-connection identifier.
func ConnectionID(id string) attribute.KeyValue {
	return attribute.String(AttrConnectionID, id)
}

// Provider returns an attribute for a wire provider ID.
func Provider(id uint8) attribute.KeyValue {
	return attribute.Int64(AttrProvider, int64(id))
}

// Opcode returns an attribute for a wire opcode.
func Opcode(op uint16) attribute.KeyValue {
	return attribute.Int64(AttrOpcode, int64(op))
}

// ContentType returns an attribute for a request's body encoding.
func ContentType(t uint8) attribute.KeyValue {
	return attribute.Int64(AttrContentType, int64(t))
}

// AcceptType returns an attribute for a request's accepted response encoding.
func AcceptType(t uint8) attribute.KeyValue {
	return attribute.Int64(AttrAcceptType, int64(t))
}

// BodyLen returns an attribute for a decoded body length.
func BodyLen(n uint32) attribute.KeyValue {
	return attribute.Int64(AttrBodyLen, int64(n))
}

// Status returns an attribute for a response status.
func Status(status uint16) attribute.KeyValue {
	return attribute.Int64(AttrStatus, int64(status))
}

// AuthType returns an attribute for an authenticator tag.
func AuthType(t uint8) attribute.KeyValue {
	return attribute.Int64(AttrAuthType, int64(t))
}

// AppName returns an attribute for a resolved application identity.
func AppName(name string) attribute.KeyValue {
	return attribute.String(AttrAppName, name)
}

// PeerUID returns an attribute for a Unix peer credential UID.
func PeerUID(uid uint32) attribute.KeyValue {
	return attribute.Int64(AttrPeerUID, int64(uid))
}

// PeerGID returns an attribute for a Unix peer credential GID.
func PeerGID(gid uint32) attribute.KeyValue {
	return attribute.Int64(AttrPeerGID, int64(gid))
}

// KeyName returns an attribute for a client-chosen key name.
func KeyName(name string) attribute.KeyValue {
	return attribute.String(AttrKeyName, name)
}

// KeyType returns an attribute for a PSA key type.
func KeyType(t uint8) attribute.KeyValue {
	return attribute.Int64(AttrKeyType, int64(t))
}

// Algorithm returns an attribute for a PSA algorithm.
func Algorithm(alg uint32) attribute.KeyValue {
	return attribute.Int64(AttrAlgorithm, int64(alg))
}

// StoreName returns an attribute for a keyinfo backend name.
func StoreName(name string) attribute.KeyValue {
	return attribute.String(AttrStoreName, name)
}

// StoreType returns an attribute for a keyinfo backend type.
func StoreType(t string) attribute.KeyValue {
	return attribute.String(AttrStoreType, t)
}

// StartRequestSpan starts the root span for a single wire request/response
// cycle, tagging it with the provider and opcode once the header has been
// decoded.
func StartRequestSpan(ctx context.Context, provider uint8, opcode uint16, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{Provider(provider), Opcode(opcode)}
	allAttrs = append(allAttrs, attrs...)
	return StartSpan(ctx, SpanRequest, trace.WithAttributes(allAttrs...))
}

// StartProviderSpan starts a span around a single provider method call.
func StartProviderSpan(ctx context.Context, spanName string, keyName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{KeyName(keyName)}
	allAttrs = append(allAttrs, attrs...)
	return StartSpan(ctx, spanName, trace.WithAttributes(allAttrs...))
}

// StartKeyinfoSpan starts a span for a keyinfo persistence operation.
func StartKeyinfoSpan(ctx context.Context, spanName string, storeName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{StoreName(storeName)}
	allAttrs = append(allAttrs, attrs...)
	return StartSpan(ctx, spanName, trace.WithAttributes(allAttrs...))
}
