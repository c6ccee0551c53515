// Package converter translates between a wire body's opaque bytes and the
// typed operation/result values the rest of the service operates on. A
// Converter is selected per request by the wire's content_type/accept_type
// tag, through a Registry.
package converter

import (
	"fmt"

	"github.com/parsec-io/parsec-core/internal/wire"
)

// Converter decodes request bodies into Operation values and encodes
// Result values back into response bodies, for one wire.BodyType.
type Converter interface {
	DecodeOperation(opcode wire.Opcode, body []byte) (any, error)
	EncodeResult(opcode wire.Opcode, result any) ([]byte, error)
}

// ErrUnsupportedOpcode is returned by a Converter when asked to decode or
// encode a payload for an opcode it has no mapping for.
var ErrUnsupportedOpcode = fmt.Errorf("converter: unsupported opcode")
