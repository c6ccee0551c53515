package converter

import (
	"fmt"

	"github.com/parsec-io/parsec-core/internal/wire"
	"github.com/parsec-io/parsec-core/internal/wire/body"
)

// Protobuf is the wire.BodyTypeProtobuf converter. Despite the name it does
// not depend on a generated protobuf runtime: no .proto schema accompanies
// this protocol, so it implements the one content_type the protocol
// currently defines as a hand-written length-delimited binary encoding
// over internal/wire/body's fixed operation/result schema.
type Protobuf struct{}

// NewProtobuf returns the Protobuf converter.
func NewProtobuf() *Protobuf {
	return &Protobuf{}
}

// DecodeOperation decodes body bytes into the typed Operation value for
// opcode.
func (Protobuf) DecodeOperation(opcode wire.Opcode, raw []byte) (any, error) {
	r := body.NewReader(raw)

	var (
		op  any
		err error
	)
	switch opcode {
	case wire.OpPing:
		op, err = body.DecodePingOp(r)
	case wire.OpListProviders:
		op, err = body.DecodeListProvidersOp(r)
	case wire.OpListOpcodes:
		op, err = body.DecodeListOpcodesOp(r)
	case wire.OpListAuthenticators:
		op, err = body.DecodeListAuthenticatorsOp(r)
	case wire.OpListKeys:
		op, err = body.DecodeListKeysOp(r)
	case wire.OpListClients:
		op, err = body.DecodeListClientsOp(r)
	case wire.OpPsaGenerateKey:
		op, err = body.DecodePsaGenerateKeyOp(r)
	case wire.OpPsaImportKey:
		op, err = body.DecodePsaImportKeyOp(r)
	case wire.OpPsaExportPublicKey:
		op, err = body.DecodePsaExportPublicKeyOp(r)
	case wire.OpPsaDestroyKey:
		op, err = body.DecodePsaDestroyKeyOp(r)
	case wire.OpPsaSignHash:
		op, err = body.DecodePsaSignHashOp(r)
	case wire.OpPsaVerifyHash:
		op, err = body.DecodePsaVerifyHashOp(r)
	case wire.OpPsaAsymmetricEncrypt:
		op, err = body.DecodePsaAsymmetricEncryptOp(r)
	case wire.OpPsaAsymmetricDecrypt:
		op, err = body.DecodePsaAsymmetricDecryptOp(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOpcode, opcode)
	}
	if err != nil {
		return nil, err
	}
	if !r.Done() {
		return nil, fmt.Errorf("converter: trailing bytes after %s body", opcode)
	}
	return op, nil
}

// EncodeResult encodes a typed Result value for opcode back into body
// bytes. result must be the body.*Result type matching opcode, or a
// wire.ResponseStatus-indexed PSA error wrapping no payload at all
// (callers encode an empty body directly in that case; EncodeResult is
// only reached on success).
func (Protobuf) EncodeResult(opcode wire.Opcode, result any) ([]byte, error) {
	res, ok := result.(body.Result)
	if !ok {
		return nil, fmt.Errorf("converter: result for %s is not a body.Result (got %T)", opcode, result)
	}
	w := body.NewWriter()
	res.Encode(w)
	return w.Bytes(), nil
}
