package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parsec-io/parsec-core/internal/wire"
	"github.com/parsec-io/parsec-core/internal/wire/body"
)

func TestProtobufPingRoundTrip(t *testing.T) {
	c := NewProtobuf()

	op, err := c.DecodeOperation(wire.OpPing, nil)
	require.NoError(t, err)
	assert.Equal(t, body.PingOp{}, op)

	raw, err := c.EncodeResult(wire.OpPing, body.PingResult{WireProtocolVersionMaj: 1, WireProtocolVersionMin: 0})
	require.NoError(t, err)

	res, err := body.DecodePingResult(body.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, uint8(1), res.WireProtocolVersionMaj)
}

func TestProtobufPsaGenerateKeyRoundTrip(t *testing.T) {
	c := NewProtobuf()

	w := body.NewWriter()
	op := body.PsaGenerateKeyOp{
		KeyName:    "k1",
		Attributes: body.KeyAttributes{KeyType: body.KeyTypeRSAKeyPair, Bits: 2048},
	}
	op.Encode(w)

	decoded, err := c.DecodeOperation(wire.OpPsaGenerateKey, w.Bytes())
	require.NoError(t, err)
	assert.Equal(t, op, decoded)
}

func TestProtobufRejectsUnknownOpcode(t *testing.T) {
	c := NewProtobuf()
	_, err := c.DecodeOperation(wire.Opcode(999), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedOpcode)
}

func TestProtobufEncodeResultRejectsWrongType(t *testing.T) {
	c := NewProtobuf()
	_, err := c.EncodeResult(wire.OpPing, "not-a-result")
	require.Error(t, err)
}

func TestRegistryRejectsDuplicateRegistration(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(wire.BodyTypeProtobuf, NewProtobuf()))
	err := reg.Register(wire.BodyTypeProtobuf, NewProtobuf())
	require.Error(t, err)

	_, ok := reg.Get(wire.BodyTypeProtobuf)
	assert.True(t, ok)
	_, ok = reg.Get(wire.BodyType(99))
	assert.False(t, ok)
}
