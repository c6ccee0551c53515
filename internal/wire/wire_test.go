package wire

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestHeaderRoundTrip(t *testing.T) {
	hdr := &RequestHeader{
		VersionMaj:  1,
		VersionMin:  0,
		Provider:    ProviderMbedCrypto,
		Session:     0x1122334455667788,
		ContentType: BodyTypeProtobuf,
		AcceptType:  BodyTypeProtobuf,
		AuthType:    AuthTypeDirect,
		BodyLen:     42,
		AuthLen:     7,
		Opcode:      OpPsaSignHash,
	}

	buf := make([]byte, RequestHeaderSize)
	hdr.Encode(buf)
	require.Len(t, buf, 28)

	got, err := DecodeRequestHeader(bytes.NewReader(buf))
	require.NoError(t, err)
	assert.Equal(t, hdr, got)
}

func TestResponseHeaderRoundTrip(t *testing.T) {
	hdr := &ResponseHeader{
		VersionMaj:  1,
		VersionMin:  0,
		Provider:    ProviderCore,
		Session:     99,
		ContentType: BodyTypeProtobuf,
		BodyLen:     3,
		Opcode:      OpPing,
		Status:      StatusSuccess,
	}

	buf := make([]byte, ResponseHeaderSize)
	hdr.Encode(buf)
	require.Len(t, buf, 26)

	got, err := DecodeResponseHeader(bytes.NewReader(buf))
	require.NoError(t, err)
	assert.Equal(t, hdr, got)
}

func TestDecodeRequestHeaderRejectsBadMagic(t *testing.T) {
	hdr := &RequestHeader{Opcode: OpPing}
	buf := make([]byte, RequestHeaderSize)
	hdr.Encode(buf)
	buf[0] ^= 0xFF // corrupt magic

	_, err := DecodeRequestHeader(bytes.NewReader(buf))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidHeader))
}

func TestDecodeRequestHeaderRejectsBadHdrSize(t *testing.T) {
	hdr := &RequestHeader{Opcode: OpPing}
	buf := make([]byte, RequestHeaderSize)
	hdr.Encode(buf)
	buf[4] = 0 // hdr_size low byte zeroed

	_, err := DecodeRequestHeader(bytes.NewReader(buf))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidHeader))
}

func TestReadRequestRoundTrip(t *testing.T) {
	hdr := &RequestHeader{
		VersionMaj:  1,
		Provider:    ProviderCore,
		ContentType: BodyTypeProtobuf,
		AcceptType:  BodyTypeProtobuf,
		Opcode:      OpPing,
	}
	body := []byte("body-payload")
	auth := []byte("auth-payload")

	var buf bytes.Buffer
	require.NoError(t, WriteRequest(&buf, hdr, auth, body))

	req, err := ReadRequest(&buf, 1<<20)
	require.NoError(t, err)
	assert.Equal(t, body, req.Body)
	assert.Equal(t, auth, req.Auth)
	assert.Equal(t, uint32(len(body)), req.Header.BodyLen)
	assert.Equal(t, uint16(len(auth)), req.Header.AuthLen)
}

func TestReadRequestRejectsOversizedBody(t *testing.T) {
	hdr := &RequestHeader{
		VersionMaj:  1,
		Provider:    ProviderCore,
		ContentType: BodyTypeProtobuf,
		AcceptType:  BodyTypeProtobuf,
		Opcode:      OpPing,
	}
	body := make([]byte, 1024)

	var buf bytes.Buffer
	require.NoError(t, WriteRequest(&buf, hdr, nil, body))

	_, err := ReadRequest(&buf, 128)
	require.Error(t, err)

	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, StatusBodyLenTooLarge, decErr.Status)
	// The request header was still decoded, so the response can echo it.
	require.NotNil(t, decErr.Header)
	assert.Equal(t, OpPing, decErr.Header.Opcode)
}

func TestReadRequestRejectsOversizedCombinedLength(t *testing.T) {
	hdr := &RequestHeader{
		VersionMaj:  1,
		Provider:    ProviderCore,
		ContentType: BodyTypeProtobuf,
		AcceptType:  BodyTypeProtobuf,
		Opcode:      OpPing,
	}
	// Neither field alone exceeds the limit, but their sum does.
	body := make([]byte, 100)
	auth := make([]byte, 100)

	var buf bytes.Buffer
	require.NoError(t, WriteRequest(&buf, hdr, auth, body))

	_, err := ReadRequest(&buf, 128)
	require.Error(t, err)

	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, StatusBodyLenTooLarge, decErr.Status)
}

func TestReadRequestInvalidHeaderYieldsZeroedResponse(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0, 0, 0, 0, 0, 0})

	_, err := ReadRequest(&buf, 1<<20)
	require.Error(t, err)

	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, StatusInvalidHeader, decErr.Status)
	assert.Nil(t, decErr.Header)

	resp := decErr.ResponseHeader()
	assert.Equal(t, StatusInvalidHeader, resp.Status)
	assert.Equal(t, ProviderID(0), resp.Provider)
	assert.Equal(t, Opcode(0), resp.Opcode)
}

func TestWriteResponseSetsBodyLen(t *testing.T) {
	hdr := &ResponseHeader{Opcode: OpPing, Status: StatusSuccess}
	body := []byte("pong")

	var buf bytes.Buffer
	require.NoError(t, WriteResponse(&buf, hdr, body))
	assert.Equal(t, uint32(len(body)), hdr.BodyLen)

	resp, err := ReadResponse(&buf, 1<<20)
	require.NoError(t, err)
	assert.Equal(t, body, resp.Body)
	assert.Equal(t, StatusSuccess, resp.Header.Status)
}

func TestVersionExceedsMax(t *testing.T) {
	max := Version{Major: 1, Minor: 0}

	assert.False(t, (Version{Major: 1, Minor: 0}).ExceedsMax(max))
	assert.True(t, (Version{Major: 1, Minor: 1}).ExceedsMax(max))
	assert.True(t, (Version{Major: 2, Minor: 0}).ExceedsMax(max))
	assert.False(t, (Version{Major: 0, Minor: 9}).ExceedsMax(max))
}

func TestOpcodeRequiresIdentity(t *testing.T) {
	assert.False(t, OpPing.RequiresIdentity())
	assert.False(t, OpListProviders.RequiresIdentity())
	assert.False(t, OpListOpcodes.RequiresIdentity())
	assert.False(t, OpListAuthenticators.RequiresIdentity())
	assert.True(t, OpListKeys.RequiresIdentity())
	assert.True(t, OpPsaGenerateKey.RequiresIdentity())
}

func TestStringersFallBackOnUnknownValues(t *testing.T) {
	assert.Equal(t, "ProviderID(99)", ProviderID(99).String())
	assert.Equal(t, "BodyType(9)", BodyType(9).String())
	assert.Equal(t, "AuthType(9)", AuthType(9).String())
	assert.Equal(t, "Opcode(999)", Opcode(999).String())
	assert.Equal(t, "ResponseStatus(999)", ResponseStatus(999).String())
}
