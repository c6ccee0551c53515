package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrInvalidHeader is returned when the magic number or hdr_size field read
// from the stream does not match the expected constant.
var ErrInvalidHeader = errors.New("wire: invalid header")

// RequestHeader is the 28-byte-on-the-wire request header (6-byte
// magic+hdr_size prefix followed by 22 bytes of fields), little-endian.
type RequestHeader struct {
	VersionMaj  uint8
	VersionMin  uint8
	Provider    ProviderID
	Session     uint64
	ContentType BodyType
	AcceptType  BodyType
	AuthType    AuthType
	BodyLen     uint32
	AuthLen     uint16
	Opcode      Opcode
}

// Version returns the (maj, min) pair carried by the header.
func (h RequestHeader) Version() Version {
	return Version{Major: h.VersionMaj, Minor: h.VersionMin}
}

// Encode writes the full 28-byte request header, including the magic and
// hdr_size prefix, to buf (which must be at least 28 bytes).
func (h *RequestHeader) Encode(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], Magic)
	binary.LittleEndian.PutUint16(buf[4:6], RequestHdrSize)
	buf[6] = h.VersionMaj
	buf[7] = h.VersionMin
	buf[8] = uint8(h.Provider)
	binary.LittleEndian.PutUint64(buf[9:17], h.Session)
	buf[17] = uint8(h.ContentType)
	buf[18] = uint8(h.AcceptType)
	buf[19] = uint8(h.AuthType)
	binary.LittleEndian.PutUint32(buf[20:24], h.BodyLen)
	binary.LittleEndian.PutUint16(buf[24:26], h.AuthLen)
	binary.LittleEndian.PutUint16(buf[26:28], uint16(h.Opcode))
}

// RequestHeaderSize is the full size of a request header on the wire.
const RequestHeaderSize = 28

// DecodeRequestHeader reads and validates a request header from r.
//
// It reads the magic and hdr_size fields first; a mismatch on either
// returns ErrInvalidHeader without reading further, so a garbage stream
// never drives a large allocation.
func DecodeRequestHeader(r io.Reader) (*RequestHeader, error) {
	var prefix [6]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return nil, err
	}
	magic := binary.LittleEndian.Uint32(prefix[0:4])
	hdrSize := binary.LittleEndian.Uint16(prefix[4:6])
	if magic != Magic || hdrSize != RequestHdrSize {
		return nil, fmt.Errorf("%w: magic=%#x hdr_size=%d", ErrInvalidHeader, magic, hdrSize)
	}

	rest := make([]byte, RequestHdrSize)
	if _, err := io.ReadFull(r, rest); err != nil {
		return nil, err
	}

	h := &RequestHeader{
		VersionMaj:  rest[0],
		VersionMin:  rest[1],
		Provider:    ProviderID(rest[2]),
		Session:     binary.LittleEndian.Uint64(rest[3:11]),
		ContentType: BodyType(rest[11]),
		AcceptType:  BodyType(rest[12]),
		AuthType:    AuthType(rest[13]),
		BodyLen:     binary.LittleEndian.Uint32(rest[14:18]),
		AuthLen:     binary.LittleEndian.Uint16(rest[18:20]),
		Opcode:      Opcode(binary.LittleEndian.Uint16(rest[20:22])),
	}
	return h, nil
}

// ResponseHeader is the 26-byte-on-the-wire response header.
type ResponseHeader struct {
	VersionMaj  uint8
	VersionMin  uint8
	Provider    ProviderID
	Session     uint64
	ContentType BodyType
	BodyLen     uint32
	Opcode      Opcode
	Status      ResponseStatus
}

// ResponseHeaderSize is the full size of a response header on the wire.
const ResponseHeaderSize = 26

// Encode writes the full 26-byte response header, including the magic and
// hdr_size prefix, to buf (which must be at least 26 bytes).
func (h *ResponseHeader) Encode(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], Magic)
	binary.LittleEndian.PutUint16(buf[4:6], ResponseHdrSize)
	buf[6] = h.VersionMaj
	buf[7] = h.VersionMin
	buf[8] = uint8(h.Provider)
	binary.LittleEndian.PutUint64(buf[9:17], h.Session)
	buf[17] = uint8(h.ContentType)
	binary.LittleEndian.PutUint32(buf[18:22], h.BodyLen)
	binary.LittleEndian.PutUint16(buf[22:24], uint16(h.Opcode))
	binary.LittleEndian.PutUint16(buf[24:26], uint16(h.Status))
}

// DecodeResponseHeader reads and validates a response header from r.
func DecodeResponseHeader(r io.Reader) (*ResponseHeader, error) {
	var prefix [6]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return nil, err
	}
	magic := binary.LittleEndian.Uint32(prefix[0:4])
	hdrSize := binary.LittleEndian.Uint16(prefix[4:6])
	if magic != Magic || hdrSize != ResponseHdrSize {
		return nil, fmt.Errorf("%w: magic=%#x hdr_size=%d", ErrInvalidHeader, magic, hdrSize)
	}

	rest := make([]byte, ResponseHdrSize)
	if _, err := io.ReadFull(r, rest); err != nil {
		return nil, err
	}

	h := &ResponseHeader{
		VersionMaj:  rest[0],
		VersionMin:  rest[1],
		Provider:    ProviderID(rest[2]),
		Session:     binary.LittleEndian.Uint64(rest[3:11]),
		ContentType: BodyType(rest[11]),
		BodyLen:     binary.LittleEndian.Uint32(rest[12:16]),
		Opcode:      Opcode(binary.LittleEndian.Uint16(rest[16:18])),
		Status:      ResponseStatus(binary.LittleEndian.Uint16(rest[18:20])),
	}
	return h, nil
}

// ZeroResponseHeader builds the minimal status-only response header used
// when the request header itself could not be parsed (spec: "zeroed header
// fields and the error status").
func ZeroResponseHeader(status ResponseStatus) *ResponseHeader {
	return &ResponseHeader{Status: status}
}

// EchoResponseHeader builds a response header that echoes the opcode,
// session and version from a successfully decoded request header, the way
// a back-end handler does after executing (or failing to execute) a request.
func EchoResponseHeader(req *RequestHeader, status ResponseStatus) *ResponseHeader {
	return &ResponseHeader{
		VersionMaj:  req.VersionMaj,
		VersionMin:  req.VersionMin,
		Provider:    req.Provider,
		Session:     req.Session,
		ContentType: req.AcceptType,
		Opcode:      req.Opcode,
		Status:      status,
	}
}
