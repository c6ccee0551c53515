package wire

import (
	"io"
)

// Request is a fully decoded request: header plus the opaque body and auth
// payloads, whose interpretation is deferred to a converter.
type Request struct {
	Header *RequestHeader
	Body   []byte
	Auth   []byte
}

// MaxBodyLen bounds the body_len field read off the wire regardless of what
// a caller's own limit allows, guarding against a malicious or corrupt
// length field driving an unbounded allocation.
const MaxBodyLen = 128 * 1024 * 1024

// ReadRequest reads one full request from r: the header, then exactly
// header.BodyLen bytes of body and header.AuthLen bytes of auth data.
//
// bodyLimit further restricts the accepted body_len+auth_len (the
// socket-level configured cap); a request whose combined length exceeds it
// (or MaxBodyLen) decodes the header
// successfully but returns a *DecodeError carrying StatusBodyLenTooLarge so
// the caller can still echo the request's own header fields in its reply.
func ReadRequest(r io.Reader, bodyLimit uint32) (*Request, error) {
	hdr, err := DecodeRequestHeader(r)
	if err != nil {
		return nil, newDecodeError(StatusInvalidHeader, nil, err)
	}

	total := uint64(hdr.BodyLen) + uint64(hdr.AuthLen)
	if total > MaxBodyLen || total > uint64(bodyLimit) {
		// Drain is not attempted: the connection is unusable past this
		// point because the remaining framing cannot be trusted, so the
		// caller is expected to reply and close. Checked before either
		// payload is allocated, so a forged length never drives an
		// allocation on its own.
		return nil, newDecodeError(StatusBodyLenTooLarge, hdr, nil)
	}

	auth := make([]byte, hdr.AuthLen)
	if hdr.AuthLen > 0 {
		if _, err := io.ReadFull(r, auth); err != nil {
			return nil, newDecodeError(StatusConnectionError, hdr, err)
		}
	}

	body := make([]byte, hdr.BodyLen)
	if hdr.BodyLen > 0 {
		if _, err := io.ReadFull(r, body); err != nil {
			return nil, newDecodeError(StatusConnectionError, hdr, err)
		}
	}

	return &Request{Header: hdr, Body: body, Auth: auth}, nil
}
