package wire

import "io"

// WriteRequest writes a request header followed by its auth and body
// payloads to w as a single framed write. hdr.BodyLen and hdr.AuthLen are
// set from the slice lengths before encoding.
func WriteRequest(w io.Writer, hdr *RequestHeader, auth, body []byte) error {
	hdr.AuthLen = uint16(len(auth))
	hdr.BodyLen = uint32(len(body))

	buf := make([]byte, RequestHeaderSize+len(auth)+len(body))
	hdr.Encode(buf[:RequestHeaderSize])
	n := RequestHeaderSize
	n += copy(buf[n:], auth)
	copy(buf[n:], body)

	_, err := w.Write(buf)
	return err
}
