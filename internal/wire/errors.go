package wire

import "fmt"

// DecodeError is returned by ReadRequest when a request could not be decoded
// into a dispatchable Request. It always carries the ResponseStatus the
// front-end must send back; Header is non-nil only when enough of the
// request was parsed to echo version/session/opcode in the reply, per the
// wire protocol's requirement that a header failure gets a minimal,
// zeroed-header status response while a body/auth failure gets one that
// echoes the request's own header fields.
type DecodeError struct {
	Status ResponseStatus
	Header *RequestHeader
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("wire: decode failed (%s): %v", e.Status, e.Err)
	}
	return fmt.Sprintf("wire: decode failed (%s)", e.Status)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ResponseHeader builds the header a front-end should echo back for this
// failure: zeroed when the request header itself never decoded, otherwise
// built from the partially-decoded header.
func (e *DecodeError) ResponseHeader() *ResponseHeader {
	if e.Header == nil {
		return ZeroResponseHeader(e.Status)
	}
	return EchoResponseHeader(e.Header, e.Status)
}

func newDecodeError(status ResponseStatus, hdr *RequestHeader, err error) *DecodeError {
	return &DecodeError{Status: status, Header: hdr, Err: err}
}
