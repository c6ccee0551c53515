// Package body defines the typed operation/result payloads carried inside
// a wire request/response body, and the length-delimited binary encoding
// used to marshal them. The encoding is hand-written rather than generated
// from a schema: big-endian length prefixes ahead of each variable-length
// field, mirroring the "read length, read payload, validate bound" shape
// used throughout the teacher's own opaque-field helpers.
package body

import (
	"encoding/binary"
	"fmt"
	"io"
)

// MaxFieldLen bounds any single length-prefixed field this codec will
// allocate for, independent of the outer wire.MaxBodyLen guard.
const MaxFieldLen = 64 * 1024 * 1024

// Writer accumulates a body payload using the shared field encoding.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the accumulated payload.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// PutUint8 appends a single byte.
func (w *Writer) PutUint8(v uint8) {
	w.buf = append(w.buf, v)
}

// PutUint16 appends a big-endian uint16.
func (w *Writer) PutUint16(v uint16) {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

// PutUint32 appends a big-endian uint32.
func (w *Writer) PutUint32(v uint32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

// PutUint64 appends a big-endian uint64.
func (w *Writer) PutUint64(v uint64) {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

// PutBytes appends a 4-byte big-endian length prefix followed by b.
func (w *Writer) PutBytes(b []byte) {
	w.PutUint32(uint32(len(b)))
	w.buf = append(w.buf, b...)
}

// PutString appends a length-prefixed UTF-8 string.
func (w *Writer) PutString(s string) {
	w.PutBytes([]byte(s))
}

// PutStringSlice appends a count-prefixed sequence of length-prefixed strings.
func (w *Writer) PutStringSlice(ss []string) {
	w.PutUint32(uint32(len(ss)))
	for _, s := range ss {
		w.PutString(s)
	}
}

// Reader decodes a body payload written by Writer, tracking its own
// position and surfacing truncation and field-size-limit errors.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps b for sequential field decoding.
func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

func (r *Reader) take(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.buf) {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", io.ErrUnexpectedEOF, n, len(r.buf)-r.pos)
	}
	out := r.buf[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

// Uint8 decodes a single byte.
func (r *Reader) Uint8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Uint16 decodes a big-endian uint16.
func (r *Reader) Uint16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// Uint32 decodes a big-endian uint32.
func (r *Reader) Uint32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// Uint64 decodes a big-endian uint64.
func (r *Reader) Uint64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// Bytes decodes a length-prefixed byte slice, copying it out of the
// underlying buffer so the returned slice outlives further reads.
func (r *Reader) Bytes() ([]byte, error) {
	n, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	if n > MaxFieldLen {
		return nil, fmt.Errorf("body: field length %d exceeds limit %d", n, MaxFieldLen)
	}
	raw, err := r.take(int(n))
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, nil
}

// String decodes a length-prefixed UTF-8 string.
func (r *Reader) String() (string, error) {
	b, err := r.Bytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// StringSlice decodes a count-prefixed sequence of length-prefixed strings.
func (r *Reader) StringSlice() ([]string, error) {
	n, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	if n > MaxFieldLen {
		return nil, fmt.Errorf("body: slice length %d exceeds limit %d", n, MaxFieldLen)
	}
	out := make([]string, n)
	for i := range out {
		s, err := r.String()
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// Done reports whether the reader has consumed the entire buffer; callers
// use it to reject trailing garbage after a successful decode.
func (r *Reader) Done() bool {
	return r.pos == len(r.buf)
}
