package codec

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"
)

// Reader consumes fields written by a Buffer, in the same order.
type Reader struct {
	data []byte
	off  int
}

// NewReader creates a reader over data. Strings returned by ReadString are
// copies and do not alias data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// ReadUint8 reads a single byte
func (r *Reader) ReadUint8() (uint8, error) {
	if err := r.need(Uint8Size); err != nil {
		return 0, err
	}
	v := r.data[r.off]
	r.off += Uint8Size
	return v, nil
}

// ReadUint32 reads a little-endian uint32
func (r *Reader) ReadUint32() (uint32, error) {
	if err := r.need(Uint32Size); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.data[r.off:])
	r.off += Uint32Size
	return v, nil
}

// ReadString reads a length prefix byte and that many raw bytes.
func (r *Reader) ReadString() (string, error) {
	if err := r.need(Uint8Size); err != nil {
		return "", err
	}
	n := int(r.data[r.off])
	if err := r.need(Uint8Size + n); err != nil {
		return "", err
	}
	start := r.off + Uint8Size
	s := string(r.data[start : start+n])
	r.off = start + n
	return s, nil
}

func (r *Reader) need(n int) error {
	if n > len(r.data)-r.off {
		return errors.Wrapf(ErrShortBuffer, "need %d bytes at offset %d, have %d", n, r.off, len(r.data)-r.off)
	}
	return nil
}

// Offset returns the number of bytes consumed
func (r *Reader) Offset() int {
	return r.off
}

// Remaining returns the number of unread bytes
func (r *Reader) Remaining() int {
	return len(r.data) - r.off
}

// Finish returns ErrTrailingBytes if any input is left unread.
func (r *Reader) Finish() error {
	if r.off != len(r.data) {
		return errors.Wrapf(ErrTrailingBytes, "%d unread bytes", len(r.data)-r.off)
	}
	return nil
}
