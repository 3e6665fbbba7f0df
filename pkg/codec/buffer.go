package codec

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"
)

const (
	// Uint8Size is the encoded width of a uint8 field
	Uint8Size = 1
	// Uint32Size is the encoded width of a uint32 field
	Uint32Size = 4
	// MaxStringLen is the longest string a 1-byte length prefix can describe
	MaxStringLen = 255
)

// StringSize returns the encoded width of s: its byte length plus the prefix byte.
func StringSize(s string) (int, error) {
	if len(s) > MaxStringLen {
		return 0, errors.Wrapf(ErrSizeOverflow, "%d bytes, max %d", len(s), MaxStringLen)
	}
	return len(s) + Uint8Size, nil
}

// Buffer is a fixed-capacity byte sink with a write cursor.
// It is sized once at construction and never reallocates.
type Buffer struct {
	data []byte
	off  int
}

// NewBuffer allocates a buffer of exactly size bytes
func NewBuffer(size int) *Buffer {
	if size < 0 {
		panic("codec: negative buffer size")
	}
	return &Buffer{data: make([]byte, size)}
}

// WriteUint8 appends a single byte
func (b *Buffer) WriteUint8(v uint8) error {
	if err := b.reserve(Uint8Size); err != nil {
		return err
	}
	b.data[b.off] = v
	b.off += Uint8Size
	return nil
}

// WriteUint32 appends v in little-endian order
func (b *Buffer) WriteUint32(v uint32) error {
	if err := b.reserve(Uint32Size); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(b.data[b.off:], v)
	b.off += Uint32Size
	return nil
}

// WriteString appends a length prefix byte followed by the raw bytes of s.
func (b *Buffer) WriteString(s string) error {
	n, err := StringSize(s)
	if err != nil {
		return err
	}
	if err := b.reserve(n); err != nil {
		return err
	}
	b.data[b.off] = uint8(len(s))
	copy(b.data[b.off+Uint8Size:], s)
	b.off += n
	return nil
}

// reserve checks that n more bytes fit without moving the cursor.
func (b *Buffer) reserve(n int) error {
	if n > len(b.data)-b.off {
		return errors.Wrapf(ErrCapacityExceeded, "write of %d bytes at offset %d, capacity %d", n, b.off, len(b.data))
	}
	return nil
}

// Bytes returns the written region. The slice aliases the buffer storage.
func (b *Buffer) Bytes() []byte {
	return b.data[:b.off]
}

// Len returns the number of bytes written so far
func (b *Buffer) Len() int {
	return b.off
}

// Cap returns the capacity fixed at construction
func (b *Buffer) Cap() int {
	return len(b.data)
}

// Remaining returns how many bytes can still be written
func (b *Buffer) Remaining() int {
	return len(b.data) - b.off
}

// Full reports whether the cursor has reached capacity.
func (b *Buffer) Full() bool {
	return b.off == len(b.data)
}
