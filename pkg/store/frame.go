package store

import (
	"encoding/binary"
	"hash/crc32"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ssargent/datagen/pkg/model"
)

const (
	// FrameHeaderSize is CRC32(4) + Kind(1) + Size(4) + Timestamp(8)
	FrameHeaderSize = 17

	// MaxPayloadSize bounds a frame payload. The largest record (a User with
	// three 255-byte strings) is 768 bytes; anything bigger is corruption.
	MaxPayloadSize = 1 << 16
)

// Frame wraps one encoded record in the log.
//
// Format: [CRC32(4)][Kind(1)][Size(4)][Timestamp(8)][Payload(Size)], little-endian.
// The CRC covers every byte after the CRC field.
type Frame struct {
	CRC32     uint32     // CRC32 checksum for integrity
	Kind      model.Kind // Record kind of the payload
	Size      uint32     // Payload size in bytes
	Timestamp uint64     // Unix timestamp in nanoseconds
	Payload   []byte     // Encoded record
}

// NewFrame creates a frame for an encoded payload stamped with the current time
func NewFrame(kind model.Kind, payload []byte) (*Frame, error) {
	if len(payload) > MaxPayloadSize {
		return nil, errors.Newf("payload of %d bytes exceeds max %d", len(payload), MaxPayloadSize)
	}
	f := &Frame{
		Kind:      kind,
		Size:      uint32(len(payload)),
		Timestamp: uint64(time.Now().UnixNano()),
		Payload:   payload,
	}
	f.CRC32 = f.calculateCRC32()
	return f, nil
}

// EncodedSize returns the total size of the frame on disk
func (f *Frame) EncodedSize() int {
	return FrameHeaderSize + len(f.Payload)
}

// Encode serializes the frame
func (f *Frame) Encode() []byte {
	buf := make([]byte, f.EncodedSize())
	putHeader(buf, f)
	copy(buf[FrameHeaderSize:], f.Payload)
	return buf
}

func putHeader(buf []byte, f *Frame) {
	binary.LittleEndian.PutUint32(buf[0:], f.CRC32)
	buf[4] = uint8(f.Kind)
	binary.LittleEndian.PutUint32(buf[5:], f.Size)
	binary.LittleEndian.PutUint64(buf[9:], f.Timestamp)
}

// decodeHeader parses the fixed header; the payload is left nil.
func decodeHeader(header []byte) (*Frame, error) {
	if len(header) < FrameHeaderSize {
		return nil, errors.Wrap(ErrCorruption, "data too short for frame header")
	}
	f := &Frame{
		CRC32:     binary.LittleEndian.Uint32(header[0:4]),
		Kind:      model.Kind(header[4]),
		Size:      binary.LittleEndian.Uint32(header[5:9]),
		Timestamp: binary.LittleEndian.Uint64(header[9:17]),
	}
	if f.Size > MaxPayloadSize {
		return nil, errors.Wrapf(ErrCorruption, "payload size %d exceeds max %d", f.Size, MaxPayloadSize)
	}
	return f, nil
}

// DecodeFrame deserializes a frame from data. The payload aliases data.
func DecodeFrame(data []byte) (*Frame, error) {
	f, err := decodeHeader(data)
	if err != nil {
		return nil, err
	}
	end := FrameHeaderSize + int(f.Size)
	if len(data) < end {
		return nil, errors.Wrapf(ErrCorruption, "data too short for payload: %d < %d", len(data), end)
	}
	f.Payload = data[FrameHeaderSize:end]
	return f, nil
}

// Validate checks the frame integrity using CRC32
func (f *Frame) Validate() error {
	if sum := f.calculateCRC32(); f.CRC32 != sum {
		return errors.Wrapf(ErrCorruption, "CRC32 mismatch: %d != %d", f.CRC32, sum)
	}
	return nil
}

// Record decodes the payload into a model record
func (f *Frame) Record() (model.Record, error) {
	return model.Decode(f.Kind, f.Payload)
}

// Time returns the frame timestamp
func (f *Frame) Time() time.Time {
	return time.Unix(0, int64(f.Timestamp))
}

// calculateCRC32 computes the checksum over the header (minus the CRC) and payload
func (f *Frame) calculateCRC32() uint32 {
	var header [FrameHeaderSize]byte
	putHeader(header[:], f)

	crc := crc32.NewIEEE()
	_, _ = crc.Write(header[4:])
	_, _ = crc.Write(f.Payload)
	return crc.Sum32()
}
