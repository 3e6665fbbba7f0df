package store

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ssargent/datagen/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrame_EncodeDecodeRoundTrip(t *testing.T) {
	testCases := []struct {
		name    string
		kind    model.Kind
		payload []byte
	}{
		{name: "user payload", kind: model.KindUser, payload: []byte{2, 'A', 'l', 1, 'B', 0}},
		{name: "empty payload", kind: model.KindMerchant, payload: []byte{}},
		{name: "binary payload", kind: model.KindCard, payload: []byte{0xFF, 0x00, 0xFE}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			frame, err := NewFrame(tc.kind, tc.payload)
			require.NoError(t, err)

			encoded := frame.Encode()
			assert.Len(t, encoded, FrameHeaderSize+len(tc.payload))

			decoded, err := DecodeFrame(encoded)
			require.NoError(t, err)
			require.NoError(t, decoded.Validate())

			assert.Equal(t, tc.kind, decoded.Kind)
			assert.Equal(t, uint32(len(tc.payload)), decoded.Size)
			assert.Equal(t, tc.payload, decoded.Payload)
			assert.Equal(t, frame.Timestamp, decoded.Timestamp)
			assert.WithinDuration(t, time.Now(), decoded.Time(), time.Minute)
		})
	}
}

func TestFrame_HeaderLayout(t *testing.T) {
	frame, err := NewFrame(model.KindCard, []byte{1, 2, 3})
	require.NoError(t, err)
	encoded := frame.Encode()

	assert.Equal(t, frame.CRC32, binary.LittleEndian.Uint32(encoded[0:4]))
	assert.Equal(t, byte(model.KindCard), encoded[4])
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(encoded[5:9]))
	assert.Equal(t, frame.Timestamp, binary.LittleEndian.Uint64(encoded[9:17]))
	assert.Equal(t, []byte{1, 2, 3}, encoded[17:])
}

func TestFrame_CorruptionDetected(t *testing.T) {
	frame, err := NewFrame(model.KindUser, []byte{2, 'A', 'l', 1, 'B', 0})
	require.NoError(t, err)

	for _, pos := range []int{0, 4, 6, 12, FrameHeaderSize} {
		encoded := frame.Encode()
		encoded[pos] ^= 0xFF

		decoded, err := DecodeFrame(encoded)
		if err != nil {
			assert.True(t, errors.Is(err, ErrCorruption))
			continue
		}
		assert.True(t, errors.Is(decoded.Validate(), ErrCorruption), "corruption at byte %d not detected", pos)
	}
}

func TestDecodeFrame_Malformed(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: []byte{}},
		{name: "short header", data: []byte{1, 2, 3}},
		{
			name: "payload shorter than declared",
			data: func() []byte {
				buf := make([]byte, FrameHeaderSize+2)
				binary.LittleEndian.PutUint32(buf[5:9], 10)
				return buf
			}(),
		},
		{
			name: "payload above max",
			data: func() []byte {
				buf := make([]byte, FrameHeaderSize)
				binary.LittleEndian.PutUint32(buf[5:9], MaxPayloadSize+1)
				return buf
			}(),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeFrame(tc.data)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrCorruption))
		})
	}
}

func TestNewFrame_TooLarge(t *testing.T) {
	_, err := NewFrame(model.KindUser, make([]byte, MaxPayloadSize+1))
	assert.Error(t, err)
}
