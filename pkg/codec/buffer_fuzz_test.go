//go:build fuzz
// +build fuzz

package codec

import (
	"testing"

	"github.com/cockroachdb/errors"
)

// FuzzBuffer_StringRoundTrip checks that any string a Buffer accepts reads back unchanged
func FuzzBuffer_StringRoundTrip(f *testing.F) {
	f.Add("", uint32(0))
	f.Add("Al", uint32(123))
	f.Add("a\x00b", uint32(0xFFFFFFFF))

	f.Fuzz(func(t *testing.T, s string, v uint32) {
		size, err := StringSize(s)
		if err != nil {
			if len(s) <= MaxStringLen {
				t.Fatalf("StringSize rejected %d bytes: %v", len(s), err)
			}
			if !errors.Is(err, ErrSizeOverflow) {
				t.Fatalf("expected ErrSizeOverflow, got %v", err)
			}
			return
		}

		buf := NewBuffer(size + Uint32Size)
		if err := buf.WriteString(s); err != nil {
			t.Fatalf("WriteString failed: %v", err)
		}
		if err := buf.WriteUint32(v); err != nil {
			t.Fatalf("WriteUint32 failed: %v", err)
		}
		if !buf.Full() {
			t.Fatalf("buffer not full: %d/%d", buf.Len(), buf.Cap())
		}

		r := NewReader(buf.Bytes())
		got, err := r.ReadString()
		if err != nil {
			t.Fatalf("ReadString failed: %v", err)
		}
		gotV, err := r.ReadUint32()
		if err != nil {
			t.Fatalf("ReadUint32 failed: %v", err)
		}
		if got != s || gotV != v {
			t.Errorf("round trip mismatch: got (%q, %d), want (%q, %d)", got, gotV, s, v)
		}
		if err := r.Finish(); err != nil {
			t.Errorf("Finish failed: %v", err)
		}
	})
}

// FuzzReader_MalformedData checks that arbitrary input never panics the reader
func FuzzReader_MalformedData(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0xFF})
	f.Add([]byte{3, 'a'})

	f.Fuzz(func(t *testing.T, data []byte) {
		r := NewReader(data)
		for r.Remaining() > 0 {
			if _, err := r.ReadString(); err != nil {
				if !errors.Is(err, ErrShortBuffer) {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
		}
	})
}
