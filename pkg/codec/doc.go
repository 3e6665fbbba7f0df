// Package codec provides the exact-capacity byte buffer used to serialize
// datagen records, and the matching reader used to parse them back.
//
// # Wire Format
//
// The codec knows three field shapes:
//
//	uint8   [v(1)]
//	uint32  [v(4)]            little-endian
//	string  [len(1)][bytes]   len is the byte length, 0..255
//
// Strings are length-prefixed rather than null-terminated, so embedded zero
// bytes survive and a reader can skip a field without scanning it. The cost is
// a hard ceiling of MaxStringLen bytes per string. Strings are written as raw
// bytes; no character set is enforced.
//
// # Exact Sizing
//
// A Buffer is allocated once with the exact number of bytes that will be
// written and never grows. Callers compute that size up front with the size
// helpers:
//
//	size, err := codec.StringSize(name)
//	if err != nil {
//	    return nil, err // name is longer than 255 bytes
//	}
//	size += codec.Uint32Size
//
//	buf := codec.NewBuffer(size)
//	_ = buf.WriteString(name)
//	_ = buf.WriteUint32(mcc)
//
//	buf.Full() // true
//
// A write that would pass the capacity fails with ErrCapacityExceeded and
// leaves the cursor where it was. That only happens when the size computation
// is wrong, so callers treat it as a programming error.
//
// # Errors
//
//   - ErrSizeOverflow: a string is longer than MaxStringLen bytes
//   - ErrInvalidDiscriminant: an enumeration holds an undeclared value
//   - ErrCapacityExceeded: a write would run past the buffer capacity
//   - ErrShortBuffer: a read needs more bytes than remain
//   - ErrTrailingBytes: input has bytes left after the last field
//
// All are sentinels; wrapped errors still match with errors.Is.
//
// # Thread Safety
//
// A Buffer or Reader belongs to one goroutine while it is being filled or
// consumed. Once a Buffer has been handed off it is not mutated again, and its
// bytes can be shared freely.
package codec
