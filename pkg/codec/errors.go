package codec

import "github.com/cockroachdb/errors"

var (
	// ErrSizeOverflow is returned when a string does not fit its 1-byte length prefix.
	ErrSizeOverflow = errors.New("string exceeds length prefix capacity")

	// ErrInvalidDiscriminant is returned when an enumeration value is outside its declared set.
	ErrInvalidDiscriminant = errors.New("invalid enumeration discriminant")

	// ErrCapacityExceeded is returned when a write would run past the buffer capacity.
	ErrCapacityExceeded = errors.New("buffer capacity exceeded")

	// ErrShortBuffer is returned when a read needs more bytes than remain.
	ErrShortBuffer = errors.New("buffer too short")

	// ErrTrailingBytes is returned when input has unread bytes after the last field.
	ErrTrailingBytes = errors.New("trailing bytes after record")
)
