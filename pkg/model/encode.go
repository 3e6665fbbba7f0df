package model

import (
	"github.com/cockroachdb/errors"
	"github.com/ssargent/datagen/pkg/codec"
)

// fieldWriter writes fields into a buffer and keeps the first error.
type fieldWriter struct {
	buf *codec.Buffer
	err error
}

func newFieldWriter(size int) *fieldWriter {
	return &fieldWriter{buf: codec.NewBuffer(size)}
}

func (w *fieldWriter) uint8(v uint8) {
	if w.err == nil {
		w.err = w.buf.WriteUint8(v)
	}
}

func (w *fieldWriter) uint32(v uint32) {
	if w.err == nil {
		w.err = w.buf.WriteUint32(v)
	}
}

func (w *fieldWriter) string(s string) {
	if w.err == nil {
		w.err = w.buf.WriteString(s)
	}
}

// finish returns the buffer only if every write succeeded and it is exactly full.
// A size mismatch means the record's Size is wrong and is reported as an
// assertion failure that still matches codec.ErrCapacityExceeded.
func (w *fieldWriter) finish(record Kind) (*codec.Buffer, error) {
	if w.err != nil {
		if errors.Is(w.err, codec.ErrCapacityExceeded) {
			return nil, errors.Mark(
				errors.NewAssertionErrorWithWrappedErrf(w.err, "encode %s", record),
				codec.ErrCapacityExceeded)
		}
		return nil, errors.Wrapf(w.err, "encode %s", record)
	}
	if !w.buf.Full() {
		return nil, errors.Mark(
			errors.AssertionFailedf("encode %s: wrote %d of %d bytes", record, w.buf.Len(), w.buf.Cap()),
			codec.ErrCapacityExceeded)
	}
	return w.buf, nil
}

// stringsSize sums the encoded widths of the given string fields.
func stringsSize(record Kind, fields ...namedString) (int, error) {
	total := 0
	for _, f := range fields {
		n, err := codec.StringSize(f.value)
		if err != nil {
			return 0, errors.Wrapf(err, "%s.%s", record, f.name)
		}
		total += n
	}
	return total, nil
}

type namedString struct {
	name  string
	value string
}
