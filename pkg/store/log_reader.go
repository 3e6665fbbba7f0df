package store

import (
	"bufio"
	"io"
	"os"

	"github.com/cockroachdb/errors"
)

// LogReader provides sequential access to frames in a record log
type LogReader struct {
	file   *os.File
	reader *bufio.Reader
	offset int64
	config LogReaderConfig
}

// NewLogReader creates a new log reader for the specified file
func NewLogReader(config LogReaderConfig) (*LogReader, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, errors.Wrap(err, "open record log")
	}

	if config.StartOffset > 0 {
		if _, err := file.Seek(config.StartOffset, io.SeekStart); err != nil {
			_ = file.Close()
			return nil, errors.Wrap(err, "seek record log")
		}
	}

	return &LogReader{
		file:   file,
		reader: bufio.NewReader(file),
		offset: config.StartOffset,
		config: config,
	}, nil
}

// ReadNext reads the frame at the current offset.
// A clean or torn header at the tail returns io.EOF; a torn payload or a CRC
// mismatch returns ErrCorruption.
func (r *LogReader) ReadNext() (*Frame, error) {
	header := make([]byte, FrameHeaderSize)
	if _, err := io.ReadFull(r.reader, header); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, io.EOF
		}
		return nil, err
	}

	frame, err := decodeHeader(header)
	if err != nil {
		return nil, err
	}

	payload := make([]byte, frame.Size)
	if _, err := io.ReadFull(r.reader, payload); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, errors.Wrapf(ErrCorruption, "torn frame at offset %d", r.offset)
		}
		return nil, err
	}
	frame.Payload = payload

	if err := frame.Validate(); err != nil {
		return nil, errors.Wrapf(err, "frame at offset %d", r.offset)
	}

	r.offset += int64(frame.EncodedSize())
	return frame, nil
}

// ReadAt reads the frame at a specific offset without moving the read cursor
func (r *LogReader) ReadAt(offset int64) (*Frame, error) {
	header := make([]byte, FrameHeaderSize)
	if _, err := r.file.ReadAt(header, offset); err != nil {
		if err == io.EOF {
			return nil, errors.Wrapf(ErrCorruption, "no frame header at offset %d", offset)
		}
		return nil, err
	}

	frame, err := decodeHeader(header)
	if err != nil {
		return nil, err
	}

	payload := make([]byte, frame.Size)
	if _, err := r.file.ReadAt(payload, offset+FrameHeaderSize); err != nil {
		if err == io.EOF {
			return nil, errors.Wrapf(ErrCorruption, "torn frame at offset %d", offset)
		}
		return nil, err
	}
	frame.Payload = payload

	if err := frame.Validate(); err != nil {
		return nil, errors.Wrapf(err, "frame at offset %d", offset)
	}
	return frame, nil
}

// Seek sets the read offset
func (r *LogReader) Seek(offset int64) error {
	if _, err := r.file.Seek(offset, io.SeekStart); err != nil {
		return err
	}

	r.reader.Reset(r.file)
	r.offset = offset
	return nil
}

// Offset returns the current read offset
func (r *LogReader) Offset() int64 {
	return r.offset
}

// Iterator returns a streaming iterator over the remaining frames
func (r *LogReader) Iterator() FrameIterator {
	return &logFrameIterator{reader: r}
}

// Close closes the log reader
func (r *LogReader) Close() error {
	return r.file.Close()
}

type logFrameIterator struct {
	reader *LogReader
	frame  *Frame
	err    error
}

func (it *logFrameIterator) Next() bool {
	if it.err != nil {
		return false
	}
	it.frame, it.err = it.reader.ReadNext()
	return it.err == nil
}

func (it *logFrameIterator) Frame() *Frame {
	return it.frame
}

// Err returns the error that stopped iteration, or nil at a clean end of log.
func (it *logFrameIterator) Err() error {
	if it.err == io.EOF {
		return nil
	}
	return it.err
}

func (it *logFrameIterator) Close() error {
	// the reader is owned by the caller
	return nil
}
