package store

import (
	"time"

	"github.com/cockroachdb/errors"
)

// LogWriterConfig holds configuration for the log writer
type LogWriterConfig struct {
	FilePath      string        // Path to the record log
	FsyncInterval time.Duration // How often to fsync (0 = every write)
	BufferSize    int           // Write buffer size
}

// LogReaderConfig holds configuration for the log reader
type LogReaderConfig struct {
	FilePath    string // Path to the record log
	StartOffset int64  // Offset to start reading from
}

// FrameIterator provides streaming access to frames
type FrameIterator interface {
	Next() bool
	Frame() *Frame
	Err() error
	Close() error
}

// Errors
var (
	ErrCorruption = errors.New("data corruption detected")
	ErrClosed     = errors.New("log writer closed")
)
