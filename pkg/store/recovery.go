package store

import (
	"io"
	"os"
	"time"

	"github.com/cockroachdb/errors"
)

// RecoveryResult reports what Recover found and repaired
type RecoveryResult struct {
	FramesValidated int64
	BytesTruncated  int64
	FileSizeBefore  int64
	FileSizeAfter   int64
	RecoveryTime    time.Duration
}

// Truncated reports whether Recover cut a damaged tail
func (r *RecoveryResult) Truncated() bool {
	return r.BytesTruncated > 0
}

// Recover validates every frame in the log at path and truncates the file at
// the end of the last intact frame. A missing file is not an error.
func Recover(path string) (*RecoveryResult, error) {
	startTime := time.Now()

	fileInfo, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &RecoveryResult{RecoveryTime: time.Since(startTime)}, nil
		}
		return nil, errors.Wrap(err, "stat record log")
	}
	sizeBefore := fileInfo.Size()

	reader, err := NewLogReader(LogReaderConfig{FilePath: path})
	if err != nil {
		return nil, err
	}

	var validated int64
	var scanErr error
	for {
		if _, err := reader.ReadNext(); err != nil {
			if err != io.EOF {
				scanErr = err
			}
			break
		}
		validated++
	}
	lastValid := reader.Offset()
	_ = reader.Close()

	// io.EOF also covers a torn header, so compare sizes rather than trusting scanErr alone
	if scanErr != nil && !errors.Is(scanErr, ErrCorruption) {
		return nil, scanErr
	}

	result := &RecoveryResult{
		FramesValidated: validated,
		FileSizeBefore:  sizeBefore,
		FileSizeAfter:   sizeBefore,
	}

	if lastValid < sizeBefore {
		if err := os.Truncate(path, lastValid); err != nil {
			return nil, errors.Wrap(err, "truncate record log")
		}
		result.FileSizeAfter = lastValid
		result.BytesTruncated = sizeBefore - lastValid
	}

	result.RecoveryTime = time.Since(startTime)
	return result, nil
}
