package store

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ssargent/datagen/pkg/model"
)

// LogWriter handles append-only writes of framed records
type LogWriter struct {
	file     *os.File
	writer   *bufio.Writer
	config   LogWriterConfig
	mutex    sync.Mutex
	offset   int64 // Current write offset
	closed   bool
	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewLogWriter creates a new log writer with the given configuration
func NewLogWriter(config LogWriterConfig) (*LogWriter, error) {
	if err := os.MkdirAll(filepath.Dir(config.FilePath), 0750); err != nil {
		return nil, errors.Wrap(err, "create log directory")
	}

	file, err := os.OpenFile(config.FilePath, os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, errors.Wrap(err, "open record log")
	}

	// Seek to end for append behavior
	end, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		_ = file.Close()
		return nil, errors.Wrap(err, "seek record log")
	}

	writer := &LogWriter{
		file:   file,
		writer: bufio.NewWriterSize(file, config.BufferSize),
		config: config,
		offset: end,
		done:   make(chan struct{}),
	}

	if config.FsyncInterval > 0 {
		writer.wg.Add(1)
		go writer.syncLoop(config.FsyncInterval)
	}

	return writer, nil
}

// syncLoop flushes and fsyncs on every tick, whether or not appends keep arriving
func (w *LogWriter) syncLoop(interval time.Duration) {
	defer w.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			w.mutex.Lock()
			if !w.closed {
				_ = w.sync()
			}
			w.mutex.Unlock()
		}
	}
}

func (w *LogWriter) stopSyncLoop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.wg.Wait()
	})
}

// Append serializes rec, frames it and appends it to the log.
// It returns the offset where the frame starts.
func (w *LogWriter) Append(rec model.Record) (int64, error) {
	payload, err := model.Encode(rec)
	if err != nil {
		return 0, err
	}
	return w.AppendRaw(rec.Kind(), payload)
}

// AppendRaw frames an already encoded payload and appends it to the log
func (w *LogWriter) AppendRaw(kind model.Kind, payload []byte) (int64, error) {
	frame, err := NewFrame(kind, payload)
	if err != nil {
		return 0, err
	}
	data := frame.Encode()

	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.closed {
		return 0, ErrClosed
	}

	n, err := w.writer.Write(data)
	if err != nil {
		return 0, errors.Wrap(err, "write frame")
	}

	recordOffset := w.offset
	w.offset += int64(n)

	if w.config.FsyncInterval == 0 {
		if err := w.sync(); err != nil {
			return 0, err
		}
	}

	return recordOffset, nil
}

// Sync forces a fsync to disk
func (w *LogWriter) Sync() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.closed {
		return ErrClosed
	}
	return w.sync()
}

func (w *LogWriter) sync() error {
	if err := w.writer.Flush(); err != nil {
		return errors.Wrap(err, "flush record log")
	}
	return w.file.Sync()
}

// Close closes the log writer and ensures all data is synced
func (w *LogWriter) Close() error {
	// the sync loop takes the mutex, so stop it first
	w.stopSyncLoop()

	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.sync(); err != nil {
		_ = w.file.Close()
		return err
	}

	return w.file.Close()
}

// Size returns the current size of the log file
func (w *LogWriter) Size() int64 {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.offset
}

// Path returns the file path
func (w *LogWriter) Path() string {
	return w.config.FilePath
}
