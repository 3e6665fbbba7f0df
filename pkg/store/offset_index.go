package store

import (
	"io"
	"sync"

	"github.com/ssargent/datagen/pkg/model"
)

// IndexEntry locates one frame in the record log
type IndexEntry struct {
	Offset    int64
	Size      uint32 // payload size
	Timestamp uint64
}

// OffsetIndex lists the frames of each record kind in log order
type OffsetIndex struct {
	entries map[model.Kind][]IndexEntry
	mutex   sync.RWMutex
}

// NewOffsetIndex creates an empty index
func NewOffsetIndex() *OffsetIndex {
	return &OffsetIndex{
		entries: make(map[model.Kind][]IndexEntry),
	}
}

// Add appends an entry for kind
func (idx *OffsetIndex) Add(kind model.Kind, entry IndexEntry) {
	idx.mutex.Lock()
	defer idx.mutex.Unlock()

	idx.entries[kind] = append(idx.entries[kind], entry)
}

// Entries returns a copy of the entries for kind
func (idx *OffsetIndex) Entries(kind model.Kind) []IndexEntry {
	idx.mutex.RLock()
	defer idx.mutex.RUnlock()

	out := make([]IndexEntry, len(idx.entries[kind]))
	copy(out, idx.entries[kind])
	return out
}

// Len returns the number of frames indexed for kind
func (idx *OffsetIndex) Len(kind model.Kind) int {
	idx.mutex.RLock()
	defer idx.mutex.RUnlock()

	return len(idx.entries[kind])
}

// Clear removes all entries
func (idx *OffsetIndex) Clear() {
	idx.mutex.Lock()
	defer idx.mutex.Unlock()

	idx.entries = make(map[model.Kind][]IndexEntry)
}

// BuildFromLog scans the log from the start and replaces the index contents
func (idx *OffsetIndex) BuildFromLog(reader *LogReader) error {
	if err := reader.Seek(0); err != nil {
		return err
	}

	entries := make(map[model.Kind][]IndexEntry)
	for {
		offset := reader.Offset()
		frame, err := reader.ReadNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		entries[frame.Kind] = append(entries[frame.Kind], IndexEntry{
			Offset:    offset,
			Size:      frame.Size,
			Timestamp: frame.Timestamp,
		})
	}

	idx.mutex.Lock()
	idx.entries = entries
	idx.mutex.Unlock()
	return nil
}

// Stats returns index statistics
func (idx *OffsetIndex) Stats() *IndexStats {
	idx.mutex.RLock()
	defer idx.mutex.RUnlock()

	stats := &IndexStats{PerKind: make(map[model.Kind]int, len(idx.entries))}
	for kind, list := range idx.entries {
		stats.PerKind[kind] = len(list)
		stats.TotalFrames += len(list)
		for _, e := range list {
			stats.PayloadBytes += int64(e.Size)
		}
	}
	return stats
}

// IndexStats holds statistics about the index
type IndexStats struct {
	TotalFrames  int
	PayloadBytes int64
	PerKind      map[model.Kind]int
}
