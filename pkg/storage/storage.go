package storage

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"
	"github.com/ssargent/datagen/pkg/model"
)

// ErrNotFound is returned when no record exists for a kind and id
var ErrNotFound = errors.New("record not found")

// RecordStorage keeps encoded records in pebble.
// Keys are [kind(1)][ksuid(20)], values are the bytes produced by Serialize.
type RecordStorage struct {
	db *pebble.DB
	// mu serializes read-modify-write operations on existing keys
	mu sync.Mutex
}

// Options configures RecordStorage
type Options struct {
	Sync bool // fsync every write
}

func (o Options) writeOptions() *pebble.WriteOptions {
	if o.Sync {
		return pebble.Sync
	}
	return pebble.NoSync
}

// NewRecordStorage opens (or creates) a pebble database at path
func NewRecordStorage(path string) (*RecordStorage, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, errors.Wrapf(err, "open pebble at %s", path)
	}
	return &RecordStorage{db: db}, nil
}

func recordKey(kind model.Kind, id ksuid.KSUID) []byte {
	return append([]byte{uint8(kind)}, id.Bytes()...)
}

// Create serializes rec and stores it under a new id
func (s *RecordStorage) Create(rec model.Record, opts Options) (ksuid.KSUID, error) {
	data, err := model.Encode(rec)
	if err != nil {
		return ksuid.Nil, err
	}
	return s.CreateRaw(rec.Kind(), data, opts)
}

// CreateRaw stores already encoded bytes under a new id
func (s *RecordStorage) CreateRaw(kind model.Kind, data []byte, opts Options) (ksuid.KSUID, error) {
	if !kind.Valid() {
		return ksuid.Nil, errors.Wrapf(model.ErrUnknownKind, "%d", uint8(kind))
	}
	id := ksuid.New()
	if err := s.db.Set(recordKey(kind, id), data, opts.writeOptions()); err != nil {
		return ksuid.Nil, errors.Wrap(err, "store record")
	}
	return id, nil
}

// ReadRaw returns a copy of the encoded bytes for kind and id
func (s *RecordStorage) ReadRaw(kind model.Kind, id ksuid.KSUID) ([]byte, error) {
	value, closer, err := s.db.Get(recordKey(kind, id))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, errors.Wrapf(ErrNotFound, "%s %s", kind, id)
		}
		return nil, errors.Wrap(err, "read record")
	}
	defer closer.Close()

	// value is only valid until closer is closed
	data := make([]byte, len(value))
	copy(data, value)
	return data, nil
}

// Read loads and decodes the record for kind and id
func (s *RecordStorage) Read(kind model.Kind, id ksuid.KSUID) (model.Record, error) {
	data, err := s.ReadRaw(kind, id)
	if err != nil {
		return nil, err
	}
	return model.Decode(kind, data)
}

// Update replaces the record stored under id
func (s *RecordStorage) Update(id ksuid.KSUID, rec model.Record, opts Options) error {
	data, err := model.Encode(rec)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.exists(rec.Kind(), id); err != nil {
		return err
	}
	return s.db.Set(recordKey(rec.Kind(), id), data, opts.writeOptions())
}

// Delete removes the record for kind and id. It returns ErrNotFound when the
// record is missing, including when a concurrent Delete removed it first.
func (s *RecordStorage) Delete(kind model.Kind, id ksuid.KSUID, opts Options) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.exists(kind, id); err != nil {
		return err
	}
	if err := s.db.Delete(recordKey(kind, id), opts.writeOptions()); err != nil {
		return errors.Wrap(err, "delete record")
	}
	return nil
}

func (s *RecordStorage) exists(kind model.Kind, id ksuid.KSUID) error {
	_, closer, err := s.db.Get(recordKey(kind, id))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return errors.Wrapf(ErrNotFound, "%s %s", kind, id)
		}
		return errors.Wrap(err, "read record")
	}
	return closer.Close()
}

// Flush persists any buffered writes
func (s *RecordStorage) Flush() error {
	return s.db.Flush()
}

// Close closes the underlying database
func (s *RecordStorage) Close() error {
	return s.db.Close()
}
