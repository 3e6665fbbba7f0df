package api

import (
	"time"

	"github.com/segmentio/ksuid"
	"github.com/ssargent/datagen/pkg/model"
	"github.com/ssargent/datagen/pkg/storage"
	"github.com/ssargent/datagen/pkg/store"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RecordResponse describes a stored or encoded record
type RecordResponse struct {
	ID     string       `json:"id,omitempty"`
	Kind   string       `json:"kind"`
	Size   int          `json:"size"`
	Hex    string       `json:"hex"`
	Offset *int64       `json:"log_offset,omitempty"`
	Record model.Record `json:"record,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port            int
	Bind            string
	APIKey          string
	PerfInterval    time.Duration
	ShutdownTimeout time.Duration
}

// RecordStore is the persistence the API needs; *storage.RecordStorage implements it.
type RecordStore interface {
	CreateRaw(kind model.Kind, data []byte, opts storage.Options) (ksuid.KSUID, error)
	ReadRaw(kind model.Kind, id ksuid.KSUID) ([]byte, error)
	Delete(kind model.Kind, id ksuid.KSUID, opts storage.Options) error
}

// RecordLog journals encoded records; *store.LogWriter implements it.
type RecordLog interface {
	AppendRaw(kind model.Kind, payload []byte) (int64, error)
}

var (
	_ RecordStore = (*storage.RecordStorage)(nil)
	_ RecordLog   = (*store.LogWriter)(nil)
)
