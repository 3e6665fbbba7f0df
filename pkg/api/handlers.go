package api

import (
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/segmentio/ksuid"
	"github.com/ssargent/datagen/pkg/model"
	"github.com/ssargent/datagen/pkg/storage"
	"go.uber.org/zap"
)

// maxBodyBytes caps JSON request bodies; the largest record is well under 1KiB
const maxBodyBytes = 64 << 10

// Server holds the API server state
type Server struct {
	records RecordStore
	journal RecordLog
	config  ServerConfig
	metrics *Metrics
	perf    *PerfMonitor
	logger  *zap.Logger
}

// NewServer creates a new API server. journal may be nil.
func NewServer(records RecordStore, journal RecordLog, config ServerConfig, metrics *Metrics, logger *zap.Logger) *Server {
	if metrics == nil {
		metrics = NewMetrics()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		records: records,
		journal: journal,
		config:  config,
		metrics: metrics,
		perf:    NewPerfMonitor(config.PerfInterval, logger),
		logger:  logger,
	}
}

// Perf returns the server's perf monitor
func (s *Server) Perf() *PerfMonitor {
	return s.perf
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleCreate encodes a JSON record, stores it, journals it and returns its id.
// A record is only journaled once it is stored; a failed journal append removes it again.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	kind, rec, ok := s.readRecord(w, r)
	if !ok {
		return
	}

	data, err := model.Encode(rec)
	if err != nil {
		s.fail(w, "create", kind, start, err)
		return
	}

	id, err := s.records.CreateRaw(kind, data, storage.Options{})
	if err != nil {
		s.fail(w, "create", kind, start, err)
		return
	}

	resp := RecordResponse{
		ID:   id.String(),
		Kind: kind.String(),
		Size: len(data),
		Hex:  hex.EncodeToString(data),
	}

	if s.journal != nil {
		offset, err := s.journal.AppendRaw(kind, data)
		if err != nil {
			err = errors.Wrap(err, "journal record")
			if derr := s.records.Delete(kind, id, storage.Options{}); derr != nil {
				err = errors.CombineErrors(err, errors.Wrapf(derr, "remove unjournaled %s %s", kind, id))
			}
			s.fail(w, "create", kind, start, err)
			return
		}
		resp.Offset = &offset
	}

	s.metrics.RecordOperation("create", kind.String(), true, time.Since(start))
	s.metrics.RecordEncodedSize(kind.String(), len(data))
	sendCreated(w, resp)
}

// handleGet returns the decoded record as JSON
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	kind, id, ok := s.readKey(w, r)
	if !ok {
		return
	}

	data, err := s.records.ReadRaw(kind, id)
	if err != nil {
		s.fail(w, "get", kind, start, err)
		return
	}

	rec, err := model.Decode(kind, data)
	if err != nil {
		s.fail(w, "get", kind, start, err)
		return
	}

	s.metrics.RecordOperation("get", kind.String(), true, time.Since(start))
	sendSuccess(w, RecordResponse{
		ID:     id.String(),
		Kind:   kind.String(),
		Size:   len(data),
		Hex:    hex.EncodeToString(data),
		Record: rec,
	})
}

// handleGetRaw returns the encoded bytes unchanged
func (s *Server) handleGetRaw(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	kind, id, ok := s.readKey(w, r)
	if !ok {
		return
	}

	data, err := s.records.ReadRaw(kind, id)
	if err != nil {
		s.fail(w, "get_raw", kind, start, err)
		return
	}

	s.metrics.RecordOperation("get_raw", kind.String(), true, time.Since(start))
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("X-Record-Kind", kind.String())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	kind, id, ok := s.readKey(w, r)
	if !ok {
		return
	}

	if err := s.records.Delete(kind, id, storage.Options{}); err != nil {
		s.fail(w, "delete", kind, start, err)
		return
	}

	s.metrics.RecordOperation("delete", kind.String(), true, time.Since(start))
	sendSuccess(w, map[string]string{"id": id.String(), "status": "deleted"})
}

// handleEncode serializes a JSON record without storing it
func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	kind, rec, ok := s.readRecord(w, r)
	if !ok {
		return
	}

	data, err := model.Encode(rec)
	if err != nil {
		s.fail(w, "encode", kind, start, err)
		return
	}

	s.metrics.RecordOperation("encode", kind.String(), true, time.Since(start))
	s.metrics.RecordEncodedSize(kind.String(), len(data))
	sendSuccess(w, RecordResponse{
		Kind: kind.String(),
		Size: len(data),
		Hex:  hex.EncodeToString(data),
	})
}

func (s *Server) readKind(w http.ResponseWriter, r *http.Request) (model.Kind, bool) {
	kind, err := model.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return 0, false
	}
	return kind, true
}

func (s *Server) readKey(w http.ResponseWriter, r *http.Request) (model.Kind, ksuid.KSUID, bool) {
	kind, ok := s.readKind(w, r)
	if !ok {
		return 0, ksuid.Nil, false
	}
	id, err := ksuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, "Invalid record id", http.StatusBadRequest)
		return 0, ksuid.Nil, false
	}
	return kind, id, true
}

func (s *Server) readRecord(w http.ResponseWriter, r *http.Request) (model.Kind, model.Record, bool) {
	kind, ok := s.readKind(w, r)
	if !ok {
		return 0, nil, false
	}

	rec, err := model.New(kind)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return 0, nil, false
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(rec); err != nil {
		sendError(w, "Invalid JSON in request body: "+err.Error(), http.StatusBadRequest)
		return 0, nil, false
	}
	return kind, rec, true
}

// fail records the failed operation and sends the mapped status
func (s *Server) fail(w http.ResponseWriter, operation string, kind model.Kind, start time.Time, err error) {
	s.metrics.RecordOperation(operation, kind.String(), false, time.Since(start))

	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("record operation failed",
			zap.String("operation", operation),
			zap.Stringer("kind", kind),
			zap.Error(err),
		)
	}
	sendError(w, err.Error(), status)
}
