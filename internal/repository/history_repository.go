package repository

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"gis_quiz_backend/internal/model"
	"gis_quiz_backend/internal/util"
)

// HistoryRepository persists graded attempts to a flat append-only CSV log.
// Append is the only mutation; prior rows are never rewritten. The design
// assumes a single writer per log file (one process); the mutex only
// serializes appends within this process.
type HistoryRepository struct {
	path string
	mu   sync.Mutex
}

func NewHistoryRepository(path string) *HistoryRepository {
	return &HistoryRepository{path: path}
}

// Path returns the backing file location.
func (r *HistoryRepository) Path() string {
	return r.path
}

// AppendAttempts writes one attempt's records as a single batch. The batch
// is all-or-nothing: the existing log is validated first, the rows are
// encoded into one buffer, and a lone append write lands them. Any failure
// discards the whole batch.
func (r *HistoryRepository) AppendAttempts(records []model.AttemptRecord) error {
	if len(records) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	needHeader, err := r.validate()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if needHeader {
		if err := w.Write(model.HistoryColumns); err != nil {
			return err
		}
	}
	for _, rec := range records {
		if err := w.Write(rec.Row()); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(buf.Bytes()); err != nil {
		return err
	}
	return f.Sync()
}

// ListAll reads every attempt in log order. A missing or empty log is the
// explicit no-history state, not an error.
func (r *HistoryRepository) ListAll() ([]model.AttemptRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = len(model.HistoryColumns)

	var records []model.AttemptRecord
	first := true
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", util.ErrHistoryCorrupt, err)
		}
		if first {
			first = false
			if row[0] == model.HistoryColumns[0] {
				continue
			}
		}
		records = append(records, model.AttemptFromRow(row))
	}
	return records, nil
}

// Ping checks the log is usable: readable when present, directory writable
// otherwise. Used by the health endpoint.
func (r *HistoryRepository) Ping() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := r.validate()
	return err
}

// validate confirms the existing log parses as CSV with the expected column
// count. It reports whether the header still needs to be written.
func (r *HistoryRepository) validate() (needHeader bool, err error) {
	f, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return true, nil
		}
		return false, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = len(model.HistoryColumns)
	sawAny := false
	for {
		_, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return false, fmt.Errorf("%w: %v", util.ErrHistoryCorrupt, err)
		}
		sawAny = true
	}
	return !sawAny, nil
}
