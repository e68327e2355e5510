// Package cas implements content-addressed storage of caching reports.
package cas

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/reuse/internal/core/domain"
	"go.trai.ch/reuse/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ReportStore = (*Store)(nil)

// Store implements ports.ReportStore with one JSON file per pipeline,
// named by the SHA-256 of the pipeline identity.
type Store struct {
	dir string
	mu  sync.RWMutex
}

// NewStore creates a new ReportStore rooted at dir.
func NewStore(dir string) (*Store, error) {
	dir = filepath.Clean(dir)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create report store directory"), "path", dir)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) pathFor(pipeline string) string {
	sum := sha256.Sum256([]byte(pipeline))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:])+".json")
}

// Get retrieves the stored report for pipeline. It returns nil, nil if none exists.
func (s *Store) Get(pipeline string) (*domain.ReportRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path := s.pathFor(pipeline)
	//nolint:gosec // Path is derived from a hash inside the store directory
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to read report"), "path", path)
	}

	var record domain.ReportRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to unmarshal report"), "path", path)
	}
	return &record, nil
}

// Put stores record, replacing any previous report of the same pipeline.
func (s *Store) Put(record domain.ReportRecord) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal report")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.pathFor(record.Pipeline)
	tmp, err := os.CreateTemp(s.dir, ".report-*")
	if err != nil {
		return zerr.Wrap(err, "failed to create temporary report file")
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // Already renamed on success

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.Wrap(err, "failed to write report")
	}
	if err := tmp.Close(); err != nil {
		return zerr.Wrap(err, "failed to close report file")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to store report"), "path", path)
	}
	return nil
}
