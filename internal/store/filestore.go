package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/alumni-reunion/backend/internal/models"
)

// FileStore keeps all registrations in a single JSON array file. Every append
// rewrites the whole collection through a temp file + rename, so readers never
// observe a partially written record. There is no isolation between processes;
// callers serialize writes (see registrations.Service).
type FileStore struct {
	path   string
	logger *zap.Logger
}

// NewFileStore creates a file store and ensures the parent directory exists.
func NewFileStore(path string, logger *zap.Logger) (*FileStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	return &FileStore{path: path, logger: logger}, nil
}

// LoadAll reads the full collection. A missing or corrupt file yields an empty
// collection, not an error: the store recovers by starting over rather than
// taking the form offline.
func (s *FileStore) LoadAll(ctx context.Context) ([]models.Registration, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	var recs []models.Registration
	if err := json.Unmarshal(raw, &recs); err != nil {
		s.logger.Warn("registration file corrupt, treating as empty",
			zap.String("path", s.path), zap.Error(err))
		return nil, nil
	}
	return recs, nil
}

// Append loads the current collection, appends rec and writes everything back.
// Write errors are returned to the caller; the previous file contents survive
// a failed write because the rename never happens.
func (s *FileStore) Append(ctx context.Context, rec models.Registration) error {
	recs, err := s.LoadAll(ctx)
	if err != nil {
		return err
	}
	recs = append(recs, rec)
	return s.writeAll(recs)
}

func (s *FileStore) writeAll(recs []models.Registration) error {
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal registrations: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
