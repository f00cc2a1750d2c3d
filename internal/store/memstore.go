package store

import (
	"context"
	"sync"

	"github.com/alumni-reunion/backend/internal/models"
)

// MemStore is a mutex-guarded in-memory store for tests and ephemeral
// deployments.
type MemStore struct {
	mu   sync.RWMutex
	recs []models.Registration

	// FailAppend forces Append to return this error when non-nil (tests).
	FailAppend error
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// LoadAll returns a copy of the collection.
func (s *MemStore) LoadAll(ctx context.Context) ([]models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Registration, len(s.recs))
	copy(out, s.recs)
	return out, nil
}

// Append stores one record.
func (s *MemStore) Append(ctx context.Context, rec models.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailAppend != nil {
		return s.FailAppend
	}
	s.recs = append(s.recs, rec)
	return nil
}
