package tickets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrArtifactNotFound is returned by Load for unknown ticket ids.
var ErrArtifactNotFound = errors.New("artifact not found")

// ArtifactStore persists QR PNG artifacts keyed by ticket id.
type ArtifactStore interface {
	Save(ctx context.Context, ticketID string, png []byte) error
	Load(ctx context.Context, ticketID string) ([]byte, error)
}

// FSArtifactStore stores artifacts as <dir>/<ticketID>.png.
type FSArtifactStore struct {
	dir string
}

// NewFSArtifactStore creates the directory if needed.
func NewFSArtifactStore(dir string) (*FSArtifactStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create qr dir: %w", err)
	}
	return &FSArtifactStore{dir: dir}, nil
}

func (s *FSArtifactStore) path(ticketID string) string {
	// Ticket ids are server-generated UUIDs; Base strips anything else.
	return filepath.Join(s.dir, filepath.Base(ticketID)+".png")
}

// Save writes the PNG for a ticket id.
func (s *FSArtifactStore) Save(ctx context.Context, ticketID string, png []byte) error {
	if err := os.WriteFile(s.path(ticketID), png, 0o644); err != nil {
		return fmt.Errorf("write qr file: %w", err)
	}
	return nil
}

// Load reads the PNG for a ticket id.
func (s *FSArtifactStore) Load(ctx context.Context, ticketID string) ([]byte, error) {
	data, err := os.ReadFile(s.path(ticketID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrArtifactNotFound
		}
		return nil, fmt.Errorf("read qr file: %w", err)
	}
	return data, nil
}
