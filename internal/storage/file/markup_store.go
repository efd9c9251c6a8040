package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"hunt-stats-lab/internal/domain"
	"hunt-stats-lab/internal/storage"
)

const markupFile = "markup.json"

// MarkupStore persists the markup library as a single markup.json document.
type MarkupStore struct {
	mu   sync.Mutex
	path string
}

var _ storage.MarkupStore = (*MarkupStore)(nil)

// NewMarkupStore opens the markup store under dir.
func NewMarkupStore(dir string) (*MarkupStore, error) {
	if err := ensureDir(dir); err != nil {
		return nil, err
	}
	return &MarkupStore{path: filepath.Join(dir, markupFile)}, nil
}

func (s *MarkupStore) SaveLibrary(ctx context.Context, lib *domain.MarkupLibrary) error {
	if lib == nil {
		return storage.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := writeJSON(s.path, lib); err != nil {
		return fmt.Errorf("save markup library: %w", err)
	}
	return nil
}

func (s *MarkupStore) LoadLibrary(ctx context.Context) (*domain.MarkupLibrary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var lib domain.MarkupLibrary
	err := readJSON(s.path, &lib)
	if errors.Is(err, os.ErrNotExist) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load markup library: %w", err)
	}
	if lib.Entries == nil {
		lib.Entries = make(map[string]domain.MarkupEntry)
	}
	return &lib, nil
}
