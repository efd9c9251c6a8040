package memory

import (
	"context"
	"sync"

	"hunt-stats-lab/internal/domain"
	"hunt-stats-lab/internal/storage"
)

// MarkupStore is a thread-safe in-memory markup library store.
type MarkupStore struct {
	mu  sync.RWMutex
	lib *domain.MarkupLibrary
}

var _ storage.MarkupStore = (*MarkupStore)(nil)

func NewMarkupStore() *MarkupStore {
	return &MarkupStore{}
}

func (s *MarkupStore) SaveLibrary(ctx context.Context, lib *domain.MarkupLibrary) error {
	if lib == nil {
		return storage.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lib = lib.Clone()
	return nil
}

func (s *MarkupStore) LoadLibrary(ctx context.Context) (*domain.MarkupLibrary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lib == nil {
		return nil, storage.ErrNotFound
	}
	return s.lib.Clone(), nil
}
