package memory

import (
	"context"
	"sort"
	"sync"

	"hunt-stats-lab/internal/domain"
	"hunt-stats-lab/internal/storage"
)

// LoadoutStore is a thread-safe in-memory loadout store.
type LoadoutStore struct {
	mu       sync.RWMutex
	loadouts map[string]*domain.Loadout
}

var _ storage.LoadoutStore = (*LoadoutStore)(nil)

func NewLoadoutStore() *LoadoutStore {
	return &LoadoutStore{loadouts: make(map[string]*domain.Loadout)}
}

func (s *LoadoutStore) Save(ctx context.Context, l *domain.Loadout) error {
	if l == nil || l.ID == "" {
		return storage.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadouts[l.ID] = l.Clone()
	return nil
}

func (s *LoadoutStore) Load(ctx context.Context, id string) (*domain.Loadout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.loadouts[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return l.Clone(), nil
}

func (s *LoadoutStore) List(ctx context.Context) ([]*domain.Loadout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Loadout, 0, len(s.loadouts))
	for _, l := range s.loadouts {
		out = append(out, l.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *LoadoutStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.loadouts[id]; !ok {
		return false, nil
	}
	delete(s.loadouts, id)
	return true, nil
}
