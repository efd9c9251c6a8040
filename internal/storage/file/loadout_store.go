package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"hunt-stats-lab/internal/domain"
	"hunt-stats-lab/internal/storage"
)

const loadoutsFile = "loadouts.json"

// LoadoutStore keeps all loadouts in a single loadouts.json document;
// loadout counts are small enough that per-record files would be noise.
type LoadoutStore struct {
	mu       sync.Mutex
	path     string
	loadouts map[string]*domain.Loadout
}

var _ storage.LoadoutStore = (*LoadoutStore)(nil)

// NewLoadoutStore opens (or initializes) the loadout store under dir.
func NewLoadoutStore(dir string) (*LoadoutStore, error) {
	if err := ensureDir(dir); err != nil {
		return nil, err
	}
	s := &LoadoutStore{
		path:     filepath.Join(dir, loadoutsFile),
		loadouts: make(map[string]*domain.Loadout),
	}

	var list []*domain.Loadout
	err := readJSON(s.path, &list)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("load loadouts: %w", err)
	default:
		for _, l := range list {
			s.loadouts[l.ID] = l
		}
	}
	return s, nil
}

func (s *LoadoutStore) Save(ctx context.Context, l *domain.Loadout) error {
	if l == nil || l.ID == "" {
		return storage.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadouts[l.ID] = l.Clone()
	return s.flush()
}

func (s *LoadoutStore) Load(ctx context.Context, id string) (*domain.Loadout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.loadouts[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return l.Clone(), nil
}

func (s *LoadoutStore) List(ctx context.Context) ([]*domain.Loadout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
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
	if err := s.flush(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *LoadoutStore) flush() error {
	list := make([]*domain.Loadout, 0, len(s.loadouts))
	for _, l := range s.loadouts {
		list = append(list, l)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	if err := writeJSON(s.path, list); err != nil {
		return fmt.Errorf("save loadouts: %w", err)
	}
	return nil
}
