// Package memory provides in-memory implementations of the storage
// interfaces. They deep-copy on the way in and out, so callers can keep
// mutating their instances without corrupting the store.
package memory

import (
	"context"
	"sort"
	"sync"

	"hunt-stats-lab/internal/domain"
	"hunt-stats-lab/internal/storage"
)

// SessionStore is a thread-safe in-memory session store.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
}

var _ storage.SessionStore = (*SessionStore)(nil)

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*domain.Session)}
}

func (s *SessionStore) Save(ctx context.Context, sess *domain.Session) error {
	if sess == nil || sess.ID == "" {
		return storage.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess.Clone()
	return nil
}

func (s *SessionStore) Load(ctx context.Context, id string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return sess.Clone(), nil
}

func (s *SessionStore) List(ctx context.Context) ([]*domain.SessionMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	metas := make([]*domain.SessionMeta, 0, len(s.sessions))
	for _, sess := range s.sessions {
		metas = append(metas, sess.Meta())
	}
	sort.Slice(metas, func(i, j int) bool {
		if metas[i].StartedAt != metas[j].StartedAt {
			return metas[i].StartedAt > metas[j].StartedAt
		}
		return metas[i].ID < metas[j].ID
	})
	return metas, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false, nil
	}
	delete(s.sessions, id)
	return true, nil
}
