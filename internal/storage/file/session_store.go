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

const sessionIndexFile = "meta.json"

// SessionStore stores each session as sessions/<id>.json and keeps a
// meta.json index of listing metadata so List never touches the log files.
type SessionStore struct {
	mu    sync.Mutex
	dir   string
	index map[string]*domain.SessionMeta
}

var _ storage.SessionStore = (*SessionStore)(nil)

// NewSessionStore opens (or initializes) a session store under dir.
func NewSessionStore(dir string) (*SessionStore, error) {
	dir = filepath.Join(dir, "sessions")
	if err := ensureDir(dir); err != nil {
		return nil, err
	}
	s := &SessionStore{dir: dir, index: make(map[string]*domain.SessionMeta)}

	var metas []*domain.SessionMeta
	err := readJSON(filepath.Join(dir, sessionIndexFile), &metas)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Fresh store.
	case err != nil:
		return nil, fmt.Errorf("load session index: %w", err)
	default:
		for _, m := range metas {
			s.index[m.ID] = m
		}
	}
	return s, nil
}

func (s *SessionStore) Save(ctx context.Context, sess *domain.Session) error {
	if sess == nil || sess.ID == "" {
		return storage.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := writeJSON(s.sessionPath(sess.ID), sess); err != nil {
		return fmt.Errorf("save session %s: %w", sess.ID, err)
	}
	s.index[sess.ID] = sess.Meta()
	return s.writeIndex()
}

func (s *SessionStore) Load(ctx context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sess domain.Session
	err := readJSON(s.sessionPath(id), &sess)
	if errors.Is(err, os.ErrNotExist) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	return &sess, nil
}

func (s *SessionStore) List(ctx context.Context) ([]*domain.SessionMeta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	metas := make([]*domain.SessionMeta, 0, len(s.index))
	for _, m := range s.index {
		c := *m
		metas = append(metas, &c)
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
	if _, ok := s.index[id]; !ok {
		return false, nil
	}
	if err := os.Remove(s.sessionPath(id)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("delete session %s: %w", id, err)
	}
	delete(s.index, id)
	if err := s.writeIndex(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *SessionStore) sessionPath(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// writeIndex persists the listing index, ordered for stable diffs.
func (s *SessionStore) writeIndex() error {
	metas := make([]*domain.SessionMeta, 0, len(s.index))
	for _, m := range s.index {
		metas = append(metas, m)
	}
	sort.Slice(metas, func(i, j int) bool { return metas[i].ID < metas[j].ID })
	if err := writeJSON(filepath.Join(s.dir, sessionIndexFile), metas); err != nil {
		return fmt.Errorf("save session index: %w", err)
	}
	return nil
}
