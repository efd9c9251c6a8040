package memory

import (
	"context"
	"sort"
	"sync"

	"hunt-stats-lab/internal/domain"
	"hunt-stats-lab/internal/storage"
)

// StatsSnapshotStore is a thread-safe in-memory snapshot timeseries.
type StatsSnapshotStore struct {
	mu    sync.RWMutex
	snaps []*domain.StatsSnapshot
}

var _ storage.StatsSnapshotStore = (*StatsSnapshotStore)(nil)

func NewStatsSnapshotStore() *StatsSnapshotStore {
	return &StatsSnapshotStore{}
}

func (s *StatsSnapshotStore) InsertBulk(ctx context.Context, snaps []*domain.StatsSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, snap := range snaps {
		if snap == nil || snap.SessionID == "" {
			return storage.ErrInvalidInput
		}
		c := *snap
		s.snaps = append(s.snaps, &c)
	}
	return nil
}

func (s *StatsSnapshotStore) GetBySessionID(ctx context.Context, sessionID string) ([]*domain.StatsSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.StatsSnapshot
	for _, snap := range s.snaps {
		if snap.SessionID == sessionID {
			c := *snap
			out = append(out, &c)
		}
	}
	sortSnapshots(out)
	return out, nil
}

func (s *StatsSnapshotStore) GetByTimeRange(ctx context.Context, fromMs, toMs int64) ([]*domain.StatsSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.StatsSnapshot
	for _, snap := range s.snaps {
		if snap.TimestampMs >= fromMs && snap.TimestampMs <= toMs {
			c := *snap
			out = append(out, &c)
		}
	}
	sortSnapshots(out)
	return out, nil
}

func sortSnapshots(snaps []*domain.StatsSnapshot) {
	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].TimestampMs < snaps[j].TimestampMs
	})
}
