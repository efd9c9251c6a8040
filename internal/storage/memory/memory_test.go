package memory

import (
	"context"
	"errors"
	"testing"

	"hunt-stats-lab/internal/domain"
	"hunt-stats-lab/internal/storage"
)

func TestSessionStoreSaveLoad(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	s := &domain.Session{ID: "s1", Name: "morning hunt", StartedAt: 1_000, Stats: domain.NewRunningStats()}
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Mutating the original must not leak into the store.
	s.Name = "changed"

	got, err := store.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Name != "morning hunt" {
		t.Fatalf("store shares memory with the caller: got name %q", got.Name)
	}

	if _, err := store.Load(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSessionStoreSaveUpserts(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	s := &domain.Session{ID: "s1", Name: "first", StartedAt: 1_000, Stats: domain.NewRunningStats()}
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("save: %v", err)
	}
	s.Name = "second"
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := store.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Name != "second" {
		t.Fatalf("save did not upsert, got name %q", got.Name)
	}
}

func TestSessionStoreListNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	for _, s := range []*domain.Session{
		{ID: "old", StartedAt: 1_000, Stats: domain.NewRunningStats()},
		{ID: "new", StartedAt: 3_000, Stats: domain.NewRunningStats()},
		{ID: "mid", StartedAt: 2_000, Stats: domain.NewRunningStats()},
	} {
		if err := store.Save(ctx, s); err != nil {
			t.Fatalf("save %s: %v", s.ID, err)
		}
	}

	metas, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"new", "mid", "old"}
	if len(metas) != len(want) {
		t.Fatalf("expected %d sessions, got %d", len(want), len(metas))
	}
	for i, id := range want {
		if metas[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, metas[i].ID)
		}
	}
}

func TestSessionStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	if err := store.Save(ctx, &domain.Session{ID: "s1", Stats: domain.NewRunningStats()}); err != nil {
		t.Fatalf("save: %v", err)
	}

	deleted, err := store.Delete(ctx, "s1")
	if err != nil || !deleted {
		t.Fatalf("delete existing: deleted=%v err=%v", deleted, err)
	}
	deleted, err = store.Delete(ctx, "s1")
	if err != nil || deleted {
		t.Fatalf("delete missing: deleted=%v err=%v", deleted, err)
	}
}

func TestSessionStoreRejectsEmptyID(t *testing.T) {
	store := NewSessionStore()
	if err := store.Save(context.Background(), &domain.Session{}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestLoadoutStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewLoadoutStore()

	l := domain.NewLoadout("rifle", 1_000)
	l.Enhancers.Damage = 4
	if err := store.Save(ctx, l); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Load(ctx, l.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Name != "rifle" || got.Enhancers.Damage != 4 {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	list, err := store.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v, len=%d", err, len(list))
	}
}

func TestMarkupStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMarkupStore()

	if _, err := store.LoadLibrary(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty store, got %v", err)
	}

	lib := domain.NewMarkupLibrary()
	lib.Entries["Animal Oil"] = domain.MarkupEntry{Percent: 120}
	if err := store.SaveLibrary(ctx, lib); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.LoadLibrary(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Entries["Animal Oil"].Percent != 120 {
		t.Fatalf("round trip mismatch: %+v", got.Entries)
	}
}

func TestSnapshotStoreQueries(t *testing.T) {
	ctx := context.Background()
	store := NewStatsSnapshotStore()

	err := store.InsertBulk(ctx, []*domain.StatsSnapshot{
		{SessionID: "a", TimestampMs: 3_000},
		{SessionID: "a", TimestampMs: 1_000},
		{SessionID: "b", TimestampMs: 2_000},
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	byID, err := store.GetBySessionID(ctx, "a")
	if err != nil {
		t.Fatalf("get by session: %v", err)
	}
	if len(byID) != 2 || byID[0].TimestampMs != 1_000 || byID[1].TimestampMs != 3_000 {
		t.Fatalf("expected time-ordered session snapshots, got %+v", byID)
	}

	byRange, err := store.GetByTimeRange(ctx, 1_500, 3_000)
	if err != nil {
		t.Fatalf("get by range: %v", err)
	}
	if len(byRange) != 2 || byRange[0].TimestampMs != 2_000 {
		t.Fatalf("expected snapshots in [1500,3000], got %+v", byRange)
	}
}
