package marketsync

import (
	"context"
	"testing"

	"hunt-stats-lab/internal/domain"
	"hunt-stats-lab/internal/storage/memory"
)

func testClient(store *memory.MarkupStore) *Client {
	return NewClient("ws://unused", store, func() int64 { return 42_000 })
}

func TestSnapshotReplacesLibrary(t *testing.T) {
	ctx := context.Background()
	store := memory.NewMarkupStore()
	c := testClient(store)

	seed := domain.NewMarkupLibrary()
	seed.Entries["Stale Item"] = domain.MarkupEntry{Percent: 500}
	if err := store.SaveLibrary(ctx, seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	msg := []byte(`{
		"type": "snapshot",
		"default_percent": 101,
		"fallback": "default",
		"entries": {
			"Animal Oil": {"percent": 120},
			"Iron Stone": {"value": 0.5}
		}
	}`)
	if err := c.handleMessage(ctx, msg); err != nil {
		t.Fatalf("handle snapshot: %v", err)
	}

	lib, err := store.LoadLibrary(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := lib.Entries["Stale Item"]; ok {
		t.Fatal("snapshot did not replace old entries")
	}
	if e := lib.Entries["Animal Oil"]; e.Percent != 120 || e.Source != domain.MarkupSourceLibrary {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if lib.Entries["Iron Stone"].Value != 0.5 {
		t.Fatalf("fixed-mode entry lost: %+v", lib.Entries["Iron Stone"])
	}
	if lib.DefaultPercent != 101 || lib.Fallback != domain.FallbackDefault {
		t.Fatalf("library-wide fields not applied: %+v", lib)
	}
	if lib.SyncedAt != 42_000 {
		t.Fatalf("expected synced_at stamp, got %d", lib.SyncedAt)
	}
}

func TestUpdateMergesIntoLibrary(t *testing.T) {
	ctx := context.Background()
	store := memory.NewMarkupStore()
	c := testClient(store)

	if err := c.handleMessage(ctx, []byte(`{
		"type": "snapshot",
		"entries": {"Animal Oil": {"percent": 120}, "Shrapnel": {"percent": 101}}
	}`)); err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	if err := c.handleMessage(ctx, []byte(`{
		"type": "update",
		"entries": {"Animal Oil": {"percent": 135}}
	}`)); err != nil {
		t.Fatalf("update: %v", err)
	}

	lib, err := store.LoadLibrary(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if lib.Entries["Animal Oil"].Percent != 135 {
		t.Fatalf("update not applied: %+v", lib.Entries["Animal Oil"])
	}
	if lib.Entries["Shrapnel"].Percent != 101 {
		t.Fatal("update dropped untouched entries")
	}
}

func TestUpdateWithoutLibraryStartsFresh(t *testing.T) {
	ctx := context.Background()
	store := memory.NewMarkupStore()
	c := testClient(store)

	if err := c.handleMessage(ctx, []byte(`{
		"type": "update",
		"entries": {"Animal Oil": {"percent": 120}}
	}`)); err != nil {
		t.Fatalf("update: %v", err)
	}

	lib, err := store.LoadLibrary(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if lib.Entries["Animal Oil"].Percent != 120 {
		t.Fatalf("unexpected library: %+v", lib)
	}
}

func TestUnknownMessageTypeRejected(t *testing.T) {
	store := memory.NewMarkupStore()
	c := testClient(store)
	if err := c.handleMessage(context.Background(), []byte(`{"type": "frobnicate"}`)); err == nil {
		t.Fatal("expected error for unknown message type")
	}
}
