package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hunt-stats-lab/internal/domain"
	"hunt-stats-lab/internal/storage"
)

func TestMarkupStore_SaveAndLoad(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewMarkupStore(pool)

	_, err := store.LoadLibrary(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	lib := domain.NewMarkupLibrary()
	lib.Entries["Animal Oil"] = domain.MarkupEntry{Percent: 120, Source: domain.MarkupSourceLibrary}
	lib.DefaultPercent = 101
	lib.Fallback = domain.FallbackDefault
	lib.SyncedAt = 5_000
	require.NoError(t, store.SaveLibrary(ctx, lib))

	got, err := store.LoadLibrary(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 120.0, got.Entries["Animal Oil"].Percent, 1e-9)
	assert.Equal(t, domain.FallbackDefault, got.Fallback)
	assert.Equal(t, int64(5_000), got.SyncedAt)
}

func TestMarkupStore_SaveReplaces(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewMarkupStore(pool)

	lib := domain.NewMarkupLibrary()
	lib.Entries["Shrapnel"] = domain.MarkupEntry{Percent: 101}
	require.NoError(t, store.SaveLibrary(ctx, lib))

	lib.Entries["Shrapnel"] = domain.MarkupEntry{Percent: 102}
	lib.IsCustom = true
	require.NoError(t, store.SaveLibrary(ctx, lib))

	got, err := store.LoadLibrary(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 102.0, got.Entries["Shrapnel"].Percent, 1e-9)
	assert.True(t, got.IsCustom)
}
