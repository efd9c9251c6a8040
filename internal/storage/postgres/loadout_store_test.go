package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hunt-stats-lab/internal/domain"
	"hunt-stats-lab/internal/storage"
)

func createTestLoadout(id, name string) *domain.Loadout {
	return &domain.Loadout{
		ID:   id,
		Name: name,
		Weapon: &domain.Equipment{
			Name:    "Sollomate Opalo",
			Economy: domain.EconomyProfile{Decay: 0.000578, AmmoBurn: 6},
			Damage:  &domain.DamageVector{0, 0, 9, 0, 0, 0, 0, 0, 0},
		},
		Enhancers:        domain.EnhancerSlots{Damage: 2, Accuracy: 1},
		HitProfession:    85,
		DamageProfession: 80,
		CreatedAt:        1_000,
		UpdatedAt:        1_000,
	}
}

func TestLoadoutStore_SaveAndLoad(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewLoadoutStore(pool)

	require.NoError(t, store.Save(ctx, createTestLoadout("lo-1", "opalo")))

	got, err := store.Load(ctx, "lo-1")
	require.NoError(t, err)
	assert.Equal(t, "opalo", got.Name)
	require.NotNil(t, got.Weapon)
	assert.Equal(t, "Sollomate Opalo", got.Weapon.Name)
	assert.InDelta(t, 9.0, got.Weapon.Damage.Total(), 1e-9)
	assert.Equal(t, 2, got.Enhancers.Damage)
}

func TestLoadoutStore_SaveUpserts(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewLoadoutStore(pool)

	l := createTestLoadout("lo-1", "opalo")
	require.NoError(t, store.Save(ctx, l))

	l.Name = "opalo + amp"
	l.Enhancers.Damage = 5
	require.NoError(t, store.Save(ctx, l))

	got, err := store.Load(ctx, "lo-1")
	require.NoError(t, err)
	assert.Equal(t, "opalo + amp", got.Name)
	assert.Equal(t, 5, got.Enhancers.Damage)
}

func TestLoadoutStore_ListOrderedByName(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewLoadoutStore(pool)

	require.NoError(t, store.Save(ctx, createTestLoadout("lo-2", "zephyr")))
	require.NoError(t, store.Save(ctx, createTestLoadout("lo-1", "apis")))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "apis", list[0].Name)
	assert.Equal(t, "zephyr", list[1].Name)
}

func TestLoadoutStore_Delete(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewLoadoutStore(pool)

	require.NoError(t, store.Save(ctx, createTestLoadout("lo-1", "opalo")))

	deleted, err := store.Delete(ctx, "lo-1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = store.Delete(ctx, "lo-1")
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = store.Load(ctx, "lo-1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
