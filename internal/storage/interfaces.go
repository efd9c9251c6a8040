// Package storage defines the persistence contracts of the engine and their
// sentinel errors. Implementations live in the subpackages: memory for tests
// and ephemeral runs, file for the local single-user setup, postgres for the
// durable store, clickhouse for the stats timeseries.
package storage

import (
	"context"

	"hunt-stats-lab/internal/domain"
)

// SessionStore persists full sessions, event log included. Save upserts: the
// engine writes the same session repeatedly as its log grows.
type SessionStore interface {
	// Save writes the session, replacing any previous version with the
	// same ID.
	Save(ctx context.Context, s *domain.Session) error

	// Load returns the full session or ErrNotFound.
	Load(ctx context.Context, id string) (*domain.Session, error)

	// List returns metadata for all stored sessions, newest first. It must
	// not require loading the event logs.
	List(ctx context.Context) ([]*domain.SessionMeta, error)

	// Delete removes the session. Returns false with no error when the ID
	// was not present.
	Delete(ctx context.Context, id string) (bool, error)
}

// LoadoutStore persists equipment loadouts.
type LoadoutStore interface {
	Save(ctx context.Context, l *domain.Loadout) error
	Load(ctx context.Context, id string) (*domain.Loadout, error)
	List(ctx context.Context) ([]*domain.Loadout, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// MarkupStore persists the single markup library per installation.
type MarkupStore interface {
	SaveLibrary(ctx context.Context, lib *domain.MarkupLibrary) error

	// LoadLibrary returns the stored library or ErrNotFound when none has
	// been saved yet.
	LoadLibrary(ctx context.Context) (*domain.MarkupLibrary, error)
}

// StatsSnapshotStore is the append-only timeseries of full-stats headline
// numbers, used for after-the-fact session charts.
type StatsSnapshotStore interface {
	InsertBulk(ctx context.Context, snaps []*domain.StatsSnapshot) error
	GetBySessionID(ctx context.Context, sessionID string) ([]*domain.StatsSnapshot, error)
	GetByTimeRange(ctx context.Context, fromMs, toMs int64) ([]*domain.StatsSnapshot, error)
}
