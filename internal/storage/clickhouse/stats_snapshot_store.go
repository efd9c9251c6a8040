package clickhouse

import (
	"context"
	"fmt"

	"hunt-stats-lab/internal/domain"
	"hunt-stats-lab/internal/storage"
)

// StatsSnapshotStore implements storage.StatsSnapshotStore using ClickHouse.
type StatsSnapshotStore struct {
	conn *Conn
}

// NewStatsSnapshotStore creates a new StatsSnapshotStore.
func NewStatsSnapshotStore(conn *Conn) *StatsSnapshotStore {
	return &StatsSnapshotStore{conn: conn}
}

// Compile-time interface check.
var _ storage.StatsSnapshotStore = (*StatsSnapshotStore)(nil)

// InsertBulk appends snapshot points. MergeTree enforces no uniqueness, so
// intra-batch duplicates on (session_id, timestamp_ms) are rejected here.
func (s *StatsSnapshotStore) InsertBulk(ctx context.Context, snaps []*domain.StatsSnapshot) error {
	if len(snaps) == 0 {
		return nil
	}

	type key struct {
		sessionID   string
		timestampMs int64
	}
	seen := make(map[key]struct{}, len(snaps))
	for _, snap := range snaps {
		if snap == nil || snap.SessionID == "" {
			return storage.ErrInvalidInput
		}
		k := key{snap.SessionID, snap.TimestampMs}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO stats_snapshots (
			session_id, timestamp_ms, duration_ms, shots, damage_dealt,
			loot_value, total_cost, profit, return_rate, kills
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, snap := range snaps {
		err = batch.Append(
			snap.SessionID, uint64(snap.TimestampMs), uint64(snap.DurationMs),
			uint64(snap.Shots), snap.DamageDealt,
			snap.LootValue, snap.TotalCost, snap.Profit, snap.ReturnRate,
			uint32(snap.Kills),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetBySessionID retrieves all snapshots for a session, ordered by timestamp ASC.
func (s *StatsSnapshotStore) GetBySessionID(ctx context.Context, sessionID string) ([]*domain.StatsSnapshot, error) {
	query := `
		SELECT session_id, timestamp_ms, duration_ms, shots, damage_dealt,
		       loot_value, total_cost, profit, return_rate, kills
		FROM stats_snapshots
		WHERE session_id = ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query by session id: %w", err)
	}
	defer rows.Close()

	return scanStatsSnapshots(rows)
}

// GetByTimeRange retrieves snapshots within [fromMs, toMs] (inclusive).
func (s *StatsSnapshotStore) GetByTimeRange(ctx context.Context, fromMs, toMs int64) ([]*domain.StatsSnapshot, error) {
	query := `
		SELECT session_id, timestamp_ms, duration_ms, shots, damage_dealt,
		       loot_value, total_cost, profit, return_rate, kills
		FROM stats_snapshots
		WHERE timestamp_ms >= ? AND timestamp_ms <= ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, uint64(fromMs), uint64(toMs))
	if err != nil {
		return nil, fmt.Errorf("query by time range: %w", err)
	}
	defer rows.Close()

	return scanStatsSnapshots(rows)
}

// Rows interface for scanning
type chRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// scanStatsSnapshots scans multiple rows into a slice.
func scanStatsSnapshots(rows chRows) ([]*domain.StatsSnapshot, error) {
	var snaps []*domain.StatsSnapshot

	for rows.Next() {
		var snap domain.StatsSnapshot
		var timestampMs, durationMs, shots uint64
		var kills uint32

		err := rows.Scan(
			&snap.SessionID, &timestampMs, &durationMs, &shots, &snap.DamageDealt,
			&snap.LootValue, &snap.TotalCost, &snap.Profit, &snap.ReturnRate,
			&kills,
		)
		if err != nil {
			return nil, fmt.Errorf("scan stats snapshot row: %w", err)
		}

		snap.TimestampMs = int64(timestampMs)
		snap.DurationMs = int64(durationMs)
		snap.Shots = int64(shots)
		snap.Kills = int64(kills)
		snaps = append(snaps, &snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stats snapshot rows: %w", err)
	}

	return snaps, nil
}
