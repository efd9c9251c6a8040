// Package postgres implements the storage interfaces on PostgreSQL. Event
// logs and derived structures are stored as JSONB documents: the engine
// always reads and writes whole sessions, so relational decomposition of the
// log would buy nothing.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"hunt-stats-lab/internal/domain"
	"hunt-stats-lab/internal/storage"
)

// SessionStore implements storage.SessionStore using PostgreSQL.
type SessionStore struct {
	pool *Pool
}

// NewSessionStore creates a new SessionStore.
func NewSessionStore(pool *Pool) *SessionStore {
	return &SessionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SessionStore = (*SessionStore)(nil)

// Save upserts the full session, event log included.
func (s *SessionStore) Save(ctx context.Context, sess *domain.Session) error {
	if sess == nil || sess.ID == "" {
		return storage.ErrInvalidInput
	}

	logJSON, err := json.Marshal(sess.Log)
	if err != nil {
		return fmt.Errorf("marshal session log: %w", err)
	}
	statsJSON, err := json.Marshal(sess.Stats)
	if err != nil {
		return fmt.Errorf("marshal session stats: %w", err)
	}
	expensesJSON, err := json.Marshal(sess.Expenses)
	if err != nil {
		return fmt.Errorf("marshal session expenses: %w", err)
	}
	tagsJSON, err := json.Marshal(sess.Tags)
	if err != nil {
		return fmt.Errorf("marshal session tags: %w", err)
	}

	query := `
		INSERT INTO sessions (
			id, name, tags, started_at, ended_at, paused_at,
			total_paused_ms, log, stats, expenses
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10
		)
		ON CONFLICT (id) DO UPDATE SET
			name            = EXCLUDED.name,
			tags            = EXCLUDED.tags,
			ended_at        = EXCLUDED.ended_at,
			paused_at       = EXCLUDED.paused_at,
			total_paused_ms = EXCLUDED.total_paused_ms,
			log             = EXCLUDED.log,
			stats           = EXCLUDED.stats,
			expenses        = EXCLUDED.expenses
	`

	_, err = s.pool.Exec(ctx, query,
		sess.ID, sess.Name, tagsJSON, sess.StartedAt, sess.EndedAt, sess.PausedAt,
		sess.TotalPausedMs, logJSON, statsJSON, expensesJSON,
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Load retrieves the full session by ID. Returns ErrNotFound if not exists.
func (s *SessionStore) Load(ctx context.Context, id string) (*domain.Session, error) {
	query := `
		SELECT id, name, tags, started_at, ended_at, paused_at,
		       total_paused_ms, log, stats, expenses
		FROM sessions
		WHERE id = $1
	`

	var (
		sess         domain.Session
		tagsJSON     []byte
		logJSON      []byte
		statsJSON    []byte
		expensesJSON []byte
	)
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&sess.ID, &sess.Name, &tagsJSON, &sess.StartedAt, &sess.EndedAt, &sess.PausedAt,
		&sess.TotalPausedMs, &logJSON, &statsJSON, &expensesJSON,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	if err := json.Unmarshal(tagsJSON, &sess.Tags); err != nil {
		return nil, fmt.Errorf("parse session tags: %w", err)
	}
	if err := json.Unmarshal(logJSON, &sess.Log); err != nil {
		return nil, fmt.Errorf("parse session log: %w", err)
	}
	if err := json.Unmarshal(statsJSON, &sess.Stats); err != nil {
		return nil, fmt.Errorf("parse session stats: %w", err)
	}
	if err := json.Unmarshal(expensesJSON, &sess.Expenses); err != nil {
		return nil, fmt.Errorf("parse session expenses: %w", err)
	}
	return &sess, nil
}

// List retrieves listing metadata for all sessions, newest first. The event
// count is computed in the database so the logs never leave it.
func (s *SessionStore) List(ctx context.Context) ([]*domain.SessionMeta, error) {
	query := `
		SELECT id, name, tags, started_at, ended_at,
		       jsonb_array_length(log) AS event_count
		FROM sessions
		ORDER BY started_at DESC, id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var metas []*domain.SessionMeta
	for rows.Next() {
		var (
			m        domain.SessionMeta
			tagsJSON []byte
		)
		if err := rows.Scan(&m.ID, &m.Name, &tagsJSON, &m.StartedAt, &m.EndedAt, &m.EventCount); err != nil {
			return nil, fmt.Errorf("scan session meta row: %w", err)
		}
		if err := json.Unmarshal(tagsJSON, &m.Tags); err != nil {
			return nil, fmt.Errorf("parse session tags: %w", err)
		}
		metas = append(metas, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session meta rows: %w", err)
	}
	return metas, nil
}

// Delete removes the session. Returns false with no error when the ID was
// not present.
func (s *SessionStore) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
