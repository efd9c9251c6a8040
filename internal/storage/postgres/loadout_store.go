package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"hunt-stats-lab/internal/domain"
	"hunt-stats-lab/internal/storage"
)

// LoadoutStore implements storage.LoadoutStore using PostgreSQL. The whole
// definition is one JSONB document keyed by the loadout ID; only the name is
// lifted into a column for listing order.
type LoadoutStore struct {
	pool *Pool
}

// NewLoadoutStore creates a new LoadoutStore.
func NewLoadoutStore(pool *Pool) *LoadoutStore {
	return &LoadoutStore{pool: pool}
}

// Compile-time interface check.
var _ storage.LoadoutStore = (*LoadoutStore)(nil)

// Save upserts the loadout.
func (s *LoadoutStore) Save(ctx context.Context, l *domain.Loadout) error {
	if l == nil || l.ID == "" {
		return storage.ErrInvalidInput
	}

	doc, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("marshal loadout: %w", err)
	}

	query := `
		INSERT INTO loadouts (id, name, definition)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			name       = EXCLUDED.name,
			definition = EXCLUDED.definition
	`
	if _, err := s.pool.Exec(ctx, query, l.ID, l.Name, doc); err != nil {
		return fmt.Errorf("save loadout: %w", err)
	}
	return nil
}

// Load retrieves a loadout by ID. Returns ErrNotFound if not exists.
func (s *LoadoutStore) Load(ctx context.Context, id string) (*domain.Loadout, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx, `SELECT definition FROM loadouts WHERE id = $1`, id).Scan(&doc)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("load loadout: %w", err)
	}

	var l domain.Loadout
	if err := json.Unmarshal(doc, &l); err != nil {
		return nil, fmt.Errorf("parse loadout: %w", err)
	}
	return &l, nil
}

// List retrieves all loadouts ordered by name.
func (s *LoadoutStore) List(ctx context.Context) ([]*domain.Loadout, error) {
	rows, err := s.pool.Query(ctx, `SELECT definition FROM loadouts ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list loadouts: %w", err)
	}
	defer rows.Close()

	var loadouts []*domain.Loadout
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan loadout row: %w", err)
		}
		var l domain.Loadout
		if err := json.Unmarshal(doc, &l); err != nil {
			return nil, fmt.Errorf("parse loadout: %w", err)
		}
		loadouts = append(loadouts, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate loadout rows: %w", err)
	}
	return loadouts, nil
}

// Delete removes the loadout. Returns false with no error when the ID was
// not present.
func (s *LoadoutStore) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM loadouts WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete loadout: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
