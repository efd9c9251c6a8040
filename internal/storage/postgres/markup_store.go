package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"hunt-stats-lab/internal/domain"
	"hunt-stats-lab/internal/storage"
)

// markupRowID pins the single markup library row per installation.
const markupRowID = 1

// MarkupStore implements storage.MarkupStore using PostgreSQL.
type MarkupStore struct {
	pool *Pool
}

// NewMarkupStore creates a new MarkupStore.
func NewMarkupStore(pool *Pool) *MarkupStore {
	return &MarkupStore{pool: pool}
}

// Compile-time interface check.
var _ storage.MarkupStore = (*MarkupStore)(nil)

// SaveLibrary upserts the markup library.
func (s *MarkupStore) SaveLibrary(ctx context.Context, lib *domain.MarkupLibrary) error {
	if lib == nil {
		return storage.ErrInvalidInput
	}

	doc, err := json.Marshal(lib)
	if err != nil {
		return fmt.Errorf("marshal markup library: %w", err)
	}

	query := `
		INSERT INTO markup_library (id, library)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET library = EXCLUDED.library
	`
	if _, err := s.pool.Exec(ctx, query, markupRowID, doc); err != nil {
		return fmt.Errorf("save markup library: %w", err)
	}
	return nil
}

// LoadLibrary retrieves the markup library. Returns ErrNotFound when none
// has been saved yet.
func (s *MarkupStore) LoadLibrary(ctx context.Context) (*domain.MarkupLibrary, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx, `SELECT library FROM markup_library WHERE id = $1`, markupRowID).Scan(&doc)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("load markup library: %w", err)
	}

	var lib domain.MarkupLibrary
	if err := json.Unmarshal(doc, &lib); err != nil {
		return nil, fmt.Errorf("parse markup library: %w", err)
	}
	if lib.Entries == nil {
		lib.Entries = make(map[string]domain.MarkupEntry)
	}
	return &lib, nil
}
