// Package equipment resolves item names to their stat blocks: economy
// profile, damage vector, and TT bounds. The HTTP resolver talks to a
// community item database; the static resolver serves a bundled JSON catalog
// for offline use.
package equipment

import (
	"context"
	"errors"

	"hunt-stats-lab/internal/domain"
)

// ErrItemNotFound is returned when no item with the given name exists.
var ErrItemNotFound = errors.New("item not found")

// Resolver looks up equipment by exact item name.
type Resolver interface {
	Resolve(ctx context.Context, name string) (*domain.Equipment, error)
}
