package equipment

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"hunt-stats-lab/internal/domain"
)

// StaticResolver serves equipment from a JSON catalog file, keyed by item
// name. It backs offline runs and tests.
type StaticResolver struct {
	items map[string]*domain.Equipment
}

// Compile-time interface check.
var _ Resolver = (*StaticResolver)(nil)

// NewStaticResolver loads a catalog file of itemResponse records.
func NewStaticResolver(path string) (*StaticResolver, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read equipment catalog: %w", err)
	}

	var items []itemResponse
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse equipment catalog: %w", err)
	}

	r := &StaticResolver{items: make(map[string]*domain.Equipment, len(items))}
	for i := range items {
		r.items[items[i].Name] = items[i].toEquipment()
	}
	return r, nil
}

// NewStaticResolverFromItems builds a resolver from in-memory equipment.
func NewStaticResolverFromItems(items []*domain.Equipment) *StaticResolver {
	r := &StaticResolver{items: make(map[string]*domain.Equipment, len(items))}
	for _, eq := range items {
		r.items[eq.Name] = eq
	}
	return r
}

// Resolve looks the item up in the catalog.
func (r *StaticResolver) Resolve(ctx context.Context, name string) (*domain.Equipment, error) {
	eq, ok := r.items[name]
	if !ok {
		return nil, ErrItemNotFound
	}
	return eq, nil
}
