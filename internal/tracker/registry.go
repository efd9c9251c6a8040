package tracker

import (
	"hunt-stats-lab/internal/domain"
	"hunt-stats-lab/internal/loadout"
	"hunt-stats-lab/internal/session"
)

// LoadoutRegistry holds the known loadouts and tracks which one is active.
// It is the engine's session.LoadoutSource: the aggregate reads the active
// loadout at every fold, so switching mid-session reattributes from the next
// event onward. Access is serialized by the engine's caller.
type LoadoutRegistry struct {
	loadouts map[string]*domain.Loadout
	activeID string
}

var _ session.LoadoutSource = (*LoadoutRegistry)(nil)

// NewLoadoutRegistry creates an empty registry.
func NewLoadoutRegistry() *LoadoutRegistry {
	return &LoadoutRegistry{loadouts: make(map[string]*domain.Loadout)}
}

// Register adds or replaces a loadout, folding any legacy enhancer counter
// into the typed slots first. Returns whether a migration took place.
func (r *LoadoutRegistry) Register(l *domain.Loadout) bool {
	if l == nil || l.ID == "" {
		return false
	}
	migrated := loadout.Migrate(l)
	r.loadouts[l.ID] = l
	return migrated
}

// SetActive marks the loadout with the given ID active. Returns false when
// the ID is unknown.
func (r *LoadoutRegistry) SetActive(id string) bool {
	if _, ok := r.loadouts[id]; !ok {
		return false
	}
	r.activeID = id
	return true
}

// ClearActive unsets the active loadout; subsequent shots carry no cost.
func (r *LoadoutRegistry) ClearActive() {
	r.activeID = ""
}

// Active returns the currently active loadout, or nil.
func (r *LoadoutRegistry) Active() *domain.Loadout {
	if r.activeID == "" {
		return nil
	}
	return r.loadouts[r.activeID]
}

// Get returns the loadout with the given ID, or nil.
func (r *LoadoutRegistry) Get(id string) *domain.Loadout {
	return r.loadouts[id]
}

// Index returns the ID → loadout map for report naming. The map is shared;
// callers must not mutate it.
func (r *LoadoutRegistry) Index() map[string]*domain.Loadout {
	return r.loadouts
}

// Remove deletes a loadout, clearing the active mark if it pointed there.
func (r *LoadoutRegistry) Remove(id string) {
	delete(r.loadouts, id)
	if r.activeID == id {
		r.activeID = ""
	}
}
