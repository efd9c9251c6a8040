package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// MaxEnhancerSlots is the number of enhancer slots on a weapon.
const MaxEnhancerSlots = 10

// DefaultProfession is the default skill percentage for both professions.
const DefaultProfession = 100.0

// EnhancerSlots counts equipped enhancers by type. The four counters
// together occupy at most MaxEnhancerSlots slots on a valid loadout.
type EnhancerSlots struct {
	Damage   int `json:"damage"`
	Accuracy int `json:"accuracy"`
	Range    int `json:"range"`
	Economy  int `json:"economy"`
}

// Total returns the number of occupied slots.
func (e EnhancerSlots) Total() int {
	return e.Damage + e.Accuracy + e.Range + e.Economy
}

// Loadout is an equipment configuration used to price shots and model damage.
type Loadout struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	Weapon *Equipment `json:"weapon,omitempty"`
	Amp    *Equipment `json:"amp,omitempty"`
	Scope  *Equipment `json:"scope,omitempty"`
	Sight  *Equipment `json:"sight,omitempty"`

	Enhancers EnhancerSlots `json:"enhancers"`
	// LegacyEnhancers is the pre-taxonomy single enhancer counter. It is
	// merged into Enhancers.Damage by loadout.Migrate when the loadout is
	// loaded; formulas never read it directly.
	LegacyEnhancers int `json:"legacy_enhancers,omitempty"`

	HitProfession    float64 `json:"hit_profession"`    // 0-100
	DamageProfession float64 `json:"damage_profession"` // 0-100

	UseManualCost     bool     `json:"use_manual_cost"`
	ManualCostPerShot *float64 `json:"manual_cost_per_shot,omitempty"` // PED

	CreatedAt int64 `json:"created_at"` // Unix timestamp in milliseconds
	UpdatedAt int64 `json:"updated_at"`
}

// NewLoadout creates an empty loadout with a fresh identity and default
// profession skills.
func NewLoadout(name string, nowMs int64) *Loadout {
	return &Loadout{
		ID:               uuid.NewString(),
		Name:             name,
		HitProfession:    DefaultProfession,
		DamageProfession: DefaultProfession,
		CreatedAt:        nowMs,
		UpdatedAt:        nowMs,
	}
}

// Validate reports configuration violations. The cost and damage formulas do
// not clamp or reject invalid values; callers that persist loadouts decide
// what to do with the violations reported here.
func (l *Loadout) Validate() []string {
	var violations []string
	if total := l.Enhancers.Total() + l.LegacyEnhancers; total > MaxEnhancerSlots {
		violations = append(violations, fmt.Sprintf("enhancer slots %d exceed maximum %d", total, MaxEnhancerSlots))
	}
	if l.HitProfession < 0 || l.HitProfession > 100 {
		violations = append(violations, fmt.Sprintf("hit profession %.2f outside [0,100]", l.HitProfession))
	}
	if l.DamageProfession < 0 || l.DamageProfession > 100 {
		violations = append(violations, fmt.Sprintf("damage profession %.2f outside [0,100]", l.DamageProfession))
	}
	return violations
}

// Clone returns a deep copy of the loadout.
func (l *Loadout) Clone() *Loadout {
	if l == nil {
		return nil
	}
	c := *l
	c.Weapon = cloneEquipment(l.Weapon)
	c.Amp = cloneEquipment(l.Amp)
	c.Scope = cloneEquipment(l.Scope)
	c.Sight = cloneEquipment(l.Sight)
	if l.ManualCostPerShot != nil {
		v := *l.ManualCostPerShot
		c.ManualCostPerShot = &v
	}
	return &c
}

func cloneEquipment(e *Equipment) *Equipment {
	if e == nil {
		return nil
	}
	c := *e
	if e.Damage != nil {
		d := *e.Damage
		c.Damage = &d
	}
	return &c
}
