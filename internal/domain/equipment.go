package domain

// DamageVectorSize is the number of damage type components on a weapon.
const DamageVectorSize = 9

// DamageVector holds the per-type damage components of a weapon or amp
// (impact, penetration, shrapnel, burn, cut, stab, cold, acid, electric).
type DamageVector [DamageVectorSize]float64

// Total returns the summed damage across all components.
func (v *DamageVector) Total() float64 {
	total := 0.0
	for _, d := range v {
		total += d
	}
	return total
}

// EconomyProfile holds the per-use economy of a piece of equipment.
// Decay is pre-normalized to PED by the equipment lookup service;
// AmmoBurn stays in raw units and is scaled by AmmoBurnToPED at use time.
type EconomyProfile struct {
	Decay    float64 `json:"decay"`     // PED per use
	AmmoBurn float64 `json:"ammo_burn"` // raw units per use
}

// Equipment is one resolvable item: weapon, amplifier, scope or sight.
type Equipment struct {
	Name       string         `json:"name"`
	Economy    EconomyProfile `json:"economy"`
	Damage     *DamageVector  `json:"damage,omitempty"`
	Range      float64        `json:"range,omitempty"`
	MinTT      float64        `json:"min_tt,omitempty"`
	MaxTT      float64        `json:"max_tt,omitempty"`
	Efficiency float64        `json:"efficiency,omitempty"`
}
