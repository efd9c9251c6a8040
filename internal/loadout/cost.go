// Package loadout is the equipment cost and damage model. All functions are
// pure: identical inputs produce bit-identical outputs, which historical
// reports rely on.
package loadout

import (
	"math"

	"hunt-stats-lab/internal/domain"
)

// Model constants.
const (
	// AmmoBurnToPED scales raw ammo burn units to PED.
	AmmoBurnToPED = 0.0001
	// DamageEnhancerStep is the per-slot cost/damage multiplier increment.
	DamageEnhancerStep = 0.1
	// EconomyEnhancerFactor is the per-slot multiplicative cost reduction
	// (each economy enhancer cuts cost ~1.1%, compounding).
	EconomyEnhancerFactor = 0.989
	// EnhancerDecayPerShot is the wear cost of one damage-enhancer slot per
	// shot, in PED.
	EnhancerDecayPerShot = 0.0103
)

// CostBreakdown is the per-shot cost of a loadout, in PED.
type CostBreakdown struct {
	Weapon            float64 // weapon ammo + decay, enhancer-scaled
	Amp               float64 // amp ammo + decay, enhancer-scaled
	Scope             float64 // decay only, unscaled
	Sight             float64 // decay only, unscaled
	EnhancerSurcharge float64 // damage-enhancer wear

	Ammo         float64 // ammo component of the total
	Decay        float64 // decay component of the total
	TotalPerShot float64
}

// WeaponCost returns the per-use cost of a weapon or amp: scaled ammo burn
// plus decay.
func WeaponCost(e *domain.Equipment) float64 {
	if e == nil {
		return 0
	}
	return e.Economy.AmmoBurn*AmmoBurnToPED + e.Economy.Decay
}

// AttachmentCost returns the per-use cost of a scope or sight: decay only,
// attachments carry no ammo burn.
func AttachmentCost(e *domain.Equipment) float64 {
	if e == nil {
		return 0
	}
	return e.Economy.Decay
}

// Costs computes the full per-shot cost breakdown of a loadout. Damage
// enhancers multiply weapon and amp cost by (1 + 0.1×n) and add their own
// wear surcharge; economy enhancers multiply weapon and amp cost by
// 0.989^m. Scope and sight costs are unaffected by enhancers.
func Costs(l *domain.Loadout) CostBreakdown {
	if l == nil {
		return CostBreakdown{}
	}

	dmgSlots := l.Enhancers.Damage
	dmgMult := 1 + DamageEnhancerStep*float64(dmgSlots)
	ecoMult := math.Pow(EconomyEnhancerFactor, float64(l.Enhancers.Economy))
	mult := dmgMult * ecoMult

	var b CostBreakdown
	var weaponAmmo, weaponDecay, ampAmmo, ampDecay float64
	if l.Weapon != nil {
		weaponAmmo = l.Weapon.Economy.AmmoBurn * AmmoBurnToPED * mult
		weaponDecay = l.Weapon.Economy.Decay * mult
	}
	if l.Amp != nil {
		ampAmmo = l.Amp.Economy.AmmoBurn * AmmoBurnToPED * mult
		ampDecay = l.Amp.Economy.Decay * mult
	}

	b.Weapon = weaponAmmo + weaponDecay
	b.Amp = ampAmmo + ampDecay
	b.Scope = AttachmentCost(l.Scope)
	b.Sight = AttachmentCost(l.Sight)
	b.EnhancerSurcharge = EnhancerDecayPerShot * float64(dmgSlots)

	b.Ammo = weaponAmmo + ampAmmo
	b.Decay = weaponDecay + ampDecay + b.Scope + b.Sight + b.EnhancerSurcharge
	b.TotalPerShot = b.Ammo + b.Decay
	return b
}

// EffectiveCostPerShot returns the manual override when one is set, else the
// calculated per-shot total.
func EffectiveCostPerShot(l *domain.Loadout) float64 {
	if l == nil {
		return 0
	}
	if l.UseManualCost && l.ManualCostPerShot != nil {
		return *l.ManualCostPerShot
	}
	return Costs(l).TotalPerShot
}

// ShotCost returns the per-shot ammo and decay components used for fold-time
// attribution. A manual override replaces the whole calculated figure and is
// recorded entirely as ammo spend.
func ShotCost(l *domain.Loadout) (ammo, decay float64) {
	if l == nil {
		return 0, 0
	}
	if l.UseManualCost && l.ManualCostPerShot != nil {
		return *l.ManualCostPerShot, 0
	}
	b := Costs(l)
	return b.Ammo, b.Decay
}
