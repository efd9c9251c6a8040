package loadout

import (
	"math"

	"hunt-stats-lab/internal/domain"
)

// Hit and crit rate constants.
const (
	// BaseHitRate is the hit chance at zero profession skill.
	BaseHitRate = 0.8
	// HitRateSkillRange spreads hit chance across the 0-100 skill range
	// (80% at 0, 90% at 100).
	HitRateSkillRange = 0.1
	// AccuracyEnhancerCritBonus is the linear crit-chance bonus per
	// accuracy-enhancer slot.
	AccuracyEnhancerCritBonus = 0.002
)

// DamageRange returns the min/max damage bounds of a single shot.
// The weapon's summed damage vector is scaled to a range by the damage
// profession, the damage-enhancer multiplier applies to both bounds, and an
// amplifier adds its damage capped at the weapon's base minimum: 50% of the
// capped value to the min bound, 100% to the max bound.
func DamageRange(l *domain.Loadout) (min, max float64) {
	if l == nil || l.Weapon == nil || l.Weapon.Damage == nil {
		return 0, 0
	}

	total := l.Weapon.Damage.Total()
	baseMin := total * (0.25 + 0.25*l.DamageProfession/100)
	baseMax := total

	mult := 1 + DamageEnhancerStep*float64(l.Enhancers.Damage)
	min = baseMin * mult
	max = baseMax * mult

	if l.Amp != nil && l.Amp.Damage != nil {
		capped := math.Min(l.Amp.Damage.Total(), baseMin)
		min += 0.5 * capped
		max += capped
	}
	return min, max
}

// HitRate returns the chance a shot connects, 0.80-0.90 across the skill
// range. Values outside [0,100] are computed as given, not clamped.
func HitRate(l *domain.Loadout) float64 {
	if l == nil {
		return BaseHitRate
	}
	return BaseHitRate + (l.HitProfession/100)*HitRateSkillRange
}

// CritRate returns the critical hit chance, roughly 1%-2% across the skill
// range plus the linear accuracy-enhancer bonus.
func CritRate(l *domain.Loadout) float64 {
	if l == nil {
		return 0.01
	}
	return (math.Sqrt(l.HitProfession)/10+1)/100 + AccuracyEnhancerCritBonus*float64(l.Enhancers.Accuracy)
}

// EffectiveDamagePerShot returns the expected damage of one trigger pull:
// the min/max midpoint weighted by hit rate plus the max bound weighted by
// crit rate.
func EffectiveDamagePerShot(l *domain.Loadout) float64 {
	min, max := DamageRange(l)
	return (min+max)/2*HitRate(l) + max*CritRate(l)
}

// DamagePerPED returns expected damage per PED spent, the loadout efficiency
// metric. Zero when the loadout costs nothing.
func DamagePerPED(l *domain.Loadout) float64 {
	cost := EffectiveCostPerShot(l)
	if cost == 0 {
		return 0
	}
	return EffectiveDamagePerShot(l) / cost
}
