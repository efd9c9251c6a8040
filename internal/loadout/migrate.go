package loadout

import "hunt-stats-lab/internal/domain"

// Migrate folds the legacy single enhancer counter into the damage slot of
// the typed counters. It runs once when a loadout is loaded or rehydrated;
// formulas never merge at runtime. Returns true when the loadout changed.
func Migrate(l *domain.Loadout) bool {
	if l == nil || l.LegacyEnhancers == 0 {
		return false
	}
	l.Enhancers.Damage += l.LegacyEnhancers
	l.LegacyEnhancers = 0
	return true
}
