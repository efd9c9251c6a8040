package markup

import "hunt-stats-lab/internal/domain"

// Merge applies a user config onto a synced library and returns a new
// library. Overridden and added entries are marked user-sourced and the
// is-custom flag flips when the config changes anything. The input library
// is never mutated.
func Merge(lib *domain.MarkupLibrary, cfg *domain.MarkupConfig) *domain.MarkupLibrary {
	var merged *domain.MarkupLibrary
	if lib != nil {
		merged = lib.Clone()
	} else {
		merged = domain.NewMarkupLibrary()
	}
	if cfg == nil {
		return merged
	}

	for name, e := range cfg.Entries {
		e.Source = domain.MarkupSourceUser
		merged.Entries[name] = e
		merged.IsCustom = true
	}
	if cfg.DefaultPercent != nil {
		merged.DefaultPercent = *cfg.DefaultPercent
		merged.IsCustom = true
	}
	if cfg.Fallback != nil && cfg.Fallback.IsValid() {
		merged.Fallback = *cfg.Fallback
		merged.IsCustom = true
	}
	return merged
}
