// Package markup maps raw TT item values to market-adjusted values using a
// per-item override library with percentage and fixed-amount modes.
package markup

import (
	"sort"

	"hunt-stats-lab/internal/domain"
)

// Resolution is the adjusted value of one item stack.
type Resolution struct {
	Item        string  `json:"item"`
	Quantity    int     `json:"quantity,omitempty"`
	TTValue     float64 `json:"tt_value"`
	TotalValue  float64 `json:"total_value"`
	MarkupValue float64 `json:"markup_value"`
	Percent     float64 `json:"percent"` // effective total-value percentage
	Source      string  `json:"source,omitempty"`
}

// BatchResult accumulates a resolved loot breakdown.
type BatchResult struct {
	TotalTT     float64      `json:"total_tt"`
	TotalMarkup float64      `json:"total_markup"`
	TotalValue  float64      `json:"total_value"`
	Ledger      []Resolution `json:"ledger"` // sorted by item name
}

// Resolve maps one item's TT value to its adjusted economic value. User
// config entries override library entries; items without an entry follow the
// fallback policy. Never fails: unknown items resolve per the policy.
func Resolve(name string, ttValue float64, lib *domain.MarkupLibrary, cfg *domain.MarkupConfig) Resolution {
	r := Resolution{Item: name, TTValue: ttValue}

	entry, source, ok := lookupEntry(name, lib, cfg)
	if ok {
		switch {
		case entry.Percent > 0:
			r.TotalValue = ttValue * entry.Percent / 100
			r.MarkupValue = r.TotalValue - ttValue
			r.Percent = entry.Percent
			r.Source = source
			return r
		case entry.Value > 0:
			r.TotalValue = ttValue + entry.Value
			r.MarkupValue = entry.Value
			if ttValue > 0 {
				r.Percent = r.TotalValue / ttValue * 100
			}
			r.Source = source
			return r
		}
		// Entry present but empty: fall through to the fallback policy.
	}

	policy := fallbackPolicy(lib, cfg)
	switch policy {
	case domain.FallbackDefault:
		if p := defaultPercent(lib, cfg); p > 0 {
			r.TotalValue = ttValue * p / 100
			r.MarkupValue = r.TotalValue - ttValue
			r.Percent = p
			return r
		}
		fallthrough
	case domain.FallbackTT:
		r.TotalValue = ttValue
		r.Percent = 100
	case domain.FallbackZero:
		r.TotalValue = 0
		r.MarkupValue = -ttValue
	default:
		r.TotalValue = ttValue
		r.Percent = 100
	}
	return r
}

// ResolveItems resolves an ordered list of loot entries, merging repeated
// item names by summation before resolving.
func ResolveItems(items []domain.LootItem, lib *domain.MarkupLibrary, cfg *domain.MarkupConfig) BatchResult {
	totals := make(map[string]*domain.ItemTotal, len(items))
	for _, it := range items {
		t, ok := totals[it.Name]
		if !ok {
			t = &domain.ItemTotal{}
			totals[it.Name] = t
		}
		t.Quantity += it.Quantity
		t.TTValue += it.Value
	}
	return ResolveTotals(totals, lib, cfg)
}

// ResolveTotals resolves a pre-aggregated name → quantity/value map.
func ResolveTotals(totals map[string]*domain.ItemTotal, lib *domain.MarkupLibrary, cfg *domain.MarkupConfig) BatchResult {
	var result BatchResult

	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		t := totals[name]
		r := Resolve(name, t.TTValue, lib, cfg)
		r.Quantity = t.Quantity
		result.TotalTT += r.TTValue
		result.TotalMarkup += r.MarkupValue
		result.TotalValue += r.TotalValue
		result.Ledger = append(result.Ledger, r)
	}
	return result
}

// lookupEntry finds the effective entry for an item: user config first, then
// the library.
func lookupEntry(name string, lib *domain.MarkupLibrary, cfg *domain.MarkupConfig) (domain.MarkupEntry, string, bool) {
	if cfg != nil {
		if e, ok := cfg.Entries[name]; ok {
			return e, domain.MarkupSourceUser, true
		}
	}
	if lib != nil {
		if e, ok := lib.Entries[name]; ok {
			source := e.Source
			if source == "" {
				source = domain.MarkupSourceLibrary
			}
			return e, source, true
		}
	}
	return domain.MarkupEntry{}, "", false
}

func fallbackPolicy(lib *domain.MarkupLibrary, cfg *domain.MarkupConfig) domain.FallbackPolicy {
	if cfg != nil && cfg.Fallback != nil && cfg.Fallback.IsValid() {
		return *cfg.Fallback
	}
	if lib != nil && lib.Fallback.IsValid() {
		return lib.Fallback
	}
	return domain.FallbackTT
}

func defaultPercent(lib *domain.MarkupLibrary, cfg *domain.MarkupConfig) float64 {
	if cfg != nil && cfg.DefaultPercent != nil {
		return *cfg.DefaultPercent
	}
	if lib != nil {
		return lib.DefaultPercent
	}
	return 0
}
