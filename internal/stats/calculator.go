// Package stats derives reports from a session aggregate. Quick is the O(1)
// projection of the running totals for every-tick reads; Full recomputes all
// derived ratios and the markup-adjusted block. Both are pure: unchanged
// inputs produce identical reports.
package stats

import (
	"sort"

	"hunt-stats-lab/internal/domain"
	"hunt-stats-lab/internal/markup"
)

// Quick returns the O(1) projection of the running totals plus elapsed
// duration. A nil session yields a zero report.
func Quick(s *domain.Session, nowMs int64) domain.QuickStats {
	if s == nil || s.Stats == nil {
		return domain.QuickStats{}
	}
	r := s.Stats
	totalCost := r.SpendAmmo + s.Expenses.Total()
	return domain.QuickStats{
		SessionID:   s.ID,
		DurationMs:  s.Duration(nowMs),
		Shots:       r.Shots,
		Hits:        r.Hits,
		Criticals:   r.Criticals,
		DamageDealt: r.DamageDealt,
		LootValue:   r.LootValue,
		TotalCost:   totalCost,
		Profit:      r.LootValue - totalCost,
		Kills:       r.Kills,
		Deaths:      r.Deaths,
		Paused:      s.Paused(),
	}
}

// Full recomputes the complete report: ratios, efficiency metrics, the
// per-loadout breakdown, and (when a markup library is supplied) the
// markup-adjusted loot/profit/return block. loadouts maps loadout IDs to
// their definitions for naming; missing loadouts and a nil library degrade
// to TT-only numbers rather than failing. nowMs is used for the duration of
// a still-active session and is echoed as GeneratedAt.
func Full(s *domain.Session, loadouts map[string]*domain.Loadout, lib *domain.MarkupLibrary, cfg *domain.MarkupConfig, nowMs int64) *domain.SessionStats {
	if s == nil || s.Stats == nil {
		return &domain.SessionStats{GeneratedAt: nowMs}
	}
	r := s.Stats

	durationMs := s.Duration(nowMs)
	seconds := float64(durationMs) / 1000
	hours := seconds / 3600

	totalCost := r.SpendAmmo + s.Expenses.Total()
	profit := r.LootValue - totalCost

	st := &domain.SessionStats{
		SessionID:   s.ID,
		Name:        s.Name,
		GeneratedAt: nowMs,
		DurationMs:  durationMs,

		Shots:       r.Shots,
		Hits:        r.Hits,
		Criticals:   r.Criticals,
		HitRate:     ratio(float64(r.Hits), float64(r.Shots)) * 100,
		CritRate:    ratio(float64(r.Criticals), float64(r.Shots)) * 100,
		DamageDealt: r.DamageDealt,
		DamageTaken: r.DamageTaken,
		Healed:      r.Healed,
		DPS:         ratio(r.DamageDealt, seconds),
		DPP:         ratio(r.DamageDealt, r.SpendAmmo+r.SpendDecay),

		LootValue:  r.LootValue,
		SpendAmmo:  r.SpendAmmo,
		SpendDecay: r.SpendDecay,
		Expenses:   s.Expenses.Total(),
		TotalCost:  totalCost,
		Profit:     profit,
		NetProfit:  profit - r.SpendDecay,
		ReturnRate: ratio(r.LootValue, totalCost) * 100,

		Kills:   r.Kills,
		Deaths:  r.Deaths,
		KDRatio: kdRatio(r.Kills, r.Deaths),
		Globals: r.GlobalCount,
		HOFs:    r.HofCount,

		SkillGains:   r.SkillGains,
		SkillEvents:  r.SkillEvents,
		SkillPerHour: ratio(r.SkillGains, hours),
		SkillPerKill: ratio(r.SkillGains, float64(r.Kills)),
		SkillPerPED:  ratio(r.SkillGains, totalCost),
		SkillPerShot: ratio(r.SkillGains, float64(r.Shots)),

		Loadouts: loadoutBreakdown(r, loadouts),
	}

	if lib != nil {
		st.Markup = markupBlock(r, totalCost, lib, cfg)
	}
	return st
}

// loadoutBreakdown converts the per-loadout running totals into report rows,
// ID-sorted for deterministic output.
func loadoutBreakdown(r *domain.RunningStats, loadouts map[string]*domain.Loadout) []domain.LoadoutStats {
	if len(r.Loadouts) == 0 {
		return nil
	}
	ids := make([]string, 0, len(r.Loadouts))
	for id := range r.Loadouts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rows := make([]domain.LoadoutStats, 0, len(ids))
	for _, id := range ids {
		b := r.Loadouts[id]
		row := domain.LoadoutStats{
			LoadoutID:  id,
			Shots:      b.Shots,
			Spend:      b.Spend,
			Decay:      b.Decay,
			LootValue:  b.LootValue,
			Profit:     b.Profit,
			ReturnRate: ratio(b.LootValue, b.Spend) * 100,
		}
		if l, ok := loadouts[id]; ok && l != nil {
			row.Name = l.Name
		}
		rows = append(rows, row)
	}
	return rows
}

// markupBlock resolves the accumulated item totals against the markup
// library and derives the adjusted economics.
func markupBlock(r *domain.RunningStats, totalCost float64, lib *domain.MarkupLibrary, cfg *domain.MarkupConfig) *domain.MarkupStats {
	batch := markup.ResolveTotals(r.Items, lib, cfg)

	items := make([]domain.ItemStats, 0, len(batch.Ledger))
	for _, res := range batch.Ledger {
		items = append(items, domain.ItemStats{
			Name:        res.Item,
			Quantity:    res.Quantity,
			TTValue:     res.TTValue,
			MarkupValue: res.MarkupValue,
			TotalValue:  res.TotalValue,
			Percent:     res.Percent,
		})
	}

	return &domain.MarkupStats{
		LootValue:  batch.TotalValue,
		Markup:     batch.TotalMarkup,
		Profit:     batch.TotalValue - totalCost,
		ReturnRate: ratio(batch.TotalValue, totalCost) * 100,
		Items:      items,
	}
}

// ratio divides with a zero guard: division by zero yields 0, never NaN or
// infinity.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// kdRatio is kills/deaths, or the raw kill count when there are no deaths.
func kdRatio(kills, deaths int64) float64 {
	if deaths > 0 {
		return float64(kills) / float64(deaths)
	}
	return float64(kills)
}

// Snapshot projects the headline numbers of a full report into a timeseries
// point for the analytics store.
func Snapshot(st *domain.SessionStats) *domain.StatsSnapshot {
	return &domain.StatsSnapshot{
		SessionID:   st.SessionID,
		TimestampMs: st.GeneratedAt,
		DurationMs:  st.DurationMs,
		Shots:       st.Shots,
		DamageDealt: st.DamageDealt,
		LootValue:   st.LootValue,
		TotalCost:   st.TotalCost,
		Profit:      st.Profit,
		ReturnRate:  st.ReturnRate,
		Kills:       st.Kills,
	}
}
