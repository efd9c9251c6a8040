package session

import "hunt-stats-lab/internal/domain"

// FoldLog re-folds an ordered event log into a fresh totals structure. This
// is both the recovery path for sessions missing their snapshot and the
// reference semantics of the incremental update: folding events one at a
// time must equal re-folding the whole log.
func FoldLog(log []*domain.LogEntry) *domain.RunningStats {
	stats := domain.NewRunningStats()
	for _, entry := range log {
		foldInto(stats, entry)
	}
	return stats
}

// foldInto applies one log entry to the running totals. Unrecognized event
// kinds are ignored: new kinds from a newer log parser must never fail a
// fold.
func foldInto(stats *domain.RunningStats, entry *domain.LogEntry) {
	if entry == nil || entry.Event == nil {
		return
	}
	ev := entry.Event

	switch ev.Kind {
	case domain.EventHit:
		stats.DamageDealt += combatAmount(ev)
		stats.Hits++
		recordShot(stats, entry)

	case domain.EventCriticalHit:
		stats.DamageDealt += combatAmount(ev)
		stats.Hits++
		stats.Criticals++
		recordShot(stats, entry)

	case domain.EventMiss, domain.EventDodge, domain.EventEvade,
		domain.EventResist, domain.EventOutOfRange:
		recordShot(stats, entry)

	case domain.EventDamageTaken, domain.EventCriticalDamageTaken:
		stats.DamageTaken += combatAmount(ev)

	case domain.EventSelfHeal, domain.EventHealedBy:
		if ev.Heal != nil {
			stats.Healed += ev.Heal.Amount
		}

	case domain.EventLoot:
		if ev.Loot != nil {
			recordLoot(stats, entry, ev.Loot.TotalValue())
			for _, it := range ev.Loot.Items {
				recordItem(stats, it.Name, it.Quantity, it.Value)
			}
		}
		// Loot is proof of a creature kill.
		stats.Kills++

	case domain.EventClaim:
		if ev.Claim != nil {
			recordLoot(stats, entry, ev.Claim.Value)
			recordItem(stats, ev.Claim.Resource, ev.Claim.Quantity, ev.Claim.Value)
		}

	case domain.EventSkillGain, domain.EventAttributeGain:
		if ev.Skill != nil {
			stats.SkillGains += ev.Skill.Amount
		}
		stats.SkillEvents++

	case domain.EventDeath:
		stats.Deaths++

	case domain.EventGlobal:
		stats.GlobalCount++

	case domain.EventHOF:
		stats.HofCount++

	case domain.EventRankUp:
		// Announced but not aggregated.

	default:
		// Unknown kind: no state change, never an error.
	}
}

// recordShot charges one trigger pull to the global totals and to the
// loadout stamped on the entry.
func recordShot(stats *domain.RunningStats, entry *domain.LogEntry) {
	stats.Shots++
	stats.SpendAmmo += entry.Cost.Ammo
	stats.SpendDecay += entry.Cost.Decay
	if entry.LoadoutID != "" {
		b := stats.Breakdown(entry.LoadoutID)
		b.Shots++
		b.Spend += entry.Cost.Ammo
		b.Decay += entry.Cost.Decay
		b.Profit = b.LootValue - b.Spend - b.Decay
	}
}

// recordLoot credits loot value to the global totals and to the loadout
// stamped on the entry.
func recordLoot(stats *domain.RunningStats, entry *domain.LogEntry, value float64) {
	stats.LootValue += value
	if entry.LoadoutID != "" {
		b := stats.Breakdown(entry.LoadoutID)
		b.LootValue += value
		b.Profit = b.LootValue - b.Spend - b.Decay
	}
}

func recordItem(stats *domain.RunningStats, name string, quantity int, value float64) {
	if name == "" {
		return
	}
	t, ok := stats.Items[name]
	if !ok {
		t = &domain.ItemTotal{}
		stats.Items[name] = t
	}
	t.Quantity += quantity
	t.TTValue += value
}

func combatAmount(ev *domain.LogEvent) float64 {
	if ev.Combat == nil {
		return 0
	}
	return ev.Combat.Amount
}
