// Package reporting renders session reports for humans and spreadsheets.
package reporting

import (
	"fmt"
	"strings"
	"time"

	"hunt-stats-lab/internal/domain"
)

// RenderMarkdown renders a full session report as a Markdown string.
func RenderMarkdown(st *domain.SessionStats) string {
	var sb strings.Builder

	// Header
	title := st.Name
	if title == "" {
		title = st.SessionID
	}
	sb.WriteString(fmt.Sprintf("# Session Report: %s\n\n", title))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", time.UnixMilli(st.GeneratedAt).UTC().Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Duration: %s | Events folded into %d shots\n\n", formatDuration(st.DurationMs), st.Shots))

	// Combat
	sb.WriteString("## Combat\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Shots | %d |\n", st.Shots))
	sb.WriteString(fmt.Sprintf("| Hits | %d (%.2f%%) |\n", st.Hits, st.HitRate))
	sb.WriteString(fmt.Sprintf("| Criticals | %d (%.2f%%) |\n", st.Criticals, st.CritRate))
	sb.WriteString(fmt.Sprintf("| Damage Dealt | %.1f |\n", st.DamageDealt))
	sb.WriteString(fmt.Sprintf("| Damage Taken | %.1f |\n", st.DamageTaken))
	sb.WriteString(fmt.Sprintf("| Healed | %.1f |\n", st.Healed))
	sb.WriteString(fmt.Sprintf("| DPS | %.2f |\n", st.DPS))
	sb.WriteString(fmt.Sprintf("| Damage per PED | %.2f |\n", st.DPP))
	sb.WriteString(fmt.Sprintf("| Kills / Deaths | %d / %d (%.2f) |\n", st.Kills, st.Deaths, st.KDRatio))
	sb.WriteString(fmt.Sprintf("| Globals / HOFs | %d / %d |\n", st.Globals, st.HOFs))
	sb.WriteString("\n")

	// Economy
	sb.WriteString("## Economy\n\n")
	sb.WriteString("| Metric | PED |\n")
	sb.WriteString("|--------|-----|\n")
	sb.WriteString(fmt.Sprintf("| Loot (TT) | %.4f |\n", st.LootValue))
	sb.WriteString(fmt.Sprintf("| Ammo Spend | %.4f |\n", st.SpendAmmo))
	sb.WriteString(fmt.Sprintf("| Decay | %.4f |\n", st.SpendDecay))
	sb.WriteString(fmt.Sprintf("| Manual Expenses | %.4f |\n", st.Expenses))
	sb.WriteString(fmt.Sprintf("| Total Cost | %.4f |\n", st.TotalCost))
	sb.WriteString(fmt.Sprintf("| Profit | %.4f |\n", st.Profit))
	sb.WriteString(fmt.Sprintf("| Net Profit | %.4f |\n", st.NetProfit))
	sb.WriteString(fmt.Sprintf("| Return Rate | %.2f%% |\n", st.ReturnRate))
	sb.WriteString("\n")

	// Skills
	sb.WriteString("## Skills\n\n")
	sb.WriteString(fmt.Sprintf("Gained %.4f over %d events | %.4f/hour | %.4f/kill | %.4f/PED\n\n",
		st.SkillGains, st.SkillEvents, st.SkillPerHour, st.SkillPerKill, st.SkillPerPED))

	// Loadouts
	sb.WriteString("## Loadouts\n\n")
	if len(st.Loadouts) > 0 {
		sb.WriteString("| Loadout | Shots | Spend | Decay | Loot | Profit | Return |\n")
		sb.WriteString("|---------|-------|-------|-------|------|--------|--------|\n")
		for _, l := range st.Loadouts {
			name := l.Name
			if name == "" {
				name = l.LoadoutID
			}
			sb.WriteString(fmt.Sprintf("| %s | %d | %.4f | %.4f | %.4f | %.4f | %.2f%% |\n",
				name, l.Shots, l.Spend, l.Decay, l.LootValue, l.Profit, l.ReturnRate))
		}
	} else {
		sb.WriteString("No loadout attribution recorded.\n")
	}
	sb.WriteString("\n")

	// Markup
	if st.Markup != nil {
		sb.WriteString("## Markup-Adjusted\n\n")
		sb.WriteString(fmt.Sprintf("Adjusted loot: %.4f PED (markup %.4f) | Profit: %.4f | Return: %.2f%%\n\n",
			st.Markup.LootValue, st.Markup.Markup, st.Markup.Profit, st.Markup.ReturnRate))
		if len(st.Markup.Items) > 0 {
			sb.WriteString("| Item | Qty | TT | Markup | Total | % |\n")
			sb.WriteString("|------|-----|----|--------|-------|---|\n")
			for _, it := range st.Markup.Items {
				sb.WriteString(fmt.Sprintf("| %s | %d | %.4f | %.4f | %.4f | %.1f |\n",
					it.Name, it.Quantity, it.TTValue, it.MarkupValue, it.TotalValue, it.Percent))
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// formatDuration renders milliseconds as h/m/s.
func formatDuration(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
