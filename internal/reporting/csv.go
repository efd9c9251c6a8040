package reporting

import (
	"fmt"
	"strings"

	"hunt-stats-lab/internal/domain"
)

// RenderLoadoutCSV renders the per-loadout breakdown as a CSV string.
func RenderLoadoutCSV(loadouts []domain.LoadoutStats) string {
	var sb strings.Builder

	// Header
	sb.WriteString("loadout_id,name,shots,spend,decay,loot_value,profit,return_rate\n")

	// Rows
	for _, l := range loadouts {
		sb.WriteString(fmt.Sprintf("%s,%s,%d,%.6f,%.6f,%.6f,%.6f,%.6f\n",
			l.LoadoutID,
			csvEscape(l.Name),
			l.Shots,
			l.Spend,
			l.Decay,
			l.LootValue,
			l.Profit,
			l.ReturnRate,
		))
	}

	return sb.String()
}

// RenderItemsCSV renders the markup-adjusted loot ledger as a CSV string.
func RenderItemsCSV(items []domain.ItemStats) string {
	var sb strings.Builder

	// Header
	sb.WriteString("item,quantity,tt_value,markup_value,total_value,percent\n")

	// Rows
	for _, it := range items {
		sb.WriteString(fmt.Sprintf("%s,%d,%.6f,%.6f,%.6f,%.2f\n",
			csvEscape(it.Name),
			it.Quantity,
			it.TTValue,
			it.MarkupValue,
			it.TotalValue,
			it.Percent,
		))
	}

	return sb.String()
}

// csvEscape quotes a field containing separators or quotes.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
