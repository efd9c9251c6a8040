package reporting

import (
	"strings"
	"testing"

	"hunt-stats-lab/internal/domain"
)

func sampleStats() *domain.SessionStats {
	return &domain.SessionStats{
		SessionID:   "sess-1",
		Name:        "evening hunt",
		GeneratedAt: 1_700_000_000_000,
		DurationMs:  3_600_000,
		Shots:       100,
		Hits:        85,
		HitRate:     85,
		DamageDealt: 1234.5,
		LootValue:   18.2,
		SpendAmmo:   20.5,
		TotalCost:   20.5,
		Profit:      -2.3,
		ReturnRate:  88.78,
		Loadouts: []domain.LoadoutStats{
			{LoadoutID: "lo-1", Name: "opalo", Shots: 100, Spend: 20.5, LootValue: 18.2, Profit: -2.3, ReturnRate: 88.78},
		},
		Markup: &domain.MarkupStats{
			LootValue:  21.0,
			Markup:     2.8,
			Profit:     0.5,
			ReturnRate: 102.44,
			Items: []domain.ItemStats{
				{Name: "Animal Oil", Quantity: 40, TTValue: 12.0, MarkupValue: 2.4, TotalValue: 14.4, Percent: 120},
			},
		},
	}
}

func TestRenderMarkdownSections(t *testing.T) {
	md := RenderMarkdown(sampleStats())

	for _, want := range []string{
		"# Session Report: evening hunt",
		"## Combat",
		"| Shots | 100 |",
		"| Hits | 85 (85.00%) |",
		"## Economy",
		"| Return Rate | 88.78% |",
		"## Loadouts",
		"| opalo | 100 |",
		"## Markup-Adjusted",
		"| Animal Oil | 40 |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestRenderMarkdownWithoutMarkup(t *testing.T) {
	st := sampleStats()
	st.Markup = nil
	md := RenderMarkdown(st)
	if strings.Contains(md, "Markup-Adjusted") {
		t.Error("markup section rendered without markup data")
	}
}

func TestRenderLoadoutCSV(t *testing.T) {
	csv := RenderLoadoutCSV(sampleStats().Loadouts)
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if lines[0] != "loadout_id,name,shots,spend,decay,loot_value,profit,return_rate" {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], "lo-1,opalo,100,") {
		t.Fatalf("unexpected row: %s", lines[1])
	}
}

func TestRenderItemsCSVEscapesNames(t *testing.T) {
	csv := RenderItemsCSV([]domain.ItemStats{
		{Name: `Tier 1,5 "rare"`, Quantity: 1, TTValue: 1, TotalValue: 1, Percent: 100},
	})
	if !strings.Contains(csv, `"Tier 1,5 ""rare"""`) {
		t.Fatalf("name not escaped: %s", csv)
	}
}
