package stats

import (
	"math"
	"reflect"
	"testing"

	"hunt-stats-lab/internal/domain"
)

func sampleSession() *domain.Session {
	r := domain.NewRunningStats()
	r.Shots = 100
	r.Hits = 85
	r.Criticals = 2
	r.DamageDealt = 1000
	r.LootValue = 18
	r.SpendAmmo = 16
	r.SpendDecay = 4
	r.SkillGains = 2.5
	r.SkillEvents = 10
	r.Kills = 5
	r.Loadouts["lo-1"] = &domain.LoadoutBreakdown{
		LoadoutID: "lo-1", Shots: 100, Spend: 16, Decay: 4, LootValue: 18, Profit: -2,
	}
	r.Items["Animal Oil"] = &domain.ItemTotal{Quantity: 40, TTValue: 18}

	ended := int64(1_000_000 + 3_600_000)
	return &domain.Session{
		ID:        "sess-1",
		Name:      "evening hunt",
		StartedAt: 1_000_000,
		EndedAt:   &ended,
		Stats:     r,
		Expenses:  domain.ManualExpenses{Armor: 2},
	}
}

func TestQuickStats(t *testing.T) {
	s := sampleSession()
	q := Quick(s, 5_000_000)

	if q.SessionID != "sess-1" || q.DurationMs != 3_600_000 {
		t.Fatalf("identity/duration: %+v", q)
	}
	// Total cost is ammo spend plus manual expenses; decay stays out of the
	// quick projection.
	if q.TotalCost != 18 || q.Profit != 0 {
		t.Fatalf("cost %.2f profit %.2f, want 18 / 0", q.TotalCost, q.Profit)
	}
	if q.Shots != 100 || q.Kills != 5 || q.Paused {
		t.Fatalf("totals: %+v", q)
	}

	if got := Quick(nil, 0); got != (domain.QuickStats{}) {
		t.Fatalf("nil session must yield a zero report: %+v", got)
	}
}

func TestFullDerivedRatios(t *testing.T) {
	st := Full(sampleSession(), nil, nil, nil, 5_000_000)

	if st.HitRate != 85 || st.CritRate != 2 {
		t.Fatalf("hit/crit rates: %.2f / %.2f", st.HitRate, st.CritRate)
	}
	// One hour session: 1000 damage over 3600s.
	if math.Abs(st.DPS-1000.0/3600) > 1e-9 {
		t.Fatalf("DPS %.6f", st.DPS)
	}
	if math.Abs(st.DPP-50) > 1e-9 { // 1000 / (16 + 4)
		t.Fatalf("DPP %.6f, want 50", st.DPP)
	}
	if st.TotalCost != 18 || st.Profit != 0 {
		t.Fatalf("cost %.2f profit %.2f", st.TotalCost, st.Profit)
	}
	if st.NetProfit != -4 {
		t.Fatalf("net profit %.2f, want -4", st.NetProfit)
	}
	if math.Abs(st.ReturnRate-100) > 1e-9 {
		t.Fatalf("return rate %.2f, want 100", st.ReturnRate)
	}
	if st.KDRatio != 5 {
		t.Fatalf("KD with zero deaths must be the kill count, got %.2f", st.KDRatio)
	}
	if math.Abs(st.SkillPerHour-2.5) > 1e-9 || math.Abs(st.SkillPerKill-0.5) > 1e-9 {
		t.Fatalf("skill rates: %.4f /h, %.4f /kill", st.SkillPerHour, st.SkillPerKill)
	}
	if st.Markup != nil {
		t.Fatal("markup block must be absent without a library")
	}
}

func TestFullIdempotent(t *testing.T) {
	s := sampleSession()
	lib := domain.NewMarkupLibrary()
	lib.Entries["Animal Oil"] = domain.MarkupEntry{Percent: 120}

	a := Full(s, nil, lib, nil, 5_000_000)
	b := Full(s, nil, lib, nil, 5_000_000)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("unchanged inputs must produce an identical report")
	}
}

func TestFullEmptySessionZeroGuards(t *testing.T) {
	s := &domain.Session{ID: "empty", StartedAt: 0, Stats: domain.NewRunningStats()}
	st := Full(s, nil, nil, nil, 0)

	for name, v := range map[string]float64{
		"hit rate":    st.HitRate,
		"crit rate":   st.CritRate,
		"dps":         st.DPS,
		"dpp":         st.DPP,
		"return rate": st.ReturnRate,
		"kd":          st.KDRatio,
		"skill/hour":  st.SkillPerHour,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v != 0 {
			t.Errorf("%s = %v, want 0", name, v)
		}
	}
}

func TestFullLoadoutBreakdownNaming(t *testing.T) {
	s := sampleSession()
	s.Stats.Loadouts["lo-0"] = &domain.LoadoutBreakdown{LoadoutID: "lo-0", Shots: 1}
	loadouts := map[string]*domain.Loadout{
		"lo-1": {ID: "lo-1", Name: "opalo"},
	}

	st := Full(s, loadouts, nil, nil, 5_000_000)
	if len(st.Loadouts) != 2 {
		t.Fatalf("expected 2 breakdown rows, got %d", len(st.Loadouts))
	}
	// ID-sorted: lo-0 first, unnamed.
	if st.Loadouts[0].LoadoutID != "lo-0" || st.Loadouts[0].Name != "" {
		t.Fatalf("first row: %+v", st.Loadouts[0])
	}
	if st.Loadouts[1].Name != "opalo" {
		t.Fatalf("named row: %+v", st.Loadouts[1])
	}
	if math.Abs(st.Loadouts[1].ReturnRate-112.5) > 1e-9 { // 18 / 16 * 100
		t.Fatalf("loadout return rate %.4f, want 112.5", st.Loadouts[1].ReturnRate)
	}
}

func TestFullMarkupBlock(t *testing.T) {
	lib := domain.NewMarkupLibrary()
	lib.Entries["Animal Oil"] = domain.MarkupEntry{Percent: 120}

	st := Full(sampleSession(), nil, lib, nil, 5_000_000)
	if st.Markup == nil {
		t.Fatal("expected markup block")
	}
	m := st.Markup
	if math.Abs(m.LootValue-21.6) > 1e-9 || math.Abs(m.Markup-3.6) > 1e-9 {
		t.Fatalf("adjusted loot %.4f markup %.4f, want 21.6 / 3.6", m.LootValue, m.Markup)
	}
	if math.Abs(m.Profit-3.6) > 1e-9 { // 21.6 - 18 total cost
		t.Fatalf("adjusted profit %.4f, want 3.6", m.Profit)
	}
	if math.Abs(m.ReturnRate-120) > 1e-9 {
		t.Fatalf("adjusted return rate %.4f, want 120", m.ReturnRate)
	}
	if len(m.Items) != 1 || m.Items[0].Quantity != 40 {
		t.Fatalf("ledger: %+v", m.Items)
	}
}

func TestSnapshotProjection(t *testing.T) {
	st := Full(sampleSession(), nil, nil, nil, 5_000_000)
	snap := Snapshot(st)

	if snap.SessionID != "sess-1" || snap.TimestampMs != 5_000_000 {
		t.Fatalf("identity: %+v", snap)
	}
	if snap.Shots != st.Shots || snap.Profit != st.Profit || snap.ReturnRate != st.ReturnRate {
		t.Fatalf("projection mismatch: %+v vs %+v", snap, st)
	}
}
