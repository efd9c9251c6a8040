package session

import (
	"fmt"
	"reflect"
	"testing"

	"hunt-stats-lab/internal/domain"
)

// fakeSource is a swappable LoadoutSource.
type fakeSource struct {
	active *domain.Loadout
}

func (s *fakeSource) Active() *domain.Loadout { return s.active }

// testClock is a manually advanced millisecond clock.
type testClock struct {
	ms int64
}

func (c *testClock) now() int64       { return c.ms }
func (c *testClock) advance(ms int64) { c.ms += ms }

func newTestAggregate() (*Aggregate, *testClock, *fakeSource) {
	clock := &testClock{ms: 1_000_000}
	src := &fakeSource{}
	return New(src, clock.now), clock, src
}

func hitEvent(ts int64, amount float64) *domain.LogEvent {
	return &domain.LogEvent{
		Kind:      domain.EventHit,
		Timestamp: ts,
		Combat:    &domain.CombatPayload{Amount: amount},
	}
}

func lootEvent(ts int64, name string, qty int, value float64) *domain.LogEvent {
	return &domain.LogEvent{
		Kind:      domain.EventLoot,
		Timestamp: ts,
		Loot:      &domain.LootPayload{Items: []domain.LootItem{{Name: name, Quantity: qty, Value: value}}},
	}
}

func TestStartRejectsSecondSession(t *testing.T) {
	agg, _, _ := newTestAggregate()

	if _, err := agg.Start("first", nil); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := agg.Start("second", nil); err != ErrSessionActive {
		t.Fatalf("expected ErrSessionActive, got %v", err)
	}

	agg.Stop()
	if _, err := agg.Start("second", nil); err != nil {
		t.Fatalf("start after stop: %v", err)
	}
}

func TestPauseExcludedFromDuration(t *testing.T) {
	agg, clock, _ := newTestAggregate()
	s, err := agg.Start("hunt", nil)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	clock.advance(100_000)
	if !agg.Pause() {
		t.Fatal("pause failed")
	}
	if agg.Pause() {
		t.Fatal("double pause must be a no-op")
	}
	clock.advance(120_000)
	if !agg.Unpause() {
		t.Fatal("unpause failed")
	}
	if agg.Unpause() {
		t.Fatal("double unpause must be a no-op")
	}
	clock.advance(380_000)
	agg.Stop()

	// 600s wall time minus 120s paused.
	if got := s.Duration(clock.now()); got != 480_000 {
		t.Fatalf("duration %d ms, want 480000", got)
	}
}

func TestStopClosesInProgressPause(t *testing.T) {
	agg, clock, _ := newTestAggregate()
	s, _ := agg.Start("hunt", nil)

	clock.advance(60_000)
	agg.Pause()
	clock.advance(30_000)
	stopped := agg.Stop()

	if stopped == nil || stopped.PausedAt != nil {
		t.Fatal("stop must clear the in-progress pause")
	}
	if s.TotalPausedMs != 30_000 {
		t.Fatalf("pause not accumulated: %d ms", s.TotalPausedMs)
	}
	if got := s.Duration(clock.now()); got != 60_000 {
		t.Fatalf("duration %d ms, want 60000", got)
	}
}

func TestAddEventRejectedOutsideActiveState(t *testing.T) {
	agg, clock, _ := newTestAggregate()

	if agg.AddEvent(hitEvent(clock.now(), 1)) {
		t.Fatal("idle aggregate must reject events")
	}

	s, _ := agg.Start("hunt", nil)
	agg.Pause()
	if agg.AddEvent(hitEvent(clock.now(), 1)) {
		t.Fatal("paused session must reject events")
	}
	agg.Unpause()
	if !agg.AddEvent(hitEvent(clock.now(), 1)) {
		t.Fatal("active session must accept events")
	}

	agg.Stop()
	if agg.AddEvent(hitEvent(clock.now(), 1)) {
		t.Fatal("ended session must reject events")
	}
	if len(s.Log) != 1 {
		t.Fatalf("expected 1 logged event, got %d", len(s.Log))
	}
}

func TestHuntScenario(t *testing.T) {
	agg, clock, _ := newTestAggregate()
	s, _ := agg.Start("hunt", nil)

	for i := 0; i < 100; i++ {
		clock.advance(1_000)
		if !agg.AddEvent(hitEvent(clock.now(), 10)) {
			t.Fatalf("hit %d rejected", i)
		}
	}
	agg.AddEvent(lootEvent(clock.now(), "Animal Oil", 2, 5))

	if s.Stats.Shots != 100 {
		t.Fatalf("shots %d, want 100", s.Stats.Shots)
	}
	if s.Stats.DamageDealt != 1000 {
		t.Fatalf("damage %.2f, want 1000", s.Stats.DamageDealt)
	}
	if s.Stats.Kills != 1 {
		t.Fatalf("kills %d, want 1", s.Stats.Kills)
	}
	if s.Stats.LootValue != 5 {
		t.Fatalf("loot %.2f, want 5", s.Stats.LootValue)
	}
}

func TestCriticalCountsAsHit(t *testing.T) {
	agg, clock, _ := newTestAggregate()
	s, _ := agg.Start("hunt", nil)

	agg.AddEvent(&domain.LogEvent{
		Kind:      domain.EventCriticalHit,
		Timestamp: clock.now(),
		Combat:    &domain.CombatPayload{Amount: 25},
	})

	if s.Stats.Shots != 1 || s.Stats.Hits != 1 || s.Stats.Criticals != 1 {
		t.Fatalf("crit fold: %+v", s.Stats)
	}
	if s.Stats.DamageDealt != 25 {
		t.Fatalf("crit damage %.2f, want 25", s.Stats.DamageDealt)
	}
}

func TestClaimAddsLootWithoutKill(t *testing.T) {
	agg, clock, _ := newTestAggregate()
	s, _ := agg.Start("mine", nil)

	agg.AddEvent(&domain.LogEvent{
		Kind:      domain.EventClaim,
		Timestamp: clock.now(),
		Claim:     &domain.ClaimPayload{Resource: "Lysterium", Quantity: 50, Value: 3.2},
	})

	if s.Stats.Kills != 0 {
		t.Fatalf("claim must not count a kill, got %d", s.Stats.Kills)
	}
	if s.Stats.LootValue != 3.2 {
		t.Fatalf("claim loot %.2f, want 3.2", s.Stats.LootValue)
	}
	if it := s.Stats.Items["Lysterium"]; it == nil || it.Quantity != 50 {
		t.Fatalf("claim item total: %+v", it)
	}
}

func TestUnknownKindIgnored(t *testing.T) {
	agg, clock, _ := newTestAggregate()
	s, _ := agg.Start("hunt", nil)

	before := *s.Stats
	agg.AddEvent(&domain.LogEvent{Kind: "teleport", Timestamp: clock.now()})

	if s.Stats.Shots != before.Shots || len(s.Log) != 1 {
		t.Fatal("unknown kind must be logged but not aggregated")
	}
	// Rank-up is known but also a no-op.
	agg.AddEvent(&domain.LogEvent{Kind: domain.EventRankUp, Timestamp: clock.now(), Rank: &domain.RankPayload{Profession: "Sniper", Rank: 3}})
	if s.Stats.Shots != before.Shots {
		t.Fatal("rank_up must not change totals")
	}
}

func TestShotCostAttribution(t *testing.T) {
	agg, clock, src := newTestAggregate()
	override := 0.05
	src.active = &domain.Loadout{ID: "lo-1", UseManualCost: true, ManualCostPerShot: &override}

	s, _ := agg.Start("hunt", nil)
	agg.AddEvent(hitEvent(clock.now(), 10))
	agg.AddEvent(&domain.LogEvent{Kind: domain.EventMiss, Timestamp: clock.now()})
	agg.AddEvent(lootEvent(clock.now(), "Wool", 1, 1.5))

	if s.Stats.SpendAmmo != 0.1 || s.Stats.SpendDecay != 0 {
		t.Fatalf("spend ammo %.4f decay %.4f, want 0.1 / 0", s.Stats.SpendAmmo, s.Stats.SpendDecay)
	}
	b := s.Stats.Loadouts["lo-1"]
	if b == nil || b.Shots != 2 || b.Spend != 0.1 || b.LootValue != 1.5 {
		t.Fatalf("loadout breakdown: %+v", b)
	}
	if b.Profit != 1.4 {
		t.Fatalf("breakdown profit %.4f, want 1.4", b.Profit)
	}
}

func TestMidSessionLoadoutSwap(t *testing.T) {
	agg, clock, src := newTestAggregate()
	c1, c2 := 0.02, 0.04
	src.active = &domain.Loadout{ID: "lo-1", UseManualCost: true, ManualCostPerShot: &c1}

	s, _ := agg.Start("hunt", nil)
	agg.AddEvent(hitEvent(clock.now(), 5))

	src.active = &domain.Loadout{ID: "lo-2", UseManualCost: true, ManualCostPerShot: &c2}
	agg.AddEvent(hitEvent(clock.now(), 5))
	agg.AddEvent(hitEvent(clock.now(), 5))

	b1, b2 := s.Stats.Loadouts["lo-1"], s.Stats.Loadouts["lo-2"]
	if b1 == nil || b1.Shots != 1 || b1.Spend != 0.02 {
		t.Fatalf("first loadout: %+v", b1)
	}
	if b2 == nil || b2.Shots != 2 || b2.Spend != 0.08 {
		t.Fatalf("second loadout: %+v", b2)
	}
}

func TestIncrementalFoldMatchesRebuild(t *testing.T) {
	agg, clock, src := newTestAggregate()
	cost := 0.03
	src.active = &domain.Loadout{ID: "lo-1", UseManualCost: true, ManualCostPerShot: &cost}

	s, _ := agg.Start("hunt", nil)
	events := []*domain.LogEvent{
		hitEvent(clock.now(), 12.5),
		{Kind: domain.EventMiss, Timestamp: clock.now()},
		{Kind: domain.EventCriticalHit, Timestamp: clock.now(), Combat: &domain.CombatPayload{Amount: 40}},
		lootEvent(clock.now(), "Animal Oil", 3, 2.1),
		{Kind: domain.EventSkillGain, Timestamp: clock.now(), Skill: &domain.SkillPayload{Skill: "Rifle", Amount: 0.5}},
		{Kind: domain.EventDamageTaken, Timestamp: clock.now(), Combat: &domain.CombatPayload{Amount: 8}},
		{Kind: domain.EventSelfHeal, Timestamp: clock.now(), Heal: &domain.HealPayload{Amount: 6}},
		{Kind: domain.EventDeath, Timestamp: clock.now()},
		{Kind: domain.EventGlobal, Timestamp: clock.now(), Broadcast: &domain.BroadcastPayload{Player: "x", Value: 55}},
	}
	for i, ev := range events {
		if !agg.AddEvent(ev) {
			t.Fatalf("event %d rejected", i)
		}
	}

	rebuilt := FoldLog(s.Log)
	if !reflect.DeepEqual(s.Stats, rebuilt) {
		t.Fatalf("incremental fold diverged from rebuild:\nincremental: %+v\nrebuilt:     %+v", s.Stats, rebuilt)
	}
}

func TestResumeRebuildsMissingStats(t *testing.T) {
	agg, clock, _ := newTestAggregate()
	agg.Start("hunt", nil)
	agg.AddEvent(hitEvent(clock.now(), 10))
	agg.AddEvent(lootEvent(clock.now(), "Wool", 1, 0.5))
	ended := agg.Stop()

	// Simulate a legacy record persisted without its snapshot.
	ended.Stats = nil
	clock.advance(1_000)
	agg.Resume(ended)

	if ended.EndedAt != nil {
		t.Fatal("resume must clear the end timestamp")
	}
	if ended.Stats == nil || ended.Stats.Shots != 1 || ended.Stats.LootValue != 0.5 {
		t.Fatalf("rebuilt stats: %+v", ended.Stats)
	}
	if !agg.AddEvent(hitEvent(clock.now(), 10)) {
		t.Fatal("resumed session must accept events")
	}
}

func TestSessionIDsUnique(t *testing.T) {
	agg, _, _ := newTestAggregate()
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		s, err := agg.Start(fmt.Sprintf("hunt-%d", i), nil)
		if err != nil {
			t.Fatalf("start %d: %v", i, err)
		}
		if seen[s.ID] {
			t.Fatalf("duplicate session ID %s", s.ID)
		}
		seen[s.ID] = true
		agg.Stop()
	}
}
