package domain

// CostSplit is the per-shot cost stamped on a log entry at fold time,
// split into the ammo component and the decay component (both PED).
type CostSplit struct {
	Ammo  float64 `json:"ammo"`
	Decay float64 `json:"decay"`
}

// Total returns ammo plus decay.
func (c CostSplit) Total() float64 {
	return c.Ammo + c.Decay
}

// LogEntry is one event in a session's ordered log together with the
// attribution stamped when it was folded: the active loadout and its cost
// split. Recording these at fold time keeps a later re-fold bit-identical
// even if the active loadout changed since.
type LogEntry struct {
	Event     *LogEvent `json:"event"`
	LoadoutID string    `json:"loadout_id,omitempty"`
	Cost      CostSplit `json:"cost,omitempty"`
}

// LoadoutBreakdown is the per-loadout slice of the running totals.
type LoadoutBreakdown struct {
	LoadoutID string  `json:"loadout_id"`
	Shots     int64   `json:"shots"`
	Spend     float64 `json:"spend"` // ammo spend in PED
	Decay     float64 `json:"decay"` // equipment decay in PED
	LootValue float64 `json:"loot_value"`
	Profit    float64 `json:"profit"` // loot_value - spend - decay
}

// ItemTotal accumulates looted quantity and TT value per item name.
type ItemTotal struct {
	Quantity int     `json:"quantity"`
	TTValue  float64 `json:"tt_value"`
}

// RunningStats is the incrementally maintained totals structure of a session.
// It must always be reproducible by re-folding the full event log from an
// empty state; session.FoldLog is both the recovery path and the reference
// semantics of the incremental update.
type RunningStats struct {
	Shots       int64   `json:"shots"`
	Hits        int64   `json:"hits"`
	Criticals   int64   `json:"criticals"`
	DamageDealt float64 `json:"damage_dealt"`
	DamageTaken float64 `json:"damage_taken"`
	Healed      float64 `json:"healed"`
	LootValue   float64 `json:"loot_value"`
	SpendAmmo   float64 `json:"spend_ammo"`
	SpendDecay  float64 `json:"spend_decay"`
	SkillGains  float64 `json:"skill_gains"`
	SkillEvents int64   `json:"skill_events"`
	Kills       int64   `json:"kills"`
	Deaths      int64   `json:"deaths"`
	GlobalCount int64   `json:"global_count"`
	HofCount    int64   `json:"hof_count"`

	Loadouts map[string]*LoadoutBreakdown `json:"loadouts"`
	Items    map[string]*ItemTotal        `json:"items"`
}

// NewRunningStats creates a zeroed totals structure.
func NewRunningStats() *RunningStats {
	return &RunningStats{
		Loadouts: make(map[string]*LoadoutBreakdown),
		Items:    make(map[string]*ItemTotal),
	}
}

// Breakdown returns the per-loadout slice for the given ID, creating it on
// first use.
func (r *RunningStats) Breakdown(loadoutID string) *LoadoutBreakdown {
	b, ok := r.Loadouts[loadoutID]
	if !ok {
		b = &LoadoutBreakdown{LoadoutID: loadoutID}
		r.Loadouts[loadoutID] = b
	}
	return b
}

// Clone returns a deep copy of the running stats.
func (r *RunningStats) Clone() *RunningStats {
	if r == nil {
		return nil
	}
	c := *r
	c.Loadouts = make(map[string]*LoadoutBreakdown, len(r.Loadouts))
	for id, b := range r.Loadouts {
		bc := *b
		c.Loadouts[id] = &bc
	}
	c.Items = make(map[string]*ItemTotal, len(r.Items))
	for name, it := range r.Items {
		ic := *it
		c.Items[name] = &ic
	}
	return &c
}

// ManualExpenses are per-session cost overrides for equipment the engine does
// not meter per shot.
type ManualExpenses struct {
	Armor float64 `json:"armor"`
	FAP   float64 `json:"fap"`
	Misc  float64 `json:"misc"`
}

// Total returns the summed manual expenses.
func (e ManualExpenses) Total() float64 {
	return e.Armor + e.FAP + e.Misc
}

// Session owns one play session: the ordered event log, the running totals
// snapshot, and the pause-aware clock fields. Exactly one session is active
// (EndedAt nil) at a time for a given client.
type Session struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Tags []string `json:"tags,omitempty"`

	StartedAt     int64  `json:"started_at"` // Unix timestamp in milliseconds
	EndedAt       *int64 `json:"ended_at,omitempty"`
	PausedAt      *int64 `json:"paused_at,omitempty"`
	TotalPausedMs int64  `json:"total_paused_ms"` // monotonic non-decreasing

	Log      []*LogEntry    `json:"log"`
	Stats    *RunningStats  `json:"stats"`
	Expenses ManualExpenses `json:"expenses"`
}

// Active reports whether the session is still open (not ended).
func (s *Session) Active() bool {
	return s != nil && s.EndedAt == nil
}

// Paused reports whether the session is open and currently paused.
func (s *Session) Paused() bool {
	return s.Active() && s.PausedAt != nil
}

// Duration returns elapsed play time in milliseconds at nowMs: wall time
// minus accumulated pauses, minus the in-progress pause if any. Never
// negative.
func (s *Session) Duration(nowMs int64) int64 {
	if s == nil {
		return 0
	}
	end := nowMs
	if s.EndedAt != nil {
		end = *s.EndedAt
	}
	d := end - s.StartedAt - s.TotalPausedMs
	if s.EndedAt == nil && s.PausedAt != nil {
		d -= nowMs - *s.PausedAt
	}
	if d < 0 {
		d = 0
	}
	return d
}

// EventCount returns the number of logged events.
func (s *Session) EventCount() int {
	if s == nil {
		return 0
	}
	return len(s.Log)
}

// Meta returns the listing metadata for the session.
func (s *Session) Meta() *SessionMeta {
	return &SessionMeta{
		ID:         s.ID,
		Name:       s.Name,
		Tags:       append([]string(nil), s.Tags...),
		StartedAt:  s.StartedAt,
		EndedAt:    cloneInt64(s.EndedAt),
		EventCount: len(s.Log),
	}
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Tags = append([]string(nil), s.Tags...)
	c.EndedAt = cloneInt64(s.EndedAt)
	c.PausedAt = cloneInt64(s.PausedAt)
	c.Log = make([]*LogEntry, len(s.Log))
	for i, e := range s.Log {
		ec := *e
		if e.Event != nil {
			ev := *e.Event
			ec.Event = &ev
		}
		c.Log[i] = &ec
	}
	c.Stats = s.Stats.Clone()
	return &c
}

// SessionMeta is the listing record for a persisted session. It is derivable
// without loading the full event log.
type SessionMeta struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Tags       []string `json:"tags,omitempty"`
	StartedAt  int64    `json:"started_at"`
	EndedAt    *int64   `json:"ended_at,omitempty"`
	EventCount int      `json:"event_count"`
}

func cloneInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
