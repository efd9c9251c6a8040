package domain

// QuickStats is the O(1) read-only projection of a session's running totals.
// Safe to compute on every UI tick; reads only RunningStats and the clock.
type QuickStats struct {
	SessionID   string  `json:"session_id"`
	DurationMs  int64   `json:"duration_ms"`
	Shots       int64   `json:"shots"`
	Hits        int64   `json:"hits"`
	Criticals   int64   `json:"criticals"`
	DamageDealt float64 `json:"damage_dealt"`
	LootValue   float64 `json:"loot_value"`
	TotalCost   float64 `json:"total_cost"` // ammo spend + manual expenses
	Profit      float64 `json:"profit"`
	Kills       int64   `json:"kills"`
	Deaths      int64   `json:"deaths"`
	Paused      bool    `json:"paused"`
}

// LoadoutStats is the derived per-loadout section of a full report.
type LoadoutStats struct {
	LoadoutID  string  `json:"loadout_id"`
	Name       string  `json:"name,omitempty"`
	Shots      int64   `json:"shots"`
	Spend      float64 `json:"spend"`
	Decay      float64 `json:"decay"`
	LootValue  float64 `json:"loot_value"`
	Profit     float64 `json:"profit"`
	ReturnRate float64 `json:"return_rate"` // percent
}

// ItemStats is one row of the markup-adjusted loot ledger.
type ItemStats struct {
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity"`
	TTValue     float64 `json:"tt_value"`
	MarkupValue float64 `json:"markup_value"`
	TotalValue  float64 `json:"total_value"`
	Percent     float64 `json:"percent"`
}

// MarkupStats is the markup-adjusted block of a full report, present only
// when a markup library was supplied.
type MarkupStats struct {
	LootValue  float64     `json:"loot_value"`  // TT + markup
	Markup     float64     `json:"markup"`      // markup component only
	Profit     float64     `json:"profit"`      // adjusted loot - total cost
	ReturnRate float64     `json:"return_rate"` // percent
	Items      []ItemStats `json:"items"`
}

// SessionStats is the full derived report for a session. It is stateless:
// recomputing with an unchanged session and configuration yields an
// identical report.
type SessionStats struct {
	SessionID   string `json:"session_id"`
	Name        string `json:"name"`
	GeneratedAt int64  `json:"generated_at"` // Unix ms supplied by the caller
	DurationMs  int64  `json:"duration_ms"`

	Shots       int64   `json:"shots"`
	Hits        int64   `json:"hits"`
	Criticals   int64   `json:"criticals"`
	HitRate     float64 `json:"hit_rate"`  // percent
	CritRate    float64 `json:"crit_rate"` // percent
	DamageDealt float64 `json:"damage_dealt"`
	DamageTaken float64 `json:"damage_taken"`
	Healed      float64 `json:"healed"`
	DPS         float64 `json:"dps"`
	DPP         float64 `json:"dpp"`

	LootValue  float64 `json:"loot_value"`
	SpendAmmo  float64 `json:"spend_ammo"`
	SpendDecay float64 `json:"spend_decay"`
	Expenses   float64 `json:"expenses"`
	TotalCost  float64 `json:"total_cost"`
	Profit     float64 `json:"profit"`
	NetProfit  float64 `json:"net_profit"`
	ReturnRate float64 `json:"return_rate"` // percent

	Kills   int64   `json:"kills"`
	Deaths  int64   `json:"deaths"`
	KDRatio float64 `json:"kd_ratio"`
	Globals int64   `json:"globals"`
	HOFs    int64   `json:"hofs"`

	SkillGains   float64 `json:"skill_gains"`
	SkillEvents  int64   `json:"skill_events"`
	SkillPerHour float64 `json:"skill_per_hour"`
	SkillPerKill float64 `json:"skill_per_kill"`
	SkillPerPED  float64 `json:"skill_per_ped"`
	SkillPerShot float64 `json:"skill_per_shot"`

	Loadouts []LoadoutStats `json:"loadouts"`
	Markup   *MarkupStats   `json:"markup,omitempty"`
}

// StatsSnapshot is one timeseries point of a session's headline numbers,
// written to the analytics store whenever full stats are recomputed.
type StatsSnapshot struct {
	SessionID   string  `json:"session_id"`
	TimestampMs int64   `json:"timestamp_ms"`
	DurationMs  int64   `json:"duration_ms"`
	Shots       int64   `json:"shots"`
	DamageDealt float64 `json:"damage_dealt"`
	LootValue   float64 `json:"loot_value"`
	TotalCost   float64 `json:"total_cost"`
	Profit      float64 `json:"profit"`
	ReturnRate  float64 `json:"return_rate"`
	Kills       int64   `json:"kills"`
}
