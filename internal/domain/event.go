package domain

// EventKind identifies one variant of the log event taxonomy.
type EventKind string

// Event kind constants. The set is closed on the engine side; unknown kinds
// arriving from a newer log parser are folded as no-ops.
const (
	EventHit                 EventKind = "hit"
	EventCriticalHit         EventKind = "critical_hit"
	EventMiss                EventKind = "miss"
	EventDodge               EventKind = "dodge"
	EventEvade               EventKind = "evade"
	EventResist              EventKind = "resist"
	EventOutOfRange          EventKind = "out_of_range"
	EventDamageTaken         EventKind = "damage_taken"
	EventCriticalDamageTaken EventKind = "critical_damage_taken"
	EventSelfHeal            EventKind = "self_heal"
	EventHealedBy            EventKind = "healed_by"
	EventLoot                EventKind = "loot"
	EventClaim               EventKind = "claim"
	EventSkillGain           EventKind = "skill_gain"
	EventAttributeGain       EventKind = "attribute_gain"
	EventRankUp              EventKind = "rank_up"
	EventDeath               EventKind = "death"
	EventGlobal              EventKind = "global"
	EventHOF                 EventKind = "hof"
)

// String returns the string representation of the event kind.
func (k EventKind) String() string {
	return string(k)
}

// IsValid checks if the kind belongs to the known taxonomy.
func (k EventKind) IsValid() bool {
	switch k {
	case EventHit, EventCriticalHit, EventMiss, EventDodge, EventEvade,
		EventResist, EventOutOfRange, EventDamageTaken, EventCriticalDamageTaken,
		EventSelfHeal, EventHealedBy, EventLoot, EventClaim, EventSkillGain,
		EventAttributeGain, EventRankUp, EventDeath, EventGlobal, EventHOF:
		return true
	}
	return false
}

// LogEvent is a single classified line from the activity log.
// Exactly one payload pointer is set depending on Kind; kinds without a
// payload (miss, dodge, death, ...) carry none. Immutable once created.
type LogEvent struct {
	Kind      EventKind `json:"kind"`
	Timestamp int64     `json:"timestamp"` // Unix timestamp in milliseconds

	Combat    *CombatPayload    `json:"combat,omitempty"`
	Heal      *HealPayload      `json:"heal,omitempty"`
	Loot      *LootPayload      `json:"loot,omitempty"`
	Claim     *ClaimPayload     `json:"claim,omitempty"`
	Skill     *SkillPayload     `json:"skill,omitempty"`
	Rank      *RankPayload      `json:"rank,omitempty"`
	Broadcast *BroadcastPayload `json:"broadcast,omitempty"`
}

// CombatPayload carries a damage amount for hit and damage-taken kinds.
type CombatPayload struct {
	Amount float64 `json:"amount"`
	Target string  `json:"target,omitempty"`
}

// HealPayload carries a heal amount for self_heal and healed_by kinds.
type HealPayload struct {
	Amount float64 `json:"amount"`
	Source string  `json:"source,omitempty"`
}

// LootItem is one line of a loot drop.
type LootItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Value    float64 `json:"value"` // TT value in PED
}

// LootPayload carries the items of a loot event.
type LootPayload struct {
	Items []LootItem `json:"items"`
}

// TotalValue returns the summed TT value of all items.
func (p *LootPayload) TotalValue() float64 {
	total := 0.0
	for _, it := range p.Items {
		total += it.Value
	}
	return total
}

// ClaimPayload carries a mining claim. Claims add loot value but do not
// imply a creature kill.
type ClaimPayload struct {
	Resource string  `json:"resource"`
	Quantity int     `json:"quantity"`
	Value    float64 `json:"value"` // TT value in PED
}

// SkillPayload carries a skill or attribute gain.
type SkillPayload struct {
	Skill  string  `json:"skill"`
	Amount float64 `json:"amount"`
}

// RankPayload carries a profession rank-up announcement.
type RankPayload struct {
	Profession string `json:"profession"`
	Rank       int    `json:"rank"`
}

// BroadcastPayload carries a server-wide global or HOF announcement.
type BroadcastPayload struct {
	Player   string  `json:"player"`
	Creature string  `json:"creature,omitempty"`
	Value    float64 `json:"value"`
}
