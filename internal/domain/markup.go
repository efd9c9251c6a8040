package domain

// FallbackPolicy selects how items without a markup entry are valued.
type FallbackPolicy string

// Fallback policy constants.
const (
	// FallbackTT values unknown items at their TT value with zero markup.
	FallbackTT FallbackPolicy = "tt"
	// FallbackDefault applies the library-wide default percent.
	FallbackDefault FallbackPolicy = "default"
	// FallbackZero values unknown items at zero.
	FallbackZero FallbackPolicy = "zero"
)

// IsValid checks if the policy is a known value.
func (p FallbackPolicy) IsValid() bool {
	return p == FallbackTT || p == FallbackDefault || p == FallbackZero
}

// Markup entry source constants.
const (
	MarkupSourceLibrary = "library"
	MarkupSourceUser    = "user"
)

// MarkupEntry prices one item above (or below) its TT value.
// Percent mode applies when Percent > 0 (100 = no markup); otherwise fixed
// mode applies when Value > 0 (a flat PED delta).
type MarkupEntry struct {
	Percent float64 `json:"percent,omitempty"` // total-value percentage
	Value   float64 `json:"value,omitempty"`   // fixed PED delta
	Source  string  `json:"source,omitempty"`
}

// MarkupLibrary is the shared item-name → markup mapping plus the
// library-wide fallback policy for unlisted items.
type MarkupLibrary struct {
	Entries        map[string]MarkupEntry `json:"entries"`
	DefaultPercent float64                `json:"default_percent"`
	Fallback       FallbackPolicy         `json:"fallback"`
	IsCustom       bool                   `json:"is_custom"`
	SyncedAt       int64                  `json:"synced_at,omitempty"` // Unix ms of last remote sync
}

// NewMarkupLibrary creates an empty library with the TT fallback policy.
func NewMarkupLibrary() *MarkupLibrary {
	return &MarkupLibrary{
		Entries:  make(map[string]MarkupEntry),
		Fallback: FallbackTT,
	}
}

// Clone returns a deep copy of the library.
func (l *MarkupLibrary) Clone() *MarkupLibrary {
	if l == nil {
		return nil
	}
	c := *l
	c.Entries = make(map[string]MarkupEntry, len(l.Entries))
	for name, e := range l.Entries {
		c.Entries[name] = e
	}
	return &c
}

// MarkupConfig is the user override layer applied on top of a synced library.
// Nil pointer fields leave the library value in effect.
type MarkupConfig struct {
	Entries        map[string]MarkupEntry `json:"entries,omitempty"`
	DefaultPercent *float64               `json:"default_percent,omitempty"`
	Fallback       *FallbackPolicy        `json:"fallback,omitempty"`
}
