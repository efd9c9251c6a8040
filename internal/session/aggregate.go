// Package session owns the session aggregate: the ordered event log, the
// incrementally maintained running totals, and the pause-aware lifecycle
// state machine (Idle → Active ⇄ Paused → Ended, with explicit resume).
package session

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"hunt-stats-lab/internal/domain"
	"hunt-stats-lab/internal/idhash"
	"hunt-stats-lab/internal/loadout"
)

// ErrSessionActive is returned when starting a session while another one is
// still active. The caller must finalize the active session first.
var ErrSessionActive = errors.New("a session is already active")

// LoadoutSource supplies the currently active loadout. It is consulted fresh
// at every fold so a mid-session loadout swap is attributed correctly from
// the next event onward.
type LoadoutSource interface {
	Active() *domain.Loadout
}

// Aggregate is the single-writer unit of mutation for one session at a time.
// All mutation is serialized through sequential calls; the aggregate holds
// no locks of its own.
type Aggregate struct {
	nowFn    func() int64
	loadouts LoadoutSource
	session  *domain.Session
}

// New creates an aggregate with no active session. A nil nowFn uses the wall
// clock in Unix milliseconds.
func New(loadouts LoadoutSource, nowFn func() int64) *Aggregate {
	if nowFn == nil {
		nowFn = func() int64 { return time.Now().UnixMilli() }
	}
	return &Aggregate{nowFn: nowFn, loadouts: loadouts}
}

// Session returns the session currently attached to the aggregate, active or
// not. Nil when idle.
func (a *Aggregate) Session() *domain.Session {
	return a.session
}

// Attach sets an existing session as the aggregate's current one, rebuilding
// its running stats when the snapshot is missing (legacy records). Used when
// rehydrating the active session at startup.
func (a *Aggregate) Attach(s *domain.Session) {
	if s != nil && s.Stats == nil {
		Rebuild(s)
	}
	a.session = s
}

// Start creates a new active session. Fails with ErrSessionActive when one
// is already active; switching sessions is the caller's finalize-then-start
// sequence.
func (a *Aggregate) Start(name string, tags []string) (*domain.Session, error) {
	if a.session.Active() {
		return nil, ErrSessionActive
	}
	now := a.nowFn()
	s := &domain.Session{
		ID:        idhash.ComputeSessionID(name, now, uuid.NewString()),
		Name:      name,
		Tags:      append([]string(nil), tags...),
		StartedAt: now,
		Stats:     domain.NewRunningStats(),
	}
	a.session = s
	return s, nil
}

// AddEvent appends an event to the log and folds it into the running totals
// in O(1). No-op when there is no active session, the session has ended, or
// it is paused. Returns true when the event was folded.
func (a *Aggregate) AddEvent(ev *domain.LogEvent) bool {
	s := a.session
	if ev == nil || !s.Active() || s.PausedAt != nil {
		return false
	}

	entry := &domain.LogEntry{Event: ev}
	if attributesLoadout(ev.Kind) && a.loadouts != nil {
		if l := a.loadouts.Active(); l != nil {
			entry.LoadoutID = l.ID
			if isShotKind(ev.Kind) {
				ammo, decay := loadout.ShotCost(l)
				entry.Cost = domain.CostSplit{Ammo: ammo, Decay: decay}
			}
		}
	}

	s.Log = append(s.Log, entry)
	foldInto(s.Stats, entry)
	return true
}

// Pause freezes the session clock and rejects events until Unpause. Returns
// false when there is nothing to pause or the session is already paused.
func (a *Aggregate) Pause() bool {
	s := a.session
	if !s.Active() || s.PausedAt != nil {
		return false
	}
	now := a.nowFn()
	s.PausedAt = &now
	return true
}

// Unpause accumulates the elapsed pause into TotalPausedMs and resumes the
// clock. Returns false when the session is not paused.
func (a *Aggregate) Unpause() bool {
	s := a.session
	if !s.Active() || s.PausedAt == nil {
		return false
	}
	s.TotalPausedMs += a.nowFn() - *s.PausedAt
	s.PausedAt = nil
	return true
}

// Stop finalizes the active session. An in-progress pause is counted up to
// now before the end timestamp is stamped. Returns the finalized session, or
// nil when there was no active session.
func (a *Aggregate) Stop() *domain.Session {
	s := a.session
	if !s.Active() {
		return nil
	}
	now := a.nowFn()
	if s.PausedAt != nil {
		s.TotalPausedMs += now - *s.PausedAt
		s.PausedAt = nil
	}
	s.EndedAt = &now
	return s
}

// Resume reopens a historical session: the caller must have finalized and
// flushed any other active session first (Stop provides the finalized
// session for that). Clears the end timestamp so the clock continues, and
// rebuilds the running stats when the snapshot is missing.
func (a *Aggregate) Resume(target *domain.Session) {
	if target == nil {
		return
	}
	target.EndedAt = nil
	if target.Stats == nil {
		Rebuild(target)
	}
	a.session = target
}

// Rebuild replaces a session's running stats by re-folding its full event
// log from empty state. The result is identical to what the incremental
// fold would have produced.
func Rebuild(s *domain.Session) {
	if s == nil {
		return
	}
	s.Stats = FoldLog(s.Log)
}

// isShotKind reports whether the kind consumes one shot (and its cost).
func isShotKind(k domain.EventKind) bool {
	switch k {
	case domain.EventHit, domain.EventCriticalHit, domain.EventMiss,
		domain.EventDodge, domain.EventEvade, domain.EventResist,
		domain.EventOutOfRange:
		return true
	}
	return false
}

// attributesLoadout reports whether the kind is stamped with the active
// loadout for the per-loadout breakdown: shots and loot.
func attributesLoadout(k domain.EventKind) bool {
	return isShotKind(k) || k == domain.EventLoot
}
