// Package tracker wires the session aggregate, the stats calculator, and the
// persistence schedulers into one engine. The engine itself holds no locks:
// callers (the HTTP server, the replay tool) serialize access to it.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"hunt-stats-lab/internal/domain"
	"hunt-stats-lab/internal/observability"
	"hunt-stats-lab/internal/scheduler"
	"hunt-stats-lab/internal/session"
	"hunt-stats-lab/internal/stats"
	"hunt-stats-lab/internal/storage"
)

// Default scheduler intervals.
const (
	DefaultDebounceMs      = 500
	DefaultStatsIntervalMs = 500
)

// ErrNoSession is returned by operations that need a current session when
// there is none.
var ErrNoSession = errors.New("no session")

// Options configures the engine. SessionStore and Registry are required;
// the snapshot and markup stores are optional and disable their features
// when nil.
type Options struct {
	SessionStore  storage.SessionStore
	SnapshotStore storage.StatsSnapshotStore
	MarkupStore   storage.MarkupStore
	Registry      *LoadoutRegistry

	MarkupConfig *domain.MarkupConfig

	Clock           scheduler.Clock
	DebounceMs      int64
	StatsIntervalMs int64

	Logger *log.Logger
}

// Engine drives one session at a time: lifecycle, event folding, debounced
// persistence, and throttled full-stats recomputation.
type Engine struct {
	agg       *session.Aggregate
	registry  *LoadoutRegistry
	sessions  storage.SessionStore
	snapshots storage.StatsSnapshotStore
	markups   storage.MarkupStore

	markupCfg *domain.MarkupConfig

	clock    scheduler.Clock
	debounce *scheduler.Debouncer
	throttle *scheduler.Throttle

	cached *domain.SessionStats

	logger *log.Logger
}

// NewEngine creates an engine from the options, filling in defaults.
func NewEngine(opts Options) (*Engine, error) {
	if opts.SessionStore == nil {
		return nil, errors.New("session store is required")
	}
	if opts.Registry == nil {
		return nil, errors.New("loadout registry is required")
	}
	clock := opts.Clock
	if clock == nil {
		clock = scheduler.RealClock{}
	}
	debounceMs := opts.DebounceMs
	if debounceMs <= 0 {
		debounceMs = DefaultDebounceMs
	}
	statsMs := opts.StatsIntervalMs
	if statsMs <= 0 {
		statsMs = DefaultStatsIntervalMs
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stdout, "[tracker] ", log.LstdFlags|log.Lshortfile)
	}

	return &Engine{
		agg:       session.New(opts.Registry, clock.NowMs),
		registry:  opts.Registry,
		sessions:  opts.SessionStore,
		snapshots: opts.SnapshotStore,
		markups:   opts.MarkupStore,
		markupCfg: opts.MarkupConfig,
		clock:     clock,
		debounce:  scheduler.NewDebouncer(clock, debounceMs),
		throttle:  scheduler.NewThrottle(clock, statsMs),
		logger:    logger,
	}, nil
}

// Registry returns the engine's loadout registry.
func (e *Engine) Registry() *LoadoutRegistry {
	return e.registry
}

// Session returns the current session, active or finalized. Nil when idle.
func (e *Engine) Session() *domain.Session {
	return e.agg.Session()
}

// Rehydrate reattaches the session a previous run left active, if any. A
// record persisted without its running stats (older installs) is rebuilt from
// its event log. Returns nil when every stored session is finalized.
func (e *Engine) Rehydrate(ctx context.Context) (*domain.Session, error) {
	metas, err := e.sessions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	for _, m := range metas {
		if m.EndedAt != nil {
			continue
		}
		s, err := e.sessions.Load(ctx, m.ID)
		if err != nil {
			return nil, fmt.Errorf("load session %s: %w", m.ID, err)
		}
		rebuilt := s.Stats == nil
		e.agg.Attach(s)
		if rebuilt {
			observability.RecordStatsRebuild()
			e.logger.Printf("rebuilt running stats for session %s from %d events", s.ID, s.EventCount())
		}
		e.resetDerived()
		e.logger.Printf("rehydrated active session %s", s.ID)
		return s, nil
	}
	return nil, nil
}

// StartSession finalizes any current session and starts a new one. Both the
// finalized and the new session are persisted immediately rather than
// debounced: a lifecycle boundary must not sit dirty in memory.
func (e *Engine) StartSession(ctx context.Context, name string, tags []string) (*domain.Session, error) {
	if old := e.agg.Stop(); old != nil {
		e.debounce.Notify()
		if _, err := e.debounce.Force(func() error { return e.persist(ctx) }); err != nil {
			return nil, fmt.Errorf("finalize previous session: %w", err)
		}
		observability.RecordSessionStopped()
		e.logger.Printf("finalized session %s (%d events)", old.ID, old.EventCount())
	}

	s, err := e.agg.Start(name, tags)
	if err != nil {
		return nil, err
	}
	e.resetDerived()

	e.debounce.Notify()
	if _, err := e.debounce.Force(func() error { return e.persist(ctx) }); err != nil {
		return nil, fmt.Errorf("persist new session: %w", err)
	}
	observability.RecordSessionStarted()
	e.logger.Printf("started session %s %q", s.ID, name)
	return s, nil
}

// AddEvent folds one event into the current session. Returns whether the
// event was accepted; events with no active session, or during a pause, are
// dropped.
func (e *Engine) AddEvent(ev *domain.LogEvent) bool {
	if !e.agg.AddEvent(ev) {
		observability.RecordEventIgnored()
		return false
	}
	observability.RecordEventFolded(ev.Kind.String())
	e.debounce.Notify()
	return true
}

// Pause freezes the session clock.
func (e *Engine) Pause() bool {
	if !e.agg.Pause() {
		return false
	}
	e.debounce.Notify()
	return true
}

// Unpause resumes the session clock.
func (e *Engine) Unpause() bool {
	if !e.agg.Unpause() {
		return false
	}
	e.debounce.Notify()
	return true
}

// SetExpenses replaces the current session's manual expenses.
func (e *Engine) SetExpenses(exp domain.ManualExpenses) error {
	s := e.agg.Session()
	if s == nil {
		return ErrNoSession
	}
	s.Expenses = exp
	e.debounce.Notify()
	return nil
}

// StopSession finalizes and persists the current session.
func (e *Engine) StopSession(ctx context.Context) (*domain.Session, error) {
	s := e.agg.Stop()
	if s == nil {
		return nil, ErrNoSession
	}
	e.debounce.Notify()
	if _, err := e.debounce.Force(func() error { return e.persist(ctx) }); err != nil {
		return nil, fmt.Errorf("persist stopped session: %w", err)
	}
	observability.RecordSessionStopped()
	e.logger.Printf("stopped session %s (%d events)", s.ID, s.EventCount())
	return s, nil
}

// ResumeSession reopens a stored session, finalizing the current one first.
// A session persisted without its running stats (older installs) is rebuilt
// from its event log.
func (e *Engine) ResumeSession(ctx context.Context, id string) (*domain.Session, error) {
	target, err := e.sessions.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}

	if old := e.agg.Stop(); old != nil {
		e.debounce.Notify()
		if _, err := e.debounce.Force(func() error { return e.persist(ctx) }); err != nil {
			return nil, fmt.Errorf("finalize previous session: %w", err)
		}
		observability.RecordSessionStopped()
	}

	rebuilt := target.Stats == nil
	e.agg.Resume(target)
	if rebuilt {
		observability.RecordStatsRebuild()
		e.logger.Printf("rebuilt running stats for session %s from %d events", id, target.EventCount())
	}
	e.resetDerived()

	e.debounce.Notify()
	if _, err := e.debounce.Force(func() error { return e.persist(ctx) }); err != nil {
		return nil, fmt.Errorf("persist resumed session: %w", err)
	}
	observability.RecordSessionResumed()
	e.logger.Printf("resumed session %s", id)
	return target, nil
}

// ListSessions returns metadata for all stored sessions, newest first.
func (e *Engine) ListSessions(ctx context.Context) ([]*domain.SessionMeta, error) {
	return e.sessions.List(ctx)
}

// LoadSession returns a stored session in full.
func (e *Engine) LoadSession(ctx context.Context, id string) (*domain.Session, error) {
	return e.sessions.Load(ctx, id)
}

// DeleteSession removes a stored session. The session currently attached to
// the engine cannot be deleted.
func (e *Engine) DeleteSession(ctx context.Context, id string) (bool, error) {
	if s := e.agg.Session(); s != nil && s.ID == id {
		return false, fmt.Errorf("session %s is in use", id)
	}
	return e.sessions.Delete(ctx, id)
}

// QuickStats returns the cheap projection of the current session's totals.
func (e *Engine) QuickStats() domain.QuickStats {
	return stats.Quick(e.agg.Session(), e.clock.NowMs())
}

// FullStats returns the complete derived report. Recomputation is throttled:
// inside the interval the previous report is served unchanged. Each fresh
// recomputation also appends a snapshot to the timeseries store when one is
// configured.
func (e *Engine) FullStats(ctx context.Context) (*domain.SessionStats, error) {
	s := e.agg.Session()
	if s == nil {
		return nil, ErrNoSession
	}

	if !e.throttle.Allow() && e.cached != nil {
		observability.RecordStatsCacheHit()
		return e.cached, nil
	}

	lib, err := e.loadLibrary(ctx)
	if err != nil {
		return nil, err
	}

	st := stats.Full(s, e.registry.Index(), lib, e.markupCfg, e.clock.NowMs())
	e.cached = st
	observability.RecordStatsRecompute()

	if e.snapshots != nil {
		snap := stats.Snapshot(st)
		if err := e.snapshots.InsertBulk(ctx, []*domain.StatsSnapshot{snap}); err != nil {
			// Snapshot history is best-effort; the report itself stands.
			e.logger.Printf("write stats snapshot: %v", err)
		} else {
			observability.RecordSnapshotWritten()
		}
	}
	return st, nil
}

// FlushIfDue persists the session when the debounce deadline has passed.
// Intended to be called from a coarse ticker.
func (e *Engine) FlushIfDue(ctx context.Context) error {
	_, err := e.debounce.FlushDue(func() error { return e.persist(ctx) })
	return err
}

// Flush persists any dirty state immediately. Used on shutdown.
func (e *Engine) Flush(ctx context.Context) error {
	_, err := e.debounce.Force(func() error { return e.persist(ctx) })
	return err
}

// Pending reports whether unpersisted state exists.
func (e *Engine) Pending() bool {
	return e.debounce.Pending()
}

func (e *Engine) persist(ctx context.Context) error {
	s := e.agg.Session()
	if s == nil {
		return nil
	}
	start := time.Now()
	err := e.sessions.Save(ctx, s)
	observability.RecordPersist(time.Since(start).Seconds(), err)
	if err != nil {
		return fmt.Errorf("save session %s: %w", s.ID, err)
	}
	return nil
}

// loadLibrary fetches the markup library; no store or no stored library
// degrades the report to TT-only numbers.
func (e *Engine) loadLibrary(ctx context.Context) (*domain.MarkupLibrary, error) {
	if e.markups == nil {
		return nil, nil
	}
	lib, err := e.markups.LoadLibrary(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load markup library: %w", err)
	}
	return lib, nil
}

// resetDerived drops the cached report and re-arms the stats throttle when
// the current session changes.
func (e *Engine) resetDerived() {
	e.cached = nil
	e.throttle.Reset()
}
