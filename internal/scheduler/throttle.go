package scheduler

// Throttle rate-limits an expensive recomputation: the first call after the
// interval has elapsed is allowed immediately, calls inside the interval are
// denied. Unlike the debouncer there is no trailing execution; callers serve
// the cached result when denied.
//
// Not safe for concurrent use; the owning engine serializes access.
type Throttle struct {
	clock      Clock
	intervalMs int64

	last int64
}

// NewThrottle creates a throttle with the given minimum interval.
func NewThrottle(clock Clock, intervalMs int64) *Throttle {
	return &Throttle{clock: clock, intervalMs: intervalMs}
}

// Allow reports whether a recomputation may run now, and records the run
// when it may.
func (t *Throttle) Allow() bool {
	now := t.clock.NowMs()
	if t.last != 0 && now-t.last < t.intervalMs {
		return false
	}
	t.last = now
	return true
}

// Reset clears the throttle so the next Allow passes. Used when the cached
// result is invalidated wholesale, e.g. on a session switch.
func (t *Throttle) Reset() {
	t.last = 0
}
