package scheduler

// Debouncer coalesces bursts of state changes into a single flush. Every
// Notify marks the state dirty and pushes the deadline out by the interval;
// FlushDue runs the flush once the deadline passes with no further
// notifications. A failed flush keeps the state dirty so the next due check
// retries.
//
// Not safe for concurrent use; the owning engine serializes access.
type Debouncer struct {
	clock      Clock
	intervalMs int64

	dirty    bool
	deadline int64
}

// NewDebouncer creates a debouncer with the given quiet interval.
func NewDebouncer(clock Clock, intervalMs int64) *Debouncer {
	return &Debouncer{clock: clock, intervalMs: intervalMs}
}

// Notify marks the state dirty and resets the quiet-period deadline.
func (d *Debouncer) Notify() {
	d.dirty = true
	d.deadline = d.clock.NowMs() + d.intervalMs
}

// Pending reports whether a flush is owed, due or not.
func (d *Debouncer) Pending() bool {
	return d.dirty
}

// FlushDue runs fn when the state is dirty and the quiet period has elapsed.
// On error the state stays dirty and the deadline is pushed out by one
// interval, so the next due check retries rather than spinning. Returns
// whether fn ran and its error.
func (d *Debouncer) FlushDue(fn func() error) (bool, error) {
	if !d.dirty || d.clock.NowMs() < d.deadline {
		return false, nil
	}
	return true, d.flush(fn)
}

// Force runs fn immediately when the state is dirty, ignoring the deadline.
// Used at finalize points where the write must not wait out the quiet period.
func (d *Debouncer) Force(fn func() error) (bool, error) {
	if !d.dirty {
		return false, nil
	}
	return true, d.flush(fn)
}

func (d *Debouncer) flush(fn func() error) error {
	if err := fn(); err != nil {
		d.deadline = d.clock.NowMs() + d.intervalMs
		return err
	}
	d.dirty = false
	return nil
}
