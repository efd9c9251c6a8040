// Package scheduler provides the write-coalescing primitives of the engine:
// a debouncer for dirty-state persistence and a throttle for expensive
// recomputation. Both take their time from an injectable Clock so tests run
// without sleeping.
package scheduler

import "time"

// Clock supplies the current time in Unix milliseconds.
type Clock interface {
	NowMs() int64
}

// RealClock reads the wall clock.
type RealClock struct{}

func (RealClock) NowMs() int64 {
	return time.Now().UnixMilli()
}

// FakeClock is a manually advanced clock for tests.
type FakeClock struct {
	Ms int64
}

func (c *FakeClock) NowMs() int64 {
	return c.Ms
}

// Advance moves the fake clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.Ms += d.Milliseconds()
}
