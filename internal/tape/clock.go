package tape

import "sync/atomic"

// SeqClock hands out monotonic sequence numbers for journal entries.
// Implemented by Clock (production) and testutil.DeterministicClock (tests,
// which adds Reset for scenario reuse).
type SeqClock interface {
	Next() int64
	Current() int64
}

// Clock is a monotonic logical clock for entry ordering.
//
// Every journal entry is stamped with a strictly increasing seq from this
// clock, so ordering never depends on wall time and replay reproduces the
// identical order.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations),
// though a Recorder drives it from a single goroutine.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a new clock starting at a specific sequence number.
// Used when resuming an existing session at its last recorded seq.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
