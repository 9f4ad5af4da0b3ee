package lifecycle

import "sync/atomic"

// Clock is the monotonic logical clock stamping phase transitions.
//
// Every trace event carries a strictly increasing seq number from the
// run's clock, so the barrier guarantee is checkable after the fact:
// because Wait establishes happens-before between the last arrival and
// every release, all ParallelInitDone seqs precede all Running seqs.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations).
// Parallel phases stamp events from every worker goroutine at once.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number and increments the clock.
// Calls are linearizable - each call returns a unique, increasing value.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
