package lifecycle

import "sync"

// Barrier is a reusable fixed-party rendezvous.
//
// Wait blocks until parties goroutines have called it, then releases
// them all together and resets for the next cycle. The party count is
// fixed at construction: it must equal the number of spawned workers,
// and every spawned worker must call Wait exactly once per cycle, even
// a worker that already carries a failure. A missing participant blocks
// the release forever, which is why failed workers arrive instead of
// bailing out.
//
// Thread-safety: safe for concurrent use; that is its purpose.
type Barrier struct {
	mu      sync.Mutex
	parties int
	arrived int
	release chan struct{}
}

// NewBarrier creates a barrier for a fixed number of parties.
// Panics if parties is less than 1.
func NewBarrier(parties int) *Barrier {
	if parties < 1 {
		panic("lifecycle: barrier parties must be at least 1")
	}
	return &Barrier{
		parties: parties,
		release: make(chan struct{}),
	}
}

// Parties returns the fixed party count.
func (b *Barrier) Parties() int {
	return b.parties
}

// Wait blocks until all parties have arrived, then returns in every
// caller. The last arrival opens the current cycle's release channel
// and installs a fresh one, making the barrier immediately reusable.
func (b *Barrier) Wait() {
	b.mu.Lock()
	ch := b.release
	b.arrived++
	if b.arrived == b.parties {
		b.arrived = 0
		b.release = make(chan struct{})
		b.mu.Unlock()
		close(ch)
		return
	}
	b.mu.Unlock()
	<-ch
}
