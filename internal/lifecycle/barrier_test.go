package lifecycle

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBarrier_RejectsZeroParties(t *testing.T) {
	assert.Panics(t, func() { NewBarrier(0) })
	assert.Panics(t, func() { NewBarrier(-1) })
}

func TestBarrier_SingleParty_ReturnsImmediately(t *testing.T) {
	b := NewBarrier(1)

	// Must not block; a deadlock here fails the test run outright.
	b.Wait()
	b.Wait()

	assert.Equal(t, 1, b.Parties())
}

func TestBarrier_AllOrNothingRelease(t *testing.T) {
	const parties = 16
	b := NewBarrier(parties)

	var arrived atomic.Int64
	seenAtRelease := make(chan int64, parties)

	var wg sync.WaitGroup
	for i := 0; i < parties; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			arrived.Add(1)
			b.Wait()
			// Every arrival increments before Wait, and Wait cannot
			// return before the last arrival, so each waiter must
			// observe the full count here.
			seenAtRelease <- arrived.Load()
		}()
	}
	wg.Wait()
	close(seenAtRelease)

	count := 0
	for seen := range seenAtRelease {
		assert.Equal(t, int64(parties), seen, "a waiter was released before all parties arrived")
		count++
	}
	require.Equal(t, parties, count)
}

func TestBarrier_ReusableAcrossCycles(t *testing.T) {
	const parties = 4
	const cycles = 3
	b := NewBarrier(parties)

	var completed atomic.Int64

	var wg sync.WaitGroup
	for i := 0; i < parties; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := 0; c < cycles; c++ {
				b.Wait()
			}
			completed.Add(1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(parties), completed.Load(), "every party should survive all cycles")
}

func TestBarrier_FailedParticipantStillReleases(t *testing.T) {
	// A worker carrying a failure must still arrive; the barrier has no
	// notion of failure and must release on arrival count alone.
	const parties = 3
	b := NewBarrier(parties)

	results := make([]Result, parties)
	results[1].Failf(5, "failed before the barrier")

	var wg sync.WaitGroup
	released := make(chan int, parties)
	for i := 0; i < parties; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Wait()
			released <- i
		}()
	}
	wg.Wait()
	close(released)

	ids := map[int]bool{}
	for id := range released {
		ids[id] = true
	}
	assert.Len(t, ids, parties, "all parties must be released, failed or not")
}
