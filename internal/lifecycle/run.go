package lifecycle

import "sync"

// Outcome is the aggregate of one completed run.
type Outcome struct {
	// Status is zero when every worker succeeded, otherwise the status
	// code of the lowest-id failed worker. Time of failure does not
	// matter, only id order, so the aggregate is deterministic.
	Status int

	// Results holds every worker's final record, indexed by worker id.
	Results []Result

	// Trace holds every phase transition of the run ordered by seq.
	Trace []TraceEvent
}

// Failed reports whether any worker failed.
func (o Outcome) Failed() bool {
	return o.Status != 0
}

// FirstFailure returns the lowest failed worker id, or -1 when the run
// succeeded.
func (o Outcome) FirstFailure() int {
	for id := range o.Results {
		if o.Results[id].Failed() {
			return id
		}
	}
	return -1
}

// Run drives exactly workers workers through the full phase sequence
// and returns the aggregate outcome.
//
// Phase order:
//  1. SeqInit for id 0..N-1 on the calling goroutine, before any spawn.
//  2. One goroutine per id. Each runs ParallelInit (skipped if SeqInit
//     already failed that worker), arrives at the barrier, and after
//     the release runs Workload (skipped on any prior failure) then
//     ParallelFini (always).
//  3. Join: wait for every worker goroutine.
//  4. SeqFini for id 0..N-1 on the calling goroutine, always.
//
// A worker that failed during setup is still spawned and still arrives
// at the barrier, so the release can never deadlock on a failed
// participant and every id keeps a 1:1 mapping to a worker and a
// result. Failures never propagate as control flow between workers and
// never abort the run; they only land in the per-worker Results.
//
// Run blocks until every worker terminates. There is no cancellation
// and no timeout: a hanging workload hangs the join, which is the
// documented contract. The returned error is non-nil only for
// configuration errors detected before any worker exists.
func Run(test Test, workers int) (Outcome, error) {
	if workers < 1 {
		return Outcome{}, &ConfigError{Field: "workers", Reason: "must be at least 1"}
	}

	clock := NewClock()
	trace := newTraceArena(clock, workers)
	results := make([]Result, workers)
	states := make([]any, workers)

	for id := 0; id < workers; id++ {
		trace.mark(id, PhaseCreated)
		if fn := test.SeqInit; fn != nil {
			fn(id, test.Prestate, &states[id], &results[id])
		}
		trace.mark(id, PhaseSeqInitDone)
	}

	barrier := NewBarrier(workers)
	var wg sync.WaitGroup
	for id := 0; id < workers; id++ {
		id := id
		trace.mark(id, PhaseSpawned)
		wg.Add(1)
		go func() {
			defer wg.Done()
			runWorker(id, test, barrier, trace, &states[id], &results[id])
		}()
	}
	wg.Wait()

	for id := 0; id < workers; id++ {
		trace.mark(id, PhaseJoined)
		if fn := test.SeqFini; fn != nil {
			fn(id, test.Prestate, &states[id], &results[id])
		}
		trace.mark(id, PhaseSeqFiniDone)
	}

	outcome := Outcome{Results: results, Trace: trace.merged()}
	for id := range results {
		if results[id].Failed() {
			outcome.Status = results[id].Status()
			break
		}
	}
	return outcome, nil
}

// runWorker is the body of one worker goroutine: parallel init, the
// rendezvous, the workload, parallel fini. Phase transitions are
// stamped even when the callback is skipped, so every worker's trace
// lane carries the full ladder.
func runWorker(id int, test Test, barrier *Barrier, trace *traceArena, state *any, res *Result) {
	if !res.Failed() {
		if fn := test.ParallelInit; fn != nil {
			fn(id, test.Prestate, state, res)
		}
	}
	trace.mark(id, PhaseParallelInitDone)

	trace.mark(id, PhaseAtBarrier)
	barrier.Wait()
	trace.mark(id, PhaseRunning)

	if !res.Failed() {
		if fn := test.Workload; fn != nil {
			fn(id, test.Prestate, *state, res)
		}
	}

	if fn := test.ParallelFini; fn != nil {
		fn(id, test.Prestate, *state, res)
	}
	trace.mark(id, PhaseParallelFiniDone)
}
