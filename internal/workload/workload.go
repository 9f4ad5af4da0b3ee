// Package workload carries the built-in tests runnable without a
// scenario file. They double as working examples of the callback
// contract: prestate discipline, per-worker state ownership and
// result-only failure reporting.
package workload

import (
	"sync/atomic"

	"github.com/roach88/mtt/internal/lifecycle"
)

// Names lists the built-in tests in the order the run command
// advertises them.
func Names() []string {
	return []string{"noop", "counter"}
}

// Lookup resolves a built-in test by name.
func Lookup(name string, cfg lifecycle.Config) (lifecycle.Test, bool) {
	switch name {
	case "noop":
		return Noop(cfg), true
	case "counter":
		return SharedCounter(cfg), true
	}
	return lifecycle.Test{}, false
}

// Noop returns a test whose every callback slot is nil: each worker
// walks the full phase ladder doing nothing and succeeds. Useful as a
// smoke test of the orchestrator itself and as the baseline for
// timing comparisons.
func Noop(cfg lifecycle.Config) lifecycle.Test {
	return lifecycle.Test{Prestate: cfg.Addr}
}

// CounterPrestate is the shared value of the counter test. Hits is
// the one deliberately shared variable, and it is atomic because the
// harness provides no synchronization for prestate access.
type CounterPrestate struct {
	Addr string
	Hits atomic.Int64
}

// counterState is the per-worker state of the counter test. It exists
// to exercise the ownership rules: allocated by the worker's own
// parallel init, read by its workload, released by its sequential
// fini, never visible to another worker.
type counterState struct {
	id     int
	ticked bool
}

// SharedCounter returns a test where every worker increments a shared
// atomic counter exactly once during the workload. The last worker's
// sequential fini verifies the total, so a lost or duplicated
// increment fails the run.
func SharedCounter(cfg lifecycle.Config) lifecycle.Test {
	prestate := &CounterPrestate{Addr: cfg.Addr}
	workers := cfg.Workers

	return lifecycle.Test{
		Prestate: prestate,
		ParallelInit: func(id int, _ any, state *any, res *lifecycle.Result) {
			*state = &counterState{id: id}
		},
		Workload: func(id int, prestate any, state any, res *lifecycle.Result) {
			cs, ok := state.(*counterState)
			if !ok {
				res.Failf(1, "worker %d: state not allocated", id)
				return
			}
			if cs.id != id {
				res.Failf(1, "worker %d: state owned by worker %d", id, cs.id)
				return
			}
			prestate.(*CounterPrestate).Hits.Add(1)
			cs.ticked = true
		},
		ParallelFini: func(id int, _ any, state any, res *lifecycle.Result) {
			cs, ok := state.(*counterState)
			if !ok {
				return
			}
			if !cs.ticked && !res.Failed() {
				res.Failf(1, "worker %d: workload ran but never ticked", id)
			}
		},
		SeqFini: func(id int, prestate any, state *any, res *lifecycle.Result) {
			*state = nil
			if id != workers-1 {
				return
			}
			got := prestate.(*CounterPrestate).Hits.Load()
			if got != int64(workers) {
				res.Failf(1, "counter mismatch: got %d hits, want %d", got, workers)
			}
		},
	}
}
