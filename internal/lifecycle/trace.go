package lifecycle

import "sort"

// TraceEvent records one worker's entry into a lifecycle phase.
type TraceEvent struct {
	Seq    int64
	Worker int
	Phase  Phase
}

// traceArena collects per-worker event lanes without locking.
//
// Each worker goroutine appends only to its own lane, and the
// orchestrator touches a lane only before that worker's spawn or after
// its join, so no two goroutines ever write the same lane concurrently.
// Seq numbers still come from the shared clock, which keeps the merged
// order meaningful across lanes.
type traceArena struct {
	clock *Clock
	lanes [][]TraceEvent
}

func newTraceArena(clock *Clock, workers int) *traceArena {
	lanes := make([][]TraceEvent, workers)
	for i := range lanes {
		lanes[i] = make([]TraceEvent, 0, phaseCount)
	}
	return &traceArena{clock: clock, lanes: lanes}
}

// mark stamps worker's entry into phase with the next clock tick.
func (t *traceArena) mark(worker int, phase Phase) {
	t.lanes[worker] = append(t.lanes[worker], TraceEvent{
		Seq:    t.clock.Next(),
		Worker: worker,
		Phase:  phase,
	})
}

// merged returns all events ordered by Seq. Valid only after every
// worker has been joined.
func (t *traceArena) merged() []TraceEvent {
	n := 0
	for _, lane := range t.lanes {
		n += len(lane)
	}
	out := make([]TraceEvent, 0, n)
	for _, lane := range t.lanes {
		out = append(out, lane...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}

// WorkerLane filters a merged trace down to one worker's events,
// preserving order.
func WorkerLane(trace []TraceEvent, worker int) []TraceEvent {
	lane := make([]TraceEvent, 0, phaseCount)
	for _, ev := range trace {
		if ev.Worker == worker {
			lane = append(lane, ev)
		}
	}
	return lane
}
