package lifecycle

// Phase identifies a worker's position in the run state machine.
//
// Every worker advances through all phases in order regardless of
// failures: a worker that failed during setup still arrives at the
// barrier, passes through the workload phase without invoking the
// callback, and runs both teardown phases. PhaseSeqFiniDone is terminal.
type Phase int

const (
	PhaseCreated Phase = iota
	PhaseSeqInitDone
	PhaseSpawned
	PhaseParallelInitDone
	PhaseAtBarrier
	PhaseRunning
	PhaseParallelFiniDone
	PhaseJoined
	PhaseSeqFiniDone
)

// phaseCount is the number of states every worker passes through.
const phaseCount = 9

// String returns the snake_case phase name used in traces and stored
// run history.
func (p Phase) String() string {
	switch p {
	case PhaseCreated:
		return "created"
	case PhaseSeqInitDone:
		return "seq_init_done"
	case PhaseSpawned:
		return "spawned"
	case PhaseParallelInitDone:
		return "parallel_init_done"
	case PhaseAtBarrier:
		return "at_barrier"
	case PhaseRunning:
		return "running"
	case PhaseParallelFiniDone:
		return "parallel_fini_done"
	case PhaseJoined:
		return "joined"
	case PhaseSeqFiniDone:
		return "seq_fini_done"
	default:
		return "unknown"
	}
}

// Ladder returns the full phase sequence in transition order.
func Ladder() []Phase {
	return []Phase{
		PhaseCreated,
		PhaseSeqInitDone,
		PhaseSpawned,
		PhaseParallelInitDone,
		PhaseAtBarrier,
		PhaseRunning,
		PhaseParallelFiniDone,
		PhaseJoined,
		PhaseSeqFiniDone,
	}
}
