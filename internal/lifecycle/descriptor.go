package lifecycle

// InitFunc is the callback shape for the sequential phases and for
// parallel init: callbacks receive write access to the worker's state
// slot and may allocate, replace or release its contents.
//
// Arguments:
//   - id: the worker identifier, constant across all five phases of the
//     same worker, a bijection onto [0, workers).
//   - prestate: the shared configuration value, passed by reference to
//     every worker in every phase with no synchronization provided.
//   - state: the worker's own slot. Contents placed here are owned by
//     the test; the harness never allocates, inspects or frees them.
//   - res: the worker's result record, the only permitted failure
//     channel. Callbacks must not print during parallel phases.
type InitFunc func(id int, prestate any, state *any, res *Result)

// WorkFunc is the callback shape for the workload and for parallel
// fini: the state slot's current contents are passed by value and the
// slot itself cannot be reassigned until sequential fini.
type WorkFunc func(id int, prestate any, state any, res *Result)

// Test bundles the shared prestate with the five phase callbacks.
//
// Every callback slot is independently optional: a nil slot is a
// successful no-op for that phase. The zero Test is therefore a valid
// descriptor that runs every worker through the full phase ladder
// doing nothing.
type Test struct {
	// Prestate is handed to every callback of every worker. The
	// harness never copies, mutates or frees it.
	Prestate any

	// SeqInit runs on the orchestrating goroutine for id 0..N-1 in
	// order, before any worker is spawned.
	SeqInit InitFunc

	// ParallelInit runs at the start of each worker goroutine,
	// unordered across workers, skipped for a worker that already
	// failed in SeqInit.
	ParallelInit InitFunc

	// Workload runs after the barrier releases all workers together,
	// skipped for a worker with any prior failure.
	Workload WorkFunc

	// ParallelFini runs at the end of each worker goroutine,
	// unconditionally, so resources acquired by earlier phases are
	// released even on the failure path.
	ParallelFini WorkFunc

	// SeqFini runs on the orchestrating goroutine for id 0..N-1 in
	// order, after every worker has been joined, unconditionally.
	SeqFini InitFunc
}
