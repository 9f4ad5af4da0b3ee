package harness

import (
	"github.com/roach88/mtt/internal/lifecycle"
)

// CallbackKind indexes the five scripted callbacks.
type CallbackKind int

const (
	CallbackSeqInit CallbackKind = iota
	CallbackParallelInit
	CallbackWorkload
	CallbackParallelFini
	CallbackSeqFini

	callbackCount
)

// callbackKinds maps scenario phase names to callback indexes.
var callbackKinds = map[string]CallbackKind{
	"seq_init":      CallbackSeqInit,
	"parallel_init": CallbackParallelInit,
	"workload":      CallbackWorkload,
	"parallel_fini": CallbackParallelFini,
	"seq_fini":      CallbackSeqFini,
}

// Ledger records which callbacks each worker actually entered.
//
// Each cell is written only by the goroutine running that worker's
// callback, so no locking is needed. Read it only after the run has
// returned.
type Ledger struct {
	entered [callbackCount][]bool
}

func newLedger(workers int) *Ledger {
	l := &Ledger{}
	for k := range l.entered {
		l.entered[k] = make([]bool, workers)
	}
	return l
}

func (l *Ledger) mark(kind CallbackKind, worker int) {
	l.entered[kind][worker] = true
}

// Entered reports whether the worker's callback of the given kind ran.
func (l *Ledger) Entered(kind CallbackKind, worker int) bool {
	return l.entered[kind][worker]
}

// injKey addresses injections by callback and worker.
type injKey struct {
	kind   CallbackKind
	worker int
}

// BuildTest compiles a scenario into a runnable test descriptor and
// the ledger its callbacks record into.
//
// Every callback marks the ledger on entry, then applies any matching
// injections in scenario order. Workers without injections run every
// callback as a no-op success. The scenario's addr is the shared
// prestate.
func BuildTest(s *Scenario) (lifecycle.Test, *Ledger) {
	ledger := newLedger(s.Workers)

	injections := make(map[injKey][]Injection)
	for _, in := range s.Injections {
		key := injKey{kind: callbackKinds[in.Phase], worker: in.Worker}
		injections[key] = append(injections[key], in)
	}

	apply := func(kind CallbackKind, id int, res *lifecycle.Result) {
		ledger.mark(kind, id)
		for _, in := range injections[injKey{kind: kind, worker: id}] {
			applyInjection(in, res)
		}
	}

	test := lifecycle.Test{
		Prestate: s.Addr,
		SeqInit: func(id int, prestate any, state *any, res *lifecycle.Result) {
			apply(CallbackSeqInit, id, res)
		},
		ParallelInit: func(id int, prestate any, state *any, res *lifecycle.Result) {
			apply(CallbackParallelInit, id, res)
		},
		Workload: func(id int, prestate any, state any, res *lifecycle.Result) {
			apply(CallbackWorkload, id, res)
		},
		ParallelFini: func(id int, prestate any, state any, res *lifecycle.Result) {
			apply(CallbackParallelFini, id, res)
		},
		SeqFini: func(id int, prestate any, state *any, res *lifecycle.Result) {
			apply(CallbackSeqFini, id, res)
		},
	}

	return test, ledger
}

// applyInjection fails the result in the flavor the injection asks for.
// Message injections use fixed text so golden files stay stable across
// refactors; errno and rpma injections exercise the real diagnostic
// formatting.
func applyInjection(in Injection, res *lifecycle.Result) {
	kind := in.Kind
	if kind == "" {
		kind = KindMessage
	}

	switch kind {
	case KindMessage:
		res.Failf(in.Status, "%s", in.Message)
	case KindErrno:
		res.FailErrno(in.Op, in.Code)
	case KindRpma:
		res.FailRpma(in.Op, in.Code)
	}
}
