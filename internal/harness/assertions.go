package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/mtt/internal/lifecycle"
)

// AssertionError is returned when an assertion fails.
// It includes per-worker context to help debug the failure.
type AssertionError struct {
	Type     string             // Assertion type for categorization
	Expected string             // Human-readable expected outcome
	Actual   string             // Human-readable actual outcome
	Results  []lifecycle.Result // Per-worker results for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	// Header with assertion type
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)

	// Expected vs Actual (most important info)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	// Per-worker results for context
	fmt.Fprintf(&buf, "\nWorker results:\n")
	for i, res := range e.Results {
		if res.Failed() {
			fmt.Fprintf(&buf, "  [%d] status=%d errmsg=%q\n", i, res.Status(), res.Errmsg())
		} else {
			fmt.Fprintf(&buf, "  [%d] ok\n", i)
		}
	}

	return buf.String()
}

// EvaluateAssertions checks every assertion against the outcome and
// ledger, returning one message per failure. An empty slice means all
// assertions passed.
func EvaluateAssertions(outcome lifecycle.Outcome, ledger *Ledger, assertions []Assertion) []string {
	var failures []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertStatus:
			err = assertStatus(outcome, assertion)
		case AssertWorkerStatus:
			err = assertWorkerStatus(outcome, assertion)
		case AssertErrmsgContains:
			err = assertErrmsgContains(outcome, assertion)
		case AssertPhasesComplete:
			err = assertPhasesComplete(outcome)
		case AssertWorkloadSkipped:
			err = assertWorkloadSkipped(outcome, ledger, assertion)
		case AssertBarrierOrdering:
			err = assertBarrierOrdering(outcome)
		default:
			err = fmt.Errorf("assertions[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			failures = append(failures, err.Error())
		}
	}

	return failures
}

// assertStatus checks the aggregate run status.
func assertStatus(outcome lifecycle.Outcome, assertion Assertion) error {
	if outcome.Status == assertion.Status {
		return nil
	}
	return &AssertionError{
		Type:     AssertStatus,
		Expected: fmt.Sprintf("aggregate status %d", assertion.Status),
		Actual:   fmt.Sprintf("aggregate status %d", outcome.Status),
		Results:  outcome.Results,
	}
}

// assertWorkerStatus checks one worker's result status.
func assertWorkerStatus(outcome lifecycle.Outcome, assertion Assertion) error {
	if assertion.Worker < 0 || assertion.Worker >= len(outcome.Results) {
		return fmt.Errorf("worker_status: worker %d out of range [0,%d)", assertion.Worker, len(outcome.Results))
	}

	got := outcome.Results[assertion.Worker].Status()
	if got == assertion.Status {
		return nil
	}
	return &AssertionError{
		Type:     AssertWorkerStatus,
		Expected: fmt.Sprintf("worker %d status %d", assertion.Worker, assertion.Status),
		Actual:   fmt.Sprintf("worker %d status %d", assertion.Worker, got),
		Results:  outcome.Results,
	}
}

// assertErrmsgContains checks one worker's diagnostic for a substring.
func assertErrmsgContains(outcome lifecycle.Outcome, assertion Assertion) error {
	if assertion.Worker < 0 || assertion.Worker >= len(outcome.Results) {
		return fmt.Errorf("errmsg_contains: worker %d out of range [0,%d)", assertion.Worker, len(outcome.Results))
	}

	errmsg := outcome.Results[assertion.Worker].Errmsg()
	if strings.Contains(errmsg, assertion.Text) {
		return nil
	}
	return &AssertionError{
		Type:     AssertErrmsgContains,
		Expected: fmt.Sprintf("worker %d errmsg containing %q", assertion.Worker, assertion.Text),
		Actual:   fmt.Sprintf("worker %d errmsg %q", assertion.Worker, errmsg),
		Results:  outcome.Results,
	}
}

// assertPhasesComplete checks that every worker traversed the full
// phase ladder in order. Failed workers still traverse every phase, so
// this holds for any completed run regardless of injections.
func assertPhasesComplete(outcome lifecycle.Outcome) error {
	ladder := lifecycle.Ladder()

	for worker := range outcome.Results {
		lane := lifecycle.WorkerLane(outcome.Trace, worker)
		if len(lane) != len(ladder) {
			return &AssertionError{
				Type:     AssertPhasesComplete,
				Expected: fmt.Sprintf("worker %d traverses %d phases", worker, len(ladder)),
				Actual:   fmt.Sprintf("worker %d traversed %d phases", worker, len(lane)),
				Results:  outcome.Results,
			}
		}
		for i, ev := range lane {
			if ev.Phase != ladder[i] {
				return &AssertionError{
					Type:     AssertPhasesComplete,
					Expected: fmt.Sprintf("worker %d phase[%d] = %s", worker, i, ladder[i]),
					Actual:   fmt.Sprintf("worker %d phase[%d] = %s", worker, i, ev.Phase),
					Results:  outcome.Results,
				}
			}
		}
	}

	return nil
}

// assertWorkloadSkipped checks that one worker's workload never ran.
func assertWorkloadSkipped(outcome lifecycle.Outcome, ledger *Ledger, assertion Assertion) error {
	if ledger == nil {
		return fmt.Errorf("workload_skipped: no call ledger available")
	}
	if assertion.Worker < 0 || assertion.Worker >= len(outcome.Results) {
		return fmt.Errorf("workload_skipped: worker %d out of range [0,%d)", assertion.Worker, len(outcome.Results))
	}

	if !ledger.Entered(CallbackWorkload, assertion.Worker) {
		return nil
	}
	return &AssertionError{
		Type:     AssertWorkloadSkipped,
		Expected: fmt.Sprintf("worker %d workload skipped", assertion.Worker),
		Actual:   fmt.Sprintf("worker %d workload ran", assertion.Worker),
		Results:  outcome.Results,
	}
}

// assertBarrierOrdering checks that no worker entered its workload
// window before every worker finished parallel-init. The logical clock
// makes this checkable: the latest parallel_init_done stamp must
// precede the earliest running stamp.
func assertBarrierOrdering(outcome lifecycle.Outcome) error {
	var maxInitDone, minRunning int64
	minRunning = -1

	for _, ev := range outcome.Trace {
		switch ev.Phase {
		case lifecycle.PhaseParallelInitDone:
			if ev.Seq > maxInitDone {
				maxInitDone = ev.Seq
			}
		case lifecycle.PhaseRunning:
			if minRunning < 0 || ev.Seq < minRunning {
				minRunning = ev.Seq
			}
		}
	}

	// Vacuously true when either side of the barrier is absent.
	if maxInitDone == 0 || minRunning < 0 {
		return nil
	}

	if maxInitDone < minRunning {
		return nil
	}
	return &AssertionError{
		Type:     AssertBarrierOrdering,
		Expected: fmt.Sprintf("all parallel_init_done (max seq %d) before first running (seq %d)", maxInitDone, minRunning),
		Actual:   "a worker entered its workload window before the barrier released",
		Results:  outcome.Results,
	}
}
