package harness

import (
	"fmt"

	"github.com/roach88/mtt/internal/lifecycle"
)

// Run executes a scenario and evaluates its assertions.
//
// The scripted test runs in-process through the real orchestrator, so
// barrier semantics, failure policies and trace ordering are exactly
// what production callers observe. Nothing is stubbed: an assertion
// holds because the run actually behaved that way.
//
// Execution flow:
//  1. Compile the scenario into a test descriptor and call ledger
//  2. Run it with the scenario's worker count
//  3. Evaluate assertions against the outcome and ledger
//  4. Return the result with pass/fail and failure messages
func Run(scenario *Scenario) (*RunResult, error) {
	test, ledger := BuildTest(scenario)

	outcome, err := lifecycle.Run(test, scenario.Workers)
	if err != nil {
		return nil, fmt.Errorf("failed to run scenario %q: %w", scenario.Name, err)
	}

	result := NewRunResult(scenario.Name, outcome, ledger)
	for _, msg := range EvaluateAssertions(outcome, ledger, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}
