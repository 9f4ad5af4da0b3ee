package harness

import "github.com/roach88/mtt/internal/lifecycle"

// RunResult is the outcome of a scenario execution.
type RunResult struct {
	// Pass indicates overall scenario success.
	// True if every assertion held.
	Pass bool `json:"pass"`

	// Scenario is the executed scenario's name.
	Scenario string `json:"scenario"`

	// Outcome carries the aggregate status, per-worker results and the
	// phase trace of the underlying run.
	Outcome lifecycle.Outcome `json:"-"`

	// Ledger records which callbacks each worker entered.
	Ledger *Ledger `json:"-"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewRunResult creates a new passing result.
// Used as the starting point for scenario execution.
func NewRunResult(scenario string, outcome lifecycle.Outcome, ledger *Ledger) *RunResult {
	return &RunResult{
		Pass:     true,
		Scenario: scenario,
		Outcome:  outcome,
		Ledger:   ledger,
		Errors:   []string{},
	}
}

// AddError adds an assertion failure and marks the result as failed.
func (r *RunResult) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
