package harness

import (
	"strconv"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/mtt/internal/lifecycle"
	"github.com/roach88/mtt/internal/report"
)

// snapshotMap flattens a run result into a map for canonical JSON
// serialization. The snapshot carries the aggregate status, per-worker
// results and per-worker phase ladders.
//
// The global trace interleaving is scheduler-dependent, so snapshots
// record each worker's lane (always the same ladder) rather than the
// merged order. Injections that feed golden scenarios should use fixed
// message text so diagnostics stay stable across refactors.
func snapshotMap(result *RunResult) map[string]any {
	results := make([]any, len(result.Outcome.Results))
	for i, res := range result.Outcome.Results {
		entry := map[string]any{
			"worker": i,
			"status": res.Status(),
		}
		if res.Errmsg() != "" {
			entry["errmsg"] = res.Errmsg()
		}
		results[i] = entry
	}

	phases := make(map[string]any, len(result.Outcome.Results))
	for worker := range result.Outcome.Results {
		lane := lifecycle.WorkerLane(result.Outcome.Trace, worker)
		ladder := make([]any, len(lane))
		for i, ev := range lane {
			ladder[i] = ev.Phase.String()
		}
		phases[strconv.Itoa(worker)] = ladder
	}

	return map[string]any{
		"scenario": result.Scenario,
		"status":   result.Outcome.Status,
		"results":  results,
		"phases":   phases,
	}
}

// Snapshot renders a result's canonical snapshot bytes, the payload
// golden files store. The test command compares these directly; tests
// in this package go through goldie instead.
func Snapshot(result *RunResult) ([]byte, error) {
	return report.MarshalCanonical(snapshotMap(result))
}

// RunWithGolden executes a scenario and compares the outcome snapshot
// against a golden file. The golden file is stored in
// testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Golden files serve as the source of truth for expected outcome
// shape; assertion failures inside the scenario do not fail the
// comparison, they appear in the returned result.
func RunWithGolden(t *testing.T, scenario *Scenario) (*RunResult, error) {
	t.Helper()

	// Run the scenario
	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}

	return result, nil
}

// AssertGolden compares the given result's snapshot against a golden
// file. This is useful when you've already run a scenario and want to
// compare the result without re-running.
func AssertGolden(t *testing.T, scenarioName string, result *RunResult) error {
	t.Helper()

	snapshot, err := Snapshot(result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, snapshot)

	return nil
}
