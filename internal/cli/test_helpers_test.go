package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// executeCommand runs the root command with args, capturing stdout.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// passingScenarioYAML is a four-worker scenario with no injections.
const passingScenarioYAML = `name: all-noop
description: "Four workers succeed doing nothing"
workers: 4
addr: 127.0.0.1:7204
assertions:
  - type: status
    status: 0
  - type: phases_complete
  - type: barrier_ordering
`

// failingScenarioYAML injects a parallel-init failure into worker 2
// and asserts on it, so the scenario's assertions pass while the run's
// aggregate status is 5.
const failingScenarioYAML = `name: worker-two-fails
description: "Worker 2 fails parallel init with status 5"
workers: 4
addr: 127.0.0.1:7204
injections:
  - phase: parallel_init
    worker: 2
    status: 5
    message: "bind to local port failed"
assertions:
  - type: status
    status: 5
  - type: worker_status
    worker: 2
    status: 5
  - type: workload_skipped
    worker: 2
`

// writeScenarioFile writes a scenario fixture into dir.
func writeScenarioFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write scenario %s: %v", name, err)
	}
	return path
}
