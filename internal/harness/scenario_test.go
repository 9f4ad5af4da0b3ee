package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScenario writes scenario YAML to a temp file and returns its path.
func writeScenario(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	path := writeScenario(t, t.TempDir(), "test.yaml", `
name: parallel-init-fails
description: "Worker 2 fails parallel-init; everyone else completes"
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
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "parallel-init-fails", scenario.Name)
	assert.Equal(t, 4, scenario.Workers)
	assert.Equal(t, "127.0.0.1:7204", scenario.Addr)
	require.Len(t, scenario.Injections, 1)
	assert.Equal(t, "parallel_init", scenario.Injections[0].Phase)
	assert.Equal(t, 2, scenario.Injections[0].Worker)
	assert.Equal(t, 5, scenario.Injections[0].Status)
	assert.Len(t, scenario.Assertions, 3)
	assert.Equal(t, AssertWorkloadSkipped, scenario.Assertions[2].Type)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "absent.yaml"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_MalformedYAML(t *testing.T) {
	path := writeScenario(t, t.TempDir(), "bad.yaml", "name: [unclosed")

	_, err := LoadScenario(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_RejectsUnknownFields(t *testing.T) {
	// "asserts" is a typo for "assertions" and must be rejected, not
	// silently dropped.
	path := writeScenario(t, t.TempDir(), "typo.yaml", `
name: typo
description: "typo scenario"
workers: 1
addr: 127.0.0.1:7204
asserts:
  - type: status
`)

	_, err := LoadScenario(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_RequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "missing name",
			content: `
description: "d"
workers: 1
addr: a
assertions:
  - type: status
`,
			wantErr: "name is required",
		},
		{
			name: "missing description",
			content: `
name: n
workers: 1
addr: a
assertions:
  - type: status
`,
			wantErr: "description is required",
		},
		{
			name: "zero workers",
			content: `
name: n
description: "d"
workers: 0
addr: a
assertions:
  - type: status
`,
			wantErr: "workers must be at least 1",
		},
		{
			name: "missing addr",
			content: `
name: n
description: "d"
workers: 1
assertions:
  - type: status
`,
			wantErr: "addr is required",
		},
		{
			name: "missing assertions",
			content: `
name: n
description: "d"
workers: 1
addr: a
`,
			wantErr: "assertions list is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScenario(t, t.TempDir(), "s.yaml", tt.content)

			_, err := LoadScenario(path)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_InjectionValidation(t *testing.T) {
	tests := []struct {
		name      string
		injection string
		wantErr   string
	}{
		{
			name: "unknown phase",
			injection: `
  - phase: teardown
    worker: 0
    status: 1
    message: "m"
`,
			wantErr: `unknown phase "teardown"`,
		},
		{
			name: "worker out of range",
			injection: `
  - phase: workload
    worker: 2
    status: 1
    message: "m"
`,
			wantErr: "worker 2 out of range",
		},
		{
			name: "message kind requires positive status",
			injection: `
  - phase: workload
    worker: 0
    message: "m"
`,
			wantErr: "status must be positive",
		},
		{
			name: "message kind requires message",
			injection: `
  - phase: workload
    worker: 0
    status: 1
`,
			wantErr: "message is required",
		},
		{
			name: "errno kind requires positive code",
			injection: `
  - phase: workload
    worker: 0
    kind: errno
    op: connect
`,
			wantErr: "code must be a positive errno",
		},
		{
			name: "errno kind requires op",
			injection: `
  - phase: workload
    worker: 0
    kind: errno
    code: 5
`,
			wantErr: "op is required",
		},
		{
			name: "rpma kind rejects unknown code",
			injection: `
  - phase: workload
    worker: 0
    kind: rpma
    code: -99
    op: rpma_cq_wait
`,
			wantErr: "not a known library error code",
		},
		{
			name: "rpma kind rejects positive code",
			injection: `
  - phase: workload
    worker: 0
    kind: rpma
    code: 5
    op: rpma_cq_wait
`,
			wantErr: "not a known library error code",
		},
		{
			name: "unknown kind",
			injection: `
  - phase: workload
    worker: 0
    kind: panic
`,
			wantErr: `unknown kind "panic"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := `
name: n
description: "d"
workers: 2
addr: a
injections:` + tt.injection + `
assertions:
  - type: status
`
			path := writeScenario(t, t.TempDir(), "s.yaml", content)

			_, err := LoadScenario(path)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_AssertionValidation(t *testing.T) {
	tests := []struct {
		name      string
		assertion string
		wantErr   string
	}{
		{
			name: "missing type",
			assertion: `
  - worker: 0
`,
			wantErr: "type is required",
		},
		{
			name: "unknown type",
			assertion: `
  - type: trace_contains
`,
			wantErr: `unknown assertion type "trace_contains"`,
		},
		{
			name: "worker_status out of range",
			assertion: `
  - type: worker_status
    worker: 5
`,
			wantErr: "worker 5 out of range",
		},
		{
			name: "errmsg_contains requires text",
			assertion: `
  - type: errmsg_contains
    worker: 0
`,
			wantErr: "text is required",
		},
		{
			name: "workload_skipped out of range",
			assertion: `
  - type: workload_skipped
    worker: -1
`,
			wantErr: "worker -1 out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := `
name: n
description: "d"
workers: 2
addr: a
assertions:` + tt.assertion + `
`
			path := writeScenario(t, t.TempDir(), "s.yaml", content)

			_, err := LoadScenario(path)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenarioDir_SortedByFileName(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "b.yaml", `
name: second
description: "d"
workers: 1
addr: a
assertions:
  - type: status
`)
	writeScenario(t, dir, "a.yaml", `
name: first
description: "d"
workers: 1
addr: a
assertions:
  - type: status
`)

	scenarios, err := LoadScenarioDir(dir)
	require.NoError(t, err)

	require.Len(t, scenarios, 2)
	assert.Equal(t, "first", scenarios[0].Name)
	assert.Equal(t, "second", scenarios[1].Name)
}

func TestLoadScenarioDir_EmptyDir(t *testing.T) {
	_, err := LoadScenarioDir(t.TempDir())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no scenario files found")
}

func TestLoadScenarioDir_NamesFailingFile(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "broken.yaml", "workers: -3")

	_, err := LoadScenarioDir(dir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.yaml")
}
