package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGolden_AllNoop(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/all-noop.yaml")
	require.NoError(t, err)

	result, err := RunWithGolden(t, scenario)
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestGolden_ParallelInitFails(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/parallel-init-fails.yaml")
	require.NoError(t, err)

	result, err := RunWithGolden(t, scenario)
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestGolden_SeqInitFails(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/seq-init-fails.yaml")
	require.NoError(t, err)

	result, err := RunWithGolden(t, scenario)
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestGolden_SnapshotIsDeterministic(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/parallel-init-fails.yaml")
	require.NoError(t, err)

	// Two runs of the same scenario snapshot to identical bytes even
	// though the global trace interleaving differs between runs.
	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	firstSnap := snapshotMap(first)
	secondSnap := snapshotMap(second)
	assert.Equal(t, firstSnap, secondSnap)
}

func TestSnapshotMap_Shape(t *testing.T) {
	scenario := &Scenario{
		Name:    "shape",
		Workers: 2,
		Addr:    "a",
		Injections: []Injection{
			{Phase: "workload", Worker: 0, Status: 3, Message: "dropped"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	snap := snapshotMap(result)
	assert.Equal(t, "shape", snap["scenario"])
	assert.Equal(t, 3, snap["status"])

	results, ok := snap["results"].([]any)
	require.True(t, ok)
	require.Len(t, results, 2)

	first, ok := results[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "dropped", first["errmsg"])

	second, ok := results[1].(map[string]any)
	require.True(t, ok)
	_, hasErrmsg := second["errmsg"]
	assert.False(t, hasErrmsg, "clean workers omit errmsg")

	phases, ok := snap["phases"].(map[string]any)
	require.True(t, ok)
	require.Len(t, phases, 2)
	lane, ok := phases["0"].([]any)
	require.True(t, ok)
	assert.Len(t, lane, 9)
	assert.Equal(t, "created", lane[0])
	assert.Equal(t, "seq_fini_done", lane[8])
}
