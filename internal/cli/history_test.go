package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mtt/internal/lifecycle"
	"github.com/roach88/mtt/internal/report"
	"github.com/roach88/mtt/internal/store"
	"github.com/roach88/mtt/internal/testutil"
	"github.com/roach88/mtt/internal/workload"
)

// seedHistoryDB records two real runs: "noop" (2 workers, success) as
// run-0001 and "failing" (4 workers, worker 0 fails the workload with
// status 5) as run-0002.
func seedHistoryDB(t *testing.T) string {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "mtt.db")
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	gen := testutil.NewSequentialRunIDGenerator("run")

	cfg := lifecycle.Config{Workers: 2, Addr: "127.0.0.1:7204"}
	outcome, err := lifecycle.Run(workload.Noop(cfg), cfg.Workers)
	require.NoError(t, err)
	rep := report.New(gen.NewRunID(), "noop", cfg, outcome)
	require.NoError(t, st.RecordRun(ctx, rep, outcome.Trace))

	failCfg := lifecycle.Config{Workers: 4, Addr: "127.0.0.1:7204"}
	failing := lifecycle.Test{
		Prestate: failCfg.Addr,
		Workload: func(id int, prestate any, state any, res *lifecycle.Result) {
			if id == 0 {
				res.Failf(5, "boom")
			}
		},
	}
	outcome, err = lifecycle.Run(failing, failCfg.Workers)
	require.NoError(t, err)
	rep = report.New(gen.NewRunID(), "failing", failCfg, outcome)
	require.NoError(t, st.RecordRun(ctx, rep, outcome.Trace))

	return dbPath
}

func TestHistoryCommand_ListsNewestFirst(t *testing.T) {
	dbPath := seedHistoryDB(t)

	out, err := executeCommand(t, "history", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "run-0001")
	assert.Contains(t, out, "run-0002")
	assert.Less(t, strings.Index(out, "run-0002"), strings.Index(out, "run-0001"), "newest run should list first")
}

func TestHistoryCommand_FailedFilter(t *testing.T) {
	dbPath := seedHistoryDB(t)

	out, err := executeCommand(t, "history", "--db", dbPath, "--failed")
	require.NoError(t, err)
	assert.Contains(t, out, "run-0002")
	assert.NotContains(t, out, "run-0001")
}

func TestHistoryCommand_ScenarioAndWorkerFilters(t *testing.T) {
	dbPath := seedHistoryDB(t)

	out, err := executeCommand(t, "history", "--db", dbPath, "--scenario", "noop")
	require.NoError(t, err)
	assert.Contains(t, out, "run-0001")
	assert.NotContains(t, out, "run-0002")

	out, err = executeCommand(t, "history", "--db", dbPath, "--min-workers", "3")
	require.NoError(t, err)
	assert.NotContains(t, out, "run-0001")
	assert.Contains(t, out, "run-0002")
}

func TestHistoryCommand_EmptyDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "empty.db")
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	st.Close()

	out, err := executeCommand(t, "history", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No runs found.")
}

func TestHistoryCommand_JSONEnvelope(t *testing.T) {
	dbPath := seedHistoryDB(t)

	out, err := executeCommand(t, "--format", "json", "history", "--db", dbPath)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestHistoryPredicate_Composition(t *testing.T) {
	opts := &HistoryOptions{}
	assert.Nil(t, historyPredicate(opts))

	opts = &HistoryOptions{Failed: true}
	assert.NotNil(t, historyPredicate(opts))

	opts = &HistoryOptions{Failed: true, Scenario: "noop", MinWorkers: 4}
	pred := historyPredicate(opts)
	require.NotNil(t, pred)
}
