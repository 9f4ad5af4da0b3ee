package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/mtt/internal/lifecycle"
	"github.com/roach88/mtt/internal/report"
)

// createTestStore creates a store backed by a fresh temp database.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestReport builds a report with the given worker count and
// aggregate status. A nonzero status is attributed to worker 0.
func createTestReport(runID, scenario string, workers, status int) report.RunReport {
	results := make([]report.WorkerReport, workers)
	for i := range results {
		results[i] = report.WorkerReport{
			Worker: i,
			Status: 0,
			Errmsg: "",
			Phases: []string{"created", "seq_init_done", "spawned"},
		}
	}
	if status != 0 && workers > 0 {
		results[0].Status = status
		results[0].Errmsg = "worker.go:42 seqInit() -> rpma_conn_cfg_new() failed: Out of memory"
	}
	return report.RunReport{
		RunID:    runID,
		Digest:   "digest-" + runID,
		Scenario: scenario,
		Addr:     "127.0.0.1:7204",
		Workers:  workers,
		Status:   status,
		Results:  results,
	}
}

// createTestTrace builds a minimal two-phase trace for the given
// worker count with strictly increasing seq values.
func createTestTrace(workers int) []lifecycle.TraceEvent {
	var trace []lifecycle.TraceEvent
	seq := int64(1)
	for _, phase := range []lifecycle.Phase{lifecycle.PhaseCreated, lifecycle.PhaseSeqInitDone} {
		for w := 0; w < workers; w++ {
			trace = append(trace, lifecycle.TraceEvent{Seq: seq, Worker: w, Phase: phase})
			seq++
		}
	}
	return trace
}
