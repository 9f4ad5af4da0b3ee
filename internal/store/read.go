package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/mtt/internal/query"
)

// RunSummary is one row of stored run history.
type RunSummary struct {
	Seq      int64
	RunID    string
	Digest   string
	Scenario string
	Addr     string
	Workers  int
	Status   int
}

// WorkerRow is one worker's stored result.
type WorkerRow struct {
	Worker int
	Status int
	Errmsg string
}

// TraceRow is one stored phase transition.
type TraceRow struct {
	Seq    int64
	Worker int
	Phase  string
}

// RunDetail is a run summary together with its per-worker results and
// full phase trace.
type RunDetail struct {
	Run     RunSummary
	Results []WorkerRow
	Trace   []TraceRow
}

// RunNotFoundError reports a lookup for a run_id with no stored run.
type RunNotFoundError struct {
	RunID string
}

func (e *RunNotFoundError) Error() string {
	return fmt.Sprintf("run %q not found", e.RunID)
}

// ListRuns returns stored runs matching pred, newest first. A nil
// predicate matches everything. A limit of zero or less means no
// limit.
//
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) ListRuns(ctx context.Context, pred query.Predicate, limit int) ([]RunSummary, error) {
	where, args, err := query.CompileWhere(pred)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	// Newest first; seq is unique so the order is total.
	stmt := fmt.Sprintf(`
		SELECT seq, run_id, digest, scenario, addr, workers, status
		FROM runs
		WHERE %s
		ORDER BY seq DESC
	`, where)
	if limit > 0 {
		stmt += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		run, err := scanRunSummary(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	// Return empty slice instead of nil
	if runs == nil {
		runs = []RunSummary{}
	}

	return runs, nil
}

// GetRun retrieves a single run with its worker results and trace.
// Returns a *RunNotFoundError if no run has the given run_id.
func (s *Store) GetRun(ctx context.Context, runID string) (RunDetail, error) {
	var detail RunDetail

	row := s.db.QueryRowContext(ctx, `
		SELECT seq, run_id, digest, scenario, addr, workers, status
		FROM runs
		WHERE run_id = ?
	`, runID)

	if err := row.Scan(
		&detail.Run.Seq, &detail.Run.RunID, &detail.Run.Digest, &detail.Run.Scenario,
		&detail.Run.Addr, &detail.Run.Workers, &detail.Run.Status,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunDetail{}, &RunNotFoundError{RunID: runID}
		}
		return RunDetail{}, fmt.Errorf("scan run: %w", err)
	}

	results, err := s.readWorkerResults(ctx, runID)
	if err != nil {
		return RunDetail{}, err
	}
	detail.Results = results

	trace, err := s.readTrace(ctx, runID)
	if err != nil {
		return RunDetail{}, err
	}
	detail.Trace = trace

	return detail, nil
}

// readWorkerResults returns a run's worker results ordered by worker id.
func (s *Store) readWorkerResults(ctx context.Context, runID string) ([]WorkerRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT worker_id, status, errmsg
		FROM worker_results
		WHERE run_id = ?
		ORDER BY worker_id ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query worker results: %w", err)
	}
	defer rows.Close()

	var results []WorkerRow
	for rows.Next() {
		var wr WorkerRow
		if err := rows.Scan(&wr.Worker, &wr.Status, &wr.Errmsg); err != nil {
			return nil, fmt.Errorf("scan worker result: %w", err)
		}
		results = append(results, wr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate worker results: %w", err)
	}

	if results == nil {
		results = []WorkerRow{}
	}

	return results, nil
}

// readTrace returns a run's phase trace in logical clock order.
func (s *Store) readTrace(ctx context.Context, runID string) ([]TraceRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, worker_id, phase
		FROM trace_events
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query trace events: %w", err)
	}
	defer rows.Close()

	var trace []TraceRow
	for rows.Next() {
		var ev TraceRow
		if err := rows.Scan(&ev.Seq, &ev.Worker, &ev.Phase); err != nil {
			return nil, fmt.Errorf("scan trace event: %w", err)
		}
		trace = append(trace, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trace events: %w", err)
	}

	if trace == nil {
		trace = []TraceRow{}
	}

	return trace, nil
}

// scanRunSummary scans a row into a RunSummary struct.
func scanRunSummary(rows *sql.Rows) (RunSummary, error) {
	var run RunSummary
	if err := rows.Scan(
		&run.Seq, &run.RunID, &run.Digest, &run.Scenario,
		&run.Addr, &run.Workers, &run.Status,
	); err != nil {
		return RunSummary{}, fmt.Errorf("scan run: %w", err)
	}
	return run, nil
}
