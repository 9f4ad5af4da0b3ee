package store

import (
	"context"
	"fmt"

	"github.com/roach88/mtt/internal/lifecycle"
	"github.com/roach88/mtt/internal/report"
)

// RecordRun persists a completed run with its per-worker results and
// phase trace in a single transaction.
//
// Uses ON CONFLICT(run_id) DO NOTHING for idempotency - recording the
// same run twice leaves the first copy untouched and reports no error.
// Child rows are only written when the runs row is new, so a replayed
// write can never mix results from two recordings.
func (s *Store) RecordRun(ctx context.Context, rep report.RunReport, trace []lifecycle.TraceEvent) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	// Try to insert the run (claims the run_id atomically via unique constraint)
	result, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(run_id, digest, scenario, addr, workers, status)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO NOTHING
	`,
		rep.RunID,
		rep.Digest,
		rep.Scenario,
		rep.Addr,
		rep.Workers,
		rep.Status,
	)
	if err != nil {
		return fmt.Errorf("record run: insert run: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("record run: rows affected: %w", err)
	}

	if rowsAffected == 0 {
		// Conflict - run already recorded, nothing more to do
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("record run: commit (existing): %w", err)
		}
		return nil
	}

	for _, wr := range rep.Results {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO worker_results
			(run_id, worker_id, status, errmsg)
			VALUES (?, ?, ?, ?)
		`,
			rep.RunID,
			wr.Worker,
			wr.Status,
			wr.Errmsg,
		)
		if err != nil {
			return fmt.Errorf("record run: insert worker %d: %w", wr.Worker, err)
		}
	}

	for _, ev := range trace {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO trace_events
			(run_id, seq, worker_id, phase)
			VALUES (?, ?, ?, ?)
		`,
			rep.RunID,
			ev.Seq,
			ev.Worker,
			ev.Phase.String(),
		)
		if err != nil {
			return fmt.Errorf("record run: insert trace event %d: %w", ev.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record run: commit: %w", err)
	}

	return nil
}
