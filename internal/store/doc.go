// Package store provides SQLite-backed durable storage for harness run
// history.
//
// The store implements an append-only log with:
//   - Runs: one row per completed run (aggregate status, config, digest)
//   - Worker Results: per-worker status and diagnostic for each run
//   - Trace Events: the run's phase trace in logical clock order
//
// # Critical Patterns
//
// Run-Level Idempotency
//   - UNIQUE(run_id) constraint with ON CONFLICT DO NOTHING
//   - Recording the same run twice is a silent no-op
//   - Child rows are written only when the runs row is new
//
// Logical Identity and Time
//   - All ordering uses seq INTEGER (logical clock), NEVER timestamps
//   - Trace order is exactly the order the run observed
//
// Deterministic Query Results
//   - Listings order by the unique seq column, so results are total-ordered
//   - Filters compile from internal/query predicates, values always bound
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Run digests are computed via internal/report using RFC 8785 canonical
// JSON and SHA-256 with domain separation.
package store
