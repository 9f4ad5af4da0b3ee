// Package lifecycle drives multithreaded test runs through a fixed
// phase sequence: sequential init, parallel init, barrier release,
// workload, parallel fini, join, sequential fini.
//
// The package owns worker spawn and join, the release barrier, and the
// aggregation of per-worker results into one run outcome. It never
// inspects workload semantics: tests provide callbacks, the orchestrator
// calls them and moves results.
//
// Key design constraints:
//   - Workers never print; failures travel only through Result records
//   - A result, once failed, is never overwritten by a later phase
//   - Every spawned worker arrives at the barrier, failed or not
//   - Logical clocks (seq) only, never wall-clock timestamps
//   - The harness allocates state slots, never their contents
package lifecycle
