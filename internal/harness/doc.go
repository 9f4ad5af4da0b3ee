// Package harness provides scenario-driven conformance testing for the
// multithreaded test orchestrator.
//
// The harness loads YAML scenarios, compiles them into scripted test
// descriptors, runs them through the real orchestrator, and validates
// the outcome with typed assertions.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	workers: 4
//	addr: 127.0.0.1:7204
//	injections:
//	  - phase: parallel_init
//	    worker: 2
//	    status: 5
//	    message: "bind to local port failed"
//	assertions:
//	  - type: status
//	    status: 5
//	  - type: worker_status
//	    worker: 2
//	    status: 5
//	  - type: workload_skipped
//	    worker: 2
//	  - type: phases_complete
//
// # Assertion Types
//
// The following assertion types are supported:
//
//   - status: Verifies the aggregate run status
//   - worker_status: Verifies one worker's result status
//   - errmsg_contains: Verifies one worker's diagnostic contains text
//   - phases_complete: Verifies every worker traversed the full ladder
//   - workload_skipped: Verifies one worker's workload never ran
//   - barrier_ordering: Verifies no workload started before every
//     worker finished parallel-init
//
// # Deterministic Testing
//
// Scenarios execute with no wall-clock or network dependency. The
// orchestrator's logical clock orders the trace, injected failures use
// fixed diagnostic text, and per-worker phase ladders are identical
// across runs, so golden snapshots compare byte-for-byte.
//
// # Usage
//
// Load a scenario:
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/parallel-init-fails.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Execute and inspect the result:
//
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
