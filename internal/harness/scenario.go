package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/mtt/internal/rpma"
)

// Scenario defines a deterministic harness test scenario.
// Scenarios run a scripted multithreaded test and assert on the
// resulting per-worker results and phase trace.
type Scenario struct {
	// Name uniquely identifies this scenario. It doubles as the golden
	// file name, so keep it filesystem-safe.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Workers is the number of workers to run.
	Workers int `yaml:"workers"`

	// Addr is the target address handed to every worker as prestate.
	Addr string `yaml:"addr"`

	// Injections lists failures to script into worker callbacks.
	// Workers without a matching injection run every callback as a
	// no-op success.
	Injections []Injection `yaml:"injections,omitempty"`

	// Assertions validate the outcome and trace.
	// Supported types: status, worker_status, errmsg_contains,
	// phases_complete, workload_skipped, barrier_ordering
	Assertions []Assertion `yaml:"assertions"`
}

// Injection scripts one failure into one worker's callback.
type Injection struct {
	// Phase names the callback to fail in: seq_init, parallel_init,
	// workload, parallel_fini or seq_fini.
	Phase string `yaml:"phase"`

	// Worker is the zero-based id of the worker to fail.
	Worker int `yaml:"worker"`

	// Kind selects the failure flavor:
	//   - "message" (default): fixed status and diagnostic text,
	//     stable across refactors, suitable for golden files
	//   - "errno": OS error via the errno-style helper
	//   - "rpma": RDMA library error code
	Kind string `yaml:"kind,omitempty"`

	// Status is the exit status for kind=message. Must be positive.
	Status int `yaml:"status,omitempty"`

	// Code is the error code for kind=errno (positive errno) or
	// kind=rpma (negative library code).
	Code int `yaml:"code,omitempty"`

	// Op names the call being blamed for kind=errno and kind=rpma
	// diagnostics (e.g. "rpma_conn_connect").
	Op string `yaml:"op,omitempty"`

	// Message is the diagnostic text for kind=message.
	Message string `yaml:"message,omitempty"`
}

// Assertion validates one property of the outcome.
type Assertion struct {
	// Type specifies the assertion type:
	// - "status": aggregate run status equals Status
	// - "worker_status": worker Worker's status equals Status
	// - "errmsg_contains": worker Worker's diagnostic contains Text
	// - "phases_complete": every worker traversed the full phase ladder
	// - "workload_skipped": worker Worker's workload never ran
	// - "barrier_ordering": no workload started before every worker
	//   finished parallel-init
	Type string `yaml:"type"`

	// Status is the expected status (used by status, worker_status).
	Status int `yaml:"status,omitempty"`

	// Worker is the zero-based worker id (used by worker_status,
	// errmsg_contains, workload_skipped).
	Worker int `yaml:"worker,omitempty"`

	// Text is the expected substring (used by errmsg_contains).
	Text string `yaml:"text,omitempty"`
}

// Assertion type constants.
const (
	AssertStatus          = "status"
	AssertWorkerStatus    = "worker_status"
	AssertErrmsgContains  = "errmsg_contains"
	AssertPhasesComplete  = "phases_complete"
	AssertWorkloadSkipped = "workload_skipped"
	AssertBarrierOrdering = "barrier_ordering"
)

// Injection kind constants. An empty kind means KindMessage.
const (
	KindMessage = "message"
	KindErrno   = "errno"
	KindRpma    = "rpma"
)

// callbackPhases is the set of injectable callback names.
var callbackPhases = map[string]bool{
	"seq_init":      true,
	"parallel_init": true,
	"workload":      true,
	"parallel_fini": true,
	"seq_fini":      true,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Validate required fields
	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarioDir loads every *.yaml scenario in a directory, sorted
// by file name for deterministic ordering.
func LoadScenarioDir(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list scenario dir: %w", err)
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		return nil, fmt.Errorf("no scenario files found in %s", dir)
	}

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		scenarios = append(scenarios, s)
	}

	return scenarios, nil
}

// Validate checks a scenario built or rewritten in code the same way
// LoadScenario checks one parsed from YAML. Suite expansion uses this
// after overriding worker counts.
func Validate(s *Scenario) error {
	return validateScenario(s)
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}

	if s.Addr == "" {
		return fmt.Errorf("addr is required")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	// Validate injections
	for i, inj := range s.Injections {
		if err := validateInjection(i, s.Workers, &inj); err != nil {
			return err
		}
	}

	// Validate assertions
	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, s.Workers, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateInjection validates a single injection.
func validateInjection(index, workers int, inj *Injection) error {
	if !callbackPhases[inj.Phase] {
		return fmt.Errorf("injections[%d]: unknown phase %q", index, inj.Phase)
	}

	if inj.Worker < 0 || inj.Worker >= workers {
		return fmt.Errorf("injections[%d]: worker %d out of range [0,%d)", index, inj.Worker, workers)
	}

	kind := inj.Kind
	if kind == "" {
		kind = KindMessage
	}

	switch kind {
	case KindMessage:
		if inj.Status <= 0 {
			return fmt.Errorf("injections[%d]: status must be positive for kind=message", index)
		}
		if inj.Message == "" {
			return fmt.Errorf("injections[%d]: message is required for kind=message", index)
		}
	case KindErrno:
		if inj.Code <= 0 {
			return fmt.Errorf("injections[%d]: code must be a positive errno for kind=errno", index)
		}
		if inj.Op == "" {
			return fmt.Errorf("injections[%d]: op is required for kind=errno", index)
		}
	case KindRpma:
		if !rpma.IsValid(inj.Code) {
			return fmt.Errorf("injections[%d]: code %d is not a known library error code", index, inj.Code)
		}
		if inj.Op == "" {
			return fmt.Errorf("injections[%d]: op is required for kind=rpma", index)
		}
	default:
		return fmt.Errorf("injections[%d]: unknown kind %q", index, inj.Kind)
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index, workers int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertStatus:
		// Any status is assertable, including negative library codes.
	case AssertWorkerStatus:
		if a.Worker < 0 || a.Worker >= workers {
			return fmt.Errorf("assertions[%d]: worker %d out of range [0,%d)", index, a.Worker, workers)
		}
	case AssertErrmsgContains:
		if a.Worker < 0 || a.Worker >= workers {
			return fmt.Errorf("assertions[%d]: worker %d out of range [0,%d)", index, a.Worker, workers)
		}
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for errmsg_contains", index)
		}
	case AssertWorkloadSkipped:
		if a.Worker < 0 || a.Worker >= workers {
			return fmt.Errorf("assertions[%d]: worker %d out of range [0,%d)", index, a.Worker, workers)
		}
	case AssertPhasesComplete, AssertBarrierOrdering:
		// No extra fields.
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
