// Package suite loads CUE-defined batches of harness scenarios.
//
// A suite names a set of scenarios and an optional worker-count
// matrix. Expansion crosses the two: every named scenario runs once
// per worker count, with the suite's addr and the matrix count
// overriding the scenario's own values. CUE gives suites types,
// defaults and constraint checking for free; the harness YAML stays
// the single-scenario format.
//
// Suite format:
//
//	suite: {
//		name: "nightly"
//		addr: "192.168.0.1:7204"
//		scenarios: ["all-noop", "parallel-init-fails"]
//		workers: [2, 4, 16]
//	}
package suite

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/mtt/internal/harness"
)

// Suite is a named batch of scenarios crossed with a worker matrix.
type Suite struct {
	// Name identifies the suite in reports and history.
	Name string

	// Addr overrides every member scenario's target address.
	Addr string

	// Scenarios lists member scenario names, resolved against a
	// scenario directory at expansion time.
	Scenarios []string

	// Workers is the worker-count matrix. Empty means each scenario
	// keeps its own worker count.
	Workers []int
}

// Case is one expanded suite entry: a scenario bound to a worker count.
type Case struct {
	// Suite is the owning suite's name.
	Suite string

	// Scenario is a copy of the member scenario with the suite's addr
	// and this case's worker count applied.
	Scenario *harness.Scenario

	// Workers is the effective worker count for this case.
	Workers int
}

// CompileError reports a malformed suite definition.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Load reads and compiles a single suite CUE file.
func Load(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file: %w", err)
	}

	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	suiteVal := value.LookupPath(cue.ParsePath("suite"))
	if !suiteVal.Exists() {
		return nil, &CompileError{
			Field:   "suite",
			Message: "top-level suite struct is required",
			Pos:     value.Pos(),
		}
	}

	return compileSuite(suiteVal)
}

// compileSuite parses a CUE value into a Suite.
func compileSuite(v cue.Value) (*Suite, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	s := &Suite{}

	// Parse name (required)
	nameVal := v.LookupPath(cue.ParsePath("name"))
	if !nameVal.Exists() {
		return nil, &CompileError{Field: "name", Message: "name is required", Pos: v.Pos()}
	}
	name, err := nameVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	s.Name = name

	// Parse addr (required)
	addrVal := v.LookupPath(cue.ParsePath("addr"))
	if !addrVal.Exists() {
		return nil, &CompileError{Field: "addr", Message: "addr is required", Pos: v.Pos()}
	}
	addr, err := addrVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	s.Addr = addr

	// Parse scenarios (required, at least one)
	scenariosVal := v.LookupPath(cue.ParsePath("scenarios"))
	if !scenariosVal.Exists() {
		return nil, &CompileError{Field: "scenarios", Message: "scenarios list is required", Pos: v.Pos()}
	}
	iter, err := scenariosVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		name, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		s.Scenarios = append(s.Scenarios, name)
	}
	if len(s.Scenarios) == 0 {
		return nil, &CompileError{Field: "scenarios", Message: "at least one scenario is required", Pos: scenariosVal.Pos()}
	}

	// Parse workers matrix (optional)
	workersVal := v.LookupPath(cue.ParsePath("workers"))
	if workersVal.Exists() {
		iter, err := workersVal.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			n, err := iter.Value().Int64()
			if err != nil {
				return nil, formatCUEError(err)
			}
			if n < 1 {
				return nil, &CompileError{
					Field:   "workers",
					Message: fmt.Sprintf("worker count must be at least 1, got %d", n),
					Pos:     iter.Value().Pos(),
				}
			}
			s.Workers = append(s.Workers, int(n))
		}
		if len(s.Workers) == 0 {
			return nil, &CompileError{Field: "workers", Message: "workers matrix must not be empty when present", Pos: workersVal.Pos()}
		}
	}

	return s, nil
}

// Expand crosses the suite's scenarios with its worker matrix.
//
// scenarios maps scenario names to their loaded definitions. Every
// expanded case gets a fresh scenario copy with the suite's addr and
// the case's worker count applied, re-validated so an override can
// never orphan an injection or assertion (e.g. an injection for worker
// 2 in a one-worker case).
func (s *Suite) Expand(scenarios map[string]*harness.Scenario) ([]Case, error) {
	var cases []Case

	for _, name := range s.Scenarios {
		base, ok := scenarios[name]
		if !ok {
			return nil, fmt.Errorf("suite %q: unknown scenario %q", s.Name, name)
		}

		counts := s.Workers
		if len(counts) == 0 {
			counts = []int{base.Workers}
		}

		for _, workers := range counts {
			override := *base
			override.Workers = workers
			override.Addr = s.Addr

			if err := harness.Validate(&override); err != nil {
				return nil, fmt.Errorf("suite %q: scenario %q with %d workers: %w", s.Name, name, workers, err)
			}

			cases = append(cases, Case{
				Suite:    s.Name,
				Scenario: &override,
				Workers:  workers,
			})
		}
	}

	return cases, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := cueerrors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
