package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/mtt/internal/harness"
	"github.com/roach88/mtt/internal/suite"
)

// SuiteOptions holds flags for the suite command.
type SuiteOptions struct {
	*RootOptions
	ScenariosDir string
}

// CaseResult holds the result of one expanded suite cell.
type CaseResult struct {
	Scenario string   `json:"scenario"`
	Workers  int      `json:"workers"`
	Status   int      `json:"status"`
	Pass     bool     `json:"pass"`
	Errors   []string `json:"errors,omitempty"`
}

// SuiteResult holds the overall suite result.
type SuiteResult struct {
	Suite  string       `json:"suite"`
	Cases  []CaseResult `json:"cases"`
	Passed int          `json:"passed"`
	Failed int          `json:"failed"`
}

// NewSuiteCommand creates the suite command.
func NewSuiteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SuiteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "suite <suite-file>",
		Short: "Run a CUE suite matrix",
		Long: `Run a CUE-defined suite: every member scenario crossed with the
suite's worker-count matrix. Each cell runs the scenario at that
worker count with the suite's target address, the way one
multithreaded test is traditionally run at several thread counts.

Exit codes:
  0 - Every cell passed
  1 - One or more cells failed
  2 - Command error (bad suite file, unknown scenario, etc.)

Examples:
  mtt suite suites/nightly.cue --scenarios ./scenarios
  mtt suite suites/nightly.cue --scenarios ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuite(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ScenariosDir, "scenarios", "", "directory containing member scenario files (required)")
	_ = cmd.MarkFlagRequired("scenarios")

	return cmd
}

func runSuite(opts *SuiteOptions, suiteFile string, cmd *cobra.Command) error {
	s, err := suite.Load(suiteFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load suite", err)
	}

	scenarios, err := harness.LoadScenarioDir(opts.ScenariosDir)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenarios", err)
	}
	byName := make(map[string]*harness.Scenario, len(scenarios))
	for _, sc := range scenarios {
		byName[sc.Name] = sc
	}

	cases, err := s.Expand(byName)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to expand suite", err)
	}

	w := cmd.OutOrStdout()
	result := SuiteResult{Suite: s.Name, Cases: make([]CaseResult, 0, len(cases))}
	for _, c := range cases {
		cr := runSuiteCase(c)
		result.Cases = append(result.Cases, cr)
		if cr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}

		if opts.Format != "json" {
			mark := "✓"
			if !cr.Pass {
				mark = "✗"
			}
			fmt.Fprintf(w, "%s %s/%s@%d\n", mark, s.Name, cr.Scenario, cr.Workers)
			for _, e := range cr.Errors {
				fmt.Fprintf(w, "  %s\n", e)
			}
		}
	}

	if opts.Format == "json" {
		resp := CLIResponse{Status: "ok", Data: result}
		if result.Failed > 0 {
			resp.Status = "error"
			resp.Error = &CLIError{
				Code:    "E_SUITE_FAILED",
				Message: fmt.Sprintf("%d case(s) failed", result.Failed),
			}
		}
		if err := writeJSON(w, resp); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Suite %s: %d passed, %d failed, %d total\n",
			s.Name, result.Passed, result.Failed, len(result.Cases))
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d case(s) failed", result.Failed))
	}
	return nil
}

// runSuiteCase executes one expanded cell. A cell passes when its
// scenario's assertions hold; an expected injected failure is still a
// pass, exactly as in a direct scenario run.
func runSuiteCase(c suite.Case) CaseResult {
	cr := CaseResult{Scenario: c.Scenario.Name, Workers: c.Workers}

	result, err := harness.Run(c.Scenario)
	if err != nil {
		cr.Errors = []string{fmt.Sprintf("execution failed: %v", err)}
		return cr
	}

	cr.Status = result.Outcome.Status
	cr.Pass = result.Pass
	cr.Errors = result.Errors
	return cr
}
