package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/mtt/internal/harness"
	"github.com/roach88/mtt/internal/lifecycle"
	"github.com/roach88/mtt/internal/report"
	"github.com/roach88/mtt/internal/store"
	"github.com/roach88/mtt/internal/workload"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Scenario string
	Test     string
	Workers  int
	Addr     string
	Database string

	// IDGen overrides the run-ID generator (for tests).
	// If nil, defaults to UUIDv7Generator.
	IDGen report.RunIDGenerator
}

// RunData is the run command's result payload.
type RunData struct {
	Report          report.RunReport `json:"report"`
	AssertionErrors []string         `json:"assertion_errors,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run [<workers> <addr>]",
		Short: "Run one multithreaded test",
		Long: `Run one multithreaded test, either a YAML scenario file or a
built-in workload, and report the aggregate outcome.

Worker count and target address may be given as the traditional
positional pair "<workers> <addr>"; the --workers and --addr flags
take precedence when both are present.

The exit status mirrors the run: 0 when every worker succeeded,
otherwise the first failed worker's status code (clamped into the
portable exit range). Failing workers are listed in id order with
their diagnostics.

Examples:
  mtt run --test noop 4 192.168.0.1:7204
  mtt run --test noop --workers 4 --addr 192.168.0.1:7204
  mtt run --scenario scenarios/all-noop.yaml
  mtt run --scenario scenarios/all-noop.yaml --workers 16 --db ./mtt.db
  mtt run --test counter --workers 8 --addr 192.168.0.1:7204 --format json`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSingle(opts, cmd, args)
		},
	}

	cmd.Flags().StringVar(&opts.Scenario, "scenario", "", "path to scenario YAML file")
	cmd.Flags().StringVar(&opts.Test, "test", "",
		fmt.Sprintf("built-in test name (%s)", strings.Join(workload.Names(), "|")))
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "worker count (overrides the scenario's own)")
	cmd.Flags().StringVar(&opts.Addr, "addr", "", "target address (overrides the scenario's own)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run into this SQLite database")

	return cmd
}

func runSingle(opts *RunOptions, cmd *cobra.Command, args []string) error {
	name, cfg, outcome, assertErrs, err := executeRun(opts, args)
	if err != nil {
		return err
	}

	idGen := opts.IDGen
	if idGen == nil {
		idGen = report.UUIDv7Generator{}
	}
	rep := report.New(idGen.NewRunID(), name, cfg, outcome)

	if opts.Database != "" {
		if err := recordRun(opts.Database, rep, outcome.Trace); err != nil {
			return err
		}
		slog.Info("run recorded", "run_id", rep.RunID, "db", opts.Database)
	}

	data := RunData{Report: rep, AssertionErrors: assertErrs}
	if opts.Format == "json" {
		if err := writeRunJSON(cmd, data); err != nil {
			return err
		}
	} else {
		writeRunText(cmd, data)
	}

	code := ExitCodeForStatus(outcome.Status)
	if code == ExitSuccess && len(assertErrs) > 0 {
		code = ExitFailure
	}
	if code != ExitSuccess {
		return NewExitError(code, fmt.Sprintf("run %s failed with status %d", rep.RunID, outcome.Status))
	}
	return nil
}

// executeRun resolves the test source and drives the orchestrator.
// Scenario runs also evaluate the scenario's own assertions.
func executeRun(opts *RunOptions, args []string) (string, lifecycle.Config, lifecycle.Outcome, []string, error) {
	var zero lifecycle.Outcome

	switch {
	case opts.Scenario != "" && opts.Test != "":
		return "", lifecycle.Config{}, zero, nil,
			NewExitError(ExitCommandError, "--scenario and --test are mutually exclusive")
	case opts.Scenario == "" && opts.Test == "":
		return "", lifecycle.Config{}, zero, nil,
			NewExitError(ExitCommandError, "one of --scenario or --test is required")
	}

	if len(args) > 0 {
		pos, err := lifecycle.ParseArgs(args)
		if err != nil {
			return "", lifecycle.Config{}, zero, nil, WrapExitError(ExitCommandError, "invalid arguments", err)
		}
		if opts.Workers == 0 {
			opts.Workers = pos.Workers
		}
		if opts.Addr == "" {
			opts.Addr = pos.Addr
		}
	}

	if opts.Test != "" {
		cfg := lifecycle.Config{Workers: opts.Workers, Addr: opts.Addr}
		if err := cfg.Validate(); err != nil {
			return "", cfg, zero, nil, WrapExitError(ExitCommandError, "invalid configuration", err)
		}
		test, ok := workload.Lookup(opts.Test, cfg)
		if !ok {
			return "", cfg, zero, nil, NewExitError(ExitCommandError,
				fmt.Sprintf("unknown built-in test %q (available: %s)", opts.Test, strings.Join(workload.Names(), ", ")))
		}
		slog.Debug("running built-in test", "test", opts.Test, "workers", cfg.Workers)
		outcome, err := lifecycle.Run(test, cfg.Workers)
		if err != nil {
			return "", cfg, zero, nil, WrapExitError(ExitCommandError, "run failed to start", err)
		}
		return opts.Test, cfg, outcome, nil, nil
	}

	scenario, err := harness.LoadScenario(opts.Scenario)
	if err != nil {
		return "", lifecycle.Config{}, zero, nil, WrapExitError(ExitCommandError, "failed to load scenario", err)
	}
	if opts.Workers > 0 {
		scenario.Workers = opts.Workers
	}
	if opts.Addr != "" {
		scenario.Addr = opts.Addr
	}
	if err := harness.Validate(scenario); err != nil {
		return "", lifecycle.Config{}, zero, nil, WrapExitError(ExitCommandError, "invalid scenario after overrides", err)
	}

	cfg := lifecycle.Config{Workers: scenario.Workers, Addr: scenario.Addr}
	slog.Debug("running scenario", "scenario", scenario.Name, "workers", cfg.Workers)
	result, err := harness.Run(scenario)
	if err != nil {
		return "", cfg, zero, nil, WrapExitError(ExitCommandError, "run failed to start", err)
	}
	return scenario.Name, cfg, result.Outcome, result.Errors, nil
}

// recordRun persists the completed run into the history database.
func recordRun(path string, rep report.RunReport, trace []lifecycle.TraceEvent) error {
	st, err := store.Open(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	if err := st.RecordRun(context.Background(), rep, trace); err != nil {
		return WrapExitError(ExitCommandError, "failed to record run", err)
	}
	return nil
}

func writeRunJSON(cmd *cobra.Command, data RunData) error {
	resp := CLIResponse{Status: "ok", Data: data}
	if data.Report.Status != 0 || len(data.AssertionErrors) > 0 {
		resp.Status = "error"
		resp.Error = &CLIError{
			Code:    "E_RUN_FAILED",
			Message: fmt.Sprintf("run finished with status %d", data.Report.Status),
		}
	}
	return writeJSON(cmd.OutOrStdout(), resp)
}

func writeRunText(cmd *cobra.Command, data RunData) {
	w := cmd.OutOrStdout()
	rep := data.Report

	if rep.Status == 0 && len(data.AssertionErrors) == 0 {
		fmt.Fprintf(w, "✓ %s: %d workers, status 0 (run %s)\n", rep.Scenario, rep.Workers, rep.RunID)
		return
	}

	fmt.Fprintf(w, "✗ %s: status %d (run %s)\n", rep.Scenario, rep.Status, rep.RunID)
	for _, wr := range rep.Results {
		if wr.Status == 0 {
			continue
		}
		fmt.Fprintf(w, "  worker %d: status %d: %s\n", wr.Worker, wr.Status, wr.Errmsg)
	}
	for _, msg := range data.AssertionErrors {
		fmt.Fprintf(w, "  assertion: %s\n", msg)
	}
}
