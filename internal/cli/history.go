package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/mtt/internal/query"
	"github.com/roach88/mtt/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database   string
	Failed     bool
	Scenario   string
	MinWorkers int
	Limit      int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Long: `List runs recorded in the history database, newest first.

Filters combine as a conjunction and compile to parameterized SQL;
an unfiltered call lists everything up to --limit.

Examples:
  mtt history --db ./mtt.db
  mtt history --db ./mtt.db --failed
  mtt history --db ./mtt.db --scenario all-noop --min-workers 8
  mtt history --db ./mtt.db --failed --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().BoolVar(&opts.Failed, "failed", false, "only runs with a nonzero status")
	cmd.Flags().StringVar(&opts.Scenario, "scenario", "", "only runs of this scenario")
	cmd.Flags().IntVar(&opts.MinWorkers, "min-workers", 0, "only runs with at least this many workers")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum runs to list (0 = no limit)")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	runs, err := st.ListRuns(context.Background(), historyPredicate(opts), opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	w := cmd.OutOrStdout()
	if opts.Format == "json" {
		return writeJSON(w, CLIResponse{Status: "ok", Data: runs})
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found.")
		return nil
	}
	for _, run := range runs {
		mark := "✓"
		if run.Status != 0 {
			mark = "✗"
		}
		fmt.Fprintf(w, "%s %s  %-24s workers=%-4d status=%-4d %s\n",
			mark, run.RunID, run.Scenario, run.Workers, run.Status, run.Addr)
	}
	return nil
}

// historyPredicate builds the filter conjunction from the flags. No
// flags means a nil predicate, which matches everything.
func historyPredicate(opts *HistoryOptions) query.Predicate {
	var parts []query.Predicate
	if opts.Failed {
		parts = append(parts, query.NotEquals{Field: "status", Value: 0})
	}
	if opts.Scenario != "" {
		parts = append(parts, query.Equals{Field: "scenario", Value: opts.Scenario})
	}
	if opts.MinWorkers > 0 {
		parts = append(parts, query.AtLeast{Field: "workers", Value: int64(opts.MinWorkers)})
	}

	if len(parts) == 0 {
		return nil
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return query.And{Predicates: parts}
}
