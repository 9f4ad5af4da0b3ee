package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/mtt/internal/lifecycle"
	"github.com/roach88/mtt/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	RunID    string
	Worker   int // -1 = all workers
}

// TraceResult holds the complete trace output for one stored run.
type TraceResult struct {
	Run      store.RunSummary `json:"run"`
	Timeline []store.TraceRow `json:"timeline"`
	Stats    TraceStats       `json:"stats"`
}

// TraceStats holds summary statistics for a stored trace.
type TraceStats struct {
	TotalEvents     int  `json:"total_events"`
	Workers         int  `json:"workers"`
	CompleteLadders bool `json:"complete_ladders"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show the phase timeline of a stored run",
		Long: `Show the phase-transition timeline of one recorded run.

Events are listed in logical-clock order, so the interleaving of the
parallel phases is visible exactly as it happened. The stats report
whether every worker walked the complete phase ladder.

Examples:
  mtt trace --db ./mtt.db --run 01890a5d-ac96-774b-bcce-b302099a8057
  mtt trace --db ./mtt.db --run 01890a5d-... --worker 2
  mtt trace --db ./mtt.db --run 01890a5d-... --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTraceCmd(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run ID to trace (required)")
	_ = cmd.MarkFlagRequired("run")
	cmd.Flags().IntVar(&opts.Worker, "worker", -1, "only this worker's lane")

	return cmd
}

func runTraceCmd(opts *TraceOptions, cmd *cobra.Command) error {
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	detail, err := st.GetRun(context.Background(), opts.RunID)
	if err != nil {
		var notFound *store.RunNotFoundError
		if errors.As(err, &notFound) {
			return WrapExitError(ExitCommandError, "run not found", err)
		}
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	result := TraceResult{
		Run:      detail.Run,
		Timeline: filterTimeline(detail.Trace, opts.Worker),
		Stats:    traceStats(detail),
	}

	w := cmd.OutOrStdout()
	if opts.Format == "json" {
		return writeJSON(w, CLIResponse{Status: "ok", Data: result})
	}

	fmt.Fprintf(w, "Run %s: scenario=%s workers=%d status=%d\n",
		result.Run.RunID, result.Run.Scenario, result.Run.Workers, result.Run.Status)
	for _, ev := range result.Timeline {
		fmt.Fprintf(w, "%5d  worker %d  %s\n", ev.Seq, ev.Worker, ev.Phase)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Events: %d  Workers: %d  Complete ladders: %v\n",
		result.Stats.TotalEvents, result.Stats.Workers, result.Stats.CompleteLadders)
	return nil
}

// filterTimeline keeps only one worker's lane when worker >= 0.
func filterTimeline(trace []store.TraceRow, worker int) []store.TraceRow {
	if worker < 0 {
		return trace
	}
	lane := make([]store.TraceRow, 0, len(trace))
	for _, ev := range trace {
		if ev.Worker == worker {
			lane = append(lane, ev)
		}
	}
	return lane
}

// traceStats summarizes a stored trace. Ladders are complete when
// every worker's lane is exactly the phase sequence in order.
func traceStats(detail store.RunDetail) TraceStats {
	ladder := lifecycle.Ladder()

	lanes := make(map[int][]string)
	for _, ev := range detail.Trace {
		lanes[ev.Worker] = append(lanes[ev.Worker], ev.Phase)
	}

	complete := len(lanes) == detail.Run.Workers
	for _, lane := range lanes {
		if len(lane) != len(ladder) {
			complete = false
			break
		}
		for i, phase := range lane {
			if phase != ladder[i].String() {
				complete = false
				break
			}
		}
		if !complete {
			break
		}
	}

	return TraceStats{
		TotalEvents:     len(detail.Trace),
		Workers:         detail.Run.Workers,
		CompleteLadders: complete,
	}
}
