package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/prima/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	History string
	Limit   int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recorded runs",
		Long: `List the runs recorded with run --history, newest first, or show the
full report of one run.

Examples:
  prima history --history ./prima.db
  prima history --history ./prima.db --limit 5
  prima history --history ./prima.db 0b5e...`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showHistory(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.History, "history", "", "SQLite database written by run --history")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs to list (0 for all)")

	return cmd
}

func showHistory(opts *HistoryOptions, args []string, cmd *cobra.Command) error {
	path := opts.History
	if path == "" {
		path = opts.Config.History.Path
	}
	if path == "" {
		return NewExitError(ExitCommandError, "no history database: use --history or history.path in the config")
	}

	st, err := store.Open(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open history", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if len(args) == 1 {
		r, err := st.ReadRun(ctx, args[0])
		if errors.Is(err, store.ErrRunNotFound) {
			return NewExitError(ExitCommandError, fmt.Sprintf("run %s not found", args[0]))
		}
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read run", err)
		}
		if opts.Format != "text" {
			return opts.formatter(cmd).Success(r)
		}
		if err := r.WriteText(cmd.OutOrStdout(), true); err != nil {
			return err
		}
		total, err := st.CountFailures(ctx, r.Examples)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to count failures", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Failed checks recorded for %s: %d\n", r.Examples, total)
		return nil
	}

	runs, err := st.ListRuns(ctx, opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}
	if opts.Format != "text" {
		return opts.formatter(cmd).Success(runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
		return nil
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%-36s  %-20s  %-30s  %5s  %6s  %8s\n", "RUN", "STARTED", "EXAMPLES", "TESTS", "FAILED", "WARNINGS")
	for _, run := range runs {
		status := ""
		if run.Aborted != "" {
			status = "  aborted"
		}
		fmt.Fprintf(w, "%-36s  %-20s  %-30s  %5d  %6d  %8d%s\n",
			run.ID, run.StartedAt.UTC().Format(time.DateTime), run.Examples,
			run.Tests, run.Failures, run.Warnings, status)
	}
	return nil
}
