package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/prima/internal/store"
	"github.com/roach88/prima/tester"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Full      bool
	PrintAll  bool
	Tolerance float64
	History   string
}

// RunResult is the structured output of the run command.
type RunResult struct {
	Reports []*tester.Report `json:"reports" yaml:"reports"`
	Passed  int              `json:"passed" yaml:"passed"`
	Failed  int              `json:"failed" yaml:"failed"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run [name...]",
		Short: "Run registered examples",
		Long: `Run the tests of registered examples and print a report for each.

Without names every registered examples value runs.

Exit codes:
  0 - All checks passed
  1 - One or more checks failed
  2 - Command error (unknown examples, bad config, etc.)

Examples:
  prima run
  prima run books dates --full
  prima run points --tolerance 0.01 --format json
  prima run --history ./prima.db`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExamples(cmd.Context(), opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Full, "full", false, "list every result, not only failures")
	cmd.Flags().BoolVar(&opts.PrintAll, "print-all", false, "render the examples data before the results")
	cmd.Flags().Float64Var(&opts.Tolerance, "tolerance", tester.DefaultTolerance, "relative tolerance for floating point values in exact checks")
	cmd.Flags().StringVar(&opts.History, "history", "", "record runs in this SQLite database")

	return cmd
}

func runExamples(ctx context.Context, opts *RunOptions, names []string, cmd *cobra.Command) error {
	cfg := opts.Config
	if !cmd.Flags().Changed("tolerance") {
		opts.Tolerance = cfg.Tolerance
	}
	if opts.Tolerance < 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid tolerance %g: must not be negative", opts.Tolerance))
	}
	if opts.History == "" {
		opts.History = cfg.History.Path
	}

	if len(names) == 0 {
		names = tester.Names()
	}
	if len(names) == 0 {
		return NewExitError(ExitCommandError, "no examples registered")
	}
	factories := make([]tester.Factory, 0, len(names))
	for _, name := range names {
		factory, ok := tester.Lookup(name)
		if !ok {
			return NewExitError(ExitCommandError, fmt.Sprintf("unknown examples %q", name))
		}
		factories = append(factories, factory)
	}

	testerOpts := []tester.Option{
		tester.WithLogger(opts.Logger),
		tester.WithDefaultTolerance(opts.Tolerance),
		tester.WithOpaqueTypes(cfg.OpaqueTypes...),
		tester.WithOpaquePackages(cfg.OpaquePackages...),
	}
	if opts.PrintAll || cfg.Report.PrintAll {
		testerOpts = append(testerOpts, tester.WithPrintAll())
	}

	result := RunResult{Reports: make([]*tester.Report, 0, len(factories))}
	for i, factory := range factories {
		opts.Logger.Debug("running examples", "name", names[i])
		r := tester.Run(factory(), testerOpts...)
		result.Reports = append(result.Reports, r)
		if r.Passed() {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if opts.History != "" {
		if err := recordRuns(ctx, opts.History, result.Reports); err != nil {
			return WrapExitError(ExitCommandError, "failed to record history", err)
		}
		opts.Logger.Info("runs recorded", "history", opts.History, "runs", len(result.Reports))
	}

	if err := writeRunResult(opts, cmd, result); err != nil {
		return err
	}
	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d examples failed", result.Failed, len(result.Reports)))
	}
	return nil
}

func recordRuns(ctx context.Context, path string, reports []*tester.Report) error {
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer st.Close()

	for _, r := range reports {
		if err := st.WriteRun(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func writeRunResult(opts *RunOptions, cmd *cobra.Command, result RunResult) error {
	if opts.Format != "text" {
		return opts.formatter(cmd).Success(result)
	}

	full := opts.Full || opts.Config.Report.Full
	for _, r := range result.Reports {
		if err := r.WriteText(cmd.OutOrStdout(), full); err != nil {
			return err
		}
	}
	return nil
}
