package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/prima/tester"
)

// RenderResult is the structured output of the render command.
type RenderResult struct {
	Name string `json:"name" yaml:"name"`
	Data string `json:"data" yaml:"data"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "render <name>",
		Short: "Print the data of registered examples",
		Long: `Render the examples value the way failed checks show their values.

Example:
  prima render books`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			factory, ok := tester.Lookup(args[0])
			if !ok {
				return NewExitError(ExitCommandError, fmt.Sprintf("unknown examples %q", args[0]))
			}

			cfg := rootOpts.Config
			t := tester.New(
				tester.WithLogger(rootOpts.Logger),
				tester.WithOpaqueTypes(cfg.OpaqueTypes...),
				tester.WithOpaquePackages(cfg.OpaquePackages...),
			)
			result := RenderResult{Name: args[0], Data: t.Render(factory())}
			if rootOpts.Format != "text" {
				return rootOpts.formatter(cmd).Success(result)
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Data)
			return nil
		},
	}
}
