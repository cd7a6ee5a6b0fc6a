package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/prima/tester"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List registered examples",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := tester.Names()
			if rootOpts.Format != "text" {
				return rootOpts.formatter(cmd).Success(names)
			}
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No examples registered.")
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
