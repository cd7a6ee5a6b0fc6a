// Command prima runs registered examples through the prima tester.
package main

import (
	"fmt"
	"os"

	_ "github.com/roach88/prima/examples"
	"github.com/roach88/prima/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
