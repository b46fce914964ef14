// Command sealedctl inspects and round-trips sealedgraph regions built
// from the demo/worldstate example type. Run "sealedctl help" for a
// list of subcommands.
//
// Structured the way cmd/viewcore dispatches its subcommands in the
// teacher repo (one flag set per verb, errors returned rather than
// os.Exit'd from deep inside), but using cobra as the actual dispatcher
// instead of a bare switch on os.Args — the teacher repo imports cobra
// (cmd/viewcore/objref.go) but never wires it into main's command tree;
// here it is the real entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sealedctl",
		Short:         "seal, unseal, and inspect sealedgraph regions for the worldstate demo",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSealCmd())
	root.AddCommand(newUnsealCmd())
	root.AddCommand(newHexCmd())
	root.AddCommand(newShellCmd())
	return root
}
