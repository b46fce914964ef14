package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nsmryan/sealedgraph"
	"github.com/nsmryan/sealedgraph/allocator"
	"github.com/nsmryan/sealedgraph/demo/worldstate"
)

func newUnsealCmd() *cobra.Command {
	var outSize int

	cmd := &cobra.Command{
		Use:   "unseal <input-file>",
		Short: "unseal a region file produced by \"seal\" and print the resulting world",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("unseal: reading %s: %w", args[0], err)
			}
			buf := alignedCopy(raw, 8)

			out := allocator.NewBump(make([]byte, outSize))
			world, err := sealedgraph.UnsealFromBuffer[worldstate.World](buf, out)
			if err != nil {
				return fmt.Errorf("unseal: %w", err)
			}
			printWorld(cmd.OutOrStdout(), world)
			return nil
		},
	}
	cmd.Flags().IntVar(&outSize, "out-buffer", 4096, "scratch buffer size for the compacted-out copy")
	return cmd
}
