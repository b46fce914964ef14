package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nsmryan/sealedgraph"
	"github.com/nsmryan/sealedgraph/demo/worldstate"
)

func newSealCmd() *cobra.Command {
	var bufSize int

	cmd := &cobra.Command{
		Use:   "seal <output-file>",
		Short: "compact and seal the sample worldstate.World into a region file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			buf := alignedCopy(make([]byte, bufSize), 8)

			w := worldstate.Sample()
			used, err := sealedgraph.SealIntoBuffer(w, buf)
			if err != nil {
				return fmt.Errorf("seal: %w", err)
			}
			if err := os.WriteFile(args[0], buf[:used], 0o644); err != nil {
				return fmt.Errorf("seal: writing %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sealed %d bytes into %s\n", used, args[0])
			return nil
		},
	}
	cmd.Flags().IntVar(&bufSize, "buffer", 4096, "scratch buffer size in bytes")
	return cmd
}
