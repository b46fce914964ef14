package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// newHexCmd is a type-agnostic raw dump of a sealed region file, the
// sealedctl analogue of the teacher's "viewcore read" subcommand: it
// knows nothing about worldstate.World and just shows bytes, useful for
// inspecting a region that failed to unseal.
func newHexCmd() *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "hex <file>",
		Short: "hex-dump a region file without interpreting it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("hex: reading %s: %w", args[0], err)
			}
			dumpHex(cmd.OutOrStdout(), data, width)
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 16, "bytes per row")
	return cmd
}

func dumpHex(w interface{ Write([]byte) (int, error) }, data []byte, width int) {
	if width <= 0 {
		width = 16
	}
	for off := 0; off < len(data); off += width {
		end := off + width
		if end > len(data) {
			end = len(data)
		}
		row := data[off:end]

		line := fmt.Sprintf("%08x  ", off)
		for i := 0; i < width; i++ {
			if i < len(row) {
				line += fmt.Sprintf("%02x ", row[i])
			} else {
				line += "   "
			}
			if i == width/2-1 {
				line += " "
			}
		}
		line += " |"
		for _, b := range row {
			if b >= 0x20 && b < 0x7f {
				line += string(b)
			} else {
				line += "."
			}
		}
		line += "|\n"
		fmt.Fprint(w, line)
	}
}
