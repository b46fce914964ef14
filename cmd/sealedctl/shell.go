package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/nsmryan/sealedgraph"
	"github.com/nsmryan/sealedgraph/allocator"
	"github.com/nsmryan/sealedgraph/demo/worldstate"
)

// newShellCmd opens an interactive REPL over a sealed region file. The
// teacher depends on github.com/chzyer/readline in go.mod but never
// calls into it anywhere in the whole repo; this is its first real use,
// modeled loosely on cmd/viewcore's read-eval loop (dispatch a verb,
// print, repeat) but backed by readline instead of a one-shot flag set.
func newShellCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shell <file>",
		Short: "open an interactive shell over a sealed region file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd.OutOrStdout(), args[0])
		},
	}
	return cmd
}

type shellState struct {
	raw   []byte
	world *worldstate.World
}

func runShell(w io.Writer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("shell: reading %s: %w", path, err)
	}
	st := &shellState{raw: alignedCopy(data, 8)}

	out := allocator.NewBump(make([]byte, 2*len(st.raw)+64))
	world, err := sealedgraph.UnsealFromBuffer[worldstate.World](st.raw, out)
	if err != nil {
		return fmt.Errorf("shell: unsealing %s: %w", path, err)
	}
	st.world = world

	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "sealedgraph> ",
		HistoryFile: "",
		Stdout:      w,
	})
	if err != nil {
		return fmt.Errorf("shell: %w", err)
	}
	defer rl.Close()

	fmt.Fprintf(w, "loaded %s (%d bytes); type \"help\" for commands\n", path, len(data))
	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF on ^D, readline.ErrInterrupt on ^C
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if quit := st.dispatch(w, line); quit {
			return nil
		}
	}
}

func (st *shellState) dispatch(w io.Writer, line string) (quit bool) {
	fields := strings.Fields(line)
	cmdName, rest := fields[0], fields[1:]

	switch cmdName {
	case "help":
		fmt.Fprintln(w, "commands: world, fields, schema, hex <offset> <len>, quit")

	case "quit", "exit":
		return true

	case "world":
		printWorld(w, st.world)

	case "fields":
		fmt.Fprintln(w, "World")
		fmt.Fprintln(w, "  Root Region")
		fmt.Fprintln(w, "    Name     string")
		fmt.Fprintln(w, "    Entities []Entity")
		fmt.Fprintln(w, "    Children Optional[[]Region]")

	case "schema":
		s := sealedgraph.MustSchema[worldstate.World]()
		fmt.Fprintf(w, "%s: kind=%s size=%d align=%d containsPtr=%v\n", s.Type, s.Kind, s.Size, s.Align, s.ContainsPtr)

	case "hex":
		if len(rest) != 2 {
			fmt.Fprintln(w, "usage: hex <offset> <len>")
			return false
		}
		off, err1 := strconv.Atoi(rest[0])
		n, err2 := strconv.Atoi(rest[1])
		if err1 != nil || err2 != nil || off < 0 || n < 0 || off+n > len(st.raw) {
			fmt.Fprintln(w, "hex: offset/len out of range")
			return false
		}
		dumpHex(w, st.raw[off:off+n], 16)

	default:
		fmt.Fprintf(w, "unknown command %q; type \"help\"\n", cmdName)
	}
	return false
}
