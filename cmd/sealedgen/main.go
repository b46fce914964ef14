// Command sealedgen scans a package for types marked with a
// "//sealedgraph:root" directive comment and emits a file that forces
// sealedgraph.MustSchema for each of them from an init function.
//
// Go has no derive-macro hook to reject an unsupported type at
// `go build` time; running MustSchema from init is the closest a
// generated file can get, since it panics during program startup —
// before main ever runs — rather than waiting for the first real
// Compact/Seal call to discover the type is unsupported.
//
// Usage:
//
//	sealedgen -out sealedgraph_gen.go .
package main

import (
	"flag"
	"fmt"
	"os"
)

func main() {
	out := flag.String("out", "sealedgraph_gen.go", "name of the generated file, written into the scanned directory")
	flag.Parse()

	dir := "."
	if flag.NArg() > 0 {
		dir = flag.Arg(0)
	}

	if err := run(dir, *out); err != nil {
		fmt.Fprintf(os.Stderr, "sealedgen: %v\n", err)
		os.Exit(1)
	}
}
