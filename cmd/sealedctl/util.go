package main

import (
	"fmt"
	"io"
	"unsafe"

	"github.com/nsmryan/sealedgraph/demo/worldstate"
)

// alignedCopy returns a buffer at least len(data) bytes long, aligned
// to align, with data copied to its front. plain make([]byte, n) is not
// guaranteed any particular alignment beyond what the runtime's size
// classes happen to give it, so both the seal path (a fresh scratch
// buffer) and the read path (bytes from a file) pad and shift rather
// than assume.
func alignedCopy(data []byte, align uintptr) []byte {
	raw := make([]byte, len(data)+int(align))
	base := uintptr(unsafe.Pointer(&raw[0]))
	pad := (align - base%align) % align
	buf := raw[pad : pad+uintptr(len(data))]
	copy(buf, data)
	return buf
}

func printWorld(w io.Writer, world *worldstate.World) {
	printRegion(w, &world.Root, 0)
}

func printRegion(w io.Writer, r *worldstate.Region, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	fmt.Fprintf(w, "%s%s\n", indent, r.Name)
	for _, e := range r.Entities {
		fmt.Fprintf(w, "%s  - %s (id=%d) %s\n", indent, e.Name, e.ID, describeContent(e.Content))
		for _, it := range e.Inventory {
			fmt.Fprintf(w, "%s      * %s (power=%d)\n", indent, it.Name, it.Power)
		}
	}
	if r.Children.Valid {
		for _, c := range r.Children.Value {
			child := c
			printRegion(w, &child, depth+1)
		}
	}
}

func describeContent(c worldstate.TileContent) string {
	switch c.Tag {
	case worldstate.ContentGround:
		return "[ground]"
	case worldstate.ContentItem:
		return fmt.Sprintf("[holding %s]", c.Item.Name)
	case worldstate.ContentLink:
		return fmt.Sprintf("[linked to %s]", c.Link)
	default:
		return "[?]"
	}
}
