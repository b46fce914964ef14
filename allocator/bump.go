// Package allocator provides concrete implementations of
// sealedgraph.Allocator: a plain in-process bump allocator over a
// caller-owned []byte, and one backed by an anonymous, private mmap
// that lives outside the Go heap.
//
// Both satisfy bump-allocator semantics (monotonically forward, root at
// byte 0), which sealedgraph.SealIntoBuffer requires; either is also
// fine to use with sealedgraph.Compact on its own, which needs no more
// than the Allocator interface.
package allocator

import (
	"fmt"

	"github.com/nsmryan/sealedgraph"
)

// Bump is the simplest possible Allocator: it carves sequential,
// aligned slices out of a single caller-supplied []byte, never freeing
// or reusing any of it. Modeled on the forward-only, mark-as-you-go
// allocation style of internal/gocore's heap walk (markObjects), here
// driving real allocation instead of a liveness bitmap.
type Bump struct {
	buf    []byte
	offset uintptr
}

// NewBump wraps buf for bump allocation. buf's length is the region's
// total capacity; the caller is responsible for giving buf whatever
// alignment the types it will hold require.
func NewBump(buf []byte) *Bump {
	return &Bump{buf: buf}
}

// Used returns the number of bytes handed out so far.
func (b *Bump) Used() uintptr {
	return b.offset
}

// Bytes returns the full backing slice (not just the used prefix).
func (b *Bump) Bytes() []byte {
	return b.buf
}

func alignUp(x, align uintptr) uintptr {
	if align == 0 {
		return x
	}
	return (x + align - 1) &^ (align - 1)
}

func (b *Bump) Allocate(size, align uintptr) ([]byte, error) {
	start := alignUp(b.offset, align)
	if size == 0 {
		// Zero-byte requests still succeed; the caller gets a valid,
		// empty slice whose base pointer is not guaranteed meaningful.
		b.offset = start
		return b.buf[start:start], nil
	}
	end := start + size
	if end > uintptr(len(b.buf)) {
		return nil, fmt.Errorf("allocator: need %d bytes at offset %d, only %d available: %w",
			size, start, uintptr(len(b.buf))-start, sealedgraph.ErrOutOfMemory)
	}
	b.offset = end
	region := b.buf[start:end]
	for i := range region {
		region[i] = 0
	}
	return region, nil
}

func (b *Bump) Duplicate(src []byte, align uintptr) ([]byte, error) {
	dst, err := b.Allocate(uintptr(len(src)), align)
	if err != nil {
		return nil, err
	}
	copy(dst, src)
	return dst, nil
}

func (b *Bump) Base() uintptr {
	return bufBase(b.buf)
}
