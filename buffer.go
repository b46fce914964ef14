package sealedgraph

import (
	"fmt"
	"unsafe"
)

// bufAllocator is the minimal bump allocator SealIntoBuffer needs: it
// is not exported, and is not the allocator package's Bump, because
// package allocator imports this package (for ErrOutOfMemory) and an
// import the other way would cycle. The logic is the same either way.
type bufAllocator struct {
	buf []byte
	off uintptr
}

func addrOfSlice(buf []byte) uintptr {
	full := buf[:cap(buf)]
	if len(full) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&full[0]))
}

func (b *bufAllocator) Allocate(size, align uintptr) ([]byte, error) {
	start := alignUpBuf(b.off, align)
	if size == 0 {
		b.off = start
		return b.buf[start:start], nil
	}
	end := start + size
	if end > uintptr(len(b.buf)) {
		return nil, fmt.Errorf("sealedgraph: buffer exhausted at offset %d wanting %d bytes of %d total: %w",
			start, size, len(b.buf), ErrOutOfMemory)
	}
	b.off = end
	region := b.buf[start:end]
	for i := range region {
		region[i] = 0
	}
	return region, nil
}

func (b *bufAllocator) Duplicate(src []byte, align uintptr) ([]byte, error) {
	dst, err := b.Allocate(uintptr(len(src)), align)
	if err != nil {
		return nil, err
	}
	copy(dst, src)
	return dst, nil
}

func (b *bufAllocator) Base() uintptr {
	return addrOfSlice(b.buf)
}

func alignUpBuf(x, align uintptr) uintptr {
	if align == 0 {
		return x
	}
	return (x + align - 1) &^ (align - 1)
}

// SealIntoBuffer treats buf as a bump-allocator-backed region, compacts
// root into it starting at buf[0], seals the result, and returns the
// number of bytes consumed. The caller must supply buf already aligned
// to at least P's required alignment; a safe default is 8, or 16 on
// platforms whose strictest primitive needs it.
//
// root's compacted location is guaranteed to be buf[0] because Compact
// always allocates the root's own storage first, before recursing into
// any of its fields.
func SealIntoBuffer[P any](root *P, buf []byte) (used int, err error) {
	s := MustSchema[P]()
	base := addrOfSlice(buf)
	if base%s.Align != 0 {
		return 0, fmt.Errorf("sealedgraph: buffer base 0x%x is not aligned to %d as required by %s", base, s.Align, s.Type)
	}

	a := &bufAllocator{buf: buf}
	newRoot, err := Compact[P](root, a)
	if err != nil {
		return 0, err
	}
	if uintptr(unsafe.Pointer(newRoot)) != base {
		return 0, fmt.Errorf("sealedgraph: internal error: compacted root did not land at buffer offset 0")
	}
	if err := Seal[P](newRoot, base, uintptr(len(buf))); err != nil {
		return 0, err
	}
	return int(a.off), nil
}

// UnsealFromBuffer reinterprets &buf[0] as P (buf must already be
// aligned for P), unseals it in place against a region of size
// len(buf), then compacts the now-usable graph into a so the returned
// value outlives buf. buf itself is left with absolute pointers after
// this call and is safe to reuse or discard once the returned value has
// been read out of it.
func UnsealFromBuffer[P any](buf []byte, a Allocator) (*P, error) {
	s := MustSchema[P]()
	if uintptr(len(buf)) < s.Size {
		return nil, fmt.Errorf("sealedgraph: buffer of %d bytes is smaller than %s (%d bytes)", len(buf), s.Type, s.Size)
	}
	base := addrOfSlice(buf)
	if base%s.Align != 0 {
		return nil, fmt.Errorf("sealedgraph: buffer base 0x%x is not aligned to %d as required by %s", base, s.Align, s.Type)
	}

	root := (*P)(unsafe.Pointer(&buf[0]))
	if err := Unseal[P](root, base, uintptr(len(buf))); err != nil {
		return nil, err
	}
	return Compact[P](root, a)
}
