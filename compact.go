package sealedgraph

import (
	"unsafe"

	"github.com/nsmryan/sealedgraph/internal/typeinfo"
)

// Compact deep-copies the graph rooted at root into a, returning a
// fresh root whose entire transitively reachable sub-graph was
// allocated exclusively from a. root itself is left untouched.
//
// The copy is only safe from the Go garbage collector's point of view
// because a is expected to hand back memory the GC does not scan for
// pointers — a Go-heap []byte backing array (byte slices carry no
// pointers by their own element type) or, better, memory entirely
// outside the Go heap such as allocator.Mmap. Every pointer Compact
// writes into that memory points at another allocation from the same a,
// so the object graph's liveness is anchored entirely by whoever holds
// a live reference to a's backing store — never by the GC tracing
// through the copied pointers themselves.
func Compact[P any](root *P, a Allocator) (*P, error) {
	s := MustSchema[P]()
	dst, err := compactAt(s, unsafe.Pointer(root), a)
	if err != nil {
		return nil, err
	}
	return (*P)(dst), nil
}

// compactAt allocates one fresh element of s's type from a, bit-copies
// *src into it, then repairs the copy's interior pointers in place: a
// plain byte copy leaves every pointer/slice field pointing at the
// original graph, so each one is individually replaced with a fresh
// compactAt of whatever it pointed to.
func compactAt(s *typeinfo.Schema, src unsafe.Pointer, a Allocator) (unsafe.Pointer, error) {
	buf, err := a.Allocate(s.Size, s.Align)
	if err != nil {
		return nil, err
	}
	if s.Size == 0 {
		return nil, nil
	}
	dst := unsafe.Pointer(&buf[0])
	copy(unsafe.Slice((*byte)(dst), s.Size), unsafe.Slice((*byte)(src), s.Size))
	if s.ContainsPtr {
		if err := repairCompact(s, dst, a); err != nil {
			return nil, err
		}
	}
	return dst, nil
}

// repairCompact descends structurally from addr (which already holds a
// bit-for-bit copy of the live source value) and, at every pointer or
// slice field, replaces the inherited absolute pointer with a fresh
// compactAt of whatever it originally pointed to.
func repairCompact(s *typeinfo.Schema, addr unsafe.Pointer, a Allocator) error {
	switch s.Kind {
	case typeinfo.KindScalar:
		return nil

	case typeinfo.KindPointer:
		pp := (*unsafe.Pointer)(addr)
		if *pp == nil {
			return nil
		}
		dst, err := compactAt(s.Elem, *pp, a)
		if err != nil {
			return err
		}
		*pp = dst
		return nil

	case typeinfo.KindSlice:
		return repairCompactSlice(s, addr, a)

	case typeinfo.KindArray:
		if !s.ContainsPtr {
			return nil
		}
		for i := 0; i < s.ArrayLen; i++ {
			elemAddr := addAddr(addr, uintptr(i)*s.Elem.Size)
			if err := repairCompact(s.Elem, elemAddr, a); err != nil {
				return err
			}
		}
		return nil

	case typeinfo.KindRecord:
		for _, f := range s.Fields {
			if !f.Schema.ContainsPtr {
				continue
			}
			if err := repairCompact(f.Schema, addAddr(addr, f.Offset), a); err != nil {
				return err
			}
		}
		return nil

	case typeinfo.KindSum:
		v, err := activeVariant(s, addr)
		if err != nil {
			return err
		}
		if v == nil || !v.Schema.ContainsPtr {
			return nil
		}
		return repairCompact(v.Schema, addAddr(addr, v.Offset), a)

	case typeinfo.KindOptional:
		if !readBool(addAddr(addr, s.ValidOffset)) {
			return nil
		}
		if !s.Elem.ContainsPtr {
			return nil
		}
		return repairCompact(s.Elem, addAddr(addr, s.ValueOffset), a)

	default:
		return &typeinfo.UnsupportedTypeError{Type: s.Type, Reason: "unreachable: unresolved kind during compact"}
	}
}

func repairCompactSlice(s *typeinfo.Schema, addr unsafe.Pointer, a Allocator) error {
	if s.IsString {
		hdr := (*stringHeader)(addr)
		if hdr.Len == 0 {
			buf, err := a.Allocate(0, 1)
			if err != nil {
				return err
			}
			hdr.Data = sliceBufPointer(buf)
			return nil
		}
		src := unsafe.Slice((*byte)(hdr.Data), hdr.Len)
		buf, err := a.Duplicate(src, 1)
		if err != nil {
			return err
		}
		hdr.Data = unsafe.Pointer(&buf[0])
		return nil
	}

	hdr := (*sliceHeader)(addr)
	if hdr.Len == 0 {
		buf, err := a.Allocate(0, s.Elem.Align)
		if err != nil {
			return err
		}
		hdr.Data = sliceBufPointer(buf)
		hdr.Cap = 0
		return nil
	}

	elemSize := s.Elem.Size
	total := elemSize * uintptr(hdr.Len)
	src := unsafe.Slice((*byte)(hdr.Data), total)
	buf, err := a.Allocate(total, s.Elem.Align)
	if err != nil {
		return err
	}
	copy(buf, src)
	hdr.Data = unsafe.Pointer(&buf[0])
	hdr.Cap = hdr.Len

	if s.Elem.ContainsPtr {
		for i := 0; i < hdr.Len; i++ {
			elemAddr := addAddr(hdr.Data, uintptr(i)*elemSize)
			if err := repairCompact(s.Elem, elemAddr, a); err != nil {
				return err
			}
		}
	}
	return nil
}

// sliceBufPointer returns the allocator-supplied base address for a
// (possibly zero-length) freshly-allocated slice, without indexing out
// of bounds. For a zero-byte request this value is never dereferenced,
// so it only needs to be whatever address the allocator actually
// returned.
func sliceBufPointer(buf []byte) unsafe.Pointer {
	return unsafe.Pointer(unsafe.SliceData(buf))
}

// activeVariant returns the sum's currently-active variant field, or an
// error if the stored tag is out of range for the schema's variant
// list.
func activeVariant(s *typeinfo.Schema, addr unsafe.Pointer) (*typeinfo.Field, error) {
	tag := readUintTag(addAddr(addr, s.Tag.Offset), s.Tag.Schema.Size)
	if tag >= uint64(len(s.Variants)) {
		return nil, &typeinfo.UnsupportedTypeError{Type: s.Type, Reason: "tag value out of range for variant list"}
	}
	return &s.Variants[tag], nil
}
