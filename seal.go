package sealedgraph

import (
	"fmt"
	"unsafe"

	"github.com/nsmryan/sealedgraph/internal/region"
	"github.com/nsmryan/sealedgraph/internal/typeinfo"
)

// Seal rewrites every pointer reachable from root, in place, from an
// absolute address into a region-relative offset biased by
// region.Bias. Precondition: every pointer in the graph already lies in
// [regionBase, regionBase+regionSize) — i.e. root was produced by
// Compact into an allocator whose backing store is exactly that range.
//
// On error the region is left poisoned: whatever prefix of the walk
// already ran has already rewritten its pointers, and there is no
// rollback. A failed Seal must be treated as a non-recoverable
// integrity failure of that region.
func Seal[P any](root *P, regionBase, regionSize uintptr) error {
	s := MustSchema[P]()
	if !s.ContainsPtr {
		return nil
	}
	r := region.Range{Base: regionBase, Size: regionSize}
	return sealAt(s, unsafe.Pointer(root), r, "root")
}

func sealAt(s *typeinfo.Schema, addr unsafe.Pointer, r region.Range, path string) error {
	switch s.Kind {
	case typeinfo.KindScalar:
		return nil

	case typeinfo.KindPointer:
		pp := (*unsafe.Pointer)(addr)
		if *pp == nil {
			return nil
		}
		// Recurse into the target before rewriting this field: once the
		// field holds a region-relative offset instead of a real address,
		// the target can no longer be reached to seal it.
		if s.Elem.ContainsPtr {
			if err := sealAt(s.Elem, *pp, r, path); err != nil {
				return err
			}
		}
		p := uintptr(*pp)
		if !r.Contains(p) {
			return &PointerError{Field: path, Which: SinglePointer, Value: p, Base: r.Base, Size: r.Size}
		}
		*pp = unsafe.Pointer(r.Seal(p))
		return nil

	case typeinfo.KindSlice:
		return sealSlice(s, addr, r, path)

	case typeinfo.KindArray:
		if !s.ContainsPtr {
			return nil
		}
		for i := 0; i < s.ArrayLen; i++ {
			elemAddr := addAddr(addr, uintptr(i)*s.Elem.Size)
			if err := sealAt(s.Elem, elemAddr, r, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		return nil

	case typeinfo.KindRecord:
		for _, f := range s.Fields {
			if !f.Schema.ContainsPtr {
				continue
			}
			if err := sealAt(f.Schema, addAddr(addr, f.Offset), r, path+"."+f.Name); err != nil {
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
		return sealAt(v.Schema, addAddr(addr, v.Offset), r, path+"."+v.Name)

	case typeinfo.KindOptional:
		if !readBool(addAddr(addr, s.ValidOffset)) {
			return nil
		}
		if !s.Elem.ContainsPtr {
			return nil
		}
		return sealAt(s.Elem, addAddr(addr, s.ValueOffset), r, path+".Value")

	default:
		return &typeinfo.UnsupportedTypeError{Type: s.Type, Reason: "unreachable: unresolved kind during seal"}
	}
}

func sealSlice(s *typeinfo.Schema, addr unsafe.Pointer, r region.Range, path string) error {
	if s.IsString {
		hdr := (*stringHeader)(addr)
		if hdr.Len == 0 {
			hdr.Data = unsafe.Pointer(uintptr(region.Bias))
			return nil
		}
		p := uintptr(hdr.Data)
		if !r.Contains(p) {
			return &PointerError{Field: path, Which: SlicePointer, Value: p, Base: r.Base, Size: r.Size}
		}
		hdr.Data = unsafe.Pointer(r.Seal(p))
		return nil
	}

	hdr := (*sliceHeader)(addr)
	if hdr.Len == 0 {
		// An empty slice's base pointer carries no information worth
		// preserving and may not even point inside the region, so skip
		// range validation entirely and store the bias value itself — the
		// smallest offset Unseal will ever see — instead of whatever
		// arbitrary address the allocator handed back for a zero-byte
		// request.
		hdr.Data = unsafe.Pointer(uintptr(region.Bias))
		return nil
	}

	// Recurse into elements before rewriting the base pointer: once the
	// base holds a region-relative offset, element addresses can no
	// longer be computed from it.
	if s.Elem.ContainsPtr {
		elemSize := s.Elem.Size
		for i := 0; i < hdr.Len; i++ {
			elemAddr := addAddr(hdr.Data, uintptr(i)*elemSize)
			if err := sealAt(s.Elem, elemAddr, r, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	}

	p := uintptr(hdr.Data)
	if !r.Contains(p) {
		return &PointerError{Field: path, Which: SlicePointer, Value: p, Base: r.Base, Size: r.Size}
	}
	hdr.Data = unsafe.Pointer(r.Seal(p))
	// The length field is not altered; Cap remains whatever Compact left
	// it as and is never interpreted by Seal/Unseal.
	return nil
}
