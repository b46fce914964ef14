package sealedgraph

import (
	"fmt"
	"unsafe"

	"github.com/nsmryan/sealedgraph/internal/region"
	"github.com/nsmryan/sealedgraph/internal/typeinfo"
)

// Unseal is the inverse of Seal: it rewrites every offset reachable
// from root back into an absolute pointer based at regionBase. root
// itself must already be an absolute pointer — callers obtain it by
// aligning the region's first bytes for P and casting.
//
// As with Seal, a failure leaves the region poisoned with whatever
// prefix of the walk already ran; there is no rollback.
func Unseal[P any](root *P, regionBase, regionSize uintptr) error {
	s := MustSchema[P]()
	if !s.ContainsPtr {
		return nil
	}
	r := region.Range{Base: regionBase, Size: regionSize}
	return unsealAt(s, unsafe.Pointer(root), r, "root")
}

func unsealAt(s *typeinfo.Schema, addr unsafe.Pointer, r region.Range, path string) error {
	switch s.Kind {
	case typeinfo.KindScalar:
		return nil

	case typeinfo.KindPointer:
		pp := (*unsafe.Pointer)(addr)
		if *pp == nil {
			return nil
		}
		off := uintptr(*pp)
		if !r.ValidOffset(off) {
			return &PointerError{Field: path, Which: SinglePointer, Value: off, Base: r.Base, Size: r.Size}
		}
		abs := r.Unseal(off)
		*pp = unsafe.Pointer(abs)
		// Recurse only after rewriting this field: the target's address
		// isn't usable until the offset stored here has been turned back
		// into a real pointer.
		if s.Elem.ContainsPtr {
			return unsealAt(s.Elem, *pp, r, path)
		}
		return nil

	case typeinfo.KindSlice:
		return unsealSlice(s, addr, r, path)

	case typeinfo.KindArray:
		if !s.ContainsPtr {
			return nil
		}
		for i := 0; i < s.ArrayLen; i++ {
			elemAddr := addAddr(addr, uintptr(i)*s.Elem.Size)
			if err := unsealAt(s.Elem, elemAddr, r, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		return nil

	case typeinfo.KindRecord:
		for _, f := range s.Fields {
			if !f.Schema.ContainsPtr {
				continue
			}
			if err := unsealAt(f.Schema, addAddr(addr, f.Offset), r, path+"."+f.Name); err != nil {
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
		return unsealAt(v.Schema, addAddr(addr, v.Offset), r, path+"."+v.Name)

	case typeinfo.KindOptional:
		if !readBool(addAddr(addr, s.ValidOffset)) {
			return nil
		}
		if !s.Elem.ContainsPtr {
			return nil
		}
		return unsealAt(s.Elem, addAddr(addr, s.ValueOffset), r, path+".Value")

	default:
		return &typeinfo.UnsupportedTypeError{Type: s.Type, Reason: "unreachable: unresolved kind during unseal"}
	}
}

func unsealSlice(s *typeinfo.Schema, addr unsafe.Pointer, r region.Range, path string) error {
	if s.IsString {
		hdr := (*stringHeader)(addr)
		if hdr.Len == 0 {
			hdr.Data = nil
			return nil
		}
		off := uintptr(hdr.Data)
		if !r.ValidOffset(off) {
			return &PointerError{Field: path, Which: SlicePointer, Value: off, Base: r.Base, Size: r.Size}
		}
		hdr.Data = unsafe.Pointer(r.Unseal(off))
		return nil
	}

	hdr := (*sliceHeader)(addr)
	if hdr.Len == 0 {
		hdr.Data = nil
		return nil
	}

	off := uintptr(hdr.Data)
	if !r.ValidOffset(off) {
		return &PointerError{Field: path, Which: SlicePointer, Value: off, Base: r.Base, Size: r.Size}
	}
	hdr.Data = unsafe.Pointer(r.Unseal(off))

	// Recurse into elements only after rewriting the base pointer: element
	// addresses are computed from it, and it isn't a usable address until
	// this point.
	if s.Elem.ContainsPtr {
		elemSize := s.Elem.Size
		for i := 0; i < hdr.Len; i++ {
			elemAddr := addAddr(hdr.Data, uintptr(i)*elemSize)
			if err := unsealAt(s.Elem, elemAddr, r, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	}
	return nil
}
