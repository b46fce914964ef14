package sealedgraph

import "unsafe"

// sliceHeader mirrors the runtime layout every Go slice type shares,
// regardless of element type: a data pointer, a length, and a capacity,
// in that order. reflect.SliceHeader documents the same layout but is
// soft-deprecated in favor of unsafe.Slice/unsafe.SliceData, which only
// help once you already have a concrete element type; the walker below
// is type-erased (it only knows a *typeinfo.Schema, not a Go generic
// parameter) so it aliases this struct directly instead.
type sliceHeader struct {
	Data unsafe.Pointer
	Len  int
	Cap  int
}

// stringHeader mirrors the runtime layout of a Go string: a data
// pointer and a length, no capacity. Used instead of
// unsafe.String/unsafe.StringData so the walker can rewrite the Data
// field of an existing string value in place, the same way it rewrites
// a sliceHeader's Data field.
type stringHeader struct {
	Data unsafe.Pointer
	Len  int
}

func addAddr(p unsafe.Pointer, off uintptr) unsafe.Pointer {
	return unsafe.Pointer(uintptr(p) + off)
}

func readBool(p unsafe.Pointer) bool {
	return *(*bool)(p)
}

// readUintTag reads a sum type's Tag field as a plain uint64, regardless
// of its declared signed/unsigned/width; the only thing that matters is
// that it selects a variant index by value.
func readUintTag(p unsafe.Pointer, size uintptr) uint64 {
	switch size {
	case 1:
		return uint64(*(*uint8)(p))
	case 2:
		return uint64(*(*uint16)(p))
	case 4:
		return uint64(*(*uint32)(p))
	case 8:
		return *(*uint64)(p)
	default:
		panic("sealedgraph: unsupported tag width")
	}
}
