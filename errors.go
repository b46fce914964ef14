package sealedgraph

import (
	"errors"
	"fmt"
)

// ErrOutOfMemory is returned (often wrapped) when an Allocator refuses a
// request made on its behalf by Compact or SealIntoBuffer.
var ErrOutOfMemory = errors.New("sealedgraph: allocator out of memory")

// ErrPointerNotInRange is returned (often wrapped in a *PointerError)
// when a single-target pointer lies outside the region supplied to Seal,
// or a sealed offset is out of range during Unseal.
var ErrPointerNotInRange = errors.New("sealedgraph: pointer not in region range")

// ErrSlicePointerInvalid is the slice-base analogue of
// ErrPointerNotInRange.
var ErrSlicePointerInvalid = errors.New("sealedgraph: slice base pointer invalid")

// PointerKind distinguishes which of the two value errors a PointerError
// wraps.
type PointerKind uint8

const (
	// SinglePointer marks an error found on an owned-pointer field.
	SinglePointer PointerKind = iota
	// SlicePointer marks an error found on a slice base-pointer field.
	SlicePointer
)

func (k PointerKind) String() string {
	if k == SlicePointer {
		return "slice"
	}
	return "pointer"
}

// PointerError reports the precise location and values involved when
// Seal or Unseal rejects a pointer. The region is left poisoned at the
// point of failure; partial rewrites already performed by the walk are
// not rolled back.
type PointerError struct {
	Field string // dotted field path from the root, for diagnostics
	Which PointerKind
	Value uintptr
	Base  uintptr
	Size  uintptr
}

func (e *PointerError) Error() string {
	var wrapped error
	if e.Which == SlicePointer {
		wrapped = ErrSlicePointerInvalid
	} else {
		wrapped = ErrPointerNotInRange
	}
	return fmt.Sprintf("%s: field %q: value 0x%x not in [base 0x%x, base+size 0x%x)",
		wrapped, e.Field, e.Value, e.Base, e.Base+e.Size)
}

func (e *PointerError) Unwrap() error {
	if e.Which == SlicePointer {
		return ErrSlicePointerInvalid
	}
	return ErrPointerNotInRange
}
