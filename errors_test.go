package sealedgraph

import (
	"errors"
	"testing"
)

func TestPointerErrorUnwrapsToSentinel(t *testing.T) {
	e := &PointerError{Field: "root.Next", Which: SinglePointer, Value: 0x10, Base: 0x1000, Size: 0x100}
	if !errors.Is(e, ErrPointerNotInRange) {
		t.Fatalf("PointerError{Which: SinglePointer} does not unwrap to ErrPointerNotInRange")
	}
	if errors.Is(e, ErrSlicePointerInvalid) {
		t.Fatalf("PointerError{Which: SinglePointer} should not unwrap to ErrSlicePointerInvalid")
	}
}

func TestSlicePointerErrorUnwrapsToSentinel(t *testing.T) {
	e := &PointerError{Field: "root.Items", Which: SlicePointer, Value: 0x10, Base: 0x1000, Size: 0x100}
	if !errors.Is(e, ErrSlicePointerInvalid) {
		t.Fatalf("PointerError{Which: SlicePointer} does not unwrap to ErrSlicePointerInvalid")
	}
}

func TestPointerKindString(t *testing.T) {
	if SinglePointer.String() != "pointer" {
		t.Errorf("SinglePointer.String() = %q", SinglePointer.String())
	}
	if SlicePointer.String() != "slice" {
		t.Errorf("SlicePointer.String() = %q", SlicePointer.String())
	}
}
