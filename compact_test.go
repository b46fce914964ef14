package sealedgraph_test

import (
	"testing"
	"unsafe"

	"github.com/nsmryan/sealedgraph"
	"github.com/nsmryan/sealedgraph/allocator"
)

// Compact must produce a new pointer distinct from the original, whose
// pointee is value-equal.
func TestCompactPrimitivePointer(t *testing.T) {
	v := uint32(0x01234567)
	root := &v

	a := allocator.NewBump(make([]byte, 256))
	out, err := sealedgraph.Compact(root, a)
	if err != nil {
		t.Fatalf("Compact: %v", err)
	}
	if out == root {
		t.Fatalf("Compact returned the same pointer as the input root")
	}
	if *out != v {
		t.Fatalf("*out = %#x, want %#x", *out, v)
	}
}

// Array elements are inline, so Compact only ever allocates once (for
// the array itself), with no nested pointers.
func TestCompactFixedArrayInline(t *testing.T) {
	arr := [3]uint32{1, 2, 3}
	root := &arr

	a := allocator.NewBump(make([]byte, 256))
	out, err := sealedgraph.Compact(root, a)
	if err != nil {
		t.Fatalf("Compact: %v", err)
	}
	if out == root {
		t.Fatalf("Compact returned the same pointer as the input root")
	}
	if *out != arr {
		t.Fatalf("*out = %v, want %v", *out, arr)
	}
}

type linkNode struct {
	Value int32
	Next  *linkNode
}

func TestCompactLeavesSourceUntouched(t *testing.T) {
	tail := &linkNode{Value: 2}
	root := &linkNode{Value: 1, Next: tail}

	a := allocator.NewBump(make([]byte, 256))
	out, err := sealedgraph.Compact(root, a)
	if err != nil {
		t.Fatalf("Compact: %v", err)
	}

	if root.Next != tail {
		t.Fatalf("Compact mutated the source graph's pointer field")
	}
	if out.Next == tail {
		t.Fatalf("Compact's output still points into the source graph")
	}
	if out.Value != 1 || out.Next.Value != 2 {
		t.Fatalf("Compact produced wrong values: %+v", out)
	}
}

func TestCompactIdempotentOnItsOwnOutput(t *testing.T) {
	root := &linkNode{Value: 1, Next: &linkNode{Value: 2}}

	a1 := allocator.NewBump(make([]byte, 256))
	once, err := sealedgraph.Compact(root, a1)
	if err != nil {
		t.Fatalf("first Compact: %v", err)
	}

	a2 := allocator.NewBump(make([]byte, 256))
	twice, err := sealedgraph.Compact(once, a2)
	if err != nil {
		t.Fatalf("second Compact: %v", err)
	}

	if twice.Value != once.Value || twice.Next.Value != once.Next.Value {
		t.Fatalf("re-compacting changed values: once=%+v twice=%+v", once, twice)
	}
	if twice == once || twice.Next == once.Next {
		t.Fatalf("re-compacting should allocate fresh storage in a2")
	}
}

func TestCompactEmptySliceUsesAllocatorAddress(t *testing.T) {
	type withSlice struct {
		Items []int32
	}
	root := &withSlice{Items: []int32{}}

	a := allocator.NewBump(make([]byte, 64))
	out, err := sealedgraph.Compact(root, a)
	if err != nil {
		t.Fatalf("Compact: %v", err)
	}
	if len(out.Items) != 0 {
		t.Fatalf("len(out.Items) = %d, want 0", len(out.Items))
	}
	hdr := (*rawSliceHeader)(unsafe.Pointer(&out.Items))
	if p := uintptr(hdr.Data); p < a.Base() || p > a.Base()+uintptr(len(a.Bytes())) {
		t.Fatalf("out.Items base %#x is not an address inside the allocator's buffer", p)
	}
}
