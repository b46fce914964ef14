package sealedgraph_test

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/nsmryan/sealedgraph"
	"github.com/nsmryan/sealedgraph/allocator"
	"github.com/nsmryan/sealedgraph/internal/region"
)

// A tagged sum whose active variant is a string. A round trip through
// SealIntoBuffer/UnsealFromBuffer must recover the string and land its
// bytes outside the original buffer.
type sumTag uint8

const (
	tagA sumTag = iota
	tagB
	tagC
)

type taggedUnion struct {
	Tag sumTag
	A   uint64
	B   uint32
	C   string
}

func TestSealUnsealBufferTaggedString(t *testing.T) {
	root := &taggedUnion{Tag: tagC, C: "lorem ipsum"}

	buf := newAlignedBuffer(128, 8)
	used, err := sealedgraph.SealIntoBuffer(root, buf)
	if err != nil {
		t.Fatalf("SealIntoBuffer: %v", err)
	}
	if used <= 0 || used > len(buf) {
		t.Fatalf("used = %d out of range", used)
	}

	out := allocator.NewBump(make([]byte, 256))
	result, err := sealedgraph.UnsealFromBuffer[taggedUnion](buf[:used], out)
	if err != nil {
		t.Fatalf("UnsealFromBuffer: %v", err)
	}
	if result.Tag != tagC || result.C != "lorem ipsum" {
		t.Fatalf("result = %+v, want Tag=tagC C=%q", result, "lorem ipsum")
	}
	data := uintptr(unsafe.Pointer(unsafe.StringData(result.C)))
	if bufBase := addrOfTestBuf(buf); data >= bufBase && data < bufBase+uintptr(len(buf)) {
		t.Fatalf("result.C still lives inside the sealed buffer")
	}
}

// A recursive tree held together by Optional[[]R].
type treeNode struct {
	Label    string
	Children sealedgraph.Optional[[]treeNode]
}

func TestSealUnsealRecursiveTree(t *testing.T) {
	root := &treeNode{
		Label: "Root",
		Children: sealedgraph.Some([]treeNode{
			{
				Label: "Branch1",
				Children: sealedgraph.Some([]treeNode{
					{Label: "Leaf1"},
					{Label: "Leaf2"},
				}),
			},
			{Label: "Branch2"},
		}),
	}

	buf := newAlignedBuffer(512, 8)
	used, err := sealedgraph.SealIntoBuffer(root, buf)
	if err != nil {
		t.Fatalf("SealIntoBuffer: %v", err)
	}

	out := allocator.NewBump(make([]byte, 512))
	result, err := sealedgraph.UnsealFromBuffer[treeNode](buf[:used], out)
	if err != nil {
		t.Fatalf("UnsealFromBuffer: %v", err)
	}

	if result.Label != "Root" || !result.Children.Valid {
		t.Fatalf("root mismatch: %+v", result)
	}
	kids := result.Children.Value
	if len(kids) != 2 || kids[0].Label != "Branch1" || kids[1].Label != "Branch2" {
		t.Fatalf("children mismatch: %+v", kids)
	}
	grandkids := kids[0].Children.Value
	if len(grandkids) != 2 || grandkids[0].Label != "Leaf1" || grandkids[1].Label != "Leaf2" {
		t.Fatalf("grandchildren mismatch: %+v", grandkids)
	}
	if kids[1].Children.Valid {
		t.Fatalf("Branch2 should have no children, got %+v", kids[1].Children)
	}

	// Zeroing the sealed buffer after unseal must not affect the
	// already-compacted result graph: UnsealFromBuffer copies everything
	// it returns into a separate allocator before handing buf back.
	for i := range buf {
		buf[i] = 0
	}
	if result.Label != "Root" || kids[0].Label != "Branch1" {
		t.Fatalf("result was corrupted by zeroing the sealed buffer")
	}
}

// An optional slice of records; the inner slice's pointer must differ
// from the input after a round trip.
type innerRec struct {
	A uint32
	B uint8
}

type outerRec struct {
	A uint32
	B sealedgraph.Optional[[]innerRec]
}

func TestSealUnsealOptionalSliceOfRecords(t *testing.T) {
	root := &outerRec{
		A: 2147483647,
		B: sealedgraph.Some([]innerRec{{A: 4294967295, B: 'A'}}),
	}
	originalSlice := root.B.Value

	buf := newAlignedBuffer(128, 8)
	used, err := sealedgraph.SealIntoBuffer(root, buf)
	if err != nil {
		t.Fatalf("SealIntoBuffer: %v", err)
	}

	out := allocator.NewBump(make([]byte, 256))
	result, err := sealedgraph.UnsealFromBuffer[outerRec](buf[:used], out)
	if err != nil {
		t.Fatalf("UnsealFromBuffer: %v", err)
	}

	if result.A != root.A || !result.B.Valid {
		t.Fatalf("result mismatch: %+v", result)
	}
	if len(result.B.Value) != 1 || result.B.Value[0] != originalSlice[0] {
		t.Fatalf("inner slice value mismatch: %+v", result.B.Value)
	}
	if &result.B.Value[0] == &originalSlice[0] {
		t.Fatalf("inner slice still points at the original backing array")
	}
}

// Pointers that do not lie within the supplied region must be flagged,
// not silently sealed.
func TestSealRejectsPointerOutsideRegion(t *testing.T) {
	region := make([]byte, 64)
	regionBase := addrOfTestBuf(region)

	// bad.Next lives on the heap, nowhere near `region`; Seal must
	// reject it instead of silently writing a bogus offset.
	bad := &linkNode{Value: 1, Next: &linkNode{Value: 2}}
	err := sealedgraph.Seal(bad, regionBase, uintptr(len(region)))
	if err == nil {
		t.Fatalf("Seal succeeded on a pointer outside the region")
	}
	var perr *sealedgraph.PointerError
	if !errors.As(err, &perr) {
		t.Fatalf("error is not a *PointerError: %v", err)
	}
	if !errors.Is(err, sealedgraph.ErrPointerNotInRange) {
		t.Fatalf("error does not wrap ErrPointerNotInRange: %v", err)
	}
}

// rawSliceHeader mirrors the runtime slice layout sealedgraph itself
// relies on internally, so this package's tests can inspect a sealed
// slice field's raw Data pointer without the library exporting one.
type rawSliceHeader struct {
	Data unsafe.Pointer
	Len  int
	Cap  int
}

type withEmptySlice struct {
	Name  uint32
	Items []int32
}

func TestSealEmptySliceStoresBiasValue(t *testing.T) {
	root := &withEmptySlice{Name: 0xabcd, Items: []int32{}}

	// Items is empty, so Seal never range-checks its base pointer; the
	// region bounds below are arbitrary and deliberately don't contain
	// root's real address.
	if err := sealedgraph.Seal(root, 0x1000, 0x100); err != nil {
		t.Fatalf("Seal: %v", err)
	}

	hdr := (*rawSliceHeader)(unsafe.Pointer(&root.Items))
	if hdr.Len != 0 {
		t.Fatalf("hdr.Len = %d, want 0", hdr.Len)
	}
	if uintptr(hdr.Data) != region.Bias {
		t.Fatalf("hdr.Data = %#x, want region.Bias (%#x)", uintptr(hdr.Data), uintptr(region.Bias))
	}

	if err := sealedgraph.Unseal(root, 0x1000, 0x100); err != nil {
		t.Fatalf("Unseal: %v", err)
	}
	if root.Name != 0xabcd {
		t.Fatalf("Name = %#x, want 0xabcd", root.Name)
	}
	if len(root.Items) != 0 {
		t.Fatalf("len(Items) = %d, want 0", len(root.Items))
	}
	if hdr.Data != nil {
		t.Fatalf("hdr.Data after Unseal = %v, want nil", hdr.Data)
	}
}
