package sealedgraph_test

import (
	"errors"
	"testing"

	"github.com/nsmryan/sealedgraph"
	"github.com/nsmryan/sealedgraph/allocator"
)

func TestSealIntoBufferTooSmall(t *testing.T) {
	root := &linkNode{Value: 1, Next: &linkNode{Value: 2}}
	buf := newAlignedBuffer(4, 8)
	_, err := sealedgraph.SealIntoBuffer(root, buf)
	if err == nil {
		t.Fatalf("expected an error for a buffer too small to hold the root")
	}
	if !errors.Is(err, sealedgraph.ErrOutOfMemory) {
		t.Fatalf("error does not wrap ErrOutOfMemory: %v", err)
	}
}

func TestUnsealFromBufferTooSmall(t *testing.T) {
	buf := newAlignedBuffer(1, 8)
	out := allocator.NewBump(make([]byte, 64))
	_, err := sealedgraph.UnsealFromBuffer[linkNode](buf, out)
	if err == nil {
		t.Fatalf("expected an error for a buffer smaller than the root type")
	}
}

func TestSealIntoBufferExactRoundTrip(t *testing.T) {
	type small struct {
		A int32
	}
	root := &small{A: 7}
	buf := newAlignedBuffer(32, 8)
	used, err := sealedgraph.SealIntoBuffer(root, buf)
	if err != nil {
		t.Fatalf("SealIntoBuffer: %v", err)
	}

	out := allocator.NewBump(make([]byte, 32))
	result, err := sealedgraph.UnsealFromBuffer[small](buf[:used], out)
	if err != nil {
		t.Fatalf("UnsealFromBuffer: %v", err)
	}
	if result.A != 7 {
		t.Fatalf("result.A = %d, want 7", result.A)
	}
}
