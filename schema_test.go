package sealedgraph_test

import (
	"testing"

	"github.com/nsmryan/sealedgraph"
)

func TestContainsPointerTrueAndFalse(t *testing.T) {
	if sealedgraph.ContainsPointer[linkNode]() == false {
		t.Fatalf("linkNode contains a pointer field and should report true")
	}

	type leaf struct {
		A int32
		B uint8
	}
	if sealedgraph.ContainsPointer[leaf]() {
		t.Fatalf("leaf has no pointer/slice fields and should report false")
	}
}

func TestMustSchemaPanicsOnUnsupportedType(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("MustSchema should have panicked on a map field")
		}
	}()
	type hasMap struct {
		M map[string]int
	}
	sealedgraph.MustSchema[hasMap]()
}

func TestSchemaReportsSizeAndKind(t *testing.T) {
	s, err := sealedgraph.Schema[linkNode]()
	if err != nil {
		t.Fatalf("Schema: %v", err)
	}
	if s.Kind != sealedgraph.KindRecord {
		t.Fatalf("Kind = %v, want KindRecord", s.Kind)
	}
}
