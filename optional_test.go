package sealedgraph

import "testing"

func TestSomeIsValid(t *testing.T) {
	o := Some(42)
	if !o.Valid || o.Value != 42 {
		t.Fatalf("Some(42) = %+v", o)
	}
}

func TestNoneIsZeroValue(t *testing.T) {
	o := None[int]()
	if o.Valid {
		t.Fatalf("None() should not be Valid: %+v", o)
	}
	if o != (Optional[int]{}) {
		t.Fatalf("None() != the zero value: %+v", o)
	}
}
