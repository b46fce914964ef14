package sealedgraph

import (
	"reflect"

	"github.com/nsmryan/sealedgraph/internal/region"
	"github.com/nsmryan/sealedgraph/internal/typeinfo"
)

func init() {
	// Tell internal/typeinfo which package path Optional[T] lives in, so
	// it can recognise the structural convention without importing this
	// package (which would be a cycle). See internal/typeinfo.isOptional.
	typeinfo.RootPackagePath = reflect.TypeOf(Optional[int]{}).PkgPath()
}

// Schema returns the compiled structural description of P, building and
// caching it (along with every type transitively reachable from it) on
// first use. Subsequent calls for the same P find the cached schema with
// a sync.Map lookup and re-run only the alignment check over it; the
// reflection-based build is not repeated.
func Schema[P any]() (*typeinfo.Schema, error) {
	var zero P
	t := reflect.TypeOf(&zero).Elem()
	s, err := typeinfo.For(t)
	if err != nil {
		return nil, err
	}
	if err := checkAlignment(s); err != nil {
		return nil, err
	}
	return s, nil
}

// MustSchema is Schema, panicking on error. Intended for use from an
// init() (or from a sealedgen-generated file, see cmd/sealedgen) so an
// unsupported type is reported the moment the program starts, rather
// than deep inside whatever call first tries to Compact it.
func MustSchema[P any]() *typeinfo.Schema {
	s, err := Schema[P]()
	if err != nil {
		panic(err)
	}
	return s
}

// ContainsPointer reports whether P transitively contains a pointer or
// slice. Arrays/records/optionals of pointer-free leaves report false,
// and compact/seal/unseal skip descending into them.
func ContainsPointer[P any]() bool {
	s := MustSchema[P]()
	return s.ContainsPtr
}

// checkAlignment rejects any type whose strictest required alignment
// exceeds region.Bias: the smallest legal sealed offset is Bias itself,
// and that value would not satisfy a stricter alignment for every
// possible region base. Reject it at schema-build time, walking every
// type transitively reachable from the root, rather than let Seal
// silently produce misaligned offsets.
func checkAlignment(s *typeinfo.Schema) error {
	return checkAlignmentRec(s, make(map[*typeinfo.Schema]bool))
}

func checkAlignmentRec(s *typeinfo.Schema, seen map[*typeinfo.Schema]bool) error {
	if seen[s] {
		return nil
	}
	seen[s] = true

	if s.Align > region.Bias {
		return &typeinfo.UnsupportedTypeError{
			Type:   s.Type,
			Reason: "required alignment exceeds region.Bias; raise Bias to interoperate with this type",
		}
	}
	if s.Elem != nil {
		if err := checkAlignmentRec(s.Elem, seen); err != nil {
			return err
		}
	}
	for _, f := range s.Fields {
		if err := checkAlignmentRec(f.Schema, seen); err != nil {
			return err
		}
	}
	for _, f := range s.Variants {
		if err := checkAlignmentRec(f.Schema, seen); err != nil {
			return err
		}
	}
	return nil
}
