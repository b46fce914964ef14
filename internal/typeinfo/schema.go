// Package typeinfo builds, once per concrete Go type and then forever
// cached, the structural decision tree that compact/seal/unseal walk.
//
// The approach mirrors internal/gocore/dwarf.go in the teacher repo:
// readDWARFTypes there makes one *Type per DWARF type first, then fills
// in fields in a second pass once every node exists, so that recursive
// (self-referential) struct types terminate instead of looping forever.
// build does the same two-pass trick, substituting Go's own
// reflect.Type for DWARF as the source of structural truth.
package typeinfo

import (
	"fmt"
	"reflect"
	"sync"
)

// RootPackagePath is the import path of the package whose Optional[T]
// generic type typeinfo recognises structurally. Set once by the
// sealedgraph package's init so this package never has to import its
// parent (which would be a cycle).
var RootPackagePath string

// Schema is the compiled structural description of one Go type's
// participation in the walk.
type Schema struct {
	Type        reflect.Type
	Kind        Kind
	Size        uintptr
	Align       uintptr
	ContainsPtr bool

	IsString bool // Kind == KindSlice and Type.Kind() == reflect.String

	Elem     *Schema // KindPointer, KindSlice, KindArray, KindOptional
	ArrayLen int     // KindArray

	Fields []Field // KindRecord

	Tag      Field   // KindSum: the discriminant field (must be field 0)
	Variants []Field // KindSum: fields after Tag, selected positionally by Tag's value

	ValidOffset uintptr // KindOptional: offset of the Valid bool field
	ValueOffset uintptr // KindOptional: offset of the Value field
}

// Field is one named, offset-located member of a record or sum.
type Field struct {
	Name   string
	Index  int
	Offset uintptr
	Schema *Schema
}

// UnsupportedTypeError is returned when a type cannot be classified into
// any of the kinds this package knows how to traverse.
type UnsupportedTypeError struct {
	Type   reflect.Type
	Reason string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("sealedgraph: type %s is not supported: %s", e.Type, e.Reason)
}

var cache sync.Map // reflect.Type -> *Schema

// For returns the cached Schema for t, building and caching it (and
// every type transitively reachable from it) on first use.
func For(t reflect.Type) (*Schema, error) {
	if v, ok := cache.Load(t); ok {
		return v.(*Schema), nil
	}
	return build(t, make(map[reflect.Type]*Schema))
}

// build implements the two-pass allocate-then-fill strategy: the stub
// for t is registered in `building` before recursing into its fields,
// so a field that refers back to t (directly, or through a slice/
// pointer/optional) finds the in-progress stub and stops, instead of
// recursing forever.
func build(t reflect.Type, building map[reflect.Type]*Schema) (*Schema, error) {
	if s, ok := building[t]; ok {
		return s, nil
	}
	if v, ok := cache.Load(t); ok {
		return v.(*Schema), nil
	}

	s := &Schema{Type: t, Size: t.Size()}
	if t.Kind() != reflect.Invalid {
		s.Align = uintptr(t.Align())
	}
	building[t] = s

	if err := fill(s, t, building); err != nil {
		return nil, err
	}

	cache.Store(t, s)
	return s, nil
}

func fill(s *Schema, t reflect.Type, building map[reflect.Type]*Schema) error {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		s.Kind = KindScalar
		return nil

	case reflect.Ptr:
		if t.Elem().Size() == 0 {
			return &UnsupportedTypeError{t, "zero-sized pointee"}
		}
		elem, err := build(t.Elem(), building)
		if err != nil {
			return err
		}
		s.Kind = KindPointer
		s.Elem = elem
		s.ContainsPtr = true
		return nil

	case reflect.Slice:
		elem, err := build(t.Elem(), building)
		if err != nil {
			return err
		}
		s.Kind = KindSlice
		s.Elem = elem
		s.ContainsPtr = true
		return nil

	case reflect.String:
		s.Kind = KindSlice
		s.IsString = true
		s.Elem = &Schema{Type: reflect.TypeOf(byte(0)), Kind: KindScalar, Size: 1, Align: 1}
		s.ContainsPtr = true
		return nil

	case reflect.Array:
		if t.Len() == 0 || t.Elem().Size() == 0 {
			return &UnsupportedTypeError{t, "zero-length or zero-sized array"}
		}
		elem, err := build(t.Elem(), building)
		if err != nil {
			return err
		}
		s.Kind = KindArray
		s.Elem = elem
		s.ArrayLen = t.Len()
		s.ContainsPtr = elem.ContainsPtr
		return nil

	case reflect.Struct:
		return fillStruct(s, t, building)

	default:
		return &UnsupportedTypeError{t, "kind " + t.Kind().String() + " has no well-defined extent or is opaque"}
	}
}

func fillStruct(s *Schema, t reflect.Type, building map[reflect.Type]*Schema) error {
	if t.Size() == 0 {
		return &UnsupportedTypeError{t, "zero-sized struct"}
	}

	if isOptional(t) {
		validField, _ := t.FieldByName("Valid")
		valueField, _ := t.FieldByName("Value")
		elem, err := build(valueField.Type, building)
		if err != nil {
			return err
		}
		s.Kind = KindOptional
		s.Elem = elem
		s.ValidOffset = validField.Offset
		s.ValueOffset = valueField.Offset
		s.ContainsPtr = elem.ContainsPtr
		return nil
	}

	n := t.NumField()
	if n == 0 {
		return &UnsupportedTypeError{t, "struct has no fields"}
	}

	if isSumShape(t) {
		tagField := t.Field(0)
		variants := make([]Field, 0, n-1)
		containsPtr := false
		for i := 1; i < n; i++ {
			f := t.Field(i)
			fs, err := build(f.Type, building)
			if err != nil {
				return err
			}
			variants = append(variants, Field{Name: f.Name, Index: i, Offset: f.Offset, Schema: fs})
			containsPtr = containsPtr || fs.ContainsPtr
		}
		s.Kind = KindSum
		s.Tag = Field{Name: tagField.Name, Index: 0, Offset: tagField.Offset, Schema: &Schema{Type: tagField.Type, Kind: KindScalar, Size: tagField.Type.Size(), Align: uintptr(tagField.Type.Align())}}
		s.Variants = variants
		s.ContainsPtr = containsPtr
		return nil
	}

	fields := make([]Field, 0, n)
	containsPtr := false
	for i := 0; i < n; i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			return &UnsupportedTypeError{t, "unexported field " + f.Name}
		}
		fs, err := build(f.Type, building)
		if err != nil {
			return err
		}
		fields = append(fields, Field{Name: f.Name, Index: i, Offset: f.Offset, Schema: fs})
		containsPtr = containsPtr || fs.ContainsPtr
	}
	s.Kind = KindRecord
	s.Fields = fields
	s.ContainsPtr = containsPtr
	return nil
}

// isOptional detects the sealedgraph.Optional[T] structural shape
// without importing the defining package: package path match plus the
// exact two-field {Valid bool; Value T} layout.
func isOptional(t reflect.Type) bool {
	if RootPackagePath == "" || t.PkgPath() != RootPackagePath {
		return false
	}
	if !hasGenericPrefix(t.Name(), "Optional[") {
		return false
	}
	if t.NumField() != 2 {
		return false
	}
	valid, ok := t.FieldByName("Valid")
	if !ok || valid.Type.Kind() != reflect.Bool {
		return false
	}
	_, ok = t.FieldByName("Value")
	return ok
}

func hasGenericPrefix(name, prefix string) bool {
	return len(name) >= len(prefix) && name[:len(prefix)] == prefix
}

// isSumShape detects the tagged-union convention: first field literally
// named Tag, of integer-kind underlying type, with at least one variant
// field following it.
func isSumShape(t reflect.Type) bool {
	if t.NumField() < 2 {
		return false
	}
	f0 := t.Field(0)
	if f0.Name != "Tag" {
		return false
	}
	switch f0.Type.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	default:
		return false
	}
}

// ContainsPointer reports whether t transitively contains a pointer or
// slice.
func ContainsPointer(t reflect.Type) (bool, error) {
	s, err := For(t)
	if err != nil {
		return false, err
	}
	return s.ContainsPtr, nil
}
