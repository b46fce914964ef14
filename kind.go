package sealedgraph

import "github.com/nsmryan/sealedgraph/internal/typeinfo"

// Kind classifies how a Go type participates in the graph walk that
// backs Compact, Seal, and Unseal. It is produced once per type by
// introspection (see internal/typeinfo) and never varies at runtime for
// a given static type. Kind is a type alias so the single definition in
// internal/typeinfo stays authoritative; this file just re-exports it
// at the package a caller actually imports.
type Kind = typeinfo.Kind

const (
	KindScalar      = typeinfo.KindScalar
	KindPointer     = typeinfo.KindPointer
	KindSlice       = typeinfo.KindSlice
	KindArray       = typeinfo.KindArray
	KindRecord      = typeinfo.KindRecord
	KindSum         = typeinfo.KindSum
	KindOptional    = typeinfo.KindOptional
	KindUnsupported = typeinfo.KindUnsupported
)
