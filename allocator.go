package sealedgraph

// Allocator is the minimal capability Compact and SealIntoBuffer need
// from whatever owns the destination bytes. Implementations live in
// package allocator; any bump/arena allocator satisfying this interface
// works, and SealIntoBuffer additionally requires bump semantics:
// requests are satisfied by monotonically advancing a cursor with the
// root landing at offset 0.
type Allocator interface {
	// Allocate returns size freshly-zeroed bytes aligned to align, or
	// ErrOutOfMemory if the request cannot be satisfied. The returned
	// slice's backing array must remain valid and unmoved for the
	// lifetime of the region; a bump allocator never reallocates.
	Allocate(size, align uintptr) ([]byte, error)

	// Duplicate copies src into a freshly-allocated, equally-aligned
	// region and returns the copy. Equivalent to Allocate followed by a
	// copy, broken out because some allocators (e.g. an mmap-backed one)
	// can do better than a generic copy for this common case.
	Duplicate(src []byte, align uintptr) ([]byte, error)

	// Base returns the address of byte 0 of the allocator's backing
	// store. SealIntoBuffer uses it as the region base for Seal.
	Base() uintptr
}
