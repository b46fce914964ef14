package allocator

import "unsafe"

// bufBase returns the address of byte 0 of buf's backing array, even
// when buf has zero length but nonzero capacity (the common case for a
// freshly-made bump region before anything has been allocated from it).
func bufBase(buf []byte) uintptr {
	full := buf[:cap(buf)]
	if len(full) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&full[0]))
}
