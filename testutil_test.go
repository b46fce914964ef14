package sealedgraph_test

import "unsafe"

func addrOfTestBuf(buf []byte) uintptr {
	if len(buf) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&buf[0]))
}

// newAlignedBuffer returns a buffer of exactly size bytes whose address
// is a multiple of align. make([]byte, n) on its own gives no alignment
// guarantee beyond what the runtime's size classes happen to produce,
// so tests that need a specific alignment (anything using
// SealIntoBuffer/UnsealFromBuffer with a struct stricter than 1-byte
// aligned) carve their buffer from a slightly larger backing slice.
func newAlignedBuffer(size int, align uintptr) []byte {
	raw := make([]byte, size+int(align))
	base := addrOfTestBuf(raw)
	pad := (align - base%align) % align
	return raw[pad : pad+uintptr(size)]
}
