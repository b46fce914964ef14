//go:build linux || darwin

package allocator

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/nsmryan/sealedgraph"
)

// Mmap is a bump allocator backed by a single anonymous mmap'd region
// instead of a Go-heap []byte. What this buys over Bump: the memory is
// entirely invisible to the Go garbage collector, which sidesteps any
// concern about the compacted graph's internal pointers looking like
// live Go pointers to a GC scan (see the doc comment on
// sealedgraph.Compact). The mapping is anonymous and private, so it has
// no backing file and is not shared with other processes.
//
// Grounded on the teacher's only x/sys/unix call site
// (internal/gocore/gocore_test.go, which raises RLIMIT_CORE via
// unix.Getrlimit/Setrlimit to let tests produce a core dump); this is
// the same dependency used one layer closer to the metal, to create
// the memory a core-dump-like region would occupy instead of tuning a
// limit around one.
type Mmap struct {
	buf    []byte
	offset uintptr
}

// NewMmap allocates size bytes of anonymous, read-write memory and
// wraps it for bump allocation.
func NewMmap(size int) (*Mmap, error) {
	buf, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("allocator: mmap %d bytes: %w", size, err)
	}
	return &Mmap{buf: buf}, nil
}

// Close unmaps the region. The returned graph (and any region-relative
// offsets derived from it) must not be used afterward.
func (m *Mmap) Close() error {
	return unix.Munmap(m.buf)
}

// Sync flushes the region's current contents to the backing store; a
// no-op for anonymous memory, but present so callers that swap in a
// file-backed mapping later don't have to change call sites.
func (m *Mmap) Sync() error {
	return unix.Msync(m.buf, unix.MS_SYNC)
}

func (m *Mmap) Used() uintptr { return m.offset }
func (m *Mmap) Bytes() []byte { return m.buf }

func (m *Mmap) Allocate(size, align uintptr) ([]byte, error) {
	start := alignUp(m.offset, align)
	if size == 0 {
		m.offset = start
		return m.buf[start:start], nil
	}
	end := start + size
	if end > uintptr(len(m.buf)) {
		return nil, fmt.Errorf("allocator: need %d bytes at offset %d, only %d available: %w",
			size, start, uintptr(len(m.buf))-start, sealedgraph.ErrOutOfMemory)
	}
	m.offset = end
	region := m.buf[start:end]
	for i := range region {
		region[i] = 0
	}
	return region, nil
}

func (m *Mmap) Duplicate(src []byte, align uintptr) ([]byte, error) {
	dst, err := m.Allocate(uintptr(len(src)), align)
	if err != nil {
		return nil, err
	}
	copy(dst, src)
	return dst, nil
}

func (m *Mmap) Base() uintptr {
	if len(m.buf) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&m.buf[:cap(m.buf)][0]))
}
