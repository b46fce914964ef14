// Package region holds the low-level address arithmetic shared by seal
// and unseal: the BIAS constant, pointer<->uintptr conversions, and
// range validation against a caller-supplied byte region.
//
// This plays the role internal/core's Address type and range-checked
// reads play in the teacher repo, narrowed to the one thing this system
// needs: turning an absolute address into a region-relative, biased
// offset and back.
package region

import "fmt"

// Bias is the fixed positive constant added to every stored offset so
// that offset 0 is distinguishable from a null pointer, and so that the
// smallest legal sealed value still satisfies strict primitive
// alignment. Any two implementations that want to interoperate on the
// same sealed bytes must agree on this value.
const Bias = 8

// Range describes the caller-supplied byte region that seal/unseal
// operate against: [Base, Base+Size).
type Range struct {
	Base uintptr
	Size uintptr
}

// Contains reports whether the absolute address p lies within r.
func (r Range) Contains(p uintptr) bool {
	return p >= r.Base && p < r.Base+r.Size
}

// Seal converts an absolute pointer within r into a region-relative,
// biased offset. The caller must already have validated p via Contains.
func (r Range) Seal(p uintptr) uintptr {
	return (p - r.Base) + Bias
}

// Unseal converts a previously-sealed offset back into an absolute
// pointer at r.Base. The caller must already have validated the offset
// via ValidOffset.
func (r Range) Unseal(off uintptr) uintptr {
	return r.Base + (off - Bias)
}

// ValidOffset reports whether a sealed value off could have been
// produced by Seal against a region of size r.Size: Bias <= off and
// off-Bias < r.Size.
func (r Range) ValidOffset(off uintptr) bool {
	return off >= Bias && off-Bias < r.Size
}

func (r Range) String() string {
	return fmt.Sprintf("[0x%x, 0x%x)", r.Base, r.Base+r.Size)
}
