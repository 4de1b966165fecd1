package format

import "math/bits"

// Alignment utilities for heap objects. Object sizes and addresses are
// always padded to the heap's object alignment; the alignment unit itself is
// configurable but must be a power of two and at least one heap word.

// AlignPage returns n aligned up to the next 4KB boundary.
//
// Example:
//
//	AlignPage(1)    = 4096
//	AlignPage(4096) = 4096
//	AlignPage(4097) = 8192
func AlignPage(n uintptr) uintptr {
	return (n + PageAlignmentMask) &^ PageAlignmentMask
}

// AlignUp returns n rounded up to a multiple of unit. unit must be a power of
// two; see ValidAlignment.
func AlignUp(n, unit uintptr) uintptr {
	return (n + unit - 1) &^ (unit - 1)
}

// IsAligned reports whether n is a multiple of unit.
func IsAligned(n, unit uintptr) bool {
	return n&(unit-1) == 0
}

// ValidAlignment reports whether unit can serve as a heap alignment: a power
// of two no smaller than a heap word.
func ValidAlignment(unit uintptr) bool {
	return unit >= PointerSize && bits.OnesCount64(uint64(unit)) == 1
}
