package objmodel

import (
	"fmt"

	"github.com/joshuapare/gcmodel/internal/format"
)

// AlignmentPolicy rounds an object's byte size up to what the heap must
// reserve for it.
type AlignmentPolicy interface {
	AdjustSizeInBytes(size uintptr) uintptr
	Unit() uintptr
}

// PowerOfTwoAlignment pads sizes to a power-of-two unit of at least one word.
type PowerOfTwoAlignment uintptr

// DefaultAlignment is the heap's default object alignment.
const DefaultAlignment = PowerOfTwoAlignment(format.ObjectAlignment)

// NewAlignment returns a PowerOfTwoAlignment for unit.
func NewAlignment(unit uintptr) (PowerOfTwoAlignment, error) {
	if !format.ValidAlignment(unit) {
		return 0, fmt.Errorf("objmodel: alignment %d: %w", unit, format.ErrBadAlignment)
	}
	return PowerOfTwoAlignment(unit), nil
}

// AdjustSizeInBytes implements AlignmentPolicy.
func (a PowerOfTwoAlignment) AdjustSizeInBytes(size uintptr) uintptr {
	return format.AlignUp(size, uintptr(a))
}

// Unit implements AlignmentPolicy.
func (a PowerOfTwoAlignment) Unit() uintptr { return uintptr(a) }
