package objmodel

import (
	"fmt"

	"github.com/joshuapare/gcmodel/heap"
	"github.com/joshuapare/gcmodel/heap/class"
	"github.com/joshuapare/gcmodel/internal/format"
)

// ForwardedHeader is the view of an object during its relocation window. It
// snapshots the class slot, flags and element count when it is built, so
// reads keep working after Forward has replaced the live class slot with a
// forwarding address.
type ForwardedHeader struct {
	region *heap.Region
	object heap.ObjectRef

	preservedSlot  uint64
	preservedFlags Flags
	preservedCount uint32
}

// NewForwardedHeader snapshots the header of the object at ref. The caller
// must own the object (see the scavenger's claim) before calling it.
func NewForwardedHeader(r *heap.Region, ref heap.ObjectRef) (ForwardedHeader, error) {
	b, err := r.Header(ref)
	if err != nil {
		return ForwardedHeader{}, err
	}
	slot := format.ReadU64(b, format.ClassSlotOffset)
	if format.IsForwardedSlot(slot) {
		return ForwardedHeader{}, fmt.Errorf("%w: 0x%x", ErrAlreadyForwarded, ref)
	}
	return ForwardedHeader{
		region:         r,
		object:         ref,
		preservedSlot:  slot,
		preservedFlags: Flags(format.ReadU32(b, format.FlagsOffset)),
		preservedCount: format.ReadU32(b, format.ElementCountOffset),
	}, nil
}

// Object returns the address of the object being relocated.
func (fh *ForwardedHeader) Object() heap.ObjectRef { return fh.object }

// Region returns the region the object is being relocated out of.
func (fh *ForwardedHeader) Region() *heap.Region { return fh.region }

// PreservedClassID returns the class ID the header held before forwarding.
func (fh *ForwardedHeader) PreservedClassID() class.ID {
	return format.ClassIDFromSlot(fh.preservedSlot)
}

// PreservedFlags returns the flags word the header held before forwarding.
func (fh *ForwardedHeader) PreservedFlags() Flags { return fh.preservedFlags }

// PreservedElementCount returns the array length the header held before
// forwarding. It is zero for mixed objects.
func (fh *ForwardedHeader) PreservedElementCount() uint32 { return fh.preservedCount }

// IsForwarded reports whether the live class slot now holds a forwarding
// address.
func (fh *ForwardedHeader) IsForwarded() bool {
	b, err := fh.region.Header(fh.object)
	if err != nil {
		return false
	}
	return format.IsForwardedSlot(format.ReadU64(b, format.ClassSlotOffset))
}

// ForwardedObject returns the forwarding address installed by Forward.
func (fh *ForwardedHeader) ForwardedObject() (heap.ObjectRef, bool) {
	b, err := fh.region.Header(fh.object)
	if err != nil {
		return format.NilRef, false
	}
	addr, err := format.ForwardingAddress(format.ReadU64(b, format.ClassSlotOffset))
	if err != nil {
		return format.NilRef, false
	}
	return addr, true
}

// Forward overwrites the live class slot with dest. The preserved fields are
// unaffected.
func (fh *ForwardedHeader) Forward(dest heap.ObjectRef) error {
	slot, err := format.ForwardingSlot(dest)
	if err != nil {
		return err
	}
	b, err := fh.region.Header(fh.object)
	if err != nil {
		return err
	}
	format.PutU64(b, format.ClassSlotOffset, slot)
	return nil
}
