package objmodel

import (
	"github.com/joshuapare/gcmodel/internal/format"
)

// CopyDetails is what the scavenger needs to relocate one object.
type CopyDetails struct {
	// Indexable is true for array objects.
	Indexable bool

	// CopySize is the number of bytes physically present in the source
	// object, i.e. the length of the memory copy.
	CopySize uintptr

	// ReserveSize is the aligned number of bytes to claim at the
	// destination. It is at least CopySize and one word more when the
	// destination needs a fresh hash slot.
	ReserveSize uintptr

	// HashcodeOffset is where the identity hash lives in the object.
	HashcodeOffset uintptr

	// HashSlotAppended is true when the destination gets a hash word the
	// source does not have.
	HashSlotAppended bool

	// HotFieldAlignment is the class's hot-field alignment hint.
	HotFieldAlignment uintptr
}

// CalculateObjectDetailsForCopy sizes the object behind fh for relocation.
// Only the forwarded header's snapshot is consulted; the live header may
// already hold a forwarding address.
func (m *ObjectModel) CalculateObjectDetailsForCopy(fh *ForwardedHeader) CopyDetails {
	c := m.PreservedClass(fh)

	var (
		copySize       uintptr
		actualCopySize uintptr
		hashcodeOffset uintptr
		indexable      bool
		appended       bool
	)
	if c.Indexable {
		copySize, hashcodeOffset = m.Indexable.CalculateObjectSizeAndHashcode(c, fh)
		indexable = true
	} else {
		copySize = m.Mixed.InstanceSize(c)
		hashcodeOffset = m.Mixed.HashcodeOffset(c)
	}

	// A hashed object that has not moved yet hashes by its old address, so
	// the destination gets a new word to remember it. A moved object already
	// carries that word and copies it along.
	flags := fh.PreservedFlags()
	if HashcodeSlotNeeded(copySize, hashcodeOffset) {
		if flags.HasBeenMoved() {
			copySize += format.PointerSize
		} else if flags.HasBeenHashed() {
			actualCopySize += format.PointerSize
			appended = true
		}
	}
	actualCopySize += copySize

	return CopyDetails{
		Indexable:         indexable,
		CopySize:          copySize,
		ReserveSize:       m.AdjustSizeInBytes(actualCopySize),
		HashcodeOffset:    hashcodeOffset,
		HashSlotAppended:  appended,
		HotFieldAlignment: c.HotFieldDescription,
	}
}

// CopySizes is CalculateObjectDetailsForCopy reduced to the three values the
// scavenger's copy loop uses.
func (m *ObjectModel) CopySizes(fh *ForwardedHeader) (indexable bool, copySize, reserveSize uintptr) {
	d := m.CalculateObjectDetailsForCopy(fh)
	return d.Indexable, d.CopySize, d.ReserveSize
}

// CopySizesHot is CopySizes plus the class's hot-field alignment descriptor,
// for scavengers that place hot fields on cache-line boundaries.
func (m *ObjectModel) CopySizesHot(fh *ForwardedHeader) (indexable bool, copySize, reserveSize, hotFieldAlignment uintptr) {
	d := m.CalculateObjectDetailsForCopy(fh)
	return d.Indexable, d.CopySize, d.ReserveSize, d.HotFieldAlignment
}
