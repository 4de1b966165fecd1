package objmodel

import (
	"fmt"

	"github.com/joshuapare/gcmodel/heap/class"
	"github.com/joshuapare/gcmodel/internal/buf"
	"github.com/joshuapare/gcmodel/internal/format"
)

// IndexableObjectModel sizes contiguous arrays:
//
//	[header][n * elementSize bytes][pad to word]
//
// The identity hash of an array goes right after the last element, rounded
// to 4 bytes. When the element data leaves at least 4 bytes of padding in
// its last word the hash fits there and the object never grows; otherwise
// the hash offset equals the body size and a slot is appended on first move.
type IndexableObjectModel struct{}

// DataSizeInBytes returns the element storage of an n-element array of c,
// padded to a whole word.
func (IndexableObjectModel) DataSizeInBytes(c *class.Class, n uint32) uintptr {
	return format.AlignUp(uintptr(n)*c.ElementSize, format.PointerSize)
}

// CheckedDataSizeInBytes is DataSizeInBytes for the allocation path, which
// may see lengths that do not fit the address space.
func (m IndexableObjectModel) CheckedDataSizeInBytes(c *class.Class, n uint32) (uintptr, error) {
	raw, ok := buf.MulSize(uintptr(n), c.ElementSize)
	if ok {
		// header, word padding and a possible hash slot must fit as well
		_, ok = buf.AddSize(raw, format.HeaderSize+2*format.PointerSize)
	}
	if !ok {
		return 0, fmt.Errorf("%w: %d elements of %d bytes", ErrTooLarge, n, c.ElementSize)
	}
	return m.DataSizeInBytes(c, n), nil
}

// HashcodeOffset returns where the identity hash of an n-element array of c
// lives, measured from the start of the object.
func (IndexableObjectModel) HashcodeOffset(c *class.Class, n uint32) uintptr {
	return format.HeaderSize + format.AlignUp(uintptr(n)*c.ElementSize, format.HashcodeAlignment)
}

// SizeInBytes returns the unpadded size of an n-element array of c, without
// any appended hash slot.
func (m IndexableObjectModel) SizeInBytes(c *class.Class, n uint32) uintptr {
	return format.HeaderSize + m.DataSizeInBytes(c, n)
}

// CalculateObjectSizeAndHashcode returns the body size and hash offset of
// the array being relocated. The element count comes from the forwarded
// header's snapshot.
func (m IndexableObjectModel) CalculateObjectSizeAndHashcode(c *class.Class, fh *ForwardedHeader) (size, hashcodeOffset uintptr) {
	n := fh.PreservedElementCount()
	return m.SizeInBytes(c, n), m.HashcodeOffset(c, n)
}
