// Package class is the read-only class metadata the object model consults
// when it sizes an object: fixed instance size, array-ness, element width,
// identity hashcode offset and the hot-field alignment hint.
package class

import (
	"fmt"

	"github.com/joshuapare/gcmodel/heap"
	"github.com/joshuapare/gcmodel/internal/format"
)

// ID identifies a class. It is what an object's header class slot stores.
type ID = uint32

// Class describes the shape of the objects of one class.
//
// For mixed (fixed-shape) classes TotalInstanceSize is the size of the
// instance fields, excluding the object header. For indexable classes it is
// ignored and the body is sized from ElementSize and the element count.
//
// HashcodeOffset is measured from the start of the object. When it equals
// HeaderSize+TotalInstanceSize the identity hash has no field of its own and
// an extra word is appended the first time a hashed object moves. A smaller
// offset names a field inside the instance that already holds the hash.
type Class struct {
	ID                  ID
	Name                string
	TotalInstanceSize   uintptr
	HashcodeOffset      uintptr
	Indexable           bool
	ElementSize         uintptr
	HotFieldDescription uintptr
}

// Mixed returns a fixed-shape class whose hash slot is appended after the
// instance fields.
func Mixed(id ID, name string, instanceSize uintptr) *Class {
	return &Class{
		ID:                id,
		Name:              name,
		TotalInstanceSize: instanceSize,
		HashcodeOffset:    format.HeaderSize + instanceSize,
	}
}

// Indexable returns an array class with elements of elementSize bytes.
func Indexable(id ID, name string, elementSize uintptr) *Class {
	return &Class{
		ID:          id,
		Name:        name,
		Indexable:   true,
		ElementSize: elementSize,
	}
}

// MaxInstanceSize bounds the fixed fields of a mixed class so that the
// object, an appended hash word and its padding fit in one region.
const MaxInstanceSize = heap.MaxRegionSize - format.HeaderSize - 2*format.PointerSize

// Validate checks that the class describes a shape the object model can lay
// out.
func (c *Class) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil class", ErrInvalidShape)
	}
	if c.ID == 0 {
		// A zero class slot marks unused heap words.
		return fmt.Errorf("%w: class %q: id 0 is reserved", ErrInvalidShape, c.Name)
	}
	if c.Indexable {
		switch c.ElementSize {
		case 1, 2, 4, 8:
		default:
			return fmt.Errorf("%w: class %d (%s): element size %d", ErrInvalidShape, c.ID, c.Name, c.ElementSize)
		}
		return nil
	}
	if c.TotalInstanceSize > MaxInstanceSize {
		return fmt.Errorf("%w: class %d (%s): instance size %d exceeds %d",
			ErrInvalidShape, c.ID, c.Name, c.TotalInstanceSize, MaxInstanceSize)
	}
	end := format.HeaderSize + c.TotalInstanceSize
	if c.HashcodeOffset < format.HeaderSize || c.HashcodeOffset > end {
		return fmt.Errorf("%w: class %d (%s): hashcode offset %d outside [%d, %d]",
			ErrInvalidShape, c.ID, c.Name, c.HashcodeOffset, format.HeaderSize, end)
	}
	if c.HashcodeOffset < end && c.HashcodeOffset+format.HashcodeSize > end {
		return fmt.Errorf("%w: class %d (%s): hashcode field at %d overruns instance",
			ErrInvalidShape, c.ID, c.Name, c.HashcodeOffset)
	}
	return nil
}

func (c *Class) String() string {
	if c.Indexable {
		return fmt.Sprintf("%s[%d] (indexable, %d-byte elements)", c.Name, c.ID, c.ElementSize)
	}
	return fmt.Sprintf("%s[%d] (mixed, %d bytes)", c.Name, c.ID, c.TotalInstanceSize)
}
