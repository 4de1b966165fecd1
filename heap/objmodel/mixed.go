package objmodel

import (
	"github.com/joshuapare/gcmodel/heap/class"
	"github.com/joshuapare/gcmodel/internal/format"
)

// MixedObjectModel sizes fixed-shape objects. The size is fetched from the
// class by hand rather than from the object, since the object's class slot
// may hold a forwarding address.
type MixedObjectModel struct{}

// InstanceSize returns the header plus the class's instance fields.
func (MixedObjectModel) InstanceSize(c *class.Class) uintptr {
	return c.TotalInstanceSize + format.HeaderSize
}

// HashcodeOffset returns where the identity hash lives for objects of c.
func (MixedObjectModel) HashcodeOffset(c *class.Class) uintptr {
	return c.HashcodeOffset
}
