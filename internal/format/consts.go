// Package format houses the low-level layout of managed objects in the heap:
// the object header, the forwarding encoding written over it during a
// scavenge, and the alignment rules. Higher-level packages build the object
// model on top of these codecs and never touch raw offsets directly.
package format

// Object header layout (little-endian):
//
//	Offset  Size  Description
//	0x00    8     Class slot. A class ID, or a forwarding address with
//	              ForwardedTag set while the object is being relocated.
//	0x08    4     Flags word (FlagHashed, FlagMoved).
//	0x0C    4     Element count. Indexable objects only, zero otherwise.
//	0x10    ...   Instance data (fixed fields or array elements).
const (
	ClassSlotOffset    = 0x00
	FlagsOffset        = 0x08
	ElementCountOffset = 0x0C

	// HeaderSize is the size of every object header in bytes.
	HeaderSize = 0x10

	// PointerSize is the size of a heap word. The identity hashcode slot
	// appended to a relocated object is one word.
	PointerSize = 8

	// HashcodeSize is the number of bytes the identity hash value occupies
	// inside its slot.
	HashcodeSize = 4

	// HashcodeAlignment is the alignment of the hash value inside an
	// indexable object's trailing padding.
	HashcodeAlignment = 4
)

// Flags word bits.
const (
	// FlagHashed is set once the identity hashcode of the object has been
	// observed. Until the object moves the hash is derived from its address.
	FlagHashed uint32 = 1 << 0

	// FlagMoved is set on the destination copy of a hashed object. From then
	// on the hash lives in the object itself.
	FlagMoved uint32 = 1 << 1

	// FlagMask covers every flag bit the object model understands.
	FlagMask = FlagHashed | FlagMoved
)

const (
	// ForwardedTag marks a class slot that holds a forwarding address. Class
	// IDs are stored shifted left by one and object addresses are word
	// aligned, so the low bit is free.
	ForwardedTag uint64 = 1

	// ObjectAlignment is the default heap object alignment.
	ObjectAlignment = 8

	// MinObjectSize is the smallest object the heap can hold: a bare header.
	MinObjectSize = HeaderSize

	// PageSize is the growth unit of heap regions.
	PageSize = 0x1000

	// PageAlignmentMask is the bitmask used for aligning to PageSize.
	PageAlignmentMask = PageSize - 1

	// NilRef is the reserved offset that never holds an object.
	NilRef = 0
)
