package objmodel

import (
	"fmt"

	"github.com/joshuapare/gcmodel/heap"
	"github.com/joshuapare/gcmodel/heap/class"
	"github.com/joshuapare/gcmodel/internal/format"
)

// Category is the kind of object an allocation request asks for.
type Category uint8

const (
	// CategoryMixed is a fixed-shape (scalar) object.
	CategoryMixed Category = iota + 1
	// CategoryIndexable is a variable-length array object.
	CategoryIndexable
)

func (c Category) String() string {
	switch c {
	case CategoryMixed:
		return "mixed"
	case CategoryIndexable:
		return "indexable"
	default:
		return fmt.Sprintf("Category(%d)", uint8(c))
	}
}

// AllocateInitialization is an allocation request: a category plus the data
// that category needs. Build one with NewMixedAllocation or
// NewIndexableAllocation.
type AllocateInitialization struct {
	category     Category
	class        *class.Class
	elementCount uint32
}

// NewMixedAllocation requests a fixed-shape object of class c.
func NewMixedAllocation(c *class.Class) (AllocateInitialization, error) {
	if c == nil || c.Indexable {
		return AllocateInitialization{}, fmt.Errorf("%w: mixed allocation of %v", ErrWrongCategory, c)
	}
	return AllocateInitialization{category: CategoryMixed, class: c}, nil
}

// NewIndexableAllocation requests an n-element array of class c.
func NewIndexableAllocation(c *class.Class, n uint32) (AllocateInitialization, error) {
	if c == nil || !c.Indexable {
		return AllocateInitialization{}, fmt.Errorf("%w: indexable allocation of %v", ErrWrongCategory, c)
	}
	return AllocateInitialization{category: CategoryIndexable, class: c, elementCount: n}, nil
}

// Category returns the requested category.
func (a *AllocateInitialization) Category() Category { return a.category }

// Class returns the requested class.
func (a *AllocateInitialization) Class() *class.Class { return a.class }

// ElementCount returns the requested array length; zero for mixed requests.
func (a *AllocateInitialization) ElementCount() uint32 { return a.elementCount }

// AllocationSize returns the bytes the allocator must reserve for req. It is
// the reserve size a never-hashed, never-moved copy of the new object would
// get.
func (m *ObjectModel) AllocationSize(req *AllocateInitialization) (uintptr, error) {
	switch req.category {
	case CategoryMixed:
		if req.class.TotalInstanceSize > class.MaxInstanceSize {
			return 0, fmt.Errorf("%w: instance of %d bytes", ErrTooLarge, req.class.TotalInstanceSize)
		}
		return m.AdjustSizeInBytes(m.Mixed.InstanceSize(req.class)), nil
	case CategoryIndexable:
		data, err := m.Indexable.CheckedDataSizeInBytes(req.class, req.elementCount)
		if err != nil {
			return 0, err
		}
		return m.AdjustSizeInBytes(format.HeaderSize + data), nil
	default:
		unreachable("allocation size for %v", req.category)
		return 0, nil
	}
}

// InitializeAllocation turns the reserved bytes at ref into an object as
// described by req and returns its address. The memory must be at least
// AllocationSize(req) long. An unknown category panics.
func (m *ObjectModel) InitializeAllocation(r *heap.Region, ref heap.ObjectRef, req *AllocateInitialization) (heap.ObjectRef, error) {
	switch req.category {
	case CategoryMixed:
		return m.initializeMixedObject(r, ref, req)
	case CategoryIndexable:
		return m.initializeIndexableObject(r, ref, req)
	default:
		unreachable("initialize allocation of %v", req.category)
		return format.NilRef, nil
	}
}

func (m *ObjectModel) initializeMixedObject(r *heap.Region, ref heap.ObjectRef, req *AllocateInitialization) (heap.ObjectRef, error) {
	size := m.Mixed.InstanceSize(req.class)
	mem, err := r.Slice(ref, size)
	if err != nil {
		return format.NilRef, fmt.Errorf("%w: %d bytes at 0x%x: %w", ErrShortMemory, size, ref, err)
	}
	clear(mem)
	if err := format.EncodeHeader(mem, format.Header{ClassID: req.class.ID}); err != nil {
		return format.NilRef, err
	}
	return ref, nil
}

func (m *ObjectModel) initializeIndexableObject(r *heap.Region, ref heap.ObjectRef, req *AllocateInitialization) (heap.ObjectRef, error) {
	size := m.Indexable.SizeInBytes(req.class, req.elementCount)
	mem, err := r.Slice(ref, size)
	if err != nil {
		return format.NilRef, fmt.Errorf("%w: %d bytes at 0x%x: %w", ErrShortMemory, size, ref, err)
	}
	clear(mem)
	h := format.Header{ClassID: req.class.ID, ElementCount: req.elementCount}
	if err := format.EncodeHeader(mem, h); err != nil {
		return format.NilRef, err
	}
	return ref, nil
}
