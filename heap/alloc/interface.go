package alloc

import (
	"github.com/joshuapare/gcmodel/heap"
	"github.com/joshuapare/gcmodel/heap/objmodel"
)

// Allocator defines the interface for claiming object memory in a region.
//
// Implementations:
//   - BumpAllocator: append-only bump pointer, optionally growing its region
type Allocator interface {
	// Allocate sizes, claims and initializes an object for req.
	Allocate(req *objmodel.AllocateInitialization) (heap.ObjectRef, error)

	// Reserve claims need bytes, padded to the object alignment, and returns
	// the start of the claimed range. The memory is zero.
	Reserve(need uintptr) (heap.ObjectRef, error)

	// Used returns the number of bytes claimed so far.
	Used() uintptr
}
