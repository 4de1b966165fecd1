// Package alloc provides bump-pointer allocation of managed objects in a
// heap.Region.
//
// # Overview
//
// BumpAllocator is the allocator driver of the object model: it sizes a
// request with objmodel.ObjectModel.AllocationSize, claims that many bytes at
// the bump pointer and hands the memory to InitializeAllocation. It also
// hands out raw, aligned reservations, which the scavenger uses to claim
// destination space for copies.
//
// # Growth
//
// By default the allocator grows its region a page at a time when the bump
// pointer reaches the end. Growing remaps the region, which invalidates every
// slice into it; an allocator shared between goroutines that hold such
// slices (the scavenger's to-space) must be created with WithoutGrowth.
//
// # Usage Example
//
//	r, err := heap.New(64 << 10)
//	if err != nil {
//	    return err
//	}
//	model := objmodel.New(classes)
//	ba := alloc.NewBump(r, model)
//
//	req, err := objmodel.NewIndexableAllocation(byteArray, 128)
//	if err != nil {
//	    return err
//	}
//	ref, err := ba.Allocate(&req)
package alloc
