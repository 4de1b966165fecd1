package alloc

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/joshuapare/gcmodel/heap"
	"github.com/joshuapare/gcmodel/heap/objmodel"
	"github.com/joshuapare/gcmodel/internal/format"
	"github.com/joshuapare/gcmodel/internal/logger"
)

// BumpAllocator is an append-only allocator. It keeps no free lists: objects
// die in bulk when the whole region is released after a scavenge.
//
// Key characteristics:
//   - O(1) allocation: pure bump pointer, aligned to the model's policy
//   - The first object starts one alignment unit in, so no object sits at
//     the nil offset
//   - Growth appends whole pages to the region
//   - Safe for concurrent use; callers sharing slices into the region must
//     disable growth
type BumpAllocator struct {
	r     *heap.Region
	model *objmodel.ObjectModel
	log   *slog.Logger

	mu   sync.Mutex
	base uintptr
	// top is the region offset where the next object will be placed.
	top  uintptr
	grow bool
}

// Option configures a BumpAllocator.
type Option func(*BumpAllocator)

// WithoutGrowth makes the allocator fail with ErrNoSpace instead of growing
// its region.
func WithoutGrowth() Option {
	return func(ba *BumpAllocator) { ba.grow = false }
}

// WithLogger sets the logger used for growth events.
func WithLogger(l *slog.Logger) Option {
	return func(ba *BumpAllocator) { ba.log = l }
}

// NewBump creates a BumpAllocator that places objects in r as sized by
// model.
func NewBump(r *heap.Region, model *objmodel.ObjectModel, opts ...Option) *BumpAllocator {
	ba := &BumpAllocator{
		r:     r,
		model: model,
		log:   logger.L,
		grow:  true,
	}
	for _, opt := range opts {
		opt(ba)
	}
	ba.base = model.Alignment().Unit()
	ba.top = ba.base
	return ba
}

// Allocate sizes req, claims the memory and initializes the object.
func (ba *BumpAllocator) Allocate(req *objmodel.AllocateInitialization) (heap.ObjectRef, error) {
	need, err := ba.model.AllocationSize(req)
	if err != nil {
		return format.NilRef, err
	}
	ref, err := ba.Reserve(need)
	if err != nil {
		return format.NilRef, err
	}
	return ba.model.InitializeAllocation(ba.r, ref, req)
}

// Reserve claims need bytes, padded to the object alignment.
func (ba *BumpAllocator) Reserve(need uintptr) (heap.ObjectRef, error) {
	return ba.ReserveAligned(need, 0)
}

// ReserveAligned is Reserve with the start of the range additionally aligned
// to boundary, a power of two. The skipped bytes stay zero. A boundary at or
// below the object alignment adds nothing.
func (ba *BumpAllocator) ReserveAligned(need, boundary uintptr) (heap.ObjectRef, error) {
	if need < format.MinObjectSize {
		return format.NilRef, ErrNeedSmall
	}
	if boundary != 0 && !format.ValidAlignment(boundary) {
		return format.NilRef, fmt.Errorf("alloc: boundary %d: %w", boundary, format.ErrBadAlignment)
	}
	need = ba.model.AdjustSizeInBytes(need)

	ba.mu.Lock()
	defer ba.mu.Unlock()

	start := ba.top
	if boundary > ba.model.Alignment().Unit() {
		start = format.AlignUp(start, boundary)
	}
	for start+need > uintptr(ba.r.Len()) {
		if !ba.grow {
			return format.NilRef, fmt.Errorf("%w: need %d bytes at 0x%x, region is %d bytes",
				ErrNoSpace, need, start, ba.r.Len())
		}
		if err := ba.growLocked(start + need); err != nil {
			return format.NilRef, err
		}
	}

	ba.top = start + need
	return heap.ObjectRef(start), nil
}

// growLocked appends enough pages for the region to reach end bytes.
func (ba *BumpAllocator) growLocked(end uintptr) error {
	short := end - uintptr(ba.r.Len())
	pages := format.AlignPage(short)
	if err := ba.r.Append(int(pages)); err != nil {
		return fmt.Errorf("%w: %w", ErrGrowFail, err)
	}
	ba.log.Debug("grew allocation region",
		slog.Uint64("added", uint64(pages)),
		slog.Int("size", ba.r.Len()))
	return nil
}

// Used returns the number of bytes claimed so far.
func (ba *BumpAllocator) Used() uintptr {
	ba.mu.Lock()
	defer ba.mu.Unlock()
	return ba.top - ba.base
}

// Top returns the offset where the next object will be placed. Objects live
// in [Base, Top).
func (ba *BumpAllocator) Top() heap.ObjectRef {
	ba.mu.Lock()
	defer ba.mu.Unlock()
	return heap.ObjectRef(ba.top)
}

// Base returns the offset of the first object.
func (ba *BumpAllocator) Base() heap.ObjectRef { return heap.ObjectRef(ba.base) }

// Reset forgets every allocation and zeroes the region so it can be reused.
func (ba *BumpAllocator) Reset() error {
	ba.mu.Lock()
	defer ba.mu.Unlock()
	if err := ba.r.Release(); err != nil {
		return err
	}
	ba.top = ba.base
	return nil
}

// Region returns the region the allocator places objects in.
func (ba *BumpAllocator) Region() *heap.Region { return ba.r }

// Compile-time interface check
var _ Allocator = (*BumpAllocator)(nil)
