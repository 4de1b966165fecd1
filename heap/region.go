package heap

import (
	"fmt"

	"github.com/joshuapare/gcmodel/internal/buf"
	"github.com/joshuapare/gcmodel/internal/format"
)

// MaxRegionSize caps a single region at 4GB so element counts and offsets fit
// the header's 32-bit fields.
const MaxRegionSize = 1 << 32

// ObjectRef is the byte offset of an object header within a Region.
type ObjectRef = uint64

// Region is a growable heap region, backed by an anonymous mapping (unix) or
// a byte slice (others).
type Region struct {
	data   []byte
	mapped bool
}

// New creates a zeroed region of at least size bytes. The size is rounded up
// to whole pages.
func New(size int) (*Region, error) {
	if size <= 0 {
		size = format.PageSize
	}
	n := format.AlignPage(uintptr(size))
	if n > MaxRegionSize {
		return nil, fmt.Errorf("heap: new region of %d bytes: %w", n, ErrTooLarge)
	}
	data, mapped, err := mapRegion(int(n))
	if err != nil {
		return nil, fmt.Errorf("heap: map %d bytes: %w", n, err)
	}
	return &Region{data: data, mapped: mapped}, nil
}

// Bytes returns the backing memory. The slice is invalidated by Append.
func (r *Region) Bytes() []byte { return r.data }

// Len returns the region size in bytes.
func (r *Region) Len() int { return len(r.data) }

// Append grows the region by n bytes, rounded up to whole pages. The new bytes
// are zero. Existing ObjectRefs remain valid; previously returned slices do not.
func (r *Region) Append(n int) error {
	if r == nil || r.data == nil {
		return ErrClosed
	}
	if n <= 0 {
		return nil
	}
	newSize := uintptr(len(r.data)) + format.AlignPage(uintptr(n))
	if newSize > MaxRegionSize {
		return fmt.Errorf("heap: grow to %d bytes: %w", newSize, ErrTooLarge)
	}
	data, mapped, err := mapRegion(int(newSize))
	if err != nil {
		return fmt.Errorf("heap: grow to %d bytes: %w", newSize, err)
	}
	copy(data, r.data)
	if r.mapped {
		if err := unmapRegion(r.data); err != nil {
			_ = unmapRegion(data)
			return fmt.Errorf("heap: unmap before grow: %w", err)
		}
	}
	r.data = data
	r.mapped = mapped
	return nil
}

// Close releases the backing memory. Closing twice is a no-op.
func (r *Region) Close() error {
	if r == nil || r.data == nil {
		return nil
	}
	var err error
	if r.mapped {
		err = unmapRegion(r.data)
	}
	r.data = nil
	r.mapped = false
	return err
}

// Slice returns the n bytes starting at ref.
func (r *Region) Slice(ref ObjectRef, n uintptr) ([]byte, error) {
	if r.data == nil {
		return nil, ErrClosed
	}
	if ref == format.NilRef || ref > uint64(len(r.data)) {
		return nil, fmt.Errorf("%w: 0x%x", ErrBadRef, ref)
	}
	b, ok := buf.Slice(r.data, int(ref), int(n))
	if !ok {
		return nil, fmt.Errorf("%w: 0x%x+%d beyond region of %d bytes", ErrBadRef, ref, n, len(r.data))
	}
	return b, nil
}

// Header returns the header bytes of the object at ref.
func (r *Region) Header(ref ObjectRef) ([]byte, error) {
	return r.Slice(ref, format.HeaderSize)
}

// Contains reports whether ref lies inside the region.
func (r *Region) Contains(ref ObjectRef) bool {
	return ref != format.NilRef && ref < uint64(len(r.data))
}
