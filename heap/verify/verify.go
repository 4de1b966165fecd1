package verify

import (
	"fmt"

	"github.com/joshuapare/gcmodel/heap"
	"github.com/joshuapare/gcmodel/heap/class"
	"github.com/joshuapare/gcmodel/heap/objmodel"
	"github.com/joshuapare/gcmodel/internal/format"
)

// ValidationError describes a broken heap invariant.
type ValidationError struct {
	Type    string                 // check that failed, e.g. "Object"
	Message string                 // human-readable description
	Offset  int64                  // region offset of the object, -1 if none
	Details map[string]interface{} // additional context
}

func (e *ValidationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset 0x%X: %s", e.Type, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Object is what Walk passes to its callback for every object it visits.
type Object struct {
	Ref    heap.ObjectRef
	Class  *class.Class
	Header format.Header
	Size   uintptr // consumed bytes, alignment padding included
}

// Stats counts what a Region check walked over.
type Stats struct {
	Objects   int
	Indexable int
	Hashed    int
	Moved     int
	HashSlots int    // moved objects carrying an appended hash word
	Bytes     uint64 // bytes consumed by objects
	GapBytes  uint64 // zero words between objects
	ByClass   map[class.ID]int
}

// Walk visits every object in [base, top) of r in address order. Zero words
// between objects are skipped one alignment unit at a time. A forwarded or
// undecodable header stops the walk with a *ValidationError, as does a
// non-nil error from fn.
func Walk(model *objmodel.ObjectModel, r *heap.Region, base, top heap.ObjectRef, fn func(Object) error) error {
	unit := model.Alignment().Unit()
	if top > uint64(r.Len()) {
		return &ValidationError{
			Type:    "Extent",
			Message: fmt.Sprintf("walk end 0x%X beyond region of 0x%X bytes", top, r.Len()),
			Offset:  -1,
		}
	}
	data := r.Bytes()

	pos := base
	for pos < top {
		if !format.IsAligned(uintptr(pos), unit) {
			return &ValidationError{
				Type:    "Object",
				Message: fmt.Sprintf("object not %d-byte aligned", unit),
				Offset:  int64(pos),
			}
		}
		if pos+format.PointerSize > top {
			return &ValidationError{
				Type:    "Extent",
				Message: "trailing bytes shorter than a word",
				Offset:  int64(pos),
			}
		}

		slot := format.ReadU64(data, int(pos))
		if slot == 0 {
			pos += uint64(unit)
			continue
		}
		if format.IsForwardedSlot(slot) {
			return &ValidationError{
				Type:    "Object",
				Message: "header holds a forwarding address",
				Offset:  int64(pos),
				Details: map[string]interface{}{"slot": slot},
			}
		}

		c, h, err := model.Class(r, pos)
		if err != nil {
			return &ValidationError{
				Type:    "Object",
				Message: err.Error(),
				Offset:  int64(pos),
			}
		}
		flags := objmodel.Flags(h.Flags)
		if flags.HasBeenMoved() && !flags.HasBeenHashed() {
			return &ValidationError{
				Type:    "Object",
				Message: fmt.Sprintf("flags %s: moved without hashed", flags),
				Offset:  int64(pos),
			}
		}
		if !c.Indexable && h.ElementCount != 0 {
			return &ValidationError{
				Type:    "Object",
				Message: fmt.Sprintf("mixed object of class %d has element count %d", c.ID, h.ElementCount),
				Offset:  int64(pos),
			}
		}

		size, err := model.ConsumedSizeInBytes(r, pos)
		if err != nil {
			return &ValidationError{
				Type:    "Object",
				Message: err.Error(),
				Offset:  int64(pos),
			}
		}
		if pos+uint64(size) > top {
			return &ValidationError{
				Type:    "Extent",
				Message: fmt.Sprintf("object of %d bytes runs past 0x%X", size, top),
				Offset:  int64(pos),
				Details: map[string]interface{}{"class": c.ID, "size": size},
			}
		}

		if err := fn(Object{Ref: pos, Class: c, Header: h, Size: size}); err != nil {
			return err
		}
		pos += uint64(size)
	}
	return nil
}

// Region walks [base, top) of r and reports what it found. The first broken
// invariant is returned as a *ValidationError.
func Region(model *objmodel.ObjectModel, r *heap.Region, base, top heap.ObjectRef) (Stats, error) {
	stats := Stats{ByClass: make(map[class.ID]int)}
	var used uint64
	err := Walk(model, r, base, top, func(o Object) error {
		stats.Objects++
		stats.ByClass[o.Class.ID]++
		stats.Bytes += uint64(o.Size)
		used = o.Ref + uint64(o.Size)

		flags := objmodel.Flags(o.Header.Flags)
		if o.Class.Indexable {
			stats.Indexable++
		}
		if flags.HasBeenHashed() {
			stats.Hashed++
		}
		if flags.HasBeenMoved() {
			stats.Moved++
			if hashSlotAppended(model, o) {
				stats.HashSlots++
			}
		}
		return nil
	})
	if used > base {
		stats.GapBytes = used - base - stats.Bytes
	}
	return stats, err
}

// Forwarding checks that every ref in from has been forwarded to a live,
// walkable object inside to.
func Forwarding(model *objmodel.ObjectModel, from, to *heap.Region, refs []heap.ObjectRef) error {
	for _, ref := range refs {
		b, err := from.Header(ref)
		if err != nil {
			return &ValidationError{
				Type:    "Forwarding",
				Message: err.Error(),
				Offset:  int64(ref),
			}
		}
		dest, err := format.ForwardingAddress(format.ReadU64(b, format.ClassSlotOffset))
		if err != nil {
			return &ValidationError{
				Type:    "Forwarding",
				Message: "object was not forwarded",
				Offset:  int64(ref),
			}
		}
		if !to.Contains(dest) {
			return &ValidationError{
				Type:    "Forwarding",
				Message: fmt.Sprintf("forwarding address 0x%X outside to-space", dest),
				Offset:  int64(ref),
			}
		}
		if _, _, err := model.Class(to, dest); err != nil {
			return &ValidationError{
				Type:    "Forwarding",
				Message: fmt.Sprintf("copy at 0x%X: %v", dest, err),
				Offset:  int64(ref),
				Details: map[string]interface{}{"dest": dest},
			}
		}
	}
	return nil
}

func hashSlotAppended(model *objmodel.ObjectModel, o Object) bool {
	var body, offset uintptr
	if o.Class.Indexable {
		body = model.Indexable.SizeInBytes(o.Class, o.Header.ElementCount)
		offset = model.Indexable.HashcodeOffset(o.Class, o.Header.ElementCount)
	} else {
		body = model.Mixed.InstanceSize(o.Class)
		offset = model.Mixed.HashcodeOffset(o.Class)
	}
	return objmodel.HashcodeSlotNeeded(body, offset)
}
