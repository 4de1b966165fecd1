package objmodel

import (
	"fmt"

	"github.com/joshuapare/gcmodel/heap"
	"github.com/joshuapare/gcmodel/heap/class"
	"github.com/joshuapare/gcmodel/internal/format"
)

// ClassProvider resolves class IDs stored in object headers. *class.Table
// implements it.
type ClassProvider interface {
	Lookup(id class.ID) (*class.Class, error)
}

// ObjectModel answers the sizing questions of the allocator and the
// scavenger. It is immutable after New and safe for concurrent use.
type ObjectModel struct {
	classes ClassProvider
	align   AlignmentPolicy

	Mixed     MixedObjectModel
	Indexable IndexableObjectModel
}

// Option configures an ObjectModel.
type Option func(*ObjectModel)

// WithAlignment overrides the heap's object alignment policy.
func WithAlignment(a AlignmentPolicy) Option {
	return func(m *ObjectModel) { m.align = a }
}

// New returns an object model over classes using DefaultAlignment unless an
// option says otherwise.
func New(classes ClassProvider, opts ...Option) *ObjectModel {
	m := &ObjectModel{
		classes: classes,
		align:   DefaultAlignment,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Alignment returns the alignment policy in use.
func (m *ObjectModel) Alignment() AlignmentPolicy { return m.align }

// AdjustSizeInBytes pads size according to the alignment policy.
func (m *ObjectModel) AdjustSizeInBytes(size uintptr) uintptr {
	return m.align.AdjustSizeInBytes(size)
}

// Class returns the class of a live (not forwarded) object.
func (m *ObjectModel) Class(r *heap.Region, ref heap.ObjectRef) (*class.Class, format.Header, error) {
	b, err := r.Header(ref)
	if err != nil {
		return nil, format.Header{}, err
	}
	h, err := format.ParseHeader(b)
	if err != nil {
		return nil, format.Header{}, fmt.Errorf("object 0x%x: %w", ref, err)
	}
	c, err := m.classes.Lookup(h.ClassID)
	if err != nil {
		return nil, format.Header{}, fmt.Errorf("object 0x%x: %w", ref, err)
	}
	return c, h, nil
}

// PreservedClass returns the class recorded in a forwarded header. A class
// that cannot be resolved means the heap is corrupt and the process panics.
func (m *ObjectModel) PreservedClass(fh *ForwardedHeader) *class.Class {
	c, err := m.classes.Lookup(fh.PreservedClassID())
	if err != nil {
		unreachable("preserved class of object 0x%x: %v", fh.Object(), err)
	}
	return c
}

// HashcodeSlotNeeded reports whether an object of the given body size must
// carry a separate identity hash word, which is the case exactly when the
// hash offset lands at the end of the body.
func HashcodeSlotNeeded(bodySize, hashcodeOffset uintptr) bool {
	return hashcodeOffset == bodySize
}

// ConsumedSizeInBytes returns the space a live object occupies now: its body,
// the hash word if an earlier move appended one, and alignment padding.
func (m *ObjectModel) ConsumedSizeInBytes(r *heap.Region, ref heap.ObjectRef) (uintptr, error) {
	c, h, err := m.Class(r, ref)
	if err != nil {
		return 0, err
	}
	size, hashcodeOffset := m.bodySizeAndHashcodeOffset(c, h.ElementCount)
	if HashcodeSlotNeeded(size, hashcodeOffset) && Flags(h.Flags).HasBeenMoved() {
		size += format.PointerSize
	}
	return m.AdjustSizeInBytes(size), nil
}

func (m *ObjectModel) bodySizeAndHashcodeOffset(c *class.Class, n uint32) (uintptr, uintptr) {
	if c.Indexable {
		return m.Indexable.SizeInBytes(c, n), m.Indexable.HashcodeOffset(c, n)
	}
	return m.Mixed.InstanceSize(c), m.Mixed.HashcodeOffset(c)
}

// unreachable reports a violated caller contract. Continuing would corrupt
// the heap, so it never returns.
func unreachable(msg string, args ...any) {
	panic(fmt.Sprintf("objmodel: unreachable: "+msg, args...))
}
