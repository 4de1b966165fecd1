// Package testutil holds fixtures shared by the heap packages' tests.
package testutil

import (
	"testing"

	"github.com/joshuapare/gcmodel/heap"
	"github.com/joshuapare/gcmodel/heap/class"
	"github.com/joshuapare/gcmodel/internal/format"
)

// Fixture class IDs registered by Classes.
const (
	ObjectID     class.ID = 1  // no fields
	Body24ID     class.ID = 2  // 24-byte body, hash slot appended at 24
	PointID      class.ID = 3  // 32-byte body, hash slot appended at 32
	StringID     class.ID = 4  // 32-byte body, hash stored in a field at 20
	HotID        class.ID = 5  // 48-byte body with a hot-field hint
	ByteArrayID  class.ID = 10 // [B
	CharArrayID  class.ID = 11 // [C
	IntArrayID   class.ID = 12 // [I
	LongArrayID  class.ID = 13 // [J
	UnknownClass class.ID = 999
)

// HotFieldHint is the hot-field descriptor of the HotID class.
const HotFieldHint = 0x2a

// Classes returns the fixture class table.
func Classes() *class.Table {
	return class.NewTable().MustRegister(
		class.Mixed(ObjectID, "java/lang/Object", 0),
		class.Mixed(Body24ID, "Body24", 24-format.HeaderSize),
		class.Mixed(PointID, "Point", 16),
		&class.Class{
			ID:                StringID,
			Name:              "java/lang/String",
			TotalInstanceSize: 16,
			HashcodeOffset:    20,
		},
		&class.Class{
			ID:                  HotID,
			Name:                "Hot",
			TotalInstanceSize:   32,
			HashcodeOffset:      format.HeaderSize + 32,
			HotFieldDescription: HotFieldHint,
		},
		class.Indexable(ByteArrayID, "[B", 1),
		class.Indexable(CharArrayID, "[C", 2),
		class.Indexable(IntArrayID, "[I", 4),
		class.Indexable(LongArrayID, "[J", 8),
	)
}

// NewRegion returns a region of at least size bytes that is closed when the
// test ends.
//
// Example:
//
//	r := testutil.NewRegion(t, 4096)
func NewRegion(t testing.TB, size int) *heap.Region {
	t.Helper()
	r, err := heap.New(size)
	if err != nil {
		t.Fatalf("heap.New(%d): %v", size, err)
	}
	t.Cleanup(func() {
		if err := r.Close(); err != nil {
			t.Errorf("close region: %v", err)
		}
	})
	return r
}

// WriteHeader stamps a raw header at ref, bypassing the object model. Tests
// use it to fabricate objects in states the allocator never produces.
func WriteHeader(t testing.TB, r *heap.Region, ref heap.ObjectRef, h format.Header) {
	t.Helper()
	b, err := r.Header(ref)
	if err != nil {
		t.Fatalf("header at 0x%x: %v", ref, err)
	}
	if err := format.EncodeHeader(b, h); err != nil {
		t.Fatalf("encode header at 0x%x: %v", ref, err)
	}
}
