package objmodel

import (
	"testing"

	"github.com/joshuapare/gcmodel/heap"
	"github.com/joshuapare/gcmodel/heap/class"
	"github.com/joshuapare/gcmodel/internal/format"
	"github.com/joshuapare/gcmodel/internal/testutil"
	"github.com/stretchr/testify/require"
)

// testObject is where fabricated objects are placed.
const testObject heap.ObjectRef = 0x100

func newTestModel(t testing.TB, opts ...Option) *ObjectModel {
	t.Helper()
	return New(testutil.Classes(), opts...)
}

// forwardedFor fabricates an object of class id with the given flags and
// element count and snapshots it.
func forwardedFor(t testing.TB, r *heap.Region, id class.ID, flags uint32, n uint32) ForwardedHeader {
	t.Helper()
	testutil.WriteHeader(t, r, testObject, format.Header{ClassID: id, Flags: flags, ElementCount: n})
	fh, err := NewForwardedHeader(r, testObject)
	require.NoError(t, err)
	return fh
}

func mustClass(t testing.TB, id class.ID) *class.Class {
	t.Helper()
	c, err := testutil.Classes().Lookup(id)
	require.NoError(t, err)
	return c
}
