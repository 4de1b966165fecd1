package objmodel

import (
	"testing"

	"github.com/joshuapare/gcmodel/heap"
	"github.com/joshuapare/gcmodel/internal/format"
	"github.com/joshuapare/gcmodel/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityHashCode_MarksHashed(t *testing.T) {
	m := newTestModel(t)
	r := testutil.NewRegion(t, format.PageSize)
	testutil.WriteHeader(t, r, testObject, format.Header{ClassID: testutil.PointID})

	h1, err := m.IdentityHashCode(r, testObject)
	require.NoError(t, err)
	assert.Equal(t, HashFromAddress(testObject), h1)

	_, hdr, err := m.Class(r, testObject)
	require.NoError(t, err)
	assert.True(t, Flags(hdr.Flags).HasBeenHashed())
	assert.False(t, Flags(hdr.Flags).HasBeenMoved())

	h2, err := m.IdentityHashCode(r, testObject)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}

// TestFinishCopy_HashSurvivesMoves relocates a hashed object twice by hand
// and checks the hash and sizes at each step.
func TestFinishCopy_HashSurvivesMoves(t *testing.T) {
	for _, id := range []uint32{testutil.PointID, testutil.StringID, testutil.IntArrayID} {
		m := newTestModel(t)
		r := testutil.NewRegion(t, 2*format.PageSize)

		c := mustClass(t, id)
		var req AllocateInitialization
		var err error
		if c.Indexable {
			req, err = NewIndexableAllocation(c, 4)
		} else {
			req, err = NewMixedAllocation(c)
		}
		require.NoError(t, err)
		src, err := m.InitializeAllocation(r, testObject, &req)
		require.NoError(t, err)

		want, err := m.IdentityHashCode(r, src)
		require.NoError(t, err)

		// First move: hashed, not moved.
		first := relocate(t, m, r, src, 0x400)
		got, err := m.IdentityHashCode(r, first)
		require.NoError(t, err)
		assert.Equal(t, want, got, "class %s after first move", c.Name)
		firstSize, err := m.ConsumedSizeInBytes(r, first)
		require.NoError(t, err)

		// Second move: moved. first now holds a forwarding address.
		second := relocate(t, m, r, first, 0x800)
		got, err = m.IdentityHashCode(r, second)
		require.NoError(t, err)
		assert.Equal(t, want, got, "class %s after second move", c.Name)

		secondSize, err := m.ConsumedSizeInBytes(r, second)
		require.NoError(t, err)
		assert.Equal(t, firstSize, secondSize, "class %s settles after the first move", c.Name)
	}
}

func TestFinishCopy_UnhashedUntouched(t *testing.T) {
	m := newTestModel(t)
	r := testutil.NewRegion(t, 2*format.PageSize)
	testutil.WriteHeader(t, r, testObject, format.Header{ClassID: testutil.PointID})

	dest := relocate(t, m, r, testObject, 0x400)
	_, h, err := m.Class(r, dest)
	require.NoError(t, err)
	assert.Zero(t, h.Flags)
}

func relocate(t *testing.T, m *ObjectModel, r *heap.Region, src, dest heap.ObjectRef) heap.ObjectRef {
	t.Helper()
	fh, err := NewForwardedHeader(r, src)
	require.NoError(t, err)
	d := m.CalculateObjectDetailsForCopy(&fh)

	from, err := r.Slice(src, d.CopySize)
	require.NoError(t, err)
	to, err := r.Slice(dest, d.ReserveSize)
	require.NoError(t, err)
	copy(to, from)

	require.NoError(t, m.FinishCopy(&fh, d, r, dest))
	require.NoError(t, fh.Forward(dest))
	return dest
}

func TestHashFromAddress_Spreads(t *testing.T) {
	seen := make(map[uint32]bool)
	for ref := heap.ObjectRef(8); ref < 8*1024; ref += 8 {
		seen[HashFromAddress(ref)] = true
	}
	assert.Greater(t, len(seen), 1000, "address hashes should rarely collide")
}
