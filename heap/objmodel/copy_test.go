package objmodel

import (
	"sync"
	"testing"

	"github.com/joshuapare/gcmodel/internal/format"
	"github.com/joshuapare/gcmodel/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCopyDetails_HashSlotAccounting covers a 24-byte body whose hash offset
// is 24, in every hashed/moved state.
func TestCopyDetails_HashSlotAccounting(t *testing.T) {
	tests := []struct {
		name        string
		flags       uint32
		wantCopy    uintptr
		wantReserve uintptr
	}{
		{"never hashed never moved", 0, 24, 24},
		{"hashed not moved", format.FlagHashed, 24, 32},
		{"moved", format.FlagHashed | format.FlagMoved, 32, 32},
		{"moved without hashed bit", format.FlagMoved, 32, 32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t)
			r := testutil.NewRegion(t, format.PageSize)
			fh := forwardedFor(t, r, testutil.Body24ID, tt.flags, 0)

			d := m.CalculateObjectDetailsForCopy(&fh)
			assert.False(t, d.Indexable)
			assert.Equal(t, tt.wantCopy, d.CopySize, "copy size")
			assert.Equal(t, tt.wantReserve, d.ReserveSize, "reserve size")
			assert.Equal(t, uintptr(24), d.HashcodeOffset)
			assert.Equal(t, tt.flags == format.FlagHashed, d.HashSlotAppended)
		})
	}
}

func TestCopyDetails_AlignmentPolicy(t *testing.T) {
	a16, err := NewAlignment(16)
	require.NoError(t, err)
	m := newTestModel(t, WithAlignment(a16))
	r := testutil.NewRegion(t, format.PageSize)

	fh := forwardedFor(t, r, testutil.Body24ID, 0, 0)
	d := m.CalculateObjectDetailsForCopy(&fh)
	assert.Equal(t, uintptr(24), d.CopySize)
	assert.Equal(t, uintptr(32), d.ReserveSize)

	fh = forwardedFor(t, r, testutil.Body24ID, format.FlagHashed, 0)
	d = m.CalculateObjectDetailsForCopy(&fh)
	assert.Equal(t, uintptr(24), d.CopySize)
	assert.Equal(t, uintptr(32), d.ReserveSize)

	fh = forwardedFor(t, r, testutil.PointID, format.FlagHashed, 0)
	d = m.CalculateObjectDetailsForCopy(&fh)
	assert.Equal(t, uintptr(32), d.CopySize)
	assert.Equal(t, uintptr(48), d.ReserveSize)
}

func TestCopyDetails_EmbeddedHashcodeIgnoresFlags(t *testing.T) {
	m := newTestModel(t)
	r := testutil.NewRegion(t, format.PageSize)

	for _, flags := range []uint32{0, format.FlagHashed, format.FlagMoved, format.FlagHashed | format.FlagMoved} {
		fh := forwardedFor(t, r, testutil.StringID, flags, 0)
		d := m.CalculateObjectDetailsForCopy(&fh)
		assert.Equal(t, uintptr(32), d.CopySize, "flags %v", Flags(flags))
		assert.Equal(t, uintptr(32), d.ReserveSize, "flags %v", Flags(flags))
		assert.Equal(t, uintptr(20), d.HashcodeOffset)
	}
}

func TestCopyDetails_Arrays(t *testing.T) {
	tests := []struct {
		name        string
		id          uint32
		count       uint32
		flags       uint32
		wantCopy    uintptr
		wantReserve uintptr
	}{
		// 12 bytes of ints, hash fits in the last word's padding at 28.
		{"int[3] embedded, plain", testutil.IntArrayID, 3, 0, 32, 32},
		{"int[3] embedded, hashed", testutil.IntArrayID, 3, format.FlagHashed, 32, 32},
		{"int[3] embedded, moved", testutil.IntArrayID, 3, format.FlagHashed | format.FlagMoved, 32, 32},
		// 16 bytes of ints, hash offset 32 == body size.
		{"int[4] appended, plain", testutil.IntArrayID, 4, 0, 32, 32},
		{"int[4] appended, hashed", testutil.IntArrayID, 4, format.FlagHashed, 32, 40},
		{"int[4] appended, moved", testutil.IntArrayID, 4, format.FlagHashed | format.FlagMoved, 40, 40},
		{"byte[0] hashed", testutil.ByteArrayID, 0, format.FlagHashed, 16, 24},
		{"byte[3] hashed", testutil.ByteArrayID, 3, format.FlagHashed, 24, 24},
		{"byte[5] hashed", testutil.ByteArrayID, 5, format.FlagHashed, 24, 32},
		{"long[2] moved", testutil.LongArrayID, 2, format.FlagHashed | format.FlagMoved, 40, 40},
		{"char[1] hashed", testutil.CharArrayID, 1, format.FlagHashed, 24, 24},
		{"char[3] hashed", testutil.CharArrayID, 3, format.FlagHashed, 24, 32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t)
			r := testutil.NewRegion(t, format.PageSize)
			fh := forwardedFor(t, r, tt.id, tt.flags, tt.count)

			indexable, copySize, reserve := m.CopySizes(&fh)
			assert.True(t, indexable)
			assert.Equal(t, tt.wantCopy, copySize, "copy size")
			assert.Equal(t, tt.wantReserve, reserve, "reserve size")
		})
	}
}

func TestCopyDetails_ReadsSnapshotNotLiveHeader(t *testing.T) {
	m := newTestModel(t)
	r := testutil.NewRegion(t, format.PageSize)
	fh := forwardedFor(t, r, testutil.IntArrayID, format.FlagHashed, 4)

	before := m.CalculateObjectDetailsForCopy(&fh)
	require.NoError(t, fh.Forward(0x800))

	// Scribble over the rest of the live header as well.
	hdr, err := r.Header(testObject)
	require.NoError(t, err)
	format.PutU32(hdr, format.FlagsOffset, 0)
	format.PutU32(hdr, format.ElementCountOffset, 1000)

	after := m.CalculateObjectDetailsForCopy(&fh)
	assert.Equal(t, before, after)
}

func TestCopyDetails_Idempotent(t *testing.T) {
	m := newTestModel(t)
	r := testutil.NewRegion(t, format.PageSize)
	fh := forwardedFor(t, r, testutil.PointID, format.FlagHashed, 0)

	first := m.CalculateObjectDetailsForCopy(&fh)
	for n := 0; n < 5; n++ {
		assert.Equal(t, first, m.CalculateObjectDetailsForCopy(&fh))
	}
}

func TestCopySizesHot(t *testing.T) {
	m := newTestModel(t)
	r := testutil.NewRegion(t, format.PageSize)

	fh := forwardedFor(t, r, testutil.HotID, 0, 0)
	indexable, copySize, reserve, hot := m.CopySizesHot(&fh)
	assert.False(t, indexable)
	assert.Equal(t, uintptr(48), copySize)
	assert.Equal(t, uintptr(48), reserve)
	assert.Equal(t, uintptr(testutil.HotFieldHint), hot)

	// Same first three results as the short form.
	i2, c2, r2 := m.CopySizes(&fh)
	assert.Equal(t, []any{indexable, copySize, reserve}, []any{i2, c2, r2})
}

func TestCopyDetails_UnknownPreservedClassPanics(t *testing.T) {
	m := newTestModel(t)
	r := testutil.NewRegion(t, format.PageSize)
	fh := forwardedFor(t, r, testutil.UnknownClass, 0, 0)

	assert.PanicsWithValue(t,
		"objmodel: unreachable: preserved class of object 0x100: class: unknown class: id 999",
		func() { m.CalculateObjectDetailsForCopy(&fh) })
}

func TestCopyDetails_Concurrent(t *testing.T) {
	m := newTestModel(t)
	r := testutil.NewRegion(t, 4*format.PageSize)

	const objects = 64
	headers := make([]ForwardedHeader, objects)
	want := make([]CopyDetails, objects)
	for i := 0; i < objects; i++ {
		ref := uint64(0x40 + i*0x80)
		flags := uint32(i % 4)
		testutil.WriteHeader(t, r, ref, format.Header{ClassID: testutil.IntArrayID, Flags: flags, ElementCount: uint32(i)})
		fh, err := NewForwardedHeader(r, ref)
		require.NoError(t, err)
		headers[i] = fh
		want[i] = m.CalculateObjectDetailsForCopy(&headers[i])
	}

	var wg sync.WaitGroup
	got := make([][]CopyDetails, 8)
	for w := range got {
		w := w
		wg.Add(1)
		go func() {
			defer wg.Done()
			out := make([]CopyDetails, objects)
			for i := range headers {
				out[i] = m.CalculateObjectDetailsForCopy(&headers[i])
			}
			got[w] = out
		}()
	}
	wg.Wait()

	for w := range got {
		assert.Equal(t, want, got[w], "worker %d", w)
	}
}

func FuzzCopyDetailsInvariants(f *testing.F) {
	f.Add(uint8(0), uint32(0), uint8(0), uint8(3))
	f.Add(uint8(1), uint32(4), uint8(1), uint8(3))
	f.Add(uint8(7), uint32(100), uint8(3), uint8(4))
	f.Add(uint8(2), uint32(1), uint8(2), uint8(6))

	ids := []uint32{
		testutil.ObjectID, testutil.Body24ID, testutil.PointID, testutil.StringID, testutil.HotID,
		testutil.ByteArrayID, testutil.CharArrayID, testutil.IntArrayID, testutil.LongArrayID,
	}
	r := testutil.NewRegion(f, format.PageSize)

	f.Fuzz(func(t *testing.T, which uint8, n uint32, flags uint8, alignShift uint8) {
		unit := uintptr(1) << (3 + alignShift%4)
		a, err := NewAlignment(unit)
		require.NoError(t, err)
		m := newTestModel(t, WithAlignment(a))

		id := ids[int(which)%len(ids)]
		fh := forwardedFor(t, r, id, uint32(flags)&format.FlagMask, n%(1<<20))
		d := m.CalculateObjectDetailsForCopy(&fh)

		require.GreaterOrEqual(t, d.ReserveSize, d.CopySize)
		require.Zero(t, d.ReserveSize%unit, "reserve %d not aligned to %d", d.ReserveSize, unit)
		require.GreaterOrEqual(t, d.CopySize, uintptr(format.HeaderSize))
		require.Equal(t, d, m.CalculateObjectDetailsForCopy(&fh))
	})
}
