package class

import (
	"testing"

	"github.com/joshuapare/gcmodel/internal/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMixed_AppendedHashcodeOffset(t *testing.T) {
	c := Mixed(1, "Point", 24)
	require.NoError(t, c.Validate())
	assert.Equal(t, uintptr(format.HeaderSize+24), c.HashcodeOffset)
	assert.False(t, c.Indexable)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		class   *Class
		wantErr bool
	}{
		{"mixed appended", Mixed(1, "A", 16), false},
		{"mixed empty", Mixed(2, "Object", 0), false},
		{"mixed embedded", &Class{ID: 3, Name: "B", TotalInstanceSize: 16, HashcodeOffset: format.HeaderSize + 4}, false},
		{"offset inside header", &Class{ID: 4, Name: "C", TotalInstanceSize: 16, HashcodeOffset: 4}, true},
		{"offset past end", &Class{ID: 5, Name: "D", TotalInstanceSize: 16, HashcodeOffset: format.HeaderSize + 24}, true},
		{"field overruns", &Class{ID: 6, Name: "E", TotalInstanceSize: 16, HashcodeOffset: format.HeaderSize + 14}, true},
		{"byte array", Indexable(7, "[B", 1), false},
		{"long array", Indexable(8, "[J", 8), false},
		{"bad element", Indexable(9, "[?", 3), true},
		{"reserved id", Mixed(0, "Zero", 8), true},
		{"largest instance", Mixed(10, "Max", MaxInstanceSize), false},
		{"instance too large", Mixed(11, "Huge", MaxInstanceSize+8), true},
		{"instance wraps", Mixed(12, "Wrap", ^uintptr(0)-19), true},
		{"nil", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.class.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidShape)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestTable_RegisterLookup(t *testing.T) {
	tbl := NewTable().MustRegister(
		Mixed(10, "Point", 16),
		Indexable(11, "[I", 4),
	)
	assert.Equal(t, 2, tbl.Len())

	c, err := tbl.Lookup(11)
	require.NoError(t, err)
	assert.Equal(t, "[I", c.Name)

	c, err = tbl.ByName("Point")
	require.NoError(t, err)
	assert.Equal(t, ID(10), c.ID)

	_, err = tbl.Lookup(99)
	require.ErrorIs(t, err, ErrUnknownClass)
	_, err = tbl.ByName("Nope")
	require.ErrorIs(t, err, ErrUnknownClass)

	ids := []ID{}
	for _, c := range tbl.Classes() {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []ID{10, 11}, ids)
}

func TestTable_Duplicates(t *testing.T) {
	tbl := NewTable().MustRegister(Mixed(1, "A", 8))
	require.ErrorIs(t, tbl.Register(Mixed(1, "B", 8)), ErrDuplicateClass)
	require.ErrorIs(t, tbl.Register(Mixed(2, "A", 8)), ErrDuplicateClass)
	require.ErrorIs(t, tbl.Register(Indexable(3, "bad", 5)), ErrInvalidShape)

	assert.Panics(t, func() { tbl.MustRegister(Mixed(1, "C", 8)) })
}

func TestString(t *testing.T) {
	assert.Equal(t, "Point[1] (mixed, 24 bytes)", Mixed(1, "Point", 24).String())
	assert.Equal(t, "[B[2] (indexable, 1-byte elements)", Indexable(2, "[B", 1).String())
}
