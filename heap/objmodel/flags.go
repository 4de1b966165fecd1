package objmodel

import (
	"strings"

	"github.com/joshuapare/gcmodel/internal/format"
)

// Flags is the object flags word as preserved in a forwarded header.
type Flags uint32

// HasBeenHashed reports whether the identity hash has been observed.
func (f Flags) HasBeenHashed() bool { return uint32(f)&format.FlagHashed != 0 }

// HasBeenMoved reports whether the object already carries its hash slot from
// an earlier relocation.
func (f Flags) HasBeenMoved() bool { return uint32(f)&format.FlagMoved != 0 }

func (f Flags) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	if f.HasBeenHashed() {
		parts = append(parts, "hashed")
	}
	if f.HasBeenMoved() {
		parts = append(parts, "moved")
	}
	if rest := uint32(f) &^ format.FlagMask; rest != 0 {
		parts = append(parts, "unknown")
	}
	return strings.Join(parts, "|")
}
