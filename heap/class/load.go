package class

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/joshuapare/gcmodel/internal/format"
)

// tableFile is the on-disk shape of a class table:
//
//	classes:
//	  - id: 1
//	    name: java/lang/Object
//	    instanceSize: 0
//	  - id: 2
//	    name: "[B"
//	    indexable: true
//	    elementSize: 1
type tableFile struct {
	Classes []yamlClass `yaml:"classes"`
}

// yamlClass lets a file omit hashcodeOffset for mixed classes; the appended
// slot offset is the default.
type yamlClass struct {
	ID             ID       `yaml:"id"`
	Name           string   `yaml:"name"`
	InstanceSize   uintptr  `yaml:"instanceSize"`
	HashcodeOffset *uintptr `yaml:"hashcodeOffset"`
	Indexable      bool     `yaml:"indexable"`
	ElementSize    uintptr  `yaml:"elementSize"`
	HotFields      uintptr  `yaml:"hotFields"`
}

// LoadYAML reads a class table from r.
func LoadYAML(r io.Reader) (*Table, error) {
	var f tableFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("class: decode table: %w", err)
	}
	t := NewTable()
	for i := range f.Classes {
		yc := f.Classes[i]
		c := Class{
			ID:                  yc.ID,
			Name:                yc.Name,
			TotalInstanceSize:   yc.InstanceSize,
			Indexable:           yc.Indexable,
			ElementSize:         yc.ElementSize,
			HotFieldDescription: yc.HotFields,
		}
		switch {
		case yc.HashcodeOffset != nil:
			c.HashcodeOffset = *yc.HashcodeOffset
		case !c.Indexable:
			c.HashcodeOffset = format.HeaderSize + c.TotalInstanceSize
		}
		if err := t.Register(&c); err != nil {
			return nil, fmt.Errorf("class: entry %d: %w", i, err)
		}
	}
	return t, nil
}

// LoadFile reads a class table from the YAML file at path.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadYAML(f)
}
