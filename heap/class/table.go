package class

import (
	"fmt"
	"sort"
)

// Table is the class metadata provider. It is filled before a collection
// cycle and only read afterwards, so lookups take no locks.
type Table struct {
	byID   map[ID]*Class
	byName map[string]*Class
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{
		byID:   make(map[ID]*Class),
		byName: make(map[string]*Class),
	}
}

// Register validates c and adds it to the table.
func (t *Table) Register(c *Class) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if _, ok := t.byID[c.ID]; ok {
		return fmt.Errorf("%w: id %d", ErrDuplicateClass, c.ID)
	}
	if _, ok := t.byName[c.Name]; ok && c.Name != "" {
		return fmt.Errorf("%w: name %q", ErrDuplicateClass, c.Name)
	}
	t.byID[c.ID] = c
	if c.Name != "" {
		t.byName[c.Name] = c
	}
	return nil
}

// MustRegister is Register for fixtures; it panics on error.
func (t *Table) MustRegister(classes ...*Class) *Table {
	for _, c := range classes {
		if err := t.Register(c); err != nil {
			panic(err)
		}
	}
	return t
}

// Lookup returns the class with the given ID.
func (t *Table) Lookup(id ID) (*Class, error) {
	c, ok := t.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrUnknownClass, id)
	}
	return c, nil
}

// ByName returns the class registered under name.
func (t *Table) ByName(name string) (*Class, error) {
	c, ok := t.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClass, name)
	}
	return c, nil
}

// Len returns the number of registered classes.
func (t *Table) Len() int { return len(t.byID) }

// Classes returns the registered classes ordered by ID.
func (t *Table) Classes() []*Class {
	out := make([]*Class, 0, len(t.byID))
	for _, c := range t.byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
