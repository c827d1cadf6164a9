package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrDuplicatePath is returned by New when two notes share a path.
var ErrDuplicatePath = errors.New("catalog: duplicate path")

// Catalog is the read-only note set shared by every view. It is safe for
// concurrent use because nothing mutates it after New returns.
type Catalog struct {
	notes  []Note
	byPath map[string]int
	groups []Group
}

// New builds a catalog, keeping the order of notes. Paths must be
// non-empty and unique.
func New(notes []Note) (*Catalog, error) {
	c := &Catalog{
		notes:  slices.Clone(notes),
		byPath: make(map[string]int, len(notes)),
	}

	grouped := make(map[string]int)
	for i, n := range c.notes {
		if n.Path == "" {
			return nil, errors.New("catalog: empty path")
		}
		if _, dup := c.byPath[n.Path]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePath, n.Path)
		}
		c.byPath[n.Path] = i

		gi, ok := grouped[n.Category]
		if !ok {
			gi = len(c.groups)
			grouped[n.Category] = gi
			c.groups = append(c.groups, Group{Category: n.Category})
		}
		c.groups[gi].Notes = append(c.groups[gi].Notes, n)
	}
	slices.SortStableFunc(c.groups, func(a, b Group) int {
		return strings.Compare(a.Category, b.Category)
	})
	return c, nil
}

// Len returns the number of notes.
func (c *Catalog) Len() int { return len(c.notes) }

// All returns every note in catalog order.
func (c *Catalog) All() []Note {
	return slices.Clone(c.notes)
}

// Lookup finds the note whose path equals p exactly.
func (c *Catalog) Lookup(p string) (Note, bool) {
	i, ok := c.byPath[p]
	if !ok {
		return Note{}, false
	}
	return c.notes[i], true
}

// Groups returns the notes grouped by category, ordered by category name.
func (c *Catalog) Groups() []Group {
	out := make([]Group, len(c.groups))
	for i, g := range c.groups {
		out[i] = Group{Category: g.Category, Notes: slices.Clone(g.Notes)}
	}
	return out
}

// Categories returns the category names in group order.
func (c *Catalog) Categories() []string {
	out := make([]string, len(c.groups))
	for i, g := range c.groups {
		out[i] = g.Category
	}
	return out
}
