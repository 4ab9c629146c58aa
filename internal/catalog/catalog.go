package catalog

import (
	"cmp"
	"slices"
	"strings"
)

// Catalog is the in-memory dataset. It is built once and never mutated, so
// it is safe for concurrent use. Query methods return fresh slices.
type Catalog struct {
	items []Technology
	raw   []byte
}

// New creates a catalog over items. The slice is copied.
func New(items []Technology) *Catalog {
	return &Catalog{items: slices.Clone(items)}
}

// Len returns the number of technologies.
func (c *Catalog) Len() int {
	return len(c.items)
}

// All returns every technology in dataset order.
func (c *Catalog) All() []Technology {
	return slices.Clone(c.items)
}

// Raw returns the dataset bytes the catalog was loaded from, if any.
func (c *Catalog) Raw() []byte {
	return c.raw
}

// Names returns every technology name in dataset order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.items))
	for i := range c.items {
		names[i] = c.items[i].Name
	}
	return names
}

// Lookup returns the first technology whose name equals name
// case-insensitively, after trimming surrounding whitespace.
func (c *Catalog) Lookup(name string) (*Technology, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false
	}
	for i := range c.items {
		if strings.EqualFold(c.items[i].Name, name) {
			t := c.items[i]
			return &t, true
		}
	}
	return nil, false
}

// SortedByName returns the catalog in alphabetical order.
func (c *Catalog) SortedByName() []Technology {
	return SortByName(c.items)
}

// Timeline returns the catalog ordered by year, oldest first.
func (c *Catalog) Timeline() []Technology {
	out := slices.Clone(c.items)
	slices.SortStableFunc(out, func(a, b Technology) int {
		return cmp.Compare(a.Year, b.Year)
	})
	return out
}

// ByLevel returns the technologies with the given level, sorted by name.
func (c *Catalog) ByLevel(level Level) []Technology {
	var out []Technology
	for _, t := range c.items {
		if t.Level == level {
			out = append(out, t)
		}
	}
	return SortByName(out)
}

// WithTag returns the technologies carrying tag, sorted by name.
func (c *Catalog) WithTag(tag string) []Technology {
	var out []Technology
	for i := range c.items {
		if c.items[i].HasTag(tag) {
			out = append(out, c.items[i])
		}
	}
	return SortByName(out)
}

// Tags returns every distinct tag in first-seen order.
func (c *Catalog) Tags() []string {
	seen := make(map[string]struct{})
	var tags []string
	for _, t := range c.items {
		for _, tag := range t.Tags {
			key := strings.ToLower(tag)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			tags = append(tags, tag)
		}
	}
	return tags
}

// SortByName returns a copy of records ordered alphabetically by name,
// case-insensitively. Equal names keep their relative order.
func SortByName(records []Technology) []Technology {
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b Technology) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return out
}

// GroupByLevel returns a copy of records ordered High, Intermediate, Low,
// then unrecognized levels. Order inside a group is preserved.
func GroupByLevel(records []Technology) []Technology {
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b Technology) int {
		return cmp.Compare(a.Level.Rank(), b.Level.Rank())
	})
	return out
}
