package model

import "sort"

// Collection is a template list kept sorted by id so lookups stay
// O(log n). All edits return a new slice; the backing array of the
// receiver is never mutated.
type Collection []Template

// NewCollection sorts ts by id and returns it as a Collection. The
// input slice is copied, not adopted.
func NewCollection(ts []Template) Collection {
	out := append([]Template(nil), ts...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// IndexByID binary-searches for id. Returns -1 when absent.
func (c Collection) IndexByID(id string) int {
	i := sort.Search(len(c), func(i int) bool { return c[i].ID >= id })
	if i < len(c) && c[i].ID == id {
		return i
	}
	return -1
}

// GetByID returns the template with the given id.
func (c Collection) GetByID(id string) (Template, bool) {
	if i := c.IndexByID(id); i >= 0 {
		return c[i], true
	}
	return Template{}, false
}

// Has reports whether id is present.
func (c Collection) Has(id string) bool { return c.IndexByID(id) >= 0 }

// Insert returns a new collection containing t at its sorted position.
// Inserting an id that already exists replaces the stored value.
func (c Collection) Insert(t Template) Collection {
	i := sort.Search(len(c), func(i int) bool { return c[i].ID >= t.ID })
	if i < len(c) && c[i].ID == t.ID {
		return c.Replace(t)
	}
	out := make(Collection, 0, len(c)+1)
	out = append(out, c[:i]...)
	out = append(out, t)
	out = append(out, c[i:]...)
	return out
}

// Replace returns a new collection with the template of t.ID swapped
// for t. Absent ids are a no-op returning the receiver.
func (c Collection) Replace(t Template) Collection {
	i := c.IndexByID(t.ID)
	if i < 0 {
		return c
	}
	out := append(Collection(nil), c...)
	out[i] = t
	return out
}

// RemoveByID returns a new collection without the given id. Absent ids
// are a no-op returning the receiver.
func (c Collection) RemoveByID(id string) Collection {
	i := c.IndexByID(id)
	if i < 0 {
		return c
	}
	out := make(Collection, 0, len(c)-1)
	out = append(out, c[:i]...)
	out = append(out, c[i+1:]...)
	return out
}

// Clone deep-copies every template in the collection.
func (c Collection) Clone() Collection {
	if c == nil {
		return nil
	}
	out := make(Collection, len(c))
	for i := range c {
		out[i] = c[i].Clone()
	}
	return out
}
