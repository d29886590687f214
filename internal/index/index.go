package index

import (
	"cmp"
	"iter"
	"slices"
	"sort"

	"github.com/meigma/wad/internal/wadtype"
)

// Entry is the sort key of one lump.
type Entry struct {
	Name     wadtype.Name
	Priority int
	Role     wadtype.Role
	ID       int
}

// Compare orders entries by name ascending, then priority descending, then
// role descending, then ID descending so later directory entries win ties.
func Compare(a, b Entry) int {
	if c := cmp.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Priority, a.Priority); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Role, a.Role); c != 0 {
		return c
	}
	return cmp.Compare(b.ID, a.ID)
}

// Index is an immutable sorted view over directory entries.
//
// Entries sharing a name form a group; the first member of a group is the
// one that overrides all others.
type Index struct {
	entries []Entry
}

// Build returns an index over entries. The input slice is not retained.
func Build(entries []Entry) *Index {
	sorted := slices.Clone(entries)
	slices.SortFunc(sorted, Compare)
	return &Index{entries: sorted}
}

// Len returns the number of entries in the index.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.entries)
}

// Lookup returns the highest-priority entry named name.
func (idx *Index) Lookup(name wadtype.Name) (Entry, bool) {
	i, ok := idx.search(name)
	if !ok {
		return Entry{}, false
	}
	return idx.entries[i], true
}

// Group returns an iterator over every entry named name, highest priority first.
func (idx *Index) Group(name wadtype.Name) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		i, ok := idx.search(name)
		if !ok {
			return
		}
		for ; i < len(idx.entries) && idx.entries[i].Name == name; i++ {
			if !yield(idx.entries[i]) {
				return
			}
		}
	}
}

// First returns the first entry of the group named name that satisfies accept.
func (idx *Index) First(name wadtype.Name, accept func(Entry) bool) (Entry, bool) {
	for e := range idx.Group(name) {
		if accept(e) {
			return e, true
		}
	}
	return Entry{}, false
}

// All returns an iterator over all entries in sorted order.
func (idx *Index) All() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		if idx == nil {
			return
		}
		for _, e := range idx.entries {
			if !yield(e) {
				return
			}
		}
	}
}

// Names returns an iterator over the first member of every group.
func (idx *Index) Names() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		if idx == nil {
			return
		}
		for i, e := range idx.entries {
			if i > 0 && idx.entries[i-1].Name == e.Name {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

func (idx *Index) search(name wadtype.Name) (int, bool) {
	if idx == nil {
		return 0, false
	}
	n := len(idx.entries)
	i := sort.Search(n, func(i int) bool {
		return idx.entries[i].Name >= name
	})
	if i < n && idx.entries[i].Name == name {
		return i, true
	}
	return 0, false
}
