package types

import (
	"sort"
)

// EntryKind classifies a directory entry after following symlinks
type EntryKind int

const (
	// KindOther covers devices, sockets, fifos and dangling symlinks
	KindOther EntryKind = iota
	// KindRegular is a regular file or a symlink to one
	KindRegular
	// KindDirectory is a directory or a symlink to one
	KindDirectory
	// KindNull is a symlink to /dev/null, used to mask a fragment
	KindNull
)

func (k EntryKind) String() string {
	switch k {
	case KindRegular:
		return "regular"
	case KindDirectory:
		return "directory"
	case KindNull:
		return "null"
	default:
		return "other"
	}
}

// Entry is one classified directory entry
type Entry struct {
	Name string
	Kind EntryKind
}

// Listing is the immutable, name-sorted content of one directory.
// The zero value is an empty listing.
type Listing struct {
	entries []Entry
	index   map[string]int
}

// NewListing builds a listing, sorting entries byte-wise by name
func NewListing(entries []Entry) Listing {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	index := make(map[string]int, len(sorted))
	for i, e := range sorted {
		index[e.Name] = i
	}
	return Listing{entries: sorted, index: index}
}

// Entries returns a copy of the sorted entries
func (l Listing) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Names returns the sorted entry names
func (l Listing) Names() []string {
	names := make([]string, len(l.entries))
	for i, e := range l.entries {
		names[i] = e.Name
	}
	return names
}

// Get returns the entry with the given name
func (l Listing) Get(name string) (Entry, bool) {
	i, ok := l.index[name]
	if !ok {
		return Entry{}, false
	}
	return l.entries[i], true
}

// Has reports whether the listing contains name
func (l Listing) Has(name string) bool {
	_, ok := l.index[name]
	return ok
}

// Len returns the number of entries
func (l Listing) Len() int {
	return len(l.entries)
}
