package registry

import (
	"maps"
	"slices"
)

// Set is a set of artifact identifiers.
type Set map[string]struct{}

// NewSet returns a set holding ids.
func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts ids.
func (s Set) Add(ids ...string) {
	for _, id := range ids {
		s[id] = struct{}{}
	}
}

// Remove deletes ids.
func (s Set) Remove(ids ...string) {
	for _, id := range ids {
		delete(s, id)
	}
}

// Has reports whether id is in the set.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Union adds every member of other.
func (s Set) Union(other Set) {
	for id := range other {
		s[id] = struct{}{}
	}
}

// Clone returns an independent copy.
func (s Set) Clone() Set {
	return maps.Clone(s)
}

// Sorted returns the members in ascending order.
func (s Set) Sorted() []string {
	return slices.Sorted(maps.Keys(s))
}

// IsSuperset reports whether every member of other is in s.
func (s Set) IsSuperset(other Set) bool {
	for id := range other {
		if !s.Has(id) {
			return false
		}
	}
	return true
}
