package shared

import (
	"slices"
)

// IDSet is a set of identifiers. Membership is unique by construction, so a
// relation stored as IDSet can never hold the same edge twice.
type IDSet[T ID] map[T]struct{}

// NewIDSet creates a set holding ids.
func NewIDSet[T ID](ids ...T) IDSet[T] {
	s := make(IDSet[T], len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts id and reports whether the set changed.
func (s IDSet[T]) Add(id T) bool {
	if _, ok := s[id]; ok {
		return false
	}
	s[id] = struct{}{}
	return true
}

// Remove deletes id and reports whether the set changed.
func (s IDSet[T]) Remove(id T) bool {
	if _, ok := s[id]; !ok {
		return false
	}
	delete(s, id)
	return true
}

// Has reports membership. Safe on a nil set.
func (s IDSet[T]) Has(id T) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of members.
func (s IDSet[T]) Len() int {
	return len(s)
}

// Sorted returns the members in ascending order. Never nil.
func (s IDSet[T]) Sorted() []T {
	out := make([]T, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Clone returns an independent copy.
func (s IDSet[T]) Clone() IDSet[T] {
	out := make(IDSet[T], len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Intersect returns the members present in both sets, iterating the smaller one.
func (s IDSet[T]) Intersect(other IDSet[T]) IDSet[T] {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	out := make(IDSet[T])
	for id := range small {
		if large.Has(id) {
			out[id] = struct{}{}
		}
	}
	return out
}
