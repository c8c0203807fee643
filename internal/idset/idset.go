// Package idset provides a small generic ordered-set wrapper around
// gods/sets/treeset, grounded on npillmayer/gorgo's lr/tables.go use of
// treeset for its LR(0) state sets. It backs every bitset-like collection
// in §3's index universes (abstract-frame States/GotoNT, DFA transition
// labels, partition-refinement cells) with deterministic iteration order.
package idset

import (
	"sort"

	"github.com/emirpasic/gods/sets/treeset"
)

// Set is an ordered set over any integer-like ID type.
type Set[T ~int] struct {
	t *treeset.Set
}

func comparator(a, b interface{}) int {
	x, y := a.(int), b.(int)
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

// New returns an empty set.
func New[T ~int]() *Set[T] {
	return &Set[T]{t: treeset.NewWith(comparator)}
}

// Of returns a set containing the given ids.
func Of[T ~int](ids ...T) *Set[T] {
	s := New[T]()
	s.Add(ids...)
	return s
}

func (s *Set[T]) Add(ids ...T) {
	for _, id := range ids {
		s.t.Add(int(id))
	}
}

func (s *Set[T]) Contains(id T) bool {
	return s.t.Contains(int(id))
}

func (s *Set[T]) Size() int {
	return s.t.Size()
}

func (s *Set[T]) Empty() bool {
	return s.t.Empty()
}

// Values returns the set's members in ascending order.
func (s *Set[T]) Values() []T {
	vs := s.t.Values()
	out := make([]T, len(vs))
	for i, v := range vs {
		out[i] = T(v.(int))
	}
	return out
}

// Union adds every member of o to s.
func (s *Set[T]) Union(o *Set[T]) {
	s.Add(o.Values()...)
}

// Intersects reports whether s and o share any member.
func (s *Set[T]) Intersects(o *Set[T]) bool {
	if s.Size() > o.Size() {
		s, o = o, s
	}
	for _, v := range s.Values() {
		if o.Contains(v) {
			return true
		}
	}
	return false
}

// Clone returns an independent copy of s.
func (s *Set[T]) Clone() *Set[T] {
	c := New[T]()
	c.Union(s)
	return c
}

// Equal reports whether s and o have the same members.
func (s *Set[T]) Equal(o *Set[T]) bool {
	return s.Key() == o.Key()
}

// Key returns a canonical, order-independent string signature for the
// set's membership, suitable as a map key for partition-refinement cells
// (§9 design notes: "a linear-time algorithm keyed by membership
// signatures over input sets").
func (s *Set[T]) Key() string {
	vs := s.Values()
	sort.Slice(vs, func(i, j int) bool { return vs[i] < vs[j] })
	b := make([]byte, 0, len(vs)*4)
	for _, v := range vs {
		x := int(v)
		b = append(b, byte(x), byte(x>>8), byte(x>>16), byte(x>>24), ',')
	}
	return string(b)
}
