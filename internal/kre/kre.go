package kre

import (
	"sort"
	"strings"
)

// KRE is a continuation-tagged RE (§3): either an accepted clause (Done)
// or a regex to consume followed by a continuation (More).
type KRE interface {
	id() string
	// ID is the exported form of id, for use as a map/cache key by
	// packages outside kre (Component F's Reduce_op, Component G's ST).
	ID() string
}

// Done marks acceptance of clause Clause. Code/Partial/Unreachable are the
// action-dispatch metadata forwarded from the DSL clause (§6.2, §6.4):
// Code is the clause's action body text ("" for an Unreachable clause,
// which has none), and Partial/Unreachable are its declared kind. They are
// constant for a given Clause index, so they do not participate in
// structural identity.
type Done struct {
	Clause      int
	Code        string
	Partial     bool
	Unreachable bool
	hash        string
}

func NewDone(clause int, code string, partial, unreachable bool) *Done {
	d := &Done{Clause: clause, Code: code, Partial: partial, Unreachable: unreachable}
	d.hash = mustHash(struct {
		Kind   string
		Clause int
	}{"Done", clause})
	return d
}

func (d *Done) id() string { return d.hash }
func (d *Done) ID() string { return d.hash }

// More consumes Re, then continues as Next.
type More struct {
	Re   RE
	Next KRE
	hash string
}

func NewMore(re RE, next KRE) *More {
	m := &More{Re: re, Next: next}
	m.hash = mustHash(struct {
		Kind string
		Re   string
		Next string
	}{"More", re.id(), next.id()})
	return m
}

func (m *More) id() string { return m.hash }
func (m *More) ID() string { return m.hash }

// KRESet is an ordered set of KREs representing a union (§3). Membership
// is deduplicated by structural id; iteration order is insertion order,
// which is deterministic given a deterministic build order.
type KRESet struct {
	order []string
	byID  map[string]KRE
}

// NewKRESet returns an empty set.
func NewKRESet() KRESet {
	return KRESet{byID: map[string]KRE{}}
}

// Add inserts k if no structurally equal member is already present.
func (ks *KRESet) Add(k KRE) {
	if ks.byID == nil {
		ks.byID = map[string]KRE{}
	}
	id := k.id()
	if _, ok := ks.byID[id]; ok {
		return
	}
	ks.byID[id] = k
	ks.order = append(ks.order, id)
}

// Merge adds every member of o into ks.
func (ks *KRESet) Merge(o KRESet) {
	for _, k := range o.Values() {
		ks.Add(k)
	}
}

// Values returns the set's members in insertion order.
func (ks KRESet) Values() []KRE {
	out := make([]KRE, len(ks.order))
	for i, id := range ks.order {
		out[i] = ks.byID[id]
	}
	return out
}

func (ks KRESet) Len() int     { return len(ks.order) }
func (ks KRESet) Empty() bool  { return len(ks.order) == 0 }

// Key returns a canonical, order-independent signature, used as a cache key
// by Component F/G (Reduce_op's continuations table, the DFA's reduction
// cache) and for ST/KRESet comparison (§3: "Two STs compare by (direct,
// reduce) lexicographically").
func (ks KRESet) Key() string {
	ids := append([]string{}, ks.order...)
	sort.Strings(ids)
	return strings.Join(ids, "|")
}

func (ks KRESet) Equal(o KRESet) bool {
	return ks.Key() == o.Key()
}

// Union returns a new KRESet containing every member of every set.
func Union(sets ...KRESet) KRESet {
	out := NewKRESet()
	for _, s := range sets {
		out.Merge(s)
	}
	return out
}
