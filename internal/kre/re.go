// Package kre implements the pattern IR of the compilation pipeline
// (§3, §4.D, §4.E): RE, the regular-expression-over-stack-states dialect,
// and KRE/KRESet, its continuation-tagged form used by the derivative
// construction.
package kre

import "github.com/nihei9/lrgrep/internal/idset"
import "github.com/nihei9/lrgrep/internal/lr1"

// RE is one node of a pattern: Set, Alt, Seq, Star, or Reduce (§3).
type RE interface {
	id() string
	Pos() Pos
}

// Set matches any LR(1) state in States, optionally binding it to a named
// capture (§3, §9 open question: captures are carried through but not
// consumed by the DFA driver here).
type Set struct {
	States  *idset.Set[lr1.StateID]
	Capture string
	pos     Pos
	hash    string
}

// NewSet builds a Set atom. capture == "" means no binding.
func NewSet(states *idset.Set[lr1.StateID], capture string, pos Pos) *Set {
	s := &Set{States: states, Capture: capture, pos: pos}
	s.hash = mustHash(struct {
		Kind    string
		States  string
		Capture string
	}{"Set", states.Key(), capture})
	return s
}

func (s *Set) id() string { return s.hash }
func (s *Set) Pos() Pos   { return s.pos }

// Alt is an unordered choice among alternatives.
type Alt struct {
	Items []RE
	pos   Pos
	hash  string
}

func NewAlt(items []RE, pos Pos) *Alt {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.id()
	}
	a := &Alt{Items: items, pos: pos}
	a.hash = mustHash(struct {
		Kind  string
		Items []string
	}{"Alt", ids})
	return a
}

func (a *Alt) id() string { return a.hash }
func (a *Alt) Pos() Pos   { return a.pos }

// Seq is ordered concatenation.
type Seq struct {
	Items []RE
	pos   Pos
	hash  string
}

func NewSeq(items []RE, pos Pos) *Seq {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.id()
	}
	s := &Seq{Items: items, pos: pos}
	s.hash = mustHash(struct {
		Kind  string
		Items []string
	}{"Seq", ids})
	return s
}

func (s *Seq) id() string { return s.hash }
func (s *Seq) Pos() Pos   { return s.pos }

// Star is Kleene closure: zero or more repetitions of Sub.
type Star struct {
	Sub  RE
	pos  Pos
	hash string
}

func NewStar(sub RE, pos Pos) *Star {
	s := &Star{Sub: sub, pos: pos}
	s.hash = mustHash(struct {
		Kind string
		Sub  string
	}{"Star", sub.id()})
	return s
}

func (s *Star) id() string { return s.hash }
func (s *Star) Pos() Pos   { return s.pos }

// Reduce is the distinguished "!" marker: match any stack position reached
// by simulating zero or more reductions from here (§4.F).
type Reduce struct {
	pos  Pos
	hash string
}

func NewReduce(pos Pos) *Reduce {
	r := &Reduce{pos: pos}
	r.hash = mustHash(struct{ Kind string }{"Reduce"})
	return r
}

func (r *Reduce) id() string { return r.hash }
func (r *Reduce) Pos() Pos   { return r.pos }
