package kre

import (
	"strconv"
	"strings"

	"github.com/nihei9/lrgrep/internal/idset"
	"github.com/nihei9/lrgrep/internal/lr1"
)

// direct is one raw (not yet partition-refined) symbol transition collected
// by prederive.
type direct struct {
	states *idset.Set[lr1.StateID]
	next   KRE
}

// prederiveAcc accumulates the three outputs of one prederive pass (§4.E):
// accepted clauses, raw direct transitions, and continuations that request
// a Reduce step.
type prederiveAcc struct {
	Reached []*Done
	Direct  []direct
	Reduce  []KRE
}

// prederive walks one KRE (§4.E). visited guards the Star one-or-more
// recursion against epsilon cycles: it is keyed by structural id and
// shared across every member of a KRESet being derived in one step, so a
// continuation already expanded this step is never expanded twice.
func prederive(k KRE, visited map[string]bool, acc *prederiveAcc) {
	switch v := k.(type) {
	case *Done:
		acc.Reached = append(acc.Reached, v)

	case *More:
		id := v.id()
		if visited[id] {
			return
		}
		visited[id] = true

		switch r := v.Re.(type) {
		case *Set:
			acc.Direct = append(acc.Direct, direct{states: r.States, next: v.Next})

		case *Alt:
			for _, sub := range r.Items {
				prederive(NewMore(sub, v.Next), visited, acc)
			}

		case *Star:
			// Skip: zero repetitions.
			prederive(v.Next, visited, acc)
			// One or more: re-derive the body followed by the
			// original More(Star(r), k') node, not just its tail.
			prederive(NewMore(r.Sub, k), visited, acc)

		case *Seq:
			cont := v.Next
			for i := len(r.Items) - 1; i >= 1; i-- {
				cont = NewMore(r.Items[i], cont)
			}
			if len(r.Items) == 0 {
				prederive(v.Next, visited, acc)
			} else {
				prederive(NewMore(r.Items[0], cont), visited, acc)
			}

		case *Reduce:
			acc.Reduce = append(acc.Reduce, v.Next)
			prederive(v.Next, visited, acc)
		}
	}
}

// Transition is one disjoint, labeled edge out of a derive_reduce step.
type Transition struct {
	Label *idset.Set[lr1.StateID]
	Next  KRESet
}

// DeriveReduceResult is the output of derive_reduce (§4.E): the
// partition-refined direct/accept transitions, plus the raw set of
// continuations that requested a Reduce step this round (left for the
// caller, the Reduce simulator of Component F, to handle).
type DeriveReduceResult struct {
	Transitions []Transition
	Reduce      []KRE
}

// DeriveReduce implements derive_reduce(T) for a KRESet T (§4.E): "call
// prederive on each member, reset reductions (they are handled by the
// caller), emit transitions (all_states, Done{i}) for every reached i and
// the raw direct transitions, then partition-refine."
func DeriveReduce(idx *lr1.Index, T KRESet) DeriveReduceResult {
	visited := map[string]bool{}
	acc := &prederiveAcc{}
	for _, k := range T.Values() {
		prederive(k, visited, acc)
	}

	all := idset.Of(idx.AllStates()...)
	raw := make([]direct, 0, len(acc.Direct)+len(acc.Reached))
	for _, d := range acc.Reached {
		raw = append(raw, direct{states: all, next: d})
	}
	raw = append(raw, acc.Direct...)

	return DeriveReduceResult{
		Transitions: refine(raw),
		Reduce:      acc.Reduce,
	}
}

// refine implements the partition-refinement step shared by §4.E and §4.G:
// given a list of (label-set, value) pairs whose label sets may overlap,
// produce disjoint, non-empty cells, each annotated with the merged set of
// values whose label covers that cell. Cells are keyed by membership
// signature: each state of the union is tested against every input set.
func refine(raw []direct) []Transition {
	universe := idset.New[lr1.StateID]()
	for _, r := range raw {
		universe.Union(r.states)
	}

	type cell struct {
		members []int
		states  []lr1.StateID
	}
	cells := map[string]*cell{}
	var order []string

	for _, s := range universe.Values() {
		var members []int
		for i, r := range raw {
			if r.states.Contains(s) {
				members = append(members, i)
			}
		}
		key := membershipKey(members)
		c, ok := cells[key]
		if !ok {
			c = &cell{members: members}
			cells[key] = c
			order = append(order, key)
		}
		c.states = append(c.states, s)
	}

	out := make([]Transition, 0, len(order))
	for _, key := range order {
		c := cells[key]
		next := NewKRESet()
		for _, i := range c.members {
			next.Add(raw[i].next)
		}
		out = append(out, Transition{Label: idset.Of(c.states...), Next: next})
	}
	return out
}

// membershipKey renders members (already ascending, since it is built by
// scanning raw in index order) as a canonical string key.
func membershipKey(members []int) string {
	parts := make([]string, len(members))
	for i, m := range members {
		parts[i] = strconv.Itoa(m)
	}
	return strings.Join(parts, ",")
}
