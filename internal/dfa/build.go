package dfa

import (
	"strconv"
	"strings"

	"github.com/nihei9/lrgrep/internal/idset"
	"github.com/nihei9/lrgrep/internal/kre"
	"github.com/nihei9/lrgrep/internal/lr1"
	"github.com/nihei9/lrgrep/internal/redop"
)

// Transition is one disjoint, labeled edge of the DFA.
type Transition struct {
	Label *idset.Set[lr1.StateID]
	To    int
}

// DFA is the worklist-constructed automaton of §4.G: states are indices
// into States/Accept/Transitions, all grown monotonically during Build
// (§3: "no entry is ever removed"). Accept[i] is already priority-ordered
// (AcceptClauses): Accept[i][0], if present, is the winning clause.
type DFA struct {
	States      []ST
	Accept      [][]*kre.Done
	Transitions [][]Transition
}

type builder struct {
	idx *lr1.Index
	op  *redop.ReduceOp

	dfa            *DFA
	indexOf        map[string]int
	reductionCache map[string][]rawTrans
}

// Build runs the worklist construction of §4.G starting from
// {direct: entry, reduce: ∅}.
func Build(idx *lr1.Index, op *redop.ReduceOp, entry kre.KRESet) *DFA {
	b := &builder{
		idx:            idx,
		op:             op,
		dfa:            &DFA{},
		indexOf:        map[string]int{},
		reductionCache: map[string][]rawTrans{},
	}

	b.addState(ST{Direct: entry, Reduce: NewRedSet()})
	for i := 0; i < len(b.dfa.States); i++ {
		b.deriveState(i)
	}
	return b.dfa
}

func (b *builder) addState(st ST) int {
	key := st.Key()
	if i, ok := b.indexOf[key]; ok {
		return i
	}
	i := len(b.dfa.States)
	b.indexOf[key] = i
	b.dfa.States = append(b.dfa.States, st)
	b.dfa.Accept = append(b.dfa.Accept, nil)
	b.dfa.Transitions = append(b.dfa.Transitions, nil)
	return i
}

// rawTrans is a (label, ST) pair before the states it targets have been
// assigned DFA indices.
type rawTrans struct {
	label *idset.Set[lr1.StateID]
	st    ST
}

func liftDirect(ts []kre.Transition) []rawTrans {
	out := make([]rawTrans, len(ts))
	for i, t := range ts {
		out[i] = rawTrans{label: t.Label, st: ST{Direct: t.Next, Reduce: NewRedSet()}}
	}
	return out
}

func liftInitial(direct []redop.LabeledKRESet, reducible []redop.LabeledRed) []rawTrans {
	out := make([]rawTrans, 0, len(direct)+len(reducible))
	for _, d := range direct {
		out = append(out, rawTrans{label: d.Label, st: ST{Direct: d.Next, Reduce: NewRedSet()}})
	}
	for _, r := range reducible {
		rs := NewRedSet()
		rs.Add(r.Red)
		out = append(out, rawTrans{label: r.Label, st: ST{Direct: kre.NewKRESet(), Reduce: rs}})
	}
	return out
}

// deriveState implements derive(st) (§4.G): prederive over st.Direct,
// a cached lookup for newly requested reductions, re-deriving every
// already-running Red, then partition-refining everything collected.
func (b *builder) deriveState(i int) {
	st := b.dfa.States[i]
	b.dfa.Accept[i] = AcceptClauses(st)

	res := kre.DeriveReduce(b.idx, st.Direct)

	var raw []rawTrans
	raw = append(raw, liftDirect(res.Transitions)...)

	if len(res.Reduce) > 0 {
		reqSet := kre.NewKRESet()
		for _, k := range res.Reduce {
			reqSet.Add(k)
		}
		key := reqSet.Key()
		cached, ok := b.reductionCache[key]
		if !ok {
			direct2, reducible2 := b.op.Initial(reqSet)
			cached = liftInitial(direct2, reducible2)
			b.reductionCache[key] = cached
		}
		raw = append(raw, cached...)
	}

	for _, r := range st.Reduce.Values() {
		direct3, reducible3 := b.op.Derive(r)
		raw = append(raw, liftInitial(direct3, reducible3)...)
	}

	cells := refineST(raw)
	targets := make([]Transition, 0, len(cells))
	for _, c := range cells {
		targets = append(targets, Transition{Label: c.label, To: b.addState(c.st)})
	}
	b.dfa.Transitions[i] = targets
}

// refineST partition-refines raw (label, ST) pairs: disjoint label cells,
// each annotated with the componentwise union (Direct ∪, Reduce ∪) of
// every ST whose label covers that cell.
func refineST(raw []rawTrans) []rawTrans {
	universe := idset.New[lr1.StateID]()
	for _, r := range raw {
		universe.Union(r.label)
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
			if r.label.Contains(s) {
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

	out := make([]rawTrans, 0, len(order))
	for _, key := range order {
		c := cells[key]
		merged := ST{Direct: kre.NewKRESet(), Reduce: NewRedSet()}
		for _, i := range c.members {
			merged.Direct.Merge(raw[i].st.Direct)
			merged.Reduce.Merge(raw[i].st.Reduce)
		}
		out = append(out, rawTrans{label: idset.Of(c.states...), st: merged})
	}
	return out
}

func membershipKey(members []int) string {
	parts := make([]string, len(members))
	for i, m := range members {
		parts[i] = strconv.Itoa(m)
	}
	return strings.Join(parts, ",")
}
