package kre

import (
	"github.com/nihei9/lrgrep/internal/idset"
	"github.com/nihei9/lrgrep/internal/lr1"
)

// lower implements §4.D: "Set atoms convert to sets of S via §4.B; a
// Reduce atom becomes the single marker Reduce; Star wraps; Seq/Alt
// flatten."
func lower(idx *lr1.Index, t Term) RE {
	switch v := t.(type) {
	case *AtomTerm:
		var states *idset.Set[lr1.StateID]
		if v.Wildcard {
			states = idset.Of(idx.AllStates()...)
		} else {
			states = idset.Of(idx.StatesOfSymbol(v.Sym)...)
		}
		return NewSet(states, v.Capture, v.P)

	case *ItemTerm:
		states := idset.Of(idx.StatesByItems(v.LHS, v.Prefix, v.Suffix)...)
		return NewSet(states, v.Capture, v.P)

	case *ReduceTerm:
		return NewReduce(v.P)

	case *SeqTerm:
		items := make([]RE, len(v.Items))
		for i, it := range v.Items {
			items[i] = lower(idx, it)
		}
		return NewSeq(items, v.P)

	case *AltTerm:
		items := make([]RE, len(v.Items))
		for i, it := range v.Items {
			items[i] = lower(idx, it)
		}
		return NewAlt(items, v.P)

	case *StarTerm:
		return NewStar(lower(idx, v.Sub), v.P)
	}
	panic("kre: unhandled Term type in lower")
}

// Clause bundles one rule clause's pattern with the action-dispatch
// metadata internal/dsl/resolve carries forward from the DSL source
// (§6.4: the generated dispatcher needs each clause's code body and kind,
// not just its pattern).
type Clause struct {
	Pattern     Term
	Code        string
	Partial     bool
	Unreachable bool
}

// TranslateClause lowers one clause's pattern, appending Done{clauseIndex}
// as its final continuation: "a KRE list is built from transl(pattern, i)
// for clause i" (§4.D).
func TranslateClause(idx *lr1.Index, c Clause, clauseIndex int) KRE {
	re := lower(idx, c.Pattern)
	return NewMore(re, NewDone(clauseIndex, c.Code, c.Partial, c.Unreachable))
}

// Translate lowers every clause's pattern, in clause-priority order, into
// a KRESet representing the recognizer's entry state.
func Translate(idx *lr1.Index, clauses []Clause) KRESet {
	ks := NewKRESet()
	for i, c := range clauses {
		ks.Add(TranslateClause(idx, c, i))
	}
	return ks
}
