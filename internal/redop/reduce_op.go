package redop

import (
	"sort"

	"github.com/nihei9/lrgrep/internal/idset"
	"github.com/nihei9/lrgrep/internal/kre"
	"github.com/nihei9/lrgrep/internal/lr1"
	"github.com/nihei9/lrgrep/internal/redgraph"
)

// ReduceOp is Reduce_op: lifts a derivable KRESet into the reduction-graph
// walk of §4.F, given the static reduction graph and a derivation cache.
type ReduceOp struct {
	rg    *redgraph.Redgraph
	cache *Cache
}

// New builds a ReduceOp over rg, deriving KRESets through cache.
func New(rg *redgraph.Redgraph, cache *Cache) *ReduceOp {
	return &ReduceOp{rg: rg, cache: cache}
}

// InitialDerivations implements initial_derivations(d) (§4.F): "precompute
// continuations: map<S,D> using Redgraph.derive(root=d, step=λ d s → lookup
// s in derive(d), join=D.merge)."
func (op *ReduceOp) InitialDerivations(d kre.KRESet) map[lr1.StateID]kre.KRESet {
	step := func(cur kre.KRESet, s lr1.StateID) (kre.KRESet, bool) {
		res := op.cache.Derive(cur)
		for _, tr := range res.Transitions {
			if tr.Label.Contains(s) {
				return tr.Next, true
			}
		}
		return kre.KRESet{}, false
	}
	join := func(xs []kre.KRESet) kre.KRESet {
		return kre.Union(xs...)
	}
	return redgraph.Derive(op.rg.Trie(), d, step, join)
}

// Initial implements initial(d) (§4.F): the single-state direct
// transitions for every reached continuation, plus a reducible transition
// for every LR(1) state whose reachable_goto intersects their domain.
func (op *ReduceOp) Initial(d kre.KRESet) ([]LabeledKRESet, []LabeledRed) {
	continuations := op.InitialDerivations(d)

	domain := idset.New[lr1.StateID]()
	var states []lr1.StateID
	for s := range continuations {
		domain.Add(s)
		states = append(states, s)
	}
	sort.Slice(states, func(i, j int) bool { return states[i] < states[j] })

	direct := make([]LabeledKRESet, 0, len(states))
	for _, s := range states {
		direct = append(direct, LabeledKRESet{Label: idset.Of(s), Next: continuations[s]})
	}

	var reducible []LabeledRed
	g := op.rg.Grammar()
	for s := 0; s < g.StateCount(); s++ {
		sid := lr1.StateID(s)
		reach := op.rg.ReachableGoto(redgraph.OfLR1(sid))
		if redgraph.Intersects(reach, domain) {
			reducible = append(reducible, LabeledRed{
				Label: idset.Of(sid),
				Red:   Red{Source: d, Derivations: continuations, State: redgraph.OfLR1(sid)},
			})
		}
	}

	return direct, reducible
}

// Derive implements derive(t) for t = {derivations, state: a} (§4.F).
func (op *ReduceOp) Derive(t Red) ([]LabeledKRESet, []LabeledRed) {
	var direct []LabeledKRESet
	var reducible []LabeledRed

	domain := idset.New[lr1.StateID]()
	for s := range t.Derivations {
		domain.Add(s)
	}

	a := op.rg.AbstractFrame(t.State)
	if a.Parent != nil {
		parentReach := op.rg.ReachableGoto(*a.Parent)
		if redgraph.Intersects(parentReach, domain) {
			reducible = append(reducible, LabeledRed{
				Label: allStates(op.rg.Grammar()),
				Red:   Red{Source: t.Source, Derivations: t.Derivations, State: *a.Parent},
			})
		}
	}

	visited := map[lr1.NonTerminalID]bool{}
	op.walkGotoNT(a, t, domain, visited, &direct, &reducible)

	return direct, reducible
}

// walkGotoNT implements the transitive walk over a.goto_nt from §4.F step
// 2, with visited guarding against cycles through mutually-recursive
// nonterminal gotos.
func (op *ReduceOp) walkGotoNT(a *redgraph.AbstractFrame, t Red, domain *idset.Set[lr1.StateID], visited map[lr1.NonTerminalID]bool, direct *[]LabeledKRESet, reducible *[]LabeledRed) {
	g := op.rg.Grammar()

	for _, nt := range a.GotoNT.Values() {
		if visited[nt] {
			continue
		}
		visited[nt] = true

		targets := map[lr1.StateID][]lr1.StateID{}
		var order []lr1.StateID
		for _, src := range a.States.Values() {
			tgt, ok := g.GotoTarget(src, nt)
			if !ok {
				continue
			}
			if _, seen := targets[tgt]; !seen {
				order = append(order, tgt)
			}
			targets[tgt] = append(targets[tgt], src)
		}

		for _, tgt := range order {
			srcSet := idset.Of(targets[tgt]...)

			if ds, ok := t.Derivations[tgt]; ok {
				res := op.cache.Derive(ds)
				for _, tr := range res.Transitions {
					restricted := idset.New[lr1.StateID]()
					for _, s := range tr.Label.Values() {
						if srcSet.Contains(s) {
							restricted.Add(s)
						}
					}
					if !restricted.Empty() {
						*direct = append(*direct, LabeledKRESet{Label: restricted, Next: tr.Next})
					}
				}
			}

			reach := op.rg.ReachableGoto(redgraph.OfLR1(tgt))
			if redgraph.Intersects(reach, domain) {
				*reducible = append(*reducible, LabeledRed{
					Label: srcSet,
					Red:   Red{Source: t.Source, Derivations: t.Derivations, State: redgraph.OfLR1(tgt)},
				})
			}

			tgtFrame := op.rg.AbstractFrame(redgraph.OfLR1(tgt))
			op.walkGotoNT(tgtFrame, t, domain, visited, direct, reducible)
		}
	}
}
