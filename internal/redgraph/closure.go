package redgraph

import (
	"github.com/nihei9/lrgrep/internal/idset"
	"github.com/nihei9/lrgrep/internal/lr1"
)

// --- Phase 4: goto closure and reachable-goto ---------------------------

func (rg *Redgraph) computeGotoClosure() error {
	// allocateFrame may have grown rg.frames during phase 2; the loop runs
	// over every frame, so the parents allocated then are also considered
	// (they can have non-empty GotoNT only via phase 2, which has already
	// completed).
	for id := 0; id < len(rg.frames); id++ {
		a := rg.frames[id]
		if a.GotoNT.Empty() {
			continue
		}

		byTargets := map[string]*ClosureGroup{}
		var order []string
		for _, s := range a.States.Values() {
			targets := rg.closeState(s, a.GotoNT.Values())
			key := targets.Key()
			grp, ok := byTargets[key]
			if !ok {
				grp = &ClosureGroup{Sources: idset.New[lr1.StateID](), Targets: targets}
				byTargets[key] = grp
				order = append(order, key)
			}
			grp.Sources.Add(s)
		}

		groups := make([]ClosureGroup, 0, len(order))
		for _, k := range order {
			groups = append(groups, *byTargets[k])
		}
		rg.closure[a.ID] = groups
	}
	return nil
}

// closeState computes close(s) from §4.C phase 4: the set of states
// reachable from s by repeatedly applying find_goto on an expanding set of
// non-terminals, seeded by startNTs and grown by the GotoNT of every newly
// discovered state's own abstract frame, until a fixpoint.
func (rg *Redgraph) closeState(s lr1.StateID, startNTs []lr1.NonTerminalID) *idset.Set[lr1.StateID] {
	reached := map[lr1.StateID]struct{}{}
	frontier := map[lr1.StateID]struct{}{s: {}}
	nts := map[lr1.NonTerminalID]struct{}{}
	for _, nt := range startNTs {
		nts[nt] = struct{}{}
	}

	for {
		changed := false
		for st := range frontier {
			for nt := range nts {
				t, ok := rg.g.GotoTarget(st, nt)
				if !ok {
					continue
				}
				if _, seen := reached[t]; !seen {
					reached[t] = struct{}{}
					frontier[t] = struct{}{}
					changed = true
				}
				for _, nt2 := range rg.frames[OfLR1(t)].GotoNT.Values() {
					if _, have := nts[nt2]; !have {
						nts[nt2] = struct{}{}
						changed = true
					}
				}
			}
		}
		if !changed {
			break
		}
	}

	out := idset.New[lr1.StateID]()
	for t := range reached {
		out.Add(t)
	}
	return out
}

// GotoClosure returns goto_closure[a]: the partition of a.States computed
// in phase 4.
func (rg *Redgraph) GotoClosure(a AbstractFrameID) []ClosureGroup {
	return rg.closure[a]
}

// computeReachableGoto is the least-fixed-point solver of §4.C/§9: a
// worklist that enqueues every abstract frame and repeats until no set
// grows.
func (rg *Redgraph) computeReachableGoto() {
	for _, a := range rg.frames {
		rg.reachableGoto[a.ID] = idset.New[lr1.StateID]()
	}

	changed := true
	for changed {
		changed = false
		for _, a := range rg.frames {
			cur := rg.reachableGoto[a.ID]
			before := cur.Size()

			for _, grp := range rg.closure[a.ID] {
				cur.Union(grp.Targets)
			}
			if a.Parent != nil {
				cur.Union(rg.reachableGoto[*a.Parent])
			}
			for _, grp := range rg.closure[a.ID] {
				for _, t := range grp.Targets.Values() {
					cur.Union(rg.reachableGoto[OfLR1(t)])
				}
			}

			if cur.Size() != before {
				changed = true
			}
		}
	}
}

// ReachableGoto returns reachable_goto[a] (§4.C phase 4, §8 property 4).
func (rg *Redgraph) ReachableGoto(a AbstractFrameID) *idset.Set[lr1.StateID] {
	return rg.reachableGoto[a]
}

// Intersects reports whether any element of a reachable_goto/continuation
// state set also belongs to states.
func Intersects(a *idset.Set[lr1.StateID], states *idset.Set[lr1.StateID]) bool {
	return a.Intersects(states)
}
