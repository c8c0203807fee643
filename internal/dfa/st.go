// Package dfa implements Component G: the combined state ST pairing
// direct continuations with reduction simulators, and the worklist
// construction of the DFA over those states.
package dfa

import (
	"sort"
	"strings"

	"github.com/nihei9/lrgrep/internal/kre"
	"github.com/nihei9/lrgrep/internal/redop"
)

// RedSet is an ordered, deduplicated set of redop.Red values, keyed by
// Red.Key() (§3: "ST = {direct: KRESet, reduce: set<Red>}").
type RedSet struct {
	order []string
	byKey map[string]redop.Red
}

// NewRedSet returns an empty set.
func NewRedSet() RedSet {
	return RedSet{byKey: map[string]redop.Red{}}
}

func (rs *RedSet) Add(r redop.Red) {
	if rs.byKey == nil {
		rs.byKey = map[string]redop.Red{}
	}
	k := r.Key()
	if _, ok := rs.byKey[k]; ok {
		return
	}
	rs.byKey[k] = r
	rs.order = append(rs.order, k)
}

func (rs *RedSet) Merge(o RedSet) {
	for _, r := range o.Values() {
		rs.Add(r)
	}
}

func (rs RedSet) Values() []redop.Red {
	out := make([]redop.Red, len(rs.order))
	for i, k := range rs.order {
		out[i] = rs.byKey[k]
	}
	return out
}

func (rs RedSet) Len() int { return len(rs.order) }

func (rs RedSet) Key() string {
	ids := append([]string{}, rs.order...)
	sort.Strings(ids)
	return strings.Join(ids, "|")
}

// ST is the combined DFA state of §3/§4.G: direct continuations plus
// parallel reduction simulators.
type ST struct {
	Direct kre.KRESet
	Reduce RedSet
}

// Key gives ST the "(direct, reduce) lexicographically" comparison of §3.
func (st ST) Key() string {
	return st.Direct.Key() + "##" + st.Reduce.Key()
}

// AcceptClauses returns every clause directly accepted by st (its Direct
// set contains a Done node for that clause), in priority order: an
// Unreachable clause ranks below any clause with code regardless of
// index, and within either group the smaller clause index wins (§4.G:
// "fix accept sets by priority (smaller clause index wins; Unreachable <
// code)").
func AcceptClauses(st ST) []*kre.Done {
	var out []*kre.Done
	for _, k := range st.Direct.Values() {
		if d, ok := k.(*kre.Done); ok {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := acceptRank(out[i]), acceptRank(out[j])
		if ri != rj {
			return ri < rj
		}
		return out[i].Clause < out[j].Clause
	})
	return out
}

// acceptRank is the first sort key for AcceptClauses: 0 for any clause
// with code (plain or Partial), 1 for Unreachable.
func acceptRank(d *kre.Done) int {
	if d.Unreachable {
		return 1
	}
	return 0
}

// Winner returns the highest-priority accepted clause of st (§5: "priority
// = source order"; §8 property 7), or false if st accepts nothing.
func Winner(st ST) (*kre.Done, bool) {
	cs := AcceptClauses(st)
	if len(cs) == 0 {
		return nil, false
	}
	return cs[0], true
}
