package redop

import (
	"fmt"

	"github.com/nihei9/lrgrep/internal/idset"
	"github.com/nihei9/lrgrep/internal/kre"
	"github.com/nihei9/lrgrep/internal/lr1"
	"github.com/nihei9/lrgrep/internal/redgraph"
)

// Red is a reduction-simulator instance (§3: "Red is a reduction-simulator
// instance {derivations, state: A}"). Source is the original derivable the
// continuations table was built from, kept only for comparison (§4.F: "Red
// is compared lexicographically by (state, derivations.source)").
type Red struct {
	Source      kre.KRESet
	Derivations map[lr1.StateID]kre.KRESet
	State       redgraph.AbstractFrameID
}

// Key gives Red a total order matching §4.F's (state, derivations.source).
func (r Red) Key() string {
	return fmt.Sprintf("%08d|%s", r.State, r.Source.Key())
}

// LabeledKRESet is a (label, continuation) pair emitted by Initial/Derive.
type LabeledKRESet struct {
	Label *idset.Set[lr1.StateID]
	Next  kre.KRESet
}

// LabeledRed is a (label, Red) pair emitted by Initial/Derive.
type LabeledRed struct {
	Label *idset.Set[lr1.StateID]
	Red   Red
}

func allStates(g *lr1.Grammar) *idset.Set[lr1.StateID] {
	s := idset.New[lr1.StateID]()
	for i := 0; i < g.StateCount(); i++ {
		s.Add(lr1.StateID(i))
	}
	return s
}
