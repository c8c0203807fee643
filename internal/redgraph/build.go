package redgraph

import (
	"sort"

	"github.com/nihei9/lrgrep/internal/idset"
	"github.com/nihei9/lrgrep/internal/lerr"
	"github.com/nihei9/lrgrep/internal/lr1"
)

// Redgraph is the static analysis of §4.C: the reduction-reachable stack
// suffixes of an LR(1) automaton, represented as an abstract-frame graph
// plus a concrete-frame trie per originating state, a shared derivation
// trie, and the goto-closure / reachable-goto tables.
type Redgraph struct {
	g *lr1.Grammar

	frames []*AbstractFrame // index 0..|S|-1 are of_lr1(s); more appended lazily
	roots  []*ConcreteFrame // roots[s] is the root concrete frame for state s
	trie   *DerivNode

	closure       map[AbstractFrameID][]ClosureGroup
	reachableGoto map[AbstractFrameID]*idset.Set[lr1.StateID]
}

// ClosureGroup is one cell of goto_closure[a] (§4.C phase 4): a partition
// of a.States sharing the same reachable target-state set.
type ClosureGroup struct {
	Sources *idset.Set[lr1.StateID]
	Targets *idset.Set[lr1.StateID]
}

// OfLR1 returns of_lr1(s), the reserved abstract frame for state s.
func OfLR1(s lr1.StateID) AbstractFrameID {
	return AbstractFrameID(s)
}

// Build runs the four construction phases of §4.C over a Grammar.
func Build(g *lr1.Grammar) (*Redgraph, error) {
	rg := &Redgraph{
		g:             g,
		roots:         make([]*ConcreteFrame, g.StateCount()),
		trie:          newDerivNode(),
		closure:       map[AbstractFrameID][]ClosureGroup{},
		reachableGoto: map[AbstractFrameID]*idset.Set[lr1.StateID]{},
	}

	if err := rg.allocateLR1Frames(); err != nil {
		return nil, err
	}
	if err := rg.enumerateStackSuffixes(); err != nil {
		return nil, err
	}
	rg.buildDerivationTrie()
	if err := rg.computeGotoClosure(); err != nil {
		return nil, err
	}
	rg.computeReachableGoto()

	return rg, nil
}

// --- Phase 1: abstract-frame allocation -------------------------------

func (rg *Redgraph) allocateLR1Frames() error {
	rg.frames = make([]*AbstractFrame, rg.g.StateCount())
	for s := 0; s < rg.g.StateCount(); s++ {
		a := newAbstractFrame(OfLR1(lr1.StateID(s)))
		for _, tr := range rg.g.Predecessors(lr1.StateID(s)) {
			a.States.Add(tr.Source)
		}
		rg.frames[s] = a
	}
	return nil
}

func (rg *Redgraph) allocateFrame() *AbstractFrame {
	a := newAbstractFrame(AbstractFrameID(len(rg.frames)))
	rg.frames = append(rg.frames, a)
	return a
}

// AbstractFrame returns the abstract frame with the given id.
func (rg *Redgraph) AbstractFrame(id AbstractFrameID) *AbstractFrame {
	return rg.frames[id]
}

// Grammar returns the underlying grammar view the graph was built over.
func (rg *Redgraph) Grammar() *lr1.Grammar {
	return rg.g
}

// --- Phase 2: stack-suffix enumeration ---------------------------------

type frameKind int

const (
	frameConcrete frameKind = iota
	frameAbstract
)

type framePtr struct {
	kind frameKind
	c    *ConcreteFrame
	a    AbstractFrameID
}

func (rg *Redgraph) enumerateStackSuffixes() error {
	for s := 0; s < rg.g.StateCount(); s++ {
		c0 := newConcreteFrame(lr1.StateID(s), nil)
		rg.roots[s] = c0
		if err := rg.populate(c0); err != nil {
			return err
		}
	}
	return nil
}

// populate implements the body of §4.C phase 2 for one concrete frame.
func (rg *Redgraph) populate(c0 *ConcreteFrame) error {
	reds := rg.g.Reductions(c0.State)
	fp := framePtr{kind: frameConcrete, c: c0}

	for i := 0; i < len(reds); i++ {
		if i > 0 {
			var err error
			fp, err = rg.pop(fp)
			if err != nil {
				return err
			}
		}
		for _, nt := range reds[i] {
			if err := rg.applyGoto(fp, nt); err != nil {
				return err
			}
		}
	}
	return nil
}

func (rg *Redgraph) pop(fp framePtr) (framePtr, error) {
	switch fp.kind {
	case frameConcrete:
		c := fp.c
		if c.Parent != nil {
			return framePtr{kind: frameConcrete, c: c.Parent}, nil
		}
		return framePtr{kind: frameAbstract, a: OfLR1(c.State)}, nil
	case frameAbstract:
		a := rg.frames[fp.a]
		if a.Parent != nil {
			return framePtr{kind: frameAbstract, a: *a.Parent}, nil
		}
		a2 := rg.allocateFrame()
		for _, s := range a.States.Values() {
			for _, tr := range rg.g.Predecessors(s) {
				a2.States.Add(tr.Source)
			}
		}
		a.Parent = &a2.ID
		return framePtr{kind: frameAbstract, a: a2.ID}, nil
	}
	panic("redgraph: unreachable frame kind")
}

func (rg *Redgraph) applyGoto(fp framePtr, nt lr1.NonTerminalID) error {
	switch fp.kind {
	case frameConcrete:
		c := fp.c
		s2, ok := rg.g.GotoTarget(c.State, nt)
		if !ok {
			return lerr.Internal("redgraph: state %v claims a reduction to non-terminal %v but has no goto on it", c.State, nt)
		}
		if _, exists := c.Goto[s2]; !exists {
			child := newConcreteFrame(s2, c)
			c.Goto[s2] = child
			if err := rg.populate(child); err != nil {
				return err
			}
		}
	case frameAbstract:
		rg.frames[fp.a].GotoNT.Add(nt)
	}
	return nil
}

// --- Phase 3: derivation trie -------------------------------------------

func (rg *Redgraph) buildDerivationTrie() {
	for s := 0; s < len(rg.roots); s++ {
		rg.insertSubtree(rg.roots[s], nil, lr1.StateID(s))
	}
}

func (rg *Redgraph) insertSubtree(c *ConcreteFrame, prefix []lr1.StateID, origin lr1.StateID) {
	path := append(append([]lr1.StateID{}, prefix...), c.State)
	rg.trie.insert(path, origin)

	children := make([]lr1.StateID, 0, len(c.Goto))
	for s := range c.Goto {
		children = append(children, s)
	}
	sort.Slice(children, func(i, j int) bool { return children[i] < children[j] })
	for _, s := range children {
		rg.insertSubtree(c.Goto[s], path, origin)
	}
}

// Trie exposes the global derivation trie for use by Derive.
func (rg *Redgraph) Trie() *DerivNode {
	return rg.trie
}

// Root returns the root concrete frame enumerated from LR(1) state s.
func (rg *Redgraph) Root(s lr1.StateID) *ConcreteFrame {
	return rg.roots[s]
}
