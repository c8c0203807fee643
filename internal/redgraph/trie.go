package redgraph

import (
	"sort"

	"github.com/nihei9/lrgrep/internal/lr1"
)

// DerivNode is one node of the global derivation trie (§3, §4.C phase 3).
// A root-to-node path s_k, ..., s_1 means a stack suffix reachable by
// reductions from some LR(1) state; GotoTargets at a node lists every
// originating state for which that exact path is a valid reduction
// sequence.
type DerivNode struct {
	Children    map[lr1.StateID]*DerivNode
	GotoTargets map[lr1.StateID]struct{}
}

func newDerivNode() *DerivNode {
	return &DerivNode{
		Children:    map[lr1.StateID]*DerivNode{},
		GotoTargets: map[lr1.StateID]struct{}{},
	}
}

func (n *DerivNode) childKeys() []lr1.StateID {
	ks := make([]lr1.StateID, 0, len(n.Children))
	for k := range n.Children {
		ks = append(ks, k)
	}
	sort.Slice(ks, func(i, j int) bool { return ks[i] < ks[j] })
	return ks
}

func (n *DerivNode) insert(path []lr1.StateID, origin lr1.StateID) {
	node := n
	for _, st := range path {
		child, ok := node.Children[st]
		if !ok {
			child = newDerivNode()
			node.Children[st] = child
		}
		node = child
	}
	node.GotoTargets[origin] = struct{}{}
}

// Derive implements the generic derivation interface of §4.C: given a
// starting accumulator, a single-edge step function, and a way to join
// accumulated values that reach the same LR(1) state, walk the derivation
// trie depth-first and return the per-state join.
//
// It is order-independent (§8 property 8): the join at a given state only
// ever combines values produced along distinct root-to-node paths, and the
// DFS visits every such path exactly once regardless of child order.
func Derive[X any, Y any](root *DerivNode, init X, step func(X, lr1.StateID) (X, bool), join func([]X) Y) map[lr1.StateID]Y {
	acc := map[lr1.StateID][]X{}

	var walk func(node *DerivNode, cur X)
	walk = func(node *DerivNode, cur X) {
		for _, st := range node.childKeys() {
			child := node.Children[st]
			next, ok := step(cur, st)
			if !ok {
				continue
			}
			for s := range child.GotoTargets {
				acc[s] = append(acc[s], next)
			}
			walk(child, next)
		}
	}
	walk(root, init)

	out := map[lr1.StateID]Y{}
	for s, xs := range acc {
		out[s] = join(xs)
	}
	return out
}
