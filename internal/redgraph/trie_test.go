package redgraph

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nihei9/lrgrep/internal/lr1"
)

// markPath inserts every prefix of path into root, each tagged with origin,
// mirroring insertSubtree: every concrete frame along a root's walk is
// marked with that root's originating state, not just the final frame.
func markPath(root *DerivNode, path []lr1.StateID, origin lr1.StateID) {
	for i := 1; i <= len(path); i++ {
		root.insert(path[:i], origin)
	}
}

func TestDeriveJoinsValuesByOriginatingState(t *testing.T) {
	// Origin 10's walk visits depth 1 (state 1) then depth 2 (state 2).
	// Origin 20's walk visits depth 1 (state 2) only. Both contribute to
	// out[10]/out[20] independently, one entry per depth reached.
	root := newDerivNode()
	markPath(root, []lr1.StateID{1, 2}, 10)
	markPath(root, []lr1.StateID{2}, 20)

	step := func(acc []lr1.StateID, s lr1.StateID) ([]lr1.StateID, bool) {
		return append(append([]lr1.StateID{}, acc...), s), true
	}
	join := func(xs [][]lr1.StateID) int {
		return len(xs)
	}

	out := Derive(root, []lr1.StateID(nil), step, join)
	require.Contains(t, out, lr1.StateID(10))
	require.Contains(t, out, lr1.StateID(20))
	assert.Equal(t, 2, out[lr1.StateID(10)], "origin 10 is marked at both depth 1 and depth 2")
	assert.Equal(t, 1, out[lr1.StateID(20)], "origin 20 is marked once, at depth 1")
}

func TestDeriveStepCanPruneABranch(t *testing.T) {
	root := newDerivNode()
	markPath(root, []lr1.StateID{7, 8}, 1)
	markPath(root, []lr1.StateID{9}, 2)

	// Refuse to step into state 8 at all: everything below it must never
	// reach the join, including origin 1's depth-2 contribution.
	step := func(acc int, s lr1.StateID) (int, bool) {
		if s == 8 {
			return acc, false
		}
		return acc + 1, true
	}
	join := func(xs []int) int {
		total := 0
		for _, x := range xs {
			total += x
		}
		return total
	}

	out := Derive(root, 0, step, join)
	require.Contains(t, out, lr1.StateID(1), "origin 1 is still reached at depth 1 (state 7)")
	assert.Equal(t, 1, out[lr1.StateID(1)])
	assert.Equal(t, 1, out[lr1.StateID(2)])
}

func TestDeriveVisitsChildrenInAscendingStateOrder(t *testing.T) {
	root := newDerivNode()
	root.insert([]lr1.StateID{5}, 0)
	root.insert([]lr1.StateID{3}, 0)
	root.insert([]lr1.StateID{9}, 0)

	var order []lr1.StateID
	step := func(acc int, s lr1.StateID) (int, bool) {
		order = append(order, s)
		return acc, true
	}
	Derive(root, 0, step, func(xs []int) int { return len(xs) })

	sorted := append([]lr1.StateID{}, order...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	assert.Equal(t, sorted, order, "childKeys must present children in ascending StateID order")
}
