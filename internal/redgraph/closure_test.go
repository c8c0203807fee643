package redgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nihei9/lrgrep/internal/idset"
	"github.com/nihei9/lrgrep/internal/lr1"
)

func TestCloseStateReachesThroughFindGoto(t *testing.T) {
	g := threeStateFixture(t)
	rg, err := Build(g)
	require.NoError(t, err)

	reached := rg.closeState(lr1.StateID(0), []lr1.NonTerminalID{0})
	assert.True(t, reached.Equal(idset.Of(lr1.StateID(2))))
}

func TestCloseStateWithNoMatchingGotoReturnsEmpty(t *testing.T) {
	g := threeStateFixture(t)
	rg, err := Build(g)
	require.NoError(t, err)

	reached := rg.closeState(lr1.StateID(1), []lr1.NonTerminalID{0})
	assert.True(t, reached.Empty(), "state 1 has no goto on non-terminal 0")
}

func TestComputeGotoClosureGroupsByTargetSet(t *testing.T) {
	g := threeStateFixture(t)
	rg, err := Build(g)
	require.NoError(t, err)

	groups := rg.GotoClosure(OfLR1(lr1.StateID(1)))
	require.Len(t, groups, 1)
	assert.True(t, groups[0].Sources.Equal(idset.Of(lr1.StateID(0))))
	assert.True(t, groups[0].Targets.Equal(idset.Of(lr1.StateID(2))))

	assert.Empty(t, rg.GotoClosure(OfLR1(lr1.StateID(0))), "state 0 requested no goto so has no closure entry")
}

func TestComputeReachableGotoPropagatesThroughClosure(t *testing.T) {
	g := threeStateFixture(t)
	rg, err := Build(g)
	require.NoError(t, err)

	assert.True(t, rg.ReachableGoto(OfLR1(lr1.StateID(1))).Equal(idset.Of(lr1.StateID(2))))
	assert.True(t, rg.ReachableGoto(OfLR1(lr1.StateID(0))).Empty())
	assert.True(t, rg.ReachableGoto(OfLR1(lr1.StateID(2))).Empty())
}

func TestIntersectsDelegatesToSetIntersects(t *testing.T) {
	a := idset.Of(lr1.StateID(1), lr1.StateID(2))
	b := idset.Of(lr1.StateID(2), lr1.StateID(3))
	c := idset.Of(lr1.StateID(5))

	assert.True(t, Intersects(a, b))
	assert.False(t, Intersects(a, c))
}
