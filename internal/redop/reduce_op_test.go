package redop

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nihei9/lrgrep/internal/idset"
	"github.com/nihei9/lrgrep/internal/kre"
	"github.com/nihei9/lrgrep/internal/lr1"
	"github.com/nihei9/lrgrep/internal/redgraph"
)

// buildFixture constructs a 3-state grammar: state 0 (start) shifts 'a' to
// state 1 and also gotos A to state 2; state 1 (incoming 'a') reduces
// production A -> a; state 2 (incoming A) is a dead end. It is small
// enough to trace by hand: state 1's abstract frame ends up with
// goto_nt={A} and reachable_goto = {2}.
func buildFixture(t *testing.T) (*lr1.Index, *redgraph.Redgraph) {
	t.Helper()
	src := `{
		"terminalCount": 1,
		"nonTerminalCount": 1,
		"productions": [
			{"lhs": 0, "rhs": [{"terminal": true, "num": 0}], "kind": "REGULAR"}
		],
		"states": [
			{
				"items": [{"production": 0, "dot": 0}],
				"reductions": [],
				"transitions": [
					{"symbol": {"terminal": true, "num": 0}, "state": 1},
					{"symbol": {"terminal": false, "num": 0}, "state": 2}
				]
			},
			{
				"incoming": {"terminal": true, "num": 0},
				"items": [{"production": 0, "dot": 1}],
				"reductions": [{"lookahead": 0, "productions": [0]}],
				"transitions": []
			},
			{
				"incoming": {"terminal": false, "num": 0},
				"items": [],
				"reductions": [],
				"transitions": []
			}
		]
	}`

	tab, err := lr1.LoadTable(strings.NewReader(src))
	require.NoError(t, err)
	g, err := lr1.FromTable(tab)
	require.NoError(t, err)

	idx := lr1.NewIndex(g)
	rg, err := redgraph.Build(g)
	require.NoError(t, err)
	return idx, rg
}

func TestInitialDerivationsCoversAllStatesThroughReduce(t *testing.T) {
	idx, rg := buildFixture(t)
	cache := NewCache(idx)
	op := New(rg, cache)

	d := kre.NewKRESet()
	d.Add(kre.NewMore(kre.NewReduce(kre.Pos{}), kre.NewDone(0, "", false, false)))

	continuations := op.InitialDerivations(d)
	require.Len(t, continuations, 3)
	for s, ds := range continuations {
		assert.Equal(t, 1, ds.Len(), "state %v", s)
	}
}

func TestInitialReportsOneReducibleFrame(t *testing.T) {
	idx, rg := buildFixture(t)
	cache := NewCache(idx)
	op := New(rg, cache)

	d := kre.NewKRESet()
	d.Add(kre.NewMore(kre.NewReduce(kre.Pos{}), kre.NewDone(0, "", false, false)))

	direct, reducible := op.Initial(d)
	assert.Len(t, direct, 3)
	require.Len(t, reducible, 1)
	assert.Equal(t, redgraph.OfLR1(1), reducible[0].Red.State)
	assert.True(t, reducible[0].Label.Equal(idset.Of(lr1.StateID(1))))
}

func TestDeriveWalksGotoAndRestrictsToSources(t *testing.T) {
	idx, rg := buildFixture(t)
	cache := NewCache(idx)
	op := New(rg, cache)

	d := kre.NewKRESet()
	d.Add(kre.NewMore(kre.NewReduce(kre.Pos{}), kre.NewDone(0, "", false, false)))

	_, reducible := op.Initial(d)
	require.Len(t, reducible, 1)

	direct, nextReducible := op.Derive(reducible[0].Red)
	require.Len(t, direct, 1)
	assert.True(t, direct[0].Label.Equal(idset.Of(lr1.StateID(0))))
	assert.Empty(t, nextReducible)
}
