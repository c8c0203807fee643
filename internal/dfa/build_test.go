package dfa

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nihei9/lrgrep/internal/idset"
	"github.com/nihei9/lrgrep/internal/kre"
	"github.com/nihei9/lrgrep/internal/lr1"
)

// twoStateGrammar builds a grammar with a start state 0 and a state 1
// reached by shifting a single terminal, and nothing else: enough to
// exercise one real direct transition plus the "sticky accept" self-loop.
func twoStateGrammar(t *testing.T) *lr1.Grammar {
	t.Helper()
	src := `{
		"terminalCount": 1,
		"nonTerminalCount": 0,
		"productions": [],
		"states": [
			{"items": [], "reductions": [], "transitions": [
				{"symbol": {"terminal": true, "num": 0}, "state": 1}
			]},
			{"incoming": {"terminal": true, "num": 0}, "items": [], "reductions": [], "transitions": []}
		]
	}`
	tab, err := lr1.LoadTable(strings.NewReader(src))
	require.NoError(t, err)
	g, err := lr1.FromTable(tab)
	require.NoError(t, err)
	return g
}

func TestBuildScenarioOneClauseOneShift(t *testing.T) {
	g := twoStateGrammar(t)

	term := &kre.AtomTerm{Sym: lr1.T(0), P: kre.Pos{}}
	dfaRes, err := Compile(g, []kre.Clause{{Pattern: term, Code: "handle()"}})
	require.NoError(t, err)

	require.Len(t, dfaRes.States, 2)
	assert.Empty(t, dfaRes.Accept[0], "entry state accepts nothing before consuming a symbol")
	require.Len(t, dfaRes.Accept[1], 1)
	assert.Equal(t, 0, dfaRes.Accept[1][0].Clause)
	assert.Equal(t, "handle()", dfaRes.Accept[1][0].Code)

	require.Len(t, dfaRes.Transitions[0], 1)
	assert.True(t, dfaRes.Transitions[0][0].Label.Equal(idset.Of(lr1.StateID(1))))
	assert.Equal(t, 1, dfaRes.Transitions[0][0].To)

	// Once accepted, clause 0 is sticky: state 1 self-loops on every
	// subsequent state.
	require.Len(t, dfaRes.Transitions[1], 1)
	assert.True(t, dfaRes.Transitions[1][0].Label.Equal(idset.Of(lr1.StateID(0), lr1.StateID(1))))
	assert.Equal(t, 1, dfaRes.Transitions[1][0].To)
}

func TestBuildEmptyPatternSetAcceptsNothing(t *testing.T) {
	g := twoStateGrammar(t)
	dfaRes, err := Compile(g, nil)
	require.NoError(t, err)

	require.Len(t, dfaRes.States, 1)
	assert.Empty(t, dfaRes.Accept[0])
	assert.Empty(t, dfaRes.Transitions[0])
}

func TestWinnerPrefersSmallestClauseIndex(t *testing.T) {
	st := ST{Direct: kre.NewKRESet(), Reduce: NewRedSet()}
	st.Direct.Add(kre.NewDone(2, "", false, false))
	st.Direct.Add(kre.NewDone(0, "", false, false))
	st.Direct.Add(kre.NewDone(1, "", false, false))

	w, ok := Winner(st)
	require.True(t, ok)
	assert.Equal(t, 0, w.Clause)
}

func TestAcceptClausesUnreachableRanksBelowCode(t *testing.T) {
	st := ST{Direct: kre.NewKRESet(), Reduce: NewRedSet()}
	st.Direct.Add(kre.NewDone(0, "", false, true))
	st.Direct.Add(kre.NewDone(1, "handle()", false, false))

	cs := AcceptClauses(st)
	require.Len(t, cs, 2)
	assert.Equal(t, 1, cs[0].Clause, "a clause with code wins over a smaller-indexed Unreachable clause")
	assert.Equal(t, 0, cs[1].Clause)

	w, ok := Winner(st)
	require.True(t, ok)
	assert.Equal(t, 1, w.Clause)
}
