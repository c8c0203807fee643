package lr1

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fromTableSrc loads a Grammar directly from an inline JSON table, the same
// fixture style internal/dfa and internal/redop tests use.
func fromTableSrc(t *testing.T, src string) *Grammar {
	t.Helper()
	tab, err := LoadTable(strings.NewReader(src))
	require.NoError(t, err)
	g, err := FromTable(tab)
	require.NoError(t, err)
	return g
}

// threeStateGrammar builds state 0 (start) shifting terminal 0 to state 1,
// and gotoing non-terminal 0 to state 2; state 1 reduces production 0
// (A -> a) with lookahead 0; state 2 is a dead end. Named terminals and
// non-terminals exercise the by-name lookups.
func threeStateGrammar(t *testing.T) *Grammar {
	t.Helper()
	src := `{
		"terminalCount": 1,
		"nonTerminalCount": 1,
		"terminalNames": ["a"],
		"nonTerminalNames": ["A"],
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
	return fromTableSrc(t, src)
}

func TestFromTableBuildsSuccessorsAndPredecessors(t *testing.T) {
	g := threeStateGrammar(t)

	require.Equal(t, 3, g.StateCount())
	require.Equal(t, 1, g.TerminalCount())
	require.Equal(t, 1, g.NonTerminalCount())
	require.Equal(t, 1, g.ProductionCount())

	succ := g.Successors(0)
	require.Len(t, succ, 2)
	assert.Equal(t, TransShift, succ[0].Kind)
	assert.Equal(t, StateID(1), succ[0].Target)
	assert.Equal(t, TransGoto, succ[1].Kind)
	assert.Equal(t, StateID(2), succ[1].Target)

	pred1 := g.Predecessors(StateID(1))
	require.Len(t, pred1, 1)
	assert.Equal(t, StateID(0), pred1[0].Source)

	sym, ok := g.Incoming(StateID(1))
	require.True(t, ok)
	assert.True(t, sym.IsTerminal())
	assert.Equal(t, TerminalID(0), sym.Terminal())

	_, ok = g.Incoming(StateID(0))
	assert.False(t, ok, "the start state has no incoming symbol")
}

func TestFromTableNamesResolveBothWays(t *testing.T) {
	g := threeStateGrammar(t)

	assert.Equal(t, "a", g.TerminalName(TerminalID(0)))
	assert.Equal(t, "A", g.NonTerminalName(NonTerminalID(0)))

	tid, ok := g.TerminalByName("a")
	require.True(t, ok)
	assert.Equal(t, TerminalID(0), tid)

	ntid, ok := g.NonTerminalByName("A")
	require.True(t, ok)
	assert.Equal(t, NonTerminalID(0), ntid)

	_, ok = g.TerminalByName("nope")
	assert.False(t, ok)
}

func TestFromTableWithoutNameExtensionReturnsEmptyNames(t *testing.T) {
	src := `{
		"terminalCount": 1,
		"nonTerminalCount": 0,
		"productions": [],
		"states": [
			{"items": [], "reductions": [], "transitions": []}
		]
	}`
	g := fromTableSrc(t, src)

	assert.Equal(t, "", g.TerminalName(TerminalID(0)))
	_, ok := g.TerminalByName("a")
	assert.False(t, ok)
}

func TestReductionsGroupsByDepthAndDedupesLHS(t *testing.T) {
	// State 0 reduces two productions of depth 1 sharing lhs A, plus a
	// start production that must be excluded from reductions(s).
	src := `{
		"terminalCount": 1,
		"nonTerminalCount": 1,
		"productions": [
			{"lhs": 0, "rhs": [{"terminal": true, "num": 0}], "kind": "REGULAR"},
			{"lhs": 0, "rhs": [{"terminal": true, "num": 0}], "kind": "REGULAR"},
			{"lhs": 0, "rhs": [], "kind": "START"}
		],
		"states": [
			{
				"items": [],
				"reductions": [{"lookahead": 0, "productions": [0, 1, 2]}],
				"transitions": []
			}
		]
	}`
	g := fromTableSrc(t, src)

	reds := g.Reductions(StateID(0))
	require.Len(t, reds, 2, "depth-0 slot plus depth-1 slot")
	assert.Empty(t, reds[0])
	require.Len(t, reds[1], 1, "both depth-1 productions share lhs A, deduplicated to one entry")
	assert.Equal(t, NonTerminalID(0), reds[1][0])
}

func TestGotoTargetResolvesFindGoto(t *testing.T) {
	g := threeStateGrammar(t)

	target, ok := g.GotoTarget(StateID(0), NonTerminalID(0))
	require.True(t, ok)
	assert.Equal(t, StateID(2), target)

	_, ok = g.GotoTarget(StateID(1), NonTerminalID(0))
	assert.False(t, ok, "state 1 has no goto on non-terminal 0")
}

func TestGotoTargetPanicsOnInconsistentFindGotoTable(t *testing.T) {
	// FindGoto and Successors are built together by FromTable and never
	// diverge through any exported operation; the only way to exercise
	// GotoTarget's internal-consistency panic is to manufacture the
	// mismatch directly on the unexported fields from within the package.
	g := threeStateGrammar(t)
	g.findGotoTab[0][NonTerminalID(5)] = GotoID(99)

	assert.Panics(t, func() {
		g.GotoTarget(StateID(0), NonTerminalID(5))
	})
}
