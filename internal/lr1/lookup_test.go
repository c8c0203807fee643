package lr1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIndexGroupsStatesByIncomingSymbol(t *testing.T) {
	g := threeStateGrammar(t)
	idx := NewIndex(g)

	assert.Equal(t, []StateID{0, 1, 2}, idx.AllStates())

	onA := idx.StatesOfSymbol(T(TerminalID(0)))
	assert.Equal(t, []StateID{1}, onA)

	onBigA := idx.StatesOfSymbol(N(NonTerminalID(0)))
	assert.Equal(t, []StateID{2}, onBigA)
}

func TestStatesByItemsMatchesDotPositionAndContext(t *testing.T) {
	g := threeStateGrammar(t)
	idx := NewIndex(g)

	// State 0 carries item (production 0, dot 0): A -> . a.
	found := idx.StatesByItems(nil, nil, []ItemAtom{Atom(T(TerminalID(0)))})
	assert.Contains(t, found, StateID(0))
	assert.NotContains(t, found, StateID(1))

	// State 1 carries item (production 0, dot 1): A -> a .
	found = idx.StatesByItems(nil, []ItemAtom{Atom(T(TerminalID(0)))}, nil)
	assert.Contains(t, found, StateID(1))
	assert.NotContains(t, found, StateID(0))

	lhs := NonTerminalID(0)
	found = idx.StatesByItems(&lhs, nil, nil)
	assert.ElementsMatch(t, []StateID{0, 1}, found, "both items of production 0 share lhs A")

	other := NonTerminalID(1)
	found = idx.StatesByItems(&other, nil, nil)
	assert.Empty(t, found)
}

func TestItemMatchesTemplateWildcardAndBounds(t *testing.T) {
	p := &Production{ID: 0, LHS: NonTerminalID(0), RHS: []Symbol{T(TerminalID(0)), T(TerminalID(1))}}

	// dot at 1: prefix aligns at rhs[0], suffix aligns at rhs[1].
	assert.True(t, itemMatchesTemplate(p, 1, nil, []ItemAtom{Atom(T(TerminalID(0)))}, []ItemAtom{Atom(T(TerminalID(1)))}))
	assert.True(t, itemMatchesTemplate(p, 1, nil, []ItemAtom{Wildcard()}, []ItemAtom{Wildcard()}))
	assert.False(t, itemMatchesTemplate(p, 1, nil, []ItemAtom{Atom(T(TerminalID(1)))}, nil), "prefix symbol mismatch")

	lhs := NonTerminalID(1)
	assert.False(t, itemMatchesTemplate(p, 1, &lhs, nil, nil), "lhs mismatch")

	// prefix longer than dot position is impossible to satisfy.
	assert.False(t, itemMatchesTemplate(p, 0, nil, []ItemAtom{Wildcard()}, nil))

	// suffix reaching past the end of rhs is impossible to satisfy.
	assert.False(t, itemMatchesTemplate(p, 1, nil, nil, []ItemAtom{Wildcard(), Wildcard()}))
}

func TestItemMatchesTemplateEmptyTemplateMatchesAnyDot(t *testing.T) {
	p := &Production{ID: 0, LHS: NonTerminalID(0), RHS: []Symbol{T(TerminalID(0))}}
	for pos := 0; pos <= len(p.RHS); pos++ {
		assert.True(t, itemMatchesTemplate(p, pos, nil, nil, nil))
	}
}

func TestGrammarReturnsUnderlyingGrammar(t *testing.T) {
	g := threeStateGrammar(t)
	idx := NewIndex(g)
	require.Same(t, g, idx.Grammar())
}
