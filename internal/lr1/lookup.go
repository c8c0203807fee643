package lr1

// ItemAtom is one position of an item template used by StatesByItems
// (§4.B): either a wildcard ("_", matches any symbol) or a concrete
// symbol.
type ItemAtom struct {
	Wildcard bool
	Sym      Symbol
}

// Wildcard is the "_" item-template atom.
func Wildcard() ItemAtom { return ItemAtom{Wildcard: true} }

// Atom wraps a concrete symbol as an item-template atom.
func Atom(s Symbol) ItemAtom { return ItemAtom{Sym: s} }

func (a ItemAtom) matches(s Symbol) bool {
	return a.Wildcard || a.Sym.Equal(s)
}

// Index precomputes the state-by-symbol and item-template lookups
// (Component B, §4.B) over a Grammar.
type Index struct {
	g *Grammar

	// statesOfTerm[t] / statesOfNonTerm[n] list the states whose incoming
	// symbol is terminal t / non-terminal n.
	statesOfTerm    [][]StateID
	statesOfNonTerm [][]StateID
}

// NewIndex scans incoming(s) once for every state to build states_of_symbol.
func NewIndex(g *Grammar) *Index {
	idx := &Index{
		g:               g,
		statesOfTerm:    make([][]StateID, g.TerminalCount()),
		statesOfNonTerm: make([][]StateID, g.NonTerminalCount()),
	}
	for s := 0; s < g.StateCount(); s++ {
		sym, ok := g.Incoming(StateID(s))
		if !ok {
			continue
		}
		if sym.IsTerminal() {
			t := sym.Terminal()
			idx.statesOfTerm[t] = append(idx.statesOfTerm[t], StateID(s))
		} else {
			n := sym.NonTerminal()
			idx.statesOfNonTerm[n] = append(idx.statesOfNonTerm[n], StateID(s))
		}
	}
	return idx
}

// Grammar returns the underlying Grammar the index was built over.
func (idx *Index) Grammar() *Grammar { return idx.g }

// AllStates returns every state in the grammar, in ascending order.
func (idx *Index) AllStates() []StateID {
	out := make([]StateID, idx.g.StateCount())
	for s := range out {
		out[s] = StateID(s)
	}
	return out
}

// StatesOfSymbol returns every state whose incoming transition is labeled
// by sym.
func (idx *Index) StatesOfSymbol(sym Symbol) []StateID {
	if sym.IsTerminal() {
		return idx.statesOfTerm[sym.Terminal()]
	}
	return idx.statesOfNonTerm[sym.NonTerminal()]
}

// StatesByItems implements states_by_items(lhs?, prefix, suffix) from
// §4.B: a state s is included iff some item (p, pos) of s satisfies every
// one of the five conditions there.
func (idx *Index) StatesByItems(lhs *NonTerminalID, prefix, suffix []ItemAtom) []StateID {
	var out []StateID
	for s := 0; s < idx.g.StateCount(); s++ {
		if idx.stateMatchesItemTemplate(StateID(s), lhs, prefix, suffix) {
			out = append(out, StateID(s))
		}
	}
	return out
}

func (idx *Index) stateMatchesItemTemplate(s StateID, lhs *NonTerminalID, prefix, suffix []ItemAtom) bool {
	for _, it := range idx.g.Items(s) {
		if itemMatchesTemplate(idx.g.Production(it.Prod), it.Dot, lhs, prefix, suffix) {
			return true
		}
	}
	return false
}

func itemMatchesTemplate(p *Production, pos int, lhs *NonTerminalID, prefix, suffix []ItemAtom) bool {
	if lhs != nil && p.LHS != *lhs {
		return false
	}
	if pos < len(prefix) {
		return false
	}
	if len(p.RHS) < pos+len(suffix) {
		return false
	}
	for i, a := range prefix {
		// prefix aligns at positions pos-1, pos-2, ...
		rhsPos := pos - 1 - i
		if !a.matches(p.RHS[rhsPos]) {
			return false
		}
	}
	for i, a := range suffix {
		// suffix aligns at positions pos, pos+1, ...
		rhsPos := pos + i
		if !a.matches(p.RHS[rhsPos]) {
			return false
		}
	}
	return true
}
