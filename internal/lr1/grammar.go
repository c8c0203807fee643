package lr1

import "fmt"

// Production is a grammar rule lhs -> rhs.
type Production struct {
	ID   ProductionID
	LHS  NonTerminalID
	RHS  []Symbol
	Kind ProductionKind
}

// Item is an LR(1) item (p, pos): the dot sits before rhs[pos].
type Item struct {
	Prod ProductionID
	Dot  int
}

// TransKind distinguishes goto transitions (Any = G (x) H, §3) from shift
// transitions.
type TransKind int

const (
	TransGoto TransKind = iota
	TransShift
)

// Trans is a member of Any = G U H: either a goto or a shift transition.
type Trans struct {
	Kind   TransKind
	Goto   GotoID
	Shift  ShiftID
	Source StateID
	Target StateID
	Sym    Symbol
}

// Reduction is one (lookahead, production) pair reducible in a state.
type Reduction struct {
	Lookahead  TerminalID
	Production ProductionID
}

// Grammar is the read-only, index-based wrapper (Component A, §4.A) over
// the terminals, non-terminals, productions, LR(1) states and transitions
// of a compiled automaton.
type Grammar struct {
	terminalCount    int
	nonTerminalCount int
	productions      []*Production
	incoming         []*Symbol      // per state, nil for the initial state
	items            [][]Item       // per state
	reductionsByDepth [][][]NonTerminalID // per state: reductions(s) from §3

	successors   [][]Trans // per state
	predecessors [][]Trans // per state
	findGotoTab  []map[NonTerminalID]GotoID

	terminalNames    []string
	nonTerminalNames []string
	terminalByName   map[string]TerminalID
	nonTerminalByName map[string]NonTerminalID
}

// FromTable builds a Grammar view over a loaded Table.
func FromTable(t *Table) (*Grammar, error) {
	g := &Grammar{
		terminalCount:    t.TerminalCount,
		nonTerminalCount: t.NonTerminalCount,
	}

	if len(t.TerminalNames) > 0 {
		g.terminalNames = t.TerminalNames
		g.terminalByName = make(map[string]TerminalID, len(t.TerminalNames))
		for i, name := range t.TerminalNames {
			g.terminalByName[name] = TerminalID(i)
		}
	}
	if len(t.NonTerminalNames) > 0 {
		g.nonTerminalNames = t.NonTerminalNames
		g.nonTerminalByName = make(map[string]NonTerminalID, len(t.NonTerminalNames))
		for i, name := range t.NonTerminalNames {
			g.nonTerminalByName[name] = NonTerminalID(i)
		}
	}

	g.productions = make([]*Production, len(t.Productions))
	for i, p := range t.Productions {
		rhs := make([]Symbol, len(p.RHS))
		for j, s := range p.RHS {
			rhs[j] = s.toSymbol()
		}
		kind := ProductionRegular
		if p.Kind == "START" {
			kind = ProductionStart
		}
		g.productions[i] = &Production{
			ID:   ProductionID(i),
			LHS:  NonTerminalID(p.LHS),
			RHS:  rhs,
			Kind: kind,
		}
	}

	n := len(t.States)
	g.incoming = make([]*Symbol, n)
	g.items = make([][]Item, n)
	g.reductionsByDepth = make([][][]NonTerminalID, n)
	g.successors = make([][]Trans, n)
	g.predecessors = make([][]Trans, n)
	g.findGotoTab = make([]map[NonTerminalID]GotoID, n)
	for s := range g.findGotoTab {
		g.findGotoTab[s] = map[NonTerminalID]GotoID{}
	}

	var gotoNum GotoID
	var shiftNum ShiftID
	for s, st := range t.States {
		if st.Incoming != nil {
			sym := st.Incoming.toSymbol()
			g.incoming[s] = &sym
		}

		items := make([]Item, len(st.Items))
		for i, it := range st.Items {
			items[i] = Item{Prod: ProductionID(it.Production), Dot: it.Dot}
		}
		g.items[s] = items

		reduced := map[ProductionID]struct{}{}
		var maxDepth int
		for _, r := range st.Reductions {
			for _, p := range r.Productions {
				if g.productions[p].Kind == ProductionStart {
					continue
				}
				reduced[ProductionID(p)] = struct{}{}
				if d := len(g.productions[p].RHS); d > maxDepth {
					maxDepth = d
				}
			}
		}
		byDepth := make([][]NonTerminalID, maxDepth+1)
		seen := make([]map[NonTerminalID]struct{}, maxDepth+1)
		for d := range seen {
			seen[d] = map[NonTerminalID]struct{}{}
		}
		for p := range reduced {
			d := len(g.productions[p].RHS)
			lhs := g.productions[p].LHS
			if _, ok := seen[d][lhs]; ok {
				continue
			}
			seen[d][lhs] = struct{}{}
			byDepth[d] = append(byDepth[d], lhs)
		}
		g.reductionsByDepth[s] = byDepth

		for _, tr := range st.Transitions {
			sym := tr.Symbol.toSymbol()
			target := StateID(tr.State)
			var trans Trans
			if sym.IsTerminal() {
				trans = Trans{Kind: TransShift, Shift: shiftNum, Source: StateID(s), Target: target, Sym: sym}
				shiftNum++
			} else {
				trans = Trans{Kind: TransGoto, Goto: gotoNum, Source: StateID(s), Target: target, Sym: sym}
				g.findGotoTab[s][sym.NonTerminal()] = trans.Goto
				gotoNum++
			}
			g.successors[s] = append(g.successors[s], trans)
			g.predecessors[target] = append(g.predecessors[target], trans)
		}
	}

	return g, nil
}

func (g *Grammar) StateCount() int        { return len(g.items) }
func (g *Grammar) TerminalCount() int     { return g.terminalCount }
func (g *Grammar) NonTerminalCount() int  { return g.nonTerminalCount }
func (g *Grammar) ProductionCount() int   { return len(g.productions) }

func (g *Grammar) Production(id ProductionID) *Production {
	return g.productions[id]
}

// Items returns the item set of state s (kernel and closure alike, as
// delivered by the external loader; §6.1 does not distinguish them).
func (g *Grammar) Items(s StateID) []Item {
	return g.items[s]
}

// Incoming returns the symbol labeling the transition into s, or false for
// the initial state.
func (g *Grammar) Incoming(s StateID) (Symbol, bool) {
	sym := g.incoming[s]
	if sym == nil {
		return Symbol{}, false
	}
	return *sym, true
}

// Reductions implements reductions(s) from §3: an array indexed by pop
// depth d, each entry the set of lhs(p) for productions with |rhs(p)| = d
// reducible in s. Start productions are excluded and lookaheads are
// deduplicated, per §4.A.
func (g *Grammar) Reductions(s StateID) [][]NonTerminalID {
	return g.reductionsByDepth[s]
}

// Successors returns every outgoing transition (goto or shift) of s.
func (g *Grammar) Successors(s StateID) []Trans {
	return g.successors[s]
}

// Predecessors returns every incoming transition of s.
func (g *Grammar) Predecessors(s StateID) []Trans {
	return g.predecessors[s]
}

// FindGoto implements find_goto(s, n): S x N -> G, partial.
func (g *Grammar) FindGoto(s StateID, n NonTerminalID) (GotoID, bool) {
	id, ok := g.findGotoTab[s][n]
	return id, ok
}

// TerminalByName resolves a DSL symbol name to a terminal, per §7's
// ResolutionError ("unknown symbol name").
func (g *Grammar) TerminalByName(name string) (TerminalID, bool) {
	id, ok := g.terminalByName[name]
	return id, ok
}

// NonTerminalByName resolves a DSL symbol name to a non-terminal.
func (g *Grammar) NonTerminalByName(name string) (NonTerminalID, bool) {
	id, ok := g.nonTerminalByName[name]
	return id, ok
}

// TerminalName returns the declared name of a terminal, or "" if the table
// carried no name extension.
func (g *Grammar) TerminalName(id TerminalID) string {
	if int(id) >= len(g.terminalNames) {
		return ""
	}
	return g.terminalNames[id]
}

// NonTerminalName returns the declared name of a non-terminal, or "" if the
// table carried no name extension.
func (g *Grammar) NonTerminalName(id NonTerminalID) string {
	if int(id) >= len(g.nonTerminalNames) {
		return ""
	}
	return g.nonTerminalNames[id]
}

// GotoTarget resolves find_goto(s, n) directly to its target state.
func (g *Grammar) GotoTarget(s StateID, n NonTerminalID) (StateID, bool) {
	id, ok := g.FindGoto(s, n)
	if !ok {
		return 0, false
	}
	for _, tr := range g.successors[s] {
		if tr.Kind == TransGoto && tr.Goto == id {
			return tr.Target, true
		}
	}
	panic(fmt.Sprintf("lr1: goto %v registered but not found among successors of state %v", id, s))
}
