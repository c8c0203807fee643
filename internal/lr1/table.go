package lr1

import (
	"encoding/json"
	"fmt"
	"io"
)

// rawSymbol is the wire form of a Symbol (§6.1: "per-production ... rhs
// (symbol array)"; §6.1: "per-state incoming: option<Symbol>").
type rawSymbol struct {
	Terminal bool `json:"terminal"`
	Num      int  `json:"num"`
}

func (s rawSymbol) toSymbol() Symbol {
	if s.Terminal {
		return T(TerminalID(s.Num))
	}
	return N(NonTerminalID(s.Num))
}

type rawProduction struct {
	LHS  int         `json:"lhs"`
	RHS  []rawSymbol `json:"rhs"`
	Kind string      `json:"kind"` // "START" or "REGULAR", §6.1
}

type rawItem struct {
	Production int `json:"production"`
	Dot        int `json:"dot"`
}

type rawReduction struct {
	Lookahead   int   `json:"lookahead"`
	Productions []int `json:"productions"`
}

type rawTransition struct {
	Symbol rawSymbol `json:"symbol"`
	State  int       `json:"state"`
}

type rawState struct {
	Incoming    *rawSymbol      `json:"incoming,omitempty"`
	Items       []rawItem       `json:"items"`
	Reductions  []rawReduction  `json:"reductions"`
	Transitions []rawTransition `json:"transitions"`
}

// Table is the external, read-only grammar input described in §6.1: a
// compiled LR(1) table file. It is the wire format produced by an LR(1)
// grammar loader; lrgrep never constructs one from a grammar source, only
// reads it.
type Table struct {
	TerminalCount    int             `json:"terminalCount"`
	NonTerminalCount int             `json:"nonTerminalCount"`
	Productions      []rawProduction `json:"productions"`
	States           []rawState      `json:"states"`

	// TerminalNames/NonTerminalNames are an optional extension to §6.1's
	// minimal read-only table: names aren't required for the core
	// pipeline, but the DSL (§6.2) resolves symbols by name, so a table
	// that will feed internal/dsl/resolve carries them. Absent for tables
	// used only by the core pipeline.
	TerminalNames    []string `json:"terminalNames,omitempty"`
	NonTerminalNames []string `json:"nonTerminalNames,omitempty"`
}

// LoadTable reads a compiled LR(1) table file (§6.1) from r.
func LoadTable(r io.Reader) (*Table, error) {
	var t Table
	dec := json.NewDecoder(r)
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("lr1: cannot decode grammar table: %w", err)
	}
	return &t, nil
}
