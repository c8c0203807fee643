package kre

import "github.com/nihei9/lrgrep/internal/lr1"

// Term is the resolved surface-syntax tree of one clause's pattern (§6.2),
// built by internal/dsl/resolve from the DSL parser's name-based tree:
//
//	pattern ::= term+
//	term     ::= atom | '[' item ']' | '!' | pattern ';' pattern
//	           | pattern '|' pattern | pattern '*'
//	atom     ::= symbol | '.' | '_'
//	item     ::= (nt ':')? symbol* '.' symbol*
//
// Translate lowers a Term tree into an RE (§4.D); kre owns this type
// rather than the DSL front end, and dsl/resolve imports kre to build it.
type Term interface {
	termPos() Pos
}

// AtomTerm is a bare symbol, or the wildcard atoms '.'/'_'.
type AtomTerm struct {
	Sym      lr1.Symbol
	Wildcard bool
	Capture  string
	P        Pos
}

func (t *AtomTerm) termPos() Pos { return t.P }

// ItemTerm is a bracketed item template '[' item ']'.
type ItemTerm struct {
	LHS     *lr1.NonTerminalID
	Prefix  []lr1.ItemAtom
	Suffix  []lr1.ItemAtom
	Capture string
	P       Pos
}

func (t *ItemTerm) termPos() Pos { return t.P }

// ReduceTerm is the '!' atom.
type ReduceTerm struct {
	P Pos
}

func (t *ReduceTerm) termPos() Pos { return t.P }

// SeqTerm is concatenation, both from adjacent terms in a pattern and from
// the explicit ';' operator.
type SeqTerm struct {
	Items []Term
	P     Pos
}

func (t *SeqTerm) termPos() Pos { return t.P }

// AltTerm is the '|' operator.
type AltTerm struct {
	Items []Term
	P     Pos
}

func (t *AltTerm) termPos() Pos { return t.P }

// StarTerm is the '*' operator.
type StarTerm struct {
	Sub Term
	P   Pos
}

func (t *StarTerm) termPos() Pos { return t.P }
