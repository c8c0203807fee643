// Package lr1 is a typed, index-based view over a compiled LR(1) automaton.
//
// Every finite domain the automaton exposes (terminals, non-terminals,
// productions, states, goto transitions, shift transitions) is a densely
// numbered universe. The ID types below carry a phantom tag identifying
// their universe so that, for instance, a StateID can never be compared
// with a ProductionID by accident.
package lr1

// TerminalID indexes the terminal-symbol universe T.
type TerminalID int

// NonTerminalID indexes the non-terminal-symbol universe N.
type NonTerminalID int

// ProductionID indexes the production universe P.
type ProductionID int

// StateID indexes the LR(1) state universe S.
type StateID int

// GotoID indexes the goto-transition universe G.
type GotoID int

// ShiftID indexes the shift-transition universe H.
type ShiftID int

// ProductionKind distinguishes the augmented start production from regular
// grammar productions; §4.A requires reductions to exclude start
// productions.
type ProductionKind int

const (
	ProductionRegular ProductionKind = iota
	ProductionStart
)
