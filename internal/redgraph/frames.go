package redgraph

import (
	"github.com/nihei9/lrgrep/internal/idset"
	"github.com/nihei9/lrgrep/internal/lr1"
)

// AbstractFrameID indexes the abstract-frame universe A (§3). The first
// |S| indices are reserved: AbstractFrameID(s) is of_lr1(s).
type AbstractFrameID int

// ConcreteFrame is a fully known stack suffix (§3, §9: "represent frames by
// indices into an append-only vector... Concrete frames form a tree and
// can be owned by their parent"). Concrete frames are owned by their
// parent via the Goto map, so no external index is needed for them.
type ConcreteFrame struct {
	State  lr1.StateID
	Goto   map[lr1.StateID]*ConcreteFrame
	Parent *ConcreteFrame
}

func newConcreteFrame(s lr1.StateID, parent *ConcreteFrame) *ConcreteFrame {
	return &ConcreteFrame{State: s, Goto: map[lr1.StateID]*ConcreteFrame{}, Parent: parent}
}

// AbstractFrame represents "some stack whose top is in States" (§3).
// Parent edges are stored by ID, never by pointer, so the parent DAG can
// never contain a raw reference cycle (§9).
type AbstractFrame struct {
	ID     AbstractFrameID
	States *idset.Set[lr1.StateID]
	GotoNT *idset.Set[lr1.NonTerminalID]
	Parent *AbstractFrameID
}

func newAbstractFrame(id AbstractFrameID) *AbstractFrame {
	return &AbstractFrame{
		ID:     id,
		States: idset.New[lr1.StateID](),
		GotoNT: idset.New[lr1.NonTerminalID](),
	}
}
