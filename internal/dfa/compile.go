package dfa

import (
	"github.com/nihei9/lrgrep/internal/kre"
	"github.com/nihei9/lrgrep/internal/lr1"
	"github.com/nihei9/lrgrep/internal/redgraph"
	"github.com/nihei9/lrgrep/internal/redop"
)

// Compile runs the full pipeline (§2, leaf to root): grammar view and
// reduction graph, pattern translation, and the DFA worklist, over a
// grammar table and the already-resolved clauses of one rule.
func Compile(g *lr1.Grammar, clauses []kre.Clause) (*DFA, error) {
	idx := lr1.NewIndex(g)
	rg, err := redgraph.Build(g)
	if err != nil {
		return nil, err
	}
	entry := kre.Translate(idx, clauses)
	op := redop.New(rg, redop.NewCache(idx))
	return Build(idx, op, entry), nil
}
