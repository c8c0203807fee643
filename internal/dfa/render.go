package dfa

import (
	"fmt"

	"github.com/nihei9/lrgrep/internal/kre"
	"github.com/nihei9/lrgrep/internal/lr1"
	"github.com/nihei9/lrgrep/internal/tabcompress"
)

func intsOf(states []lr1.StateID) []int {
	out := make([]int, len(states))
	for i, s := range states {
		out[i] = int(s)
	}
	return out
}

// Dump renders d in the human-readable diagnostic form of vartan's
// describe/show commands (supplemented feature: a textual diagnostic form
// of the compiled recognizer): one section per state listing its accept
// clauses and outgoing transitions.
func Dump(d *DFA) string {
	out := fmt.Sprintf("# States: %v\n\n", len(d.States))
	for i := range d.States {
		out += fmt.Sprintf("## State %v\n\n", i)
		if len(d.Accept[i]) > 0 {
			out += fmt.Sprintf("accept %v\n", acceptSummary(d.Accept[i]))
		}
		for _, t := range d.Transitions[i] {
			out += fmt.Sprintf("on %v -> %v\n", intsOf(t.Label.Values()), t.To)
		}
		out += "\n"
	}
	return out
}

// acceptSummary renders an already priority-ordered accept list as
// "clause(kind)" pairs, winner first.
func acceptSummary(cs []*kre.Done) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		kind := "code"
		switch {
		case c.Unreachable:
			kind = "unreachable"
		case c.Partial:
			kind = "partial"
		}
		out[i] = fmt.Sprintf("%v(%v)", c.Clause, kind)
	}
	return out
}

// acceptClauseIndexes extracts the plain clause-index list of an
// already priority-ordered accept list, for the generated <rule>Accept
// table (§6.4).
func acceptClauseIndexes(cs []*kre.Done) []int {
	out := make([]int, len(cs))
	for i, c := range cs {
		out[i] = c.Clause
	}
	return out
}

// renderAction emits the <rule>Action switch of §6.4: for every state with
// an accepted clause, a case running that clause's highest-priority action
// body verbatim. An Unreachable winner (no competing coded clause at that
// state) has no code of its own, so its case is left as a comment marker
// rather than silently doing nothing.
func renderAction(ruleName string, d *DFA) string {
	out := fmt.Sprintf("// %sAction runs the action of the highest-priority clause accepted at\n", ruleName)
	out += "// state st, if any.\n"
	out += fmt.Sprintf("func %sAction(st int) {\n\tswitch st {\n", ruleName)
	for i, cs := range d.Accept {
		if len(cs) == 0 {
			continue
		}
		winner := cs[0]
		out += fmt.Sprintf("\tcase %v:\n", i)
		if winner.Unreachable {
			out += fmt.Sprintf("\t\t// clause %v is declared unreachable; no action\n", winner.Clause)
			continue
		}
		for _, line := range splitLines(winner.Code) {
			out += "\t\t" + line + "\n"
		}
	}
	out += "\t}\n}\n"
	return out
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	lines = append(lines, s[start:])
	return lines
}

// RenderTables emits the generated DFA tables and action dispatcher of
// §6.4 for one rule: a states/transitions/accept data block, followed by
// a dispatcher that looks up the winning clause for a state. lrgrep never
// executes this itself (Non-goal: runtime execution of the recognizer);
// it only emits the text that a host parser would compile in.
func RenderTables(ruleName string, d *DFA) string {
	out := fmt.Sprintf("var %sStateCount = %v\n\n", ruleName, len(d.States))

	out += fmt.Sprintf("var %sAccept = map[int][]int{\n", ruleName)
	for i, cs := range d.Accept {
		if len(cs) == 0 {
			continue
		}
		out += fmt.Sprintf("\t%v: %#v,\n", i, acceptClauseIndexes(cs))
	}
	out += "}\n\n"

	out += fmt.Sprintf("type %sTransition struct {\n\tLabel []int\n\tTo    int\n}\n\n", ruleName)

	out += fmt.Sprintf("var %sTransitions = map[int][]%sTransition{\n", ruleName, ruleName)
	for i, ts := range d.Transitions {
		if len(ts) == 0 {
			continue
		}
		out += fmt.Sprintf("\t%v: {\n", i)
		for _, t := range ts {
			out += fmt.Sprintf("\t\t{Label: %#v, To: %v},\n", intsOf(t.Label.Values()), t.To)
		}
		out += "\t},\n"
	}
	out += "}\n\n"

	out += fmt.Sprintf("// %sDispatch returns the highest-priority clause accepted at state st,\n", ruleName)
	out += "// or false if st accepts nothing.\n"
	out += fmt.Sprintf("func %sDispatch(st int) (int, bool) {\n", ruleName)
	out += fmt.Sprintf("\tcs, ok := %sAccept[st]\n", ruleName)
	out += "\tif !ok || len(cs) == 0 {\n\t\treturn 0, false\n\t}\n"
	out += "\treturn cs[0], true\n}\n\n"

	out += renderAction(ruleName, d)

	return out
}

// denseMatrix flattens d's transition function into one row per DFA state
// over the full LR(1)-state alphabet: cell [i*lr1StateCount+s] is d's
// transition target out of state i (offset by one so 0 means "no
// transition") whose label set contains LR(1) state s.
func denseMatrix(d *DFA, lr1StateCount int) []int {
	entries := make([]int, len(d.States)*lr1StateCount)
	for i, ts := range d.Transitions {
		for _, t := range ts {
			for _, s := range t.Label.Values() {
				entries[i*lr1StateCount+int(s)] = t.To + 1
			}
		}
	}
	return entries
}

// RenderCompressedTables is RenderTables' output with the transition table
// packed through internal/tabcompress instead of emitted as a Go map,
// grounded on vartan's own two-stage compressor pipeline for its lexical
// DFA tables: dedupe identical rows, then row-displacement pack the
// survivors. Prefer this form over RenderTables when the grammar's LR(1)
// state count is large enough that per-state label sets are sparse against
// the full alphabet.
func RenderCompressedTables(ruleName string, d *DFA, g *lr1.Grammar) (string, error) {
	lr1StateCount := g.StateCount()

	out := fmt.Sprintf("var %sStateCount = %v\n\n", ruleName, len(d.States))

	out += fmt.Sprintf("var %sAccept = map[int][]int{\n", ruleName)
	for i, cs := range d.Accept {
		if len(cs) == 0 {
			continue
		}
		out += fmt.Sprintf("\t%v: %#v,\n", i, acceptClauseIndexes(cs))
	}
	out += "}\n\n"

	if len(d.States) == 0 || lr1StateCount == 0 {
		out += fmt.Sprintf("func %sNext(st, s int) (int, bool) {\n\treturn 0, false\n}\n\n", ruleName)
		out += fmt.Sprintf("func %sDispatch(st int) (int, bool) {\n\treturn 0, false\n}\n\n", ruleName)
		out += renderAction(ruleName, d)
		return out, nil
	}

	dense, err := tabcompress.NewDenseTable(denseMatrix(d, lr1StateCount), lr1StateCount)
	if err != nil {
		return "", err
	}
	deduped := tabcompress.Dedupe(dense)
	uniqueDense, err := tabcompress.NewDenseTable(deduped.UniqueEntries, deduped.OriginalColCount)
	if err != nil {
		return "", err
	}
	packed := tabcompress.Pack(uniqueDense, 0)

	out += fmt.Sprintf("var %sRowNums = %#v\n\n", ruleName, deduped.RowNums)
	out += fmt.Sprintf("var %sTransitionEntries = %#v\n\n", ruleName, packed.Entries)
	out += fmt.Sprintf("var %sTransitionBounds = %#v\n\n", ruleName, packed.Bounds)
	out += fmt.Sprintf("var %sTransitionRowDisplacement = %#v\n\n", ruleName, packed.RowDisplacement)

	out += fmt.Sprintf("// %sNext returns the DFA state reached from st on LR(1) state s, or false\n", ruleName)
	out += "// if st has no transition whose label set contains s.\n"
	out += fmt.Sprintf("func %sNext(st, s int) (int, bool) {\n", ruleName)
	out += fmt.Sprintf("\trow := %sRowNums[st]\n", ruleName)
	out += fmt.Sprintf("\td := %sTransitionRowDisplacement[row]\n", ruleName)
	out += fmt.Sprintf("\tif %sTransitionBounds[d+s] != row {\n\t\treturn 0, false\n\t}\n", ruleName)
	out += fmt.Sprintf("\tv := %sTransitionEntries[d+s]\n", ruleName)
	out += "\tif v == 0 {\n\t\treturn 0, false\n\t}\n"
	out += "\treturn v - 1, true\n}\n\n"

	out += fmt.Sprintf("// %sDispatch returns the highest-priority clause accepted at state st,\n", ruleName)
	out += "// or false if st accepts nothing.\n"
	out += fmt.Sprintf("func %sDispatch(st int) (int, bool) {\n", ruleName)
	out += fmt.Sprintf("\tcs, ok := %sAccept[st]\n", ruleName)
	out += "\tif !ok || len(cs) == 0 {\n\t\treturn 0, false\n\t}\n"
	out += "\treturn cs[0], true\n}\n\n"

	out += renderAction(ruleName, d)

	return out, nil
}
