package main

import (
	"fmt"
	"strings"

	"github.com/nihei9/lrgrep/internal/dsl/parse"
)

// dumpTree renders f's parsed clause patterns as an s-expression-ish tree
// (§6.3's '-d' flag, a supplemented feature: the CLI surface's full
// recognized-flags contract).
func dumpTree(f *parse.File) string {
	var b strings.Builder
	for _, r := range f.Rules {
		fmt.Fprintf(&b, "(rule %v\n", r.Name)
		for i, c := range r.Clauses {
			tag := "action"
			if c.Unreachable {
				tag = "unreachable"
			} else if c.Partial {
				tag = "partial"
			}
			fmt.Fprintf(&b, "  (clause %v %v %v)\n", i, tag, sexpr(c.Pattern))
		}
		b.WriteString(")\n")
	}
	return b.String()
}

func sexpr(t parse.Term) string {
	switch v := t.(type) {
	case *parse.AtomTerm:
		if v.Wildcard {
			return "_"
		}
		if v.Capture != "" {
			return fmt.Sprintf("%v@%v", v.Name, v.Capture)
		}
		return v.Name
	case *parse.ItemTerm:
		return sexprItem(v)
	case *parse.ReduceTerm:
		return "!"
	case *parse.SeqTerm:
		return "(seq " + sexprJoin(v.Items) + ")"
	case *parse.AltTerm:
		return "(alt " + sexprJoin(v.Items) + ")"
	case *parse.StarTerm:
		return "(star " + sexpr(v.Sub) + ")"
	}
	return "?"
}

func sexprJoin(items []parse.Term) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = sexpr(it)
	}
	return strings.Join(parts, " ")
}

func sexprItem(v *parse.ItemTerm) string {
	var b strings.Builder
	b.WriteString("[")
	if v.HasLHS {
		fmt.Fprintf(&b, "%v: ", v.LHS)
	}
	for _, a := range v.Prefix {
		fmt.Fprintf(&b, "%v ", sexprSymbolAtom(a))
	}
	b.WriteString(".")
	for _, a := range v.Suffix {
		fmt.Fprintf(&b, " %v", sexprSymbolAtom(a))
	}
	b.WriteString("]")
	return b.String()
}

func sexprSymbolAtom(a parse.SymbolAtom) string {
	if a.Wildcard {
		return "_"
	}
	return a.Name
}
