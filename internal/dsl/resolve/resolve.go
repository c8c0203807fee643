// Package resolve binds the symbol names in a parsed DSL tree
// (internal/dsl/parse) against a grammar's terminal/non-terminal name
// tables, producing the kre.Term trees internal/kre.Translate consumes.
// Unknown names are reported as §7 ResolutionErrors: "fail eagerly at
// translation time."
package resolve

import (
	"fmt"

	"github.com/nihei9/lrgrep/internal/dsl/parse"
	"github.com/nihei9/lrgrep/internal/kre"
	"github.com/nihei9/lrgrep/internal/lerr"
	"github.com/nihei9/lrgrep/internal/lr1"
)

// Rule is one DSL rule with its clause patterns lowered to kre.Term, in
// clause-priority (source) order, ready for kre.Translate.
type Rule struct {
	Name        string
	Patterns    []kre.Term
	Partial     []bool
	Unreachable []bool
	Code        []string
}

// Resolve binds every rule of f against g. It collects every resolution
// error it finds across all rules before returning, rather than stopping
// at the first.
func Resolve(g *lr1.Grammar, f *parse.File) ([]*Rule, lerr.Errors) {
	var errs lerr.Errors
	var rules []*Rule

	for _, r := range f.Rules {
		rr := &Rule{Name: r.Name}
		for _, c := range r.Clauses {
			t, cerrs := resolveTerm(g, c.Pattern)
			if len(cerrs) > 0 {
				errs = append(errs, cerrs...)
				continue
			}
			rr.Patterns = append(rr.Patterns, t)
			rr.Partial = append(rr.Partial, c.Partial)
			rr.Unreachable = append(rr.Unreachable, c.Unreachable)
			rr.Code = append(rr.Code, c.Code)
		}
		rules = append(rules, rr)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return rules, nil
}

func resolveTerm(g *lr1.Grammar, t parse.Term) (kre.Term, lerr.Errors) {
	switch v := t.(type) {
	case *parse.AtomTerm:
		if v.Wildcard {
			return &kre.AtomTerm{Wildcard: true, Capture: v.Capture, P: toPos(v.P)}, nil
		}
		sym, err := resolveSymbolName(g, v.Name, v.P)
		if err != nil {
			return nil, lerr.Errors{err}
		}
		return &kre.AtomTerm{Sym: sym, Capture: v.Capture, P: toPos(v.P)}, nil

	case *parse.ItemTerm:
		return resolveItem(g, v)

	case *parse.ReduceTerm:
		return &kre.ReduceTerm{P: toPos(v.P)}, nil

	case *parse.SeqTerm:
		items, errs := resolveTerms(g, v.Items)
		if len(errs) > 0 {
			return nil, errs
		}
		return &kre.SeqTerm{Items: items, P: toPos(v.P)}, nil

	case *parse.AltTerm:
		items, errs := resolveTerms(g, v.Items)
		if len(errs) > 0 {
			return nil, errs
		}
		return &kre.AltTerm{Items: items, P: toPos(v.P)}, nil

	case *parse.StarTerm:
		sub, errs := resolveTerm(g, v.Sub)
		if len(errs) > 0 {
			return nil, errs
		}
		return &kre.StarTerm{Sub: sub, P: toPos(v.P)}, nil
	}
	panic("resolve: unhandled parse.Term type")
}

func resolveTerms(g *lr1.Grammar, in []parse.Term) ([]kre.Term, lerr.Errors) {
	out := make([]kre.Term, len(in))
	var errs lerr.Errors
	for i, t := range in {
		r, terrs := resolveTerm(g, t)
		if len(terrs) > 0 {
			errs = append(errs, terrs...)
			continue
		}
		out[i] = r
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

func resolveItem(g *lr1.Grammar, v *parse.ItemTerm) (kre.Term, lerr.Errors) {
	var errs lerr.Errors

	var lhs *lr1.NonTerminalID
	if v.HasLHS {
		id, ok := g.NonTerminalByName(v.LHS)
		if !ok {
			errs = append(errs, unknownSymbol(v.LHS, v.P))
		} else {
			lhs = &id
		}
	}

	// Prefix is stored in source (left-to-right, toward the dot) order;
	// lr1.Index.StatesByItems wants prefix[0] to be the symbol immediately
	// left of the dot, so the order is reversed here.
	prefix := make([]lr1.ItemAtom, len(v.Prefix))
	for i := range v.Prefix {
		src := v.Prefix[len(v.Prefix)-1-i]
		atom, aerr := resolveItemAtom(g, src, v.P)
		if aerr != nil {
			errs = append(errs, aerr)
		}
		prefix[i] = atom
	}

	suffix := make([]lr1.ItemAtom, len(v.Suffix))
	for i, a := range v.Suffix {
		atom, aerr := resolveItemAtom(g, a, v.P)
		if aerr != nil {
			errs = append(errs, aerr)
		}
		suffix[i] = atom
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return &kre.ItemTerm{LHS: lhs, Prefix: prefix, Suffix: suffix, Capture: v.Capture, P: toPos(v.P)}, nil
}

func resolveSymbolName(g *lr1.Grammar, name string, pos parse.Pos) (lr1.Symbol, *lerr.Error) {
	if id, ok := g.TerminalByName(name); ok {
		return lr1.T(id), nil
	}
	if id, ok := g.NonTerminalByName(name); ok {
		return lr1.N(id), nil
	}
	return lr1.Symbol{}, unknownSymbol(name, pos)
}

func resolveItemAtom(g *lr1.Grammar, a parse.SymbolAtom, pos parse.Pos) (lr1.ItemAtom, *lerr.Error) {
	if a.Wildcard {
		return lr1.Wildcard(), nil
	}
	sym, err := resolveSymbolName(g, a.Name, pos)
	if err != nil {
		return lr1.ItemAtom{}, err
	}
	return lr1.Atom(sym), nil
}

func unknownSymbol(name string, pos parse.Pos) *lerr.Error {
	return &lerr.Error{
		Kind:  lerr.Resolution,
		Cause: fmt.Errorf("Unknown symbol %v", name),
		Row:   pos.Row,
		Col:   pos.Col,
	}
}

func toPos(p parse.Pos) kre.Pos {
	return kre.Pos{Row: p.Row, Col: p.Col}
}
