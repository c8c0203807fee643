package parse

import (
	"fmt"

	"github.com/nihei9/lrgrep/internal/dsl/lex"
	"github.com/nihei9/lrgrep/internal/lerr"
)

// Parse lexes and parses one spec source file (§6.2). It collects every
// lexical and parse error it can recover from rather than stopping at the
// first one, returning them together as lerr.Errors.
func Parse(filePath string, src []byte, lx *lex.Lexer) (*File, lerr.Errors) {
	sc, err := lx.NewScanner(filePath, src)
	if err != nil {
		return nil, lerr.Errors{&lerr.Error{Kind: lerr.Lex, Cause: err, FilePath: filePath}}
	}

	p := &parser{sc: sc, filePath: filePath}
	p.advance()
	f := p.parseFile()

	if len(p.errs) > 0 {
		return nil, p.errs
	}
	return f, nil
}

type parser struct {
	sc       *lex.Scanner
	filePath string

	tok  *lex.Token
	peek *lex.Token

	errs lerr.Errors
}

func (p *parser) nextReal() *lex.Token {
	for {
		tok, err := p.sc.Next()
		if err != nil {
			p.errs = append(p.errs, err)
			continue
		}
		return tok
	}
}

func (p *parser) advance() {
	if p.peek != nil {
		p.tok = p.peek
		p.peek = nil
		return
	}
	p.tok = p.nextReal()
}

func (p *parser) peekTok() *lex.Token {
	if p.peek == nil {
		p.peek = p.nextReal()
	}
	return p.peek
}

func (p *parser) pos() Pos { return Pos{Row: p.tok.Row, Col: p.tok.Col} }

func (p *parser) errorf(format string, args ...interface{}) {
	p.errs = append(p.errs, &lerr.Error{
		Kind:     lerr.Parse,
		Cause:    fmt.Errorf(format, args...),
		FilePath: p.filePath,
		Row:      p.tok.Row,
		Col:      p.tok.Col,
	})
}

func (p *parser) expect(k lex.Kind) {
	if p.tok.Kind != k {
		p.errorf("expected %v, found %v", k, p.tok.Kind)
		return
	}
	p.advance()
}

func (p *parser) expectIdent() string {
	if p.tok.Kind != lex.IDENT {
		p.errorf("expected an identifier, found %v", p.tok.Kind)
		return ""
	}
	name := p.tok.Lexeme
	p.advance()
	return name
}

// parseBlock expects the current token to be the already-lexed '{' (its
// scanner position sits right after the brace); it reads raw source text
// up to the matching '}' directly, bypassing the tokenizer entirely for
// the block body, then resumes normal tokenizing past the close.
func (p *parser) parseBlock() string {
	if p.tok.Kind != lex.LBRACE {
		p.errorf("expected '{'")
		return ""
	}
	text, err := p.sc.RawBlock('{', '}')
	if err != nil {
		p.errorf("%v", err)
		return ""
	}
	p.advance()
	return text
}

func (p *parser) parseFile() *File {
	f := &File{}

	if p.tok.Kind == lex.KwHeader {
		p.advance()
		f.Header = p.parseBlock()
	}

	if p.tok.Kind == lex.KwStartSymbols {
		p.advance()
		f.StartSymbols = p.parseIdentList()
	}

	for p.tok.Kind == lex.KwRule {
		f.Rules = append(f.Rules, p.parseRule())
	}
	if len(f.Rules) == 0 {
		p.errorf("expected at least one 'rule' entry")
	}

	if p.tok.Kind == lex.KwTrailer {
		p.advance()
		f.Trailer = p.parseBlock()
	}

	if p.tok.Kind != lex.EOF {
		p.errorf("unexpected trailing token %v", p.tok.Kind)
	}
	return f
}

func (p *parser) parseIdentList() []string {
	var names []string
	for p.tok.Kind == lex.IDENT {
		names = append(names, p.tok.Lexeme)
		p.advance()
		if p.tok.Kind == lex.COMMA {
			p.advance()
		}
	}
	return names
}

func (p *parser) parseRule() *Rule {
	pos := p.pos()
	p.expect(lex.KwRule)
	name := p.expectIdent()

	var args []string
	if p.tok.Kind == lex.LPAREN {
		p.advance()
		for p.tok.Kind != lex.RPAREN && p.tok.Kind != lex.EOF {
			args = append(args, p.expectIdent())
			if p.tok.Kind == lex.COMMA {
				p.advance()
			}
		}
		p.expect(lex.RPAREN)
	}

	p.expect(lex.EQUALS)

	r := &Rule{Name: name, Args: args, P: pos}
	for isPatternStart(p.tok.Kind) {
		r.Clauses = append(r.Clauses, p.parseClause())
	}
	if len(r.Clauses) == 0 {
		p.errorf("rule %q has no clauses", name)
	}
	return r
}

func (p *parser) parseClause() *Clause {
	pos := p.pos()
	pattern := p.parseAlt()
	c := &Clause{Pattern: pattern, P: pos}

	switch p.tok.Kind {
	case lex.KwUnreachable:
		c.Unreachable = true
		p.advance()
	case lex.KwPartial:
		c.Partial = true
		p.advance()
		c.Code = p.parseBlock()
	case lex.LBRACE:
		c.Code = p.parseBlock()
	default:
		p.errorf("expected a '{' action block or 'unreachable', found %v", p.tok.Kind)
	}
	return c
}

func isPatternStart(k lex.Kind) bool {
	switch k {
	case lex.IDENT, lex.DOT, lex.UNDERSCORE, lex.BANG, lex.LBRACKET, lex.LPAREN:
		return true
	}
	return false
}

func (p *parser) parseAlt() Term {
	pos := p.pos()
	first := p.parseSeq()
	if p.tok.Kind != lex.PIPE {
		return first
	}
	items := []Term{first}
	for p.tok.Kind == lex.PIPE {
		p.advance()
		items = append(items, p.parseSeq())
	}
	return &AltTerm{Items: items, P: pos}
}

func (p *parser) parseSeq() Term {
	pos := p.pos()
	var items []Term
	for {
		if p.tok.Kind == lex.SEMI {
			p.advance()
			continue
		}
		if !isPatternStart(p.tok.Kind) {
			break
		}
		items = append(items, p.parsePostfix())
	}
	if len(items) == 0 {
		p.errorf("expected a pattern term")
		return &AtomTerm{Wildcard: true, P: pos}
	}
	if len(items) == 1 {
		return items[0]
	}
	return &SeqTerm{Items: items, P: pos}
}

func (p *parser) parsePostfix() Term {
	t := p.parsePrimary()
	for p.tok.Kind == lex.STAR {
		pos := p.pos()
		p.advance()
		t = &StarTerm{Sub: t, P: pos}
	}
	return t
}

func (p *parser) parsePrimary() Term {
	pos := p.pos()
	switch p.tok.Kind {
	case lex.LPAREN:
		p.advance()
		t := p.parseAlt()
		p.expect(lex.RPAREN)
		return t

	case lex.BANG:
		p.advance()
		return &ReduceTerm{P: pos}

	case lex.DOT, lex.UNDERSCORE:
		p.advance()
		cap := p.parseOptCapture()
		return &AtomTerm{Wildcard: true, Capture: cap, P: pos}

	case lex.IDENT:
		name := p.tok.Lexeme
		p.advance()
		cap := p.parseOptCapture()
		return &AtomTerm{Name: name, Capture: cap, P: pos}

	case lex.LBRACKET:
		return p.parseItem(pos)

	default:
		p.errorf("unexpected token %v in pattern", p.tok.Kind)
		p.advance()
		return &AtomTerm{Wildcard: true, P: pos}
	}
}

func (p *parser) parseOptCapture() string {
	if p.tok.Kind != lex.AT {
		return ""
	}
	p.advance()
	return p.expectIdent()
}

func (p *parser) parseItem(pos Pos) Term {
	p.expect(lex.LBRACKET)

	var lhs string
	hasLHS := false
	if p.tok.Kind == lex.IDENT && p.peekTok().Kind == lex.COLON {
		lhs = p.tok.Lexeme
		hasLHS = true
		p.advance()
		p.advance()
	}

	var prefix []SymbolAtom
	for p.tok.Kind == lex.IDENT || p.tok.Kind == lex.UNDERSCORE {
		prefix = append(prefix, p.parseSymbolAtom())
	}

	p.expect(lex.DOT)

	var suffix []SymbolAtom
	for p.tok.Kind == lex.IDENT || p.tok.Kind == lex.UNDERSCORE {
		suffix = append(suffix, p.parseSymbolAtom())
	}

	p.expect(lex.RBRACKET)
	cap := p.parseOptCapture()

	return &ItemTerm{LHS: lhs, HasLHS: hasLHS, Prefix: prefix, Suffix: suffix, Capture: cap, P: pos}
}

func (p *parser) parseSymbolAtom() SymbolAtom {
	if p.tok.Kind == lex.UNDERSCORE {
		p.advance()
		return SymbolAtom{Wildcard: true}
	}
	name := p.tok.Lexeme
	p.advance()
	return SymbolAtom{Name: name}
}
