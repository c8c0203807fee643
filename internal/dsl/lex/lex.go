// Package lex tokenizes the pattern DSL of §6.2 with timtadh/lexmachine,
// the lexer idiom used by npillmayer/gorgo's lr/scanner/lexmach adapter.
//
// Code blocks ('{' ... '}', the host-language action bodies and the
// file's header/trailer) are not part of the token grammar: once the
// parser consumes the opening brace it calls Scanner.RawBlock to read the
// balanced text directly off the source buffer, then tokenizing resumes
// after the matching close.
package lex

import (
	"fmt"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"

	"github.com/nihei9/lrgrep/internal/lerr"
)

// Kind is a token category.
type Kind int

const (
	EOF Kind = iota
	IDENT
	DOT
	UNDERSCORE
	BANG
	SEMI
	PIPE
	STAR
	COLON
	AT
	COMMA
	EQUALS
	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	LBRACE
	RBRACE
	KwRule
	KwPartial
	KwUnreachable
	KwStartSymbols
	KwHeader
	KwTrailer
)

var kindNames = [...]string{
	"EOF", "identifier", "'.'", "'_'", "'!'", "';'", "'|'", "'*'", "':'",
	"'@'", "','", "'='", "'('", "')'", "'['", "']'", "'{'", "'}'",
	"'rule'", "'partial'", "'unreachable'", "'startsymbols'", "'header'", "'trailer'",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "?"
}

// Token is one lexed unit, carrying the source position of its first byte.
type Token struct {
	Kind   Kind
	Lexeme string
	Row    int
	Col    int
}

// Lexer holds the compiled lexmachine DFA; build once, reuse across files.
type Lexer struct {
	lx *lexmachine.Lexer
}

// New compiles the DSL's lexical rules.
func New() (*Lexer, error) {
	lx := lexmachine.NewLexer()

	// Keywords are registered before the identifier rule: lexmachine
	// resolves same-length matches by earliest-added rule.
	lx.Add([]byte(`rule`), tokenAction(KwRule))
	lx.Add([]byte(`partial`), tokenAction(KwPartial))
	lx.Add([]byte(`unreachable`), tokenAction(KwUnreachable))
	lx.Add([]byte(`startsymbols`), tokenAction(KwStartSymbols))
	lx.Add([]byte(`header`), tokenAction(KwHeader))
	lx.Add([]byte(`trailer`), tokenAction(KwTrailer))
	lx.Add([]byte(`[A-Za-z][A-Za-z0-9_]*`), tokenAction(IDENT))
	lx.Add([]byte(`\.`), tokenAction(DOT))
	lx.Add([]byte(`_`), tokenAction(UNDERSCORE))
	lx.Add([]byte(`!`), tokenAction(BANG))
	lx.Add([]byte(`;`), tokenAction(SEMI))
	lx.Add([]byte(`\|`), tokenAction(PIPE))
	lx.Add([]byte(`\*`), tokenAction(STAR))
	lx.Add([]byte(`:`), tokenAction(COLON))
	lx.Add([]byte(`@`), tokenAction(AT))
	lx.Add([]byte(`,`), tokenAction(COMMA))
	lx.Add([]byte(`=`), tokenAction(EQUALS))
	lx.Add([]byte(`\(`), tokenAction(LPAREN))
	lx.Add([]byte(`\)`), tokenAction(RPAREN))
	lx.Add([]byte(`\[`), tokenAction(LBRACKET))
	lx.Add([]byte(`\]`), tokenAction(RBRACKET))
	lx.Add([]byte(`\{`), tokenAction(LBRACE))
	lx.Add([]byte(`\}`), tokenAction(RBRACE))
	lx.Add([]byte(`//[^\n]*`), skip)
	lx.Add([]byte(`( |\t|\r|\n)+`), skip)

	if err := lx.Compile(); err != nil {
		return nil, fmt.Errorf("lex: cannot compile DSL lexer: %w", err)
	}
	return &Lexer{lx: lx}, nil
}

func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

func tokenAction(kind Kind) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return &Token{Kind: kind, Lexeme: string(m.Bytes), Row: m.StartLine + 1, Col: m.StartColumn + 1}, nil
	}
}

// Scanner drives one source file's token stream.
type Scanner struct {
	sc       *lexmachine.Scanner
	src      []byte
	filePath string
}

// NewScanner starts scanning src.
func (l *Lexer) NewScanner(filePath string, src []byte) (*Scanner, error) {
	sc, err := l.lx.Scanner(src)
	if err != nil {
		return nil, fmt.Errorf("lex: cannot start scanner: %w", err)
	}
	return &Scanner{sc: sc, src: src, filePath: filePath}, nil
}

// Next returns the next token. On malformed input it records a
// LexicalError (§7) and skips the offending byte, continuing the scan, so
// that the parser can still report other errors in the same pass.
func (s *Scanner) Next() (*Token, *lerr.Error) {
	tok, err, eof := s.sc.Next()
	if eof {
		return &Token{Kind: EOF}, nil
	}
	if err != nil {
		if ui, ok := err.(*machines.UnconsumedInput); ok {
			le := &lerr.Error{
				Kind:     lerr.Lex,
				Cause:    fmt.Errorf("unexpected input %q", string(ui.Text)),
				FilePath: s.filePath,
				Row:      ui.StartLine + 1,
				Col:      ui.StartColumn + 1,
			}
			s.sc.TC = ui.FailTC
			return nil, le
		}
		return nil, &lerr.Error{Kind: lerr.Lex, Cause: err, FilePath: s.filePath}
	}
	return tok.(*Token), nil
}

// RawBlock reads source text directly, starting at the scanner's current
// position, up to (not including) the next unnested close byte, honoring
// nesting of open/close pairs. It repositions the scanner so normal
// tokenizing resumes right after the matched close byte. The caller must
// already have consumed the opening delimiter as a token.
func (s *Scanner) RawBlock(open, close byte) (string, error) {
	start := s.sc.TC
	depth := 1
	i := start
	for i < len(s.src) {
		switch s.src[i] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				text := string(s.src[start:i])
				s.sc.TC = i + 1
				return text, nil
			}
		}
		i++
	}
	return "", fmt.Errorf("lex: unterminated block starting at byte offset %v", start)
}
