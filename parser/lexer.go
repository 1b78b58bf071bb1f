// Package parser turns Dhall source text into a core.Term. The
// retrieval pack's dhall-golang didn't ship its grammar source (only
// its test expectations survived), so the lexer and grammar here are
// written from scratch against the standard Dhall ABNF, in the style
// of a hand-written recursive-descent parser rather than a generated
// one.
package parser

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokKeyword
	tokNatural
	tokInteger
	tokDouble
	tokTextLit
	tokSymbol
	tokLabel // quoted `identifier`
)

type token struct {
	kind tokenKind
	text string
	// chunks holds interpolated text pieces when kind == tokTextLit.
	chunks []textChunk
	pos    int
}

type textChunk struct {
	prefix string
	expr   []token // raw sub-token stream of ${...}, re-parsed by the parser
}

var keywords = map[string]bool{
	"if": true, "then": true, "else": true,
	"let": true, "in": true,
	"as": true, "using": true,
	"merge": true, "Some": true, "toMap": true, "assert": true,
	"forall": true, "with": true,
	"Infinity": true, "NaN": true,
	"missing": true,
}

type lexer struct {
	src  string
	pos  int
	toks []token
}

func newLexer(src string) *lexer { return &lexer{src: src} }

func (l *lexer) peekByte() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) tokenize() ([]token, error) {
	for {
		l.skipWhitespaceAndComments()
		if l.pos >= len(l.src) {
			l.toks = append(l.toks, token{kind: tokEOF, pos: l.pos})
			return l.toks, nil
		}
		start := l.pos
		c := l.peekByte()
		switch {
		case c == '"':
			tok, err := l.lexText()
			if err != nil {
				return nil, err
			}
			l.toks = append(l.toks, tok)
		case c == '`':
			lbl, err := l.lexQuotedLabel()
			if err != nil {
				return nil, err
			}
			l.toks = append(l.toks, token{kind: tokLabel, text: lbl, pos: start})
		case isDigit(c) || ((c == '+' || c == '-') && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1])):
			tok := l.lexNumber()
			l.toks = append(l.toks, tok)
		case c >= utf8.RuneSelf && hasUnicodeSymbolPrefix(l.src[l.pos:]):
			// λ is a Unicode letter, so this must precede the word case.
			l.toks = append(l.toks, token{kind: tokSymbol, text: l.lexSymbol(), pos: start})
		case isIdentStart(rune(c)) || c >= utf8.RuneSelf:
			word := l.lexWord()
			if word == "" {
				return nil, fmt.Errorf("parser: unexpected byte %q at offset %d", c, l.pos)
			}
			if keywords[word] {
				l.toks = append(l.toks, token{kind: tokKeyword, text: word, pos: start})
			} else {
				l.toks = append(l.toks, token{kind: tokIdent, text: word, pos: start})
			}
		default:
			sym := l.lexSymbol()
			if sym == "" {
				return nil, fmt.Errorf("parser: unexpected byte %q at offset %d", c, l.pos)
			}
			l.toks = append(l.toks, token{kind: tokSymbol, text: sym, pos: start})
		}
	}
}

func (l *lexer) skipWhitespaceAndComments() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			l.pos++
		case strings.HasPrefix(l.src[l.pos:], "--"):
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		case strings.HasPrefix(l.src[l.pos:], "{-"):
			depth := 1
			l.pos += 2
			for l.pos < len(l.src) && depth > 0 {
				if strings.HasPrefix(l.src[l.pos:], "{-") {
					depth++
					l.pos += 2
				} else if strings.HasPrefix(l.src[l.pos:], "-}") {
					depth--
					l.pos += 2
				} else {
					l.pos++
				}
			}
		default:
			return
		}
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentCont(r rune) bool {
	return r == '_' || r == '-' || r == '/' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (l *lexer) lexWord() string {
	start := l.pos
	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	if !isIdentStart(r) {
		return ""
	}
	l.pos += size
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if !isIdentCont(r) {
			break
		}
		l.pos += size
	}
	return l.src[start:l.pos]
}

func (l *lexer) lexNumber() token {
	start := l.pos
	kind := tokNatural
	if l.peekByte() == '+' || l.peekByte() == '-' {
		kind = tokInteger
		l.pos++
	}
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}
	isDouble := false
	if l.peekByte() == '.' && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1]) {
		isDouble = true
		l.pos++
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
	}
	if c := l.peekByte(); c == 'e' || c == 'E' {
		save := l.pos
		l.pos++
		if l.peekByte() == '+' || l.peekByte() == '-' {
			l.pos++
		}
		if l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			isDouble = true
			for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
				l.pos++
			}
		} else {
			l.pos = save
		}
	}
	if isDouble {
		kind = tokDouble
	}
	return token{kind: kind, text: l.src[start:l.pos], pos: start}
}

func (l *lexer) lexQuotedLabel() (string, error) {
	l.pos++ // opening backtick
	start := l.pos
	for l.pos < len(l.src) && l.src[l.pos] != '`' {
		l.pos++
	}
	if l.pos >= len(l.src) {
		return "", fmt.Errorf("parser: unterminated quoted label")
	}
	lbl := l.src[start:l.pos]
	l.pos++ // closing backtick
	return lbl, nil
}

// lexText handles both simple and interpolated double-quoted text
// literals. ${...} spans are tokenized recursively and stored as a
// nested token stream for the parser to re-enter.
func (l *lexer) lexText() (token, error) {
	start := l.pos
	l.pos++ // opening quote
	var chunks []textChunk
	var buf strings.Builder
	for {
		if l.pos >= len(l.src) {
			return token{}, fmt.Errorf("parser: unterminated text literal")
		}
		c := l.src[l.pos]
		switch {
		case c == '"':
			l.pos++
			chunks = append(chunks, textChunk{prefix: buf.String()})
			return token{kind: tokTextLit, chunks: chunks, pos: start}, nil
		case c == '\\':
			l.pos++
			if l.pos >= len(l.src) {
				return token{}, fmt.Errorf("parser: unterminated escape")
			}
			esc := l.src[l.pos]
			l.pos++
			switch esc {
			case 'n':
				buf.WriteByte('\n')
			case 't':
				buf.WriteByte('\t')
			case 'r':
				buf.WriteByte('\r')
			case '"', '\\', '$', '/', '\'':
				buf.WriteByte(esc)
			default:
				buf.WriteByte(esc)
			}
		case c == '$' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '{':
			l.pos += 2
			depth := 1
			exprStart := l.pos
			for l.pos < len(l.src) && depth > 0 {
				switch l.src[l.pos] {
				case '{':
					depth++
				case '}':
					depth--
					if depth == 0 {
						continue
					}
				}
				if depth > 0 {
					l.pos++
				}
			}
			exprSrc := l.src[exprStart:l.pos]
			l.pos++ // closing brace
			sub, err := newLexer(exprSrc).tokenize()
			if err != nil {
				return token{}, err
			}
			chunks = append(chunks, textChunk{prefix: buf.String(), expr: sub})
			buf.Reset()
		default:
			buf.WriteByte(c)
			l.pos++
		}
	}
}

// multiByteSymbols must list longer operators before any shorter
// operator that is also a prefix of them (e.g. "===" before "==").
var multiByteSymbols = []string{
	"===", "==", "!=", "::", "||", "&&", "++", "->",
	"λ", "→", "∀", "⩓", "∧", "⫽",
}

// hasUnicodeSymbolPrefix reports whether s starts with one of the
// non-ASCII entries of multiByteSymbols.
func hasUnicodeSymbolPrefix(s string) bool {
	for _, sym := range multiByteSymbols {
		if sym[0] >= utf8.RuneSelf && strings.HasPrefix(s, sym) {
			return true
		}
	}
	return false
}

func (l *lexer) lexSymbol() string {
	for _, s := range multiByteSymbols {
		if strings.HasPrefix(l.src[l.pos:], s) {
			l.pos += len(s)
			return s
		}
	}
	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += size
	return string(r)
}
