package parser

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/go-dhall/dhall-core/core"
	"github.com/pkg/errors"
)

// Parse lexes and parses src as a Dhall expression, returning the
// resulting core.Term. filename is used only in error messages.
func Parse(filename string, src []byte) (core.Term, error) {
	toks, err := newLexer(string(src)).tokenize()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	p := &parser{toks: toks, filename: filename}
	t, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, p.errorf("unexpected trailing input %q", p.peek().text)
	}
	return t, nil
}

// ParseFile reads path and parses it as a Dhall expression.
func ParseFile(path string) (core.Term, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "parser: reading "+path)
	}
	return Parse(path, src)
}

// ParseReader reads r to completion and parses it as a Dhall
// expression. filename is used only in error messages.
func ParseReader(filename string, r io.Reader) (core.Term, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "parser: reading "+filename)
	}
	return Parse(filename, src)
}

type parser struct {
	toks     []token
	pos      int
	filename string
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("%s:%d: %s", p.filename, p.peek().pos, fmt.Sprintf(format, args...))
}

func (p *parser) isSymbol(s string) bool {
	t := p.peek()
	return t.kind == tokSymbol && t.text == s
}

func (p *parser) isKeyword(s string) bool {
	t := p.peek()
	return t.kind == tokKeyword && t.text == s
}

func (p *parser) expectSymbol(s string) error {
	if !p.isSymbol(s) {
		return p.errorf("expected %q, got %q", s, p.peek().text)
	}
	p.next()
	return nil
}

// parseExpression is the grammar's top-level `expression` production:
// the keyword-led forms (lambda, forall, let, if, merge, toMap, with,
// assert) and finally an annotated operator expression.
func (p *parser) parseExpression() (core.Term, error) {
	t := p.peek()
	switch {
	case t.kind == tokSymbol && (t.text == "λ" || t.text == "\\"):
		return p.parseLambda()
	case t.kind == tokSymbol && t.text == "∀":
		return p.parsePi("∀")
	case t.kind == tokKeyword && t.text == "forall":
		return p.parsePi("forall")
	case t.kind == tokKeyword && t.text == "let":
		return p.parseLet()
	case t.kind == tokKeyword && t.text == "if":
		return p.parseIf()
	case t.kind == tokKeyword && t.text == "merge":
		return p.parseMerge()
	case t.kind == tokKeyword && t.text == "toMap":
		return p.parseToMap()
	case t.kind == tokKeyword && t.text == "assert":
		return p.parseAssert()
	}
	return p.parseAnnotated()
}

func (p *parser) parseLambda() (core.Term, error) {
	p.next() // λ or \
	if err := p.expectSymbol("("); err != nil {
		return nil, err
	}
	label, err := p.parseLabel()
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol(":"); err != nil {
		return nil, err
	}
	typ, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol(")"); err != nil {
		return nil, err
	}
	if !p.isSymbol("→") && !p.isSymbol("->") {
		return nil, p.errorf("expected → after lambda binder")
	}
	p.next()
	body, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return core.Lam{Label: label, Type: typ, Body: body}, nil
}

func (p *parser) parsePi(kw string) (core.Term, error) {
	p.next() // ∀ or forall
	if err := p.expectSymbol("("); err != nil {
		return nil, err
	}
	label, err := p.parseLabel()
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol(":"); err != nil {
		return nil, err
	}
	typ, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol(")"); err != nil {
		return nil, err
	}
	if !p.isSymbol("→") && !p.isSymbol("->") {
		return nil, p.errorf("expected → after %s binder", kw)
	}
	p.next()
	body, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return core.Pi{Label: label, Type: typ, Body: body}, nil
}

func (p *parser) parseLet() (core.Term, error) {
	var bindings []core.Binding
	for p.isKeyword("let") {
		p.next()
		label, err := p.parseLabel()
		if err != nil {
			return nil, err
		}
		var annot core.Term
		if p.isSymbol(":") {
			p.next()
			annot, err = p.parseExpression()
			if err != nil {
				return nil, err
			}
		}
		if err := p.expectSymbol("="); err != nil {
			return nil, err
		}
		val, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, core.Binding{Variable: label, Annotation: annot, Value: val})
	}
	if !p.isKeyword("in") {
		return nil, p.errorf("expected 'in' to close let binding")
	}
	p.next()
	body, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return core.Let{Bindings: bindings, Body: body}, nil
}

func (p *parser) parseIf() (core.Term, error) {
	p.next() // if
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if !p.isKeyword("then") {
		return nil, p.errorf("expected 'then'")
	}
	p.next()
	tBranch, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if !p.isKeyword("else") {
		return nil, p.errorf("expected 'else'")
	}
	p.next()
	fBranch, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return core.If{Cond: cond, T: tBranch, F: fBranch}, nil
}

func (p *parser) parseMerge() (core.Term, error) {
	p.next() // merge
	handler, err := p.parseSelectorExpression()
	if err != nil {
		return nil, err
	}
	union, err := p.parseSelectorExpression()
	if err != nil {
		return nil, err
	}
	var annot core.Term
	if p.isSymbol(":") {
		p.next()
		annot, err = p.parseOperatorExpression()
		if err != nil {
			return nil, err
		}
	}
	return core.Merge{Handler: handler, Union: union, Annotation: annot}, nil
}

func (p *parser) parseToMap() (core.Term, error) {
	p.next() // toMap
	rec, err := p.parseSelectorExpression()
	if err != nil {
		return nil, err
	}
	var typ core.Term
	if p.isSymbol(":") {
		p.next()
		typ, err = p.parseOperatorExpression()
		if err != nil {
			return nil, err
		}
	}
	return core.ToMap{Record: rec, Type: typ}, nil
}

func (p *parser) parseAssert() (core.Term, error) {
	p.next() // assert
	if err := p.expectSymbol(":"); err != nil {
		return nil, err
	}
	annot, err := p.parseOperatorExpression()
	if err != nil {
		return nil, err
	}
	return core.Assert{Annotation: annot}, nil
}

// parseAnnotated parses an operatorExpression optionally followed by
// `: type`, and also handles the trailing `with` suffix.
func (p *parser) parseAnnotated() (core.Term, error) {
	expr, err := p.parseOperatorExpression()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("with") {
		p.next()
		path, err := p.parseWithPath()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol("="); err != nil {
			return nil, err
		}
		val, err := p.parseOperatorExpression()
		if err != nil {
			return nil, err
		}
		expr = core.With{Record: expr, Path: path, Value: val}
	}
	if p.isSymbol(":") {
		p.next()
		typ, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		expr = core.Annot{Expr: expr, Annotation: typ}
	}
	return expr, nil
}

func (p *parser) parseWithPath() ([]core.Label, error) {
	var path []core.Label
	lbl, err := p.parseLabel()
	if err != nil {
		return nil, err
	}
	path = append(path, lbl)
	for p.isSymbol(".") {
		p.next()
		lbl, err := p.parseLabel()
		if err != nil {
			return nil, err
		}
		path = append(path, lbl)
	}
	return path, nil
}

// operator precedence, loosest to tightest.
var opLevels = []struct {
	code    core.BinOpCode
	symbols []string
}{
	{core.ImportAltOp, []string{"?"}},
	{core.OrOp, []string{"||"}},
	{core.PlusOp, []string{"+"}},
	{core.TextAppendOp, []string{"++"}},
	{core.ListAppendOp, []string{"#"}},
	{core.BoolAndOp, []string{"&&"}},
	{core.RecordMergeOp, []string{"∧"}},
	{core.RightBiasedRecordMergeOp, []string{"⫽"}},
	{core.RecordTypeMergeOp, []string{"⩓"}},
	{core.TimesOp, []string{"*"}},
	{core.EqOp, []string{"=="}},
	{core.NeOp, []string{"!="}},
	{core.EquivOp, []string{"==="}},
}

func (p *parser) parseOperatorExpression() (core.Term, error) {
	return p.parseOpLevel(0)
}

func (p *parser) parseOpLevel(level int) (core.Term, error) {
	if level >= len(opLevels) {
		return p.parseCompleteExpression()
	}
	lhs, err := p.parseOpLevel(level + 1)
	if err != nil {
		return nil, err
	}
	lv := opLevels[level]
	matched := ""
	if p.peek().kind == tokSymbol {
		for _, s := range lv.symbols {
			if p.peek().text == s {
				matched = s
				break
			}
		}
	}
	if matched == "" {
		return lhs, nil
	}
	// `+` without surrounding whitespace immediately before a digit
	// is Natural-literal-leading application, not NaturalPlus; the
	// lexer doesn't preserve whitespace info, so PlusOp parsing
	// simply requires the operator token to have been lexed as a
	// distinct symbol, which only happens when whitespace separated
	// it from a following sign-less number.
	p.next()
	// Recurse at the same level, not level+1, so a chain of operators
	// sharing a precedence level builds a right-leaning tree: a op b op c
	// parses as a op (b op c).
	rhs, err := p.parseOpLevel(level)
	if err != nil {
		return nil, err
	}
	return core.Op{OpCode: lv.code, L: lhs, R: rhs}, nil
}

// parseCompleteExpression handles the `::` operator, which is tighter
// than every binop but looser than application.
func (p *parser) parseCompleteExpression() (core.Term, error) {
	lhs, err := p.parseApplicationExpression()
	if err != nil {
		return nil, err
	}
	for p.isSymbol("::") {
		p.next()
		rhs, err := p.parseApplicationExpression()
		if err != nil {
			return nil, err
		}
		lhs = core.Op{OpCode: core.CompleteOp, L: lhs, R: rhs}
	}
	return lhs, nil
}

func (p *parser) parseApplicationExpression() (core.Term, error) {
	if p.isKeyword("Some") {
		p.next()
		val, err := p.parseSelectorExpression()
		if err != nil {
			return nil, err
		}
		return core.Some{Val: val}, nil
	}
	fn, err := p.parseSelectorExpression()
	if err != nil {
		return nil, err
	}
	for p.startsSelectorExpression() {
		arg, err := p.parseSelectorExpression()
		if err != nil {
			return nil, err
		}
		fn = core.App{Fn: fn, Arg: arg}
	}
	return fn, nil
}

func (p *parser) startsSelectorExpression() bool {
	t := p.peek()
	switch t.kind {
	case tokIdent, tokNatural, tokInteger, tokDouble, tokTextLit, tokLabel:
		return true
	case tokKeyword:
		return t.text == "Some" || t.text == "toMap" || t.text == "merge"
	case tokSymbol:
		switch t.text {
		case "(", "{", "[", "<", "-", "λ", "\\", "∀":
			return true
		}
	}
	return false
}

// parseSelectorExpression parses a primitive expression followed by
// zero or more `.field`, `.{ fields }`, or `.(expr)` selectors.
func (p *parser) parseSelectorExpression() (core.Term, error) {
	expr, err := p.parsePrimitiveExpression()
	if err != nil {
		return nil, err
	}
	for p.isSymbol(".") {
		p.next()
		switch {
		case p.isSymbol("{"):
			p.next()
			var names []core.Label
			for !p.isSymbol("}") {
				lbl, err := p.parseLabel()
				if err != nil {
					return nil, err
				}
				names = append(names, lbl)
				if p.isSymbol(",") {
					p.next()
				}
			}
			p.next() // }
			expr = core.Project{Record: expr, FieldNames: names}
		case p.isSymbol("("):
			p.next()
			sel, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if err := p.expectSymbol(")"); err != nil {
				return nil, err
			}
			expr = core.ProjectType{Record: expr, Selector: sel}
		default:
			lbl, err := p.parseLabel()
			if err != nil {
				return nil, err
			}
			expr = core.Field{Record: expr, FieldName: lbl}
		}
	}
	return expr, nil
}

func (p *parser) parseLabel() (core.Label, error) {
	t := p.peek()
	if t.kind == tokIdent || t.kind == tokLabel {
		p.next()
		return core.Label(t.text), nil
	}
	if t.kind == tokKeyword {
		p.next()
		return core.Label(t.text), nil
	}
	return "", p.errorf("expected label, got %q", t.text)
}

func (p *parser) parsePrimitiveExpression() (core.Term, error) {
	t := p.peek()
	switch t.kind {
	case tokNatural:
		p.next()
		n, err := strconv.ParseUint(t.text, 10, 64)
		if err != nil {
			return nil, p.errorf("invalid natural literal %q", t.text)
		}
		return core.NaturalLit(n), nil
	case tokInteger:
		p.next()
		n, err := strconv.ParseInt(t.text, 10, 64)
		if err != nil {
			return nil, p.errorf("invalid integer literal %q", t.text)
		}
		return core.IntegerLit(n), nil
	case tokDouble:
		p.next()
		f, err := strconv.ParseFloat(strings.TrimPrefix(t.text, "+"), 64)
		if err != nil {
			return nil, p.errorf("invalid double literal %q", t.text)
		}
		return core.DoubleLit(f), nil
	case tokTextLit:
		p.next()
		return p.buildTextLit(t)
	case tokIdent, tokLabel:
		p.next()
		idx := 0
		if p.isSymbol("@") {
			p.next()
			n := p.peek()
			if n.kind != tokNatural {
				return nil, p.errorf("expected index after @")
			}
			p.next()
			v, _ := strconv.Atoi(n.text)
			idx = v
		}
		return builtinOrVar(t.text, idx), nil
	case tokKeyword:
		switch t.text {
		case "Infinity":
			p.next()
			return core.DoubleLit(math.Inf(1)), nil
		case "NaN":
			p.next()
			return core.DoubleLit(math.NaN()), nil
		case "missing":
			p.next()
			return core.Import{Raw: "missing"}, nil
		}
		return nil, p.errorf("unexpected keyword %q", t.text)
	case tokSymbol:
		switch t.text {
		case "(":
			p.next()
			expr, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if err := p.expectSymbol(")"); err != nil {
				return nil, err
			}
			return expr, nil
		case "{":
			return p.parseRecord()
		case "[":
			return p.parseList()
		case "<":
			return p.parseUnionType()
		case "-":
			p.next()
			n := p.peek()
			if n.kind == tokNatural {
				p.next()
				v, err := strconv.ParseInt(n.text, 10, 64)
				if err != nil {
					return nil, p.errorf("invalid integer literal")
				}
				return core.IntegerLit(-v), nil
			}
			if n.kind == tokKeyword && n.text == "Infinity" {
				p.next()
				return core.DoubleLit(math.Inf(-1)), nil
			}
			return nil, p.errorf("unexpected '-'")
		case "λ", "\\":
			return p.parseLambda()
		case "∀":
			return p.parsePi("∀")
		}
	}
	return nil, p.errorf("unexpected token %q", t.text)
}

func builtinOrVar(name string, idx int) core.Term {
	if idx == 0 {
		switch name {
		case "Type":
			return core.Type
		case "Kind":
			return core.Kind
		case "Sort":
			return core.Sort
		case "True":
			return core.BoolLit(true)
		case "False":
			return core.BoolLit(false)
		}
		if b, ok := core.LookupBuiltin(name); ok {
			return b
		}
	}
	return core.Var{Name: core.Label(name), Index: idx}
}

func (p *parser) buildTextLit(t token) (core.Term, error) {
	lit := core.TextLit{}
	for i, c := range t.chunks {
		if i < len(t.chunks)-1 {
			sub := &parser{toks: c.expr, filename: p.filename}
			expr, err := sub.parseExpression()
			if err != nil {
				return nil, err
			}
			lit.Chunks = append(lit.Chunks, core.Chunk{Prefix: c.prefix, Expr: expr})
		} else {
			lit.Suffix = c.prefix
		}
	}
	return lit, nil
}

func (p *parser) parseRecord() (core.Term, error) {
	p.next() // {
	if p.isSymbol("}") {
		p.next()
		return core.RecordType{}, nil
	}
	if p.isSymbol("=") { // `{ = }` empty record literal spelling
		p.next()
		if err := p.expectSymbol("}"); err != nil {
			return nil, err
		}
		return core.RecordLit{}, nil
	}
	lbl, err := p.parseLabel()
	if err != nil {
		return nil, err
	}
	isType := p.isSymbol(":")
	if isType {
		p.next()
		typ, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		rt := core.RecordType{lbl: typ}
		for p.isSymbol(",") {
			p.next()
			lbl, err := p.parseLabel()
			if err != nil {
				return nil, err
			}
			if err := p.expectSymbol(":"); err != nil {
				return nil, err
			}
			typ, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			rt[lbl] = typ
		}
		if err := p.expectSymbol("}"); err != nil {
			return nil, err
		}
		return rt, nil
	}
	if err := p.expectSymbol("="); err != nil {
		return nil, err
	}
	val, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	rl := core.RecordLit{lbl: val}
	for p.isSymbol(",") {
		p.next()
		lbl, err := p.parseLabel()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol("="); err != nil {
			return nil, err
		}
		val, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		rl[lbl] = val
	}
	if err := p.expectSymbol("}"); err != nil {
		return nil, err
	}
	return rl, nil
}

func (p *parser) parseList() (core.Term, error) {
	p.next() // [
	var elems []core.Term
	if !p.isSymbol("]") {
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		for p.isSymbol(",") {
			p.next()
			e, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
		}
	}
	if err := p.expectSymbol("]"); err != nil {
		return nil, err
	}
	if len(elems) == 0 {
		if err := p.expectSymbol(":"); err != nil {
			return nil, p.errorf("empty list literal needs a `: List T` annotation")
		}
		typ, err := p.parseOperatorExpression()
		if err != nil {
			return nil, err
		}
		return core.EmptyList{Type: typ}, nil
	}
	return core.NonEmptyList(elems), nil
}

func (p *parser) parseUnionType() (core.Term, error) {
	p.next() // <
	ut := core.UnionType{}
	if p.isSymbol(">") {
		p.next()
		return ut, nil
	}
	for {
		lbl, err := p.parseLabel()
		if err != nil {
			return nil, err
		}
		var typ core.Term
		if p.isSymbol(":") {
			p.next()
			typ, err = p.parseExpression()
			if err != nil {
				return nil, err
			}
		}
		ut[lbl] = typ
		if p.isSymbol("|") {
			p.next()
			continue
		}
		break
	}
	if err := p.expectSymbol(">"); err != nil {
		return nil, err
	}
	return ut, nil
}
