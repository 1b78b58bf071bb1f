package core

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// WriteTo renders t as Dhall source text, following opPrec's operator
// precedence table (ImportAltOp loosest, CompleteOp tightest; binary
// operators are right-associative) so the output only parenthesises
// where the grammar would otherwise parse differently. It satisfies io.WriterTo, the convention dhall-golang's
// own Expr type uses for its own source printer.
func (t wrappedTerm) WriteTo(w io.Writer) (int64, error) {
	s := Print(t.Term)
	n, err := io.WriteString(w, s)
	return int64(n), err
}

// wrappedTerm lets any Term satisfy io.WriterTo without every Term
// constructor needing its own WriteTo method.
type wrappedTerm struct{ Term }

// WriteTo adapts t to io.WriterTo.
func WriteTo(t Term, w io.Writer) (int64, error) {
	return wrappedTerm{t}.WriteTo(w)
}

// Print renders t as Dhall source text.
func Print(t Term) string {
	var b strings.Builder
	printExpr(&b, t, precLambda)
	return b.String()
}

// precedence levels, loosest-binds-first, mirroring the Dhall grammar:
// a printed subterm is parenthesised only when its own precedence is
// looser than the context it's printed into.
const (
	precLambda   = 0   // λ, ∀, let, if, merge, with — loosest
	precOp       = 100 // binary operators occupy precOp+i, i from opPrec's table
	precApp      = 200
	precSelector = 300
	precAtom     = 400 // literals, identifiers, parenthesised groups — tightest
)

func opPrec(op BinOpCode) int {
	// Standard Dhall operator precedence, loosest first; AndOp is an
	// unused alias of RecordMergeOp's "∧" spelling (see term.go) and
	// deliberately has no separate slot here.
	order := []BinOpCode{
		ImportAltOp, OrOp, PlusOp, TextAppendOp, ListAppendOp, BoolAndOp,
		RecordMergeOp, RightBiasedRecordMergeOp, RecordTypeMergeOp, TimesOp,
		EqOp, NeOp, EquivOp, CompleteOp,
	}
	for i, o := range order {
		if o == op {
			return precOp + i
		}
	}
	return precOp
}

func printExpr(b *strings.Builder, t Term, minPrec int) {
	prec, render := renderTerm(t)
	if prec < minPrec {
		b.WriteByte('(')
		render(b)
		b.WriteByte(')')
		return
	}
	render(b)
}

func renderTerm(t Term) (int, func(*strings.Builder)) {
	switch t := t.(type) {
	case Const:
		return precAtom, func(b *strings.Builder) { b.WriteString(t.String()) }
	case Builtin:
		return precAtom, func(b *strings.Builder) { b.WriteString(string(t)) }
	case Var:
		return precAtom, func(b *strings.Builder) {
			b.WriteString(string(t.Name))
			if t.Index != 0 {
				fmt.Fprintf(b, "@%d", t.Index)
			}
		}
	case LocalVar:
		return precAtom, func(b *strings.Builder) { fmt.Fprintf(b, "%s#%d", t.Name, t.Level) }
	case BoolLit:
		return precAtom, func(b *strings.Builder) {
			if t {
				b.WriteString("True")
			} else {
				b.WriteString("False")
			}
		}
	case NaturalLit:
		return precAtom, func(b *strings.Builder) { fmt.Fprintf(b, "%d", uint64(t)) }
	case IntegerLit:
		return precAtom, func(b *strings.Builder) {
			if t >= 0 {
				fmt.Fprintf(b, "+%d", int64(t))
			} else {
				fmt.Fprintf(b, "%d", int64(t))
			}
		}
	case DoubleLit:
		return precAtom, func(b *strings.Builder) { b.WriteString(formatDouble(float64(t))) }
	case TextLit:
		return precAtom, func(b *strings.Builder) { printTextLit(b, t) }
	case EmptyList:
		return precAtom, func(b *strings.Builder) {
			b.WriteString("[] : ")
			printExpr(b, t.Type, precOp)
		}
	case NonEmptyList:
		return precAtom, func(b *strings.Builder) {
			b.WriteByte('[')
			for i, e := range t {
				if i > 0 {
					b.WriteString(", ")
				}
				printExpr(b, e, precOp)
			}
			b.WriteByte(']')
		}
	case Some:
		return precApp, func(b *strings.Builder) {
			b.WriteString("Some ")
			printExpr(b, t.Val, precSelector)
		}
	case RecordType:
		return precAtom, func(b *strings.Builder) { printRecord(b, "{ ", " : ", "}", sortedKeys(t), func(k Label) Term { return t[k] }) }
	case RecordLit:
		return precAtom, func(b *strings.Builder) {
			if len(t) == 0 {
				b.WriteString("{=}")
				return
			}
			names := make([]Label, 0, len(t))
			for k := range t {
				names = append(names, k)
			}
			sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
			printRecord(b, "{ ", " = ", "}", names, func(k Label) Term { return t[k] })
		}
	case UnionType:
		return precAtom, func(b *strings.Builder) { printUnion(b, t) }
	case Lam:
		return precLambda, func(b *strings.Builder) {
			fmt.Fprintf(b, "\\(%s : ", t.Label)
			printExpr(b, t.Type, precOp)
			b.WriteString(") -> ")
			printExpr(b, t.Body, precLambda)
		}
	case Pi:
		return precLambda, func(b *strings.Builder) {
			if t.Label == "_" {
				printExpr(b, t.Type, precOp+1)
				b.WriteString(" -> ")
			} else {
				fmt.Fprintf(b, "forall (%s : ", t.Label)
				printExpr(b, t.Type, precOp)
				b.WriteString(") -> ")
			}
			printExpr(b, t.Body, precLambda)
		}
	case Let:
		return precLambda, func(b *strings.Builder) {
			for _, bind := range t.Bindings {
				fmt.Fprintf(b, "let %s", bind.Variable)
				if bind.Annotation != nil {
					b.WriteString(" : ")
					printExpr(b, bind.Annotation, precOp)
				}
				b.WriteString(" = ")
				printExpr(b, bind.Value, precLambda)
				b.WriteString(" ")
			}
			b.WriteString("in ")
			printExpr(b, t.Body, precLambda)
		}
	case App:
		return precApp, func(b *strings.Builder) {
			printExpr(b, t.Fn, precApp)
			b.WriteByte(' ')
			printExpr(b, t.Arg, precSelector)
		}
	case Op:
		return opPrec(t.OpCode), func(b *strings.Builder) {
			p := opPrec(t.OpCode)
			printExpr(b, t.L, p+1)
			fmt.Fprintf(b, " %s ", t.OpCode)
			printExpr(b, t.R, p)
		}
	case Field:
		return precSelector, func(b *strings.Builder) {
			printExpr(b, t.Record, precSelector)
			fmt.Fprintf(b, ".%s", t.FieldName)
		}
	case Project:
		return precSelector, func(b *strings.Builder) {
			printExpr(b, t.Record, precSelector)
			b.WriteString(".{ ")
			for i, n := range t.FieldNames {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(string(n))
			}
			b.WriteString(" }")
		}
	case ProjectType:
		return precSelector, func(b *strings.Builder) {
			printExpr(b, t.Record, precSelector)
			b.WriteString(".(")
			printExpr(b, t.Selector, precOp)
			b.WriteString(")")
		}
	case If:
		return precLambda, func(b *strings.Builder) {
			b.WriteString("if ")
			printExpr(b, t.Cond, precLambda)
			b.WriteString(" then ")
			printExpr(b, t.T, precLambda)
			b.WriteString(" else ")
			printExpr(b, t.F, precLambda)
		}
	case Merge:
		return precApp, func(b *strings.Builder) {
			b.WriteString("merge ")
			printExpr(b, t.Handler, precSelector)
			b.WriteByte(' ')
			printExpr(b, t.Union, precSelector)
			if t.Annotation != nil {
				b.WriteString(" : ")
				printExpr(b, t.Annotation, precOp)
			}
		}
	case ToMap:
		return precApp, func(b *strings.Builder) {
			b.WriteString("toMap ")
			printExpr(b, t.Record, precSelector)
			if t.Type != nil {
				b.WriteString(" : ")
				printExpr(b, t.Type, precOp)
			}
		}
	case With:
		return precLambda, func(b *strings.Builder) {
			printExpr(b, t.Record, precApp)
			b.WriteString(" with ")
			for i, p := range t.Path {
				if i > 0 {
					b.WriteByte('.')
				}
				b.WriteString(string(p))
			}
			b.WriteString(" = ")
			printExpr(b, t.Value, precOp)
		}
	case Annot:
		return precLambda, func(b *strings.Builder) {
			printExpr(b, t.Expr, precOp)
			b.WriteString(" : ")
			printExpr(b, t.Annotation, precOp)
		}
	case Assert:
		return precLambda, func(b *strings.Builder) {
			b.WriteString("assert : ")
			printExpr(b, t.Annotation, precOp)
		}
	case Import:
		return precAtom, func(b *strings.Builder) { b.WriteString(t.Raw) }
	default:
		return precAtom, func(b *strings.Builder) { fmt.Fprintf(b, "<?unprintable %T?>", t) }
	}
}

func printRecord(b *strings.Builder, open, sep, close string, names []Label, field func(Label) Term) {
	if len(names) == 0 {
		b.WriteString("{}")
		return
	}
	b.WriteString(open)
	for i, name := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(string(name))
		b.WriteString(sep)
		printExpr(b, field(name), precOp)
	}
	b.WriteByte(' ')
	b.WriteString(close)
}

func printUnion(b *strings.Builder, t UnionType) {
	if len(t) == 0 {
		b.WriteString("<>")
		return
	}
	b.WriteString("< ")
	for i, name := range sortedUnionTermKeys(t) {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(string(name))
		if payload := t[name]; payload != nil {
			b.WriteString(" : ")
			printExpr(b, payload, precOp)
		}
	}
	b.WriteString(" >")
}

func printTextLit(b *strings.Builder, t TextLit) {
	b.WriteByte('"')
	for _, c := range t.Chunks {
		b.WriteString(escapeText(c.Prefix))
		b.WriteString("${")
		printExpr(b, c.Expr, precLambda)
		b.WriteString("}")
	}
	b.WriteString(escapeText(t.Suffix))
	b.WriteByte('"')
}

func escapeText(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if r < 0x20 {
				b.WriteString(strconv.QuoteRune(r))
				continue
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}
