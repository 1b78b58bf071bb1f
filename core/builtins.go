package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// nativeFn is a Callable backed by a plain Go function rather than a
// Closure over a Term; it exists so the church-encoding builtins
// (Natural/build, List/build, Optional/build) can hand Dhall code a
// "function" that performs primitive operations (increment, cons)
// without synthesising Lam/Pi terms for them.
type nativeFn struct {
	fn func(arg *Value) ValueKind
}

func (nativeFn) isValueKind()             {}
func (n nativeFn) Call(arg *Value) ValueKind { return n.fn(arg) }

func native(fn func(arg *Value) ValueKind) *Value {
	return NewWHNF(nativeFn{fn: fn}, nil)
}

// Call makes the type-level Builtin constants into Callables: the
// handful that take arguments (Natural/fold, List/build, …) start
// accumulating into an AppliedBuiltin; everything else (Bool, List,
// the type constructors) isn't callable at all, so applying one just
// stays a stuck AppValue, matching `List Natural`.
func (b Builtin) Call(arg *Value) ValueKind {
	switch b {
	case NoneBuiltin:
		return VEmptyOptional{Type: arg}
	case NaturalBuild, NaturalFold, NaturalIsZero, NaturalEven, NaturalOdd,
		NaturalShow, NaturalSubtract, NaturalToInteger,
		IntegerShow, IntegerToDouble, IntegerNegate, IntegerClamp,
		DoubleShow, OptionalBuild, OptionalFold, TextShow,
		ListBuild, ListFold, ListLength, ListHead, ListLast, ListIndexed, ListReverse:
		return reduceAppliedBuiltin(AppliedBuiltin{B: b, Args: []*Value{arg}})
	default:
		return nil
	}
}

// Call on an already-partially-applied builtin accumulates one more
// argument and retries reduction.
func (ab AppliedBuiltin) Call(arg *Value) ValueKind {
	args := make([]*Value, len(ab.Args)+1)
	copy(args, ab.Args)
	args[len(ab.Args)] = arg
	return reduceAppliedBuiltin(AppliedBuiltin{B: ab.B, Args: args})
}

func (l VLamClosure) Call(arg *Value) ValueKind { return l.Closure.Apply(arg).Kind() }

func (u VUnionConstructor) Call(arg *Value) ValueKind {
	return VUnionLit{Alt: u.Alt, Val: arg, Alts: u.Alts, Type: u.Type}
}

// reduceAppliedBuiltin is the saturation/reduction table for every
// "function" builtin: it inspects how many arguments have been
// captured and, once enough of them are known literals, performs the
// β-rule. When it cannot yet make progress it returns ab unchanged
// (still a stuck AppliedBuiltin, waiting for more arguments or for an
// argument to reduce further).
func reduceAppliedBuiltin(ab AppliedBuiltin) ValueKind {
	a := ab.Args
	switch ab.B {
	case NaturalIsZero:
		if n, ok := a[0].Kind().(NaturalLit); ok {
			return BoolLit(n == 0)
		}
	case NaturalEven:
		if n, ok := a[0].Kind().(NaturalLit); ok {
			return BoolLit(n%2 == 0)
		}
	case NaturalOdd:
		if n, ok := a[0].Kind().(NaturalLit); ok {
			return BoolLit(n%2 == 1)
		}
	case NaturalShow:
		if n, ok := a[0].Kind().(NaturalLit); ok {
			return VTextLit{Suffix: strconv.FormatUint(uint64(n), 10)}
		}
	case NaturalToInteger:
		if n, ok := a[0].Kind().(NaturalLit); ok {
			return IntegerLit(n)
		}
	case NaturalSubtract:
		if len(a) == 2 {
			x, xok := a[0].Kind().(NaturalLit)
			if xok && x == 0 {
				return a[1].Kind()
			}
			y, yok := a[1].Kind().(NaturalLit)
			if yok && y == 0 {
				return NaturalLit(0)
			}
			if xok && yok {
				if y >= x {
					return NaturalLit(y - x)
				}
				return NaturalLit(0)
			}
			if valuesEqual(a[0], a[1]) {
				return NaturalLit(0)
			}
		}
	case NaturalBuild:
		g := a[0]
		succ := native(func(x *Value) ValueKind {
			n, _ := x.Kind().(NaturalLit)
			return NaturalLit(n + 1)
		})
		zero := NewWHNF(NaturalLit(0), nil)
		return applyVal(applyVal(applyVal(g, NewWHNF(Builtin(NaturalType), nil)), succ), zero).Kind()
	case NaturalFold:
		if len(a) == 4 {
			if n, ok := a[0].Kind().(NaturalLit); ok {
				acc := a[3]
				for i := NaturalLit(0); i < n; i++ {
					acc = applyVal(a[2], acc)
				}
				return acc.Kind()
			}
		}
	case IntegerShow:
		if n, ok := a[0].Kind().(IntegerLit); ok {
			if n >= 0 {
				return VTextLit{Suffix: "+" + strconv.FormatInt(int64(n), 10)}
			}
			return VTextLit{Suffix: strconv.FormatInt(int64(n), 10)}
		}
	case IntegerToDouble:
		if n, ok := a[0].Kind().(IntegerLit); ok {
			return DoubleLit(float64(n))
		}
	case IntegerNegate:
		if n, ok := a[0].Kind().(IntegerLit); ok {
			return IntegerLit(-n)
		}
	case IntegerClamp:
		if n, ok := a[0].Kind().(IntegerLit); ok {
			if n < 0 {
				return NaturalLit(0)
			}
			return NaturalLit(n)
		}
	case DoubleShow:
		if n, ok := a[0].Kind().(DoubleLit); ok {
			return VTextLit{Suffix: formatDouble(float64(n))}
		}
	case TextShow:
		if t, ok := a[0].Kind().(VTextLit); ok && len(t.Chunks) == 0 {
			return VTextLit{Suffix: escapeTextShow(t.Suffix)}
		}
	case OptionalBuild:
		if len(a) == 2 {
			elemType, g := a[0], a[1]
			optType := NewWHNF(AppValue{Fn: NewWHNF(Builtin(OptionalType), nil), Arg: elemType}, nil)
			some := native(func(x *Value) ValueKind { return VSome{Val: x} })
			none := applyVal(NewWHNF(Builtin(NoneBuiltin), nil), elemType)
			return applyVal(applyVal(applyVal(g, optType), some), none).Kind()
		}
	case OptionalFold:
		if len(a) == 5 {
			switch opt := a[1].Kind().(type) {
			case VSome:
				return applyVal(a[3], opt.Val).Kind()
			case VEmptyOptional:
				return a[4].Kind()
			}
		}
	case ListBuild:
		if len(a) == 2 {
			elemType, g := a[0], a[1]
			listType := NewWHNF(AppValue{Fn: NewWHNF(Builtin(ListType), nil), Arg: elemType}, nil)
			cons := native(func(x *Value) ValueKind {
				return nativeFn{fn: func(acc *Value) ValueKind {
					switch ak := acc.Kind().(type) {
					case VEmptyList:
						return VNonEmptyList{x}
					case VNonEmptyList:
						out := make(VNonEmptyList, 0, len(ak)+1)
						out = append(out, x)
						out = append(out, ak...)
						return out
					default:
						// cons is only ever invoked on the nil/cons
						// chain List/build itself seeded, which is
						// always an EmptyList or NonEmptyList.
						panic("core: List/build: cons applied to a non-list accumulator")
					}
				}}
			})
			nilVal := NewWHNF(VEmptyList{Type: listType}, nil)
			return applyVal(applyVal(applyVal(g, listType), cons), nilVal).Kind()
		}
	case ListFold:
		if len(a) == 5 {
			switch xs := a[1].Kind().(type) {
			case VEmptyList:
				return a[4].Kind()
			case VNonEmptyList:
				acc := a[4]
				for i := len(xs) - 1; i >= 0; i-- {
					acc = applyVal(applyVal(a[3], xs[i]), acc)
				}
				return acc.Kind()
			}
		}
	case ListLength:
		if len(a) == 2 {
			switch xs := a[1].Kind().(type) {
			case VEmptyList:
				return NaturalLit(0)
			case VNonEmptyList:
				return NaturalLit(len(xs))
			}
		}
	case ListHead:
		if len(a) == 2 {
			switch xs := a[1].Kind().(type) {
			case VEmptyList:
				return VEmptyOptional{Type: a[0]}
			case VNonEmptyList:
				return VSome{Val: xs[0]}
			}
		}
	case ListLast:
		if len(a) == 2 {
			switch xs := a[1].Kind().(type) {
			case VEmptyList:
				return VEmptyOptional{Type: a[0]}
			case VNonEmptyList:
				return VSome{Val: xs[len(xs)-1]}
			}
		}
	case ListReverse:
		if len(a) == 2 {
			switch xs := a[1].Kind().(type) {
			case VEmptyList:
				return xs
			case VNonEmptyList:
				out := make(VNonEmptyList, len(xs))
				for i, e := range xs {
					out[len(xs)-1-i] = e
				}
				return out
			}
		}
	case ListIndexed:
		if len(a) == 2 {
			elemType := a[0]
			recordType := NewWHNF(VRecordType{"index": NewWHNF(Builtin(NaturalType), nil), "value": elemType}, nil)
			indexedListType := NewWHNF(AppValue{Fn: NewWHNF(Builtin(ListType), nil), Arg: recordType}, nil)
			switch xs := a[1].Kind().(type) {
			case VEmptyList:
				return VEmptyList{Type: indexedListType}
			case VNonEmptyList:
				out := make(VNonEmptyList, len(xs))
				for i, e := range xs {
					out[i] = NewWHNF(VRecordLit{"index": NewWHNF(NaturalLit(i), nil), "value": e}, nil)
				}
				return out
			}
		}
	}
	return ab
}

// formatDouble renders a Double the way Double/show must: always with
// a decimal point or exponent so the result re-parses as a Double, and
// using Dhall's spellings for the non-finite values.
func formatDouble(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// escapeTextShow renders a plain string as a double-quoted Dhall text
// literal, escaping the characters the grammar requires.
func escapeTextShow(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '$':
			b.WriteString(`$`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
