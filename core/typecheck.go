package core

import "sort"

// Context is the type-checker's notion of Γ: a stack of (name, type)
// entries that mirrors two independent pieces of evaluation state kept
// in lockstep — nzEnv, so annotations and bodies can be evaluated
// under the variables already in scope, and varEnv, so a semantic type
// built while checking a binder's body can be quoted back into a
// closure over the *outer* scope (see closeType).
type Context struct {
	entries []ctxEntry
	nzEnv   *NzEnv
	varEnv  *VarEnv
}

type ctxEntry struct {
	name Label
	typ  *Value
}

// EmptyContext is Γ for a closed, top-level expression.
func EmptyContext() *Context {
	return &Context{nzEnv: emptyNzEnv(), varEnv: NewVarEnv()}
}

// TypeOf infers t's type under an empty context, returning the type
// as a *Value rather than a quoted Term so callers that go on to
// compare or further normalise it (TypeWith, the type-checker itself)
// don't pay for a round trip through Quote they don't need. Callers
// that want source text back call Quote/Print on the result
// themselves, the way cmd/dhall-core's type command does.
func TypeOf(t Term) (*Value, error) {
	return EmptyContext().typeWith(t)
}

// TypeWith infers t's type under ctx, quoting the result back to a
// Term for callers that don't otherwise touch the *Value machinery in
// this package (ctx == nil behaves like EmptyContext).
func TypeWith(t Term, ctx *Context) (Term, error) {
	if ctx == nil {
		ctx = EmptyContext()
	}
	typ, err := ctx.typeWith(t)
	if err != nil {
		return nil, err
	}
	return Quote(typ), nil
}

func (c *Context) lookup(name Label, index int) (*Value, bool) {
	for i := len(c.entries) - 1; i >= 0; i-- {
		if c.entries[i].name == name {
			if index == 0 {
				return c.entries[i].typ, true
			}
			index--
		}
	}
	return nil, false
}

// extend introduces a genuine binder (Lam or Pi): it allocates a new de Bruijn level, binds name to a fresh
// LocalVar of type typ in nzEnv, and records the same level in varEnv
// so a value built under this binder can later be quoted back out of
// it. Returns the extended context and the LocalVar Value itself
// (needed to evaluate a binder's body).
func (c *Context) extend(name Label, typ *Value) (*Context, *Value) {
	level := c.varEnv.Size()
	lv := NewWHNF(LocalVar{Name: name, Level: level}, typ)
	entries := append(append([]ctxEntry{}, c.entries...), ctxEntry{name, typ})
	return &Context{entries: entries, nzEnv: c.nzEnv.extend(name, lv), varEnv: c.varEnv.Insert(name)}, lv
}

// extendLet binds name directly to an already-evaluated value (a
// `let` binding, never a new LocalVar level, since `let x = v in b`
// normalises by substituting v for x rather than abstracting over it).
func (c *Context) extendLet(name Label, typ, val *Value) *Context {
	entries := append(append([]ctxEntry{}, c.entries...), ctxEntry{name, typ})
	return &Context{entries: entries, nzEnv: c.nzEnv.extend(name, val), varEnv: c.varEnv}
}

func (c *Context) eval(t Term) *Value { return EvalIn(t, c.nzEnv) }

// closeType turns a semantic type computed while checking a binder's
// body back into a Closure over the *outer* context: quoting bodyType
// under bodyCtx's varEnv resolves the newly-bound variable to Var
// index 0 (and every outer free variable to the index it already had
// in c), so re-applying the resulting closure to a concrete argument
// reproduces bodyType exactly.
func closeType(c *Context, label Label, bodyCtx *Context, bodyType *Value) *Closure {
	return NewClosure(label, nil, c.nzEnv, quoteAt(bodyCtx.varEnv, bodyType))
}

// requireConst infers t's type and requires it to already be a Const
// (Type, Kind, or Sort) — i.e. that t itself is a well-formed type,
// kind, or sort. tag names which typing rule is asking, for the error.
func (c *Context) requireConst(t Term, tag TypeErrorTag) (Const, error) {
	typ, err := c.typeWith(t)
	if err != nil {
		return 0, err
	}
	k, ok := typ.Kind().(Const)
	if !ok {
		return 0, mkErr(tag, t, "expected a type, kind or sort")
	}
	return k, nil
}

func (c *Context) requireConstOfValue(v *Value, tag TypeErrorTag) (Const, error) {
	return c.requireConst(quoteAt(c.varEnv, v), tag)
}

// functionCheck computes the universe a `∀(x : A) → B` lives in, given
// the universes of A and B respectively: Type whenever B's universe is
// Type (impredicativity), and otherwise the larger of the two
// universes, which is why the table is asymmetric.
func functionCheck(in, out Const) Const {
	if out == Type {
		return Type
	}
	if in == Sort {
		return Sort
	}
	return out
}

// typeWith is the bidirectional type-checker's sole entry point: one
// inference rule per Term constructor.
func (c *Context) typeWith(t Term) (*Value, error) {
	switch t := t.(type) {
	case Const:
		switch t {
		case Type:
			return NewWHNF(Kind, nil), nil
		case Kind:
			return NewWHNF(Sort, nil), nil
		default:
			return nil, mkErr(SortHasNoType, t, "")
		}

	case Builtin:
		return NewThunk(emptyNzEnv(), builtinType(t), nil), nil

	case Var:
		typ, ok := c.lookup(t.Name, t.Index)
		if !ok {
			return nil, mkErr(UnboundVariable, t, "%s", t.Name)
		}
		return typ, nil

	case LocalVar:
		if t.Level < 0 || t.Level >= len(c.entries) {
			return nil, mkErr(UnboundVariable, t, "free variable %s@%d escaped its scope", t.Name, t.Level)
		}
		return c.entries[t.Level].typ, nil

	case BoolLit:
		return NewWHNF(Builtin(BoolType), nil), nil
	case NaturalLit:
		return NewWHNF(Builtin(NaturalType), nil), nil
	case IntegerLit:
		return NewWHNF(Builtin(IntegerType), nil), nil
	case DoubleLit:
		return NewWHNF(Builtin(DoubleType), nil), nil

	case TextLit:
		for _, chunk := range t.Chunks {
			ct, err := c.typeWith(chunk.Expr)
			if err != nil {
				return nil, err
			}
			if _, ok := ct.Kind().(Builtin); !ok || ct.Kind().(Builtin) != TextType {
				return nil, mkErr(TypeMismatch, chunk.Expr, "text interpolation must have type Text")
			}
		}
		return NewWHNF(Builtin(TextType), nil), nil

	case Lam:
		if _, err := c.requireConst(t.Type, InvalidInputType); err != nil {
			return nil, err
		}
		domain := c.eval(t.Type)
		bodyCtx, _ := c.extend(t.Label, domain)
		bodyType, err := bodyCtx.typeWith(t.Body)
		if err != nil {
			return nil, err
		}
		if _, err := bodyCtx.requireConstOfValue(bodyType, InvalidOutputType); err != nil {
			return nil, err
		}
		closure := closeType(c, t.Label, bodyCtx, bodyType)
		return NewWHNF(VPiClosure{Label: t.Label, Domain: domain, Closure: closure}, nil), nil

	case Pi:
		c1, err := c.requireConst(t.Type, InvalidInputType)
		if err != nil {
			return nil, err
		}
		domain := c.eval(t.Type)
		bodyCtx, _ := c.extend(t.Label, domain)
		c2, err := bodyCtx.requireConst(t.Body, InvalidOutputType)
		if err != nil {
			return nil, err
		}
		return NewWHNF(functionCheck(c1, c2), nil), nil

	case App:
		fnType, err := c.typeWith(t.Fn)
		if err != nil {
			return nil, err
		}
		pi, ok := fnType.Kind().(VPiClosure)
		if !ok {
			return nil, mkErr(NotAFunction, t, "")
		}
		argType, err := c.typeWith(t.Arg)
		if err != nil {
			return nil, err
		}
		if !valuesEqual(pi.Domain, argType) {
			return nil, mkErr(TypeMismatch, t, "function argument type mismatch")
		}
		return pi.Closure.Apply(c.eval(t.Arg)), nil

	case Let:
		newCtx, err := c.checkLet(t.Bindings)
		if err != nil {
			return nil, err
		}
		return newCtx.typeWith(t.Body)

	case Annot:
		exprType, err := c.typeWith(t.Expr)
		if err != nil {
			return nil, err
		}
		annotVal := c.eval(t.Annotation)
		if !valuesEqual(exprType, annotVal) {
			return nil, mkErr(AnnotMismatch, t, "")
		}
		return annotVal, nil

	case If:
		condType, err := c.typeWith(t.Cond)
		if err != nil {
			return nil, err
		}
		if b, ok := condType.Kind().(Builtin); !ok || b != BoolType {
			return nil, mkErr(TypeMismatch, t, "if condition must have type Bool")
		}
		tType, err := c.typeWith(t.T)
		if err != nil {
			return nil, err
		}
		fType, err := c.typeWith(t.F)
		if err != nil {
			return nil, err
		}
		if k, err := c.requireConstOfValue(tType, IfBranchMustBeTerm); err != nil || k != Type {
			if err != nil {
				return nil, err
			}
			return nil, mkErr(IfBranchMustBeTerm, t, "")
		}
		if k, err := c.requireConstOfValue(fType, IfBranchMustBeTerm); err != nil || k != Type {
			if err != nil {
				return nil, err
			}
			return nil, mkErr(IfBranchMustBeTerm, t, "")
		}
		if !valuesEqual(tType, fType) {
			return nil, mkErr(IfBranchMismatch, t, "")
		}
		return tType, nil

	case Op:
		return c.typeWithOp(t)

	case EmptyList:
		if _, err := c.requireConst(t.Type, InvalidListElement); err != nil {
			return nil, err
		}
		listVal := c.eval(t.Type)
		ab, ok := listVal.Kind().(AppValue)
		if ok {
			if fb, ok := ab.Fn.Kind().(Builtin); ok && fb == ListType {
				return listVal, nil
			}
		}
		return nil, mkErr(InvalidListElement, t, "empty list annotation must have the form `List a`")

	case NonEmptyList:
		elemType, err := c.typeWith(t[0])
		if err != nil {
			return nil, err
		}
		if _, err := c.requireConstOfValue(elemType, InvalidListElement); err != nil {
			return nil, err
		}
		for _, e := range t[1:] {
			et, err := c.typeWith(e)
			if err != nil {
				return nil, err
			}
			if !valuesEqual(elemType, et) {
				return nil, mkErr(MismatchedListElements, t, "")
			}
		}
		return NewWHNF(AppValue{Fn: NewWHNF(Builtin(ListType), nil), Arg: elemType}, nil), nil

	case Some:
		valType, err := c.typeWith(t.Val)
		if err != nil {
			return nil, err
		}
		if _, err := c.requireConstOfValue(valType, InvalidOptionalType); err != nil {
			return nil, err
		}
		return NewWHNF(AppValue{Fn: NewWHNF(Builtin(OptionalType), nil), Arg: valType}, nil), nil

	case RecordType:
		result := Type
		for _, name := range sortedKeys(t) {
			fc, err := c.requireConst(t[name], InvalidFieldType)
			if err != nil {
				return nil, err
			}
			result = functionCheck(result, fc)
		}
		return NewWHNF(result, nil), nil

	case RecordLit:
		out := make(VRecordType, len(t))
		for k, fieldTerm := range t {
			ft, err := c.typeWith(fieldTerm)
			if err != nil {
				return nil, err
			}
			out[k] = ft
		}
		return NewWHNF(out, nil), nil

	case UnionType:
		result := Type
		for _, name := range sortedUnionTermKeys(t) {
			payload := t[name]
			if payload == nil {
				continue
			}
			fc, err := c.requireConst(payload, InvalidFieldType)
			if err != nil {
				return nil, err
			}
			result = functionCheck(result, fc)
		}
		return NewWHNF(result, nil), nil

	case Field:
		return c.typeWithField(t)

	case Project:
		recType, err := c.typeWith(t.Record)
		if err != nil {
			return nil, err
		}
		rt, ok := recType.Kind().(VRecordType)
		if !ok {
			return nil, mkErr(NotARecord, t, "")
		}
		out := make(VRecordType, len(t.FieldNames))
		for _, name := range t.FieldNames {
			ft, present := rt[name]
			if !present {
				return nil, mkErr(MissingField, t, "%s", name)
			}
			out[name] = ft
		}
		return NewWHNF(out, nil), nil

	case ProjectType:
		selType := c.eval(t.Selector)
		selRT, ok := selType.Kind().(VRecordType)
		if !ok {
			return nil, mkErr(CantProjectByExpression, t, "projection selector must be a record type")
		}
		recType, err := c.typeWith(t.Record)
		if err != nil {
			return nil, err
		}
		rt, ok := recType.Kind().(VRecordType)
		if !ok {
			return nil, mkErr(NotARecord, t, "")
		}
		out := make(VRecordType, len(selRT))
		for name, want := range selRT {
			have, present := rt[name]
			if !present {
				return nil, mkErr(MissingField, t, "%s", name)
			}
			if !valuesEqual(have, want) {
				return nil, mkErr(TypeMismatch, t, "projected field %s has the wrong type", name)
			}
			out[name] = have
		}
		return NewWHNF(out, nil), nil

	case Merge:
		return c.typeWithMerge(t)

	case ToMap:
		return c.typeWithToMap(t)

	case With:
		recType, err := c.typeWith(t.Record)
		if err != nil {
			return nil, err
		}
		return c.typeWithPath(recType, t.Path, t.Value)

	case Assert:
		eq, ok := t.Annotation.(Op)
		if !ok || eq.OpCode != EquivOp {
			return nil, mkErr(NotAnEquivalence, t, "")
		}
		if _, err := c.typeWith(t.Annotation); err != nil {
			return nil, err
		}
		if !valuesEqual(c.eval(eq.L), c.eval(eq.R)) {
			return nil, mkErr(AssertionFailed, t, "")
		}
		return c.eval(t.Annotation), nil

	case Import:
		return nil, ErrUnresolvedImport

	default:
		return nil, mkErr(Untyped, t, "unhandled term")
	}
}

func (c *Context) checkLet(bindings []Binding) (*Context, error) {
	cur := c
	for _, b := range bindings {
		valType, err := cur.typeWith(b.Value)
		if err != nil {
			return nil, err
		}
		if b.Annotation != nil {
			annotVal := cur.eval(b.Annotation)
			if !valuesEqual(annotVal, valType) {
				return nil, mkErr(AnnotMismatch, b.Value, "let %s", b.Variable)
			}
			valType = annotVal
		}
		cur = cur.extendLet(b.Variable, valType, cur.eval(b.Value))
	}
	return cur, nil
}

func (c *Context) typeWithField(t Field) (*Value, error) {
	recType, err := c.typeWith(t.Record)
	if err != nil {
		return nil, err
	}
	switch rt := recType.Kind().(type) {
	case VRecordType:
		ft, present := rt[t.FieldName]
		if !present {
			return nil, mkErr(MissingField, t, "%s", t.FieldName)
		}
		return ft, nil
	case Const:
		unionVal := c.eval(t.Record)
		ut, ok := unionVal.Kind().(VUnionType)
		if !ok {
			return nil, mkErr(CantAccess, t, "")
		}
		payload, present := ut[t.FieldName]
		if !present {
			return nil, mkErr(MissingConstructor, t, "%s", t.FieldName)
		}
		if payload == nil {
			return unionVal, nil
		}
		closure := NewConstantClosure(c.nzEnv, quoteAt(c.varEnv, unionVal))
		return NewWHNF(VPiClosure{Label: t.FieldName, Domain: payload, Closure: closure}, nil), nil
	default:
		return nil, mkErr(CantAccess, t, "")
	}
}

func (c *Context) typeWithMerge(t Merge) (*Value, error) {
	handlerType, err := c.typeWith(t.Handler)
	if err != nil {
		return nil, err
	}
	handlerRT, ok := handlerType.Kind().(VRecordType)
	if !ok {
		return nil, mkErr(NotARecord, t, "merge handler must be a record")
	}
	unionType, err := c.typeWith(t.Union)
	if err != nil {
		return nil, err
	}
	unionUT, ok := unionType.Kind().(VUnionType)
	if !ok {
		return nil, mkErr(MustMergeUnion, t, "")
	}
	for name := range handlerRT {
		if _, present := unionUT[name]; !present {
			return nil, mkErr(UnusedHandler, t, "%s", name)
		}
	}
	var resultType *Value
	for _, alt := range sortedUnionKeys(unionUT) {
		payload := unionUT[alt]
		hType, present := handlerRT[alt]
		if !present {
			return nil, mkErr(MissingField, t, "missing handler for %s", alt)
		}
		var branchType *Value
		if payload == nil {
			branchType = hType
		} else {
			hPi, ok := hType.Kind().(VPiClosure)
			if !ok {
				return nil, mkErr(MergeHandlerNotAFunction, t, "handler for %s", alt)
			}
			if !valuesEqual(hPi.Domain, payload) {
				return nil, mkErr(TypeMismatch, t, "handler for %s", alt)
			}
			branchType = hPi.Closure.ApplyFresh(c.varEnv.Size())
		}
		if resultType == nil {
			resultType = branchType
		} else if !valuesEqual(resultType, branchType) {
			return nil, mkErr(HandlerOutputTypeMismatch, t, "")
		}
	}
	if resultType == nil {
		if t.Annotation == nil {
			return nil, mkErr(HandlersHaveNoCommonType, t, "")
		}
		resultType = c.eval(t.Annotation)
	} else if t.Annotation != nil {
		annotVal := c.eval(t.Annotation)
		if !valuesEqual(annotVal, resultType) {
			return nil, mkErr(AnnotMismatch, t, "")
		}
		resultType = annotVal
	}
	return resultType, nil
}

func (c *Context) typeWithToMap(t ToMap) (*Value, error) {
	recType, err := c.typeWith(t.Record)
	if err != nil {
		return nil, err
	}
	rt, ok := recType.Kind().(VRecordType)
	if !ok {
		return nil, mkErr(MustMapARecord, t, "")
	}
	if len(rt) == 0 {
		if t.Type == nil {
			return nil, mkErr(MissingToMapType, t, "")
		}
		return c.eval(t.Type), nil
	}
	var valueType *Value
	for _, ft := range rt {
		if valueType == nil {
			valueType = ft
			continue
		}
		if !valuesEqual(valueType, ft) {
			return nil, mkErr(HeterogenousRecordToMap, t, "")
		}
	}
	if _, err := c.requireConstOfValue(valueType, InvalidFieldType); err != nil {
		return nil, err
	}
	entryType := NewWHNF(VRecordType{"mapKey": NewWHNF(Builtin(TextType), nil), "mapValue": valueType}, nil)
	resultType := NewWHNF(AppValue{Fn: NewWHNF(Builtin(ListType), nil), Arg: entryType}, nil)
	if t.Type != nil {
		annotVal := c.eval(t.Type)
		if !valuesEqual(annotVal, resultType) {
			return nil, mkErr(InvalidToMapType, t, "")
		}
	}
	return resultType, nil
}

// typeWithPath computes the type of `e with a.b.c = v` given the
// already-inferred type of e, mirroring reduceWith's recursive
// structure in eval.go but propagating types instead of values: each
// path segment's absent field is treated as the empty record type, the
// same fallback reduceWith uses for the corresponding absent value.
func (c *Context) typeWithPath(recType *Value, path []Label, valTerm Term) (*Value, error) {
	if len(path) == 0 {
		return c.typeWith(valTerm)
	}
	head := path[0]
	rt, ok := recType.Kind().(VRecordType)
	if !ok {
		return nil, mkErr(NotARecord, valTerm, "")
	}
	fieldType, present := rt[head]
	if !present {
		fieldType = NewWHNF(VRecordType{}, nil)
	}
	nestedType, err := c.typeWithPath(fieldType, path[1:], valTerm)
	if err != nil {
		return nil, err
	}
	out := make(VRecordType, len(rt)+1)
	for k, v := range rt {
		out[k] = v
	}
	out[head] = nestedType
	return NewWHNF(out, nil), nil
}

func (c *Context) typeWithOp(t Op) (*Value, error) {
	requireBuiltin := func(e Term, b Builtin) error {
		typ, err := c.typeWith(e)
		if err != nil {
			return err
		}
		if got, ok := typ.Kind().(Builtin); !ok || got != b {
			return mkErr(TypeMismatch, e, "expected %s", b)
		}
		return nil
	}

	switch t.OpCode {
	case BoolAndOp, OrOp, EqOp, NeOp:
		if err := requireBuiltin(t.L, BoolType); err != nil {
			return nil, err
		}
		if err := requireBuiltin(t.R, BoolType); err != nil {
			return nil, err
		}
		return NewWHNF(Builtin(BoolType), nil), nil

	case PlusOp, TimesOp:
		if err := requireBuiltin(t.L, NaturalType); err != nil {
			return nil, err
		}
		if err := requireBuiltin(t.R, NaturalType); err != nil {
			return nil, err
		}
		return NewWHNF(Builtin(NaturalType), nil), nil

	case TextAppendOp:
		if err := requireBuiltin(t.L, TextType); err != nil {
			return nil, err
		}
		if err := requireBuiltin(t.R, TextType); err != nil {
			return nil, err
		}
		return NewWHNF(Builtin(TextType), nil), nil

	case ListAppendOp:
		lt, err := c.typeWith(t.L)
		if err != nil {
			return nil, err
		}
		if _, ok := lt.Kind().(AppValue); !ok {
			return nil, mkErr(TypeMismatch, t.L, "expected a List")
		}
		rt, err := c.typeWith(t.R)
		if err != nil {
			return nil, err
		}
		if !valuesEqual(lt, rt) {
			return nil, mkErr(TypeMismatch, t, "list append operands have different element types")
		}
		return lt, nil

	case RecordTypeMergeOp:
		lv := c.eval(t.L)
		rv := c.eval(t.R)
		lrt, lok := lv.Kind().(VRecordType)
		rrt, rok := rv.Kind().(VRecordType)
		if !lok || !rok {
			return nil, mkErr(NotARecord, t, "record type merge operands must be record types")
		}
		if err := requireDisjoint(lrt, rrt, t); err != nil {
			return nil, err
		}
		c1, err := c.requireConst(t.L, InvalidFieldType)
		if err != nil {
			return nil, err
		}
		c2, err := c.requireConst(t.R, InvalidFieldType)
		if err != nil {
			return nil, err
		}
		return NewWHNF(functionCheck(c1, c2), nil), nil

	case RecordMergeOp:
		lt, err := c.typeWith(t.L)
		if err != nil {
			return nil, err
		}
		rt, err := c.typeWith(t.R)
		if err != nil {
			return nil, err
		}
		lrt, lok := lt.Kind().(VRecordType)
		rrt, rok := rt.Kind().(VRecordType)
		if !lok || !rok {
			return nil, mkErr(NotARecord, t, "∧ operands must be records")
		}
		merged, err := deepMergeDisjoint(lrt, rrt, t)
		if err != nil {
			return nil, err
		}
		return NewWHNF(merged, nil), nil

	case RightBiasedRecordMergeOp:
		lt, err := c.typeWith(t.L)
		if err != nil {
			return nil, err
		}
		rt, err := c.typeWith(t.R)
		if err != nil {
			return nil, err
		}
		lrt, lok := lt.Kind().(VRecordType)
		rrt, rok := rt.Kind().(VRecordType)
		if !lok || !rok {
			return nil, mkErr(NotARecord, t, "⫽ operands must be records")
		}
		out := make(VRecordType, len(lrt)+len(rrt))
		for k, v := range lrt {
			out[k] = v
		}
		for k, v := range rrt {
			out[k] = v
		}
		return NewWHNF(out, nil), nil

	case CompleteOp:
		desugared := Annot{
			Expr:       Op{OpCode: RightBiasedRecordMergeOp, L: Field{Record: t.L, FieldName: "default"}, R: t.R},
			Annotation: Field{Record: t.L, FieldName: "Type"},
		}
		return c.typeWith(desugared)

	case EquivOp:
		lt, err := c.typeWith(t.L)
		if err != nil {
			return nil, err
		}
		rt, err := c.typeWith(t.R)
		if err != nil {
			return nil, err
		}
		if !valuesEqual(lt, rt) {
			return nil, mkErr(TypeMismatch, t, "both sides of ≡ must have the same type")
		}
		if _, err := c.requireConstOfValue(lt, NotAnEquivalence); err != nil {
			return nil, err
		}
		return NewWHNF(Type, nil), nil

	case ImportAltOp:
		if _, ok := t.L.(Import); ok {
			return nil, ErrUnresolvedImport
		}
		if _, ok := t.R.(Import); ok {
			return nil, ErrUnresolvedImport
		}
		// ImportAltOp should never survive import resolution; typecheck
		// the left side as the best available approximation.
		return c.typeWith(t.L)
	}
	return nil, mkErr(Untyped, t, "unhandled operator")
}

func requireDisjoint(l, r VRecordType, cause Term) error {
	for k := range l {
		if _, present := r[k]; present {
			return mkErr(FieldCollision, cause, "%s", k)
		}
	}
	return nil
}

// deepMergeDisjoint computes the type of `l ∧ r` (value-level record
// merge): fields present in only one side pass through, and fields
// present in both must themselves be records, merged recursively.
func deepMergeDisjoint(l, r VRecordType, cause Term) (VRecordType, error) {
	out := make(VRecordType, len(l)+len(r))
	for k, v := range l {
		out[k] = v
	}
	for k, rv := range r {
		lv, present := out[k]
		if !present {
			out[k] = rv
			continue
		}
		lsub, lok := lv.Kind().(VRecordType)
		rsub, rok := rv.Kind().(VRecordType)
		if !lok || !rok {
			return nil, mkErr(FieldCollision, cause, "%s", k)
		}
		merged, err := deepMergeDisjoint(lsub, rsub, cause)
		if err != nil {
			return nil, err
		}
		out[k] = NewWHNF(merged, nil)
	}
	return out, nil
}

func sortedKeys(m RecordType) []Label {
	out := make([]Label, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedUnionKeys(m map[Label]*Value) []Label {
	out := make([]Label, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedUnionTermKeys(m UnionType) []Label {
	out := make([]Label, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
