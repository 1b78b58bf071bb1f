package core

import (
	"sort"
)

// Eval normalises a Term to a *Value, forcing nothing beyond WHNF: the
// returned Value promotes its children lazily and shares work across
// every reference to the same sub-Value.
func Eval(t Term) *Value {
	return NewThunk(emptyNzEnv(), t, nil)
}

// EvalIn normalises t under an already-extended environment; used by
// the type-checker, which builds up env as it descends under binders.
func EvalIn(t Term, env *NzEnv) *Value {
	return NewThunk(env, t, nil)
}

// Normalize fully forces t's normal form and quotes it back to a Term.
func Normalize(t Term) Term {
	return Quote(Eval(t))
}

// AlphaBetaEval alpha-normalises t and then evaluates it to a *Value,
// the combination valuesEqual's callers want when they need a value
// that is already indifferent to bound-variable names going in,
// instead of relying on valuesEqual's own variable-level comparison.
func AlphaBetaEval(t Term) *Value {
	return Eval(AlphaNormalize(t))
}

// evalTerm performs the structural step of evaluation: given a Term
// and the environment it closes over, it builds the corresponding
// "raw" ValueKind (forcing nothing in children beyond wrapping them as
// Values), which Value.Kind then passes through reduceOneLayer to
// apply whatever β-rule, if any, now applies to that shape.
func evalTerm(t Term, env *NzEnv) ValueKind {
	switch t := t.(type) {
	case Const:
		return t
	case Builtin:
		return t
	case Var:
		if val, ok := env.lookup(t.Name, t.Index); ok && val != nil {
			return val.Kind()
		}
		return t
	case LocalVar:
		return t
	case Lam:
		domain := NewThunk(env, t.Type, nil)
		return VLamClosure{Label: t.Label, Domain: domain, Closure: NewClosure(t.Label, domain, env, t.Body)}
	case Pi:
		domain := NewThunk(env, t.Type, nil)
		return VPiClosure{Label: t.Label, Domain: domain, Closure: NewClosure(t.Label, domain, env, t.Body)}
	case App:
		fn := NewThunk(env, t.Fn, nil)
		arg := NewThunk(env, t.Arg, nil)
		return applyVal(fn, arg).Kind()
	case Let:
		newEnv := env
		for _, b := range t.Bindings {
			newEnv = newEnv.extend(b.Variable, NewThunk(newEnv, b.Value, nil))
		}
		return evalTerm(t.Body, newEnv)
	case Annot:
		return evalTerm(t.Expr, env)
	case BoolLit:
		return t
	case NaturalLit:
		return t
	case IntegerLit:
		return t
	case DoubleLit:
		return t
	case TextLit:
		return evalTextLit(t, env)
	case If:
		return ifValue{
			Cond: NewThunk(env, t.Cond, nil),
			T:    NewThunk(env, t.T, nil),
			F:    NewThunk(env, t.F, nil),
		}
	case Op:
		return OpValue{OpCode: t.OpCode, L: NewThunk(env, t.L, nil), R: NewThunk(env, t.R, nil)}
	case EmptyList:
		return VEmptyList{Type: NewThunk(env, t.Type, nil)}
	case NonEmptyList:
		elems := make(VNonEmptyList, len(t))
		for i, e := range t {
			elems[i] = NewThunk(env, e, nil)
		}
		return elems
	case Some:
		return VSome{Val: NewThunk(env, t.Val, nil)}
	case RecordType:
		rt := make(VRecordType, len(t))
		for k, v := range t {
			rt[k] = NewThunk(env, v, nil)
		}
		return rt
	case RecordLit:
		rl := make(VRecordLit, len(t))
		for k, v := range t {
			rl[k] = NewThunk(env, v, nil)
		}
		return rl
	case UnionType:
		ut := make(VUnionType, len(t))
		for k, v := range t {
			if v == nil {
				ut[k] = nil
				continue
			}
			ut[k] = NewThunk(env, v, nil)
		}
		return ut
	case Field:
		return fieldValue{Record: NewThunk(env, t.Record, nil), FieldName: t.FieldName}
	case Project:
		names := append([]Label{}, t.FieldNames...)
		sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
		return projectValue{Record: NewThunk(env, t.Record, nil), FieldNames: names}
	case ProjectType:
		sel := NewThunk(env, t.Selector, nil)
		if rt, ok := sel.Kind().(VRecordType); ok {
			names := make([]Label, 0, len(rt))
			for k := range rt {
				names = append(names, k)
			}
			sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
			return projectValue{Record: NewThunk(env, t.Record, nil), FieldNames: names}
		}
		// A well-typed term's selector always evaluates to a record
		// type; this only guards a caller that skipped TypeOf first.
		return projectValue{Record: NewThunk(env, t.Record, nil)}
	case Merge:
		mv := mergeValue{Handler: NewThunk(env, t.Handler, nil), Union: NewThunk(env, t.Union, nil)}
		if t.Annotation != nil {
			mv.Annotation = NewThunk(env, t.Annotation, nil)
		}
		return mv
	case ToMap:
		tm := toMapValue{Record: NewThunk(env, t.Record, nil)}
		if t.Type != nil {
			tm.Type = NewThunk(env, t.Type, nil)
		}
		return tm
	case With:
		return withValue{Record: NewThunk(env, t.Record, nil), Path: t.Path, Val: NewThunk(env, t.Value, nil)}
	case Assert:
		return assertValue{Annotation: NewThunk(env, t.Annotation, nil)}
	case Import:
		// TypeOf/Eval callers are expected to reject Import nodes
		// before reaching the normaliser (see ErrUnresolvedImport in
		// errors.go); reaching here means a host skipped that check.
		panic("core: eval: unresolved import reached the normaliser")
	default:
		panic("core: eval: unhandled term type")
	}
}

// reduceOneLayer applies the β-rules that can fire once a ValueKind's
// immediate children are available as Values (but not necessarily
// forced further). It returns ok=false when the kind is already
// irreducible, in which case the caller keeps it as the final WHNF.
func reduceOneLayer(k ValueKind) (ValueKind, bool) {
	switch k := k.(type) {
	case ifValue:
		return reduceIf(k)
	case OpValue:
		return reduceOp(k)
	case fieldValue:
		return reduceField(k)
	case projectValue:
		return reduceProject(k)
	case mergeValue:
		return reduceMerge(k)
	case toMapValue:
		return reduceToMap(k)
	case withValue:
		return reduceWith(k)
	default:
		return nil, false
	}
}

// applyVal is ordinary function application in value space: it never
// substitutes into an AST, only extends an environment (for
// LamClosure) or accumulates captured arguments (for AppliedBuiltin).
func applyVal(fn, arg *Value) *Value {
	if c, ok := fn.Kind().(Callable); ok {
		if res := c.Call(arg); res != nil {
			return NewWHNF(res, nil)
		}
	}
	return NewWHNF(AppValue{Fn: fn, Arg: arg}, nil)
}

func reduceIf(v ifValue) (ValueKind, bool) {
	if cond, ok := v.Cond.Kind().(BoolLit); ok {
		if cond {
			return v.T.Kind(), true
		}
		return v.F.Kind(), true
	}
	if tb, ok := v.T.Kind().(BoolLit); ok && bool(tb) {
		if fb, ok := v.F.Kind().(BoolLit); ok && !bool(fb) {
			return v.Cond.Kind(), true
		}
	}
	if valuesEqual(v.T, v.F) {
		return v.T.Kind(), true
	}
	return v, false
}

func reduceOp(v OpValue) (ValueKind, bool) {
	switch v.OpCode {
	case OrOp, BoolAndOp, EqOp, NeOp:
		return reduceBoolOp(v)
	case TextAppendOp:
		return reduceTextAppend(v)
	case ListAppendOp:
		return reduceListAppend(v)
	case PlusOp:
		return reducePlus(v)
	case TimesOp:
		return reduceTimes(v)
	case RecordMergeOp:
		return reduceRecordMerge(v)
	case RecordTypeMergeOp:
		return reduceRecordTypeMerge(v)
	case RightBiasedRecordMergeOp:
		return reduceRightBiasedMerge(v)
	case EquivOp:
		return VEquivalence{L: v.L, R: v.R}, true
	case CompleteOp:
		return reduceComplete(v)
	case ImportAltOp:
		return v, false
	}
	return v, false
}

func reduceBoolOp(v OpValue) (ValueKind, bool) {
	lb, lok := v.L.Kind().(BoolLit)
	rb, rok := v.R.Kind().(BoolLit)
	switch v.OpCode {
	case OrOp:
		if lok {
			if lb {
				return BoolLit(true), true
			}
			return v.R.Kind(), true
		}
		if rok {
			if rb {
				return BoolLit(true), true
			}
			return v.L.Kind(), true
		}
	case BoolAndOp:
		if lok {
			if lb {
				return v.R.Kind(), true
			}
			return BoolLit(false), true
		}
		if rok {
			if rb {
				return v.L.Kind(), true
			}
			return BoolLit(false), true
		}
	case EqOp:
		if lok && bool(lb) {
			return v.R.Kind(), true
		}
		if rok && bool(rb) {
			return v.L.Kind(), true
		}
	case NeOp:
		if lok && !bool(lb) {
			return v.R.Kind(), true
		}
		if rok && !bool(rb) {
			return v.L.Kind(), true
		}
	}
	if valuesEqual(v.L, v.R) {
		switch v.OpCode {
		case OrOp, EqOp:
			return BoolLit(true), true
		case BoolAndOp:
			return v.L.Kind(), true
		case NeOp:
			return BoolLit(false), true
		}
	}
	return v, false
}

// valueTextAppend concatenates two already-forced text literals,
// splicing chunk lists the same way evalTextLit splices a nested
// TextLit produced by an interpolated sub-expression.
func valueTextAppend(l, r VTextLit) VTextLit {
	chunks := append([]VChunk{}, l.Chunks...)
	prefix := l.Suffix
	for _, c := range r.Chunks {
		chunks = append(chunks, VChunk{Prefix: prefix + c.Prefix, Expr: c.Expr})
		prefix = ""
	}
	return VTextLit{Chunks: chunks, Suffix: prefix + r.Suffix}
}

func reduceTextAppend(v OpValue) (ValueKind, bool) {
	l, lok := v.L.Kind().(VTextLit)
	r, rok := v.R.Kind().(VTextLit)
	if lok && rok {
		return valueTextAppend(l, r), true
	}
	return v, false
}

func reduceListAppend(v OpValue) (ValueKind, bool) {
	if _, ok := v.L.Kind().(VEmptyList); ok {
		return v.R.Kind(), true
	}
	if _, ok := v.R.Kind().(VEmptyList); ok {
		return v.L.Kind(), true
	}
	ll, lok := v.L.Kind().(VNonEmptyList)
	rl, rok := v.R.Kind().(VNonEmptyList)
	if lok && rok {
		out := make(VNonEmptyList, 0, len(ll)+len(rl))
		out = append(out, ll...)
		out = append(out, rl...)
		return out, true
	}
	return v, false
}

func reducePlus(v OpValue) (ValueKind, bool) {
	ln, lok := v.L.Kind().(NaturalLit)
	rn, rok := v.R.Kind().(NaturalLit)
	if lok && rok {
		return NaturalLit(ln + rn), true
	}
	if lok && ln == 0 {
		return v.R.Kind(), true
	}
	if rok && rn == 0 {
		return v.L.Kind(), true
	}
	return v, false
}

func reduceTimes(v OpValue) (ValueKind, bool) {
	ln, lok := v.L.Kind().(NaturalLit)
	rn, rok := v.R.Kind().(NaturalLit)
	if lok && rok {
		return NaturalLit(ln * rn), true
	}
	if lok && ln == 0 {
		return NaturalLit(0), true
	}
	if rok && rn == 0 {
		return NaturalLit(0), true
	}
	if lok && ln == 1 {
		return v.R.Kind(), true
	}
	if rok && rn == 1 {
		return v.L.Kind(), true
	}
	return v, false
}

func reduceRecordMerge(v OpValue) (ValueKind, bool) {
	l, lok := v.L.Kind().(VRecordLit)
	r, rok := v.R.Kind().(VRecordLit)
	if lok && len(l) == 0 {
		return v.R.Kind(), true
	}
	if rok && len(r) == 0 {
		return v.L.Kind(), true
	}
	if lok && rok {
		return mergeRecordLits(l, r), true
	}
	return v, false
}

func mergeRecordLits(l, r VRecordLit) VRecordLit {
	out := make(VRecordLit, len(l)+len(r))
	for k, v := range l {
		out[k] = v
	}
	for k, rv := range r {
		if lv, ok := out[k]; ok {
			lsub, lok := lv.Kind().(VRecordLit)
			rsub, rok := rv.Kind().(VRecordLit)
			if lok && rok {
				out[k] = NewWHNF(mergeRecordLits(lsub, rsub), nil)
				continue
			}
		}
		out[k] = rv
	}
	return out
}

func reduceRecordTypeMerge(v OpValue) (ValueKind, bool) {
	l, lok := v.L.Kind().(VRecordType)
	r, rok := v.R.Kind().(VRecordType)
	if lok && len(l) == 0 {
		return v.R.Kind(), true
	}
	if rok && len(r) == 0 {
		return v.L.Kind(), true
	}
	if lok && rok {
		return mergeRecordTypes(l, r), true
	}
	return v, false
}

func mergeRecordTypes(l, r VRecordType) VRecordType {
	out := make(VRecordType, len(l)+len(r))
	for k, v := range l {
		out[k] = v
	}
	for k, rv := range r {
		if lv, ok := out[k]; ok {
			lsub, lok := lv.Kind().(VRecordType)
			rsub, rok := rv.Kind().(VRecordType)
			if lok && rok {
				out[k] = NewWHNF(mergeRecordTypes(lsub, rsub), nil)
				continue
			}
		}
		out[k] = rv
	}
	return out
}

func reduceRightBiasedMerge(v OpValue) (ValueKind, bool) {
	l, lok := v.L.Kind().(VRecordLit)
	r, rok := v.R.Kind().(VRecordLit)
	if lok && len(l) == 0 {
		return v.R.Kind(), true
	}
	if rok && len(r) == 0 {
		return v.L.Kind(), true
	}
	if lok && rok {
		out := make(VRecordLit, len(l)+len(r))
		for k, fv := range l {
			out[k] = fv
		}
		for k, fv := range r {
			out[k] = fv
		}
		return out, true
	}
	if valuesEqual(v.L, v.R) {
		return v.L.Kind(), true
	}
	return v, false
}

// reduceComplete desugars `T::r` to `(T.default ⫽ r) : T.Type`.
func reduceComplete(v OpValue) (ValueKind, bool) {
	def := NewWHNF(fieldValue{Record: v.L, FieldName: "default"}, nil)
	merged := OpValue{OpCode: RightBiasedRecordMergeOp, L: def, R: v.R}
	if r, ok := reduceRightBiasedMerge(merged); ok {
		return r, true
	}
	return merged, true
}

func reduceField(v fieldValue) (ValueKind, bool) {
	record := v.Record
	progressed := false
	for {
		if p, ok := record.Kind().(projectValue); ok {
			record = p.Record
			progressed = true
			continue
		}
		op, ok := record.Kind().(OpValue)
		if !ok {
			break
		}
		switch op.OpCode {
		case RecordMergeOp, RightBiasedRecordMergeOp:
			if l, ok := op.L.Kind().(VRecordLit); ok {
				if lField, present := l[v.FieldName]; present {
					return fieldValue{
						Record:    NewWHNF(OpValue{OpCode: op.OpCode, L: NewWHNF(VRecordLit{v.FieldName: lField}, nil), R: op.R}, nil),
						FieldName: v.FieldName,
					}, true
				}
				record = op.R
				progressed = true
				continue
			}
			if r, ok := op.R.Kind().(VRecordLit); ok {
				if rField, present := r[v.FieldName]; present {
					if op.OpCode == RightBiasedRecordMergeOp {
						return rField.Kind(), true
					}
					return fieldValue{
						Record:    NewWHNF(OpValue{OpCode: op.OpCode, L: op.L, R: NewWHNF(VRecordLit{v.FieldName: rField}, nil)}, nil),
						FieldName: v.FieldName,
					}, true
				}
				record = op.L
				progressed = true
				continue
			}
		}
		break
	}
	if lit, ok := record.Kind().(VRecordLit); ok {
		if fv, present := lit[v.FieldName]; present {
			return fv.Kind(), true
		}
	}
	if ut, ok := record.Kind().(VUnionType); ok {
		return VUnionConstructor{Alt: v.FieldName, Alts: ut, Type: record}, true
	}
	if !progressed {
		return v, false
	}
	return fieldValue{Record: record, FieldName: v.FieldName}, true
}

func reduceProject(v projectValue) (ValueKind, bool) {
	record := v.Record
	progressed := false
	for {
		if p, ok := record.Kind().(projectValue); ok {
			record = p.Record
			progressed = true
			continue
		}
		op, ok := record.Kind().(OpValue)
		if ok && op.OpCode == RightBiasedRecordMergeOp {
			if r, ok := op.R.Kind().(VRecordLit); ok {
				var notOverridden []Label
				overrides := make(VRecordLit)
				for _, name := range v.FieldNames {
					if ov, present := r[name]; present {
						overrides[name] = ov
					} else {
						notOverridden = append(notOverridden, name)
					}
				}
				if len(notOverridden) == 0 {
					return overrides, true
				}
				return OpValue{
					OpCode: RightBiasedRecordMergeOp,
					L:      NewWHNF(projectValue{Record: op.L, FieldNames: notOverridden}, nil),
					R:      NewWHNF(overrides, nil),
				}, true
			}
		}
		break
	}
	if lit, ok := record.Kind().(VRecordLit); ok {
		out := make(VRecordLit, len(v.FieldNames))
		for _, name := range v.FieldNames {
			out[name] = lit[name]
		}
		return out, true
	}
	if len(v.FieldNames) == 0 {
		return VRecordLit{}, true
	}
	if !progressed {
		return v, false
	}
	return projectValue{Record: record, FieldNames: v.FieldNames}, true
}

func reduceMerge(v mergeValue) (ValueKind, bool) {
	handlers, hok := v.Handler.Kind().(VRecordLit)
	if !hok {
		return v, false
	}
	switch union := v.Union.Kind().(type) {
	case VUnionLit:
		if h, present := handlers[union.Alt]; present {
			return applyVal(h, union.Val).Kind(), true
		}
	case VUnionConstructor:
		if h, present := handlers[union.Alt]; present {
			return h.Kind(), true
		}
	}
	return v, false
}

func reduceToMap(v toMapValue) (ValueKind, bool) {
	record, ok := v.Record.Kind().(VRecordLit)
	if !ok {
		return v, false
	}
	if len(record) == 0 {
		if v.Type == nil {
			return v, false
		}
		return VEmptyList{Type: v.Type}, true
	}
	names := make([]string, 0, len(record))
	for k := range record {
		names = append(names, string(k))
	}
	sort.Strings(names)
	out := make(VNonEmptyList, len(names))
	for i, name := range names {
		out[i] = NewWHNF(VRecordLit{
			"mapKey":   NewWHNF(VTextLit{Suffix: name}, nil),
			"mapValue": record[Label(name)],
		}, nil)
	}
	return out, true
}

// reduceWith desugars `e with a.b = v` into nested right-biased record
// merges: the innermost path segment becomes a single-field merge, and
// each enclosing segment wraps that result back into its own field,
// reusing whatever sub-record was already there (or {} if absent).
func reduceWith(v withValue) (ValueKind, bool) {
	if len(v.Path) == 0 {
		return v.Val.Kind(), true
	}
	head := v.Path[0]
	var merged OpValue
	if len(v.Path) == 1 {
		merged = OpValue{OpCode: RightBiasedRecordMergeOp, L: v.Record, R: NewWHNF(VRecordLit{head: v.Val}, nil)}
	} else {
		inner := NewWHNF(VRecordLit{}, nil)
		if rl, ok := v.Record.Kind().(VRecordLit); ok {
			if f, present := rl[head]; present {
				inner = f
			}
		}
		nested := NewWHNF(withValue{Record: inner, Path: v.Path[1:], Val: v.Val}, nil)
		merged = OpValue{OpCode: RightBiasedRecordMergeOp, L: v.Record, R: NewWHNF(VRecordLit{head: nested}, nil)}
	}
	if r, ok := reduceRightBiasedMerge(merged); ok {
		return r, true
	}
	return merged, true
}

// evalTextLit evaluates a TextLit's interpolated chunks, merging
// adjacent literal text and splicing any nested text literal that a
// reduced interpolation produces (the chunk-merge invariant).
func evalTextLit(t TextLit, env *NzEnv) ValueKind {
	var chunks []VChunk
	pending := ""
	for _, c := range t.Chunks {
		pending += c.Prefix
		val := NewThunk(env, c.Expr, nil)
		if nested, ok := val.Kind().(VTextLit); ok {
			if len(nested.Chunks) == 0 {
				pending += nested.Suffix
				continue
			}
			first := nested.Chunks[0]
			chunks = append(chunks, VChunk{Prefix: pending + first.Prefix, Expr: first.Expr})
			chunks = append(chunks, nested.Chunks[1:]...)
			pending = nested.Suffix
			continue
		}
		chunks = append(chunks, VChunk{Prefix: pending, Expr: val})
		pending = ""
	}
	pending += t.Suffix
	if len(chunks) == 1 && chunks[0].Prefix == "" && pending == "" {
		return chunks[0].Expr.Kind()
	}
	return VTextLit{Chunks: chunks, Suffix: pending}
}
