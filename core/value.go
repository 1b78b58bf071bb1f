package core

// ValueKind is the sealed interface for a value in weak-head normal
// form (or, once every sub-Value has also been forced, full normal
// form): one interface plus one struct per constructor.
//
// A handful of Term types (Const, BoolLit, NaturalLit, IntegerLit,
// DoubleLit, LocalVar, and a free Var) double as their own ValueKind: they are already
// irreducible, so there is no point allocating a distinct value
// wrapper for them. Everything else gets a dedicated Vxxx type here.
type ValueKind interface {
	isValueKind()
}

// Value is a shared, lazily-promoted cell: the unit of sharing that
// lets two references to the same sub-expression normalise it once.
// It starts out holding either an unevaluated Thunk or a
// one-layer-unreduced PartialExpr, and promotes in place to a WHNF
// ValueKind the first time anything forces it (Kind). The promotion is
// monotone: once whnf is set, state never reverts, and repeated
// forcing is a no-op; callers may force in any order because Dhall
// normalisation is confluent.
//
// This discipline is single-threaded: nothing here is safe for
// concurrent forcing of the *same* Value from multiple goroutines.
type Value struct {
	state valueState

	// populated while state == stateThunk
	env  *NzEnv
	body Term

	// populated while state == statePartial; also reused to hold the
	// stuck result once state flips to stateWHNF without a reduction
	// firing (a PartialExpr that stays stuck is itself a valid WHNF).
	partial ValueKind

	whnf ValueKind

	// Type is the value's type, itself a Value; nil only when this
	// Value's WHNF kind is Const(Sort), which has no type.
	Type *Value
}

type valueState uint8

const (
	stateThunk valueState = iota
	statePartial
	stateWHNF
)

// NewThunk builds a Value from an unevaluated Term and the environment
// it should be evaluated under.
func NewThunk(env *NzEnv, body Term, typ *Value) *Value {
	return &Value{state: stateThunk, env: env, body: body, Type: typ}
}

// NewPartial builds a Value from a one-layer-unreduced ValueKind: a
// kind whose immediate sub-Values are already forced-or-thunked, but
// which may itself still admit a β-rule (e.g. an If whose condition
// just became BoolLit(true)).
func NewPartial(kind ValueKind, typ *Value) *Value {
	return &Value{state: statePartial, partial: kind, Type: typ}
}

// NewWHNF builds a Value that is already known to be in WHNF, skipping
// the promotion machinery entirely.
func NewWHNF(kind ValueKind, typ *Value) *Value {
	return &Value{state: stateWHNF, whnf: kind, Type: typ}
}

// Kind forces v to WHNF (if it isn't already) and returns its kind.
// This is the only way code outside this file should read a Value's
// contents: forcing must go through here so promotion stays in one
// place.
func (v *Value) Kind() ValueKind {
	switch v.state {
	case stateThunk:
		k := evalTerm(v.body, v.env)
		// evalTerm builds the raw kind; reduceOneLayer applies the
		// β-rule (if any) for that shape, and this assignment is the
		// one and only promotion Thunk -> WHNF.
		if reduced, ok := reduceOneLayer(k); ok {
			k = reduced
		}
		v.whnf = k
		v.env, v.body = nil, nil
		v.state = stateWHNF
	case statePartial:
		if reduced, ok := reduceOneLayer(v.partial); ok {
			v.whnf = reduced
		} else {
			v.whnf = v.partial
		}
		v.partial = nil
		v.state = stateWHNF
	}
	return v.whnf
}

// Callable is implemented by ValueKinds that know how to consume one
// more argument; see applyVal in eval.go for the dispatch that falls
// back to a stuck AppValue when the receiver isn't Callable.
type Callable interface {
	Call(arg *Value) ValueKind
}

// --- literal / structural kinds -------------------------------------------------

// VEmptyOptional is `None T` once applied, i.e. an Optional with no
// value, carrying its element type.
type VEmptyOptional struct{ Type *Value }

// VSome is a non-empty Optional.
type VSome struct{ Val *Value }

// VEmptyList is `[] : List T`; Type holds the full `List T` value, not
// the bare element type, mirroring EmptyList at the Term level.
type VEmptyList struct{ Type *Value }

// VNonEmptyList is a list literal with at least one element.
type VNonEmptyList []*Value

// VRecordType and VRecordLit are unordered label->Value maps, compared
// as such (field order never participates in equality).
type VRecordType map[Label]*Value
type VRecordLit map[Label]*Value

// VUnionType maps alternative labels to an optional payload type (nil
// entry means no payload).
type VUnionType map[Label]*Value

// VUnionConstructor is an unapplied union alternative used as a
// function, e.g. `< Foo : Natural | Bar >.Foo`. It keeps the
// surrounding union type so printing and further reduction never need
// to re-infer it.
type VUnionConstructor struct {
	Alt  Label
	Alts VUnionType
	Type *Value // the union type itself
}

// VUnionLit is a fully-applied union value.
type VUnionLit struct {
	Alt   Label
	Val   *Value
	Alts  VUnionType
	Type  *Value // the union type
	CtorT *Value // the constructor's function type, Alts[Alt] -> Type
}

// VChunk and VTextLit mirror Chunk/TextLit at the value level; the
// invariant that adjacent chunks are merged and nested TextLits are
// flattened is maintained by evalTextLit in eval.go.
type VChunk struct {
	Prefix string
	Expr   *Value
}
type VTextLit struct {
	Chunks []VChunk
	Suffix string
}

// Closure is either a normal closure capturing {argType, env, body} or
// a constant closure capturing {env, body} that ignores its argument.
// Applying a closure substitutes by *environment extension*, never AST
// substitution: see Apply.
type Closure struct {
	// Label is retained only for pretty-printing when quoting back to
	// a Term; it plays no role in equality (closures are compared by
	// application to a shared fresh variable).
	Label Label

	// Constant closures have Body == nil is never used as sentinel;
	// instead IsConstant distinguishes the two forms cleanly.
	IsConstant bool

	ArgType *Value // only meaningful when !IsConstant; advisory otherwise
	Env     *NzEnv
	Body    Term
}

// NewClosure builds a normal closure.
func NewClosure(label Label, argType *Value, env *NzEnv, body Term) *Closure {
	return &Closure{Label: label, ArgType: argType, Env: env, Body: body}
}

// NewConstantClosure builds a closure that ignores its argument.
func NewConstantClosure(env *NzEnv, body Term) *Closure {
	return &Closure{IsConstant: true, Env: env, Body: body}
}

// Apply substitutes arg for the bound variable by extending the
// closure's captured environment and re-evaluating the body: O(1) and
// substitution-free, unlike walking the body AST replacing a variable.
func (c *Closure) Apply(arg *Value) *Value {
	if c.IsConstant {
		return NewThunk(c.Env, c.Body, nil)
	}
	return NewThunk(c.Env.extend(c.Label, arg), c.Body, nil)
}

// ApplyFresh applies the closure to a fresh free-variable placeholder
// at the given de Bruijn level, used by α-equivalence (equivalentKinds)
// and by Quote to convert a closure back into a binder.
func (c *Closure) ApplyFresh(level int) *Value {
	label := c.Label
	if label == "" {
		label = "_"
	}
	return c.Apply(NewWHNF(LocalVar{Name: label, Level: level}, c.ArgType))
}

// VLamClosure and VPiClosure are the two binder forms once evaluated:
// a captured argument type plus a closure over the body.
type VLamClosure struct {
	Label   Label
	Domain  *Value
	Closure *Closure
}
type VPiClosure struct {
	Label   Label
	Domain  *Value
	Closure *Closure
}

// AppValue is a stuck application: the function side never reduced
// far enough to consume Arg (e.g. it's a free variable, or an
// AppliedBuiltin not yet saturated).
type AppValue struct {
	Fn, Arg *Value
}

// AppliedBuiltin is a "function" builtin (one whose β-rules depend on
// saturation, e.g. Natural/fold needing four arguments) plus whatever
// arguments it has captured so far; it holds no environment. See
// builtins.go for the saturation/reduction table.
type AppliedBuiltin struct {
	B    Builtin
	Args []*Value
}

// OpValue is a stuck binary operator application: neither operand
// reduced the expression further.
type OpValue struct {
	OpCode BinOpCode
	L, R   *Value
}

// VEquivalence is `x === y` in value form; it never reduces further
// on its own (Assert is what forces both sides and compares them).
type VEquivalence struct{ L, R *Value }

// The following are the smaller "stuck, one-layer" forms: each carries
// exactly the fields its shape needs, giving the type-checker and
// quoter compile-time field access instead of one generic
// reflection-driven union type.
type ifValue struct{ Cond, T, F *Value }
type fieldValue struct {
	Record    *Value
	FieldName Label
}
type projectValue struct {
	Record     *Value
	FieldNames []Label
}
type mergeValue struct {
	Handler, Union *Value
	Annotation     *Value // nil if absent
}
type toMapValue struct {
	Record *Value
	Type   *Value // nil if absent
}
type assertValue struct{ Annotation *Value }
type withValue struct {
	Record *Value
	Path   []Label
	Val    *Value
}

func (VEmptyOptional) isValueKind()    {}
func (VSome) isValueKind()             {}
func (VEmptyList) isValueKind()        {}
func (VNonEmptyList) isValueKind()     {}
func (VRecordType) isValueKind()       {}
func (VRecordLit) isValueKind()        {}
func (VUnionType) isValueKind()        {}
func (VUnionConstructor) isValueKind() {}
func (VUnionLit) isValueKind()         {}
func (VTextLit) isValueKind()          {}
func (VLamClosure) isValueKind()       {}
func (VPiClosure) isValueKind()        {}
func (AppValue) isValueKind()          {}
func (AppliedBuiltin) isValueKind()    {}
func (OpValue) isValueKind()           {}
func (VEquivalence) isValueKind()      {}
func (ifValue) isValueKind()           {}
func (fieldValue) isValueKind()        {}
func (projectValue) isValueKind()      {}
func (mergeValue) isValueKind()        {}
func (toMapValue) isValueKind()        {}
func (assertValue) isValueKind()       {}
func (withValue) isValueKind()         {}

// Builtin is also a ValueKind: the type-level builtins (Bool, Natural,
// List, …) never gain captured arguments, so applying one just
// produces a stuck AppValue rather than an AppliedBuiltin.
func (Builtin) isValueKind() {}
