package core

// NzEnv is the normalisation environment: a persistent, de-Bruijn-level
// indexed stack mapping a bound name to either a materialised Value
// (for a `let` or a β-reduced application) or to nothing at all, in
// which case a lookup falls through to treating the reference as free.
// Extending an NzEnv never mutates the receiver; callers share the old
// tail, giving O(1) extension for the closures-over-substitution model
// that Value/Closure build on.
type NzEnv struct {
	frame *nzFrame
	size  int
}

type nzFrame struct {
	name Label
	val  *Value
	next *nzFrame
}

// emptyNzEnv is the environment used to evaluate closed expressions
// (top-level TypeOf/Eval callers without an ambient context).
func emptyNzEnv() *NzEnv { return &NzEnv{} }

// extend returns a new environment with name bound to val, shadowing
// any previous binding of the same name.
func (e *NzEnv) extend(name Label, val *Value) *NzEnv {
	return &NzEnv{frame: &nzFrame{name: name, val: val, next: e.frame}, size: e.size + 1}
}

// extendFree returns a new environment recording that name is in
// scope but not bound to a value: lookups resolve to a LocalVar
// placeholder at the current size (used to give functions like
// Natural/fold's captured closures a name for their free variable
// without evaluating anything).
func (e *NzEnv) extendFree(name Label) *NzEnv {
	return e.extend(name, NewWHNF(LocalVar{Name: name, Level: e.size}, nil))
}

// size is the current de Bruijn level: the number of binders between
// here and the top of the environment.
func (e *NzEnv) Size() int { return e.size }

// lookup resolves a Var(name, index) reference: it walks frames
// matching name, skipping `index` of them, and returns the bound
// Value (or nil if the matching frame is a free placeholder, meaning
// the variable should stay a Var/LocalVar in value space).
func (e *NzEnv) lookup(name Label, index int) (*Value, bool) {
	for f := e.frame; f != nil; f = f.next {
		if f.name == name {
			if index == 0 {
				return f.val, true
			}
			index--
		}
	}
	return nil, false
}

// VarEnv is the static twin of NzEnv used while quoting a Value back
// to a Term (core/quote.go): for each name, it keeps the de Bruijn
// *levels* at which binders of that name are currently in scope,
// outermost first, so a LocalVar's level can be turned back into the
// de Bruijn index a quoted Var should carry.
type VarEnv struct {
	levels map[Label][]int
	size   int
}

func NewVarEnv() *VarEnv { return &VarEnv{levels: map[Label][]int{}} }

// Insert records that quoting has just stepped under a binder named
// label (allocated at the current size, i.e. the next free level),
// returning the VarEnv to use inside that binder's body.
func (v *VarEnv) Insert(label Label) *VarEnv {
	levels := make(map[Label][]int, len(v.levels)+1)
	for k, s := range v.levels {
		levels[k] = s
	}
	cur := append(append([]int{}, levels[label]...), v.size)
	levels[label] = cur
	return &VarEnv{levels: levels, size: v.size + 1}
}

// Lookup converts a LocalVar (identified by name and the de Bruijn
// level it was allocated at) into the Var(name, index) a quoted Term
// should use at this point in the traversal: index 0 is the nearest
// enclosing binder of that name.
func (v *VarEnv) Lookup(name Label, level int) Var {
	levels := v.levels[name]
	for i := len(levels) - 1; i >= 0; i-- {
		if levels[i] == level {
			return Var{Name: name, Index: len(levels) - 1 - i}
		}
	}
	// A well-typed term never quotes a LocalVar outside the scope
	// that introduced it; this fallback only guards against internal
	// bugs rather than any reachable user-facing case.
	return Var{Name: name, Index: 0}
}

func (v *VarEnv) Size() int { return v.size }
