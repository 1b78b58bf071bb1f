package core

// AlphaNormalize renames every bound variable in t to "_", without
// performing any β-reduction. It is a pure structural pass: Var
// indices are recomputed from scratch by tracking every enclosing
// binder's original label (not just same-named ones), since once all
// binders share the name "_" an index must count all of them.
func AlphaNormalize(t Term) Term {
	return alphaRename(t, nil)
}

func alphaRename(t Term, scope []Label) Term {
	switch t := t.(type) {
	case Const, Builtin, LocalVar, BoolLit, NaturalLit, IntegerLit, DoubleLit, Import:
		return t
	case Var:
		depth := 0
		count := 0
		for i := len(scope) - 1; i >= 0; i-- {
			if scope[i] == t.Name {
				if count == t.Index {
					return Var{Name: "_", Index: depth}
				}
				count++
			}
			depth++
		}
		// Unbound in this traversal: a free variable keeps its name,
		// since there is no enclosing binder to rename it against.
		return t
	case Lam:
		return Lam{
			Label: "_",
			Type:  alphaRename(t.Type, scope),
			Body:  alphaRename(t.Body, append(append([]Label{}, scope...), t.Label)),
		}
	case Pi:
		return Pi{
			Label: "_",
			Type:  alphaRename(t.Type, scope),
			Body:  alphaRename(t.Body, append(append([]Label{}, scope...), t.Label)),
		}
	case Let:
		newScope := append([]Label{}, scope...)
		bindings := make([]Binding, len(t.Bindings))
		for i, b := range t.Bindings {
			nb := Binding{Variable: b.Variable, Value: alphaRename(b.Value, newScope)}
			if b.Annotation != nil {
				nb.Annotation = alphaRename(b.Annotation, newScope)
			}
			bindings[i] = nb
			newScope = append(newScope, b.Variable)
		}
		return Let{Bindings: bindings, Body: alphaRename(t.Body, newScope)}
	case App:
		return App{Fn: alphaRename(t.Fn, scope), Arg: alphaRename(t.Arg, scope)}
	case Op:
		return Op{OpCode: t.OpCode, L: alphaRename(t.L, scope), R: alphaRename(t.R, scope)}
	case TextLit:
		chunks := make([]Chunk, len(t.Chunks))
		for i, c := range t.Chunks {
			chunks[i] = Chunk{Prefix: c.Prefix, Expr: alphaRename(c.Expr, scope)}
		}
		return TextLit{Chunks: chunks, Suffix: t.Suffix}
	case If:
		return If{Cond: alphaRename(t.Cond, scope), T: alphaRename(t.T, scope), F: alphaRename(t.F, scope)}
	case EmptyList:
		return EmptyList{Type: alphaRename(t.Type, scope)}
	case NonEmptyList:
		out := make(NonEmptyList, len(t))
		for i, e := range t {
			out[i] = alphaRename(e, scope)
		}
		return out
	case Some:
		return Some{Val: alphaRename(t.Val, scope)}
	case RecordType:
		out := make(RecordType, len(t))
		for k, v := range t {
			out[k] = alphaRename(v, scope)
		}
		return out
	case RecordLit:
		out := make(RecordLit, len(t))
		for k, v := range t {
			out[k] = alphaRename(v, scope)
		}
		return out
	case UnionType:
		out := make(UnionType, len(t))
		for k, v := range t {
			if v == nil {
				out[k] = nil
				continue
			}
			out[k] = alphaRename(v, scope)
		}
		return out
	case Field:
		return Field{Record: alphaRename(t.Record, scope), FieldName: t.FieldName}
	case Project:
		return Project{Record: alphaRename(t.Record, scope), FieldNames: t.FieldNames}
	case ProjectType:
		return ProjectType{Record: alphaRename(t.Record, scope), Selector: alphaRename(t.Selector, scope)}
	case Merge:
		m := Merge{Handler: alphaRename(t.Handler, scope), Union: alphaRename(t.Union, scope)}
		if t.Annotation != nil {
			m.Annotation = alphaRename(t.Annotation, scope)
		}
		return m
	case ToMap:
		tm := ToMap{Record: alphaRename(t.Record, scope)}
		if t.Type != nil {
			tm.Type = alphaRename(t.Type, scope)
		}
		return tm
	case With:
		return With{Record: alphaRename(t.Record, scope), Path: t.Path, Value: alphaRename(t.Value, scope)}
	case Annot:
		return Annot{Expr: alphaRename(t.Expr, scope), Annotation: alphaRename(t.Annotation, scope)}
	case Assert:
		return Assert{Annotation: alphaRename(t.Annotation, scope)}
	default:
		panic("core: alphaRename: unhandled term type")
	}
}
