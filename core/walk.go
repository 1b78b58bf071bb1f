package core

// Walk calls visit on t and then on every immediate and nested
// subterm, depth-first. It exists for callers outside this package
// (the imports package's import-scan, principally) that need to
// inspect a tree without reimplementing the exhaustive switch over
// every Term constructor that quote.go and typecheck.go already have.
func Walk(t Term, visit func(Term)) {
	if t == nil {
		return
	}
	visit(t)
	switch t := t.(type) {
	case Const, Builtin, Var, LocalVar, BoolLit, NaturalLit, IntegerLit, DoubleLit, Import:
		// no subterms
	case TextLit:
		for _, c := range t.Chunks {
			Walk(c.Expr, visit)
		}
	case EmptyList:
		Walk(t.Type, visit)
	case NonEmptyList:
		for _, e := range t {
			Walk(e, visit)
		}
	case Some:
		Walk(t.Val, visit)
	case RecordType:
		for _, v := range t {
			Walk(v, visit)
		}
	case RecordLit:
		for _, v := range t {
			Walk(v, visit)
		}
	case UnionType:
		for _, v := range t {
			Walk(v, visit)
		}
	case Lam:
		Walk(t.Type, visit)
		Walk(t.Body, visit)
	case Pi:
		Walk(t.Type, visit)
		Walk(t.Body, visit)
	case Let:
		for _, b := range t.Bindings {
			Walk(b.Annotation, visit)
			Walk(b.Value, visit)
		}
		Walk(t.Body, visit)
	case App:
		Walk(t.Fn, visit)
		Walk(t.Arg, visit)
	case Op:
		Walk(t.L, visit)
		Walk(t.R, visit)
	case Field:
		Walk(t.Record, visit)
	case Project:
		Walk(t.Record, visit)
	case ProjectType:
		Walk(t.Record, visit)
		Walk(t.Selector, visit)
	case If:
		Walk(t.Cond, visit)
		Walk(t.T, visit)
		Walk(t.F, visit)
	case Merge:
		Walk(t.Handler, visit)
		Walk(t.Union, visit)
		Walk(t.Annotation, visit)
	case ToMap:
		Walk(t.Record, visit)
		Walk(t.Type, visit)
	case With:
		Walk(t.Record, visit)
		Walk(t.Value, visit)
	case Annot:
		Walk(t.Expr, visit)
		Walk(t.Annotation, visit)
	case Assert:
		Walk(t.Annotation, visit)
	}
}
