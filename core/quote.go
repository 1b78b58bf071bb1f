package core

// Quote forces v to full normal form and converts it back to a Term,
// resolving every LocalVar back to a named, de-Bruijn-indexed Var via
// a VarEnv built up as the traversal steps under binders.
func Quote(v *Value) Term {
	return quoteAt(NewVarEnv(), v)
}

func quoteAt(venv *VarEnv, v *Value) Term {
	switch k := v.Kind().(type) {
	case Const:
		return k
	case Builtin:
		return k
	case Var:
		return k
	case LocalVar:
		return venv.Lookup(k.Name, k.Level)
	case BoolLit:
		return k
	case NaturalLit:
		return k
	case IntegerLit:
		return k
	case DoubleLit:
		return k
	case VLamClosure:
		label := k.Label
		if label == "" {
			label = "_"
		}
		body := quoteAt(venv.Insert(label), k.Closure.ApplyFresh(venv.Size()))
		return Lam{Label: label, Type: quoteAt(venv, k.Domain), Body: body}
	case VPiClosure:
		label := k.Label
		if label == "" {
			label = "_"
		}
		body := quoteAt(venv.Insert(label), k.Closure.ApplyFresh(venv.Size()))
		return Pi{Label: label, Type: quoteAt(venv, k.Domain), Body: body}
	case AppValue:
		return App{Fn: quoteAt(venv, k.Fn), Arg: quoteAt(venv, k.Arg)}
	case AppliedBuiltin:
		var term Term = k.B
		for _, arg := range k.Args {
			term = App{Fn: term, Arg: quoteAt(venv, arg)}
		}
		return term
	case OpValue:
		return Op{OpCode: k.OpCode, L: quoteAt(venv, k.L), R: quoteAt(venv, k.R)}
	case VEquivalence:
		return Op{OpCode: EquivOp, L: quoteAt(venv, k.L), R: quoteAt(venv, k.R)}
	case VEmptyOptional:
		return App{Fn: NoneBuiltin, Arg: quoteAt(venv, k.Type)}
	case VSome:
		return Some{Val: quoteAt(venv, k.Val)}
	case VEmptyList:
		return EmptyList{Type: quoteAt(venv, k.Type)}
	case VNonEmptyList:
		elems := make(NonEmptyList, len(k))
		for i, e := range k {
			elems[i] = quoteAt(venv, e)
		}
		return elems
	case VTextLit:
		chunks := make([]Chunk, len(k.Chunks))
		for i, c := range k.Chunks {
			chunks[i] = Chunk{Prefix: c.Prefix, Expr: quoteAt(venv, c.Expr)}
		}
		return TextLit{Chunks: chunks, Suffix: k.Suffix}
	case VRecordType:
		rt := make(RecordType, len(k))
		for key, val := range k {
			rt[key] = quoteAt(venv, val)
		}
		return rt
	case VRecordLit:
		rl := make(RecordLit, len(k))
		for key, val := range k {
			rl[key] = quoteAt(venv, val)
		}
		return rl
	case VUnionType:
		ut := make(UnionType, len(k))
		for key, val := range k {
			if val == nil {
				ut[key] = nil
				continue
			}
			ut[key] = quoteAt(venv, val)
		}
		return ut
	case VUnionConstructor:
		return Field{Record: quoteAt(venv, k.Type), FieldName: k.Alt}
	case VUnionLit:
		return App{Fn: Field{Record: quoteAt(venv, k.Type), FieldName: k.Alt}, Arg: quoteAt(venv, k.Val)}
	case ifValue:
		return If{Cond: quoteAt(venv, k.Cond), T: quoteAt(venv, k.T), F: quoteAt(venv, k.F)}
	case fieldValue:
		return Field{Record: quoteAt(venv, k.Record), FieldName: k.FieldName}
	case projectValue:
		return Project{Record: quoteAt(venv, k.Record), FieldNames: k.FieldNames}
	case mergeValue:
		m := Merge{Handler: quoteAt(venv, k.Handler), Union: quoteAt(venv, k.Union)}
		if k.Annotation != nil {
			m.Annotation = quoteAt(venv, k.Annotation)
		}
		return m
	case toMapValue:
		tm := ToMap{Record: quoteAt(venv, k.Record)}
		if k.Type != nil {
			tm.Type = quoteAt(venv, k.Type)
		}
		return tm
	case withValue:
		return With{Record: quoteAt(venv, k.Record), Path: k.Path, Value: quoteAt(venv, k.Val)}
	case assertValue:
		return Assert{Annotation: quoteAt(venv, k.Annotation)}
	default:
		panic("core: quote: unhandled value kind")
	}
}
