package core

// builtinType returns the closed type signature of a builtin, as a
// Term with no free variables. Each Pi binder below uses a distinct
// label so every Var inside can carry index 0; there is never a need
// to count past an outer binder of the same name.
func builtinType(b Builtin) Term {
	v := func(name Label) Term { return Var{Name: name} }
	pi := func(label Label, typ, body Term) Term { return Pi{Label: label, Type: typ, Body: body} }
	arrow := func(in, out Term) Term { return Pi{Label: "_", Type: in, Body: out} }
	listOf := func(elem Term) Term { return App{Fn: Builtin(ListType), Arg: elem} }
	optionalOf := func(elem Term) Term { return App{Fn: Builtin(OptionalType), Arg: elem} }

	switch b {
	case BoolType, NaturalType, IntegerType, DoubleType, TextType:
		return Type
	case ListType, OptionalType:
		return arrow(Type, Type)
	case NoneBuiltin:
		return pi("A", Type, optionalOf(v("A")))

	case NaturalBuild:
		return arrow(churchNat(), Builtin(NaturalType))
	case NaturalFold:
		return arrow(Builtin(NaturalType), churchNat())
	case NaturalIsZero, NaturalEven, NaturalOdd:
		return arrow(Builtin(NaturalType), Builtin(BoolType))
	case NaturalShow:
		return arrow(Builtin(NaturalType), Builtin(TextType))
	case NaturalSubtract:
		return arrow(Builtin(NaturalType), arrow(Builtin(NaturalType), Builtin(NaturalType)))
	case NaturalToInteger:
		return arrow(Builtin(NaturalType), Builtin(IntegerType))

	case IntegerShow:
		return arrow(Builtin(IntegerType), Builtin(TextType))
	case IntegerToDouble:
		return arrow(Builtin(IntegerType), Builtin(DoubleType))
	case IntegerNegate:
		return arrow(Builtin(IntegerType), Builtin(IntegerType))
	case IntegerClamp:
		return arrow(Builtin(IntegerType), Builtin(NaturalType))

	case DoubleShow:
		return arrow(Builtin(DoubleType), Builtin(TextType))

	case OptionalBuild:
		return pi("A", Type, arrow(churchOptional(v("A")), optionalOf(v("A"))))
	case OptionalFold:
		return pi("A", Type, arrow(optionalOf(v("A")), churchOptional(v("A"))))

	case TextShow:
		return arrow(Builtin(TextType), Builtin(TextType))

	case ListBuild:
		return pi("A", Type, arrow(churchList(v("A")), listOf(v("A"))))
	case ListFold:
		return pi("A", Type, arrow(listOf(v("A")), churchList(v("A"))))
	case ListLength:
		return pi("A", Type, arrow(listOf(v("A")), Builtin(NaturalType)))
	case ListHead, ListLast:
		return pi("A", Type, arrow(listOf(v("A")), optionalOf(v("A"))))
	case ListReverse:
		return pi("A", Type, arrow(listOf(v("A")), listOf(v("A"))))
	case ListIndexed:
		indexed := RecordType{"index": Builtin(NaturalType), "value": v("A")}
		return pi("A", Type, arrow(listOf(v("A")), listOf(indexed)))
	}
	panic("core: builtinType: unhandled builtin")
}

// churchNat is `∀(natural : Type) → ∀(succ : natural → natural) →
// ∀(zero : natural) → natural`, the Church encoding Natural/build and
// Natural/fold both traffic in.
func churchNat() Term {
	return Pi{Label: "natural", Type: Type, Body: Pi{
		Label: "succ", Type: Pi{Label: "_", Type: Var{Name: "natural"}, Body: Var{Name: "natural"}},
		Body: Pi{Label: "zero", Type: Var{Name: "natural"}, Body: Var{Name: "natural"}},
	}}
}

// churchOptional is the Church encoding behind Optional/build and
// Optional/fold, parameterised over the Optional's element type.
func churchOptional(elem Term) Term {
	return Pi{Label: "optional", Type: Type, Body: Pi{
		Label: "some", Type: Pi{Label: "_", Type: elem, Body: Var{Name: "optional"}},
		Body: Pi{Label: "none", Type: Var{Name: "optional"}, Body: Var{Name: "optional"}},
	}}
}

// churchList is the Church encoding behind List/build and List/fold,
// parameterised over the list's element type.
func churchList(elem Term) Term {
	consType := Pi{Label: "_", Type: elem, Body: Pi{Label: "_", Type: Var{Name: "list"}, Body: Var{Name: "list"}}}
	return Pi{Label: "list", Type: Type, Body: Pi{
		Label: "cons", Type: consType,
		Body: Pi{Label: "nil", Type: Var{Name: "list"}, Body: Var{Name: "list"}},
	}}
}
