package core

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = DescribeTable("functionCheck",
	func(in, out, expected Const) {
		Expect(functionCheck(in, out)).To(Equal(expected))
	},
	Entry(`Type ↝ Type : Type`, Type, Type, Type),
	Entry(`Kind ↝ Type : Type`, Kind, Type, Type),
	Entry(`Sort ↝ Type : Type`, Sort, Type, Type),
	Entry(`Type ↝ Kind : Kind`, Type, Kind, Kind),
	Entry(`Kind ↝ Kind : Kind`, Kind, Kind, Kind),
	Entry(`Sort ↝ Kind : Sort`, Sort, Kind, Sort),
	Entry(`Type ↝ Sort : Sort`, Type, Sort, Sort),
	Entry(`Kind ↝ Sort : Sort`, Kind, Sort, Sort),
	Entry(`Sort ↝ Sort : Sort`, Sort, Sort, Sort),
)

func typecheckTest(t Term, expectedType Term) {
	actualType, err := TypeOf(t)
	Ω(err).ShouldNot(HaveOccurred())
	Ω(valuesEqual(actualType, Eval(expectedType))).Should(BeTrue())
}

var v = func(name Label) Term { return Var{Name: name} }

var _ = Describe("TypeOf", func() {
	DescribeTable("Universe",
		typecheckTest,
		Entry("Type : Kind", Type, Kind),
		Entry("Kind : Sort", Kind, Sort),
	)
	DescribeTable("Builtin",
		typecheckTest,
		Entry(`Natural : Type`, Builtin(NaturalType), Type),
		Entry(`List : Type -> Type`, Builtin(ListType), Pi{Label: "_", Type: Type, Body: Type}),
	)
	DescribeTable("Lambda",
		typecheckTest,
		Entry("λ(x : Natural) → x : ∀(x : Natural) → Natural",
			Lam{Label: "x", Type: Builtin(NaturalType), Body: v("x")},
			Pi{Label: "x", Type: Builtin(NaturalType), Body: Builtin(NaturalType)}),
		Entry("λ(a : Type) → ([] : List a) : ∀(a : Type) → List a -- check presence of variables in resulting type",
			Lam{Label: "a", Type: Type, Body: EmptyList{Type: App{Fn: Builtin(ListType), Arg: v("a")}}},
			Pi{Label: "a", Type: Type, Body: App{Fn: Builtin(ListType), Arg: v("a")}}),
		Entry("λ(a : Natural) → assert : a ≡ a -- check presence of variables in resulting type",
			Lam{Label: "a", Type: Builtin(NaturalType), Body: Assert{Annotation: Op{OpCode: EquivOp, L: v("a"), R: v("a")}}},
			Pi{Label: "a", Type: Builtin(NaturalType), Body: Op{OpCode: EquivOp, L: v("a"), R: v("a")}}),
	)
	DescribeTable("Pi",
		typecheckTest,
		Entry(`Natural → Natural : Type`, Pi{Label: "_", Type: Builtin(NaturalType), Body: Builtin(NaturalType)}, Type),
	)
	DescribeTable("Application",
		typecheckTest,
		Entry(`List Natural : Type`, App{Fn: Builtin(ListType), Arg: Builtin(NaturalType)}, Type),
		Entry("(λ(a : Natural) → assert : a ≡ a) 3 -- check presence of variables in resulting type",
			App{
				Fn:  Lam{Label: "a", Type: Builtin(NaturalType), Body: Assert{Annotation: Op{OpCode: EquivOp, L: v("a"), R: v("a")}}},
				Arg: NaturalLit(3),
			},
			Op{OpCode: EquivOp, L: NaturalLit(3), R: NaturalLit(3)}),
	)
	DescribeTable("Others",
		typecheckTest,
		Entry(`3 : Natural`, NaturalLit(3), Builtin(NaturalType)),
		Entry(`[] : List Natural : List Natural`,
			EmptyList{Type: App{Fn: Builtin(ListType), Arg: Builtin(NaturalType)}},
			App{Fn: Builtin(ListType), Arg: Builtin(NaturalType)}),
	)
	DescribeTable("Expected failures",
		func(t Term) {
			_, err := TypeOf(t)
			Ω(err).Should(HaveOccurred())
		},
		Entry(`Sort -- Sort has no type`,
			Sort),
		Entry(`[] : List 3 -- not a valid list type`,
			EmptyList{Type: App{Fn: Builtin(ListType), Arg: NaturalLit(3)}}),
		Entry(`[] : Natural -- not in form "List a"`,
			EmptyList{Type: Builtin(NaturalType)}),
		Entry(`Sort Type -- Fn of App doesn't typecheck`,
			App{Fn: Sort, Arg: Type}),
		Entry(`List Sort -- Arg of App doesn't typecheck`,
			App{Fn: Builtin(ListType), Arg: Sort}),
		Entry(`List 3 -- Arg of App doesn't match function input type`,
			App{Fn: Builtin(ListType), Arg: NaturalLit(3)}),
		Entry(`Natural Natural -- Fn of App isn't of function type`,
			App{Fn: Builtin(NaturalType), Arg: Builtin(NaturalType)}),
	)
})
