package core

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("Normalize", func() {
	DescribeTable("beta reduction",
		func(in, out Term) {
			Expect(Normalize(in)).To(Equal(out))
		},
		Entry("application of a lambda",
			App{Fn: Lam{Label: "x", Type: Builtin(NaturalType), Body: v("x")}, Arg: NaturalLit(4)},
			NaturalLit(4)),
		Entry("Natural/+",
			Op{OpCode: PlusOp, L: NaturalLit(1), R: NaturalLit(2)},
			NaturalLit(3)),
		Entry("Natural/+ of a variable and zero reduces to the variable",
			Op{OpCode: PlusOp, L: v("x"), R: NaturalLit(0)},
			v("x")),
		Entry("if true",
			If{Cond: BoolLit(true), T: NaturalLit(1), F: NaturalLit(2)},
			NaturalLit(1)),
		Entry("if false",
			If{Cond: BoolLit(false), T: NaturalLit(1), F: NaturalLit(2)},
			NaturalLit(2)),
		Entry("field projection out of a record literal",
			Field{Record: RecordLit{"a": NaturalLit(1), "b": NaturalLit(2)}, FieldName: "b"},
			NaturalLit(2)),
	)

	It("does not reduce under an unapplied lambda beyond normalising its body", func() {
		in := Lam{Label: "x", Type: Builtin(NaturalType), Body: Op{OpCode: PlusOp, L: NaturalLit(1), R: NaturalLit(1)}}
		Expect(Normalize(in)).To(Equal(Lam{Label: "x", Type: Builtin(NaturalType), Body: NaturalLit(2)}))
	})
})

var _ = Describe("AlphaNormalize", func() {
	It("renames every bound variable to _", func() {
		in := Lam{Label: "x", Type: Builtin(NaturalType), Body: v("x")}
		want := Lam{Label: "_", Type: Builtin(NaturalType), Body: v("_")}
		Expect(AlphaNormalize(in)).To(Equal(want))
	})

	It("leaves two differently-named but structurally identical lambdas equal", func() {
		a := Lam{Label: "x", Type: Builtin(NaturalType), Body: v("x")}
		b := Lam{Label: "y", Type: Builtin(NaturalType), Body: v("y")}
		Expect(AlphaNormalize(a)).To(Equal(AlphaNormalize(b)))
	})
})

var _ = Describe("valuesEqual", func() {
	It("considers alpha-equivalent lambdas equal", func() {
		a := Eval(Lam{Label: "x", Type: Builtin(NaturalType), Body: v("x")})
		b := Eval(Lam{Label: "y", Type: Builtin(NaturalType), Body: v("y")})
		Expect(valuesEqual(a, b)).To(BeTrue())
	})

	It("considers differing literals unequal", func() {
		Expect(valuesEqual(Eval(NaturalLit(1)), Eval(NaturalLit(2)))).To(BeFalse())
	})
})
