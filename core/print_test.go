package core

import (
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = DescribeTable("Print",
	func(in Term, out string) {
		Expect(Print(in)).To(Equal(out))
	},
	Entry("Natural literal", NaturalLit(4), "4"),
	Entry("builtin", Builtin(NaturalType), "Natural"),
	Entry("identity lambda", Lam{Label: "x", Type: Builtin(NaturalType), Body: v("x")},
		`\(x : Natural) -> x`),
	Entry("application parenthesises its operator-expression argument",
		App{Fn: v("f"), Arg: Op{OpCode: PlusOp, L: NaturalLit(1), R: NaturalLit(2)}},
		"f (1 + 2)"),
	Entry("nested Pi associates to the right",
		Pi{Label: "_", Type: Builtin(NaturalType), Body: Pi{Label: "_", Type: Builtin(BoolType), Body: Builtin(NaturalType)}},
		"Natural -> Bool -> Natural"),
	Entry("field selection binds tighter than application, so its record is parenthesised",
		Field{Record: App{Fn: v("f"), Arg: v("x")}, FieldName: "a"},
		"(f x).a"),
)
