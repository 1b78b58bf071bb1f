package parser_test

import (
	"math"

	"github.com/go-dhall/dhall-core/core"
	"github.com/go-dhall/dhall-core/parser"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

func ParseAndCompare(input string, expected interface{}) {
	root, err := parser.Parse("test", []byte(input))
	Expect(err).ToNot(HaveOccurred())
	Expect(root).To(Equal(expected))
}

func ParseAndFail(input string) {
	_, err := parser.Parse("test", []byte(input))
	Expect(err).To(HaveOccurred())
}

var _ = Describe("Expression", func() {
	DescribeTable("simple expressions", ParseAndCompare,
		Entry("Type", `Type`, core.Type),
		Entry("Kind", `Kind`, core.Kind),
		Entry("Sort", `Sort`, core.Sort),
		Entry("Double", `Double`, core.Builtin(core.DoubleType)),
		Entry("DoubleLit", `3.0`, core.DoubleLit(3.0)),
		Entry("DoubleLit with exponent", `3E5`, core.DoubleLit(3e5)),
		Entry("DoubleLit with sign", `+3.0`, core.DoubleLit(3.0)),
		Entry("DoubleLit with everything", `-5.0e1`, core.DoubleLit(-50.0)),
		Entry("Infinity", `Infinity`, core.DoubleLit(math.Inf(1))),
		Entry("-Infinity", `-Infinity`, core.DoubleLit(math.Inf(-1))),
		Entry("Integer", `Integer`, core.Builtin(core.IntegerType)),
		Entry("IntegerLit", `+1234`, core.IntegerLit(1234)),
		Entry("IntegerLit", `-3`, core.IntegerLit(-3)),
		Entry("Identifier", `x`, core.Var{Name: "x", Index: 0}),
		Entry("Identifier with index", `x@1`, core.Var{Name: "x", Index: 1}),
		Entry("Annotated expression", `3 : Natural`, core.Annot{Expr: core.NaturalLit(3), Annotation: core.Builtin(core.NaturalType)}),
	)
	DescribeTable("naturals", ParseAndCompare,
		Entry("Natural", `Natural`, core.Builtin(core.NaturalType)),
		Entry("NaturalLit", `1234`, core.NaturalLit(1234)),
		Entry("NaturalLit", `3`, core.NaturalLit(3)),
		Entry("NaturalPlus", `3 + 5`, core.Op{OpCode: core.PlusOp, L: core.NaturalLit(3), R: core.NaturalLit(5)}),
		// Check that if we skip whitespace, it parses
		// correctly as function application, not natural
		// addition
		Entry("Plus without whitespace", `3 +5`, core.App{Fn: core.NaturalLit(3), Arg: core.IntegerLit(5)}),
		// Operators at the same level are right-associative: `3 + 5 + 7`
		// must parse as `3 + (5 + 7)`, not `(3 + 5) + 7`.
		Entry("NaturalPlus is right-associative", `3 + 5 + 7`,
			core.Op{OpCode: core.PlusOp, L: core.NaturalLit(3), R: core.Op{OpCode: core.PlusOp, L: core.NaturalLit(5), R: core.NaturalLit(7)}}),
	)
	DescribeTable("lists", ParseAndCompare,
		Entry("List Natural", `List Natural`, core.App{Fn: core.Builtin(core.ListType), Arg: core.Builtin(core.NaturalType)}),
	)
	// can't test NaN using ParseAndCompare because NaN ≠ NaN
	It("handles NaN correctly", func() {
		root, err := parser.Parse("test", []byte(`NaN`))
		Expect(err).ToNot(HaveOccurred())
		f := float64(root.(core.DoubleLit))
		Expect(math.IsNaN(f)).To(BeTrue())
	})
	DescribeTable("lambda expressions", ParseAndCompare,
		Entry("simple λ",
			`λ(foo : bar) → baz`,
			core.Lam{Label: "foo", Type: core.Var{Name: "bar"}, Body: core.Var{Name: "baz"}}),
		Entry(`simple \`,
			`\(foo : bar) → baz`,
			core.Lam{Label: "foo", Type: core.Var{Name: "bar"}, Body: core.Var{Name: "baz"}}),
		Entry("with line comment",
			"λ(foo : bar) --asdf\n → baz",
			core.Lam{Label: "foo", Type: core.Var{Name: "bar"}, Body: core.Var{Name: "baz"}}),
		Entry("with block comment",
			"λ(foo : bar) {-asdf\n-} → baz",
			core.Lam{Label: "foo", Type: core.Var{Name: "bar"}, Body: core.Var{Name: "baz"}}),
		Entry("simple ∀",
			`∀(foo : bar) → baz`,
			core.Pi{Label: "foo", Type: core.Var{Name: "bar"}, Body: core.Var{Name: "baz"}}),
		Entry(`simple forall`,
			`forall(foo : bar) → baz`,
			core.Pi{Label: "foo", Type: core.Var{Name: "bar"}, Body: core.Var{Name: "baz"}}),
		Entry("with line comment",
			"∀(foo : bar) --asdf\n → baz",
			core.Pi{Label: "foo", Type: core.Var{Name: "bar"}, Body: core.Var{Name: "baz"}}),
	)
	DescribeTable("applications", ParseAndCompare,
		Entry("identifier application",
			`foo bar`,
			core.App{Fn: core.Var{Name: "foo"}, Arg: core.Var{Name: "bar"}}),
		Entry("lambda application",
			`(λ(foo : bar) → baz) quux`,
			core.App{
				Fn:  core.Lam{Label: "foo", Type: core.Var{Name: "bar"}, Body: core.Var{Name: "baz"}},
				Arg: core.Var{Name: "quux"},
			}),
	)
	DescribeTable("records", ParseAndCompare,
		Entry("empty record literal", `{=}`, core.RecordLit{}),
		Entry("empty record type", `{}`, core.RecordType{}),
		Entry("record literal",
			`{ foo = 1, bar = True }`,
			core.RecordLit{"foo": core.NaturalLit(1), "bar": core.BoolLit(true)}),
		Entry("record type",
			`{ foo : Natural, bar : Bool }`,
			core.RecordType{"foo": core.Builtin(core.NaturalType), "bar": core.Builtin(core.BoolType)}),
	)
	DescribeTable("unions", ParseAndCompare,
		Entry("empty union type", `<>`, core.UnionType{}),
		Entry("union type with payload",
			`< Foo : Natural | Bar >`,
			core.UnionType{"Foo": core.Builtin(core.NaturalType), "Bar": nil}),
	)
	DescribeTable("let expressions", ParseAndCompare,
		Entry("simple let",
			`let x = 1 in x`,
			core.Let{Bindings: []core.Binding{{Variable: "x", Value: core.NaturalLit(1)}}, Body: core.Var{Name: "x"}}),
		Entry("annotated let",
			`let x : Natural = 1 in x`,
			core.Let{Bindings: []core.Binding{{Variable: "x", Annotation: core.Builtin(core.NaturalType), Value: core.NaturalLit(1)}}, Body: core.Var{Name: "x"}}),
	)
	DescribeTable("if expressions", ParseAndCompare,
		Entry("simple if",
			`if True then 1 else 2`,
			core.If{Cond: core.BoolLit(true), T: core.NaturalLit(1), F: core.NaturalLit(2)}),
	)
	Describe("Expected failures", func() {
		// these keywords should fail to parse unless they're part of
		// a larger expression
		DescribeTable("keywords", ParseAndFail,
			Entry("if", `if`),
			Entry("then", `then`),
			Entry("else", `else`),
			Entry("let", `let`),
			Entry("in", `in`),
			Entry("as", `as`),
			Entry("using", `using`),
			Entry("merge", `merge`),
			Entry("Some", `Some`),
		)
		DescribeTable("other failures", ParseAndFail,
			Entry("unterminated text literal", `"abc`),
			Entry("unclosed lambda binder", `λ(foo : bar) baz`),
			Entry("empty list without annotation", `[]`),
		)
	})
})
