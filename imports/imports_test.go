package imports_test

import (
	"testing"

	"github.com/go-dhall/dhall-core/core"
	"github.com/go-dhall/dhall-core/imports"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestImports(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Imports Suite")
}

var _ = Describe("Load", func() {
	It("passes through expressions with no imports", func() {
		expr := core.Lam{Label: "x", Type: core.Builtin(core.NaturalType), Body: core.Var{Name: "x"}}
		got, err := imports.Load(expr)
		Ω(err).ShouldNot(HaveOccurred())
		Ω(got).Should(Equal(core.Term(expr)))
	})
	It("rejects an expression that still has an import", func() {
		expr := core.Annot{Expr: core.Import{Raw: "./foo.dhall"}, Annotation: core.Builtin(core.NaturalType)}
		_, err := imports.Load(expr)
		Ω(err).Should(Equal(imports.ErrHasImports))
	})
	It("rejects a deeply nested import", func() {
		expr := core.Lam{
			Label: "x", Type: core.Builtin(core.NaturalType),
			Body: core.App{Fn: core.Var{Name: "x"}, Arg: core.Import{Raw: "./bar.dhall"}},
		}
		_, err := imports.Load(expr)
		Ω(err).Should(Equal(imports.ErrHasImports))
	})
})
