package core

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Walk", func() {
	It("visits every subterm, including nested ones", func() {
		t := Lam{Label: "x", Type: Builtin(NaturalType),
			Body: App{Fn: v("f"), Arg: Op{OpCode: PlusOp, L: v("x"), R: NaturalLit(1)}}}
		var seen []Term
		Walk(t, func(n Term) { seen = append(seen, n) })
		Expect(seen).To(ContainElement(t))
		Expect(seen).To(ContainElement(t.Body))
		Expect(seen).To(ContainElement(NaturalLit(1)))
		Expect(seen).To(HaveLen(7)) // Lam, Natural, App, Var(f), Op, Var(x), NaturalLit(1)
	})

	It("does not panic on a nil optional subterm", func() {
		t := Merge{Handler: v("h"), Union: v("u"), Annotation: nil}
		Expect(func() { Walk(t, func(Term) {}) }).NotTo(Panic())
	})

	It("is a no-op on a nil Term", func() {
		Expect(func() { Walk(nil, func(Term) { panic("unreachable") }) }).NotTo(Panic())
	})
})
