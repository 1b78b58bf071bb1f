package binary_test

import (
	"bytes"

	"github.com/go-dhall/dhall-core/binary"
	"github.com/go-dhall/dhall-core/core"
	"github.com/ugorji/go/codec"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

// rawCbor CBOR-encodes v directly (bypassing binary.Encode) so a test
// can hand Decode a shape Encode itself would never produce, such as
// a Natural literal whose payload is a CBOR bignum or the wrong type.
func rawCbor(v interface{}) []byte {
	var buf bytes.Buffer
	h := &codec.CborHandle{}
	h.Canonical = true
	Ω(codec.NewEncoder(&buf, h).Encode(v)).Should(Succeed())
	return buf.Bytes()
}

func roundTrip(t core.Term) {
	bs, err := binary.Encode(t)
	Ω(err).ShouldNot(HaveOccurred())
	got, err := binary.Decode(bs)
	Ω(err).ShouldNot(HaveOccurred())
	Ω(got).Should(Equal(t))
}

var _ = DescribeTable("Encode/Decode round-trip",
	roundTrip,
	Entry("Type", core.Type),
	Entry("Natural builtin", core.Builtin(core.NaturalType)),
	Entry("bound variable", core.Var{Name: "x", Index: 2}),
	Entry("natural literal", core.NaturalLit(42)),
	Entry("integer literal", core.IntegerLit(-7)),
	Entry("bool literal", core.BoolLit(true)),
	Entry("lambda", core.Lam{Label: "x", Type: core.Builtin(core.NaturalType), Body: core.Var{Name: "x"}}),
	Entry("pi", core.Pi{Label: "_", Type: core.Builtin(core.NaturalType), Body: core.Builtin(core.BoolType)}),
	Entry("application", core.App{Fn: core.Builtin(core.ListType), Arg: core.Builtin(core.NaturalType)}),
	Entry("operator", core.Op{OpCode: core.PlusOp, L: core.NaturalLit(1), R: core.NaturalLit(2)}),
	Entry("record literal", core.RecordLit{"a": core.NaturalLit(1), "b": core.BoolLit(false)}),
	Entry("record type", core.RecordType{"a": core.Builtin(core.NaturalType)}),
	Entry("union type", core.UnionType{"Foo": core.Builtin(core.NaturalType), "Bar": nil}),
	Entry("empty list", core.EmptyList{Type: core.App{Fn: core.Builtin(core.ListType), Arg: core.Builtin(core.NaturalType)}}),
	Entry("non-empty list", core.NonEmptyList{core.NaturalLit(1), core.NaturalLit(2)}),
	Entry("if", core.If{Cond: core.BoolLit(true), T: core.NaturalLit(1), F: core.NaturalLit(2)}),
	Entry("field access", core.Field{Record: core.Var{Name: "r"}, FieldName: "x"}),
	Entry("annotation", core.Annot{Expr: core.NaturalLit(1), Annotation: core.Builtin(core.NaturalType)}),
)

var _ = Describe("SemanticHash", func() {
	It("is stable across runs for the same normal form", func() {
		t := core.Op{OpCode: core.PlusOp, L: core.NaturalLit(1), R: core.NaturalLit(2)}
		h1, err := binary.SemanticHash(t)
		Ω(err).ShouldNot(HaveOccurred())
		h2, err := binary.SemanticHash(t)
		Ω(err).ShouldNot(HaveOccurred())
		Ω(h1).Should(Equal(h2))
		Ω(h1).Should(HavePrefix("sha256:"))
	})
	It("agrees for terms that normalise to the same value", func() {
		direct := core.NaturalLit(3)
		computed := core.Op{OpCode: core.PlusOp, L: core.NaturalLit(1), R: core.NaturalLit(2)}
		h1, err := binary.SemanticHash(direct)
		Ω(err).ShouldNot(HaveOccurred())
		h2, err := binary.SemanticHash(computed)
		Ω(err).ShouldNot(HaveOccurred())
		Ω(h1).Should(Equal(h2))
	})
})

var _ = Describe("Decode", func() {
	It("rejects a Natural literal whose payload is not a plain integer", func() {
		// tag 15 is tagNaturalLit; a text-string payload can never
		// come from Encode, only from a malformed or bignum-tagged input.
		_, err := binary.Decode(rawCbor([]interface{}{15, "not a number"}))
		Ω(err).Should(HaveOccurred())
		Ω(err).Should(BeAssignableToTypeOf(binary.DecodeError{}))
		Ω(err.(binary.DecodeError).Tag).Should(Equal(binary.UnsupportedBignum))
	})

	It("rejects an Integer literal whose payload is not a plain integer", func() {
		// tag 16 is tagIntegerLit.
		_, err := binary.Decode(rawCbor([]interface{}{16, []interface{}{1, 2}}))
		Ω(err).Should(HaveOccurred())
		Ω(err.(binary.DecodeError).Tag).Should(Equal(binary.UnsupportedBignum))
	})

	It("rejects a field selector whose name is not a string", func() {
		// tag 9 is tagField.
		_, err := binary.Decode(rawCbor([]interface{}{9, "x", 7}))
		Ω(err).Should(HaveOccurred())
		Ω(err.(binary.DecodeError).Tag).Should(Equal(binary.BadScalar))
	})

	It("rejects completely malformed input", func() {
		_, err := binary.Decode([]byte{0xff, 0xff, 0xff})
		Ω(err).Should(HaveOccurred())
	})
})
