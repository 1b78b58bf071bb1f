// Package binary implements Dhall's CBOR binary encoding of core.Term,
// built the way dhall-golang's own main.go drives
// github.com/ugorji/go/codec: a Term is first flattened into a plain
// interface{} tree shaped like the target CBOR (arrays, maps, and
// scalars), and the codec library does the actual byte-level work.
package binary

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/go-dhall/dhall-core/core"
	"github.com/pkg/errors"
	"github.com/ugorji/go/codec"
)

func cborHandle() *codec.CborHandle {
	h := &codec.CborHandle{}
	h.Canonical = true
	return h
}

// Encode renders t as Dhall's CBOR binary representation.
func Encode(t core.Term) ([]byte, error) {
	var buf bytes.Buffer
	enc := codec.NewEncoder(&buf, cborHandle())
	if err := enc.Encode(encodeTerm(t)); err != nil {
		return nil, errors.Wrap(err, "binary: encode")
	}
	return buf.Bytes(), nil
}

// Decode parses Dhall's CBOR binary representation back into a Term.
func Decode(data []byte) (core.Term, error) {
	var v interface{}
	dec := codec.NewDecoder(bytes.NewReader(data), cborHandle())
	if err := dec.Decode(&v); err != nil {
		return nil, errors.Wrap(err, "binary: decode")
	}
	return decodeValue(v)
}

// EncodeAsCbor writes t's CBOR binary representation to w, for
// callers (the encode CLI command) that already hold a writer and
// would otherwise just buffer Encode's return value themselves.
func EncodeAsCbor(w io.Writer, t core.Term) error {
	data, err := Encode(t)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return errors.Wrap(err, "binary: write")
}

// DecodeAsCbor reads r to completion and decodes it as Dhall's CBOR
// binary representation.
func DecodeAsCbor(r io.Reader) (core.Term, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "binary: read")
	}
	return Decode(data)
}

// label tags are the leading array-element discriminants of this
// package's own encoding. They agree with the standard Dhall binary
// encoding's numbering only up to tagAssert: Import, Let, Annot, ToMap,
// EmptyList and With take 21 and 24-28 here, not the standard's 24-29,
// so Encode's bytes are not interchangeable with other Dhall
// implementations'.
const (
	tagApp = iota
	tagLambda
	tagPi
	tagOp
	tagNonEmptyList
	tagSome
	tagMerge
	tagRecordType
	tagRecordLit
	tagField
	tagProject
	tagUnionType
	_ // UnionLit was removed from the standard encoding
	_ // unused; BoolLit is encoded as a bare CBOR boolean, not a tag
	tagIf
	tagNaturalLit
	tagIntegerLit
	_
	tagTextLit
	tagAssert
	_
	tagImport
	_
	_
	tagLet
	tagAnnot
	tagToMap
	tagEmptyList
	tagWith
)

func encodeTerm(t core.Term) interface{} {
	switch t := t.(type) {
	case core.Const:
		return t.String()
	case core.Builtin:
		return string(t)
	case core.Var:
		if t.Index == 0 {
			return string(t.Name)
		}
		return []interface{}{string(t.Name), t.Index}
	case core.BoolLit:
		return bool(t)
	case core.NaturalLit:
		return []interface{}{tagNaturalLit, uint64(t)}
	case core.IntegerLit:
		return []interface{}{tagIntegerLit, int64(t)}
	case core.DoubleLit:
		return encodeDouble(float64(t))
	case core.TextLit:
		arr := []interface{}{tagTextLit}
		for _, c := range t.Chunks {
			arr = append(arr, c.Prefix, encodeTerm(c.Expr))
		}
		arr = append(arr, t.Suffix)
		return arr
	case core.EmptyList:
		return []interface{}{tagEmptyList, encodeTerm(t.Type)}
	case core.NonEmptyList:
		arr := []interface{}{tagNonEmptyList}
		for _, e := range t {
			arr = append(arr, encodeTerm(e))
		}
		return arr
	case core.Some:
		return []interface{}{tagSome, encodeTerm(t.Val)}
	case core.RecordType:
		return []interface{}{tagRecordType, encodeFieldMap(t)}
	case core.RecordLit:
		return []interface{}{tagRecordLit, encodeFieldMap(t)}
	case core.UnionType:
		m := make(map[string]interface{}, len(t))
		for k, v := range t {
			if v == nil {
				m[string(k)] = nil
			} else {
				m[string(k)] = encodeTerm(v)
			}
		}
		return []interface{}{tagUnionType, m}
	case core.Lam:
		if t.Label == "_" {
			return []interface{}{tagLambda, encodeTerm(t.Type), encodeTerm(t.Body)}
		}
		return []interface{}{tagLambda, string(t.Label), encodeTerm(t.Type), encodeTerm(t.Body)}
	case core.Pi:
		if t.Label == "_" {
			return []interface{}{tagPi, encodeTerm(t.Type), encodeTerm(t.Body)}
		}
		return []interface{}{tagPi, string(t.Label), encodeTerm(t.Type), encodeTerm(t.Body)}
	case core.Let:
		arr := []interface{}{tagLet}
		for _, b := range t.Bindings {
			if b.Annotation != nil {
				arr = append(arr, string(b.Variable), encodeTerm(b.Annotation), encodeTerm(b.Value))
			} else {
				arr = append(arr, string(b.Variable), nil, encodeTerm(b.Value))
			}
		}
		arr = append(arr, encodeTerm(t.Body))
		return arr
	case core.App:
		fn, args := flattenApp(t)
		arr := []interface{}{tagApp, encodeTerm(fn)}
		for _, a := range args {
			arr = append(arr, encodeTerm(a))
		}
		return arr
	case core.Op:
		return []interface{}{tagOp, int(t.OpCode), encodeTerm(t.L), encodeTerm(t.R)}
	case core.Field:
		return []interface{}{tagField, encodeTerm(t.Record), string(t.FieldName)}
	case core.Project:
		arr := []interface{}{tagProject, encodeTerm(t.Record)}
		names := make([]interface{}, len(t.FieldNames))
		for i, n := range t.FieldNames {
			names[i] = string(n)
		}
		return append(arr, names)
	case core.ProjectType:
		return []interface{}{tagProject, encodeTerm(t.Record), []interface{}{}, encodeTerm(t.Selector)}
	case core.If:
		return []interface{}{tagIf, encodeTerm(t.Cond), encodeTerm(t.T), encodeTerm(t.F)}
	case core.Merge:
		arr := []interface{}{tagMerge, encodeTerm(t.Handler), encodeTerm(t.Union)}
		if t.Annotation != nil {
			arr = append(arr, encodeTerm(t.Annotation))
		}
		return arr
	case core.ToMap:
		arr := []interface{}{tagToMap, encodeTerm(t.Record)}
		if t.Type != nil {
			arr = append(arr, encodeTerm(t.Type))
		}
		return arr
	case core.With:
		arr := []interface{}{tagWith, encodeTerm(t.Record)}
		path := make([]interface{}, len(t.Path))
		for i, p := range t.Path {
			path[i] = string(p)
		}
		return append(arr, path, encodeTerm(t.Value))
	case core.Annot:
		return []interface{}{tagAnnot, encodeTerm(t.Expr), encodeTerm(t.Annotation)}
	case core.Assert:
		return []interface{}{tagAssert, encodeTerm(t.Annotation)}
	case core.Import:
		return []interface{}{tagImport, t.Raw}
	default:
		panic(fmt.Sprintf("binary: encode: unhandled term %T", t))
	}
}

func flattenApp(t core.App) (core.Term, []core.Term) {
	var args []core.Term
	var fn core.Term = t
	for {
		app, ok := fn.(core.App)
		if !ok {
			break
		}
		args = append([]core.Term{app.Arg}, args...)
		fn = app.Fn
	}
	return fn, args
}

func encodeFieldMap(m map[core.Label]core.Term) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[string(k)] = encodeTerm(v)
	}
	return out
}

func encodeDouble(f float64) interface{} {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	return f
}
