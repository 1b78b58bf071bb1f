package binary

import (
	"fmt"
	"math"

	"github.com/go-dhall/dhall-core/core"
)

func decodeValue(v interface{}) (core.Term, error) {
	switch v := v.(type) {
	case string:
		return stringToTerm(v), nil
	case bool:
		return core.BoolLit(v), nil
	case float32:
		return core.DoubleLit(float64(v)), nil
	case float64:
		return core.DoubleLit(v), nil
	case []interface{}:
		return decodeArray(v)
	case nil:
		return nil, fmt.Errorf("binary: decode: unexpected null term")
	default:
		return nil, fmt.Errorf("binary: decode: unsupported CBOR value %T", v)
	}
}

func stringToTerm(s string) core.Term {
	switch s {
	case "Type":
		return core.Type
	case "Kind":
		return core.Kind
	case "Sort":
		return core.Sort
	}
	if b, ok := core.LookupBuiltin(s); ok {
		return b
	}
	return core.Var{Name: core.Label(s), Index: 0}
}

func decodeArray(arr []interface{}) (core.Term, error) {
	if len(arr) == 0 {
		return nil, fmt.Errorf("binary: decode: empty array")
	}
	// A plain [label, index] pair is a Var with a nonzero de Bruijn index.
	if len(arr) == 2 {
		if label, ok := arr[0].(string); ok {
			if idx, ok := asInt(arr[1]); ok {
				return core.Var{Name: core.Label(label), Index: idx}, nil
			}
		}
	}
	tag, ok := asInt(arr[0])
	if !ok {
		return nil, fmt.Errorf("binary: decode: expected leading tag, got %T", arr[0])
	}
	rest := arr[1:]
	minArgs := map[int]int{
		tagApp: 1, tagLambda: 2, tagPi: 2, tagOp: 3, tagEmptyList: 1, tagSome: 1,
		tagRecordType: 1, tagRecordLit: 1, tagUnionType: 1, tagField: 2, tagProject: 2,
		tagIf: 3, tagNaturalLit: 1, tagIntegerLit: 1, tagAssert: 1, tagImport: 1,
		tagLet: 1, tagAnnot: 2, tagToMap: 1, tagWith: 3,
	}
	if min, ok := minArgs[tag]; ok && len(rest) < min {
		return nil, decodeErr(BadShape, "tag %d needs at least %d elements after the tag, got %d", tag, min, len(rest))
	}
	switch tag {
	case tagApp:
		fn, err := decodeValue(rest[0])
		if err != nil {
			return nil, err
		}
		app := fn
		for _, a := range rest[1:] {
			arg, err := decodeValue(a)
			if err != nil {
				return nil, err
			}
			app = core.App{Fn: app, Arg: arg}
		}
		return app, nil
	case tagLambda, tagPi:
		label := core.Label("_")
		idx := 0
		if s, ok := rest[0].(string); ok && len(rest) == 3 {
			label = core.Label(s)
			idx = 1
		}
		typ, err := decodeValue(rest[idx])
		if err != nil {
			return nil, err
		}
		body, err := decodeValue(rest[idx+1])
		if err != nil {
			return nil, err
		}
		if tag == tagLambda {
			return core.Lam{Label: label, Type: typ, Body: body}, nil
		}
		return core.Pi{Label: label, Type: typ, Body: body}, nil
	case tagOp:
		code, ok := asInt(rest[0])
		if !ok {
			return nil, decodeErr(BadScalar, "expected an operator code, got %T", rest[0])
		}
		l, err := decodeValue(rest[1])
		if err != nil {
			return nil, err
		}
		r, err := decodeValue(rest[2])
		if err != nil {
			return nil, err
		}
		return core.Op{OpCode: core.BinOpCode(code), L: l, R: r}, nil
	case tagNonEmptyList:
		elems := make(core.NonEmptyList, 0, len(rest))
		for _, e := range rest {
			t, err := decodeValue(e)
			if err != nil {
				return nil, err
			}
			elems = append(elems, t)
		}
		return elems, nil
	case tagEmptyList:
		typ, err := decodeValue(rest[0])
		if err != nil {
			return nil, err
		}
		return core.EmptyList{Type: typ}, nil
	case tagSome:
		val, err := decodeValue(rest[0])
		if err != nil {
			return nil, err
		}
		return core.Some{Val: val}, nil
	case tagRecordType, tagRecordLit:
		m, err := decodeFieldMap(rest[0])
		if err != nil {
			return nil, err
		}
		if tag == tagRecordType {
			return core.RecordType(m), nil
		}
		return core.RecordLit(m), nil
	case tagUnionType:
		raw, err := asStringMap(rest[0])
		if err != nil {
			return nil, err
		}
		ut := make(core.UnionType, len(raw))
		for k, v := range raw {
			if v == nil {
				ut[core.Label(k)] = nil
				continue
			}
			t, err := decodeValue(v)
			if err != nil {
				return nil, err
			}
			ut[core.Label(k)] = t
		}
		return ut, nil
	case tagField:
		rec, err := decodeValue(rest[0])
		if err != nil {
			return nil, err
		}
		name, ok := rest[1].(string)
		if !ok {
			return nil, decodeErr(BadScalar, "expected a field name string, got %T", rest[1])
		}
		return core.Field{Record: rec, FieldName: core.Label(name)}, nil
	case tagProject:
		rec, err := decodeValue(rest[0])
		if err != nil {
			return nil, err
		}
		if len(rest) == 3 {
			sel, err := decodeValue(rest[2])
			if err != nil {
				return nil, err
			}
			return core.ProjectType{Record: rec, Selector: sel}, nil
		}
		names, err := asLabelSlice(rest[1])
		if err != nil {
			return nil, err
		}
		return core.Project{Record: rec, FieldNames: names}, nil
	case tagIf:
		cond, err := decodeValue(rest[0])
		if err != nil {
			return nil, err
		}
		tB, err := decodeValue(rest[1])
		if err != nil {
			return nil, err
		}
		fB, err := decodeValue(rest[2])
		if err != nil {
			return nil, err
		}
		return core.If{Cond: cond, T: tB, F: fB}, nil
	case tagNaturalLit:
		n, ok := asUint(rest[0])
		if !ok {
			return nil, decodeErr(UnsupportedBignum, "Natural literal payload %T is not a plain CBOR integer", rest[0])
		}
		return core.NaturalLit(n), nil
	case tagIntegerLit:
		n, ok := asInt64(rest[0])
		if !ok {
			return nil, decodeErr(UnsupportedBignum, "Integer literal payload %T is not a plain CBOR integer", rest[0])
		}
		return core.IntegerLit(n), nil
	case tagTextLit:
		lit := core.TextLit{}
		for i := 0; i+1 < len(rest); i += 2 {
			prefix, ok := rest[i].(string)
			if !ok {
				return nil, decodeErr(BadScalar, "expected a text chunk prefix string, got %T", rest[i])
			}
			expr, err := decodeValue(rest[i+1])
			if err != nil {
				return nil, err
			}
			lit.Chunks = append(lit.Chunks, core.Chunk{Prefix: prefix, Expr: expr})
		}
		if len(rest)%2 == 1 {
			suffix, ok := rest[len(rest)-1].(string)
			if !ok {
				return nil, decodeErr(BadScalar, "expected a text suffix string, got %T", rest[len(rest)-1])
			}
			lit.Suffix = suffix
		}
		return lit, nil
	case tagAssert:
		annot, err := decodeValue(rest[0])
		if err != nil {
			return nil, err
		}
		return core.Assert{Annotation: annot}, nil
	case tagImport:
		raw, ok := rest[0].(string)
		if !ok {
			return nil, decodeErr(BadScalar, "expected an import source string, got %T", rest[0])
		}
		return core.Import{Raw: raw}, nil
	case tagLet:
		var bindings []core.Binding
		i := 0
		for ; i+2 < len(rest); i += 3 {
			label, ok := rest[i].(string)
			if !ok {
				return nil, decodeErr(BadScalar, "expected a let-binding label string, got %T", rest[i])
			}
			var annot core.Term
			if rest[i+1] != nil {
				t, err := decodeValue(rest[i+1])
				if err != nil {
					return nil, err
				}
				annot = t
			}
			val, err := decodeValue(rest[i+2])
			if err != nil {
				return nil, err
			}
			bindings = append(bindings, core.Binding{Variable: core.Label(label), Annotation: annot, Value: val})
		}
		body, err := decodeValue(rest[i])
		if err != nil {
			return nil, err
		}
		return core.Let{Bindings: bindings, Body: body}, nil
	case tagAnnot:
		expr, err := decodeValue(rest[0])
		if err != nil {
			return nil, err
		}
		typ, err := decodeValue(rest[1])
		if err != nil {
			return nil, err
		}
		return core.Annot{Expr: expr, Annotation: typ}, nil
	case tagToMap:
		rec, err := decodeValue(rest[0])
		if err != nil {
			return nil, err
		}
		var typ core.Term
		if len(rest) > 1 {
			typ, err = decodeValue(rest[1])
			if err != nil {
				return nil, err
			}
		}
		return core.ToMap{Record: rec, Type: typ}, nil
	case tagWith:
		rec, err := decodeValue(rest[0])
		if err != nil {
			return nil, err
		}
		path, err := asLabelSlice(rest[1])
		if err != nil {
			return nil, err
		}
		val, err := decodeValue(rest[2])
		if err != nil {
			return nil, err
		}
		return core.With{Record: rec, Path: path, Value: val}, nil
	default:
		return nil, decodeErr(BadTag, "unknown tag %d", tag)
	}
}

func decodeFieldMap(v interface{}) (map[core.Label]core.Term, error) {
	raw, err := asStringMap(v)
	if err != nil {
		return nil, err
	}
	out := make(map[core.Label]core.Term, len(raw))
	for k, rv := range raw {
		t, err := decodeValue(rv)
		if err != nil {
			return nil, err
		}
		out[core.Label(k)] = t
	}
	return out, nil
}

func asStringMap(v interface{}) (map[string]interface{}, error) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, nil
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, val := range m {
			s, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("binary: decode: non-string map key %v", k)
			}
			out[s] = val
		}
		return out, nil
	default:
		return nil, fmt.Errorf("binary: decode: expected a map, got %T", v)
	}
}

func asLabelSlice(v interface{}) ([]core.Label, error) {
	arr, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("binary: decode: expected an array of labels, got %T", v)
	}
	out := make([]core.Label, len(arr))
	for i, e := range arr {
		s, ok := e.(string)
		if !ok {
			return nil, fmt.Errorf("binary: decode: expected a label string, got %T", e)
		}
		out[i] = core.Label(s)
	}
	return out, nil
}

func asInt(v interface{}) (int, bool) {
	n, ok := asInt64(v)
	return int(n), ok
}

func asInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case uint64:
		return int64(n), true
	case float64:
		if n == math.Trunc(n) {
			return int64(n), true
		}
	}
	return 0, false
}

func asUint(v interface{}) (uint64, bool) {
	switch n := v.(type) {
	case uint64:
		return n, true
	case int64:
		return uint64(n), true
	case int:
		return uint64(n), true
	case float64:
		if n == math.Trunc(n) {
			return uint64(n), true
		}
	}
	return 0, false
}
