package core

import "math"

// valuesEqual is judgmental (β-η, up to α-renaming) equality of two
// values: the relation the normaliser's self-referential rules (`if c
// then True else False`, `x && x`, …) and the type-checker's
// conversion check both rely on.
func valuesEqual(v1, v2 *Value) bool {
	return equivalentAt(0, v1, v2)
}

func equivalentAt(level int, v1, v2 *Value) bool {
	return equivalentKinds(level, v1.Kind(), v2.Kind())
}

func equivalentKinds(level int, k1, k2 ValueKind) bool {
	switch k1 := k1.(type) {
	case Const:
		k2, ok := k2.(Const)
		return ok && k1 == k2
	case Builtin:
		k2, ok := k2.(Builtin)
		return ok && k1 == k2
	case Var:
		k2, ok := k2.(Var)
		return ok && k1 == k2
	case LocalVar:
		k2, ok := k2.(LocalVar)
		return ok && k1.Level == k2.Level
	case BoolLit:
		k2, ok := k2.(BoolLit)
		return ok && k1 == k2
	case NaturalLit:
		k2, ok := k2.(NaturalLit)
		return ok && k1 == k2
	case IntegerLit:
		k2, ok := k2.(IntegerLit)
		return ok && k1 == k2
	case DoubleLit:
		k2, ok := k2.(DoubleLit)
		return ok && k1 == k2 && math.Signbit(float64(k1)) == math.Signbit(float64(k2))
	case VLamClosure:
		k2, ok := k2.(VLamClosure)
		if !ok {
			return false
		}
		return equivalentAt(level, k1.Domain, k2.Domain) &&
			equivalentAt(level+1, k1.Closure.ApplyFresh(level), k2.Closure.ApplyFresh(level))
	case VPiClosure:
		k2, ok := k2.(VPiClosure)
		if !ok {
			return false
		}
		return equivalentAt(level, k1.Domain, k2.Domain) &&
			equivalentAt(level+1, k1.Closure.ApplyFresh(level), k2.Closure.ApplyFresh(level))
	case AppValue:
		k2, ok := k2.(AppValue)
		if !ok {
			return false
		}
		return equivalentAt(level, k1.Fn, k2.Fn) && equivalentAt(level, k1.Arg, k2.Arg)
	case AppliedBuiltin:
		k2, ok := k2.(AppliedBuiltin)
		if !ok || k1.B != k2.B || len(k1.Args) != len(k2.Args) {
			return false
		}
		for i := range k1.Args {
			if !equivalentAt(level, k1.Args[i], k2.Args[i]) {
				return false
			}
		}
		return true
	case OpValue:
		k2, ok := k2.(OpValue)
		if !ok {
			return false
		}
		return k1.OpCode == k2.OpCode &&
			equivalentAt(level, k1.L, k2.L) && equivalentAt(level, k1.R, k2.R)
	case VEquivalence:
		k2, ok := k2.(VEquivalence)
		if !ok {
			return false
		}
		return equivalentAt(level, k1.L, k2.L) && equivalentAt(level, k1.R, k2.R)
	case VEmptyOptional:
		k2, ok := k2.(VEmptyOptional)
		return ok && equivalentAt(level, k1.Type, k2.Type)
	case VSome:
		k2, ok := k2.(VSome)
		return ok && equivalentAt(level, k1.Val, k2.Val)
	case VEmptyList:
		k2, ok := k2.(VEmptyList)
		return ok && equivalentAt(level, k1.Type, k2.Type)
	case VNonEmptyList:
		k2, ok := k2.(VNonEmptyList)
		if !ok || len(k1) != len(k2) {
			return false
		}
		for i := range k1 {
			if !equivalentAt(level, k1[i], k2[i]) {
				return false
			}
		}
		return true
	case VTextLit:
		k2, ok := k2.(VTextLit)
		if !ok || k1.Suffix != k2.Suffix || len(k1.Chunks) != len(k2.Chunks) {
			return false
		}
		for i, c1 := range k1.Chunks {
			c2 := k2.Chunks[i]
			if c1.Prefix != c2.Prefix || !equivalentAt(level, c1.Expr, c2.Expr) {
				return false
			}
		}
		return true
	case VRecordType:
		k2, ok := k2.(VRecordType)
		if !ok || len(k1) != len(k2) {
			return false
		}
		for k, v := range k1 {
			v2, present := k2[k]
			if !present || !equivalentAt(level, v, v2) {
				return false
			}
		}
		return true
	case VRecordLit:
		k2, ok := k2.(VRecordLit)
		if !ok || len(k1) != len(k2) {
			return false
		}
		for k, v := range k1 {
			v2, present := k2[k]
			if !present || !equivalentAt(level, v, v2) {
				return false
			}
		}
		return true
	case VUnionType:
		k2, ok := k2.(VUnionType)
		if !ok || len(k1) != len(k2) {
			return false
		}
		for k, v := range k1 {
			v2, present := k2[k]
			if !present {
				return false
			}
			if v == nil || v2 == nil {
				if v != nil || v2 != nil {
					return false
				}
				continue
			}
			if !equivalentAt(level, v, v2) {
				return false
			}
		}
		return true
	case VUnionConstructor:
		k2, ok := k2.(VUnionConstructor)
		return ok && k1.Alt == k2.Alt && equivalentAt(level, k1.Type, k2.Type)
	case VUnionLit:
		k2, ok := k2.(VUnionLit)
		return ok && k1.Alt == k2.Alt &&
			equivalentAt(level, k1.Val, k2.Val) && equivalentAt(level, k1.Type, k2.Type)
	case ifValue:
		k2, ok := k2.(ifValue)
		if !ok {
			return false
		}
		return equivalentAt(level, k1.Cond, k2.Cond) &&
			equivalentAt(level, k1.T, k2.T) && equivalentAt(level, k1.F, k2.F)
	case fieldValue:
		k2, ok := k2.(fieldValue)
		return ok && k1.FieldName == k2.FieldName && equivalentAt(level, k1.Record, k2.Record)
	case projectValue:
		k2, ok := k2.(projectValue)
		if !ok || len(k1.FieldNames) != len(k2.FieldNames) {
			return false
		}
		for i := range k1.FieldNames {
			if k1.FieldNames[i] != k2.FieldNames[i] {
				return false
			}
		}
		return equivalentAt(level, k1.Record, k2.Record)
	case mergeValue:
		k2, ok := k2.(mergeValue)
		if !ok {
			return false
		}
		if (k1.Annotation == nil) != (k2.Annotation == nil) {
			return false
		}
		if k1.Annotation != nil && !equivalentAt(level, k1.Annotation, k2.Annotation) {
			return false
		}
		return equivalentAt(level, k1.Handler, k2.Handler) && equivalentAt(level, k1.Union, k2.Union)
	case toMapValue:
		k2, ok := k2.(toMapValue)
		if !ok {
			return false
		}
		if (k1.Type == nil) != (k2.Type == nil) {
			return false
		}
		if k1.Type != nil && !equivalentAt(level, k1.Type, k2.Type) {
			return false
		}
		return equivalentAt(level, k1.Record, k2.Record)
	case withValue:
		k2, ok := k2.(withValue)
		if !ok || len(k1.Path) != len(k2.Path) {
			return false
		}
		for i := range k1.Path {
			if k1.Path[i] != k2.Path[i] {
				return false
			}
		}
		return equivalentAt(level, k1.Record, k2.Record) && equivalentAt(level, k1.Val, k2.Val)
	case assertValue:
		k2, ok := k2.(assertValue)
		return ok && equivalentAt(level, k1.Annotation, k2.Annotation)
	}
	return false
}
