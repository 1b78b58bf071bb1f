package core

import (
	"fmt"
	"strings"
)

// TypeError is returned by TypeOf when an expression is ill-typed. Tag
// identifies which typing rule rejected the expression; Cause is the
// offending subterm's quoted form where one is available.
type TypeError struct {
	Tag     TypeErrorTag
	Cause   Term
	Message string
}

func (e TypeError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Tag, e.Message)
	}
	return e.Tag.String()
}

// Explain renders a longer, human-readable description of e than
// Error does, including the offending subterm when one was recorded.
// It's meant for a CLI's "--explain" style flag, not for log lines.
func (e TypeError) Explain() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n%s\n", e.Tag, e.Tag.explanation())
	if e.Message != "" {
		fmt.Fprintf(&b, "\n%s\n", e.Message)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, "\nWhile checking:\n\n    %s\n", Print(e.Cause))
	}
	return b.String()
}

func (t TypeErrorTag) explanation() string {
	switch t {
	case UnboundVariable:
		return "A variable was referenced that isn't bound by any enclosing λ, ∀, or let."
	case AnnotMismatch:
		return "An expression's inferred type doesn't match the type it was explicitly annotated with."
	case NotAFunction:
		return "An expression was applied to an argument, but its type isn't a function (Pi) type."
	case TypeMismatch:
		return "Two subexpressions that are required to have the same type were found to have different types."
	case NotARecord:
		return "A field was selected from an expression whose type isn't a record type."
	case NotAUnion:
		return "merge's second argument doesn't have a union type."
	case MissingField:
		return "The selected field isn't present in the record."
	case HandlerOutputTypeMismatch:
		return "merge's handlers don't all produce the same output type."
	case NoDependentTypes:
		return "A function's output type depends on a value argument in a way this type-checker rejects."
	default:
		return "See the Dhall standard's typing judgment for this rule."
	}
}

// TypeErrorTag enumerates the typing rule that failed, mirroring the
// standard Dhall type-checker's closed set of failure categories.
type TypeErrorTag int

const (
	UnboundVariable TypeErrorTag = iota
	AnnotMismatch
	NotAFunction
	InvalidInputType
	InvalidOutputType
	TypeMismatch
	NotARecord
	NotAUnion
	MissingField
	MissingConstructor
	FieldCollision
	InvalidListElement
	MismatchedListElements
	InvalidOptionalType
	InvalidFieldType
	NotAnEquivalence
	AssertionFailed
	CantAccess
	CantProject
	CantProjectByExpression
	MergeHandlerNotAFunction
	UnusedHandler
	HandlerOutputTypeMismatch
	HandlersHaveNoCommonType
	MustMergeUnion
	MustMapARecord
	InvalidToMapType
	InvalidToMapRecordKind
	HeterogenousRecordToMap
	MissingToMapType
	InvalidDuplicateField
	NoDependentTypes
	SortHasNoType
	Untyped
	IfBranchMustBeTerm
	IfBranchMismatch
)

func (t TypeErrorTag) String() string {
	switch t {
	case UnboundVariable:
		return "unbound variable"
	case AnnotMismatch:
		return "annotation mismatch"
	case NotAFunction:
		return "not a function"
	case InvalidInputType:
		return "invalid function input type"
	case InvalidOutputType:
		return "invalid function output type"
	case TypeMismatch:
		return "type mismatch"
	case NotARecord:
		return "not a record"
	case NotAUnion:
		return "not a union"
	case MissingField:
		return "missing record field"
	case MissingConstructor:
		return "missing union alternative"
	case FieldCollision:
		return "field collision"
	case InvalidListElement:
		return "invalid list element"
	case MismatchedListElements:
		return "mismatched list elements"
	case InvalidOptionalType:
		return "invalid Optional type"
	case InvalidFieldType:
		return "invalid field type"
	case NotAnEquivalence:
		return "not an equivalence"
	case AssertionFailed:
		return "assertion failed"
	case CantAccess:
		return "cannot access field"
	case CantProject:
		return "cannot project"
	case CantProjectByExpression:
		return "cannot project by expression"
	case MergeHandlerNotAFunction:
		return "merge handler is not a function"
	case UnusedHandler:
		return "unused union handler"
	case HandlerOutputTypeMismatch:
		return "merge handlers disagree on output type"
	case HandlersHaveNoCommonType:
		return "merge has no handlers to infer a type from"
	case MustMergeUnion:
		return "merge's second argument must be a union"
	case MustMapARecord:
		return "toMap's argument must be a record"
	case InvalidToMapType:
		return "invalid toMap annotation"
	case InvalidToMapRecordKind:
		return "toMap record fields must all have the same type"
	case HeterogenousRecordToMap:
		return "toMap record has heterogeneous field types"
	case MissingToMapType:
		return "toMap of an empty record needs an annotation"
	case InvalidDuplicateField:
		return "duplicate field"
	case NoDependentTypes:
		return "dependent types are not supported"
	case SortHasNoType:
		return "Sort has no type"
	case Untyped:
		return "untyped"
	case IfBranchMustBeTerm:
		return "if branch must be a term"
	case IfBranchMismatch:
		return "if branches have different types"
	default:
		return "type error"
	}
}

func mkErr(tag TypeErrorTag, cause Term, format string, args ...interface{}) error {
	return TypeError{Tag: tag, Cause: cause, Message: fmt.Sprintf(format, args...)}
}

// ErrUnresolvedImport is returned by TypeOf (and TypeWith) when a Term
// still contains an Import node. Eval has no error result and panics on
// an Import instead, so a host program must resolve every import before
// calling into this package.
var ErrUnresolvedImport = fmt.Errorf("core: unresolved import: imports must be substituted before type-checking or evaluation")
