package binary

import "fmt"

// DecodeError is returned by Decode when the input is well-formed
// CBOR but not a valid encoding of a core.Term: an unrecognised tag, a
// tagged array with too few elements, a scalar of the wrong Go type once ugorji/go/codec has
// decoded it, or an integer literal encoded as an unsupported CBOR
// bignum (tags 2/3) rather than a plain CBOR integer.
type DecodeError struct {
	Tag     DecodeErrorTag
	Message string
}

func (e DecodeError) Error() string {
	return fmt.Sprintf("binary: decode: %s: %s", e.Tag, e.Message)
}

// Explain renders a longer description of e for a CLI's "--explain" flag.
func (e DecodeError) Explain() string {
	reason := "The input is not a valid CBOR encoding of a Dhall expression."
	if e.Tag == UnsupportedBignum {
		reason = "This decoder only accepts Natural/Integer literals encoded as plain CBOR integers; CBOR bignum tags (2 and 3) are rejected rather than silently truncated."
	}
	return fmt.Sprintf("%s\n\n%s\n\n%s\n", e.Tag, reason, e.Message)
}

// DecodeErrorTag enumerates the closed set of reasons Decode rejects
// an input.
type DecodeErrorTag int

const (
	BadTag DecodeErrorTag = iota
	BadShape
	BadScalar
	UnsupportedBignum
)

func (t DecodeErrorTag) String() string {
	switch t {
	case BadTag:
		return "unrecognised tag"
	case BadShape:
		return "wrong number of array elements"
	case BadScalar:
		return "wrong scalar type"
	case UnsupportedBignum:
		return "big integers are not supported"
	default:
		return "decode error"
	}
}

func decodeErr(tag DecodeErrorTag, format string, args ...interface{}) error {
	return DecodeError{Tag: tag, Message: fmt.Sprintf(format, args...)}
}
