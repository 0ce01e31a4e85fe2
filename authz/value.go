package authz

import (
	"strconv"
)

// Field is a dotted path into the data a Resolver exposes,
// e.g. "accountMembership.statusInfo.status".
type Field string

// Kind identifies the payload carried by a Value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindString
	KindNumber
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	default:
		return "invalid"
	}
}

// Value is a scalar leaf value: a boolean, a string (enums included) or a number.
// The zero Value is invalid and equals nothing, itself included.
type Value struct {
	kind Kind
	b    bool
	s    string
	n    float64
}

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// String returns a string Value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Number returns a numeric Value.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// Int returns a numeric Value from an int.
func Int(n int) Value { return Number(float64(n)) }

// Kind returns the kind of v.
func (v Value) Kind() Kind { return v.kind }

// IsZero reports whether v is the invalid zero Value.
func (v Value) IsZero() bool { return v.kind == KindInvalid }

// AsBool returns the boolean payload and whether v is a boolean.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsString returns the string payload and whether v is a string.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsNumber returns the numeric payload and whether v is a number.
func (v Value) AsNumber() (float64, bool) { return v.n, v.kind == KindNumber }

// Equal reports whether v and o have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == o.b
	case KindString:
		return v.s == o.s
	case KindNumber:
		return v.n == o.n
	default:
		return false
	}
}

// String renders v for logs and error messages.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindString:
		return strconv.Quote(v.s)
	case KindNumber:
		return strconv.FormatFloat(v.n, 'g', -1, 64)
	default:
		return "<invalid>"
	}
}

// Native returns the payload as a plain Go value (bool, string or float64),
// or nil for the invalid Value.
func (v Value) Native() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindString:
		return v.s
	case KindNumber:
		return v.n
	default:
		return nil
	}
}

// MarshalYAML renders v as its native scalar.
func (v Value) MarshalYAML() (interface{}, error) {
	return v.Native(), nil
}
