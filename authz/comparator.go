package authz

import "fmt"

// Comparator is a numeric comparison applied as comparator(actual, threshold).
type Comparator uint8

const (
	ComparatorInvalid Comparator = iota
	GreaterThan
	GreaterOrEqual
	LessThan
	LessOrEqual
	EqualTo
)

var comparatorNames = map[Comparator]string{
	GreaterThan:    "gt",
	GreaterOrEqual: "gte",
	LessThan:       "lt",
	LessOrEqual:    "lte",
	EqualTo:        "eq",
}

// String returns the short operator name ("gt", "gte", ...).
func (c Comparator) String() string {
	if name, ok := comparatorNames[c]; ok {
		return name
	}
	return "invalid"
}

// Valid reports whether c is a known comparator.
func (c Comparator) Valid() bool {
	_, ok := comparatorNames[c]
	return ok
}

// Apply evaluates actual <c> threshold. An invalid comparator never holds.
func (c Comparator) Apply(actual, threshold float64) bool {
	switch c {
	case GreaterThan:
		return actual > threshold
	case GreaterOrEqual:
		return actual >= threshold
	case LessThan:
		return actual < threshold
	case LessOrEqual:
		return actual <= threshold
	case EqualTo:
		return actual == threshold
	default:
		return false
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Comparator) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("authz: invalid comparator %d", c)
	}
	return []byte(c.String()), nil
}

// ParseComparator parses a short operator name.
func ParseComparator(s string) (Comparator, error) {
	for c, name := range comparatorNames {
		if name == s {
			return c, nil
		}
	}
	return ComparatorInvalid, fmt.Errorf("authz: unknown comparator %q", s)
}
