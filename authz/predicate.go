package authz

import (
	"errors"
	"fmt"
)

// Op is the node type of a Predicate.
type Op uint8

const (
	OpInvalid Op = iota
	// OpAll holds when every child holds. An empty All holds.
	OpAll
	// OpAny holds when at least one child holds. An empty Any never holds.
	OpAny
	// OpEquals holds when the field resolves to Value.
	OpEquals
	// OpOneOf holds when the field resolves to a member of Set.
	OpOneOf
	// OpCompare holds when the field resolves to a number satisfying Comparator against Value.
	OpCompare
)

var opNames = map[Op]string{
	OpAll:     "all",
	OpAny:     "any",
	OpEquals:  "equals",
	OpOneOf:   "oneOf",
	OpCompare: "compare",
}

// String returns the operator name.
func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return "invalid"
}

// MarshalText implements encoding.TextMarshaler.
func (o Op) MarshalText() ([]byte, error) {
	if _, ok := opNames[o]; !ok {
		return nil, fmt.Errorf("authz: invalid op %d", o)
	}
	return []byte(o.String()), nil
}

// Resolver exposes field values to predicates. ok is false when the value is
// absent anywhere along the path.
type Resolver interface {
	Resolve(f Field) (v Value, ok bool)
}

// ResolverFunc adapts an ordinary function to Resolver.
type ResolverFunc func(f Field) (Value, bool)

// Resolve implements Resolver.
func (fn ResolverFunc) Resolve(f Field) (Value, bool) { return fn(f) }

// Predicate is one node of a rule tree. Trees are plain data: build them with
// All, Any, Equals, OneOf and Compare and never mutate them afterwards.
type Predicate struct {
	Op         Op          `yaml:"op"`
	Field      Field       `yaml:"field,omitempty"`
	Value      Value       `yaml:"value,omitempty"`
	Set        []Value     `yaml:"set,omitempty"`
	Comparator Comparator  `yaml:"comparator,omitempty"`
	Children   []Predicate `yaml:"children,omitempty"`
}

// All returns a conjunction of children.
func All(children ...Predicate) Predicate {
	return Predicate{Op: OpAll, Children: children}
}

// Any returns a disjunction of children.
func Any(children ...Predicate) Predicate {
	return Predicate{Op: OpAny, Children: children}
}

// Equals requires field to resolve to exactly v.
func Equals(field Field, v Value) Predicate {
	return Predicate{Op: OpEquals, Field: field, Value: v}
}

// IsTrue is shorthand for Equals(field, Bool(true)).
func IsTrue(field Field) Predicate {
	return Equals(field, Bool(true))
}

// OneOf requires field to resolve to one of set.
func OneOf(field Field, set ...Value) Predicate {
	return Predicate{Op: OpOneOf, Field: field, Set: set}
}

// Compare requires field to resolve to a number n with c.Apply(n, threshold).
func Compare(field Field, c Comparator, threshold float64) Predicate {
	return Predicate{Op: OpCompare, Field: field, Comparator: c, Value: Number(threshold)}
}

// Match evaluates p against r. It never panics on missing data: an absent
// field fails its leaf, and an invalid node never matches.
func (p Predicate) Match(r Resolver) bool {
	switch p.Op {
	case OpAll:
		for _, c := range p.Children {
			if !c.Match(r) {
				return false
			}
		}
		return true
	case OpAny:
		for _, c := range p.Children {
			if c.Match(r) {
				return true
			}
		}
		return false
	case OpEquals:
		v, ok := r.Resolve(p.Field)
		return ok && v.Equal(p.Value)
	case OpOneOf:
		v, ok := r.Resolve(p.Field)
		if !ok {
			return false
		}
		for _, want := range p.Set {
			if v.Equal(want) {
				return true
			}
		}
		return false
	case OpCompare:
		v, ok := r.Resolve(p.Field)
		if !ok {
			return false
		}
		actual, isNum := v.AsNumber()
		threshold, _ := p.Value.AsNumber()
		return isNum && p.Comparator.Apply(actual, threshold)
	default:
		return false
	}
}

// Fields returns every field referenced by p, depth-first, without duplicates.
func (p Predicate) Fields() []Field {
	seen := make(map[Field]bool)
	var out []Field
	p.walk(func(n Predicate) {
		if n.Field != "" && !seen[n.Field] {
			seen[n.Field] = true
			out = append(out, n.Field)
		}
	})
	return out
}

// References reports whether p refers to f anywhere in its tree.
func (p Predicate) References(f Field) bool {
	found := false
	p.walk(func(n Predicate) {
		if n.Field == f {
			found = true
		}
	})
	return found
}

func (p Predicate) walk(fn func(Predicate)) {
	fn(p)
	for _, c := range p.Children {
		c.walk(fn)
	}
}

// ErrUnknownField is wrapped by Validate when a leaf names a field the
// resolver does not expose.
var ErrUnknownField = errors.New("authz: unknown field")

// Validate checks the structure of p. known reports whether a field can be
// resolved; pass nil to skip field checks.
func (p Predicate) Validate(known func(Field) bool) error {
	switch p.Op {
	case OpAll, OpAny:
		if p.Field != "" {
			return fmt.Errorf("authz: %s node must not carry a field (got %q)", p.Op, p.Field)
		}
		for i, c := range p.Children {
			if err := c.Validate(known); err != nil {
				return fmt.Errorf("%s[%d]: %w", p.Op, i, err)
			}
		}
		return nil
	case OpEquals, OpOneOf, OpCompare:
		if p.Field == "" {
			return fmt.Errorf("authz: %s node requires a field", p.Op)
		}
		if known != nil && !known(p.Field) {
			return fmt.Errorf("%w: %q", ErrUnknownField, p.Field)
		}
		if len(p.Children) > 0 {
			return fmt.Errorf("authz: %s node on %q must not have children", p.Op, p.Field)
		}
	default:
		return fmt.Errorf("authz: invalid op %d", p.Op)
	}

	switch p.Op {
	case OpEquals:
		if p.Value.IsZero() {
			return fmt.Errorf("authz: equals on %q has no value", p.Field)
		}
	case OpOneOf:
		if len(p.Set) == 0 {
			return fmt.Errorf("authz: oneOf on %q has an empty set", p.Field)
		}
		for _, v := range p.Set {
			if v.IsZero() {
				return fmt.Errorf("authz: oneOf on %q contains an invalid value", p.Field)
			}
		}
	case OpCompare:
		if !p.Comparator.Valid() {
			return fmt.Errorf("authz: compare on %q has an invalid comparator", p.Field)
		}
		if _, ok := p.Value.AsNumber(); !ok {
			return fmt.Errorf("authz: compare on %q needs a numeric threshold", p.Field)
		}
	}
	return nil
}
