package permission

import (
	"fmt"
	"slices"

	"github.com/kbukum/accessmatrix/authz"
	"github.com/kbukum/accessmatrix/errors"
	"github.com/kbukum/accessmatrix/snapshot"
)

// Rule is the predicate tree that decides one Key.
type Rule struct {
	Key       Key
	Predicate authz.Predicate
}

// Alternatives returns the independent approval paths of the rule. A rule
// whose root is not an OR node has exactly one alternative.
func (r Rule) Alternatives() []authz.Predicate {
	if r.Predicate.Op == authz.OpAny {
		return r.Predicate.Children
	}
	return []authz.Predicate{r.Predicate}
}

// Table is a validated, immutable rule table.
type Table struct {
	rules map[Key]Rule
	keys  []Key
}

// NewTable validates rules and builds a Table. known reports which snapshot
// fields may be referenced; nil skips field checks.
func NewTable(rules map[Key]authz.Predicate, known func(authz.Field) bool) (*Table, error) {
	if len(rules) == 0 {
		return nil, errors.Validation("rule table is empty")
	}
	t := &Table{
		rules: make(map[Key]Rule, len(rules)),
		keys:  make([]Key, 0, len(rules)),
	}
	for k, p := range rules {
		if k == "" {
			return nil, errors.Validation("rule table contains an empty key")
		}
		if err := p.Validate(known); err != nil {
			return nil, errors.Validation(fmt.Sprintf("rule %q: %v", k, err)).
				WithDetail("permission", string(k)).
				WithCause(err)
		}
		t.rules[k] = Rule{Key: k, Predicate: p}
		t.keys = append(t.keys, k)
	}
	slices.Sort(t.keys)
	return t, nil
}

// CanonicalTable returns the built-in business rule table, validated against
// the snapshot field set.
func CanonicalTable() (*Table, error) {
	return NewTable(canonicalRules, snapshot.KnownField)
}

// Keys returns the table's keys, sorted.
func (t *Table) Keys() []Key {
	return slices.Clone(t.keys)
}

// Len returns the number of rules.
func (t *Table) Len() int { return len(t.keys) }

// Has reports whether k has a rule.
func (t *Table) Has(k Key) bool {
	_, ok := t.rules[k]
	return ok
}

// Rule returns the rule for k.
func (t *Table) Rule(k Key) (Rule, bool) {
	r, ok := t.rules[k]
	return r, ok
}

// Rules returns every rule ordered by key.
func (t *Table) Rules() []Rule {
	out := make([]Rule, 0, len(t.keys))
	for _, k := range t.keys {
		out = append(out, t.rules[k])
	}
	return out
}
