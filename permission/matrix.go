package permission

import (
	"slices"

	"github.com/kbukum/accessmatrix/authz"
)

// Matrix maps every key of a rule table to its decision.
type Matrix map[Key]bool

// IsAuthorized reports the decision for permission. Keys missing from the
// matrix, and the nil matrix, are denied.
func (m Matrix) IsAuthorized(permission string) bool {
	return m[Key(permission)]
}

// Allows is the typed form of IsAuthorized.
func (m Matrix) Allows(k Key) bool {
	return m[k]
}

// Granted returns the keys evaluated to true, sorted.
func (m Matrix) Granted() []Key {
	out := make([]Key, 0, len(m))
	for k, v := range m {
		if v {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}

// Strings returns the matrix keyed by plain strings, the shape used on the wire.
func (m Matrix) Strings() map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[string(k)] = v
	}
	return out
}

// IsAuthorized is the fail-closed lookup used at render and action sites.
func IsAuthorized(m Matrix, k Key) bool {
	return m.Allows(k)
}

var _ authz.Checker = Matrix(nil)
