package authz

// Checker is the core authorization interface consumed by call sites that
// gate a single action.
//
// permission is the name of the action (e.g. "readCard"). Implementations
// must fail closed: an unknown permission is never authorized.
type Checker interface {
	IsAuthorized(permission string) bool
}

// CheckerFunc is an adapter to use ordinary functions as Checker.
type CheckerFunc func(permission string) bool

// IsAuthorized implements Checker.
func (f CheckerFunc) IsAuthorized(permission string) bool {
	return f(permission)
}

// Deny is a Checker that authorizes nothing.
var Deny Checker = CheckerFunc(func(string) bool { return false })
