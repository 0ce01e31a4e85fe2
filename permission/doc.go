// Package permission turns an account membership snapshot into a permission
// matrix: one boolean per action the front-end can render or perform.
//
// Rules live in a single table keyed by Key. Each rule is an OR of
// approval paths, each path an AND of constraints over snapshot fields. A
// field the snapshot does not carry never satisfies a constraint, so
// missing data always denies.
//
//	m := permission.Evaluate(snap)
//	if m.Allows(permission.AddCard) { ... }
//
// Profiles project the matrix onto the names a particular consumer uses.
package permission
