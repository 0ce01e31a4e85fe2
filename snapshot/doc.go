// Package snapshot models the authorization snapshot a permission matrix is
// computed from: the caller's account membership and the product settings,
// as returned by the banking GraphQL API.
//
// Every field is optional. Absent data is represented by nil pointers and
// resolves as "absent" through the authz.Resolver implementation, so rules
// referencing it fail closed. Only the account membership itself is
// mandatory; Parse rejects payloads without it.
//
// # Usage
//
//	snap, err := snapshot.Parse(body)
//	if err != nil {
//	    return err
//	}
//	v, ok := snap.Resolve(snapshot.FieldStatus)
package snapshot
