// Package authz provides authorization building blocks.
//
// The core is a small predicate interpreter: rules are inert trees of
// Predicate nodes (All, Any, Equals, OneOf, Compare) evaluated against any
// data source that implements Resolver. A Field that cannot be resolved
// never satisfies a leaf, so partially populated input fails closed instead
// of erroring.
//
// The package also defines the Checker interface consumed by call sites that
// only need a yes/no answer, and glob helpers for selecting permission keys
// (e.g. "read*" matches "readCard").
//
// This module has zero external dependencies (standard library only).
//
// Usage:
//
//	rule := authz.Any(
//	    authz.All(
//	        authz.Equals("accountMembership.canViewAccount", authz.Bool(true)),
//	        authz.OneOf("accountMembership.statusInfo.status", authz.String("Enabled")),
//	    ),
//	)
//	allowed := rule.Match(resolver)
package authz
