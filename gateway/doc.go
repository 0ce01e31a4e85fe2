// Package gateway is the HTTP surface of the permission evaluator.
//
// It serves the evaluation API under /v1/permissions and, when enabled,
// gates the GraphQL endpoint: POST requests whose operation is aliased by
// the gate profile are authorized against a snapshot loaded from the
// upstream API for the calling session before being proxied upstream.
// Every other operation is proxied untouched.
package gateway
