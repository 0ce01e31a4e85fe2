// Package errors defines AppError, the error type every HTTP-facing package
// returns. An AppError carries a stable code, an HTTP status and a retryable
// flag, and renders as the JSON error envelope used by the gateway.
package errors
