package errors

import "net/http"

// ErrorCode is the machine-readable code carried in every error envelope.
type ErrorCode string

const (
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeTimeout            ErrorCode = "TIMEOUT"
	// ErrCodeUpstream covers an upstream API that failed or answered with
	// something the gateway could not use.
	ErrCodeUpstream ErrorCode = "UPSTREAM_ERROR"

	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	ErrCodeTooLarge     ErrorCode = "PAYLOAD_TOO_LARGE"

	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodePermissionDenied means a named permission evaluated to false.
	ErrCodePermissionDenied ErrorCode = "PERMISSION_DENIED"
	ErrCodeTokenExpired     ErrorCode = "TOKEN_EXPIRED"
	ErrCodeInvalidToken     ErrorCode = "INVALID_TOKEN"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

type codeInfo struct {
	status    int
	retryable bool
	message   string
}

var codes = map[ErrorCode]codeInfo{
	ErrCodeServiceUnavailable: {http.StatusServiceUnavailable, true, "The service is temporarily unavailable. Please try again."},
	ErrCodeTimeout:            {http.StatusGatewayTimeout, true, "The request took too long. Please try again."},
	ErrCodeUpstream:           {http.StatusBadGateway, true, "The upstream service encountered an error. Please try again."},
	ErrCodeNotFound:           {http.StatusNotFound, false, "The requested resource was not found."},
	ErrCodeInvalidInput:       {http.StatusBadRequest, false, "Invalid input."},
	ErrCodeMissingField:       {http.StatusBadRequest, false, "Missing required field."},
	ErrCodeTooLarge:           {http.StatusRequestEntityTooLarge, false, "The request body is too large."},
	ErrCodeUnauthorized:       {http.StatusUnauthorized, false, "Authentication required."},
	ErrCodePermissionDenied:   {http.StatusForbidden, false, "You don't have permission to perform this action."},
	ErrCodeTokenExpired:       {http.StatusUnauthorized, false, "Your session has expired. Please log in again."},
	ErrCodeInvalidToken:       {http.StatusUnauthorized, false, "Invalid authentication token. Please log in again."},
	ErrCodeInternal:           {http.StatusInternalServerError, false, "An unexpected error occurred. Please try again or contact support."},
}

// lookup falls back to the internal-error entry for codes it does not know.
func lookup(code ErrorCode) codeInfo {
	if info, ok := codes[code]; ok {
		return info
	}
	return codes[ErrCodeInternal]
}
