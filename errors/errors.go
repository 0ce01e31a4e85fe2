package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the error type every layer returns once a failure is meant to
// reach a client. Code drives the HTTP status and retry hint; Cause stays
// server-side.
type AppError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	Retryable  bool           `json:"retryable"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithCause attaches the underlying error and returns e.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail records one detail entry and returns e.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any, 1)
	}
	e.Details[key] = value
	return e
}

// New builds an AppError for code. An empty message uses the code's default
// text; status and retryability always come from the code.
func New(code ErrorCode, message string) *AppError {
	info := lookup(code)
	if message == "" {
		message = info.message
	}
	return &AppError{
		Code:       code,
		Message:    message,
		Retryable:  info.retryable,
		HTTPStatus: info.status,
	}
}

// newWith is New plus the non-empty string details in kv (key, value pairs).
func newWith(code ErrorCode, message string, kv ...string) *AppError {
	e := New(code, message)
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] != "" {
			e.WithDetail(kv[i], kv[i+1])
		}
	}
	return e
}

// Wrap returns the first AppError in err's chain, or an Internal error
// around err. Wrap(nil) is nil.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}

// AsAppError finds the first AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func ServiceUnavailable(service string) *AppError {
	return newWith(ErrCodeServiceUnavailable,
		fmt.Sprintf("The %s is temporarily unavailable. Please try again.", service),
		"service", service)
}

func Timeout(operation string) *AppError {
	return newWith(ErrCodeTimeout, "", "operation", operation)
}

// Upstream reports a failed call to service.
func Upstream(service string, cause error) *AppError {
	return newWith(ErrCodeUpstream,
		fmt.Sprintf("The %s service encountered an error. Please try again.", service),
		"service", service).WithCause(cause)
}

func NotFound(resource, id string) *AppError {
	return newWith(ErrCodeNotFound,
		fmt.Sprintf("The requested %s was not found.", resource),
		"resource", resource, "id", id)
}

func InvalidInput(field, reason string) *AppError {
	return newWith(ErrCodeInvalidInput, "Invalid input: "+reason, "field", field)
}

// Validation reports a rejected configuration or payload with a ready-made
// message.
func Validation(message string) *AppError {
	return New(ErrCodeInvalidInput, message)
}

func MissingField(field string) *AppError {
	return newWith(ErrCodeMissingField, "Missing required field: "+field, "field", field)
}

// TooLarge reports a request body over limit bytes.
func TooLarge(limit int64) *AppError {
	return New(ErrCodeTooLarge, "").WithDetail("limit_bytes", limit)
}

// Unauthorized uses the default text when reason is empty.
func Unauthorized(reason string) *AppError { return New(ErrCodeUnauthorized, reason) }

// PermissionDenied reports a permission that evaluated to false. operation
// is the external name the caller used and is only recorded when it differs.
func PermissionDenied(permission, operation string) *AppError {
	if operation == permission {
		operation = ""
	}
	return newWith(ErrCodePermissionDenied, "", "permission", permission, "operation", operation)
}

func TokenExpired() *AppError { return New(ErrCodeTokenExpired, "") }

func InvalidToken() *AppError { return New(ErrCodeInvalidToken, "") }

// Internal hides cause behind a generic message.
func Internal(cause error) *AppError {
	return New(ErrCodeInternal, "").WithCause(cause)
}
