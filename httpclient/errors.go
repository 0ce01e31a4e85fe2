package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	apperrors "github.com/kbukum/accessmatrix/errors"
	"github.com/kbukum/accessmatrix/resilience"
)

// Kind classifies a client error.
type Kind string

const (
	KindTimeout    Kind = "timeout"
	KindConnection Kind = "connection"
	KindAuth       Kind = "auth"
	KindNotFound   Kind = "not_found"
	KindRateLimit  Kind = "rate_limit"
	KindRequest    Kind = "request"
	KindServer     Kind = "server"
)

// Error is a classified HTTP client error. StatusCode is zero for
// transport-level failures.
type Error struct {
	Kind       Kind
	StatusCode int
	Retryable  bool
	Body       []byte
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode > 0:
		return fmt.Sprintf("httpclient: %s: HTTP %d", e.Kind, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("httpclient: %s: %v", e.Kind, e.Err)
	default:
		return "httpclient: " + string(e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// asError keeps a nil *Error from becoming a non-nil error interface.
func (e *Error) asError() error {
	if e == nil {
		return nil
	}
	return e
}

// NewTimeoutError wraps a request timeout.
func NewTimeoutError(err error) *Error {
	return &Error{Kind: KindTimeout, Retryable: true, Err: err}
}

// NewConnectionError wraps a transport failure such as a refused dial.
func NewConnectionError(err error) *Error {
	return &Error{Kind: KindConnection, Retryable: true, Err: err}
}

// NewRequestError reports a request that could not be built.
func NewRequestError(err error) *Error {
	return &Error{Kind: KindRequest, Err: err}
}

// NewAuthError reports a 401 or 403.
func NewAuthError(statusCode int, body []byte) *Error {
	return &Error{Kind: KindAuth, StatusCode: statusCode, Body: body}
}

// NewNotFoundError reports a 404.
func NewNotFoundError(body []byte) *Error {
	return &Error{Kind: KindNotFound, StatusCode: http.StatusNotFound, Body: body}
}

// NewServerError reports a 5xx.
func NewServerError(statusCode int, body []byte) *Error {
	return &Error{Kind: KindServer, StatusCode: statusCode, Retryable: true, Body: body}
}

// ClassifyStatusCode returns nil for 2xx and a classified *Error otherwise.
// Only 429 and 5xx are retryable.
func ClassifyStatusCode(statusCode int, body []byte) *Error {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return nil
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return NewAuthError(statusCode, body)
	case statusCode == http.StatusNotFound:
		return NewNotFoundError(body)
	case statusCode == http.StatusTooManyRequests:
		return &Error{Kind: KindRateLimit, StatusCode: statusCode, Retryable: true, Body: body}
	case statusCode >= 400 && statusCode < 500:
		return &Error{Kind: KindRequest, StatusCode: statusCode, Body: body}
	case statusCode >= 500:
		return NewServerError(statusCode, body)
	default:
		return &Error{Kind: KindServer, StatusCode: statusCode, Body: body}
	}
}

// ToAppError maps a client error onto the application error taxonomy.
// Rejected credentials stay Unauthorized; everything else the upstream
// does wrong is an Upstream error.
func ToAppError(service string, err error) *apperrors.AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr
	}
	switch {
	case IsAuth(err):
		return apperrors.Unauthorized("The upstream rejected the session credentials.")
	case errors.Is(err, resilience.ErrCircuitOpen):
		return apperrors.ServiceUnavailable(service).WithCause(err)
	case IsTimeout(err), errors.Is(err, context.DeadlineExceeded):
		return apperrors.Timeout(service).WithCause(err)
	default:
		return apperrors.Upstream(service, err)
	}
}

func kindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

func isKind(err error, kind Kind) bool {
	k, ok := kindOf(err)
	return ok && k == kind
}

func IsTimeout(err error) bool     { return isKind(err, KindTimeout) }
func IsConnection(err error) bool  { return isKind(err, KindConnection) }
func IsAuth(err error) bool        { return isKind(err, KindAuth) }
func IsNotFound(err error) bool    { return isKind(err, KindNotFound) }
func IsRateLimit(err error) bool   { return isKind(err, KindRateLimit) }
func IsServerError(err error) bool { return isKind(err, KindServer) }

// IsRetryable reports whether err is a client error marked retryable.
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable
}
