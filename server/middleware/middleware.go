package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/accessmatrix/errors"
	"github.com/kbukum/accessmatrix/logger"
)

// Middleware wraps an http.Handler with additional behavior. Everything that
// does not need the gin context is written against this type so it also
// covers handlers mounted next to the engine.
type Middleware func(http.Handler) http.Handler

// Chain composes multiple middleware. The first in the list is the outermost
// (runs first on a request, last on a response).
func Chain(middlewares ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}

// writeError writes err as the standard JSON error envelope.
func writeError(w http.ResponseWriter, r *http.Request, err *apperrors.AppError) {
	err.WriteJSON(w, logger.RequestIDFromContext(r.Context()))
}

// abort stops a gin chain with err as the response body.
func abort(c *gin.Context, err *apperrors.AppError) {
	c.AbortWithStatusJSON(err.HTTPStatus, err.Response(logger.RequestIDFromContext(c.Request.Context())))
}
