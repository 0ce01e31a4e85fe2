package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/kbukum/accessmatrix/logger"
)

// HeaderRequestID carries the request correlation ID in both directions.
const HeaderRequestID = "X-Request-Id"

// RequestID ensures every request carries a UUID request ID. A well-formed
// incoming ID is kept; anything else is replaced. The ID is echoed in the
// response, set on the request header and stored in the request context for
// logger.WithContext.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(HeaderRequestID)
			if uuid.Validate(id) != nil {
				id = uuid.NewString()
				r.Header.Set(HeaderRequestID, id)
			}
			w.Header().Set(HeaderRequestID, id)
			next.ServeHTTP(w, r.WithContext(logger.ContextWithRequestID(r.Context(), id)))
		})
	}
}
