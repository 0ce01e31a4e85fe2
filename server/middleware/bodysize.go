package middleware

import (
	"net/http"

	apperrors "github.com/kbukum/accessmatrix/errors"
	"github.com/kbukum/accessmatrix/util"
)

const defaultMaxBodySize = 1 << 20

// BodySizeLimit caps request bodies at maxSize ("512KB", "1MB"; malformed
// values fall back to 1MB). A declared Content-Length over the cap is
// refused with 413 before the handler runs; chunked bodies are cut off by
// http.MaxBytesReader instead.
func BodySizeLimit(maxSize string) Middleware {
	limit := util.ParseSize(maxSize, defaultMaxBodySize)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				writeError(w, r, apperrors.TooLarge(limit))
				return
			}
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
