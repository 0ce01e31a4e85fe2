package middleware

import (
	"net/http"
	"time"

	"github.com/kbukum/accessmatrix/logger"
)

var quietPaths = map[string]bool{
	"/health":  true,
	"/livez":   true,
	"/version": true,
}

// RequestLogger logs one entry per request: Error for 5xx, Warn for 4xx and
// Debug otherwise. Probe paths are not logged.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if quietPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := &recorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			fields := logger.Fields(
				"method", r.Method,
				"path", r.URL.Path,
				"bytes", rec.bytes,
				logger.FieldStatus, rec.status,
				logger.FieldDuration, time.Since(start).Milliseconds(),
			)
			if id := w.Header().Get(HeaderRequestID); id != "" {
				fields[logger.FieldRequestID] = id
			}
			switch {
			case rec.status >= 500:
				log.Error("Request completed", fields)
			case rec.status >= 400:
				log.Warn("Request completed", fields)
			default:
				log.Debug("Request completed", fields)
			}
		})
	}
}

// recorder remembers the first status code and counts body bytes.
type recorder struct {
	http.ResponseWriter
	status  int
	bytes   int
	written bool
}

func (r *recorder) WriteHeader(code int) {
	if !r.written {
		r.status, r.written = code, true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(b []byte) (int, error) {
	r.written = true
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

func (r *recorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap exposes the wrapped writer to http.ResponseController.
func (r *recorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }
