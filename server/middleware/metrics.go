package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/accessmatrix/observability"
)

// Metrics returns a Gin middleware recording request count, duration and
// in-flight requests. Routes are labelled by their pattern; unmatched paths
// share one label.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()
		m.RecordRequestStart(ctx)
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RecordRequestEnd(ctx, route, c.Writer.Status(), time.Since(start))
	}
}
