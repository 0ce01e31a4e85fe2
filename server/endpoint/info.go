package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/accessmatrix/version"
)

var startTime = time.Now()

// Info returns a handler that reports service identity, build information
// and uptime.
func Info(serviceName, environment string, info func() *version.Info) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":     serviceName,
			"environment": environment,
			"build":       info(),
			"uptime":      time.Since(startTime).Round(time.Second).String(),
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}
