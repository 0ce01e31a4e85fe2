package endpoint

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/accessmatrix/version"
)

// Version returns a handler that reports build version information, including
// component versions such as the rule table digest.
func Version(info func() *version.Info) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, info())
	}
}
