package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/accessmatrix/auth"
	"github.com/kbukum/accessmatrix/auth/authctx"
	"github.com/kbukum/accessmatrix/auth/jwt"
	apperrors "github.com/kbukum/accessmatrix/errors"
)

// AuthConfig configures the bearer-token middleware.
type AuthConfig struct {
	// Validator parses the bearer token into claims.
	Validator auth.TokenValidator
	// SkipPaths are URL path prefixes that bypass authentication.
	SkipPaths []string
}

// Auth returns a Gin middleware that validates Bearer tokens. The parsed
// claims and the raw token are stored in the request context via authctx.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if strings.HasPrefix(path, skip) {
				c.Next()
				return
			}
		}

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abort(c, apperrors.Unauthorized("Authorization header with a Bearer token is required."))
			return
		}

		claims, err := cfg.Validator.ValidateToken(token)
		if err != nil {
			if jwt.IsExpired(err) {
				abort(c, apperrors.TokenExpired().WithCause(err))
				return
			}
			abort(c, apperrors.InvalidToken().WithCause(err))
			return
		}

		ctx := authctx.Set(c.Request.Context(), claims)
		c.Request = c.Request.WithContext(authctx.WithToken(ctx, token))
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
