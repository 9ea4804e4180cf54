package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"ai-code-reviewer/internal/apperr"
	"ai-code-reviewer/internal/pkg/jwtutil"
	"ai-code-reviewer/internal/transport/http/response"
)

// AuthConfig carries the accepted credentials. The token may be configured
// in plaintext or as a bcrypt hash; when a JWT secret is set, tokens minted
// by the auth endpoint are accepted as well.
type AuthConfig struct {
	AccessToken     string
	AccessTokenHash string
	JWTSecret       string
}

// Enabled reports whether any credential is configured. The router only
// installs the middleware when it is.
func (c AuthConfig) Enabled() bool {
	return c.AccessToken != "" || c.AccessTokenHash != "" || c.JWTSecret != ""
}

// RequireToken rejects requests lacking a valid bearer credential.
func RequireToken(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			response.Fail(c, apperr.Authentication("missing authorization header"))
			c.Abort()
			return
		}

		const prefix = "Bearer "
		if !strings.HasPrefix(authHeader, prefix) {
			response.Fail(c, apperr.Authentication("invalid authorization scheme"))
			c.Abort()
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
		if !cfg.accepts(token) {
			response.Fail(c, apperr.Authentication("invalid or expired token"))
			c.Abort()
			return
		}

		c.Next()
	}
}

func (c AuthConfig) accepts(token string) bool {
	if c.AccessToken != "" &&
		subtle.ConstantTimeCompare([]byte(token), []byte(c.AccessToken)) == 1 {
		return true
	}
	if c.AccessTokenHash != "" &&
		bcrypt.CompareHashAndPassword([]byte(c.AccessTokenHash), []byte(token)) == nil {
		return true
	}
	if c.JWTSecret != "" {
		if _, err := jwtutil.ParseToken(c.JWTSecret, token); err == nil {
			return true
		}
	}
	return false
}
