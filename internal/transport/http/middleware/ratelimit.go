package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"ai-code-reviewer/internal/apperr"
	"ai-code-reviewer/internal/ratelimit"
	"ai-code-reviewer/internal/transport/http/response"
)

// fallbackIdentifier buckets requests whose client address cannot be
// determined so they still share one window.
const fallbackIdentifier = "unknown"

// RateLimit admits requests through the fixed-window limiter and stamps
// X-RateLimit-* headers on every response, allowed or not.
func RateLimit(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		identifier := c.ClientIP()
		if identifier == "" {
			identifier = fallbackIdentifier
		}

		res := limiter.Check(identifier)
		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

		if !res.Allowed {
			response.Fail(c, apperr.RateLimited("rate limit exceeded, try again later", gin.H{
				"reset_at": res.ResetAt.Unix(),
			}))
			c.Abort()
			return
		}

		c.Next()
	}
}
