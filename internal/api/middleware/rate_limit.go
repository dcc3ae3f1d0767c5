package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MdFayaz7/portfolio1/internal/metrics"
)

// Limiter decides whether a client key is within quota.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// RateLimitMiddleware limits requests per client IP. Preflight requests are
// not counted.
func RateLimitMiddleware(limiter Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		if !limiter.Allow(c.Request.Context(), c.ClientIP()) {
			metrics.RateLimited()
			LoggerFromContext(c).Warn("rate limit exceeded", "client_ip", c.ClientIP())
			abort(c, http.StatusTooManyRequests, "Too many requests from this IP, please try again later.")
			return
		}
		c.Next()
	}
}
