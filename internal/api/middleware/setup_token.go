package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// SetupTokenMiddleware gates first-run admin registration behind a shared token.
// With no token configured the route is closed.
func SetupTokenMiddleware(token string) gin.HandlerFunc {
	token = strings.TrimSpace(token)
	return func(c *gin.Context) {
		if token == "" {
			abort(c, http.StatusForbidden, "Registration is disabled")
			return
		}
		// header only, so the token never lands in access logs
		got := strings.TrimSpace(c.GetHeader("X-Setup-Token"))
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			abort(c, http.StatusForbidden, "Invalid setup token")
			return
		}
		c.Next()
	}
}
