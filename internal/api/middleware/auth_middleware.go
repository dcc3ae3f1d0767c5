package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/MdFayaz7/portfolio1/internal/database"
	"github.com/MdFayaz7/portfolio1/internal/errcode"
)

const userKey = "currentUser"

// Authenticator resolves a bearer token to its current user record.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*database.User, error)
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": msg})
}

// AuthMiddleware validates the bearer token and stores the user in the context.
func AuthMiddleware(authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abort(c, http.StatusUnauthorized, "Access token required")
			return
		}

		user, err := authenticator.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			if e, ok := errcode.From(err); ok {
				abort(c, e.Kind.HTTPStatus(), e.Message)
				return
			}
			LoggerFromContext(c).Error("authenticate request failed", "error", err)
			abort(c, http.StatusInternalServerError, "Server error during authentication")
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// RequireAdmin rejects authenticated users without the admin role.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			abort(c, http.StatusUnauthorized, "Access token required")
			return
		}
		if user.Role != database.RoleAdmin {
			abort(c, http.StatusForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user set by AuthMiddleware.
func CurrentUser(c *gin.Context) *database.User {
	if value, ok := c.Get(userKey); ok {
		if user, ok := value.(*database.User); ok {
			return user
		}
	}
	return nil
}
