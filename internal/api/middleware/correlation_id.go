package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/MdFayaz7/portfolio1/internal/notify"
)

const (
	correlationIDKey    = "correlationID"
	correlationIDHeader = "X-Correlation-ID"
	maxCorrelationIDLen = 128
)

// CorrelationIDMiddleware 确保每个请求都带有 Correlation ID，并透传到请求 context。
func CorrelationIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(correlationIDHeader)
		if id == "" || len(id) > maxCorrelationIDLen {
			id = uuid.NewString()
		}

		c.Set(correlationIDKey, id)
		c.Header(correlationIDHeader, id)
		c.Request = c.Request.WithContext(notify.WithCorrelationID(c.Request.Context(), id))

		c.Next()
	}
}

// GetCorrelationID 从上下文中取出 Correlation ID。
func GetCorrelationID(c *gin.Context) string {
	if value, ok := c.Get(correlationIDKey); ok {
		if id, ok := value.(string); ok {
			return id
		}
	}
	return ""
}
