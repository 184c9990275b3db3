package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"stockyard/pkg/logger"
)

// HeaderRequestID carries the request identifier.
const HeaderRequestID = "X-Request-ID"

// Trace assigns every request an identifier, propagated through the
// context so log lines across layers correlate.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx := logger.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Set("request_id", requestID)
		c.Header(HeaderRequestID, requestID)

		c.Next()
	}
}
