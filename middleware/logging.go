package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDKey    = "request_id"
	RequestIDHeader = "X-Request-ID"
)

// RequestLogger tags each request with an id and logs its completion.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		start := time.Now()
		c.Next()

		attrs := []any{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status_code", c.Writer.Status(),
			"response_size", c.Writer.Size(),
			"duration", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		ctx := c.Request.Context()
		switch status := c.Writer.Status(); {
		case status >= 500:
			slog.ErrorContext(ctx, "HTTP request completed", attrs...)
		case status >= 400:
			slog.WarnContext(ctx, "HTTP request completed", attrs...)
		default:
			slog.InfoContext(ctx, "HTTP request completed", attrs...)
		}
	}
}

// Recovery logs panics with the request id and answers 500.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, err any) {
		requestID, _ := c.Get(RequestIDKey)
		slog.ErrorContext(c.Request.Context(), "HTTP request panicked", "request_id", requestID, "panic", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
	})
}
