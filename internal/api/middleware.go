package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jonesrussell/support-reports/internal/logger"
)

// RequestIDMiddleware attaches a unique request ID to each request,
// honoring an X-Request-ID header when the caller supplies one.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set("request_id", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)

		c.Next()
	}
}

// LoggerMiddleware logs one structured entry per request: method, path,
// status, duration, and client IP.
func LoggerMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery
		method := c.Request.Method

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		fields := []logger.Field{
			logger.String("method", method),
			logger.String("path", path),
			logger.Int("status", statusCode),
			logger.Duration("duration", duration),
			logger.String("client_ip", c.ClientIP()),
		}

		if query != "" {
			fields = append(fields, logger.String("query", query))
		}

		if requestID := c.GetString("request_id"); requestID != "" {
			fields = append(fields, logger.String("request_id", requestID))
		}

		if !strings.HasPrefix(path, "/health") {
			fields = append(fields, logger.String("user_agent", c.Request.UserAgent()))
		}

		if len(c.Errors) > 0 {
			errorMessages := make([]string, len(c.Errors))
			for i, err := range c.Errors {
				errorMessages[i] = err.Err.Error()
			}
			fields = append(fields, logger.Strings("errors", errorMessages))
			log.Error("HTTP request with errors", fields...)
			return
		}

		log.Info("HTTP request", fields...)
	}
}

// RecoveryMiddleware catches panics, logs them, and returns a 500 error.
func RecoveryMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error("Panic recovered",
					logger.Any("error", err),
					logger.String("path", c.Request.URL.Path),
					logger.String("method", c.Request.Method),
					logger.String("client_ip", c.ClientIP()),
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "internal server error",
				})
			}
		}()

		c.Next()
	}
}
