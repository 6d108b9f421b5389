package middleware

import (
	"strings"
	"time"

	"github.com/ciftci/ciftci-backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
	loggerKey       = "logger"
)

// quietPrefixes are served often enough that success lines go to debug
var quietPrefixes = []string{"/health", "/uploads/"}

// LoggingMiddleware tags each request with an id and a scoped logger,
// then writes one summary line when the handler chain returns.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		log := logger.WithContext(map[string]interface{}{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"ip":         c.ClientIP(),
		})
		c.Set(loggerKey, log)

		c.Next()

		status := c.Writer.Status()
		fields := map[string]interface{}{
			"status_code": status,
			"latency_ms":  time.Since(started).Milliseconds(),
			"body_size":   c.Writer.Size(),
		}
		if route := c.FullPath(); route != "" {
			fields["route"] = route
		}
		if userID, ok := c.Get(UserIDKey); ok {
			fields["user_id"] = userID
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		switch {
		case status >= 500:
			log.Error("Request failed", nil, fields)
		case status >= 400:
			log.Warn("Request rejected", fields)
		case isQuiet(c.Request.URL.Path):
			log.Debug("Request completed", fields)
		default:
			log.Info("Request completed", fields)
		}
	}
}

func isQuiet(path string) bool {
	for _, prefix := range quietPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// GetLoggerFromContext returns the request-scoped logger, or the global one
// outside a request
func GetLoggerFromContext(c *gin.Context) *logger.Logger {
	if value, ok := c.Get(loggerKey); ok {
		if log, ok := value.(*logger.Logger); ok {
			return log
		}
	}
	return logger.Get()
}
