package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	RequestIDHeader = "X-Request-ID"
	RequestIDKey    = "requestID"
	loggerKey       = "requestLogger"
)

// RequestLogger tags each request with an id and logs it once it completes
func RequestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Set(loggerKey, log.WithField("request_id", requestID))
		c.Header(RequestIDHeader, requestID)

		c.Next()

		entry := RequestLog(c).WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"latency":   time.Since(start).String(),
			"client_ip": c.ClientIP(),
		})
		if len(c.Errors) > 0 {
			entry = entry.WithField("errors", c.Errors.String())
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error("Request failed")
		case status >= 400:
			entry.Warn("Request rejected")
		default:
			entry.Info("Request completed")
		}
	}
}

// RequestLog returns the request-scoped logger, or the standard logger when
// RequestLogger is not installed.
func RequestLog(c *gin.Context) logrus.FieldLogger {
	if val, ok := c.Get(loggerKey); ok {
		if log, ok := val.(logrus.FieldLogger); ok {
			return log
		}
	}
	return logrus.StandardLogger()
}
