package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDMiddleware tags every request with an ID, honoring one supplied
// by the caller in X-Request-ID.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// MonitoringMiddleware records request metrics and logs every request.
func MonitoringMiddleware(metrics *Metrics, logger *Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		ip := c.ClientIP()
		method := c.Request.Method
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		metrics.RequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
		metrics.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())

		logger.RequestLogger(method, path, ip, statusCode, duration)
	}
}
