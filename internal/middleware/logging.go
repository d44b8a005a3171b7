package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Ranadipgithub/CodeUP/pkg/logger"
)

// LoggingMiddleware logs every request with timing and outcome.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		rawQuery := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		event := logger.Log.Info()
		if status >= 400 {
			event = logger.Log.Warn()
		}
		if status >= 500 {
			event = logger.Log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", rawQuery).
			Int("status", status).
			Dur("latency", latency).
			Str("ip", c.ClientIP()).
			Str("user_id", c.GetString("userId")).
			Int("body_size", c.Writer.Size()).
			Msg("request")
	}
}
