package middleware

import (
	"log/slog"
	"strconv"
	"time"

	"mindboard/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Observe logs each request and records Prometheus request metrics.
func Observe(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)
		metrics.RecordRequest(route, c.Request.Method, strconv.Itoa(status), elapsed.Seconds())

		level := slog.LevelInfo
		if status >= 500 {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "request",
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"duration", elapsed,
			"user_num", CurrentUserNum(c),
		)
	}
}
