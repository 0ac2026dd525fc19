package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/edutainment-backend/internal/platform/ctxutil"
	"github.com/yungbote/edutainment-backend/internal/platform/logger"
)

// RequestLogger writes one line per request, at Error for 5xx and Warn for
// 4xx. Request ids (and the session, once a handler has set it) come from
// the ctxutil.RequestData attached upstream.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	log = log.With("component", "http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		fields := append([]any{
			"method", c.Request.Method,
			"route", route,
			"path", c.Request.URL.Path,
			"status", status,
			"bytes", c.Writer.Size(),
			"duration_ms", time.Since(start).Milliseconds(),
		}, ctxutil.LogFields(c.Request.Context())...)
		if last := c.Errors.Last(); last != nil {
			fields = append(fields, "error", last.Error())
		}

		switch {
		case status >= 500:
			log.Error("request failed", fields...)
		case status >= 400:
			log.Warn("request rejected", fields...)
		default:
			log.Info("request served", fields...)
		}
	}
}
