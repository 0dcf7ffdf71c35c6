package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ZapLogger logs API paths (/api/*) at info level and everything else at
// debug. Server errors on API paths are logged at error level.
func ZapLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		dur := time.Since(start)

		path := c.Request.URL.Path
		status := c.Writer.Status()
		kv := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", dur.String(),
			"clientIP", c.ClientIP(),
		}
		if uid := c.GetString("user_id"); uid != "" {
			kv = append(kv, "user_id", uid)
		}

		switch {
		case !strings.HasPrefix(path, "/api/"):
			log.Sugar().Debugw("HTTP", kv...)
		case status >= 500:
			log.Sugar().Errorw("HTTP", kv...)
		default:
			log.Sugar().Infow("HTTP", kv...)
		}
	}
}
