package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nguyentantai21042004/subflow/internal/logger"
)

func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if log == nil {
			return
		}

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		ctx := c.Request.Context()
		method := strings.ToUpper(c.Request.Method)
		elapsed := time.Since(start).Round(time.Millisecond)

		switch {
		case status >= 500:
			log.Error(ctx, "HTTP %s %s -> %d (%s)", method, path, status, elapsed)
		case status >= 400:
			log.Warn(ctx, "HTTP %s %s -> %d (%s)", method, path, status, elapsed)
		default:
			log.Info(ctx, "HTTP %s %s -> %d (%s)", method, path, status, elapsed)
		}
	}
}

// LimitBody caps request bodies at maxBytes.
func LimitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
