package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const maxLogBodySize = 1 << 12 // 4 KB

func RequestLogGin(logger *zap.Logger, mCounter *prometheus.CounterVec) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions ||
			c.Request.URL.Path == "/favicon.ico" ||
			strings.HasSuffix(c.Request.URL.Path, "/metrics") ||
			strings.HasSuffix(c.Request.URL.Path, "/healthz") {
			c.Next()
			return
		}

		start := time.Now()

		var body string
		if c.Request.Body != nil && c.Request.Body != http.NoBody {
			var buf bytes.Buffer
			_, _ = io.Copy(&buf, io.LimitReader(c.Request.Body, maxLogBodySize))
			body = buf.String()
			// the handler still sees the full body
			c.Request.Body = readCloser{
				Reader: io.MultiReader(bytes.NewReader(buf.Bytes()), c.Request.Body),
				Closer: c.Request.Body,
			}
		}

		c.Next()

		if mCounter != nil {
			mCounter.WithLabelValues("app_requests_total").Inc()
		}

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("url", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("body", body),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		logger.Info("HTTP request", fields...)
	}
}

type readCloser struct {
	io.Reader
	io.Closer
}
