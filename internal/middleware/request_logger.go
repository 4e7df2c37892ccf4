package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/annel0/iso-terrain/internal/logging"
)

// RequestLogger снабжает каждый HTTP-запрос request-ID и пишет краткие логи

type RequestLogger struct{}

func NewRequestLogger() *RequestLogger { return &RequestLogger{} }

func (rl *RequestLogger) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Set("request_id", requestID)

		start := time.Now()
		method := c.Request.Method
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		logging.LogDebug("[HTTP] > %s %s ip=%s id=%s", method, path, c.ClientIP(), requestID)

		c.Next()

		logging.LogDebug("[HTTP] < %s %s %d %s id=%s",
			method, path, c.Writer.Status(), time.Since(start), requestID)
	}
}
