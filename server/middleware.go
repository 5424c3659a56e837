package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/pager/logging/logger"
	"github.com/ncobase/pager/tracing"
	"github.com/sirupsen/logrus"
)

// traceMiddleware reuses the caller's X-Trace-Id or creates one, and echoes it.
func traceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if id := c.GetHeader(tracing.HeaderTraceID); id != "" {
			ctx = tracing.SetTraceID(ctx, id)
		}
		ctx, traceID := tracing.EnsureTraceID(ctx)
		c.Request = c.Request.WithContext(ctx)
		c.Header(tracing.HeaderTraceID, traceID)
		c.Next()
	}
}

// loggerMiddleware creates request logging middleware.
func loggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		logger.WithFields(c.Request.Context(), logrus.Fields{
			"method":   method,
			"path":     path,
			"query":    c.Request.URL.RawQuery,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Info("HTTP request")
	}
}
