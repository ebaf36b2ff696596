package utils

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GinLogger returns a gin middleware that writes one access-log line per
// request through the zap logger.
func GinLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		path := ctx.Request.URL.Path
		query := ctx.Request.URL.RawQuery

		ctx.Next()

		if Logger == nil {
			return
		}
		fields := []zap.Field{
			zap.Int("status", ctx.Writer.Status()),
			zap.String("method", ctx.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", ctx.ClientIP()),
			zap.Duration("latency", time.Since(start)),
		}
		if rid := ctx.Writer.Header().Get("X-Request-ID"); rid != "" {
			fields = append(fields, zap.String("request_id", rid))
		}
		if len(ctx.Errors) > 0 {
			fields = append(fields, zap.String("errors", ctx.Errors.String()))
		}
		Logger.Info(path, fields...)
	}
}

// GinRecovery returns a gin middleware that recovers panics, logs them with
// zap, and responds with a 500 envelope.
func GinRecovery() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				if Logger != nil {
					Logger.Error("panic recovered",
						zap.Any("error", err),
						zap.String("path", ctx.Request.URL.Path),
						zap.Stack("stacktrace"),
					)
				}
				Error(ctx, 500, 50000, "internal error")
				ctx.Abort()
			}
		}()
		ctx.Next()
	}
}
