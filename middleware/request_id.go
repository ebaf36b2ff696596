package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// RequestID assigns every request a correlation id, honoring one supplied by
// the client, and echoes it on the response for log correlation.
func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		rid := ctx.GetHeader(RequestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		ctx.Writer.Header().Set(RequestIDHeader, rid)
		ctx.Next()
	}
}
