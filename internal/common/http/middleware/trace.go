package middleware

import (
	"context"
	"strings"

	"ioiscore/pkg/utils/contextkey"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Header names shared across the judging pipeline so a single trace id
// follows a submission from the gateway through judging to scoring.
const (
	TraceIDHeader   = "X-Trace-Id"
	RequestIDHeader = "X-Request-Id"
)

// RequestTrace stamps every request with a trace id and a request id: the
// inbound header value when a caller supplied one, a fresh uuid otherwise.
// Both ids land in the request context for the logger and are echoed on the
// response so callers can correlate.
func RequestTrace() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ctx = stampID(ctx, c, TraceIDHeader, contextkey.TraceID)
		ctx = stampID(ctx, c, RequestIDHeader, contextkey.RequestID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func stampID(ctx context.Context, c *gin.Context, header string, key any) context.Context {
	id := strings.TrimSpace(c.GetHeader(header))
	if id == "" {
		id = uuid.NewString()
	}
	c.Writer.Header().Set(header, id)
	return context.WithValue(ctx, key, id)
}
