package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	appctx "backoffice/internal/core/context"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderTraceID   = "X-Trace-ID"
)

// Trace tags the request context with a request id and a trace id, echoing both as headers.
// Incoming headers are honoured; a trace id from an active span takes precedence.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		tc := &appctx.TraceContext{
			RequestID: headerOrNew(c, HeaderRequestID),
			TraceID:   headerOrNew(c, HeaderTraceID),
		}
		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			tc.TraceID = sc.TraceID().String()
		}

		c.Request = c.Request.WithContext(appctx.WithTrace(ctx, tc))
		c.Header(HeaderRequestID, tc.RequestID)
		c.Header(HeaderTraceID, tc.TraceID)
		c.Next()
	}
}

func headerOrNew(c *gin.Context, name string) string {
	if v := c.GetHeader(name); v != "" {
		return v
	}
	return uuid.NewString()
}
