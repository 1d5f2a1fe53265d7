package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/lingua-backend/internal/platform/ctxutil"
)

const (
	headerTraceID   = "X-Trace-Id"
	headerRequestID = "X-Request-Id"
)

// AttachTraceContext stores the request and trace ids on the request context and echoes
// them back. Client-sent ids win. Otherwise the trace id comes from the active span and
// a fresh uuid is the last fallback.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		fromSpan := func() string { return spanTraceID(c.Request.Context()) }
		td := &ctxutil.TraceData{
			TraceID:   headerOr(c, headerTraceID, fromSpan),
			RequestID: headerOr(c, headerRequestID, uuid.NewString),
		}
		c.Request = c.Request.WithContext(ctxutil.WithTraceData(c.Request.Context(), td))

		h := c.Writer.Header()
		h.Set(headerTraceID, td.TraceID)
		h.Set(headerRequestID, td.RequestID)
		c.Next()
	}
}

func headerOr(c *gin.Context, name string, fallback func() string) string {
	if v := strings.TrimSpace(c.GetHeader(name)); v != "" {
		return v
	}
	return fallback()
}

func spanTraceID(ctx context.Context) string {
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		return sc.TraceID().String()
	}
	return uuid.NewString()
}
