package middleware

import (
	"net/http"

	"github.com/agrotrade/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracing starts the server span for each request through otelgin
func Tracing(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}

// SpanAttributes tags the server span with request and actor attributes.
// Must run after Tracing and JWTAuth so both the span and the actor exist.
func SpanAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			c.Next()
			return
		}

		if id := GetRequestID(c); id != "" {
			span.SetAttributes(attribute.String("http.request_id", id))
		}
		if actor, ok := GetActor(c); ok {
			span.SetAttributes(
				attribute.String("enduser.id", actor.UserID.String()),
				attribute.String(telemetry.SpanAttrActorRole, string(actor.Role)),
			)
			if actor.BranchID != nil {
				span.SetAttributes(attribute.String(telemetry.SpanAttrBranchID, actor.BranchID.String()))
			}
		}

		c.Next()

		if status := c.Writer.Status(); status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}
