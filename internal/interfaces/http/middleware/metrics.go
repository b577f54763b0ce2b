package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// HTTPMetrics records request count, latency and in-flight requests on meter.
// Routes are the gin patterns, so IDs never become label values.
func HTTPMetrics(meter metric.Meter) (gin.HandlerFunc, error) {
	requests, err := meter.Int64Counter("http.server.requests",
		metric.WithDescription("Handled HTTP requests"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create http.server.requests counter: %w", err)
	}
	duration, err := meter.Float64Histogram("http.server.duration",
		metric.WithDescription("HTTP request latency"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("failed to create http.server.duration histogram: %w", err)
	}
	active, err := meter.Int64UpDownCounter("http.server.active_requests",
		metric.WithDescription("Requests being served"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create http.server.active_requests counter: %w", err)
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()
		active.Add(ctx, 1)
		defer active.Add(ctx, -1)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		base := []attribute.KeyValue{
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", route),
		}
		requests.Add(ctx, 1, metric.WithAttributes(append(base,
			attribute.String("http.status_code", strconv.Itoa(c.Writer.Status())))...))
		duration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(base...))
	}, nil
}
