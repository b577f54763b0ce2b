package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func fieldMap(entry observer.LoggedEntry) map[string]any {
	return entry.ContextMap()
}

func TestContextHelpers(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	ctx, _ := WithRequestID(context.Background(), base, "req-1")
	ctx, _ = WithUserID(ctx, FromContext(ctx), "user-9")
	ctx, l := WithBranchID(ctx, FromContext(ctx), "branch-3")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "user-9", GetUserID(ctx))
	assert.Equal(t, "branch-3", GetBranchID(ctx))
	assert.Same(t, l, FromContext(ctx))

	l.Info("hello")
	require.Equal(t, 1, recorded.Len())
	fields := fieldMap(recorded.All()[0])
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "user-9", fields["user_id"])
	assert.Equal(t, "branch-3", fields["branch_id"])
}

func TestFromContext_Missing(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))
	assert.Empty(t, GetRequestID(context.Background()))
	assert.Empty(t, GetTraceID(context.Background()))
}

func TestContextLogger_AddsTraceFields(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	tp := trace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	ctx = WithContext(ctx, zap.New(core))
	L(ctx).With(zap.String("op", "sale.create")).Info("done")

	require.Equal(t, 1, recorded.Len())
	fields := fieldMap(recorded.All()[0])
	assert.Equal(t, span.SpanContext().TraceID().String(), fields["trace_id"])
	assert.Equal(t, "sale.create", fields["op"])
	assert.Equal(t, GetTraceID(ctx), fields["trace_id"])
}

func TestContextLogger_ExplicitLoggerGetsRequestFields(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	ctx := context.WithValue(context.Background(), RequestIDKey, "req-7")
	ctx = context.WithValue(ctx, UserIDKey, "user-7")

	WithLogger(ctx, zap.New(core)).Warn("careful")

	fields := fieldMap(recorded.All()[0])
	assert.Equal(t, "req-7", fields["request_id"])
	assert.Equal(t, "user-7", fields["user_id"])
}
