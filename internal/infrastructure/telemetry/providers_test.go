package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/agrotrade/backend/internal/infrastructure/config"
	"github.com/grafana/pyroscope-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestProviders_Disabled(t *testing.T) {
	ctx := context.Background()
	cfg := config.TelemetryConfig{ServiceName: "agrotrade-test"}

	tp, err := NewTracerProvider(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	tp.EnableSpanProfiles()
	assert.False(t, tp.spanProfilesEnabled)
	assert.NoError(t, tp.Shutdown(ctx))

	mp, err := NewMeterProvider(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.Shutdown(ctx))

	lp, err := NewLoggerProvider(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	base := zap.NewNop()
	assert.Same(t, base, lp.Bridge(base, zapcore.InfoLevel))
	assert.NoError(t, lp.Shutdown(ctx))

	p, err := NewProfiler(config.ProfilingConfig{}, "agrotrade-test", zap.NewNop())
	require.NoError(t, err)
	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
}

func TestNewProfiler_RequiresServer(t *testing.T) {
	_, err := NewProfiler(config.ProfilingConfig{Enabled: true}, "agrotrade-test", zap.NewNop())
	assert.Error(t, err)
}

func TestParseProfileTypes(t *testing.T) {
	types, err := ParseProfileTypes(nil)
	require.NoError(t, err)
	assert.Equal(t, []pyroscope.ProfileType{pyroscope.ProfileCPU, pyroscope.ProfileInuseSpace}, types)

	types, err = ParseProfileTypes([]string{"goroutines", "alloc_space"})
	require.NoError(t, err)
	assert.Equal(t, []pyroscope.ProfileType{pyroscope.ProfileGoroutines, pyroscope.ProfileAllocSpace}, types)

	_, err = ParseProfileTypes([]string{"heap"})
	assert.Error(t, err)
}

func TestSamplerFor(t *testing.T) {
	assert.Contains(t, samplerFor(1).Description(), "AlwaysOn")
	assert.Contains(t, samplerFor(0).Description(), "AlwaysOff")
	assert.Contains(t, samplerFor(0.25).Description(), "TraceIDRatioBased")
}

func TestLevelFilterCore(t *testing.T) {
	inner, logs := observer.New(zapcore.DebugLevel)
	core := &levelFilterCore{Core: inner, minLevel: zapcore.WarnLevel}
	logger := zap.New(core).With(zap.String("branch_id", "kampala"))

	logger.Info("dropped")
	logger.Warn("kept")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "kept", entry.Message)
	assert.Equal(t, "kampala", entry.ContextMap()["branch_id"])
}

func TestDBTracingPlugin_AnnotatesSlowQuery(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer tp.Shutdown(context.Background())

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)

	ctx, span := tp.Tracer("test").Start(context.Background(), "produce.update")
	ctx = context.WithValue(ctx, queryStartKey{}, time.Now().Add(-time.Second))

	logCore, logs := observer.New(zapcore.WarnLevel)
	plugin := NewDBTracingPlugin(config.TelemetryConfig{DBSlowQueryThresh: 100 * time.Millisecond}, zap.New(logCore))

	tx := db.Session(&gorm.Session{NewDB: true})
	tx.Statement.Context = ctx
	tx.Statement.Table = "produce"
	plugin.annotate(tx)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	attrs := map[string]string{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "produce", attrs["db.sql.table"])
	assert.Equal(t, "true", attrs["db.slow_query"])
	assert.Equal(t, 1, logs.FilterMessage("Slow query").Len())
}
