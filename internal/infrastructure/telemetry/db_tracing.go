package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/agrotrade/backend/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultSlowQueryThreshold = 200 * time.Millisecond

type queryStartKey struct{}

// DBTracingPlugin installs otelgorm and flags slow statements on their spans
type DBTracingPlugin struct {
	logFullSQL bool
	slowQuery  time.Duration
	logger     *zap.Logger
}

// NewDBTracingPlugin creates the plugin from telemetry settings
func NewDBTracingPlugin(cfg config.TelemetryConfig, logger *zap.Logger) *DBTracingPlugin {
	slow := cfg.DBSlowQueryThresh
	if slow <= 0 {
		slow = defaultSlowQueryThreshold
	}
	return &DBTracingPlugin{logFullSQL: cfg.DBLogFullSQL, slowQuery: slow, logger: logger}
}

// Register attaches the plugin to db. Query variables stay out of spans
// unless full SQL logging is on.
func (p *DBTracingPlugin) Register(db *gorm.DB) error {
	opts := []otelgorm.Option{otelgorm.WithDBName("agrotrade")}
	if !p.logFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	cb := db.Callback()
	errs := []error{
		cb.Create().Before("gorm:create").Register("agrotrade:start_create", markQueryStart),
		cb.Query().Before("gorm:query").Register("agrotrade:start_query", markQueryStart),
		cb.Update().Before("gorm:update").Register("agrotrade:start_update", markQueryStart),
		cb.Delete().Before("gorm:delete").Register("agrotrade:start_delete", markQueryStart),
		cb.Row().Before("gorm:row").Register("agrotrade:start_row", markQueryStart),
		cb.Raw().Before("gorm:raw").Register("agrotrade:start_raw", markQueryStart),

		cb.Create().After("gorm:create").Register("agrotrade:slow_create", p.annotate),
		cb.Query().After("gorm:query").Register("agrotrade:slow_query", p.annotate),
		cb.Update().After("gorm:update").Register("agrotrade:slow_update", p.annotate),
		cb.Delete().After("gorm:delete").Register("agrotrade:slow_delete", p.annotate),
		cb.Row().After("gorm:row").Register("agrotrade:slow_row", p.annotate),
		cb.Raw().After("gorm:raw").Register("agrotrade:slow_raw", p.annotate),
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	// registered after our hooks so annotate runs while the query span is open
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.logFullSQL),
		zap.Duration("slow_query_threshold", p.slowQuery))
	return nil
}

func markQueryStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, time.Now())
	}
}

func (p *DBTracingPlugin) annotate(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.RecordError(db.Error)
	}

	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > p.slowQuery {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
		p.logger.Warn("Slow query",
			zap.String("table", db.Statement.Table),
			zap.Duration("elapsed", elapsed))
	}
}
