package telemetry_test

import (
	"context"
	"testing"

	"github.com/agrotrade/backend/internal/domain/finance"
	"github.com/agrotrade/backend/internal/domain/trade"
	"github.com/agrotrade/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func floatTotal(t *testing.T, m metricdata.Metrics) float64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[float64])
	require.True(t, ok, "metric %s is not a float sum", m.Name)
	total := 0.0
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func intTotal(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int sum", m.Name)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestTradeMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	m, err := telemetry.NewTradeMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	branch := uuid.New()
	m.ProcurementRecorded(ctx, branch, decimal.RequireFromString("20.5"))
	m.SaleRecorded(ctx, branch, trade.PaymentCash, decimal.NewFromInt(30))
	m.SaleRecorded(ctx, branch, trade.PaymentCredit, decimal.NewFromInt(10))
	m.StockRejected(ctx, branch)
	m.CreditPaymentRecorded(ctx, branch, decimal.NewFromInt(1500), finance.PaymentStatusPartial)

	got := collect(t, reader)
	assert.InDelta(t, 20.5, floatTotal(t, got["trade.procured.tonnage"]), 1e-9)
	assert.InDelta(t, 40, floatTotal(t, got["trade.sold.tonnage"]), 1e-9)
	assert.Equal(t, int64(3), intTotal(t, got["trade.records"]))
	assert.Equal(t, int64(1), intTotal(t, got["trade.stock.rejections"]))
	assert.Equal(t, int64(1), intTotal(t, got["credit.payments"]))
	assert.InDelta(t, 1500, floatTotal(t, got["credit.collected.amount"]), 1e-9)

	sold := got["trade.sold.tonnage"].Data.(metricdata.Sum[float64])
	assert.Len(t, sold.DataPoints, 2, "one series per payment type")
}
