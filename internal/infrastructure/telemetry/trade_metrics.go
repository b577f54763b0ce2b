package telemetry

import (
	"context"
	"fmt"

	"github.com/agrotrade/backend/internal/domain/finance"
	"github.com/agrotrade/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// TradeMetrics records stock movements and repayments as OTel counters.
// Tonnage and money are reported as float64 since that is what the
// metric SDK accepts; exact values live in the database.
type TradeMetrics struct {
	procured        metric.Float64Counter
	sold            metric.Float64Counter
	trades          metric.Int64Counter
	stockRejections metric.Int64Counter
	creditPayments  metric.Int64Counter
	creditCollected metric.Float64Counter
}

// NewTradeMetrics registers the instruments on meter
func NewTradeMetrics(meter metric.Meter) (*TradeMetrics, error) {
	m := &TradeMetrics{}
	var err error

	if m.procured, err = meter.Float64Counter("trade.procured.tonnage",
		metric.WithDescription("Tonnes received through procurements"),
		metric.WithUnit("t")); err != nil {
		return nil, metricsError("trade.procured.tonnage", err)
	}
	if m.sold, err = meter.Float64Counter("trade.sold.tonnage",
		metric.WithDescription("Tonnes shipped through sales"),
		metric.WithUnit("t")); err != nil {
		return nil, metricsError("trade.sold.tonnage", err)
	}
	if m.trades, err = meter.Int64Counter("trade.records",
		metric.WithDescription("Committed procurement and sale records"),
		metric.WithUnit("{record}")); err != nil {
		return nil, metricsError("trade.records", err)
	}
	if m.stockRejections, err = meter.Int64Counter("trade.stock.rejections",
		metric.WithDescription("Stock movements refused for insufficient stock"),
		metric.WithUnit("{rejection}")); err != nil {
		return nil, metricsError("trade.stock.rejections", err)
	}
	if m.creditPayments, err = meter.Int64Counter("credit.payments",
		metric.WithDescription("Repayments recorded against credit sales"),
		metric.WithUnit("{payment}")); err != nil {
		return nil, metricsError("credit.payments", err)
	}
	if m.creditCollected, err = meter.Float64Counter("credit.collected.amount",
		metric.WithDescription("Money collected on credit sales")); err != nil {
		return nil, metricsError("credit.collected.amount", err)
	}
	return m, nil
}

func metricsError(name string, err error) error {
	return fmt.Errorf("failed to create %s counter: %w", name, err)
}

// ProcurementRecorded counts a committed procurement
func (m *TradeMetrics) ProcurementRecorded(ctx context.Context, branchID uuid.UUID, tonnage decimal.Decimal) {
	branch := attribute.String(SpanAttrBranchID, branchID.String())
	m.procured.Add(ctx, tonnage.InexactFloat64(), metric.WithAttributes(branch))
	m.trades.Add(ctx, 1, metric.WithAttributes(branch, attribute.String("trade.kind", "procurement")))
}

// SaleRecorded counts a committed sale
func (m *TradeMetrics) SaleRecorded(ctx context.Context, branchID uuid.UUID, paymentType trade.PaymentType, tonnage decimal.Decimal) {
	attrs := metric.WithAttributes(
		attribute.String(SpanAttrBranchID, branchID.String()),
		attribute.String(SpanAttrPaymentType, string(paymentType)),
	)
	m.sold.Add(ctx, tonnage.InexactFloat64(), attrs)
	m.trades.Add(ctx, 1, metric.WithAttributes(
		attribute.String(SpanAttrBranchID, branchID.String()),
		attribute.String("trade.kind", "sale"),
	))
}

// StockRejected counts an oversell or overdraw refused by the ledger
func (m *TradeMetrics) StockRejected(ctx context.Context, branchID uuid.UUID) {
	m.stockRejections.Add(ctx, 1, metric.WithAttributes(attribute.String(SpanAttrBranchID, branchID.String())))
}

// CreditPaymentRecorded counts a repayment and the status it moved to
func (m *TradeMetrics) CreditPaymentRecorded(ctx context.Context, branchID uuid.UUID, amount decimal.Decimal, status finance.PaymentStatus) {
	branch := attribute.String(SpanAttrBranchID, branchID.String())
	m.creditPayments.Add(ctx, 1, metric.WithAttributes(branch, attribute.String("credit.status", string(status))))
	m.creditCollected.Add(ctx, amount.InexactFloat64(), metric.WithAttributes(branch))
}
