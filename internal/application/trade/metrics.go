package trade

import (
	"context"

	"github.com/agrotrade/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Metrics receives business counters for committed trades
type Metrics interface {
	ProcurementRecorded(ctx context.Context, branchID uuid.UUID, tonnage decimal.Decimal)
	SaleRecorded(ctx context.Context, branchID uuid.UUID, paymentType trade.PaymentType, tonnage decimal.Decimal)
	StockRejected(ctx context.Context, branchID uuid.UUID)
}

type noopMetrics struct{}

func (noopMetrics) ProcurementRecorded(context.Context, uuid.UUID, decimal.Decimal) {}

func (noopMetrics) SaleRecorded(context.Context, uuid.UUID, trade.PaymentType, decimal.Decimal) {}

func (noopMetrics) StockRejected(context.Context, uuid.UUID) {}
