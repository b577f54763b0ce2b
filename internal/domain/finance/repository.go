package finance

import (
	"context"
	"time"

	"github.com/agrotrade/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditView is a credit record joined with its sale and branch
type CreditView struct {
	CreditSale
	BranchID   uuid.UUID
	BranchName string
	BuyerName  string
	Tonnage    decimal.Decimal
	SaleDate   time.Time
}

// CreditFilter narrows credit listings
type CreditFilter struct {
	BranchID      *uuid.UUID
	PaymentStatus PaymentStatus
	OverdueOnly   bool
	AsOf          time.Time // reference day for OverdueOnly
	Page          shared.Page
}

// CreditStats summarises the credit book for a scope
type CreditStats struct {
	TotalCredits     int64           `json:"total_credits"`
	TotalAmountDue   decimal.Decimal `json:"total_amount_due"`
	TotalAmountPaid  decimal.Decimal `json:"total_amount_paid"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	PendingCount     int64           `json:"pending_count"`
	PartialCount     int64           `json:"partial_count"`
	PaidCount        int64           `json:"paid_count"`
	OverdueCount     int64           `json:"overdue_count"`
}

// CreditRepository defines the interface for credit sale persistence
type CreditRepository interface {
	// FindByID finds a credit record by ID
	FindByID(ctx context.Context, id uuid.UUID) (*CreditSale, error)

	// FindViewByID loads a credit record with its owning sale's branch
	FindViewByID(ctx context.Context, id uuid.UUID) (*CreditView, error)

	// FindAll lists credit records ordered by due date
	FindAll(ctx context.Context, filter CreditFilter) ([]CreditView, int64, error)

	// Stats aggregates amounts and status counts, as of the given day
	Stats(ctx context.Context, branchID *uuid.UUID, asOf time.Time) (*CreditStats, error)

	// Create inserts a new credit record
	Create(ctx context.Context, c *CreditSale) error

	// SaveWithLock updates a credit record, failing on a stale version
	SaveWithLock(ctx context.Context, c *CreditSale) error

	// DeleteBySale removes the credit record of a sale, if any
	DeleteBySale(ctx context.Context, saleID uuid.UUID) error
}
