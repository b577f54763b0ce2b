package trade

import (
	"context"
	"time"

	"github.com/agrotrade/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProcurementView is a procurement joined with the names a caller needs to
// read it back without further lookups
type ProcurementView struct {
	Procurement
	ProduceName    string
	ProduceType    string
	BranchName     string
	RecordedByName string
}

// SaleCredit is the credit record summary shown alongside a credit sale
type SaleCredit struct {
	ID              uuid.UUID
	BuyerNationalID string
	BuyerLocation   string
	AmountDue       decimal.Decimal
	AmountPaid      decimal.Decimal
	DueDate         time.Time
	PaymentStatus   string
}

// SaleView is a sale joined with produce, branch and agent names, plus its
// credit record when the sale was on credit
type SaleView struct {
	Sale
	ProduceName    string
	ProduceType    string
	BranchName     string
	SalesAgentName string
	Credit         *SaleCredit
}

// ProcurementFilter narrows procurement listings
type ProcurementFilter struct {
	BranchID *uuid.UUID
	Period   shared.DateRange
	Page     shared.Page
}

// SaleFilter narrows sale listings
type SaleFilter struct {
	BranchID    *uuid.UUID
	Period      shared.DateRange
	PaymentType PaymentType
	Page        shared.Page
}

// ProcurementRepository defines the interface for procurement persistence
type ProcurementRepository interface {
	// FindByID finds a procurement by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Procurement, error)

	// FindViewByID loads the joined read model of a procurement
	FindViewByID(ctx context.Context, id uuid.UUID) (*ProcurementView, error)

	// FindAll lists procurements, newest first
	FindAll(ctx context.Context, filter ProcurementFilter) ([]ProcurementView, int64, error)

	// Create inserts a new procurement
	Create(ctx context.Context, p *Procurement) error

	// SaveWithLock updates a procurement, failing on a stale version
	SaveWithLock(ctx context.Context, p *Procurement) error

	// Delete removes a procurement
	Delete(ctx context.Context, id uuid.UUID) error
}

// SaleRepository defines the interface for sale persistence
type SaleRepository interface {
	// FindByID finds a sale by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)

	// FindViewByID loads the joined read model of a sale with its credit record
	FindViewByID(ctx context.Context, id uuid.UUID) (*SaleView, error)

	// FindAll lists sales, newest first
	FindAll(ctx context.Context, filter SaleFilter) ([]SaleView, int64, error)

	// Create inserts a new sale
	Create(ctx context.Context, s *Sale) error

	// SaveWithLock updates a sale, failing on a stale version
	SaveWithLock(ctx context.Context, s *Sale) error

	// Delete removes a sale
	Delete(ctx context.Context, id uuid.UUID) error
}
