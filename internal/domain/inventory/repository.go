package inventory

import (
	"context"

	"github.com/agrotrade/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockLedger owns the quantity on hand per (produce, branch) pair.
//
// Adjust adds delta to the stock of produceID in branchID and returns the new
// quantity. The change is applied only if the result stays non-negative;
// otherwise ErrInsufficientStock is returned and nothing is written. A
// produce that does not exist in branchID yields ErrNotFound. Implementations
// must run inside the caller's unit of work so the adjustment commits or
// rolls back with the record that caused it, and must bump the row version.
type StockLedger interface {
	Adjust(ctx context.Context, produceID, branchID uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error)
}

// ProduceFilter narrows produce listings
type ProduceFilter struct {
	BranchID *uuid.UUID
	Type     string
	Page     shared.Page
}

// ProduceRepository defines the interface for produce persistence
type ProduceRepository interface {
	// FindByID finds a produce row by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Produce, error)

	// FindInBranch finds a produce row only if it belongs to branchID
	FindInBranch(ctx context.Context, id, branchID uuid.UUID) (*Produce, error)

	// FindAll lists produce ordered by name
	FindAll(ctx context.Context, filter ProduceFilter) ([]Produce, int64, error)

	// FindLowStock lists produce at or below threshold, lowest first
	FindLowStock(ctx context.Context, branchID *uuid.UUID, threshold decimal.Decimal) ([]Produce, error)

	// ExistsByNameInBranch checks the (name, branch) uniqueness rule.
	// excludeID is ignored when uuid.Nil.
	ExistsByNameInBranch(ctx context.Context, name string, branchID, excludeID uuid.UUID) (bool, error)

	// Create inserts a new produce row
	Create(ctx context.Context, p *Produce) error

	// SaveWithLock updates a produce row, failing if the stock ledger or
	// another edit touched it since it was loaded
	SaveWithLock(ctx context.Context, p *Produce) error

	// Delete removes a produce row
	Delete(ctx context.Context, id uuid.UUID) error
}
