package inventory

import (
	"strings"
	"time"

	"github.com/agrotrade/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultLowStockThreshold is the alert threshold in tons when none is given
var DefaultLowStockThreshold = decimal.NewFromInt(10)

// ErrStockNotEmpty is returned when deleting produce that still holds stock
var ErrStockNotEmpty = shared.NewDomainError("STOCK_NOT_EMPTY", "Cannot delete stock with remaining inventory")

// Produce is a tracked commodity held by one branch, with its quantity on
// hand in tons. The quantity is moved by the stock ledger; the setters here
// are administrative corrections only.
type Produce struct {
	shared.BaseAggregateRoot
	Name         string
	Type         string
	BranchID     uuid.UUID
	CurrentStock decimal.Decimal
}

// NewProduce creates a produce row for a branch with an opening stock
func NewProduce(name, produceType string, branchID uuid.UUID, openingStock decimal.Decimal) (*Produce, error) {
	if branchID == uuid.Nil {
		return nil, shared.ErrInvalidInput.WithMessage("Valid branch ID is required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Produce name is required")
	}
	if strings.TrimSpace(produceType) == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Produce type is required")
	}
	p := &Produce{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BranchID:          branchID,
	}
	if err := p.Revise(ProducePatch{Name: &name, Type: &produceType, CurrentStock: &openingStock}); err != nil {
		return nil, err
	}
	p.Version = 1
	return p, nil
}

// ProducePatch holds the directly editable fields of a produce row.
// A nil or empty value keeps the current one.
type ProducePatch struct {
	Name         *string
	Type         *string
	CurrentStock *decimal.Decimal
}

// IsEmpty reports whether the patch changes nothing
func (p ProducePatch) IsEmpty() bool {
	return p.Name == nil && p.Type == nil && p.CurrentStock == nil
}

// Revise applies an administrative edit. Setting CurrentStock overwrites the
// quantity on hand without a ledger entry; negative quantities are refused.
func (p *Produce) Revise(patch ProducePatch) error {
	next := *p

	if patch.Name != nil && strings.TrimSpace(*patch.Name) != "" {
		name := shared.DisplayName(*patch.Name)
		if len(name) > 100 {
			return shared.ErrInvalidInput.WithMessage("Produce name cannot exceed 100 characters")
		}
		next.Name = name
	}
	if patch.Type != nil && strings.TrimSpace(*patch.Type) != "" {
		produceType := strings.TrimSpace(*patch.Type)
		if len(produceType) > 50 {
			return shared.ErrInvalidInput.WithMessage("Produce type cannot exceed 50 characters")
		}
		next.Type = produceType
	}
	if patch.CurrentStock != nil {
		if patch.CurrentStock.IsNegative() {
			return shared.ErrInvalidInput.WithMessage("Current stock cannot be negative")
		}
		if err := shared.CheckScale("Current stock", *patch.CurrentStock, shared.TonnageScale); err != nil {
			return err
		}
		next.CurrentStock = *patch.CurrentStock
	}

	next.UpdatedAt = time.Now()
	next.IncrementVersion()
	*p = next
	return nil
}

// NameKey is the case-folded name that must be unique within the branch
func (p *Produce) NameKey() string {
	return shared.NameKey(p.Name)
}

// CanSupply reports whether the quantity on hand covers qty
func (p *Produce) CanSupply(qty decimal.Decimal) bool {
	return p.CurrentStock.GreaterThanOrEqual(qty)
}

// EnsureDeletable refuses deletion while stock remains
func (p *Produce) EnsureDeletable() error {
	if p.CurrentStock.IsPositive() {
		return ErrStockNotEmpty
	}
	return nil
}

// IsLow reports whether stock is at or below threshold
func (p *Produce) IsLow(threshold decimal.Decimal) bool {
	return p.CurrentStock.LessThanOrEqual(threshold)
}
