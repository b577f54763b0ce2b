package trade

import (
	"strings"
	"time"

	"github.com/agrotrade/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DealerType classifies the party produce was bought from
type DealerType string

const (
	DealerIndividual DealerType = "individual"
	DealerCompany    DealerType = "company"
	DealerFarm       DealerType = "farm"
)

// IsValid checks if the dealer type is known
func (t DealerType) IsValid() bool {
	switch t {
	case DealerIndividual, DealerCompany, DealerFarm:
		return true
	}
	return false
}

// Procurement records a purchase of produce into a branch. Every committed
// procurement has credited its tonnage to the stock ledger exactly once.
type Procurement struct {
	shared.BaseAggregateRoot
	ProduceID          uuid.UUID
	BranchID           uuid.UUID
	DealerName         string
	DealerContact      string
	DealerType         DealerType
	Tonnage            decimal.Decimal
	CostPerTon         decimal.Decimal
	TotalCost          decimal.Decimal
	SellingPricePerTon decimal.Decimal
	RecordedBy         uuid.UUID
}

// NewProcurementInput carries the fields for a new procurement
type NewProcurementInput struct {
	ProduceID          uuid.UUID
	BranchID           uuid.UUID
	DealerName         string
	DealerContact      string
	DealerType         DealerType
	Tonnage            decimal.Decimal
	CostPerTon         decimal.Decimal
	TotalCost          *decimal.Decimal // defaults to tonnage * cost per ton
	SellingPricePerTon decimal.Decimal
	RecordedBy         uuid.UUID
}

// NewProcurement validates input and builds a procurement
func NewProcurement(in NewProcurementInput) (*Procurement, error) {
	if in.ProduceID == uuid.Nil {
		return nil, shared.ErrInvalidInput.WithMessage("Valid produce ID is required")
	}
	if in.BranchID == uuid.Nil {
		return nil, shared.ErrInvalidInput.WithMessage("Valid branch ID is required")
	}

	p := &Procurement{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProduceID:         in.ProduceID,
		BranchID:          in.BranchID,
		RecordedBy:        in.RecordedBy,
	}

	total := in.Tonnage.Mul(in.CostPerTon).Round(shared.MoneyScale)
	if in.TotalCost != nil {
		total = *in.TotalCost
	}
	patch := ProcurementPatch{
		DealerName:         &in.DealerName,
		DealerContact:      &in.DealerContact,
		DealerType:         &in.DealerType,
		Tonnage:            &in.Tonnage,
		CostPerTon:         &in.CostPerTon,
		TotalCost:          &total,
		SellingPricePerTon: &in.SellingPricePerTon,
	}
	if _, err := p.Apply(patch); err != nil {
		return nil, err
	}
	p.Version = 1
	return p, nil
}

// ProcurementPatch holds the editable fields of a procurement; nil means unchanged
type ProcurementPatch struct {
	DealerName         *string
	DealerContact      *string
	DealerType         *DealerType
	Tonnage            *decimal.Decimal
	CostPerTon         *decimal.Decimal
	TotalCost          *decimal.Decimal
	SellingPricePerTon *decimal.Decimal
}

// IsEmpty reports whether the patch changes nothing
func (p ProcurementPatch) IsEmpty() bool {
	return p.DealerName == nil && p.DealerContact == nil && p.DealerType == nil &&
		p.Tonnage == nil && p.CostPerTon == nil && p.TotalCost == nil && p.SellingPricePerTon == nil
}

// Apply validates and applies patch. It returns the stock delta the change
// implies (new tonnage minus old), which the caller must push through the
// ledger in the same unit of work. The procurement is left untouched on error.
func (p *Procurement) Apply(patch ProcurementPatch) (decimal.Decimal, error) {
	next := *p

	if patch.DealerName != nil {
		name := strings.TrimSpace(*patch.DealerName)
		if name == "" {
			return decimal.Zero, shared.ErrInvalidInput.WithMessage("Dealer name is required")
		}
		if len(name) > 100 {
			return decimal.Zero, shared.ErrInvalidInput.WithMessage("Dealer name cannot exceed 100 characters")
		}
		next.DealerName = name
	}
	if patch.DealerContact != nil {
		contact := strings.TrimSpace(*patch.DealerContact)
		if len(contact) > 50 {
			return decimal.Zero, shared.ErrInvalidInput.WithMessage("Dealer contact cannot exceed 50 characters")
		}
		next.DealerContact = contact
	}
	if patch.DealerType != nil {
		if !patch.DealerType.IsValid() {
			return decimal.Zero, shared.ErrInvalidInput.WithMessage("Invalid dealer type")
		}
		next.DealerType = *patch.DealerType
	}
	if patch.Tonnage != nil {
		if !patch.Tonnage.IsPositive() {
			return decimal.Zero, shared.ErrInvalidInput.WithMessage("Tonnage must be greater than 0")
		}
		if err := shared.CheckScale("Tonnage", *patch.Tonnage, shared.TonnageScale); err != nil {
			return decimal.Zero, err
		}
		next.Tonnage = *patch.Tonnage
	}
	if patch.CostPerTon != nil {
		if patch.CostPerTon.IsNegative() {
			return decimal.Zero, shared.ErrInvalidInput.WithMessage("Cost per ton must be 0 or greater")
		}
		if err := shared.CheckScale("Cost per ton", *patch.CostPerTon, shared.MoneyScale); err != nil {
			return decimal.Zero, err
		}
		next.CostPerTon = *patch.CostPerTon
	}
	if patch.TotalCost != nil {
		if patch.TotalCost.IsNegative() {
			return decimal.Zero, shared.ErrInvalidInput.WithMessage("Total cost must be 0 or greater")
		}
		if err := shared.CheckScale("Total cost", *patch.TotalCost, shared.MoneyScale); err != nil {
			return decimal.Zero, err
		}
		next.TotalCost = *patch.TotalCost
	}
	if patch.SellingPricePerTon != nil {
		if patch.SellingPricePerTon.IsNegative() {
			return decimal.Zero, shared.ErrInvalidInput.WithMessage("Selling price per ton must be 0 or greater")
		}
		if err := shared.CheckScale("Selling price per ton", *patch.SellingPricePerTon, shared.MoneyScale); err != nil {
			return decimal.Zero, err
		}
		next.SellingPricePerTon = *patch.SellingPricePerTon
	}

	delta := next.Tonnage.Sub(p.Tonnage)
	next.UpdatedAt = time.Now()
	next.IncrementVersion()
	*p = next
	return delta, nil
}

// StockEffect is the ledger adjustment this procurement contributes
func (p *Procurement) StockEffect() decimal.Decimal {
	return p.Tonnage
}
