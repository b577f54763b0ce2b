package trade

import (
	"strings"
	"time"

	"github.com/agrotrade/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentType is how a sale is settled
type PaymentType string

const (
	PaymentCash   PaymentType = "cash"
	PaymentCredit PaymentType = "credit"
)

// IsValid checks if the payment type is known
func (t PaymentType) IsValid() bool {
	return t == PaymentCash || t == PaymentCredit
}

// IsCredit returns true for sales that open a credit record
func (t PaymentType) IsCredit() bool {
	return t == PaymentCredit
}

// Sale records a disposal of produce from a branch. A committed sale has
// debited its tonnage from the stock ledger exactly once.
type Sale struct {
	shared.BaseAggregateRoot
	ProduceID    uuid.UUID
	BranchID     uuid.UUID
	BuyerName    string
	BuyerContact string
	Tonnage      decimal.Decimal
	AmountPaid   decimal.Decimal
	PaymentType  PaymentType
	SalesAgentID uuid.UUID
}

// NewSaleInput carries the fields for a new sale
type NewSaleInput struct {
	ProduceID    uuid.UUID
	BranchID     uuid.UUID
	BuyerName    string
	BuyerContact string
	Tonnage      decimal.Decimal
	AmountPaid   decimal.Decimal
	PaymentType  PaymentType
	SalesAgentID uuid.UUID
}

// NewSale validates input and builds a sale
func NewSale(in NewSaleInput) (*Sale, error) {
	if in.ProduceID == uuid.Nil {
		return nil, shared.ErrInvalidInput.WithMessage("Valid produce ID is required")
	}
	if in.BranchID == uuid.Nil {
		return nil, shared.ErrInvalidInput.WithMessage("Valid branch ID is required")
	}
	if !in.PaymentType.IsValid() {
		return nil, shared.ErrInvalidInput.WithMessage("Payment type must be either cash or credit")
	}

	s := &Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProduceID:         in.ProduceID,
		BranchID:          in.BranchID,
		PaymentType:       in.PaymentType,
		SalesAgentID:      in.SalesAgentID,
	}
	patch := SalePatch{
		BuyerName:    &in.BuyerName,
		BuyerContact: &in.BuyerContact,
		Tonnage:      &in.Tonnage,
		AmountPaid:   &in.AmountPaid,
	}
	if _, err := s.Apply(patch); err != nil {
		return nil, err
	}
	s.Version = 1
	return s, nil
}

// SalePatch holds the editable fields of a sale; nil means unchanged.
// Payment type is fixed once the sale exists.
type SalePatch struct {
	BuyerName    *string
	BuyerContact *string
	Tonnage      *decimal.Decimal
	AmountPaid   *decimal.Decimal
}

// IsEmpty reports whether the patch changes nothing
func (p SalePatch) IsEmpty() bool {
	return p.BuyerName == nil && p.BuyerContact == nil && p.Tonnage == nil && p.AmountPaid == nil
}

// Apply validates and applies patch, returning the stock delta it implies
// (old tonnage minus new). A larger sale yields a negative delta. The sale
// is left untouched on error.
func (s *Sale) Apply(patch SalePatch) (decimal.Decimal, error) {
	next := *s

	if patch.BuyerName != nil {
		name := strings.TrimSpace(*patch.BuyerName)
		if name == "" {
			return decimal.Zero, shared.ErrInvalidInput.WithMessage("Buyer name is required")
		}
		if len(name) > 100 {
			return decimal.Zero, shared.ErrInvalidInput.WithMessage("Buyer name cannot exceed 100 characters")
		}
		next.BuyerName = name
	}
	if patch.BuyerContact != nil {
		contact := strings.TrimSpace(*patch.BuyerContact)
		if len(contact) > 50 {
			return decimal.Zero, shared.ErrInvalidInput.WithMessage("Buyer contact cannot exceed 50 characters")
		}
		next.BuyerContact = contact
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
	if patch.AmountPaid != nil {
		if patch.AmountPaid.IsNegative() {
			return decimal.Zero, shared.ErrInvalidInput.WithMessage("Amount paid must be 0 or greater")
		}
		if err := shared.CheckScale("Amount paid", *patch.AmountPaid, shared.MoneyScale); err != nil {
			return decimal.Zero, err
		}
		next.AmountPaid = *patch.AmountPaid
	}

	delta := s.Tonnage.Sub(next.Tonnage)
	next.UpdatedAt = time.Now()
	next.IncrementVersion()
	*s = next
	return delta, nil
}

// StockEffect is the ledger adjustment this sale contributes
func (s *Sale) StockEffect() decimal.Decimal {
	return s.Tonnage.Neg()
}
