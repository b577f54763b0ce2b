package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/agrotrade/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents the repayment progress of a credit sale
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending" // nothing paid yet
	PaymentStatusPartial PaymentStatus = "partial" // 0 < paid < due
	PaymentStatusPaid    PaymentStatus = "paid"    // paid >= due
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPartial, PaymentStatusPaid:
		return true
	}
	return false
}

// IsTerminal returns true once no further payment is accepted
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusPaid
}

// DeriveStatus maps amounts to the status they imply
func DeriveStatus(paid, due decimal.Decimal) PaymentStatus {
	switch {
	case paid.GreaterThanOrEqual(due):
		return PaymentStatusPaid
	case paid.IsPositive():
		return PaymentStatusPartial
	default:
		return PaymentStatusPending
	}
}

// ErrExceedsOutstanding is returned when a payment would take the credit past its amount due
var ErrExceedsOutstanding = shared.NewDomainError("EXCEEDS_OUTSTANDING", "Payment exceeds outstanding amount")

// CreditTerms are the buyer and repayment details captured with a credit sale
type CreditTerms struct {
	BuyerNationalID string
	BuyerLocation   string
	AmountDue       decimal.Decimal
	DueDate         *time.Time
}

// CreditSale tracks repayment of a sale made on credit. It is created with
// its sale and removed with it.
type CreditSale struct {
	shared.BaseAggregateRoot
	SaleID          uuid.UUID
	BuyerNationalID string
	BuyerLocation   string
	AmountDue       decimal.Decimal
	AmountPaid      decimal.Decimal
	DueDate         time.Time
	PaymentStatus   PaymentStatus
}

// NewCreditSale opens a pending credit record for saleID
func NewCreditSale(saleID uuid.UUID, terms CreditTerms) (*CreditSale, error) {
	if saleID == uuid.Nil {
		return nil, shared.ErrInvalidInput.WithMessage("Sale ID is required")
	}
	if !terms.AmountDue.IsPositive() {
		return nil, shared.ErrInvalidInput.WithMessage("Amount due must be greater than 0 for credit sales")
	}
	if err := shared.CheckScale("Amount due", terms.AmountDue, shared.MoneyScale); err != nil {
		return nil, err
	}
	if terms.DueDate == nil || terms.DueDate.IsZero() {
		return nil, shared.ErrInvalidInput.WithMessage("Due date is required for credit sales")
	}
	nationalID := strings.TrimSpace(terms.BuyerNationalID)
	if len(nationalID) > 50 {
		return nil, shared.ErrInvalidInput.WithMessage("Buyer national ID cannot exceed 50 characters")
	}

	return &CreditSale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SaleID:            saleID,
		BuyerNationalID:   nationalID,
		BuyerLocation:     strings.TrimSpace(terms.BuyerLocation),
		AmountDue:         terms.AmountDue,
		AmountPaid:        decimal.Zero,
		DueDate:           *terms.DueDate,
		PaymentStatus:     PaymentStatusPending,
	}, nil
}

// ApplyPayment records a repayment against the credit.
// Returns error if the credit is already settled or the payment exceeds the outstanding amount.
func (c *CreditSale) ApplyPayment(amount decimal.Decimal) error {
	if c.PaymentStatus.IsTerminal() {
		return shared.ErrInvalidState.WithMessage("Credit is already fully paid")
	}
	if !amount.IsPositive() {
		return shared.ErrInvalidInput.WithMessage("Payment amount must be greater than 0")
	}
	if err := shared.CheckScale("Payment amount", amount, shared.MoneyScale); err != nil {
		return err
	}
	outstanding := c.Outstanding()
	if amount.GreaterThan(outstanding) {
		return ErrExceedsOutstanding.WithMessage(fmt.Sprintf(
			"Payment amount %s exceeds outstanding amount %s", amount.StringFixed(2), outstanding.StringFixed(2)))
	}

	c.AmountPaid = c.AmountPaid.Add(amount)
	c.PaymentStatus = DeriveStatus(c.AmountPaid, c.AmountDue)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// Outstanding returns what is still owed, never negative
func (c *CreditSale) Outstanding() decimal.Decimal {
	rest := c.AmountDue.Sub(c.AmountPaid)
	if rest.IsNegative() {
		return decimal.Zero
	}
	return rest
}

// IsOverdue returns true if the due date has passed and the credit is not paid.
// A credit due today is not yet overdue.
func (c *CreditSale) IsOverdue(now time.Time) bool {
	if c.PaymentStatus.IsTerminal() {
		return false
	}
	return c.DueDate.Before(startOfDay(now))
}

// DaysOverdue returns the number of whole days past due (0 if not overdue)
func (c *CreditSale) DaysOverdue(now time.Time) int {
	if !c.IsOverdue(now) {
		return 0
	}
	return int(startOfDay(now).Sub(startOfDay(c.DueDate)).Hours() / 24)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
