package finance

import (
	"errors"
	"testing"
	"time"

	"github.com/agrotrade/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCredit(t *testing.T, due int64) *CreditSale {
	t.Helper()
	dueDate := time.Now().AddDate(0, 0, 14)
	c, err := NewCreditSale(uuid.New(), CreditTerms{
		BuyerNationalID: "CM900001",
		BuyerLocation:   "Gulu",
		AmountDue:       decimal.NewFromInt(due),
		DueDate:         &dueDate,
	})
	require.NoError(t, err)
	return c
}

func TestDeriveStatus(t *testing.T) {
	due := decimal.NewFromInt(4000)
	tests := []struct {
		paid int64
		want PaymentStatus
	}{
		{0, PaymentStatusPending},
		{1, PaymentStatusPartial},
		{3999, PaymentStatusPartial},
		{4000, PaymentStatusPaid},
		{4001, PaymentStatusPaid},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DeriveStatus(decimal.NewFromInt(tt.paid), due), "paid=%d", tt.paid)
	}
}

func TestNewCreditSale(t *testing.T) {
	c := newTestCredit(t, 4000)
	assert.Equal(t, PaymentStatusPending, c.PaymentStatus)
	assert.True(t, c.AmountPaid.IsZero())
	assert.True(t, c.Outstanding().Equal(decimal.NewFromInt(4000)))

	due := time.Now()
	_, err := NewCreditSale(uuid.New(), CreditTerms{AmountDue: decimal.Zero, DueDate: &due})
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))

	_, err = NewCreditSale(uuid.New(), CreditTerms{AmountDue: decimal.NewFromInt(10)})
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))

	_, err = NewCreditSale(uuid.New(), CreditTerms{AmountDue: decimal.RequireFromString("4000.005"), DueDate: &due})
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
}

func TestCreditSale_ApplyPayment(t *testing.T) {
	t.Run("pending to partial to paid", func(t *testing.T) {
		c := newTestCredit(t, 4000)

		require.NoError(t, c.ApplyPayment(decimal.NewFromInt(1500)))
		assert.Equal(t, PaymentStatusPartial, c.PaymentStatus)
		assert.True(t, c.AmountPaid.Equal(decimal.NewFromInt(1500)))

		require.NoError(t, c.ApplyPayment(decimal.NewFromInt(2500)))
		assert.Equal(t, PaymentStatusPaid, c.PaymentStatus)
		assert.True(t, c.AmountPaid.Equal(decimal.NewFromInt(4000)))
		assert.True(t, c.Outstanding().IsZero())
		assert.Equal(t, 3, c.Version)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		c := newTestCredit(t, 100)
		assert.True(t, errors.Is(c.ApplyPayment(decimal.Zero), shared.ErrInvalidInput))
		assert.True(t, errors.Is(c.ApplyPayment(decimal.NewFromInt(-1)), shared.ErrInvalidInput))
		assert.Equal(t, PaymentStatusPending, c.PaymentStatus)
	})

	t.Run("rejects overpayment without changing state", func(t *testing.T) {
		c := newTestCredit(t, 100)
		require.NoError(t, c.ApplyPayment(decimal.NewFromInt(60)))

		err := c.ApplyPayment(decimal.NewFromInt(41))
		assert.True(t, errors.Is(err, ErrExceedsOutstanding))
		assert.True(t, c.AmountPaid.Equal(decimal.NewFromInt(60)))
		assert.Equal(t, PaymentStatusPartial, c.PaymentStatus)
	})

	t.Run("sub-cent payment is refused and the credit can still settle", func(t *testing.T) {
		c := newTestCredit(t, 4000)

		err := c.ApplyPayment(decimal.RequireFromString("3999.995"))
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
		assert.True(t, c.AmountPaid.IsZero())
		assert.Equal(t, PaymentStatusPending, c.PaymentStatus)

		require.NoError(t, c.ApplyPayment(decimal.RequireFromString("3999.99")))
		assert.Equal(t, PaymentStatusPartial, c.PaymentStatus)
		assert.Equal(t, "0.01", c.Outstanding().StringFixed(2))

		require.NoError(t, c.ApplyPayment(decimal.RequireFromString("0.01")))
		assert.Equal(t, PaymentStatusPaid, c.PaymentStatus)
		assert.True(t, c.Outstanding().IsZero())
	})

	t.Run("paid is terminal", func(t *testing.T) {
		c := newTestCredit(t, 100)
		require.NoError(t, c.ApplyPayment(decimal.NewFromInt(100)))
		assert.True(t, errors.Is(c.ApplyPayment(decimal.NewFromInt(1)), shared.ErrInvalidState))
	})
}

func TestCreditSale_IsOverdue(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	c := newTestCredit(t, 100)

	c.DueDate = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	assert.False(t, c.IsOverdue(now), "due today is not overdue")

	c.DueDate = time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
	assert.True(t, c.IsOverdue(now))
	assert.Equal(t, 3, c.DaysOverdue(now))

	c.PaymentStatus = PaymentStatusPaid
	assert.False(t, c.IsOverdue(now))
	assert.Equal(t, 0, c.DaysOverdue(now))
}
