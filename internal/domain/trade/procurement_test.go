package trade

import (
	"errors"
	"testing"

	"github.com/agrotrade/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProcurementInput() NewProcurementInput {
	return NewProcurementInput{
		ProduceID:          uuid.New(),
		BranchID:           uuid.New(),
		DealerName:         "Okello Farms",
		DealerContact:      "0700000000",
		DealerType:         DealerFarm,
		Tonnage:            decimal.NewFromInt(50),
		CostPerTon:         decimal.NewFromInt(900),
		SellingPricePerTon: decimal.NewFromInt(1100),
		RecordedBy:         uuid.New(),
	}
}

func TestNewProcurement(t *testing.T) {
	t.Run("computes total cost when omitted", func(t *testing.T) {
		p, err := NewProcurement(validProcurementInput())
		require.NoError(t, err)
		assert.True(t, p.TotalCost.Equal(decimal.NewFromInt(45000)))
		assert.True(t, p.StockEffect().Equal(decimal.NewFromInt(50)))
		assert.Equal(t, 1, p.Version)
	})

	t.Run("computed total is rounded to cents", func(t *testing.T) {
		in := validProcurementInput()
		in.Tonnage = decimal.RequireFromString("1.333")
		in.CostPerTon = decimal.RequireFromString("100.01")
		p, err := NewProcurement(in)
		require.NoError(t, err)
		assert.Equal(t, "133.31", p.TotalCost.StringFixed(2))
		assert.False(t, shared.ExceedsScale(p.TotalCost, shared.MoneyScale))
	})

	t.Run("keeps explicit total cost", func(t *testing.T) {
		in := validProcurementInput()
		total := decimal.NewFromInt(44000)
		in.TotalCost = &total
		p, err := NewProcurement(in)
		require.NoError(t, err)
		assert.True(t, p.TotalCost.Equal(total))
	})

	tests := []struct {
		name   string
		mutate func(*NewProcurementInput)
	}{
		{"missing produce", func(in *NewProcurementInput) { in.ProduceID = uuid.Nil }},
		{"missing branch", func(in *NewProcurementInput) { in.BranchID = uuid.Nil }},
		{"missing dealer", func(in *NewProcurementInput) { in.DealerName = "  " }},
		{"unknown dealer type", func(in *NewProcurementInput) { in.DealerType = "broker" }},
		{"zero tonnage", func(in *NewProcurementInput) { in.Tonnage = decimal.Zero }},
		{"negative cost", func(in *NewProcurementInput) { in.CostPerTon = decimal.NewFromInt(-1) }},
		{"negative price", func(in *NewProcurementInput) { in.SellingPricePerTon = decimal.NewFromInt(-1) }},
		{"tonnage finer than kilograms", func(in *NewProcurementInput) { in.Tonnage = decimal.RequireFromString("1.0005") }},
		{"cost finer than cents", func(in *NewProcurementInput) { in.CostPerTon = decimal.RequireFromString("900.001") }},
		{"price finer than cents", func(in *NewProcurementInput) { in.SellingPricePerTon = decimal.RequireFromString("0.999") }},
		{"total finer than cents", func(in *NewProcurementInput) {
			total := decimal.RequireFromString("45000.125")
			in.TotalCost = &total
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validProcurementInput()
			tt.mutate(&in)
			_, err := NewProcurement(in)
			assert.True(t, errors.Is(err, shared.ErrInvalidInput))
		})
	}
}

func TestProcurement_Apply(t *testing.T) {
	p, err := NewProcurement(validProcurementInput())
	require.NoError(t, err)

	t.Run("tonnage change yields new minus old", func(t *testing.T) {
		tons := decimal.NewFromInt(35)
		delta, err := p.Apply(ProcurementPatch{Tonnage: &tons})
		require.NoError(t, err)
		assert.True(t, delta.Equal(decimal.NewFromInt(-15)))
		assert.True(t, p.Tonnage.Equal(tons))
		assert.Equal(t, 2, p.Version)
	})

	t.Run("field change yields zero delta", func(t *testing.T) {
		name := "Acme Ltd"
		kind := DealerCompany
		delta, err := p.Apply(ProcurementPatch{DealerName: &name, DealerType: &kind})
		require.NoError(t, err)
		assert.True(t, delta.IsZero())
		assert.Equal(t, "Acme Ltd", p.DealerName)
		assert.Equal(t, DealerCompany, p.DealerType)
	})

	t.Run("invalid patch leaves record untouched", func(t *testing.T) {
		before := *p
		bad := decimal.NewFromInt(-2)
		name := "Changed"
		_, err := p.Apply(ProcurementPatch{DealerName: &name, Tonnage: &bad})
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
		assert.Equal(t, before, *p)
	})

	assert.True(t, ProcurementPatch{}.IsEmpty())
}
