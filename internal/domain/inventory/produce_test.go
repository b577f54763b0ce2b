package inventory

import (
	"errors"
	"testing"

	"github.com/agrotrade/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduce(t *testing.T) {
	branchID := uuid.New()

	t.Run("valid produce", func(t *testing.T) {
		p, err := NewProduce("  sugar   BEANS ", "Legume", branchID, decimal.NewFromInt(5))
		require.NoError(t, err)
		assert.Equal(t, "sugar BEANS", p.Name)
		assert.Equal(t, "sugar beans", p.NameKey())
		assert.Equal(t, "Legume", p.Type)
		assert.Equal(t, branchID, p.BranchID)
		assert.True(t, p.CurrentStock.Equal(decimal.NewFromInt(5)))
		assert.Equal(t, 1, p.Version)
	})

	t.Run("opening stock defaults to zero", func(t *testing.T) {
		p, err := NewProduce("Maize", "Grain", branchID, decimal.Zero)
		require.NoError(t, err)
		assert.True(t, p.CurrentStock.IsZero())
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		_, err := NewProduce("", "Grain", branchID, decimal.Zero)
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))

		_, err = NewProduce("Maize", "", branchID, decimal.Zero)
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))

		_, err = NewProduce("Maize", "Grain", uuid.Nil, decimal.Zero)
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))

		_, err = NewProduce("Maize", "Grain", branchID, decimal.NewFromInt(-1))
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))

		_, err = NewProduce("Maize", "Grain", branchID, decimal.RequireFromString("2.0005"))
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	})
}

func TestProduce_Revise(t *testing.T) {
	p, err := NewProduce("Maize", "Grain", uuid.New(), decimal.Zero)
	require.NoError(t, err)

	empty, cereal := "", "Cereal"
	require.NoError(t, p.Revise(ProducePatch{Name: &empty, Type: &cereal}))
	assert.Equal(t, "Maize", p.Name)
	assert.Equal(t, "Cereal", p.Type)
	assert.Equal(t, 2, p.Version)

	name := "White maize"
	require.NoError(t, p.Revise(ProducePatch{Name: &name}))
	assert.Equal(t, "White maize", p.Name)
	assert.Equal(t, "Cereal", p.Type)
	assert.Equal(t, 3, p.Version)

	assert.True(t, ProducePatch{}.IsEmpty())
}

func TestProduce_StockRules(t *testing.T) {
	p, err := NewProduce("Soybeans", "Legume", uuid.New(), decimal.NewFromInt(12))
	require.NoError(t, err)

	assert.True(t, p.CanSupply(decimal.NewFromInt(12)))
	assert.False(t, p.CanSupply(decimal.RequireFromString("12.01")))
	assert.False(t, p.IsLow(DefaultLowStockThreshold))

	assert.True(t, errors.Is(p.EnsureDeletable(), ErrStockNotEmpty))
	negative := decimal.NewFromInt(-3)
	assert.True(t, errors.Is(p.Revise(ProducePatch{CurrentStock: &negative}), shared.ErrInvalidInput))
	assert.True(t, p.CurrentStock.Equal(decimal.NewFromInt(12)))
	tooFine := decimal.RequireFromString("11.9999")
	assert.True(t, errors.Is(p.Revise(ProducePatch{CurrentStock: &tooFine}), shared.ErrInvalidInput))
	assert.True(t, p.CurrentStock.Equal(decimal.NewFromInt(12)))

	zero := decimal.Zero
	require.NoError(t, p.Revise(ProducePatch{CurrentStock: &zero}))
	assert.NoError(t, p.EnsureDeletable())
	assert.True(t, p.IsLow(DefaultLowStockThreshold))
}
