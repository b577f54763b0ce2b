package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/agrotrade/backend/internal/domain/inventory"
	"github.com/agrotrade/backend/internal/domain/shared"
	"github.com/agrotrade/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// adjustStockSQL moves stock in one guarded statement. The WHERE clause is
// the non-negativity check, evaluated under the row lock the UPDATE takes,
// so two concurrent debits can never both pass against the same snapshot.
const adjustStockSQL = `UPDATE produce SET current_stock = current_stock + ?, version = version + 1, updated_at = ? ` +
	`WHERE id = ? AND branch_id = ? AND current_stock + ? >= 0 RETURNING current_stock`

// GormStockLedger implements StockLedger on the produce table.
// It must be built from the transaction handle of the unit of work it serves.
type GormStockLedger struct {
	tx *gorm.DB
}

// NewGormStockLedger creates a ledger bound to tx
func NewGormStockLedger(tx *gorm.DB) *GormStockLedger {
	return &GormStockLedger{tx: tx}
}

// Adjust adds delta to the stock of produceID in branchID and returns the new quantity
func (l *GormStockLedger) Adjust(ctx context.Context, produceID, branchID uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	if err := shared.CheckScale("Stock adjustment", delta, shared.TonnageScale); err != nil {
		return decimal.Zero, err
	}
	db := l.tx.WithContext(ctx)

	var stock decimal.Decimal
	err := db.Raw(adjustStockSQL, delta, time.Now(), produceID, branchID, delta).Row().Scan(&stock)
	if err == nil {
		return stock, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, translateError("adjust stock", err)
	}

	// Nothing matched: either the produce is not in this branch or the
	// guard refused the change.
	var count int64
	if err := db.Model(&models.ProduceModel{}).
		Where("id = ? AND branch_id = ?", produceID, branchID).
		Count(&count).Error; err != nil {
		return decimal.Zero, translateError("count produce", err)
	}
	if count == 0 {
		return decimal.Zero, shared.ErrNotFound.WithMessage("Produce not found in this branch")
	}
	return decimal.Zero, shared.ErrInsufficientStock
}

// Ensure GormStockLedger implements StockLedger
var _ inventory.StockLedger = (*GormStockLedger)(nil)
