package persistence

import (
	"context"

	appinv "github.com/agrotrade/backend/internal/application/inventory"
	"github.com/agrotrade/backend/internal/domain/branch"
	"github.com/agrotrade/backend/internal/domain/finance"
	"github.com/agrotrade/backend/internal/domain/inventory"
	"github.com/agrotrade/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error or panics, the transaction is rolled back
// and the connection goes back to the pool.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
	return translateError("transaction", err)
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Ledger returns the stock ledger bound to the current transaction.
func (r *gormTransactionalRepositories) Ledger() inventory.StockLedger {
	return NewGormStockLedger(r.tx)
}

// ProduceRepo returns the produce repository scoped to the current transaction.
func (r *gormTransactionalRepositories) ProduceRepo() inventory.ProduceRepository {
	return NewGormProduceRepository(r.tx)
}

// BranchRepo returns the branch repository scoped to the current transaction.
func (r *gormTransactionalRepositories) BranchRepo() branch.BranchRepository {
	return NewGormBranchRepository(r.tx)
}

// ProcurementRepo returns the procurement repository scoped to the current transaction.
func (r *gormTransactionalRepositories) ProcurementRepo() trade.ProcurementRepository {
	return NewGormProcurementRepository(r.tx)
}

// SaleRepo returns the sale repository scoped to the current transaction.
func (r *gormTransactionalRepositories) SaleRepo() trade.SaleRepository {
	return NewGormSaleRepository(r.tx)
}

// CreditRepo returns the credit sale repository scoped to the current transaction.
func (r *gormTransactionalRepositories) CreditRepo() finance.CreditRepository {
	return NewGormCreditRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appinv.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appinv.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
