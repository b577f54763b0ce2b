package inventory

import (
	"context"

	"github.com/agrotrade/backend/internal/domain/branch"
	"github.com/agrotrade/backend/internal/domain/finance"
	"github.com/agrotrade/backend/internal/domain/inventory"
	"github.com/agrotrade/backend/internal/domain/trade"
)

// TransactionScope is one unit of work against the store. Every stock
// mutation, and the record that justifies it, runs inside a single Execute.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to repositories within a transaction.
// All repositories returned share the same underlying database transaction.
//
// Ledger is the only way to move quantity on hand. It is only reachable from
// here, so a stock adjustment can never commit apart from its record.
type TransactionalRepositories interface {
	// Ledger returns the stock ledger bound to the current transaction
	Ledger() inventory.StockLedger
	// ProduceRepo returns the produce repository scoped to the current transaction
	ProduceRepo() inventory.ProduceRepository
	// BranchRepo returns the branch repository scoped to the current transaction
	BranchRepo() branch.BranchRepository
	// ProcurementRepo returns the procurement repository scoped to the current transaction
	ProcurementRepo() trade.ProcurementRepository
	// SaleRepo returns the sale repository scoped to the current transaction
	SaleRepo() trade.SaleRepository
	// CreditRepo returns the credit sale repository scoped to the current transaction
	CreditRepo() finance.CreditRepository
}
