package inventory

import (
	"context"

	"github.com/agrotrade/backend/internal/domain/identity"
	"github.com/agrotrade/backend/internal/domain/inventory"
	"github.com/agrotrade/backend/internal/domain/shared"
	"github.com/agrotrade/backend/internal/infrastructure/logger"
	"github.com/agrotrade/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StockService manages produce rows directly. Trades never go through here;
// they move stock through the ledger in their own transactions.
type StockService struct {
	produceRepo inventory.ProduceRepository
	txScope     TransactionScope
	logger      *zap.Logger
}

// NewStockService creates a new StockService
func NewStockService(produceRepo inventory.ProduceRepository, txScope TransactionScope, logger *zap.Logger) *StockService {
	return &StockService{
		produceRepo: produceRepo,
		txScope:     txScope,
		logger:      logger,
	}
}

// Create registers a produce in a branch with an opening stock
func (s *StockService) Create(ctx context.Context, actor identity.Actor, req CreateStockRequest) (_ *StockResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "stock", "create")
	defer func() { telemetry.End(span, err) }()

	branchID, err := identity.ResolveWriteBranch(actor, req.BranchID)
	if err != nil {
		return nil, err
	}
	opening := decimal.Zero
	if req.CurrentStock != nil {
		opening = *req.CurrentStock
	}
	produce, err := inventory.NewProduce(req.Name, req.Type, branchID, opening)
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.BranchRepo().FindByID(ctx, branchID); err != nil {
			return err
		}
		exists, err := repos.ProduceRepo().ExistsByNameInBranch(ctx, produce.Name, branchID, uuid.Nil)
		if err != nil {
			return err
		}
		if exists {
			return shared.ErrAlreadyExists.WithMessage("Produce with this name already exists in this branch")
		}
		return repos.ProduceRepo().Create(ctx, produce)
	})
	if err != nil {
		return nil, err
	}

	logger.WithLogger(ctx, s.logger).Info("Stock created",
		zap.String("produce_id", produce.ID.String()),
		zap.String("branch_id", branchID.String()),
		zap.String("opening_stock", opening.String()))

	resp := ToStockResponse(produce)
	return &resp, nil
}

// Update applies an administrative edit to a produce row. Setting the stock
// here overwrites it without any trade record.
func (s *StockService) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req UpdateStockRequest) (_ *StockResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "stock", "update",
		telemetry.WithAttribute(telemetry.SpanAttrProduceID, id))
	defer func() { telemetry.End(span, err) }()

	patch := inventory.ProducePatch{Name: req.Name, Type: req.Type, CurrentStock: req.CurrentStock}
	if patch.IsEmpty() {
		return nil, shared.ErrInvalidInput.WithMessage("No valid fields to update")
	}

	var produce *inventory.Produce
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		produce, err = repos.ProduceRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := identity.CheckOwnership(actor, produce.BranchID); err != nil {
			return err
		}
		before := produce.Name
		if err := produce.Revise(patch); err != nil {
			return err
		}
		if produce.Name != before {
			exists, err := repos.ProduceRepo().ExistsByNameInBranch(ctx, produce.Name, produce.BranchID, produce.ID)
			if err != nil {
				return err
			}
			if exists {
				return shared.ErrAlreadyExists.WithMessage("Produce with this name already exists in this branch")
			}
		}
		return repos.ProduceRepo().SaveWithLock(ctx, produce)
	})
	if err != nil {
		return nil, err
	}

	if req.CurrentStock != nil {
		logger.WithLogger(ctx, s.logger).Warn("Stock overwritten without trade record",
			zap.String("produce_id", id.String()),
			zap.String("current_stock", produce.CurrentStock.String()))
	}

	resp := ToStockResponse(produce)
	return &resp, nil
}

// Delete removes an empty produce row
func (s *StockService) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "stock", "delete",
		telemetry.WithAttribute(telemetry.SpanAttrProduceID, id))
	defer func() { telemetry.End(span, err) }()

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		produce, err := repos.ProduceRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := identity.CheckOwnership(actor, produce.BranchID); err != nil {
			return err
		}
		if err := produce.EnsureDeletable(); err != nil {
			return err
		}
		return repos.ProduceRepo().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	logger.WithLogger(ctx, s.logger).Info("Stock deleted", zap.String("produce_id", id.String()))
	return nil
}

// GetByID retrieves a produce row the actor may see
func (s *StockService) GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*StockResponse, error) {
	produce, err := s.produceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := identity.CheckOwnership(actor, produce.BranchID); err != nil {
		return nil, err
	}
	resp := ToStockResponse(produce)
	return &resp, nil
}

// List retrieves produce rows in the actor's scope, ordered by name
func (s *StockService) List(ctx context.Context, actor identity.Actor, filter StockListFilter) (*shared.Paginated[StockResponse], error) {
	branchID, err := identity.ResolveBranch(actor, filter.BranchID)
	if err != nil {
		return nil, err
	}
	page := shared.Page{Number: filter.Page, Size: filter.PageSize}.Normalize()

	items, total, err := s.produceRepo.FindAll(ctx, inventory.ProduceFilter{
		BranchID: branchID,
		Type:     filter.Type,
		Page:     page,
	})
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(ToStockResponses(items), total, page)
	return &result, nil
}

// LowStock lists produce at or below the threshold, lowest first.
// The threshold defaults to 10 tons.
func (s *StockService) LowStock(ctx context.Context, actor identity.Actor, filter LowStockFilter) ([]StockResponse, error) {
	branchID, err := identity.ResolveBranch(actor, filter.BranchID)
	if err != nil {
		return nil, err
	}
	threshold := inventory.DefaultLowStockThreshold
	if filter.Threshold != nil {
		if filter.Threshold.IsNegative() {
			return nil, shared.ErrInvalidInput.WithMessage("Threshold cannot be negative")
		}
		if err := shared.CheckScale("Threshold", *filter.Threshold, shared.TonnageScale); err != nil {
			return nil, err
		}
		threshold = *filter.Threshold
	}

	items, err := s.produceRepo.FindLowStock(ctx, branchID, threshold)
	if err != nil {
		return nil, err
	}
	return ToStockResponses(items), nil
}
