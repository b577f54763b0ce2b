package trade

import (
	"context"
	"errors"

	appinv "github.com/agrotrade/backend/internal/application/inventory"
	"github.com/agrotrade/backend/internal/domain/identity"
	"github.com/agrotrade/backend/internal/domain/shared"
	"github.com/agrotrade/backend/internal/domain/trade"
	"github.com/agrotrade/backend/internal/infrastructure/logger"
	"github.com/agrotrade/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProcurementService records purchases of produce. Each write is one unit of
// work: the procurement row and its stock ledger credit commit together.
type ProcurementService struct {
	procurementRepo trade.ProcurementRepository
	txScope         appinv.TransactionScope
	metrics         Metrics
	logger          *zap.Logger
}

// NewProcurementService creates a new ProcurementService
func NewProcurementService(
	procurementRepo trade.ProcurementRepository,
	txScope appinv.TransactionScope,
	logger *zap.Logger,
) *ProcurementService {
	return &ProcurementService{
		procurementRepo: procurementRepo,
		txScope:         txScope,
		metrics:         noopMetrics{},
		logger:          logger,
	}
}

// SetMetrics sets the business metrics recorder
func (s *ProcurementService) SetMetrics(m Metrics) {
	if m != nil {
		s.metrics = m
	}
}

// Create records a procurement and credits its tonnage to the branch stock
func (s *ProcurementService) Create(ctx context.Context, actor identity.Actor, req CreateProcurementRequest) (_ *ProcurementResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "procurement", "create",
		telemetry.WithAttribute(telemetry.SpanAttrProduceID, req.ProduceID),
		telemetry.WithAttribute(telemetry.SpanAttrActorRole, string(actor.Role)))
	defer func() { telemetry.End(span, err) }()

	branchID, err := identity.ResolveWriteBranch(actor, req.BranchID)
	if err != nil {
		return nil, err
	}
	procurement, err := trade.NewProcurement(trade.NewProcurementInput{
		ProduceID:          req.ProduceID,
		BranchID:           branchID,
		DealerName:         req.DealerName,
		DealerContact:      req.DealerContact,
		DealerType:         trade.DealerType(req.DealerType),
		Tonnage:            req.Tonnage,
		CostPerTon:         req.CostPerTon,
		TotalCost:          req.TotalCost,
		SellingPricePerTon: req.SellingPricePerTon,
		RecordedBy:         actor.UserID,
	})
	if err != nil {
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrBranchID, branchID,
		telemetry.SpanAttrTonnage, procurement.Tonnage)

	var view *trade.ProcurementView
	err = s.txScope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		if _, err := repos.ProduceRepo().FindInBranch(ctx, procurement.ProduceID, branchID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.ErrNotFound.WithMessage("Produce not found in this branch")
			}
			return err
		}
		if err := repos.ProcurementRepo().Create(ctx, procurement); err != nil {
			return err
		}
		if _, err := repos.Ledger().Adjust(ctx, procurement.ProduceID, branchID, procurement.StockEffect()); err != nil {
			return err
		}
		var err error
		view, err = repos.ProcurementRepo().FindViewByID(ctx, procurement.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ProcurementRecorded(ctx, branchID, procurement.Tonnage)
	logger.WithLogger(ctx, s.logger).Info("Procurement recorded",
		zap.String("procurement_id", procurement.ID.String()),
		zap.String("branch_id", branchID.String()),
		zap.String("tonnage", procurement.Tonnage.String()))

	resp := ToProcurementResponse(view)
	return &resp, nil
}

// Update edits a procurement. A tonnage change moves the branch stock by the
// difference, which fails if the stock it would remove was already sold.
func (s *ProcurementService) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req UpdateProcurementRequest) (_ *ProcurementResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "procurement", "update",
		telemetry.WithAttribute(telemetry.SpanAttrRecordID, id))
	defer func() { telemetry.End(span, err) }()

	patch := req.ToPatch()
	if patch.IsEmpty() {
		return nil, shared.ErrInvalidInput.WithMessage("No valid fields to update")
	}

	var view *trade.ProcurementView
	var branchID uuid.UUID
	err = s.txScope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		procurement, err := repos.ProcurementRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := identity.CheckOwnership(actor, procurement.BranchID); err != nil {
			return err
		}
		branchID = procurement.BranchID

		delta, err := procurement.Apply(patch)
		if err != nil {
			return err
		}
		if !delta.IsZero() {
			if _, err := repos.Ledger().Adjust(ctx, procurement.ProduceID, procurement.BranchID, delta); err != nil {
				return err
			}
		}
		if err := repos.ProcurementRepo().SaveWithLock(ctx, procurement); err != nil {
			return err
		}
		view, err = repos.ProcurementRepo().FindViewByID(ctx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, shared.ErrInsufficientStock) {
			s.metrics.StockRejected(ctx, branchID)
		}
		return nil, err
	}

	resp := ToProcurementResponse(view)
	return &resp, nil
}

// Delete removes a procurement and takes its tonnage back out of stock.
// Refused with ErrInsufficientStock when that stock has since been sold.
func (s *ProcurementService) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "procurement", "delete",
		telemetry.WithAttribute(telemetry.SpanAttrRecordID, id))
	defer func() { telemetry.End(span, err) }()

	return s.txScope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		procurement, err := repos.ProcurementRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := identity.CheckOwnership(actor, procurement.BranchID); err != nil {
			return err
		}
		if _, err := repos.Ledger().Adjust(ctx, procurement.ProduceID, procurement.BranchID, procurement.StockEffect().Neg()); err != nil {
			return err
		}
		return repos.ProcurementRepo().Delete(ctx, id)
	})
}

// GetByID retrieves a procurement the actor may see
func (s *ProcurementService) GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*ProcurementResponse, error) {
	view, err := s.procurementRepo.FindViewByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := identity.CheckOwnership(actor, view.BranchID); err != nil {
		return nil, err
	}
	resp := ToProcurementResponse(view)
	return &resp, nil
}

// List retrieves procurements in the actor's scope, newest first
func (s *ProcurementService) List(ctx context.Context, actor identity.Actor, filter ListFilter) (*shared.Paginated[ProcurementResponse], error) {
	branchID, err := identity.ResolveBranch(actor, filter.BranchID)
	if err != nil {
		return nil, err
	}
	period, err := filter.Period()
	if err != nil {
		return nil, err
	}
	page := filter.PageOf()

	views, total, err := s.procurementRepo.FindAll(ctx, trade.ProcurementFilter{
		BranchID: branchID,
		Period:   period,
		Page:     page,
	})
	if err != nil {
		return nil, err
	}

	items := make([]ProcurementResponse, len(views))
	for i := range views {
		items[i] = ToProcurementResponse(&views[i])
	}
	result := shared.NewPaginated(items, total, page)
	return &result, nil
}
