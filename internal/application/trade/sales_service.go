package trade

import (
	"context"
	"errors"
	"fmt"

	appinv "github.com/agrotrade/backend/internal/application/inventory"
	"github.com/agrotrade/backend/internal/domain/finance"
	"github.com/agrotrade/backend/internal/domain/identity"
	"github.com/agrotrade/backend/internal/domain/shared"
	"github.com/agrotrade/backend/internal/domain/trade"
	"github.com/agrotrade/backend/internal/infrastructure/logger"
	"github.com/agrotrade/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SalesService records sales of produce. A sale, its stock ledger debit and
// its credit record (for credit sales) commit together or not at all.
type SalesService struct {
	saleRepo trade.SaleRepository
	txScope  appinv.TransactionScope
	metrics  Metrics
	logger   *zap.Logger
}

// NewSalesService creates a new SalesService
func NewSalesService(saleRepo trade.SaleRepository, txScope appinv.TransactionScope, logger *zap.Logger) *SalesService {
	return &SalesService{
		saleRepo: saleRepo,
		txScope:  txScope,
		metrics:  noopMetrics{},
		logger:   logger,
	}
}

// SetMetrics sets the business metrics recorder
func (s *SalesService) SetMetrics(m Metrics) {
	if m != nil {
		s.metrics = m
	}
}

// Create records a sale and debits its tonnage from the branch stock
func (s *SalesService) Create(ctx context.Context, actor identity.Actor, req CreateSaleRequest) (_ *SaleResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sale", "create",
		telemetry.WithAttribute(telemetry.SpanAttrProduceID, req.ProduceID),
		telemetry.WithAttribute(telemetry.SpanAttrPaymentType, req.PaymentType),
		telemetry.WithAttribute(telemetry.SpanAttrActorRole, string(actor.Role)))
	defer func() { telemetry.End(span, err) }()

	branchID, err := identity.ResolveWriteBranch(actor, req.BranchID)
	if err != nil {
		return nil, err
	}
	sale, err := trade.NewSale(trade.NewSaleInput{
		ProduceID:    req.ProduceID,
		BranchID:     branchID,
		BuyerName:    req.BuyerName,
		BuyerContact: req.BuyerContact,
		Tonnage:      req.Tonnage,
		AmountPaid:   req.AmountPaid,
		PaymentType:  trade.PaymentType(req.PaymentType),
		SalesAgentID: actor.UserID,
	})
	if err != nil {
		return nil, err
	}
	credit, err := openCredit(sale, req)
	if err != nil {
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrBranchID, branchID,
		telemetry.SpanAttrTonnage, sale.Tonnage)

	var view *trade.SaleView
	err = s.txScope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		produce, err := repos.ProduceRepo().FindInBranch(ctx, sale.ProduceID, branchID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.ErrNotFound.WithMessage("Produce not found in this branch")
			}
			return err
		}
		if !produce.CanSupply(sale.Tonnage) {
			return shared.ErrInsufficientStock.WithMessage(fmt.Sprintf(
				"Insufficient stock. Available: %s tons", produce.CurrentStock.String()))
		}
		if err := repos.SaleRepo().Create(ctx, sale); err != nil {
			return err
		}
		// The ledger re-checks sufficiency atomically; the read above can be stale.
		if _, err := repos.Ledger().Adjust(ctx, sale.ProduceID, branchID, sale.StockEffect()); err != nil {
			return err
		}
		if credit != nil {
			if err := repos.CreditRepo().Create(ctx, credit); err != nil {
				return err
			}
		}
		view, err = repos.SaleRepo().FindViewByID(ctx, sale.ID)
		return err
	})
	if err != nil {
		if errors.Is(err, shared.ErrInsufficientStock) {
			s.metrics.StockRejected(ctx, branchID)
			logger.WithLogger(ctx, s.logger).Warn("Sale refused for insufficient stock",
				zap.String("produce_id", sale.ProduceID.String()),
				zap.String("tonnage", sale.Tonnage.String()))
		}
		return nil, err
	}

	s.metrics.SaleRecorded(ctx, branchID, sale.PaymentType, sale.Tonnage)
	logger.WithLogger(ctx, s.logger).Info("Sale recorded",
		zap.String("sale_id", sale.ID.String()),
		zap.String("branch_id", branchID.String()),
		zap.String("payment_type", string(sale.PaymentType)),
		zap.String("tonnage", sale.Tonnage.String()))

	resp := ToSaleResponse(view)
	return &resp, nil
}

// openCredit builds the credit record a credit sale requires. Credit terms
// on a cash sale are rejected rather than dropped.
func openCredit(sale *trade.Sale, req CreateSaleRequest) (*finance.CreditSale, error) {
	if !sale.PaymentType.IsCredit() {
		if req.hasCreditFields() {
			return nil, shared.ErrInvalidInput.WithMessage("Credit fields are only allowed on credit sales")
		}
		return nil, nil
	}

	terms := finance.CreditTerms{
		BuyerNationalID: req.BuyerNationalID,
		BuyerLocation:   req.BuyerLocation,
	}
	if req.AmountDue != nil {
		terms.AmountDue = *req.AmountDue
	}
	if req.DueDate != "" {
		due, err := parseDay(req.DueDate)
		if err != nil {
			return nil, err
		}
		terms.DueDate = &due
	}
	return finance.NewCreditSale(sale.ID, terms)
}

// Update edits a sale. A tonnage change returns or takes the difference
// through the ledger: raising a sale must still be covered by stock.
func (s *SalesService) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req UpdateSaleRequest) (_ *SaleResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sale", "update",
		telemetry.WithAttribute(telemetry.SpanAttrRecordID, id))
	defer func() { telemetry.End(span, err) }()

	patch := req.ToPatch()
	if patch.IsEmpty() {
		return nil, shared.ErrInvalidInput.WithMessage("No valid fields to update")
	}

	var view *trade.SaleView
	var branchID uuid.UUID
	err = s.txScope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		sale, err := repos.SaleRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := identity.CheckOwnership(actor, sale.BranchID); err != nil {
			return err
		}
		branchID = sale.BranchID

		delta, err := sale.Apply(patch)
		if err != nil {
			return err
		}
		if !delta.IsZero() {
			if _, err := repos.Ledger().Adjust(ctx, sale.ProduceID, sale.BranchID, delta); err != nil {
				return err
			}
		}
		if err := repos.SaleRepo().SaveWithLock(ctx, sale); err != nil {
			return err
		}
		view, err = repos.SaleRepo().FindViewByID(ctx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, shared.ErrInsufficientStock) {
			s.metrics.StockRejected(ctx, branchID)
		}
		return nil, err
	}

	resp := ToSaleResponse(view)
	return &resp, nil
}

// Delete removes a sale with its credit record and returns its tonnage to stock
func (s *SalesService) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sale", "delete",
		telemetry.WithAttribute(telemetry.SpanAttrRecordID, id))
	defer func() { telemetry.End(span, err) }()

	return s.txScope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		sale, err := repos.SaleRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := identity.CheckOwnership(actor, sale.BranchID); err != nil {
			return err
		}
		if _, err := repos.Ledger().Adjust(ctx, sale.ProduceID, sale.BranchID, sale.StockEffect().Neg()); err != nil {
			return err
		}
		if err := repos.CreditRepo().DeleteBySale(ctx, id); err != nil {
			return err
		}
		return repos.SaleRepo().Delete(ctx, id)
	})
}

// GetByID retrieves a sale with its credit record
func (s *SalesService) GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*SaleResponse, error) {
	view, err := s.saleRepo.FindViewByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := identity.CheckOwnership(actor, view.BranchID); err != nil {
		return nil, err
	}
	resp := ToSaleResponse(view)
	return &resp, nil
}

// List retrieves sales in the actor's scope, newest first
func (s *SalesService) List(ctx context.Context, actor identity.Actor, filter SaleListFilter) (*shared.Paginated[SaleResponse], error) {
	branchID, err := identity.ResolveBranch(actor, filter.BranchID)
	if err != nil {
		return nil, err
	}
	period, err := filter.Period()
	if err != nil {
		return nil, err
	}
	paymentType := trade.PaymentType(filter.PaymentType)
	if paymentType != "" && !paymentType.IsValid() {
		return nil, shared.ErrInvalidInput.WithMessage("Payment type must be either cash or credit")
	}
	page := filter.PageOf()

	views, total, err := s.saleRepo.FindAll(ctx, trade.SaleFilter{
		BranchID:    branchID,
		Period:      period,
		PaymentType: paymentType,
		Page:        page,
	})
	if err != nil {
		return nil, err
	}

	items := make([]SaleResponse, len(views))
	for i := range views {
		items[i] = ToSaleResponse(&views[i])
	}
	result := shared.NewPaginated(items, total, page)
	return &result, nil
}
