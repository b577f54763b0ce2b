package finance

import (
	"context"
	"time"

	appinv "github.com/agrotrade/backend/internal/application/inventory"
	"github.com/agrotrade/backend/internal/domain/finance"
	"github.com/agrotrade/backend/internal/domain/identity"
	"github.com/agrotrade/backend/internal/domain/shared"
	"github.com/agrotrade/backend/internal/infrastructure/logger"
	"github.com/agrotrade/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Metrics receives repayment counters
type Metrics interface {
	CreditPaymentRecorded(ctx context.Context, branchID uuid.UUID, amount decimal.Decimal, status finance.PaymentStatus)
}

type noopMetrics struct{}

func (noopMetrics) CreditPaymentRecorded(context.Context, uuid.UUID, decimal.Decimal, finance.PaymentStatus) {
}

// CreditService tracks repayment of credit sales
type CreditService struct {
	creditRepo finance.CreditRepository
	txScope    appinv.TransactionScope
	metrics    Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// NewCreditService creates a new CreditService
func NewCreditService(creditRepo finance.CreditRepository, txScope appinv.TransactionScope, logger *zap.Logger) *CreditService {
	return &CreditService{
		creditRepo: creditRepo,
		txScope:    txScope,
		metrics:    noopMetrics{},
		logger:     logger,
		now:        time.Now,
	}
}

// SetMetrics sets the business metrics recorder
func (s *CreditService) SetMetrics(m Metrics) {
	if m != nil {
		s.metrics = m
	}
}

// RecordPayment applies a repayment to a credit. The row is saved with an
// optimistic version check; a concurrent payment fails with
// ErrConcurrencyConflict and is not retried.
func (s *CreditService) RecordPayment(ctx context.Context, actor identity.Actor, id uuid.UUID, req RecordPaymentRequest) (_ *CreditResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "credit", "pay",
		telemetry.WithAttribute(telemetry.SpanAttrRecordID, id),
		telemetry.WithAttribute(telemetry.SpanAttrAmount, req.AmountPaid))
	defer func() { telemetry.End(span, err) }()

	var view *finance.CreditView
	err = s.txScope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		current, err := repos.CreditRepo().FindViewByID(ctx, id)
		if err != nil {
			return err
		}
		if err := identity.CheckOwnership(actor, current.BranchID); err != nil {
			return err
		}
		credit := current.CreditSale
		if err := credit.ApplyPayment(req.AmountPaid); err != nil {
			return err
		}
		if err := repos.CreditRepo().SaveWithLock(ctx, &credit); err != nil {
			return err
		}
		view, err = repos.CreditRepo().FindViewByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.CreditPaymentRecorded(ctx, view.BranchID, req.AmountPaid, view.PaymentStatus)
	logger.WithLogger(ctx, s.logger).Info("Credit payment recorded",
		zap.String("credit_id", id.String()),
		zap.String("amount", req.AmountPaid.String()),
		zap.String("payment_status", string(view.PaymentStatus)))

	resp := ToCreditResponse(view, s.now())
	return &resp, nil
}

// GetByID retrieves a credit the actor may see
func (s *CreditService) GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*CreditResponse, error) {
	view, err := s.creditRepo.FindViewByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := identity.CheckOwnership(actor, view.BranchID); err != nil {
		return nil, err
	}
	resp := ToCreditResponse(view, s.now())
	return &resp, nil
}

// List retrieves credits in the actor's scope, earliest due first
func (s *CreditService) List(ctx context.Context, actor identity.Actor, filter CreditListFilter) (*shared.Paginated[CreditResponse], error) {
	branchID, err := identity.ResolveBranch(actor, filter.BranchID)
	if err != nil {
		return nil, err
	}
	status := finance.PaymentStatus(filter.PaymentStatus)
	if status != "" && !status.IsValid() {
		return nil, shared.ErrInvalidInput.WithMessage("Payment status must be one of pending, partial, paid")
	}
	now := s.now()
	page := shared.Page{Number: filter.Page, Size: filter.PageSize}.Normalize()

	views, total, err := s.creditRepo.FindAll(ctx, finance.CreditFilter{
		BranchID:      branchID,
		PaymentStatus: status,
		OverdueOnly:   filter.Overdue,
		AsOf:          now,
		Page:          page,
	})
	if err != nil {
		return nil, err
	}

	items := make([]CreditResponse, len(views))
	for i := range views {
		items[i] = ToCreditResponse(&views[i], now)
	}
	result := shared.NewPaginated(items, total, page)
	return &result, nil
}

// Stats summarises the credit book in the actor's scope
func (s *CreditService) Stats(ctx context.Context, actor identity.Actor, filter CreditStatsFilter) (*finance.CreditStats, error) {
	branchID, err := identity.ResolveBranch(actor, filter.BranchID)
	if err != nil {
		return nil, err
	}
	return s.creditRepo.Stats(ctx, branchID, s.now())
}
