package finance_test

import (
	"context"
	"errors"
	"testing"
	"time"

	appfin "github.com/agrotrade/backend/internal/application/finance"
	apptrade "github.com/agrotrade/backend/internal/application/trade"
	"github.com/agrotrade/backend/internal/domain/finance"
	"github.com/agrotrade/backend/internal/domain/identity"
	"github.com/agrotrade/backend/internal/domain/shared"
	"github.com/agrotrade/backend/internal/infrastructure/persistence"
	"github.com/agrotrade/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type creditEnv struct {
	credits   *appfin.CreditService
	sales     *apptrade.SalesService
	ceo       identity.Actor
	manager   identity.Actor
	outsider  identity.Actor
	kampala   uuid.UUID
	produceID uuid.UUID
	payments  []finance.PaymentStatus
}

func (e *creditEnv) CreditPaymentRecorded(_ context.Context, _ uuid.UUID, _ decimal.Decimal, status finance.PaymentStatus) {
	e.payments = append(e.payments, status)
}

func newCreditEnv(t *testing.T) *creditEnv {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	f := testutil.NewFixtures(t, db)
	kampala := f.Branch("Kampala")
	gulu := f.Branch("Gulu")
	scope := persistence.NewGormTransactionScope(db)

	env := &creditEnv{
		credits:   appfin.NewCreditService(persistence.NewGormCreditRepository(db), scope, zap.NewNop()),
		sales:     apptrade.NewSalesService(persistence.NewGormSaleRepository(db), scope, zap.NewNop()),
		ceo:       f.User("ceo", identity.RoleCEO, nil).Actor(),
		manager:   f.User("manager", identity.RoleManager, &kampala.ID).Actor(),
		outsider:  f.User("outsider", identity.RoleManager, &gulu.ID).Actor(),
		kampala:   kampala.ID,
		produceID: f.Produce(kampala.ID, "Beans", 100).ID,
	}
	env.credits.SetMetrics(env)
	return env
}

func (e *creditEnv) openCredit(t *testing.T, amountDue int64, due time.Time) uuid.UUID {
	t.Helper()
	amount := decimal.NewFromInt(amountDue)
	sale, err := e.sales.Create(context.Background(), e.manager, apptrade.CreateSaleRequest{
		ProduceID:   e.produceID,
		BranchID:    e.kampala,
		BuyerName:   "Achieng Stores",
		Tonnage:     decimal.NewFromInt(10),
		PaymentType: "credit",
		AmountDue:   &amount,
		DueDate:     due.Format("2006-01-02"),
	})
	require.NoError(t, err)
	require.NotNil(t, sale.Credit)
	return sale.Credit.ID
}

func pay(v int64) appfin.RecordPaymentRequest {
	return appfin.RecordPaymentRequest{AmountPaid: decimal.NewFromInt(v)}
}

func TestCreditService_RecordPayment(t *testing.T) {
	env := newCreditEnv(t)
	ctx := context.Background()
	id := env.openCredit(t, 4000, time.Now().AddDate(0, 0, 14))

	first, err := env.credits.RecordPayment(ctx, env.manager, id, pay(1500))
	require.NoError(t, err)
	assert.Equal(t, "partial", first.PaymentStatus)
	assert.True(t, first.AmountPaid.Equal(decimal.NewFromInt(1500)))
	assert.True(t, first.Outstanding.Equal(decimal.NewFromInt(2500)))

	t.Run("overpayment is refused", func(t *testing.T) {
		_, err := env.credits.RecordPayment(ctx, env.manager, id, pay(2501))
		assert.True(t, errors.Is(err, finance.ErrExceedsOutstanding))

		got, err := env.credits.GetByID(ctx, env.manager, id)
		require.NoError(t, err)
		assert.True(t, got.AmountPaid.Equal(decimal.NewFromInt(1500)))
	})

	t.Run("another branch's manager cannot pay", func(t *testing.T) {
		_, err := env.credits.RecordPayment(ctx, env.outsider, id, pay(100))
		assert.True(t, errors.Is(err, shared.ErrAccessDenied))
	})

	t.Run("sub-cent amount is refused", func(t *testing.T) {
		_, err := env.credits.RecordPayment(ctx, env.manager, id,
			appfin.RecordPaymentRequest{AmountPaid: decimal.RequireFromString("2499.995")})
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))

		got, err := env.credits.GetByID(ctx, env.manager, id)
		require.NoError(t, err)
		assert.Equal(t, "partial", got.PaymentStatus)
		assert.True(t, got.AmountPaid.Equal(decimal.NewFromInt(1500)))
	})

	second, err := env.credits.RecordPayment(ctx, env.manager, id, pay(2500))
	require.NoError(t, err)
	assert.Equal(t, "paid", second.PaymentStatus)
	assert.True(t, second.AmountPaid.Equal(decimal.NewFromInt(4000)))
	assert.True(t, second.Outstanding.IsZero())

	t.Run("paid is terminal", func(t *testing.T) {
		_, err := env.credits.RecordPayment(ctx, env.ceo, id, pay(1))
		assert.True(t, errors.Is(err, shared.ErrInvalidState))
	})

	t.Run("non-positive amount", func(t *testing.T) {
		other := env.openCredit(t, 100, time.Now().AddDate(0, 0, 1))
		_, err := env.credits.RecordPayment(ctx, env.ceo, other, pay(0))
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	})

	t.Run("unknown credit", func(t *testing.T) {
		_, err := env.credits.RecordPayment(ctx, env.ceo, uuid.New(), pay(1))
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	assert.Equal(t, []finance.PaymentStatus{finance.PaymentStatusPartial, finance.PaymentStatusPaid}, env.payments)
}

func TestCreditService_ListAndStats(t *testing.T) {
	env := newCreditEnv(t)
	ctx := context.Background()
	now := time.Now()

	overdue := env.openCredit(t, 1000, now.AddDate(0, 0, -3))
	env.openCredit(t, 2000, now)
	settled := env.openCredit(t, 500, now.AddDate(0, 0, 7))
	_, err := env.credits.RecordPayment(ctx, env.manager, settled, pay(500))
	require.NoError(t, err)

	t.Run("ordered by due date", func(t *testing.T) {
		page, err := env.credits.List(ctx, env.manager, appfin.CreditListFilter{})
		require.NoError(t, err)
		require.Equal(t, int64(3), page.Total)
		assert.Equal(t, overdue, page.Items[0].ID)
		assert.True(t, page.Items[0].IsOverdue)
		assert.Equal(t, 3, page.Items[0].DaysOverdue)
		assert.False(t, page.Items[1].IsOverdue, "due today is not overdue")
	})

	t.Run("overdue only", func(t *testing.T) {
		page, err := env.credits.List(ctx, env.ceo, appfin.CreditListFilter{Overdue: true})
		require.NoError(t, err)
		require.Equal(t, int64(1), page.Total)
		assert.Equal(t, overdue, page.Items[0].ID)
	})

	t.Run("by status", func(t *testing.T) {
		page, err := env.credits.List(ctx, env.ceo, appfin.CreditListFilter{PaymentStatus: "paid"})
		require.NoError(t, err)
		require.Equal(t, int64(1), page.Total)
		assert.Equal(t, settled, page.Items[0].ID)
	})

	t.Run("outsider sees nothing of Kampala", func(t *testing.T) {
		page, err := env.credits.List(ctx, env.outsider, appfin.CreditListFilter{})
		require.NoError(t, err)
		assert.Zero(t, page.Total)

		_, err = env.credits.List(ctx, env.outsider, appfin.CreditListFilter{BranchID: &env.kampala})
		assert.True(t, errors.Is(err, shared.ErrAccessDenied))
	})

	t.Run("stats", func(t *testing.T) {
		stats, err := env.credits.Stats(ctx, env.ceo, appfin.CreditStatsFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), stats.TotalCredits)
		assert.True(t, stats.TotalAmountDue.Equal(decimal.NewFromInt(3500)))
		assert.True(t, stats.TotalAmountPaid.Equal(decimal.NewFromInt(500)))
		assert.True(t, stats.TotalOutstanding.Equal(decimal.NewFromInt(3000)))
		assert.Equal(t, int64(2), stats.PendingCount)
		assert.Equal(t, int64(1), stats.PaidCount)
		assert.Equal(t, int64(1), stats.OverdueCount)
	})
}
