package persistence

import (
	"context"
	"time"

	"github.com/agrotrade/backend/internal/domain/finance"
	"github.com/agrotrade/backend/internal/domain/shared"
	"github.com/agrotrade/backend/internal/infrastructure/persistence/models"
	"github.com/agrotrade/backend/internal/infrastructure/persistence/query"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const creditViewColumns = "credit_sales.*, sales.branch_id AS branch_id, branches.name AS branch_name, " +
	"sales.buyer_name AS buyer_name, sales.tonnage AS tonnage, sales.created_at AS sale_date"

// GormCreditRepository implements CreditRepository using GORM
type GormCreditRepository struct {
	db *gorm.DB
}

// NewGormCreditRepository creates a new GormCreditRepository
func NewGormCreditRepository(db *gorm.DB) *GormCreditRepository {
	return &GormCreditRepository{db: db}
}

func (r *GormCreditRepository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("credit_sales").
		Joins("JOIN sales ON sales.id = credit_sales.sale_id").
		Joins("JOIN branches ON branches.id = sales.branch_id")
}

// FindByID finds a credit record by ID
func (r *GormCreditRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.CreditSale, error) {
	var model models.CreditSaleModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError("find credit", err)
	}
	return model.ToDomain(), nil
}

// FindViewByID loads a credit record with its owning sale's branch
func (r *GormCreditRepository) FindViewByID(ctx context.Context, id uuid.UUID) (*finance.CreditView, error) {
	var rows []models.CreditRow
	if err := r.joined(ctx).
		Select(creditViewColumns).
		Where("credit_sales.id = ?", id).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, translateError("find credit", err)
	}
	if len(rows) == 0 {
		return nil, shared.ErrNotFound
	}
	view := rows[0].ToView()
	return &view, nil
}

func creditFilterScopes(filter finance.CreditFilter) []func(*gorm.DB) *gorm.DB {
	asOf := filter.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}
	return []func(*gorm.DB) *gorm.DB{
		query.New("sales").Branch(filter.BranchID).Scope(),
		query.New("credit_sales").
			Equals("payment_status", string(filter.PaymentStatus)).
			Overdue(filter.OverdueOnly, asOf).
			Scope(),
	}
}

// FindAll lists credit records ordered by due date
func (r *GormCreditRepository) FindAll(ctx context.Context, filter finance.CreditFilter) ([]finance.CreditView, int64, error) {
	scopes := creditFilterScopes(filter)

	var total int64
	if err := r.joined(ctx).Scopes(scopes...).Count(&total).Error; err != nil {
		return nil, 0, translateError("count credits", err)
	}

	var rows []models.CreditRow
	if err := r.joined(ctx).
		Select(creditViewColumns).
		Scopes(append(scopes, query.Paginate(filter.Page))...).
		Order("credit_sales.due_date ASC").
		Scan(&rows).Error; err != nil {
		return nil, 0, translateError("list credits", err)
	}

	views := make([]finance.CreditView, len(rows))
	for i := range rows {
		views[i] = rows[i].ToView()
	}
	return views, total, nil
}

type creditStatsRow struct {
	TotalCredits    int64
	TotalAmountDue  decimal.NullDecimal
	TotalAmountPaid decimal.NullDecimal
	PendingCount    int64
	PartialCount    int64
	PaidCount       int64
	OverdueCount    int64
}

// Stats aggregates amounts and status counts, as of the given day
func (r *GormCreditRepository) Stats(ctx context.Context, branchID *uuid.UUID, asOf time.Time) (*finance.CreditStats, error) {
	y, m, d := asOf.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, asOf.Location())

	var row creditStatsRow
	err := r.joined(ctx).
		Select(`COUNT(*) AS total_credits,
			SUM(credit_sales.amount_due) AS total_amount_due,
			SUM(credit_sales.amount_paid) AS total_amount_paid,
			COALESCE(SUM(CASE WHEN credit_sales.payment_status = ? THEN 1 ELSE 0 END), 0) AS pending_count,
			COALESCE(SUM(CASE WHEN credit_sales.payment_status = ? THEN 1 ELSE 0 END), 0) AS partial_count,
			COALESCE(SUM(CASE WHEN credit_sales.payment_status = ? THEN 1 ELSE 0 END), 0) AS paid_count,
			COALESCE(SUM(CASE WHEN credit_sales.due_date < ? AND credit_sales.payment_status <> ? THEN 1 ELSE 0 END), 0) AS overdue_count`,
			finance.PaymentStatusPending, finance.PaymentStatusPartial, finance.PaymentStatusPaid,
			today, finance.PaymentStatusPaid).
		Scopes(query.New("sales").Branch(branchID).Scope()).
		Scan(&row).Error
	if err != nil {
		return nil, translateError("credit stats", err)
	}

	stats := &finance.CreditStats{
		TotalCredits:    row.TotalCredits,
		TotalAmountDue:  row.TotalAmountDue.Decimal,
		TotalAmountPaid: row.TotalAmountPaid.Decimal,
		PendingCount:    row.PendingCount,
		PartialCount:    row.PartialCount,
		PaidCount:       row.PaidCount,
		OverdueCount:    row.OverdueCount,
	}
	stats.TotalOutstanding = stats.TotalAmountDue.Sub(stats.TotalAmountPaid)
	return stats, nil
}

// Create inserts a new credit record
func (r *GormCreditRepository) Create(ctx context.Context, c *finance.CreditSale) error {
	model := models.CreditSaleModelFromDomain(c)
	return translateError("create credit", r.db.WithContext(ctx).Create(model).Error)
}

// SaveWithLock updates a credit record with optimistic locking (version check)
func (r *GormCreditRepository) SaveWithLock(ctx context.Context, c *finance.CreditSale) error {
	result := r.db.WithContext(ctx).
		Model(&models.CreditSaleModel{}).
		Where("id = ? AND version = ?", c.ID, c.Version-1).
		Updates(map[string]interface{}{
			"amount_paid":    c.AmountPaid,
			"payment_status": c.PaymentStatus,
			"version":        c.Version,
			"updated_at":     c.UpdatedAt,
		})
	if result.Error != nil {
		return translateError("update credit", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict.WithMessage("Credit was modified by another transaction")
	}
	return nil
}

// DeleteBySale removes the credit record of a sale, if any
func (r *GormCreditRepository) DeleteBySale(ctx context.Context, saleID uuid.UUID) error {
	err := r.db.WithContext(ctx).Delete(&models.CreditSaleModel{}, "sale_id = ?", saleID).Error
	return translateError("delete credit", err)
}

// Ensure GormCreditRepository implements CreditRepository
var _ finance.CreditRepository = (*GormCreditRepository)(nil)
