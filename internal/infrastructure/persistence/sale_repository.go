package persistence

import (
	"context"

	"github.com/agrotrade/backend/internal/domain/shared"
	"github.com/agrotrade/backend/internal/domain/trade"
	"github.com/agrotrade/backend/internal/infrastructure/persistence/models"
	"github.com/agrotrade/backend/internal/infrastructure/persistence/query"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const saleViewColumns = "sales.*, produce.name AS produce_name, produce.type AS produce_type, " +
	"branches.name AS branch_name, users.name AS sales_agent_name"

// GormSaleRepository implements SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

func (r *GormSaleRepository) views(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("sales").
		Select(saleViewColumns).
		Joins("JOIN produce ON produce.id = sales.produce_id").
		Joins("JOIN branches ON branches.id = sales.branch_id").
		Joins("LEFT JOIN users ON users.id = sales.sales_agent_id")
}

// FindByID finds a sale by ID
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Sale, error) {
	var model models.SaleModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError("find sale", err)
	}
	return model.ToDomain(), nil
}

// FindViewByID loads the joined read model of a sale with its credit record
func (r *GormSaleRepository) FindViewByID(ctx context.Context, id uuid.UUID) (*trade.SaleView, error) {
	var rows []models.SaleRow
	if err := r.views(ctx).Where("sales.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, translateError("find sale", err)
	}
	if len(rows) == 0 {
		return nil, shared.ErrNotFound
	}
	view := rows[0].ToView()

	if view.PaymentType.IsCredit() {
		var credits []models.CreditSaleModel
		if err := r.db.WithContext(ctx).Where("sale_id = ?", id).Limit(1).Find(&credits).Error; err != nil {
			return nil, translateError("find sale credit", err)
		}
		if len(credits) > 0 {
			view.Credit = credits[0].ToSaleCredit()
		}
	}
	return &view, nil
}

// FindAll lists sales, newest first
func (r *GormSaleRepository) FindAll(ctx context.Context, filter trade.SaleFilter) ([]trade.SaleView, int64, error) {
	f := query.New("sales").
		Branch(filter.BranchID).
		Between("created_at", filter.Period).
		Equals("payment_type", string(filter.PaymentType))

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.SaleModel{}).
		Scopes(f.Scope()).
		Count(&total).Error; err != nil {
		return nil, 0, translateError("count sales", err)
	}

	var rows []models.SaleRow
	if err := r.views(ctx).
		Scopes(f.Scope(), query.Paginate(filter.Page)).
		Order("sales.created_at DESC").
		Scan(&rows).Error; err != nil {
		return nil, 0, translateError("list sales", err)
	}

	views := make([]trade.SaleView, len(rows))
	for i := range rows {
		views[i] = rows[i].ToView()
	}
	if err := r.attachCredits(ctx, views); err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// attachCredits loads the credit records of the credit sales in views with one query
func (r *GormSaleRepository) attachCredits(ctx context.Context, views []trade.SaleView) error {
	index := make(map[uuid.UUID]int)
	ids := make([]uuid.UUID, 0, len(views))
	for i := range views {
		if views[i].PaymentType.IsCredit() {
			index[views[i].ID] = i
			ids = append(ids, views[i].ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	var credits []models.CreditSaleModel
	if err := r.db.WithContext(ctx).Where("sale_id IN ?", ids).Find(&credits).Error; err != nil {
		return translateError("list sale credits", err)
	}
	for i := range credits {
		if at, ok := index[credits[i].SaleID]; ok {
			views[at].Credit = credits[i].ToSaleCredit()
		}
	}
	return nil
}

// Create inserts a new sale
func (r *GormSaleRepository) Create(ctx context.Context, s *trade.Sale) error {
	model := models.SaleModelFromDomain(s)
	return translateError("create sale", r.db.WithContext(ctx).Create(model).Error)
}

// SaveWithLock updates a sale with optimistic locking (version check)
func (r *GormSaleRepository) SaveWithLock(ctx context.Context, s *trade.Sale) error {
	result := r.db.WithContext(ctx).
		Model(&models.SaleModel{}).
		Where("id = ? AND version = ?", s.ID, s.Version-1).
		Updates(map[string]interface{}{
			"buyer_name":    s.BuyerName,
			"buyer_contact": s.BuyerContact,
			"tonnage":       s.Tonnage,
			"amount_paid":   s.AmountPaid,
			"version":       s.Version,
			"updated_at":    s.UpdatedAt,
		})
	if result.Error != nil {
		return translateError("update sale", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict.WithMessage("Sale was modified by another transaction")
	}
	return nil
}

// Delete removes a sale
func (r *GormSaleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.SaleModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError("delete sale", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormSaleRepository implements SaleRepository
var _ trade.SaleRepository = (*GormSaleRepository)(nil)
