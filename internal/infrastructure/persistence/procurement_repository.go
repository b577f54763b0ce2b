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

const procurementViewColumns = "procurements.*, produce.name AS produce_name, produce.type AS produce_type, " +
	"branches.name AS branch_name, users.name AS recorded_by_name"

// GormProcurementRepository implements ProcurementRepository using GORM
type GormProcurementRepository struct {
	db *gorm.DB
}

// NewGormProcurementRepository creates a new GormProcurementRepository
func NewGormProcurementRepository(db *gorm.DB) *GormProcurementRepository {
	return &GormProcurementRepository{db: db}
}

func (r *GormProcurementRepository) views(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("procurements").
		Select(procurementViewColumns).
		Joins("JOIN produce ON produce.id = procurements.produce_id").
		Joins("JOIN branches ON branches.id = procurements.branch_id").
		Joins("LEFT JOIN users ON users.id = procurements.recorded_by")
}

// FindByID finds a procurement by ID
func (r *GormProcurementRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Procurement, error) {
	var model models.ProcurementModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError("find procurement", err)
	}
	return model.ToDomain(), nil
}

// FindViewByID loads the joined read model of a procurement
func (r *GormProcurementRepository) FindViewByID(ctx context.Context, id uuid.UUID) (*trade.ProcurementView, error) {
	var rows []models.ProcurementRow
	if err := r.views(ctx).Where("procurements.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, translateError("find procurement", err)
	}
	if len(rows) == 0 {
		return nil, shared.ErrNotFound
	}
	view := rows[0].ToView()
	return &view, nil
}

// FindAll lists procurements, newest first
func (r *GormProcurementRepository) FindAll(ctx context.Context, filter trade.ProcurementFilter) ([]trade.ProcurementView, int64, error) {
	f := query.New("procurements").Branch(filter.BranchID).Between("created_at", filter.Period)

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.ProcurementModel{}).
		Scopes(f.Scope()).
		Count(&total).Error; err != nil {
		return nil, 0, translateError("count procurements", err)
	}

	var rows []models.ProcurementRow
	if err := r.views(ctx).
		Scopes(f.Scope(), query.Paginate(filter.Page)).
		Order("procurements.created_at DESC").
		Scan(&rows).Error; err != nil {
		return nil, 0, translateError("list procurements", err)
	}

	views := make([]trade.ProcurementView, len(rows))
	for i := range rows {
		views[i] = rows[i].ToView()
	}
	return views, total, nil
}

// Create inserts a new procurement
func (r *GormProcurementRepository) Create(ctx context.Context, p *trade.Procurement) error {
	model := models.ProcurementModelFromDomain(p)
	return translateError("create procurement", r.db.WithContext(ctx).Create(model).Error)
}

// SaveWithLock updates a procurement with optimistic locking (version check)
func (r *GormProcurementRepository) SaveWithLock(ctx context.Context, p *trade.Procurement) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProcurementModel{}).
		Where("id = ? AND version = ?", p.ID, p.Version-1).
		Updates(map[string]interface{}{
			"dealer_name":           p.DealerName,
			"dealer_contact":        p.DealerContact,
			"dealer_type":           p.DealerType,
			"tonnage":               p.Tonnage,
			"cost_per_ton":          p.CostPerTon,
			"total_cost":            p.TotalCost,
			"selling_price_per_ton": p.SellingPricePerTon,
			"version":               p.Version,
			"updated_at":            p.UpdatedAt,
		})
	if result.Error != nil {
		return translateError("update procurement", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict.WithMessage("Procurement was modified by another transaction")
	}
	return nil
}

// Delete removes a procurement
func (r *GormProcurementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ProcurementModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError("delete procurement", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormProcurementRepository implements ProcurementRepository
var _ trade.ProcurementRepository = (*GormProcurementRepository)(nil)
