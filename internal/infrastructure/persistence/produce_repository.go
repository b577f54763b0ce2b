package persistence

import (
	"context"

	"github.com/agrotrade/backend/internal/domain/inventory"
	"github.com/agrotrade/backend/internal/domain/shared"
	"github.com/agrotrade/backend/internal/infrastructure/persistence/models"
	"github.com/agrotrade/backend/internal/infrastructure/persistence/query"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormProduceRepository implements ProduceRepository using GORM
type GormProduceRepository struct {
	db *gorm.DB
}

// NewGormProduceRepository creates a new GormProduceRepository
func NewGormProduceRepository(db *gorm.DB) *GormProduceRepository {
	return &GormProduceRepository{db: db}
}

// FindByID finds a produce row by its ID
func (r *GormProduceRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Produce, error) {
	var model models.ProduceModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError("find produce", err)
	}
	return model.ToDomain(), nil
}

// FindInBranch finds a produce row only if it belongs to branchID
func (r *GormProduceRepository) FindInBranch(ctx context.Context, id, branchID uuid.UUID) (*inventory.Produce, error) {
	var model models.ProduceModel
	if err := r.db.WithContext(ctx).
		Where("id = ? AND branch_id = ?", id, branchID).
		First(&model).Error; err != nil {
		return nil, translateError("find produce in branch", err)
	}
	return model.ToDomain(), nil
}

// FindAll lists produce ordered by name
func (r *GormProduceRepository) FindAll(ctx context.Context, filter inventory.ProduceFilter) ([]inventory.Produce, int64, error) {
	f := query.New("produce").Branch(filter.BranchID).Equals("type", filter.Type)

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.ProduceModel{}).
		Scopes(f.Scope()).
		Count(&total).Error; err != nil {
		return nil, 0, translateError("count produce", err)
	}

	var rows []models.ProduceModel
	if err := r.db.WithContext(ctx).Model(&models.ProduceModel{}).
		Scopes(f.Scope(), query.Paginate(filter.Page)).
		Order("produce.name_key ASC").
		Find(&rows).Error; err != nil {
		return nil, 0, translateError("list produce", err)
	}
	return toProduceList(rows), total, nil
}

// FindLowStock lists produce at or below threshold, lowest first
func (r *GormProduceRepository) FindLowStock(ctx context.Context, branchID *uuid.UUID, threshold decimal.Decimal) ([]inventory.Produce, error) {
	var rows []models.ProduceModel
	if err := r.db.WithContext(ctx).Model(&models.ProduceModel{}).
		Scopes(query.New("produce").Branch(branchID).Scope()).
		Where("produce.current_stock <= ?", threshold).
		Order("produce.current_stock ASC").
		Find(&rows).Error; err != nil {
		return nil, translateError("list low stock", err)
	}
	return toProduceList(rows), nil
}

// ExistsByNameInBranch checks the (name, branch) uniqueness rule, ignoring
// case and spacing
func (r *GormProduceRepository) ExistsByNameInBranch(ctx context.Context, name string, branchID, excludeID uuid.UUID) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.ProduceModel{}).
		Where("name_key = ? AND branch_id = ?", shared.NameKey(name), branchID)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, translateError("check produce name", err)
	}
	return count > 0, nil
}

// Create inserts a new produce row
func (r *GormProduceRepository) Create(ctx context.Context, p *inventory.Produce) error {
	model := models.ProduceModelFromDomain(p)
	return translateError("create produce", r.db.WithContext(ctx).Create(model).Error)
}

// SaveWithLock updates a produce row with optimistic locking (version check)
func (r *GormProduceRepository) SaveWithLock(ctx context.Context, p *inventory.Produce) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProduceModel{}).
		Where("id = ? AND version = ?", p.ID, p.Version-1).
		Updates(map[string]interface{}{
			"name":          p.Name,
			"name_key":      p.NameKey(),
			"type":          p.Type,
			"current_stock": p.CurrentStock,
			"version":       p.Version,
			"updated_at":    p.UpdatedAt,
		})
	if result.Error != nil {
		return translateError("update produce", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict.WithMessage("Stock was modified by another transaction")
	}
	return nil
}

// Delete removes a produce row
func (r *GormProduceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ProduceModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError("delete produce", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func toProduceList(rows []models.ProduceModel) []inventory.Produce {
	items := make([]inventory.Produce, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return items
}

// Ensure GormProduceRepository implements ProduceRepository
var _ inventory.ProduceRepository = (*GormProduceRepository)(nil)
