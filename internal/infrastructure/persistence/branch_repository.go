package persistence

import (
	"context"

	"github.com/agrotrade/backend/internal/domain/branch"
	"github.com/agrotrade/backend/internal/domain/shared"
	"github.com/agrotrade/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBranchRepository implements BranchRepository using GORM
type GormBranchRepository struct {
	db *gorm.DB
}

// NewGormBranchRepository creates a new GormBranchRepository
func NewGormBranchRepository(db *gorm.DB) *GormBranchRepository {
	return &GormBranchRepository{db: db}
}

// FindByID finds a branch by its ID
func (r *GormBranchRepository) FindByID(ctx context.Context, id uuid.UUID) (*branch.Branch, error) {
	var model models.BranchModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError("find branch", err)
	}
	return model.ToDomain(), nil
}

// FindAll lists branches by name, optionally restricted to one branch
func (r *GormBranchRepository) FindAll(ctx context.Context, scope *uuid.UUID) ([]branch.Branch, error) {
	var rows []models.BranchModel
	query := r.db.WithContext(ctx).Model(&models.BranchModel{})
	if scope != nil {
		query = query.Where("id = ?", *scope)
	}
	if err := query.Order("name_key ASC").Find(&rows).Error; err != nil {
		return nil, translateError("list branches", err)
	}
	branches := make([]branch.Branch, len(rows))
	for i := range rows {
		branches[i] = *rows[i].ToDomain()
	}
	return branches, nil
}

// ExistsByName checks whether another branch already uses name, ignoring
// case and spacing
func (r *GormBranchRepository) ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.BranchModel{}).Where("name_key = ?", shared.NameKey(name))
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, translateError("check branch name", err)
	}
	return count > 0, nil
}

// HasProduce reports whether any produce row references the branch
func (r *GormBranchRepository) HasProduce(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProduceModel{}).
		Where("branch_id = ?", id).
		Count(&count).Error; err != nil {
		return false, translateError("check branch produce", err)
	}
	return count > 0, nil
}

// Save creates or updates a branch
func (r *GormBranchRepository) Save(ctx context.Context, b *branch.Branch) error {
	model := models.BranchModelFromDomain(b)
	return translateError("save branch", r.db.WithContext(ctx).Save(model).Error)
}

// Delete removes a branch
func (r *GormBranchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.BranchModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError("delete branch", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormBranchRepository implements BranchRepository
var _ branch.BranchRepository = (*GormBranchRepository)(nil)
