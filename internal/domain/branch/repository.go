package branch

import (
	"context"

	"github.com/google/uuid"
)

// BranchRepository defines the interface for branch persistence
type BranchRepository interface {
	// FindByID finds a branch by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Branch, error)

	// FindAll lists branches; a non-nil scope restricts the result to that branch
	FindAll(ctx context.Context, scope *uuid.UUID) ([]Branch, error)

	// ExistsByName checks whether another branch already uses name.
	// excludeID is ignored when uuid.Nil.
	ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error)

	// HasProduce reports whether any produce row references the branch
	HasProduce(ctx context.Context, id uuid.UUID) (bool, error)

	// Save creates or updates a branch
	Save(ctx context.Context, b *Branch) error

	// Delete removes a branch
	Delete(ctx context.Context, id uuid.UUID) error
}
