package branch

import (
	"time"

	"github.com/agrotrade/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ErrBranchInUse is returned when deleting a branch that still owns produce
var ErrBranchInUse = shared.NewDomainError("BRANCH_IN_USE", "Cannot delete branch with existing produce. Remove produce first.")

// Branch is a physical trading location and the unit of data partitioning
type Branch struct {
	shared.BaseAggregateRoot
	Name      string
	Location  string
	ManagerID *uuid.UUID
}

// NewBranch creates a new branch
func NewBranch(name, location string) (*Branch, error) {
	b := &Branch{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	if err := b.Update(name, location); err != nil {
		return nil, err
	}
	b.Version = 1
	return b, nil
}

// Update changes the branch's descriptive fields
func (b *Branch) Update(name, location string) error {
	name = shared.DisplayName(name)
	if err := validateBranchName(name); err != nil {
		return err
	}
	if err := validateLocation(location); err != nil {
		return err
	}

	b.Name = name
	b.Location = location
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// NameKey is the case-folded name that must be unique across branches
func (b *Branch) NameKey() string {
	return shared.NameKey(b.Name)
}

// AssignManager records the user managing the branch; nil clears it
func (b *Branch) AssignManager(userID *uuid.UUID) {
	if userID != nil && *userID == uuid.Nil {
		userID = nil
	}
	b.ManagerID = userID
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

func validateBranchName(name string) error {
	if name == "" {
		return shared.ErrInvalidInput.WithMessage("Branch name is required")
	}
	if len(name) > 100 {
		return shared.ErrInvalidInput.WithMessage("Branch name cannot exceed 100 characters")
	}
	return nil
}

func validateLocation(location string) error {
	if location == "" {
		return shared.ErrInvalidInput.WithMessage("Location is required")
	}
	if len(location) > 255 {
		return shared.ErrInvalidInput.WithMessage("Location cannot exceed 255 characters")
	}
	return nil
}
