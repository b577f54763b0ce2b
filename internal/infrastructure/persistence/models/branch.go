package models

import (
	"github.com/agrotrade/backend/internal/domain/branch"
	"github.com/google/uuid"
)

// BranchModel is the persistence model for the Branch aggregate root.
type BranchModel struct {
	AggregateModel
	Name      string     `gorm:"type:varchar(100);not null"`
	NameKey   string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_branches_name_key"`
	Location  string     `gorm:"type:varchar(255);not null"`
	ManagerID *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (BranchModel) TableName() string {
	return "branches"
}

// ToDomain converts the persistence model to a domain Branch entity.
func (m *BranchModel) ToDomain() *branch.Branch {
	return &branch.Branch{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		Location:          m.Location,
		ManagerID:         m.ManagerID,
	}
}

// FromDomain populates the persistence model from a domain Branch entity.
func (m *BranchModel) FromDomain(b *branch.Branch) {
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	m.Name = b.Name
	m.NameKey = b.NameKey()
	m.Location = b.Location
	m.ManagerID = b.ManagerID
}

// BranchModelFromDomain creates a new persistence model from a domain Branch entity.
func BranchModelFromDomain(b *branch.Branch) *BranchModel {
	m := &BranchModel{}
	m.FromDomain(b)
	return m
}
