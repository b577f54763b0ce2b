package models

import (
	"github.com/agrotrade/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProduceModel is the persistence model for the Produce aggregate root.
// current_stock is only ever moved by the stock ledger's conditional update
// or by an administrative edit saved under a version check.
type ProduceModel struct {
	AggregateModel
	Name         string          `gorm:"type:varchar(100);not null"`
	NameKey      string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_produce_name_key_branch,priority:1"`
	Type         string          `gorm:"type:varchar(50);not null"`
	BranchID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_produce_name_key_branch,priority:2;index"`
	CurrentStock decimal.Decimal `gorm:"type:decimal(14,3);not null;default:0"`
}

// TableName returns the table name for GORM
func (ProduceModel) TableName() string {
	return "produce"
}

// ToDomain converts the persistence model to a domain Produce entity.
func (m *ProduceModel) ToDomain() *inventory.Produce {
	return &inventory.Produce{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		Type:              m.Type,
		BranchID:          m.BranchID,
		CurrentStock:      m.CurrentStock,
	}
}

// FromDomain populates the persistence model from a domain Produce entity.
func (m *ProduceModel) FromDomain(p *inventory.Produce) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Name = p.Name
	m.NameKey = p.NameKey()
	m.Type = p.Type
	m.BranchID = p.BranchID
	m.CurrentStock = p.CurrentStock
}

// ProduceModelFromDomain creates a new persistence model from a domain Produce entity.
func ProduceModelFromDomain(p *inventory.Produce) *ProduceModel {
	m := &ProduceModel{}
	m.FromDomain(p)
	return m
}
