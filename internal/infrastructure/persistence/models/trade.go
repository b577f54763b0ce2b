package models

import (
	"github.com/agrotrade/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProcurementModel is the persistence model for the Procurement aggregate root.
type ProcurementModel struct {
	AggregateModel
	ProduceID          uuid.UUID        `gorm:"type:uuid;not null;index"`
	BranchID           uuid.UUID        `gorm:"type:uuid;not null;index"`
	DealerName         string           `gorm:"type:varchar(100);not null"`
	DealerContact      string           `gorm:"type:varchar(50)"`
	DealerType         trade.DealerType `gorm:"type:varchar(20);not null"`
	Tonnage            decimal.Decimal  `gorm:"type:decimal(14,3);not null"`
	CostPerTon         decimal.Decimal  `gorm:"type:decimal(14,2);not null"`
	TotalCost          decimal.Decimal  `gorm:"type:decimal(16,2);not null"`
	SellingPricePerTon decimal.Decimal  `gorm:"type:decimal(14,2);not null"`
	RecordedBy         uuid.UUID        `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (ProcurementModel) TableName() string {
	return "procurements"
}

// ToDomain converts the persistence model to a domain Procurement entity.
func (m *ProcurementModel) ToDomain() *trade.Procurement {
	return &trade.Procurement{
		BaseAggregateRoot:  m.ToAggregateRoot(),
		ProduceID:          m.ProduceID,
		BranchID:           m.BranchID,
		DealerName:         m.DealerName,
		DealerContact:      m.DealerContact,
		DealerType:         m.DealerType,
		Tonnage:            m.Tonnage,
		CostPerTon:         m.CostPerTon,
		TotalCost:          m.TotalCost,
		SellingPricePerTon: m.SellingPricePerTon,
		RecordedBy:         m.RecordedBy,
	}
}

// FromDomain populates the persistence model from a domain Procurement entity.
func (m *ProcurementModel) FromDomain(p *trade.Procurement) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.ProduceID = p.ProduceID
	m.BranchID = p.BranchID
	m.DealerName = p.DealerName
	m.DealerContact = p.DealerContact
	m.DealerType = p.DealerType
	m.Tonnage = p.Tonnage
	m.CostPerTon = p.CostPerTon
	m.TotalCost = p.TotalCost
	m.SellingPricePerTon = p.SellingPricePerTon
	m.RecordedBy = p.RecordedBy
}

// ProcurementModelFromDomain creates a new persistence model from a domain Procurement entity.
func ProcurementModelFromDomain(p *trade.Procurement) *ProcurementModel {
	m := &ProcurementModel{}
	m.FromDomain(p)
	return m
}

// ProcurementRow is a procurement joined with produce, branch and user names
type ProcurementRow struct {
	ProcurementModel
	ProduceName    string
	ProduceType    string
	BranchName     string
	RecordedByName string
}

// ToView converts the joined row to the domain read model
func (r *ProcurementRow) ToView() trade.ProcurementView {
	return trade.ProcurementView{
		Procurement:    *r.ProcurementModel.ToDomain(),
		ProduceName:    r.ProduceName,
		ProduceType:    r.ProduceType,
		BranchName:     r.BranchName,
		RecordedByName: r.RecordedByName,
	}
}

// SaleModel is the persistence model for the Sale aggregate root.
type SaleModel struct {
	AggregateModel
	ProduceID    uuid.UUID         `gorm:"type:uuid;not null;index"`
	BranchID     uuid.UUID         `gorm:"type:uuid;not null;index"`
	BuyerName    string            `gorm:"type:varchar(100);not null"`
	BuyerContact string            `gorm:"type:varchar(50)"`
	Tonnage      decimal.Decimal   `gorm:"type:decimal(14,3);not null"`
	AmountPaid   decimal.Decimal   `gorm:"type:decimal(16,2);not null;default:0"`
	PaymentType  trade.PaymentType `gorm:"type:varchar(10);not null"`
	SalesAgentID uuid.UUID         `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// ToDomain converts the persistence model to a domain Sale entity.
func (m *SaleModel) ToDomain() *trade.Sale {
	return &trade.Sale{
		BaseAggregateRoot: m.ToAggregateRoot(),
		ProduceID:         m.ProduceID,
		BranchID:          m.BranchID,
		BuyerName:         m.BuyerName,
		BuyerContact:      m.BuyerContact,
		Tonnage:           m.Tonnage,
		AmountPaid:        m.AmountPaid,
		PaymentType:       m.PaymentType,
		SalesAgentID:      m.SalesAgentID,
	}
}

// FromDomain populates the persistence model from a domain Sale entity.
func (m *SaleModel) FromDomain(s *trade.Sale) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.ProduceID = s.ProduceID
	m.BranchID = s.BranchID
	m.BuyerName = s.BuyerName
	m.BuyerContact = s.BuyerContact
	m.Tonnage = s.Tonnage
	m.AmountPaid = s.AmountPaid
	m.PaymentType = s.PaymentType
	m.SalesAgentID = s.SalesAgentID
}

// SaleModelFromDomain creates a new persistence model from a domain Sale entity.
func SaleModelFromDomain(s *trade.Sale) *SaleModel {
	m := &SaleModel{}
	m.FromDomain(s)
	return m
}

// SaleRow is a sale joined with produce, branch and agent names
type SaleRow struct {
	SaleModel
	ProduceName    string
	ProduceType    string
	BranchName     string
	SalesAgentName string
}

// ToView converts the joined row to the domain read model
func (r *SaleRow) ToView() trade.SaleView {
	return trade.SaleView{
		Sale:           *r.SaleModel.ToDomain(),
		ProduceName:    r.ProduceName,
		ProduceType:    r.ProduceType,
		BranchName:     r.BranchName,
		SalesAgentName: r.SalesAgentName,
	}
}
