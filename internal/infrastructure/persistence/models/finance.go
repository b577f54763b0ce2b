package models

import (
	"time"

	"github.com/agrotrade/backend/internal/domain/finance"
	"github.com/agrotrade/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditSaleModel is the persistence model for the CreditSale aggregate root.
type CreditSaleModel struct {
	AggregateModel
	SaleID          uuid.UUID             `gorm:"type:uuid;not null;uniqueIndex"`
	BuyerNationalID string                `gorm:"type:varchar(50)"`
	BuyerLocation   string                `gorm:"type:varchar(255)"`
	AmountDue       decimal.Decimal       `gorm:"type:decimal(16,2);not null"`
	AmountPaid      decimal.Decimal       `gorm:"type:decimal(16,2);not null;default:0"`
	DueDate         time.Time             `gorm:"type:date;not null;index"`
	PaymentStatus   finance.PaymentStatus `gorm:"type:varchar(10);not null;default:'pending';index"`
}

// TableName returns the table name for GORM
func (CreditSaleModel) TableName() string {
	return "credit_sales"
}

// ToDomain converts the persistence model to a domain CreditSale entity.
func (m *CreditSaleModel) ToDomain() *finance.CreditSale {
	return &finance.CreditSale{
		BaseAggregateRoot: m.ToAggregateRoot(),
		SaleID:            m.SaleID,
		BuyerNationalID:   m.BuyerNationalID,
		BuyerLocation:     m.BuyerLocation,
		AmountDue:         m.AmountDue,
		AmountPaid:        m.AmountPaid,
		DueDate:           m.DueDate,
		PaymentStatus:     m.PaymentStatus,
	}
}

// FromDomain populates the persistence model from a domain CreditSale entity.
func (m *CreditSaleModel) FromDomain(c *finance.CreditSale) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.SaleID = c.SaleID
	m.BuyerNationalID = c.BuyerNationalID
	m.BuyerLocation = c.BuyerLocation
	m.AmountDue = c.AmountDue
	m.AmountPaid = c.AmountPaid
	m.DueDate = c.DueDate
	m.PaymentStatus = c.PaymentStatus
}

// CreditSaleModelFromDomain creates a new persistence model from a domain CreditSale entity.
func CreditSaleModelFromDomain(c *finance.CreditSale) *CreditSaleModel {
	m := &CreditSaleModel{}
	m.FromDomain(c)
	return m
}

// ToSaleCredit converts the model to the summary embedded in a sale view
func (m *CreditSaleModel) ToSaleCredit() *trade.SaleCredit {
	return &trade.SaleCredit{
		ID:              m.ID,
		BuyerNationalID: m.BuyerNationalID,
		BuyerLocation:   m.BuyerLocation,
		AmountDue:       m.AmountDue,
		AmountPaid:      m.AmountPaid,
		DueDate:         m.DueDate,
		PaymentStatus:   string(m.PaymentStatus),
	}
}

// CreditRow is a credit sale joined with its sale and branch
type CreditRow struct {
	CreditSaleModel
	BranchID   uuid.UUID
	BranchName string
	BuyerName  string
	Tonnage    decimal.Decimal
	SaleDate   time.Time
}

// ToView converts the joined row to the domain read model
func (r *CreditRow) ToView() finance.CreditView {
	return finance.CreditView{
		CreditSale: *r.CreditSaleModel.ToDomain(),
		BranchID:   r.BranchID,
		BranchName: r.BranchName,
		BuyerName:  r.BuyerName,
		Tonnage:    r.Tonnage,
		SaleDate:   r.SaleDate,
	}
}

// All returns every model in dependency order, for AutoMigrate in tests
func All() []interface{} {
	return []interface{}{
		&BranchModel{},
		&UserModel{},
		&ProduceModel{},
		&ProcurementModel{},
		&SaleModel{},
		&CreditSaleModel{},
	}
}
