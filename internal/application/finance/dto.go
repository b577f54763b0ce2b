package finance

import (
	"time"

	"github.com/agrotrade/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditResponse represents a credit record in API responses
type CreditResponse struct {
	ID              uuid.UUID       `json:"id"`
	SaleID          uuid.UUID       `json:"sale_id"`
	BranchID        uuid.UUID       `json:"branch_id"`
	BranchName      string          `json:"branch_name"`
	BuyerName       string          `json:"buyer_name"`
	BuyerNationalID string          `json:"buyer_national_id,omitempty"`
	BuyerLocation   string          `json:"buyer_location,omitempty"`
	Tonnage         decimal.Decimal `json:"tonnage"`
	AmountDue       decimal.Decimal `json:"amount_due"`
	AmountPaid      decimal.Decimal `json:"amount_paid"`
	Outstanding     decimal.Decimal `json:"outstanding"`
	DueDate         string          `json:"due_date"`
	PaymentStatus   string          `json:"payment_status"`
	IsOverdue       bool            `json:"is_overdue"`
	DaysOverdue     int             `json:"days_overdue"`
	SaleDate        time.Time       `json:"sale_date"`
	Version         int             `json:"version"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ToCreditResponse converts the credit read model, judging overdue as of now
func ToCreditResponse(v *finance.CreditView, now time.Time) CreditResponse {
	return CreditResponse{
		ID:              v.ID,
		SaleID:          v.SaleID,
		BranchID:        v.BranchID,
		BranchName:      v.BranchName,
		BuyerName:       v.BuyerName,
		BuyerNationalID: v.BuyerNationalID,
		BuyerLocation:   v.BuyerLocation,
		Tonnage:         v.Tonnage,
		AmountDue:       v.AmountDue,
		AmountPaid:      v.AmountPaid,
		Outstanding:     v.Outstanding(),
		DueDate:         v.DueDate.Format("2006-01-02"),
		PaymentStatus:   string(v.PaymentStatus),
		IsOverdue:       v.IsOverdue(now),
		DaysOverdue:     v.DaysOverdue(now),
		SaleDate:        v.SaleDate,
		Version:         v.Version,
		UpdatedAt:       v.UpdatedAt,
	}
}

// RecordPaymentRequest represents a repayment against a credit
type RecordPaymentRequest struct {
	AmountPaid decimal.Decimal `json:"amount_paid" binding:"decimal_gt0"`
}

// CreditListFilter represents filter options for the credit list
type CreditListFilter struct {
	BranchID      *uuid.UUID `form:"-"`
	PaymentStatus string     `form:"payment_status" binding:"omitempty,oneof=pending partial paid"`
	Overdue       bool       `form:"overdue"`
	Page          int        `form:"page" binding:"omitempty,min=1"`
	PageSize      int        `form:"page_size" binding:"omitempty,min=1,max=500"`
}

// CreditStatsFilter narrows the credit statistics
type CreditStatsFilter struct {
	BranchID *uuid.UUID `form:"-"`
}
