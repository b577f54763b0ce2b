package trade

import (
	"time"

	"github.com/agrotrade/backend/internal/domain/shared"
	"github.com/agrotrade/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// dateLayout is the calendar-day format accepted for due dates and filters
const dateLayout = "2006-01-02"

// ProcurementResponse represents a procurement in API responses
type ProcurementResponse struct {
	ID                 uuid.UUID       `json:"id"`
	ProduceID          uuid.UUID       `json:"produce_id"`
	ProduceName        string          `json:"produce_name"`
	ProduceType        string          `json:"produce_type"`
	BranchID           uuid.UUID       `json:"branch_id"`
	BranchName         string          `json:"branch_name"`
	DealerName         string          `json:"dealer_name"`
	DealerContact      string          `json:"dealer_contact,omitempty"`
	DealerType         string          `json:"dealer_type"`
	Tonnage            decimal.Decimal `json:"tonnage"`
	CostPerTon         decimal.Decimal `json:"cost_per_ton"`
	TotalCost          decimal.Decimal `json:"total_cost"`
	SellingPricePerTon decimal.Decimal `json:"selling_price_per_ton"`
	RecordedBy         uuid.UUID       `json:"recorded_by"`
	RecordedByName     string          `json:"recorded_by_name,omitempty"`
	Version            int             `json:"version"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// ToProcurementResponse converts the procurement read model to a response
func ToProcurementResponse(v *trade.ProcurementView) ProcurementResponse {
	return ProcurementResponse{
		ID:                 v.ID,
		ProduceID:          v.ProduceID,
		ProduceName:        v.ProduceName,
		ProduceType:        v.ProduceType,
		BranchID:           v.BranchID,
		BranchName:         v.BranchName,
		DealerName:         v.DealerName,
		DealerContact:      v.DealerContact,
		DealerType:         string(v.DealerType),
		Tonnage:            v.Tonnage,
		CostPerTon:         v.CostPerTon,
		TotalCost:          v.TotalCost,
		SellingPricePerTon: v.SellingPricePerTon,
		RecordedBy:         v.RecordedBy,
		RecordedByName:     v.RecordedByName,
		Version:            v.Version,
		CreatedAt:          v.CreatedAt,
		UpdatedAt:          v.UpdatedAt,
	}
}

// CreateProcurementRequest represents a request to record a purchase
type CreateProcurementRequest struct {
	ProduceID          uuid.UUID        `json:"produce_id" binding:"required"`
	BranchID           uuid.UUID        `json:"branch_id" binding:"required"`
	DealerName         string           `json:"dealer_name" binding:"required,max=100"`
	DealerContact      string           `json:"dealer_contact" binding:"max=50"`
	DealerType         string           `json:"dealer_type" binding:"required,oneof=individual company farm"`
	Tonnage            decimal.Decimal  `json:"tonnage" binding:"decimal_gt0"`
	CostPerTon         decimal.Decimal  `json:"cost_per_ton" binding:"decimal_gte0"`
	TotalCost          *decimal.Decimal `json:"total_cost" binding:"omitempty,decimal_gte0"`
	SellingPricePerTon decimal.Decimal  `json:"selling_price_per_ton" binding:"decimal_gte0"`
}

// UpdateProcurementRequest represents a partial edit of a procurement
type UpdateProcurementRequest struct {
	DealerName         *string          `json:"dealer_name" binding:"omitempty,max=100"`
	DealerContact      *string          `json:"dealer_contact" binding:"omitempty,max=50"`
	DealerType         *string          `json:"dealer_type" binding:"omitempty,oneof=individual company farm"`
	Tonnage            *decimal.Decimal `json:"tonnage" binding:"omitempty,decimal_gt0"`
	CostPerTon         *decimal.Decimal `json:"cost_per_ton" binding:"omitempty,decimal_gte0"`
	TotalCost          *decimal.Decimal `json:"total_cost" binding:"omitempty,decimal_gte0"`
	SellingPricePerTon *decimal.Decimal `json:"selling_price_per_ton" binding:"omitempty,decimal_gte0"`
}

// ToPatch converts the request to the domain patch
func (r UpdateProcurementRequest) ToPatch() trade.ProcurementPatch {
	patch := trade.ProcurementPatch{
		DealerName:         r.DealerName,
		DealerContact:      r.DealerContact,
		Tonnage:            r.Tonnage,
		CostPerTon:         r.CostPerTon,
		TotalCost:          r.TotalCost,
		SellingPricePerTon: r.SellingPricePerTon,
	}
	if r.DealerType != nil {
		dt := trade.DealerType(*r.DealerType)
		patch.DealerType = &dt
	}
	return patch
}

// ListFilter holds the filters shared by the procurement and sale lists.
// Dates are calendar days and both ends are inclusive.
type ListFilter struct {
	BranchID  *uuid.UUID `form:"-"`
	StartDate *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate   *time.Time `form:"end_date" time_format:"2006-01-02"`
	Page      int        `form:"page" binding:"omitempty,min=1"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=500"`
}

// Period validates and returns the date range of the filter
func (f ListFilter) Period() (shared.DateRange, error) {
	if f.StartDate != nil && f.EndDate != nil && f.StartDate.After(*f.EndDate) {
		return shared.DateRange{}, shared.ErrInvalidInput.WithMessage("Start date must not be after end date")
	}
	return shared.DateRange{From: f.StartDate, To: f.EndDate}, nil
}

// PageOf returns the normalized page of the filter
func (f ListFilter) PageOf() shared.Page {
	return shared.Page{Number: f.Page, Size: f.PageSize}.Normalize()
}

// SaleListFilter extends ListFilter with the payment type
type SaleListFilter struct {
	ListFilter
	PaymentType string `form:"payment_type" binding:"omitempty,oneof=cash credit"`
}

// CreditSummary is the credit record embedded in a sale response
type CreditSummary struct {
	ID              uuid.UUID       `json:"id"`
	BuyerNationalID string          `json:"buyer_national_id,omitempty"`
	BuyerLocation   string          `json:"buyer_location,omitempty"`
	AmountDue       decimal.Decimal `json:"amount_due"`
	AmountPaid      decimal.Decimal `json:"amount_paid"`
	DueDate         string          `json:"due_date"`
	PaymentStatus   string          `json:"payment_status"`
}

// SaleResponse represents a sale in API responses
type SaleResponse struct {
	ID             uuid.UUID       `json:"id"`
	ProduceID      uuid.UUID       `json:"produce_id"`
	ProduceName    string          `json:"produce_name"`
	ProduceType    string          `json:"produce_type"`
	BranchID       uuid.UUID       `json:"branch_id"`
	BranchName     string          `json:"branch_name"`
	BuyerName      string          `json:"buyer_name"`
	BuyerContact   string          `json:"buyer_contact,omitempty"`
	Tonnage        decimal.Decimal `json:"tonnage"`
	AmountPaid     decimal.Decimal `json:"amount_paid"`
	PaymentType    string          `json:"payment_type"`
	SalesAgentID   uuid.UUID       `json:"sales_agent_id"`
	SalesAgentName string          `json:"sales_agent_name,omitempty"`
	Credit         *CreditSummary  `json:"credit,omitempty"`
	Version        int             `json:"version"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToSaleResponse converts the sale read model to a response
func ToSaleResponse(v *trade.SaleView) SaleResponse {
	resp := SaleResponse{
		ID:             v.ID,
		ProduceID:      v.ProduceID,
		ProduceName:    v.ProduceName,
		ProduceType:    v.ProduceType,
		BranchID:       v.BranchID,
		BranchName:     v.BranchName,
		BuyerName:      v.BuyerName,
		BuyerContact:   v.BuyerContact,
		Tonnage:        v.Tonnage,
		AmountPaid:     v.AmountPaid,
		PaymentType:    string(v.PaymentType),
		SalesAgentID:   v.SalesAgentID,
		SalesAgentName: v.SalesAgentName,
		Version:        v.Version,
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
	}
	if c := v.Credit; c != nil {
		resp.Credit = &CreditSummary{
			ID:              c.ID,
			BuyerNationalID: c.BuyerNationalID,
			BuyerLocation:   c.BuyerLocation,
			AmountDue:       c.AmountDue,
			AmountPaid:      c.AmountPaid,
			DueDate:         c.DueDate.Format(dateLayout),
			PaymentStatus:   c.PaymentStatus,
		}
	}
	return resp
}

// CreateSaleRequest represents a request to record a sale. The credit
// fields are required for credit sales and must be absent on cash sales.
type CreateSaleRequest struct {
	ProduceID    uuid.UUID       `json:"produce_id" binding:"required"`
	BranchID     uuid.UUID       `json:"branch_id" binding:"required"`
	BuyerName    string          `json:"buyer_name" binding:"required,max=100"`
	BuyerContact string          `json:"buyer_contact" binding:"max=50"`
	Tonnage      decimal.Decimal `json:"tonnage" binding:"decimal_gt0"`
	AmountPaid   decimal.Decimal `json:"amount_paid" binding:"decimal_gte0"`
	PaymentType  string          `json:"payment_type" binding:"required,oneof=cash credit"`

	BuyerNationalID string           `json:"buyer_national_id" binding:"max=50"`
	BuyerLocation   string           `json:"buyer_location"`
	AmountDue       *decimal.Decimal `json:"amount_due"`
	DueDate         string           `json:"due_date"`
}

func (r CreateSaleRequest) hasCreditFields() bool {
	return r.BuyerNationalID != "" || r.BuyerLocation != "" || r.AmountDue != nil || r.DueDate != ""
}

// UpdateSaleRequest represents a partial edit of a sale
type UpdateSaleRequest struct {
	BuyerName    *string          `json:"buyer_name" binding:"omitempty,max=100"`
	BuyerContact *string          `json:"buyer_contact" binding:"omitempty,max=50"`
	Tonnage      *decimal.Decimal `json:"tonnage" binding:"omitempty,decimal_gt0"`
	AmountPaid   *decimal.Decimal `json:"amount_paid" binding:"omitempty,decimal_gte0"`
}

// ToPatch converts the request to the domain patch
func (r UpdateSaleRequest) ToPatch() trade.SalePatch {
	return trade.SalePatch{
		BuyerName:    r.BuyerName,
		BuyerContact: r.BuyerContact,
		Tonnage:      r.Tonnage,
		AmountPaid:   r.AmountPaid,
	}
}

// parseDay accepts a calendar day or a full RFC 3339 timestamp
func parseDay(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, shared.ErrInvalidInput.WithMessage("Due date must be a date in YYYY-MM-DD format")
	}
	return t, nil
}
