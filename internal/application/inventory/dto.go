package inventory

import (
	"time"

	"github.com/agrotrade/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockResponse represents a produce row in API responses
type StockResponse struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Type         string          `json:"type"`
	BranchID     uuid.UUID       `json:"branch_id"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	IsLowStock   bool            `json:"is_low_stock"`
	Version      int             `json:"version"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToStockResponse converts a domain Produce to StockResponse
func ToStockResponse(p *inventory.Produce) StockResponse {
	return StockResponse{
		ID:           p.ID,
		Name:         p.Name,
		Type:         p.Type,
		BranchID:     p.BranchID,
		CurrentStock: p.CurrentStock,
		IsLowStock:   p.IsLow(inventory.DefaultLowStockThreshold),
		Version:      p.Version,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// ToStockResponses converts a slice of produce rows
func ToStockResponses(items []inventory.Produce) []StockResponse {
	out := make([]StockResponse, len(items))
	for i := range items {
		out[i] = ToStockResponse(&items[i])
	}
	return out
}

// CreateStockRequest represents a request to register produce in a branch
type CreateStockRequest struct {
	Name         string           `json:"name" binding:"required,max=100"`
	Type         string           `json:"type" binding:"required,max=50"`
	BranchID     uuid.UUID        `json:"branch_id" binding:"required"`
	CurrentStock *decimal.Decimal `json:"current_stock" binding:"omitempty,decimal_gte0"`
}

// UpdateStockRequest represents an administrative edit of a produce row
type UpdateStockRequest struct {
	Name         *string          `json:"name" binding:"omitempty,max=100"`
	Type         *string          `json:"type" binding:"omitempty,max=50"`
	CurrentStock *decimal.Decimal `json:"current_stock" binding:"omitempty,decimal_gte0"`
}

// StockListFilter represents filter options for the stock list
type StockListFilter struct {
	BranchID *uuid.UUID `form:"-"`
	Type     string     `form:"type"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=500"`
}

// LowStockFilter represents the query of the low stock alert list
type LowStockFilter struct {
	BranchID  *uuid.UUID       `form:"-"`
	Threshold *decimal.Decimal `form:"threshold"`
}
