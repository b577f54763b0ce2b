package handler

import (
	appinv "github.com/agrotrade/backend/internal/application/inventory"
	"github.com/gin-gonic/gin"
)

// StockHandler serves the produce stock rows
type StockHandler struct {
	BaseHandler
	stockService *appinv.StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *appinv.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// List returns a page of stock rows, optionally filtered by branch and type
// GET /api/stock
func (h *StockHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var filter appinv.StockListFilter
	if !h.bindQuery(c, &filter, &filter.BranchID) {
		return
	}

	page, err := h.stockService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPaginated(c, page)
}

// LowStock returns rows at or below the alert threshold
// GET /api/stock/alerts
func (h *StockHandler) LowStock(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var filter appinv.LowStockFilter
	if !h.bindQuery(c, &filter, &filter.BranchID) {
		return
	}

	rows, err := h.stockService.LowStock(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// GetByID returns one stock row
// GET /api/stock/:id
func (h *StockHandler) GetByID(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	row, err := h.stockService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, row)
}

// Create registers produce in a branch
// POST /api/stock
func (h *StockHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req appinv.CreateStockRequest
	if !h.bindJSON(c, &req) {
		return
	}

	row, err := h.stockService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, row)
}

// Update edits a stock row, including a manual stock correction
// PUT /api/stock/:id
func (h *StockHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req appinv.UpdateStockRequest
	if !h.bindJSON(c, &req) {
		return
	}

	row, err := h.stockService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, row)
}

// Delete removes an empty stock row
// DELETE /api/stock/:id
func (h *StockHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.stockService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Stock deleted"})
}
