package handler

import (
	apptrade "github.com/agrotrade/backend/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// SaleHandler serves sale records
type SaleHandler struct {
	BaseHandler
	salesService *apptrade.SalesService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(salesService *apptrade.SalesService) *SaleHandler {
	return &SaleHandler{salesService: salesService}
}

// List returns a page of sales, newest first
// GET /api/sales
func (h *SaleHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var filter apptrade.SaleListFilter
	if !h.bindQuery(c, &filter, &filter.BranchID) {
		return
	}

	page, err := h.salesService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPaginated(c, page)
}

// GetByID returns one sale
// GET /api/sales/:id
func (h *SaleHandler) GetByID(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	sale, err := h.salesService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// Create sells from stock and opens a credit record for credit sales
// POST /api/sales
func (h *SaleHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req apptrade.CreateSaleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	sale, err := h.salesService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sale)
}

// Update edits a sale and moves stock by the tonnage delta
// PUT /api/sales/:id
func (h *SaleHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req apptrade.UpdateSaleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	sale, err := h.salesService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// Delete removes a sale, restores its tonnage and drops its credit record
// DELETE /api/sales/:id
func (h *SaleHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.salesService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Sale deleted"})
}
