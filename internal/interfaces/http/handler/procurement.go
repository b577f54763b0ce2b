package handler

import (
	apptrade "github.com/agrotrade/backend/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// ProcurementHandler serves procurement records
type ProcurementHandler struct {
	BaseHandler
	procurementService *apptrade.ProcurementService
}

// NewProcurementHandler creates a new ProcurementHandler
func NewProcurementHandler(procurementService *apptrade.ProcurementService) *ProcurementHandler {
	return &ProcurementHandler{procurementService: procurementService}
}

// List returns a page of procurements, newest first
// GET /api/procurement
func (h *ProcurementHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var filter apptrade.ListFilter
	if !h.bindQuery(c, &filter, &filter.BranchID) {
		return
	}

	page, err := h.procurementService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPaginated(c, page)
}

// GetByID returns one procurement
// GET /api/procurement/:id
func (h *ProcurementHandler) GetByID(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	p, err := h.procurementService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// Create records a purchase and adds its tonnage to stock
// POST /api/procurement
func (h *ProcurementHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req apptrade.CreateProcurementRequest
	if !h.bindJSON(c, &req) {
		return
	}

	p, err := h.procurementService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, p)
}

// Update edits a procurement and moves stock by the tonnage delta
// PUT /api/procurement/:id
func (h *ProcurementHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req apptrade.UpdateProcurementRequest
	if !h.bindJSON(c, &req) {
		return
	}

	p, err := h.procurementService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// Delete removes a procurement and takes its tonnage back out of stock
// DELETE /api/procurement/:id
func (h *ProcurementHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.procurementService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Procurement deleted"})
}
