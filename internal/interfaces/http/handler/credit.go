package handler

import (
	appfin "github.com/agrotrade/backend/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// CreditHandler serves credit records and repayments
type CreditHandler struct {
	BaseHandler
	creditService *appfin.CreditService
}

// NewCreditHandler creates a new CreditHandler
func NewCreditHandler(creditService *appfin.CreditService) *CreditHandler {
	return &CreditHandler{creditService: creditService}
}

// List returns a page of credit records, earliest due first
// GET /api/credit
func (h *CreditHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var filter appfin.CreditListFilter
	if !h.bindQuery(c, &filter, &filter.BranchID) {
		return
	}

	page, err := h.creditService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPaginated(c, page)
}

// Stats returns outstanding and overdue totals
// GET /api/credit/stats
func (h *CreditHandler) Stats(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var filter appfin.CreditStatsFilter
	if !h.bindQuery(c, &filter, &filter.BranchID) {
		return
	}

	stats, err := h.creditService.Stats(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// GetByID returns one credit record
// GET /api/credit/:id
func (h *CreditHandler) GetByID(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	credit, err := h.creditService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, credit)
}

// RecordPayment applies a repayment
// PUT /api/credit/:id/payment
func (h *CreditHandler) RecordPayment(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req appfin.RecordPaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	credit, err := h.creditService.RecordPayment(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, credit)
}
