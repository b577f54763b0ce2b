package handler

import (
	appid "github.com/agrotrade/backend/internal/application/identity"
	"github.com/gin-gonic/gin"
)

// BranchHandler serves branch CRUD. Writes are gated to the CEO by the router.
type BranchHandler struct {
	BaseHandler
	branchService *appid.BranchService
}

// NewBranchHandler creates a new BranchHandler
func NewBranchHandler(branchService *appid.BranchService) *BranchHandler {
	return &BranchHandler{branchService: branchService}
}

// List returns the branches visible to the caller
// GET /api/branches
func (h *BranchHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	branches, err := h.branchService.List(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, branches)
}

// GetByID returns one branch
// GET /api/branches/:id
func (h *BranchHandler) GetByID(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	b, err := h.branchService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, b)
}

// Create opens a branch
// POST /api/branches
func (h *BranchHandler) Create(c *gin.Context) {
	var req appid.BranchRequest
	if !h.bindJSON(c, &req) {
		return
	}

	b, err := h.branchService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, b)
}

// Update renames or relocates a branch
// PUT /api/branches/:id
func (h *BranchHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req appid.BranchRequest
	if !h.bindJSON(c, &req) {
		return
	}

	b, err := h.branchService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, b)
}

// Delete removes a branch that holds no produce
// DELETE /api/branches/:id
func (h *BranchHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.branchService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Branch deleted"})
}
