package handler

import (
	appid "github.com/agrotrade/backend/internal/application/identity"
	"github.com/agrotrade/backend/internal/domain/identity"
	"github.com/agrotrade/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AuthHandler serves account registration and sessions
type AuthHandler struct {
	BaseHandler
	authService *appid.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *appid.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates an account. The first account may be created
// anonymously and must be a CEO; after that a CEO token is required.
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req appid.RegisterRequest
	if !h.bindJSON(c, &req) {
		return
	}

	var caller *identity.Actor
	if actor, ok := middleware.GetActor(c); ok {
		caller = &actor
	}

	user, err := h.authService.Register(c.Request.Context(), caller, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// Login exchanges credentials for an access token
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req appid.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Me returns the caller's account
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	user, err := h.authService.Me(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Logout revokes the presented token
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.actor(c)
		return
	}

	if err := h.authService.Logout(c.Request.Context(), claims); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Logged out"})
}
