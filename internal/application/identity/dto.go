package identity

import (
	"time"

	"github.com/agrotrade/backend/internal/domain/branch"
	"github.com/agrotrade/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// RegisterRequest creates a user account
type RegisterRequest struct {
	Name     string     `json:"name" binding:"required,max=100"`
	Email    string     `json:"email" binding:"required,email,max=200"`
	Password string     `json:"password" binding:"required,min=6,max=72"`
	Role     string     `json:"role" binding:"required,oneof=CEO Manager 'Sales Agent'"`
	BranchID *uuid.UUID `json:"branch_id"`
}

// LoginRequest exchanges credentials for a token
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	BranchID  *uuid.UUID `json:"branch_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// ToUserResponse converts a user; the password hash never leaves the service
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		BranchID:  u.BranchID,
		CreatedAt: u.CreatedAt,
	}
}

// LoginResponse carries the issued token and who it belongs to
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        UserResponse `json:"user"`
}

// BranchRequest creates or renames a branch
type BranchRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Location string `json:"location" binding:"required,max=255"`
}

// BranchResponse is the public view of a branch
type BranchResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Location  string     `json:"location"`
	ManagerID *uuid.UUID `json:"manager_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ToBranchResponse converts a branch
func ToBranchResponse(b *branch.Branch) BranchResponse {
	return BranchResponse{
		ID:        b.ID,
		Name:      b.Name,
		Location:  b.Location,
		ManagerID: b.ManagerID,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// ToBranchResponses converts a slice of branches
func ToBranchResponses(branches []branch.Branch) []BranchResponse {
	out := make([]BranchResponse, len(branches))
	for i := range branches {
		out[i] = ToBranchResponse(&branches[i])
	}
	return out
}
