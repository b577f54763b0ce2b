package identity

import (
	"regexp"
	"strings"

	"github.com/agrotrade/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 10

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User is a person who can sign in. Managers and sales agents belong to
// exactly one branch; a CEO may have none.
type User struct {
	shared.BaseAggregateRoot
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	BranchID     *uuid.UUID
}

// NewUser creates a new user with a hashed password
func NewUser(name, email, password string, role Role, branchID *uuid.UUID) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Name is required")
	}
	if len(name) > 100 {
		return nil, shared.ErrInvalidInput.WithMessage("Name cannot exceed 100 characters")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.ErrInvalidInput.WithMessage("Invalid role")
	}
	if !role.SeesAllBranches() && (branchID == nil || *branchID == uuid.Nil) {
		return nil, shared.ErrInvalidInput.WithMessage("Branch is required for this role")
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	u := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Email:             email,
		PasswordHash:      hash,
		Role:              role,
	}
	if branchID != nil && *branchID != uuid.Nil {
		b := *branchID
		u.BranchID = &b
	}
	return u, nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// Actor returns the request identity for this user
func (u *User) Actor() Actor {
	return NewActor(u.ID, u.Role, u.BranchID)
}

func validatePassword(password string) error {
	if len(password) < 6 {
		return shared.ErrInvalidInput.WithMessage("Password must be at least 6 characters")
	}
	if len(password) > 72 {
		return shared.ErrInvalidInput.WithMessage("Password cannot exceed 72 characters")
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > 200 {
		return shared.ErrInvalidInput.WithMessage("Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.ErrInvalidInput.WithMessage("Valid email is required")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
