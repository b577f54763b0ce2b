package identity

import (
	"github.com/agrotrade/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Actor is the authenticated identity attached to a request
type Actor struct {
	UserID   uuid.UUID
	Role     Role
	BranchID *uuid.UUID
}

// NewActor builds an actor, copying the branch pointer
func NewActor(userID uuid.UUID, role Role, branchID *uuid.UUID) Actor {
	a := Actor{UserID: userID, Role: role}
	if branchID != nil && *branchID != uuid.Nil {
		b := *branchID
		a.BranchID = &b
	}
	return a
}

// ResolveBranch returns the effective branch filter for the actor.
//
// A CEO gets the requested branch back unchanged, and nil means unscoped.
// Everyone else is pinned to their home branch. Asking for another branch
// is refused rather than silently rewritten.
func ResolveBranch(actor Actor, requested *uuid.UUID) (*uuid.UUID, error) {
	if actor.Role.SeesAllBranches() {
		if requested == nil || *requested == uuid.Nil {
			return nil, nil
		}
		b := *requested
		return &b, nil
	}
	if actor.BranchID == nil {
		return nil, shared.ErrAccessDenied.WithMessage("User is not assigned to a branch")
	}
	if requested != nil && *requested != uuid.Nil && *requested != *actor.BranchID {
		return nil, shared.ErrAccessDenied.WithMessage("Access denied. You can only access your branch data")
	}
	home := *actor.BranchID
	return &home, nil
}

// ResolveWriteBranch is ResolveBranch for mutations, which always target
// exactly one branch
func ResolveWriteBranch(actor Actor, requested uuid.UUID) (uuid.UUID, error) {
	if requested == uuid.Nil {
		return uuid.Nil, shared.ErrInvalidInput.WithMessage("Valid branch ID is required")
	}
	b, err := ResolveBranch(actor, &requested)
	if err != nil {
		return uuid.Nil, err
	}
	return *b, nil
}

// CheckOwnership re-checks a row fetched by ID against the actor's scope
func CheckOwnership(actor Actor, rowBranchID uuid.UUID) error {
	if actor.Role.SeesAllBranches() {
		return nil
	}
	if actor.BranchID == nil || *actor.BranchID != rowBranchID {
		return shared.ErrAccessDenied.WithMessage("Access denied")
	}
	return nil
}
