package identity

import (
	"context"

	appinv "github.com/agrotrade/backend/internal/application/inventory"
	"github.com/agrotrade/backend/internal/domain/branch"
	"github.com/agrotrade/backend/internal/domain/identity"
	"github.com/agrotrade/backend/internal/domain/shared"
	"github.com/agrotrade/backend/internal/infrastructure/logger"
	"github.com/agrotrade/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BranchService manages trading locations
type BranchService struct {
	branchRepo branch.BranchRepository
	txScope    appinv.TransactionScope
	logger     *zap.Logger
}

// NewBranchService creates a new BranchService
func NewBranchService(branchRepo branch.BranchRepository, txScope appinv.TransactionScope, logger *zap.Logger) *BranchService {
	return &BranchService{branchRepo: branchRepo, txScope: txScope, logger: logger}
}

// List returns the branches visible to actor, ordered by name
func (s *BranchService) List(ctx context.Context, actor identity.Actor) ([]BranchResponse, error) {
	scope, err := identity.ResolveBranch(actor, nil)
	if err != nil {
		return nil, err
	}
	branches, err := s.branchRepo.FindAll(ctx, scope)
	if err != nil {
		return nil, err
	}
	return ToBranchResponses(branches), nil
}

// GetByID returns one branch if actor may see it
func (s *BranchService) GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*BranchResponse, error) {
	if err := identity.CheckOwnership(actor, id); err != nil {
		return nil, err
	}
	b, err := s.branchRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToBranchResponse(b)
	return &resp, nil
}

// Create opens a new branch
func (s *BranchService) Create(ctx context.Context, req BranchRequest) (_ *BranchResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "branch", "create")
	defer func() { telemetry.End(span, err) }()

	b, err := branch.NewBranch(req.Name, req.Location)
	if err != nil {
		return nil, err
	}
	err = s.txScope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		if err := ensureUniqueBranchName(ctx, repos.BranchRepo(), b.Name, uuid.Nil); err != nil {
			return err
		}
		return repos.BranchRepo().Save(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	logger.WithLogger(ctx, s.logger).Info("Branch created",
		zap.String("branch_id", b.ID.String()),
		zap.String("name", b.Name))

	resp := ToBranchResponse(b)
	return &resp, nil
}

// Update renames or relocates a branch
func (s *BranchService) Update(ctx context.Context, id uuid.UUID, req BranchRequest) (_ *BranchResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "branch", "update",
		telemetry.WithAttribute(telemetry.SpanAttrBranchID, id))
	defer func() { telemetry.End(span, err) }()

	var b *branch.Branch
	err = s.txScope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		var err error
		b, err = repos.BranchRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := b.Update(req.Name, req.Location); err != nil {
			return err
		}
		if err := ensureUniqueBranchName(ctx, repos.BranchRepo(), b.Name, b.ID); err != nil {
			return err
		}
		return repos.BranchRepo().Save(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	resp := ToBranchResponse(b)
	return &resp, nil
}

// Delete closes a branch that no longer holds produce
func (s *BranchService) Delete(ctx context.Context, id uuid.UUID) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "branch", "delete",
		telemetry.WithAttribute(telemetry.SpanAttrBranchID, id))
	defer func() { telemetry.End(span, err) }()

	err = s.txScope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		if _, err := repos.BranchRepo().FindByID(ctx, id); err != nil {
			return err
		}
		inUse, err := repos.BranchRepo().HasProduce(ctx, id)
		if err != nil {
			return err
		}
		if inUse {
			return branch.ErrBranchInUse
		}
		return repos.BranchRepo().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	logger.WithLogger(ctx, s.logger).Info("Branch deleted", zap.String("branch_id", id.String()))
	return nil
}

func ensureUniqueBranchName(ctx context.Context, repo branch.BranchRepository, name string, excludeID uuid.UUID) error {
	exists, err := repo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.ErrAlreadyExists.WithMessage("Branch with this name already exists")
	}
	return nil
}
