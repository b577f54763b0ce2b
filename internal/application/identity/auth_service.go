package identity

import (
	"context"
	"errors"

	"github.com/agrotrade/backend/internal/domain/branch"
	"github.com/agrotrade/backend/internal/domain/identity"
	"github.com/agrotrade/backend/internal/domain/shared"
	"github.com/agrotrade/backend/internal/infrastructure/auth"
	"github.com/agrotrade/backend/internal/infrastructure/logger"
	"github.com/agrotrade/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ErrInvalidCredentials hides whether the email or the password was wrong
var ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")

// AuthService handles registration and sessions
type AuthService struct {
	userRepo   identity.UserRepository
	branchRepo branch.BranchRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	branchRepo branch.BranchRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		branchRepo: branchRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// Register creates a user. Until the first account exists anyone may
// register a CEO; afterwards only a signed-in CEO may create accounts.
// actor is nil for anonymous requests.
func (s *AuthService) Register(ctx context.Context, actor *identity.Actor, req RegisterRequest) (_ *UserResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "register")
	defer func() { telemetry.End(span, err) }()

	role, err := identity.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}

	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		if role != identity.RoleCEO {
			return nil, shared.ErrInvalidInput.WithMessage("The first account must be a CEO")
		}
	} else if actor == nil {
		return nil, shared.ErrUnauthorized.WithMessage("Authentication required")
	} else if !identity.Can(actor.Role, identity.OpUserCreate) {
		return nil, shared.ErrAccessDenied.WithMessage("Access denied. Insufficient permissions")
	}

	if req.BranchID != nil {
		if _, err := s.branchRepo.FindByID(ctx, *req.BranchID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.ErrInvalidInput.WithMessage("Branch does not exist")
			}
			return nil, err
		}
	}

	user, err := identity.NewUser(req.Name, req.Email, req.Password, role, req.BranchID)
	if err != nil {
		return nil, err
	}
	exists, err := s.userRepo.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.ErrAlreadyExists.WithMessage("User with this email already exists")
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.WithLogger(ctx, s.logger).Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	resp := ToUserResponse(user)
	return &resp, nil
}

// Login verifies credentials and issues an access token
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (_ *LoginResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "login")
	defer func() { telemetry.End(span, err) }()

	log := logger.WithLogger(ctx, s.logger)

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			log.Warn("Login attempt for unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.VerifyPassword(req.Password) {
		log.Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		log.Error("Failed to sign access token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication token")
	}

	log.Info("User logged in", zap.String("user_id", user.ID.String()))

	return &LoginResponse{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresAt:   token.ExpiresAt,
		User:        ToUserResponse(user),
	}, nil
}

// Me returns the signed-in user's profile
func (s *AuthService) Me(ctx context.Context, actor identity.Actor) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// Logout revokes the presented token for the rest of its lifetime
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if err := s.blacklist.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		return shared.PersistenceFailure("revoke token", err)
	}
	logger.WithLogger(ctx, s.logger).Info("User logged out", zap.String("user_id", claims.UserID))
	return nil
}
