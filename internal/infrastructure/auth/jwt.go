// Package auth issues and verifies bearer tokens.
package auth

import (
	"errors"
	"time"

	"github.com/agrotrade/backend/internal/domain/identity"
	"github.com/agrotrade/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingUserID    = errors.New("missing user_id in claims")
	ErrTokenRevoked     = errors.New("token has been revoked")
)

// Claims is the token payload. It carries everything the access scope
// needs so requests do not hit the users table.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	BranchID string `json:"branch_id,omitempty"`
}

// IssuedToken is a signed access token and its expiry
type IssuedToken struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	TokenType   string    `json:"token_type"` // Bearer
}

// JWTService handles JWT token operations
type JWTService struct {
	secret     []byte
	expiration time.Duration
	issuer     string
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		secret:     []byte(cfg.Secret),
		expiration: cfg.AccessTokenExpiration,
		issuer:     cfg.Issuer,
	}
}

// GenerateAccessToken signs a token for user
func (s *JWTService) GenerateAccessToken(user *identity.User) (*IssuedToken, error) {
	now := time.Now()
	expiresAt := now.Add(s.expiration)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   user.ID.String(),
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: user.ID.String(),
		Email:  user.Email,
		Role:   string(user.Role),
	}
	if user.BranchID != nil {
		claims.BranchID = user.BranchID.String()
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	return &IssuedToken{AccessToken: token, ExpiresAt: expiresAt, TokenType: "Bearer"}, nil
}

// ValidateAccessToken verifies signature, lifetime and required claims
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.UserID == "" {
		return nil, ErrMissingUserID
	}
	if _, err := claims.Actor(); err != nil {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

// Actor converts the claims into the request identity
func (c *Claims) Actor() (identity.Actor, error) {
	userID, err := uuid.Parse(c.UserID)
	if err != nil {
		return identity.Actor{}, err
	}
	role, err := identity.ParseRole(c.Role)
	if err != nil {
		return identity.Actor{}, err
	}
	var branchID *uuid.UUID
	if c.BranchID != "" {
		b, err := uuid.Parse(c.BranchID)
		if err != nil {
			return identity.Actor{}, err
		}
		branchID = &b
	}
	return identity.NewActor(userID, role, branchID), nil
}

// RemainingTTL returns the time until the token expires, never negative
func (c *Claims) RemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	remaining := time.Until(c.ExpiresAt.Time)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// AccessTokenExpiration returns the configured token lifetime
func (s *JWTService) AccessTokenExpiration() time.Duration {
	return s.expiration
}
