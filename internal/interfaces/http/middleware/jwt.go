package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/agrotrade/backend/internal/domain/identity"
	"github.com/agrotrade/backend/internal/infrastructure/auth"
	"github.com/agrotrade/backend/internal/infrastructure/logger"
	"github.com/agrotrade/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Gin context keys set by the JWT middleware
const (
	JWTClaimsKey = "jwt_claims"
	ActorKey     = "actor"
)

const bearerPrefix = "Bearer "

// JWTConfig holds the JWT middleware dependencies
type JWTConfig struct {
	JWTService *auth.JWTService
	// TokenBlacklist is consulted on every request when set
	TokenBlacklist auth.TokenBlacklist
	Logger         *zap.Logger
}

// JWTAuth rejects requests without a valid, unrevoked bearer token and
// stores the claims and the derived actor on the context.
func JWTAuth(cfg JWTConfig) gin.HandlerFunc {
	return jwtAuth(cfg, false)
}

// OptionalJWTAuth authenticates when a token is present and lets
// anonymous requests through. A present but bad token is still rejected.
func OptionalJWTAuth(cfg JWTConfig) gin.HandlerFunc {
	return jwtAuth(cfg, true)
}

func jwtAuth(cfg JWTConfig, optional bool) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" && optional {
			c.Next()
			return
		}
		token, ok := strings.CutPrefix(header, bearerPrefix)
		if !ok || token == "" {
			abortUnauthorized(c, log, auth.ErrInvalidToken)
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(token)
		if err != nil {
			abortUnauthorized(c, log, err)
			return
		}

		if cfg.TokenBlacklist != nil && claims.ID != "" {
			revoked, err := cfg.TokenBlacklist.IsRevoked(c.Request.Context(), claims.ID)
			switch {
			case err != nil:
				// fail open on a store outage
				log.Error("Token blacklist lookup failed", zap.String("jti", claims.ID), zap.Error(err))
			case revoked:
				abortUnauthorized(c, log, auth.ErrTokenRevoked)
				return
			}
		}

		actor, err := claims.Actor()
		if err != nil {
			abortUnauthorized(c, log, err)
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(ActorKey, actor)
		c.Set(logger.GinUserIDKey, claims.UserID)

		ctx := c.Request.Context()
		ctx, reqLog := logger.WithUserID(ctx, logger.FromContext(ctx), claims.UserID)
		if claims.BranchID != "" {
			ctx, _ = logger.WithBranchID(ctx, reqLog, claims.BranchID)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, log *zap.Logger, err error) {
	log.Warn("JWT authentication failed", zap.Error(err), zap.String("path", c.Request.URL.Path))

	code, message := dto.ErrCodeTokenInvalid, "Invalid token"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, message = dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrTokenRevoked):
		code, message = dto.ErrCodeTokenRevoked, "Token has been revoked"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		message = "Token is not yet valid"
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, message, GetRequestID(c)))
}

// GetJWTClaims returns the claims of the authenticated request, or nil
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(JWTClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetActor returns the authenticated actor
func GetActor(c *gin.Context) (identity.Actor, bool) {
	if v, ok := c.Get(ActorKey); ok {
		if actor, ok := v.(identity.Actor); ok {
			return actor, true
		}
	}
	return identity.Actor{}, false
}
