package middleware

import (
	"net/http"

	"github.com/agrotrade/backend/internal/domain/identity"
	"github.com/agrotrade/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// RequireOperation lets the request through only when the actor's role
// may perform op. Must run after JWTAuth.
func RequireOperation(op identity.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Authentication required", GetRequestID(c)))
			return
		}
		if !identity.Can(actor.Role, op) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeAccessDenied, "Role "+string(actor.Role)+" may not perform "+string(op), GetRequestID(c)))
			return
		}
		c.Next()
	}
}
