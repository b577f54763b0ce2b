package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/agrotrade/backend/internal/domain/shared"
	"github.com/agrotrade/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader names the client-chosen key of a mutation
const IdempotencyKeyHeader = "Idempotency-Key"

const (
	maxIdempotencyKeyLength = 255
	defaultIdempotencyTTL   = 24 * time.Hour
)

// Idempotency refuses a replayed Idempotency-Key with 409 before the
// handler runs. Keys are scoped to the caller and route. When the handler
// fails or panics the key is forgotten so the client may retry. Requests
// without the header pass through. Must run after JWTAuth.
func Idempotency(store shared.IdempotencyStore, ttl time.Duration, log *zap.Logger) gin.HandlerFunc {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				dto.NewErrorResponse(dto.ErrCodeBadRequest, "Idempotency-Key is too long", GetRequestID(c)))
			return
		}

		scoped := c.Request.Method + ":" + c.FullPath() + ":" + key
		if actor, ok := GetActor(c); ok {
			scoped = actor.UserID.String() + ":" + scoped
		}

		fresh, err := store.MarkProcessed(c.Request.Context(), scoped, ttl)
		if err != nil {
			log.Error("Idempotency store unavailable", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable,
				dto.NewErrorResponse("IDEMPOTENCY_UNAVAILABLE", "Cannot verify Idempotency-Key, retry later", GetRequestID(c)))
			return
		}
		if !fresh {
			c.AbortWithStatusJSON(http.StatusConflict,
				dto.NewErrorResponse(shared.ErrDuplicateRequest.Code, shared.ErrDuplicateRequest.Message, GetRequestID(c)))
			return
		}

		// also runs while a handler panic unwinds
		completed := false
		defer func() {
			if completed && c.Writer.Status() < http.StatusBadRequest {
				return
			}
			// the request context may already be cancelled
			if err := store.Forget(context.WithoutCancel(c.Request.Context()), scoped); err != nil {
				log.Warn("Failed to release Idempotency-Key", zap.String("key", key), zap.Error(err))
			}
		}()

		c.Next()
		completed = true
	}
}
