package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nizy/tailor/internal/infrastructure/logger"
	"github.com/nizy/tailor/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader carries the client-generated submission key
const IdempotencyKeyHeader = "Idempotency-Key"

// DefaultIdempotencyTTL is how long a submission key stays claimed
const DefaultIdempotencyTTL = 24 * time.Hour

// SubmissionStore claims submission keys. Implemented by the in-memory and
// Redis stores in the cache package.
type SubmissionStore interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// Idempotency rejects a repeated form submission that carries the same
// Idempotency-Key header. Requests without the header pass through. A key is
// released again when the handler fails so the client can retry.
func Idempotency(store SubmissionStore, ttl time.Duration, log *zap.Logger) gin.HandlerFunc {
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		header := c.GetHeader(IdempotencyKeyHeader)
		if header == "" {
			c.Next()
			return
		}

		key := c.GetString(logger.GinUsernameKey) + ":" + c.Request.Method + ":" + c.FullPath() + ":" + header
		ctx := c.Request.Context()

		claimed, err := store.Claim(ctx, key, ttl)
		if err != nil {
			// fail open
			log.Warn("Idempotency store unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !claimed {
			c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeDuplicateRequest,
				"This request was already submitted",
				RequestIDOf(c),
			))
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			if err := store.Release(context.WithoutCancel(ctx), key); err != nil {
				log.Warn("Failed to release idempotency key", zap.Error(err))
			}
		}
	}
}
