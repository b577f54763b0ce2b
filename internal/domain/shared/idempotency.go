package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers client-supplied request keys so that a
// resubmitted mutation is refused instead of applied twice
type IdempotencyStore interface {
	// MarkProcessed records key with a TTL.
	// Returns true if the key was newly recorded, false if it was already present
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Forget removes key so the request may be retried, used when the
	// guarded operation failed before committing anything
	Forget(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}
