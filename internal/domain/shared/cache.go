package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UnreadCounter caches per-user unread notification counts so the badge
// endpoint does not hit the database on every poll.
type UnreadCounter interface {
	// Get returns the cached count for a user. The second return value
	// reports whether a cached value was present.
	Get(ctx context.Context, userID uuid.UUID) (int64, bool, error)

	// Set stores the count for a user with a TTL
	Set(ctx context.Context, userID uuid.UUID, count int64, ttl time.Duration) error

	// Invalidate drops the cached count for a user
	Invalidate(ctx context.Context, userID uuid.UUID) error

	// Acquire claims a key with a TTL and reports whether this call was the
	// one that claimed it. Background jobs use it as a once-per-window guard.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Close releases the underlying resources
	Close() error
}
