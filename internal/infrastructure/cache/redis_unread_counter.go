package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pmo/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

// RedisUnreadCounter implements UnreadCounter using Redis
// This is suitable for distributed deployments where multiple instances
// need to share unread counts and scan guards
type RedisUnreadCounter struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisUnreadCounter creates a new Redis-backed unread counter
func NewRedisUnreadCounter(cfg RedisConfig) (*RedisUnreadCounter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisUnreadCounter{
		client:    client,
		keyPrefix: "pmo:",
	}, nil
}

// NewRedisUnreadCounterWithClient creates a counter with an existing Redis client
// This is useful for testing or when sharing a client across components
func NewRedisUnreadCounterWithClient(client *redis.Client, keyPrefix string) *RedisUnreadCounter {
	if keyPrefix == "" {
		keyPrefix = "pmo:"
	}
	return &RedisUnreadCounter{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

func (c *RedisUnreadCounter) countKey(userID uuid.UUID) string {
	return c.keyPrefix + "notifications:unread:" + userID.String()
}

func (c *RedisUnreadCounter) guardKey(key string) string {
	return c.keyPrefix + "guard:" + key
}

// Get returns the cached unread count for a user
func (c *RedisUnreadCounter) Get(ctx context.Context, userID uuid.UUID) (int64, bool, error) {
	count, err := c.client.Get(ctx, c.countKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read unread count: %w", err)
	}
	return count, true, nil
}

// Set stores the unread count for a user with a TTL
func (c *RedisUnreadCounter) Set(ctx context.Context, userID uuid.UUID, count int64, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := c.client.Set(ctx, c.countKey(userID), count, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache unread count: %w", err)
	}
	return nil
}

// Invalidate drops the cached count for a user
func (c *RedisUnreadCounter) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if err := c.client.Del(ctx, c.countKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate unread count: %w", err)
	}
	return nil
}

// Acquire atomically claims key for the duration of ttl
// Uses SETNX (SET if Not eXists) so exactly one caller wins per window
func (c *RedisUnreadCounter) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := c.client.SetNX(ctx, c.guardKey(key), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire guard %q: %w", key, err)
	}
	return ok, nil
}

// Close closes the Redis client
func (c *RedisUnreadCounter) Close() error {
	return c.client.Close()
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (c *RedisUnreadCounter) GetClient() *redis.Client {
	return c.client
}

// Ensure RedisUnreadCounter implements UnreadCounter
var _ shared.UnreadCounter = (*RedisUnreadCounter)(nil)
