package cache

import (
	"fmt"

	"github.com/pmo/backend/internal/domain/shared"
	"github.com/pmo/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Factory creates unread counters based on configuration
type Factory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory counter
// when Redis is unavailable
// Default is true (allow fallback)
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFactory creates a new factory
func NewFactory(cfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true, // Default to allowing fallback
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisCounter creates a Redis-backed unread counter
func (f *Factory) CreateRedisCounter() (shared.UnreadCounter, error) {
	redisCfg := RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	}

	counter, err := NewRedisUnreadCounter(redisCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis unread counter: %w", err)
	}

	return counter, nil
}

// CreateInMemoryCounter creates an in-memory unread counter
// This is suitable for single-instance deployments and testing
// WARNING: in-memory counters do not share state across process instances,
// so unread counts and scan guards stay per-instance in distributed deployments
func (f *Factory) CreateInMemoryCounter() shared.UnreadCounter {
	return NewInMemoryUnreadCounter()
}

// CreateCounter creates an unread counter based on the Redis configuration
// When Redis is disabled it returns the in-memory counter directly; otherwise
// it tries Redis first and falls back to in-memory if Redis is unreachable
// and fallback is allowed
func (f *Factory) CreateCounter() (shared.UnreadCounter, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("redis disabled, using in-memory unread-count cache")
		return f.CreateInMemoryCounter(), nil
	}

	// Try Redis first
	counter, err := f.CreateRedisCounter()
	if err == nil {
		f.logger.Info("using Redis unread-count cache")
		return counter, nil
	}

	// Check if fallback is allowed
	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for caching but unavailable: %w", err)
	}

	// Fall back to in-memory with warning
	f.logger.Warn("Redis unavailable, falling back to in-memory unread-count cache. "+
		"Counts and scan guards will not be shared across instances.",
		zap.Error(err),
	)
	return f.CreateInMemoryCounter(), nil
}
