package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pmo/backend/internal/domain/shared"
)

// countEntry represents a cached count with expiration
type countEntry struct {
	count     int64
	expiresAt time.Time
}

// InMemoryUnreadCounter implements UnreadCounter using in-memory maps
// This is suitable for single-instance deployments and testing
type InMemoryUnreadCounter struct {
	mu        sync.RWMutex
	counts    map[uuid.UUID]countEntry
	guards    map[string]time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryUnreadCounter creates a new in-memory unread counter
// It starts a background goroutine to clean up expired entries
func NewInMemoryUnreadCounter() *InMemoryUnreadCounter {
	c := &InMemoryUnreadCounter{
		counts:   make(map[uuid.UUID]countEntry),
		guards:   make(map[string]time.Time),
		stopChan: make(chan struct{}),
	}

	// Start cleanup goroutine
	c.wg.Add(1)
	go c.cleanupLoop()

	return c
}

// expired reports whether a deadline has passed. A zero deadline never
// expires, matching Redis semantics for a zero TTL.
func expired(deadline, now time.Time) bool {
	return !deadline.IsZero() && now.After(deadline)
}

// Get returns the cached unread count for a user
func (c *InMemoryUnreadCounter) Get(ctx context.Context, userID uuid.UUID) (int64, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, exists := c.counts[userID]
	if !exists || expired(e.expiresAt, time.Now()) {
		return 0, false, nil
	}
	return e.count, true, nil
}

// Set stores the unread count for a user with a TTL
func (c *InMemoryUnreadCounter) Set(ctx context.Context, userID uuid.UUID, count int64, ttl time.Duration) error {
	var deadline time.Time
	if ttl > 0 {
		deadline = time.Now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[userID] = countEntry{count: count, expiresAt: deadline}
	return nil
}

// Invalidate drops the cached count for a user
func (c *InMemoryUnreadCounter) Invalidate(ctx context.Context, userID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.counts, userID)
	return nil
}

// Acquire atomically claims key for the duration of ttl
// Returns true only for the first caller within the window
func (c *InMemoryUnreadCounter) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	var deadline time.Time
	if ttl > 0 {
		deadline = time.Now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if d, exists := c.guards[key]; exists && !expired(d, time.Now()) {
		return false, nil // Already claimed
	}
	c.guards[key] = deadline
	return true, nil
}

// Close stops the cleanup goroutine and releases resources
// Safe to call multiple times
func (c *InMemoryUnreadCounter) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically removes expired entries
func (c *InMemoryUnreadCounter) cleanupLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

// cleanup removes expired entries from both maps
func (c *InMemoryUnreadCounter) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for userID, e := range c.counts {
		if expired(e.expiresAt, now) {
			delete(c.counts, userID)
		}
	}
	for key, d := range c.guards {
		if expired(d, now) {
			delete(c.guards, key)
		}
	}
}

// Size returns the number of cached counts and guards (for testing/monitoring)
func (c *InMemoryUnreadCounter) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.counts) + len(c.guards)
}

// Ensure InMemoryUnreadCounter implements UnreadCounter
var _ shared.UnreadCounter = (*InMemoryUnreadCounter)(nil)
