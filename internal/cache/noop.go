package cache

import (
	"context"
	"time"
)

// NoOpCache is a cache implementation that does nothing.
// It is the default: every lookup misses, so each prompt reaches the model.
type NoOpCache struct{}

// NewNoOpCache creates a new no-op cache instance
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

// GetReply always misses
func (c *NoOpCache) GetReply(ctx context.Context, key string) (string, bool, error) {
	return "", false, nil
}

// SetReply does nothing and always succeeds
func (c *NoOpCache) SetReply(ctx context.Context, key, reply string, ttl time.Duration) error {
	return nil
}

// Close does nothing and always succeeds
func (c *NoOpCache) Close() error {
	return nil
}
