package cache

import (
	"context"
	"time"
)

// Cache stores model replies keyed by a digest of the full prompt.
type Cache interface {
	// GetReply returns the cached reply and whether it was found.
	GetReply(ctx context.Context, key string) (string, bool, error)

	// SetReply stores a reply with TTL. A zero TTL keeps it forever.
	SetReply(ctx context.Context, key, reply string, ttl time.Duration) error

	// Close closes the cache connection
	Close() error
}
