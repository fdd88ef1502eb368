package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"doc-qa/internal/cache"
)

// CachedGenerator serves repeated prompts from a reply cache. Cache failures
// never fail a generation; they are logged and the call goes through.
type CachedGenerator struct {
	next  Generator
	cache cache.Cache
	ttl   time.Duration
	log   *slog.Logger
}

// NewCachedGenerator wraps next with c.
func NewCachedGenerator(next Generator, c cache.Cache, ttl time.Duration, log *slog.Logger) *CachedGenerator {
	return &CachedGenerator{next: next, cache: c, ttl: ttl, log: log}
}

func (g *CachedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	key := PromptKey(prompt)
	reply, ok, err := g.cache.GetReply(ctx, key)
	if err != nil {
		g.log.Warn("reply cache lookup failed", "err", err)
	} else if ok {
		g.log.Debug("reply cache hit", "key", key)
		return reply, nil
	}

	reply, err = g.next.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	if err := g.cache.SetReply(ctx, key, reply, g.ttl); err != nil {
		g.log.Warn("reply cache store failed", "err", err)
	}
	return reply, nil
}

// PromptKey derives the cache key for a full prompt.
func PromptKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}
