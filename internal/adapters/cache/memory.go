package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"conferencecentral/internal/domain"
)

// memoryCache is a process-local DerivedCache. Values are stored as JSON so
// Get/Put behave the same as the Redis implementation.
type memoryCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemoryCache returns an in-memory DerivedCache. Useful for development
// and tests; entries do not expire and do not survive restarts.
func NewMemoryCache() domain.DerivedCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.RLock()
	raw, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode cached value for %q: %w", key, err)
	}
	return true, nil
}

func (c *memoryCache) Put(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode value for %q: %w", key, err)
	}
	c.mu.Lock()
	c.entries[key] = raw
	c.mu.Unlock()
	return nil
}

// NewDerivedCache creates a DerivedCache from config. Provider "redis" uses
// Redis at addr; anything else falls back to the in-memory cache.
func NewDerivedCache(provider, addr string, ttl time.Duration, logger *slog.Logger) (domain.DerivedCache, error) {
	switch provider {
	case "redis":
		return NewRedisCache(addr, ttl)
	case "memory":
		return NewMemoryCache(), nil
	default:
		logger.Warn("unknown cache provider, using memory", "provider", provider)
		return NewMemoryCache(), nil
	}
}
