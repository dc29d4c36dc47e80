package rates

import (
	"context"
	"sync"
	"time"

	"github.com/amakodev/ADM-travels/api"
)

type memoryEntry struct {
	rate      api.ExchangeRate
	expiresAt time.Time
}

// MemoryCache is the in-process Cache used when Redis is not configured
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

var _ Cache = (*MemoryCache)(nil)

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry)}
}

func (c *MemoryCache) GetRate(ctx context.Context, pair string) (*api.ExchangeRate, error) {
	c.mu.RLock()
	entry, ok := c.entries[pair]
	c.mu.RUnlock()

	if !ok || !time.Now().Before(entry.expiresAt) {
		return nil, nil
	}
	rate := entry.rate
	return &rate, nil
}

func (c *MemoryCache) SetRate(ctx context.Context, pair string, rate *api.ExchangeRate, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[pair] = memoryEntry{rate: *rate, expiresAt: time.Now().Add(ttl)}
	return nil
}
