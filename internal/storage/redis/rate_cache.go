package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/amakodev/ADM-travels/api"
)

// RateCache shares exchange rates between server instances
type RateCache struct {
	client *Client
}

func NewRateCache(client *Client) *RateCache {
	return &RateCache{client: client}
}

func rateCacheKey(pair string) string {
	return fmt.Sprintf("%srate:%s", keyPrefix, pair)
}

func (c *RateCache) GetRate(ctx context.Context, pair string) (*api.ExchangeRate, error) {
	if !c.client.ready() {
		return nil, errNotInitialized
	}

	data, err := c.client.rdb.Get(ctx, rateCacheKey(pair)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis GET failed: %w", err)
	}
	var rate api.ExchangeRate
	if err := json.Unmarshal(data, &rate); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rate: %w", err)
	}
	return &rate, nil
}

func (c *RateCache) SetRate(ctx context.Context, pair string, rate *api.ExchangeRate, ttl time.Duration) error {
	if !c.client.ready() {
		return errNotInitialized
	}
	if rate == nil || rate.Rate <= 0 {
		return fmt.Errorf("invalid rate")
	}
	payload, err := json.Marshal(rate)
	if err != nil {
		return fmt.Errorf("failed to marshal rate: %w", err)
	}
	return c.client.rdb.Set(ctx, rateCacheKey(pair), payload, ttl).Err()
}
