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

var errNotInitialized = errors.New("redis client is not initialized")

// CheckoutCache keeps recently created or looked up checkouts
type CheckoutCache struct {
	client *Client
}

func NewCheckoutCache(client *Client) *CheckoutCache {
	return &CheckoutCache{client: client}
}

func checkoutCacheKey(checkoutID string) string {
	return fmt.Sprintf("%scheckout:%s", keyPrefix, checkoutID)
}

// GetCheckout returns the cached record or nil if not found
func (c *CheckoutCache) GetCheckout(ctx context.Context, checkoutID string) (*api.CheckoutRecord, error) {
	if !c.client.ready() {
		return nil, errNotInitialized
	}

	data, err := c.client.rdb.Get(ctx, checkoutCacheKey(checkoutID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis GET failed: %w", err)
	}
	var rec api.CheckoutRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal checkout: %w", err)
	}
	return &rec, nil
}

func (c *CheckoutCache) SetCheckout(ctx context.Context, rec *api.CheckoutRecord, ttl time.Duration) error {
	if !c.client.ready() {
		return errNotInitialized
	}
	if rec == nil || rec.Id == "" {
		return fmt.Errorf("invalid checkout record")
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal checkout: %w", err)
	}
	return c.client.rdb.Set(ctx, checkoutCacheKey(rec.Id), payload, ttl).Err()
}

func (c *CheckoutCache) Invalidate(ctx context.Context, checkoutID string) error {
	if !c.client.ready() {
		return errNotInitialized
	}
	return c.client.rdb.Del(ctx, checkoutCacheKey(checkoutID)).Err()
}
