package checkout

import (
	"context"
	"time"

	"github.com/amakodev/ADM-travels/api"
)

type Repository interface {
	CreateCheckout(ctx context.Context, record *api.CheckoutRecord, idempotencyKey string) error

	GetCheckoutByID(ctx context.Context, checkoutID string) (*api.CheckoutRecord, error)

	GetOldCheckouts(ctx context.Context, olderThan time.Duration) ([]*api.CheckoutRecord, error)

	DeleteCheckouts(ctx context.Context, checkoutIDs []string) error
}

type Cache interface {
	GetCheckout(ctx context.Context, checkoutID string) (*api.CheckoutRecord, error)
	SetCheckout(ctx context.Context, record *api.CheckoutRecord, ttl time.Duration) error
	Invalidate(ctx context.Context, checkoutID string) error
}
