package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/amakodev/ADM-travels/api"
)

// CheckoutRepository implements checkout.Repository using PostgreSQL
type CheckoutRepository struct {
	db *DB
}

func NewCheckoutRepository(db *DB) *CheckoutRepository {
	return &CheckoutRepository{db: db}
}

const checkoutColumns = `
	id, amount, currency, status, redirect_url,
	tour_id, tour_name, guests,
	customer_name, customer_email, customer_phone,
	created_at`

// CreateCheckout inserts a checkout. A second insert for the same provider id is ignored.
func (r *CheckoutRepository) CreateCheckout(ctx context.Context, rec *api.CheckoutRecord, idempotencyKey string) error {
	query := `
		INSERT INTO checkouts (
			id, amount, currency, status, redirect_url,
			tour_id, tour_name, guests,
			customer_name, customer_email, customer_phone,
			idempotency_key, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO NOTHING
	`

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.db.Pool.Exec(ctx, query,
		rec.Id,
		rec.Amount,
		rec.Currency,
		rec.Status,
		rec.RedirectUrl,
		rec.TourId,
		rec.TourName,
		rec.Guests,
		rec.CustomerName,
		rec.CustomerEmail,
		rec.CustomerPhone,
		idempotencyKey,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert checkout: %w", err)
	}
	return nil
}

// GetCheckoutByID returns nil, nil when the checkout is unknown
func (r *CheckoutRepository) GetCheckoutByID(ctx context.Context, checkoutID string) (*api.CheckoutRecord, error) {
	query := `SELECT ` + checkoutColumns + ` FROM checkouts WHERE id = $1`

	rec, err := scanCheckout(r.db.Pool.QueryRow(ctx, query, checkoutID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query checkout: %w", err)
	}
	return rec, nil
}

func (r *CheckoutRepository) GetOldCheckouts(ctx context.Context, olderThan time.Duration) ([]*api.CheckoutRecord, error) {
	query := `SELECT ` + checkoutColumns + ` FROM checkouts WHERE created_at < $1 ORDER BY created_at`

	rows, err := r.db.Pool.Query(ctx, query, time.Now().Add(-olderThan))
	if err != nil {
		return nil, fmt.Errorf("failed to query old checkouts: %w", err)
	}
	defer rows.Close()

	var out []*api.CheckoutRecord
	for rows.Next() {
		rec, err := scanCheckout(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan checkout: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate checkouts: %w", err)
	}
	return out, nil
}

func (r *CheckoutRepository) DeleteCheckouts(ctx context.Context, checkoutIDs []string) error {
	if len(checkoutIDs) == 0 {
		return nil
	}
	if _, err := r.db.Pool.Exec(ctx, `DELETE FROM checkouts WHERE id = ANY($1)`, checkoutIDs); err != nil {
		return fmt.Errorf("failed to delete checkouts: %w", err)
	}
	return nil
}

func scanCheckout(row pgx.Row) (*api.CheckoutRecord, error) {
	var rec api.CheckoutRecord
	err := row.Scan(
		&rec.Id,
		&rec.Amount,
		&rec.Currency,
		&rec.Status,
		&rec.RedirectUrl,
		&rec.TourId,
		&rec.TourName,
		&rec.Guests,
		&rec.CustomerName,
		&rec.CustomerEmail,
		&rec.CustomerPhone,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
