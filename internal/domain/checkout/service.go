package checkout

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/amakodev/ADM-travels/api"
	"github.com/amakodev/ADM-travels/internal/external"
)

const (
	metadataSource = "admtravels-website"
	recordCacheTTL = 30 * time.Minute
)

var (
	ErrMissingFields       = errors.New("missing amount or currency")
	ErrNotConfigured       = errors.New("yoco secret key not configured")
	ErrMissingRedirectURL  = errors.New("missing redirectUrl from yoco response")
	ErrProviderUnavailable = external.ErrProviderUnavailable
	ErrLedgerDisabled      = errors.New("checkout ledger disabled")
	ErrRecordNotFound      = errors.New("checkout not found")
)

var serviceLogger zerolog.Logger

func init() {
	serviceLogger = zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("component", "checkout_service").
		Logger()
}

// Gateway is the outbound payment provider
type Gateway interface {
	external.CheckoutClientInterface
	Configured() bool
}

type ServiceInterface interface {
	CreateCheckout(ctx context.Context, req *api.CheckoutRequest, idempotencyKey string) (*api.CheckoutResponse, error)
	GetCheckout(ctx context.Context, checkoutID string) (*api.CheckoutRecord, error)
}

type Service struct {
	gateway      Gateway
	siteURL      string
	repo         Repository
	cache        Cache
	singleFlight *singleflight.Group
}

func NewService(gateway Gateway, siteURL string) *Service {
	return NewServiceWithLedger(gateway, siteURL, nil, nil)
}

// NewServiceWithLedger records every created checkout in repo. cache may be nil.
func NewServiceWithLedger(gateway Gateway, siteURL string, repo Repository, cache Cache) *Service {
	return &Service{
		gateway:      gateway,
		siteURL:      siteURL,
		repo:         repo,
		cache:        cache,
		singleFlight: &singleflight.Group{},
	}
}

// CreateCheckout validates the booking and opens a hosted checkout with the provider
func (s *Service) CreateCheckout(ctx context.Context, req *api.CheckoutRequest, idempotencyKey string) (*api.CheckoutResponse, error) {
	if req == nil || req.Amount == nil || *req.Amount == 0 || req.Currency == nil || *req.Currency == "" {
		return nil, ErrMissingFields
	}
	if !s.gateway.Configured() {
		return nil, ErrNotConfigured
	}
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}

	booking := mergeBooking(req)
	outbound := &external.CreateCheckoutRequest{
		Amount:     *req.Amount,
		Currency:   *req.Currency,
		CancelURL:  s.siteURL + "/payment/cancelled",
		SuccessURL: s.siteURL + "/payment/success",
		FailureURL: s.siteURL + "/payment/failed",
		Metadata:   booking,
	}

	created, err := s.gateway.CreateCheckout(ctx, outbound, idempotencyKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout: %w", err)
	}
	if created == nil || created.RedirectURL == "" {
		return nil, ErrMissingRedirectURL
	}

	s.record(ctx, created, booking, idempotencyKey)

	return &api.CheckoutResponse{
		Id:          created.ID,
		RedirectUrl: created.RedirectURL,
		Amount:      created.Amount,
		Currency:    created.Currency,
		Status:      created.Status,
	}, nil
}

// record stores the checkout in the ledger. Failures are logged only.
func (s *Service) record(ctx context.Context, created *external.Checkout, booking external.CheckoutMetadata, idempotencyKey string) {
	if s.repo == nil {
		return
	}

	rec := &api.CheckoutRecord{
		Id:            created.ID,
		Amount:        created.Amount,
		Currency:      created.Currency,
		Status:        created.Status,
		RedirectUrl:   created.RedirectURL,
		TourId:        booking.TourID,
		TourName:      booking.TourName,
		CustomerName:  booking.CustomerName,
		CustomerEmail: booking.CustomerEmail,
		CustomerPhone: booking.CustomerPhone,
		CreatedAt:     time.Now().UTC(),
	}
	if booking.Guests != nil {
		rec.Guests = *booking.Guests
	}

	if err := s.repo.CreateCheckout(ctx, rec, idempotencyKey); err != nil {
		serviceLogger.Error().
			Err(err).
			Str("event", "checkout_record_failed").
			Str("checkout_id", rec.Id).
			Msg("Failed to record checkout")
		return
	}

	if s.cache != nil {
		_ = s.cache.SetCheckout(ctx, rec, recordCacheTTL)
	}
}

func (s *Service) GetCheckout(ctx context.Context, checkoutID string) (*api.CheckoutRecord, error) {
	if s.repo == nil {
		return nil, ErrLedgerDisabled
	}
	if checkoutID == "" {
		return nil, ErrRecordNotFound
	}

	if s.cache != nil {
		if cached, err := s.cache.GetCheckout(ctx, checkoutID); err == nil && cached != nil {
			return cached, nil
		}
	}

	result, err, _ := s.singleFlight.Do(checkoutID, func() (interface{}, error) {
		rec, err := s.repo.GetCheckoutByID(ctx, checkoutID)
		if err != nil {
			return nil, fmt.Errorf("failed to get checkout: %w", err)
		}
		if rec == nil {
			return nil, nil
		}

		if s.cache != nil {
			_ = s.cache.SetCheckout(ctx, rec, recordCacheTTL)
		}
		return rec, nil
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, ErrRecordNotFound
	}

	return result.(*api.CheckoutRecord), nil
}

// mergeBooking flattens the booking details. Top-level fields win over the
// nested metadata object that newer front-end builds send.
func mergeBooking(req *api.CheckoutRequest) external.CheckoutMetadata {
	var nested api.BookingMetadata
	if req.Metadata != nil {
		nested = *req.Metadata
	}

	md := external.CheckoutMetadata{
		TourID:        flexOr(req.TourId, nested.TourId),
		TourName:      strOr(req.TourName, nested.TourName),
		CustomerName:  strOr(req.CustomerName, nested.CustomerName),
		CustomerEmail: strOr(req.CustomerEmail, nested.CustomerEmail),
		CustomerPhone: strOr(req.CustomerPhone, nested.CustomerPhone),
		Source:        metadataSource,
	}
	if req.Guests != nil {
		md.Guests = req.Guests
	} else {
		md.Guests = nested.Guests
	}
	return md
}

func strOr(primary, fallback *string) string {
	if primary != nil && *primary != "" {
		return *primary
	}
	if fallback != nil {
		return *fallback
	}
	return ""
}

func flexOr(primary, fallback *api.FlexString) string {
	if primary != nil && *primary != "" {
		return primary.String()
	}
	if fallback != nil {
		return fallback.String()
	}
	return ""
}
