package rates

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/amakodev/ADM-travels/api"
	"github.com/amakodev/ADM-travels/internal/external"
)

const (
	BaseCurrency  = "USD"
	QuoteCurrency = "ZAR"

	fetchTimeout = 10 * time.Second
)

var ratesLogger zerolog.Logger

func init() {
	ratesLogger = zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("component", "exchange_rates").
		Logger()
}

// Cache stores the last live rate per currency pair. Entries expire after ttl.
type Cache interface {
	GetRate(ctx context.Context, pair string) (*api.ExchangeRate, error)
	SetRate(ctx context.Context, pair string, rate *api.ExchangeRate, ttl time.Duration) error
}

type ServiceInterface interface {
	Rate(ctx context.Context) *api.ExchangeRate
}

type Service struct {
	client   external.RateClientInterface
	cache    Cache
	ttl      time.Duration
	fallback float64
	group    singleflight.Group
	now      func() time.Time
}

// NewService builds the rate lookup. A nil client means every miss is
// answered with the fallback rate.
func NewService(client external.RateClientInterface, cache Cache, ttl time.Duration, fallback float64) *Service {
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &Service{
		client:   client,
		cache:    cache,
		ttl:      ttl,
		fallback: fallback,
		now:      time.Now,
	}
}

// Rate returns the USD to ZAR rate: cached, then live, then the fallback.
func (s *Service) Rate(ctx context.Context) *api.ExchangeRate {
	pair := BaseCurrency + "/" + QuoteCurrency

	if cached := s.cached(ctx, pair); cached != nil {
		return cached
	}

	// the shared fetch outlives any single caller's request
	v, _, _ := s.group.Do(pair, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()

		if cached := s.cached(fetchCtx, pair); cached != nil {
			return cached, nil
		}
		return s.fetch(fetchCtx, pair), nil
	})
	return v.(*api.ExchangeRate)
}

func (s *Service) cached(ctx context.Context, pair string) *api.ExchangeRate {
	rate, err := s.cache.GetRate(ctx, pair)
	if err != nil {
		ratesLogger.Warn().
			Err(err).
			Str("event", "rate_cache_read_failed").
			Str("pair", pair).
			Msg("Failed to read cached rate")
		return nil
	}
	if rate == nil {
		return nil
	}
	out := *rate
	out.Source = api.SourceCache
	return &out
}

func (s *Service) fetch(ctx context.Context, pair string) *api.ExchangeRate {
	if s.client == nil {
		return s.fallbackRate()
	}

	value, err := s.client.LatestRate(ctx, BaseCurrency, QuoteCurrency)
	if err != nil {
		ratesLogger.Warn().
			Err(err).
			Str("event", "rate_fetch_failed").
			Str("pair", pair).
			Float64("fallback", s.fallback).
			Msg("Using fallback exchange rate")
		return s.fallbackRate()
	}

	rate := &api.ExchangeRate{
		Base:      BaseCurrency,
		Quote:     QuoteCurrency,
		Rate:      value,
		Source:    api.SourceLive,
		FetchedAt: s.now().UTC(),
	}
	if err := s.cache.SetRate(ctx, pair, rate, s.ttl); err != nil {
		ratesLogger.Warn().
			Err(err).
			Str("event", "rate_cache_write_failed").
			Str("pair", pair).
			Msg("Failed to cache rate")
	}

	ratesLogger.Info().
		Str("event", "rate_refreshed").
		Str("pair", pair).
		Float64("rate", value).
		Msg("Exchange rate refreshed")
	return rate
}

func (s *Service) fallbackRate() *api.ExchangeRate {
	return &api.ExchangeRate{
		Base:      BaseCurrency,
		Quote:     QuoteCurrency,
		Rate:      s.fallback,
		Source:    api.SourceFallback,
		FetchedAt: s.now().UTC(),
	}
}
