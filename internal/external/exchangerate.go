package external

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var ErrRateUnavailable = errors.New("exchange rate unavailable")

// RateClientInterface fetches a single currency pair
type RateClientInterface interface {
	LatestRate(ctx context.Context, base, quote string) (float64, error)
}

// RateClient reads rates from an exchangerate.host compatible API
type RateClient struct {
	baseURL    string
	accessKey  string
	httpClient *http.Client
}

var _ RateClientInterface = (*RateClient)(nil)

func NewRateClient(baseURL, accessKey string, timeout time.Duration) *RateClient {
	return &RateClient{
		baseURL:   baseURL,
		accessKey: accessKey,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// LatestRate returns how many units of quote one unit of base buys
func (c *RateClient) LatestRate(ctx context.Context, base, quote string) (float64, error) {
	q := url.Values{}
	q.Set("base", base)
	q.Set("symbols", quote)
	if c.accessKey != "" {
		q.Set("access_key", c.accessKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/latest?"+q.Encode(), nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("rate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: status %d", ErrRateUnavailable, resp.StatusCode)
	}

	var payload latestRatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRateUnavailable, err)
	}
	if payload.Success != nil && !*payload.Success {
		if payload.Error != nil {
			return 0, fmt.Errorf("%w: %s", ErrRateUnavailable, payload.Error.Info)
		}
		return 0, ErrRateUnavailable
	}

	rate, ok := payload.Rates[quote]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("%w: no %s rate in response", ErrRateUnavailable, quote)
	}
	return rate, nil
}
