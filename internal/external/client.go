package external

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const maxUpstreamBody = 1 << 20

var (
	// ErrProviderUnavailable is returned while the circuit breaker is open.
	ErrProviderUnavailable = errors.New("payment provider unavailable")
	// ErrMalformedResponse means the provider answered 2xx with a body that is not a checkout.
	ErrMalformedResponse = errors.New("malformed checkout response")
)

var clientLogger zerolog.Logger

func init() {
	clientLogger = zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("component", "yoco_client").
		Logger()
}

// UpstreamError carries a non-2xx provider response so it can be relayed as is.
type UpstreamError struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("yoco responded with status %d", e.StatusCode)
}

// CheckoutClientInterface defines the interface for creating checkout sessions
type CheckoutClientInterface interface {
	CreateCheckout(ctx context.Context, req *CreateCheckoutRequest, idempotencyKey string) (*Checkout, error)
}

// Client talks to the Yoco checkout API
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*Checkout]
}

// Ensure Client implements CheckoutClientInterface
var _ CheckoutClientInterface = (*Client)(nil)

// BreakerSettings tunes when the outbound circuit opens.
type BreakerSettings struct {
	ConsecutiveFailures uint32
	OpenTimeout         time.Duration
}

// DefaultBreakerSettings trips after five transport failures in a row and
// probes again after thirty seconds.
var DefaultBreakerSettings = BreakerSettings{
	ConsecutiveFailures: 5,
	OpenTimeout:         30 * time.Second,
}

// NewClient creates a new Yoco API client
func NewClient(baseURL, secretKey string, timeout time.Duration) *Client {
	return NewClientWithBreaker(baseURL, secretKey, timeout, DefaultBreakerSettings)
}

func NewClientWithBreaker(baseURL, secretKey string, timeout time.Duration, bs BreakerSettings) *Client {
	c := &Client{
		baseURL:   baseURL,
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	c.breaker = gobreaker.NewCircuitBreaker[*Checkout](gobreaker.Settings{
		Name:        "yoco-checkout",
		MaxRequests: 1,
		Timeout:     bs.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= bs.ConsecutiveFailures
		},
		// Only transport failures count against the provider. A 4xx/5xx answer
		// proves it is reachable and is relayed to the caller instead.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var upstream *UpstreamError
			return errors.As(err, &upstream) || errors.Is(err, ErrMalformedResponse) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			clientLogger.Warn().
				Str("event", "breaker_state_change").
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker changed state")
		},
	})
	return c
}

// Configured reports whether a secret key is available.
func (c *Client) Configured() bool {
	return c.secretKey != ""
}

// CreateCheckout issues POST /api/checkouts with the secret key as bearer token
func (c *Client) CreateCheckout(ctx context.Context, req *CreateCheckoutRequest, idempotencyKey string) (*Checkout, error) {
	checkout, err := c.breaker.Execute(func() (*Checkout, error) {
		return c.createCheckout(ctx, req, idempotencyKey)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrProviderUnavailable
	}
	return checkout, err
}

func (c *Client) createCheckout(ctx context.Context, body *CreateCheckoutRequest, idempotencyKey string) (*Checkout, error) {
	resp, err := c.makeRequest(ctx, http.MethodPost, "/api/checkouts", body, idempotencyKey)
	if err != nil {
		return nil, fmt.Errorf("yoco request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read yoco response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{
			StatusCode:  resp.StatusCode,
			ContentType: resp.Header.Get("Content-Type"),
			Body:        data,
		}
	}

	var checkout Checkout
	if err := json.Unmarshal(data, &checkout); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &checkout, nil
}

func (c *Client) makeRequest(ctx context.Context, method, path string, body interface{}, idempotencyKey string) (*http.Response, error) {
	var reqBody []byte
	if body != nil {
		var err error
		reqBody, err = json.Marshal(body)
		if err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}
	return c.httpClient.Do(req)
}
