package external

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCheckoutRequest() *CreateCheckoutRequest {
	guests := 2
	return &CreateCheckoutRequest{
		Amount:     300000,
		Currency:   "ZAR",
		CancelURL:  "https://admtravelssa.com/payment/cancelled",
		SuccessURL: "https://admtravelssa.com/payment/success",
		FailureURL: "https://admtravelssa.com/payment/failed",
		Metadata: CheckoutMetadata{
			TourID:   "cape-point",
			TourName: "Cape Point Day Trip",
			Guests:   &guests,
			Source:   "admtravels-website",
		},
	}
}

func TestClient_CreateCheckout_Success(t *testing.T) {
	var gotAuth, gotKey string
	var gotBody CreateCheckoutRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/checkouts", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.Header.Get("Idempotency-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"ch_1","redirectUrl":"https://pay.yoco.com/ch_1","amount":300000,"currency":"ZAR","status":"created","processingMode":"live"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk_test_123", 5*time.Second)
	checkout, err := client.CreateCheckout(context.Background(), newCheckoutRequest(), "idem-1")
	require.NoError(t, err)

	assert.Equal(t, "Bearer sk_test_123", gotAuth)
	assert.Equal(t, "idem-1", gotKey)
	assert.Equal(t, int64(300000), gotBody.Amount)
	assert.Equal(t, "admtravels-website", gotBody.Metadata.Source)
	assert.Equal(t, &Checkout{
		ID:          "ch_1",
		RedirectURL: "https://pay.yoco.com/ch_1",
		Amount:      300000,
		Currency:    "ZAR",
		Status:      "created",
	}, checkout)
}

func TestClient_CreateCheckout_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"errorMessage":"amount too small"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk_test_123", 5*time.Second)
	_, err := client.CreateCheckout(context.Background(), newCheckoutRequest(), "")

	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream), "expected UpstreamError, got %v", err)
	assert.Equal(t, http.StatusUnprocessableEntity, upstream.StatusCode)
	assert.Equal(t, `{"errorMessage":"amount too small"}`, string(upstream.Body))
	assert.Equal(t, "application/json", upstream.ContentType)
}

func TestClient_CreateCheckout_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>oops</html>`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk_test_123", 5*time.Second)
	_, err := client.CreateCheckout(context.Background(), newCheckoutRequest(), "")
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestClient_BreakerOpensOnTransportFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	client := NewClientWithBreaker(addr, "sk_test_123", time.Second, BreakerSettings{
		ConsecutiveFailures: 2,
		OpenTimeout:         time.Minute,
	})

	for i := 0; i < 2; i++ {
		_, err := client.CreateCheckout(context.Background(), newCheckoutRequest(), "")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrProviderUnavailable)
	}

	_, err := client.CreateCheckout(context.Background(), newCheckoutRequest(), "")
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestClient_UpstreamErrorsDoNotTripBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClientWithBreaker(srv.URL, "sk_test_123", time.Second, BreakerSettings{
		ConsecutiveFailures: 1,
		OpenTimeout:         time.Minute,
	})

	for i := 0; i < 3; i++ {
		_, err := client.CreateCheckout(context.Background(), newCheckoutRequest(), "")
		var upstream *UpstreamError
		require.True(t, errors.As(err, &upstream), "attempt %d: expected UpstreamError, got %v", i, err)
	}
}

func TestClient_Configured(t *testing.T) {
	assert.False(t, NewClient("http://localhost", "", time.Second).Configured())
	assert.True(t, NewClient("http://localhost", "sk", time.Second).Configured())
}
