package commands

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amakodev/ADM-travels/api"
	"github.com/amakodev/ADM-travels/internal/config"
	"github.com/amakodev/ADM-travels/internal/domain/checkout"
	"github.com/amakodev/ADM-travels/internal/domain/rates"
	"github.com/amakodev/ADM-travels/internal/external"
	"github.com/amakodev/ADM-travels/internal/helpers"
	"github.com/amakodev/ADM-travels/internal/sandbox"
)

const sandboxSecret = "sk_test_sandbox"

func newTestRouter(t *testing.T, secret string) http.Handler {
	t.Helper()

	gateway := httptest.NewServer(sandbox.NewServer(sandboxSecret, "http://sandbox.local").Routes())
	t.Cleanup(gateway.Close)

	cfg := &config.Config{
		SiteURL:            "https://admtravelssa.com",
		CORSAllowedOrigins: []string{"https://admtravelssa.com"},
	}
	checkoutService := checkout.NewService(external.NewClient(gateway.URL, secret, 5*time.Second), cfg.SiteURL)
	ratesService := rates.NewService(nil, nil, time.Hour, 18.0)

	h, err := NewRouter(cfg, checkoutService, ratesService)
	require.NoError(t, err)
	return h
}

func TestRouter_Health(t *testing.T) {
	h := newTestRouter(t, sandboxSecret)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRouter_CheckoutAgainstSandbox(t *testing.T) {
	h := newTestRouter(t, sandboxSecret)

	req := httptest.NewRequest(http.MethodPost, "/api/yoco-checkout",
		strings.NewReader(`{"amount":300000,"currency":"ZAR","tourId":4,"tourName":"Garden Route","guests":2}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fields))
	assert.Len(t, fields, 5)
	assert.Equal(t, "created", fields["status"])
	assert.Equal(t, float64(300000), fields["amount"])
	assert.True(t, strings.HasPrefix(fields["redirectUrl"].(string), "http://sandbox.local/pay/ch_"))
}

func TestRouter_CheckoutMissingFields(t *testing.T) {
	h := newTestRouter(t, sandboxSecret)

	req := httptest.NewRequest(http.MethodPost, "/api/yoco-checkout", strings.NewReader(`{"currency":"ZAR"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Missing amount or currency"}`, w.Body.String())
}

func TestRouter_CheckoutWithoutSecret(t *testing.T) {
	h := newTestRouter(t, "")

	req := httptest.NewRequest(http.MethodPost, "/api/yoco-checkout", strings.NewReader(`{"amount":100,"currency":"ZAR"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"YOCO_SECRET_KEY not configured on server"}`, w.Body.String())
}

func TestRouter_CheckoutRelaysGatewayRejection(t *testing.T) {
	h := newTestRouter(t, "sk_test_wrong")

	req := httptest.NewRequest(http.MethodPost, "/api/yoco-checkout", strings.NewReader(`{"amount":100,"currency":"ZAR"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Unauthorized"}`, w.Body.String())
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func TestRouter_CheckoutOversizedBody(t *testing.T) {
	h := newTestRouter(t, sandboxSecret)

	body := &countingReader{r: io.MultiReader(
		strings.NewReader(`{"amount":100,"currency":"ZAR","tourName":"`),
		strings.NewReader(strings.Repeat("a", 8<<20)),
		strings.NewReader(`"}`),
	)}
	req := httptest.NewRequest(http.MethodPost, "/api/yoco-checkout", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.JSONEq(t, `{"error":"Request body too large"}`, w.Body.String())
	assert.LessOrEqual(t, body.n, int64(helpers.MaxRequestBody+1))
}

func TestRouter_ExchangeRateAndConversion(t *testing.T) {
	h := newTestRouter(t, sandboxSecret)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/exchange-rate", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var rate api.ExchangeRate
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rate))
	assert.Equal(t, 18.0, rate.Rate)
	assert.Equal(t, api.SourceFallback, rate.Source)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/prices/convert?amount=1500&currency=USD&guests=2", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var conv api.PriceConversion
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &conv))
	assert.Equal(t, "$83.33", conv.Formatted)
	assert.Equal(t, int64(300000), conv.AmountInCents)
}

func TestRouter_LedgerDisabled(t *testing.T) {
	h := newTestRouter(t, sandboxSecret)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/checkouts/ch_1", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRouter_OpenAPIDocument(t *testing.T) {
	h := newTestRouter(t, sandboxSecret)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/openapi.json", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "3.0.3", doc["openapi"])
}

func TestRouter_CORSPreflight(t *testing.T) {
	h := newTestRouter(t, sandboxSecret)

	req := httptest.NewRequest(http.MethodOptions, "/api/yoco-checkout", nil)
	req.Header.Set("Origin", "https://admtravelssa.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "https://admtravelssa.com", w.Header().Get("Access-Control-Allow-Origin"))
}
