package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amakodev/ADM-travels/api"
)

type mockRatesService struct {
	rate float64
}

func (m *mockRatesService) Rate(ctx context.Context) *api.ExchangeRate {
	return &api.ExchangeRate{
		Base:      "USD",
		Quote:     "ZAR",
		Rate:      m.rate,
		Source:    api.SourceFallback,
		FetchedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func intPtr(i int) *int { return &i }

func TestRatesHandler_GetExchangeRate(t *testing.T) {
	h := NewRatesHandler(&mockRatesService{rate: 18.0})

	req := httptest.NewRequest(http.MethodGet, "/api/exchange-rate", nil)
	w := httptest.NewRecorder()
	h.GetExchangeRate(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
	var rate api.ExchangeRate
	if err := json.NewDecoder(w.Body).Decode(&rate); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if rate.Rate != 18.0 || rate.Source != api.SourceFallback || rate.Base != "USD" || rate.Quote != "ZAR" {
		t.Errorf("Unexpected rate %+v", rate)
	}
}

func TestRatesHandler_GetPricesConvert(t *testing.T) {
	h := NewRatesHandler(&mockRatesService{rate: 18.0})

	tests := []struct {
		name          string
		params        api.GetPricesConvertParams
		wantAmount    string
		wantFormatted string
		wantCents     int64
	}{
		{"usd", api.GetPricesConvertParams{Amount: "1500", Currency: "USD", Guests: intPtr(2)}, "83.33", "$83.33", 300000},
		{"zar", api.GetPricesConvertParams{Amount: "1500", Currency: "ZAR"}, "1500.00", "R 1,500.00", 150000},
		{"free", api.GetPricesConvertParams{Amount: "0", Currency: "USD"}, "0.00", "Free", 0},
		{"cheap is not free", api.GetPricesConvertParams{Amount: "0.05", Currency: "USD"}, "0.00", "$0.00", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/prices/convert", nil)
			w := httptest.NewRecorder()
			h.GetPricesConvert(w, req, tt.params)

			if w.Code != http.StatusOK {
				t.Fatalf("Expected status %d, got %d (%s)", http.StatusOK, w.Code, w.Body.String())
			}
			var resp api.PriceConversion
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if resp.Amount != tt.wantAmount || resp.Formatted != tt.wantFormatted || resp.AmountInCents != tt.wantCents {
				t.Errorf("Unexpected conversion %+v", resp)
			}
			if resp.Rate != 18.0 {
				t.Errorf("Expected rate 18, got %v", resp.Rate)
			}
		})
	}
}

func TestRatesHandler_GetPricesConvert_BadInput(t *testing.T) {
	h := NewRatesHandler(&mockRatesService{rate: 18.0})

	tests := []struct {
		name   string
		params api.GetPricesConvertParams
	}{
		{"bad amount", api.GetPricesConvertParams{Amount: "abc", Currency: "USD"}},
		{"negative amount", api.GetPricesConvertParams{Amount: "-10", Currency: "USD"}},
		{"bad currency", api.GetPricesConvertParams{Amount: "10", Currency: "EUR"}},
		{"zero guests", api.GetPricesConvertParams{Amount: "10", Currency: "ZAR", Guests: intPtr(0)}},
		{"total overflows cents", api.GetPricesConvertParams{Amount: "100000000000000000000", Currency: "ZAR"}},
		{"guests overflow cents", api.GetPricesConvertParams{Amount: "50000000000000000", Currency: "ZAR", Guests: intPtr(2)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/prices/convert", nil)
			w := httptest.NewRecorder()
			h.GetPricesConvert(w, req, tt.params)

			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
			}
		})
	}
}
