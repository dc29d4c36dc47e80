package handler

import (
	"net/http"

	"github.com/amakodev/ADM-travels/api"
	"github.com/amakodev/ADM-travels/internal/domain/pricing"
	"github.com/amakodev/ADM-travels/internal/domain/rates"
	"github.com/amakodev/ADM-travels/internal/helpers"
)

// RatesHandler serves the exchange rate and price conversion endpoints
type RatesHandler struct {
	ratesService rates.ServiceInterface
}

func NewRatesHandler(ratesService rates.ServiceInterface) *RatesHandler {
	return &RatesHandler{ratesService: ratesService}
}

// GetExchangeRate handles GET /api/exchange-rate
func (h *RatesHandler) GetExchangeRate(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, h.ratesService.Rate(r.Context()))
}

// GetPricesConvert handles GET /api/prices/convert
func (h *RatesHandler) GetPricesConvert(w http.ResponseWriter, r *http.Request, params api.GetPricesConvertParams) {
	amount, err := pricing.ParseAmount(params.Amount)
	if err != nil {
		helpers.WriteError(w, http.StatusBadRequest, "amount must be a non-negative number")
		return
	}
	currency, err := pricing.ParseCurrency(params.Currency)
	if err != nil {
		helpers.WriteError(w, http.StatusBadRequest, "currency must be ZAR or USD")
		return
	}
	guests := 1
	if params.Guests != nil {
		guests = *params.Guests
	}
	if guests < 1 {
		helpers.WriteError(w, http.StatusBadRequest, "guests must be at least 1")
		return
	}

	amountInCents, err := pricing.ToCents(amount, guests)
	if err != nil {
		helpers.WriteError(w, http.StatusBadRequest, "amount is too large")
		return
	}

	rate := h.ratesService.Rate(r.Context())

	converted, formatted, err := pricing.Display(amount, currency, rate.Rate)
	if err != nil {
		handlerLogger.Error().Err(err).Str("event", "price_conversion_failed").Msg("Price conversion failed")
		helpers.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	helpers.WriteJSON(w, http.StatusOK, api.PriceConversion{
		Amount:        converted.StringFixed(2),
		Currency:      string(currency),
		Formatted:     formatted,
		Rate:          rate.Rate,
		AmountInCents: amountInCents,
	})
}
