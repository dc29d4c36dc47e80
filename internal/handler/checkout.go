package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"github.com/amakodev/ADM-travels/api"
	"github.com/amakodev/ADM-travels/internal/domain/checkout"
	"github.com/amakodev/ADM-travels/internal/external"
	"github.com/amakodev/ADM-travels/internal/helpers"
)

const (
	msgCheckoutFailed      = "Failed to create checkout"
	msgMissingFields       = "Missing amount or currency"
	msgNotConfigured       = "YOCO_SECRET_KEY not configured on server"
	msgMissingRedirectURL  = "Missing redirectUrl from Yoco response"
	msgProviderUnavailable = "Payment provider unavailable"
)

var handlerLogger zerolog.Logger

func init() {
	handlerLogger = zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("component", "handler").
		Logger()
}

// CheckoutHandler handles the Yoco checkout proxy and ledger lookups
type CheckoutHandler struct {
	checkoutService checkout.ServiceInterface
}

func NewCheckoutHandler(checkoutService checkout.ServiceInterface) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
	}
}

// PostYocoCheckout handles POST /api/yoco-checkout
func (h *CheckoutHandler) PostYocoCheckout(w http.ResponseWriter, r *http.Request, params api.PostYocoCheckoutParams) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, helpers.MaxRequestBody))
	if err != nil {
		helpers.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// an empty body is treated like {} and fails the field check below
	var reqBody api.PostYocoCheckoutJSONRequestBody
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &reqBody); err != nil {
			helpers.WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	idempotencyKey := ""
	if params.IdempotencyKey != nil {
		idempotencyKey = *params.IdempotencyKey
	}

	resp, err := h.checkoutService.CreateCheckout(r.Context(), &reqBody, idempotencyKey)
	if err != nil {
		h.writeCheckoutError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, resp)
}

func (h *CheckoutHandler) writeCheckoutError(w http.ResponseWriter, err error) {
	var upstream *external.UpstreamError

	switch {
	case errors.Is(err, checkout.ErrMissingFields):
		helpers.WriteError(w, http.StatusBadRequest, msgMissingFields)
	case errors.Is(err, checkout.ErrNotConfigured):
		handlerLogger.Error().Str("event", "checkout_not_configured").Msg("YOCO_SECRET_KEY is not set")
		helpers.WriteError(w, http.StatusInternalServerError, msgNotConfigured)
	case errors.As(err, &upstream):
		handlerLogger.Error().
			Err(err).
			Str("event", "checkout_upstream_error").
			Int("upstream_status", upstream.StatusCode).
			Bytes("upstream_body", upstream.Body).
			Msg("Yoco rejected checkout")
		relayUpstream(w, upstream)
	case errors.Is(err, checkout.ErrProviderUnavailable):
		handlerLogger.Warn().Err(err).Str("event", "checkout_breaker_open").Msg("Yoco circuit open")
		helpers.WriteError(w, http.StatusServiceUnavailable, msgProviderUnavailable)
	case errors.Is(err, checkout.ErrMissingRedirectURL):
		handlerLogger.Error().Err(err).Str("event", "checkout_missing_redirect").Msg("Yoco response had no redirectUrl")
		helpers.WriteError(w, http.StatusInternalServerError, msgMissingRedirectURL)
	default:
		handlerLogger.Error().Err(err).Str("event", "checkout_failed").Msg("Checkout creation failed")
		helpers.WriteError(w, http.StatusInternalServerError, msgCheckoutFailed)
	}
}

// relayUpstream passes the provider status and body through unchanged
func relayUpstream(w http.ResponseWriter, upstream *external.UpstreamError) {
	body := upstream.Body
	contentType := upstream.ContentType
	if len(body) == 0 {
		body = []byte(msgCheckoutFailed)
		contentType = ""
	}
	if contentType == "" {
		contentType = "text/plain; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(upstream.StatusCode)
	_, _ = w.Write(body)
}

// GetCheckoutsCheckoutId handles GET /api/checkouts/{checkoutId}
func (h *CheckoutHandler) GetCheckoutsCheckoutId(w http.ResponseWriter, r *http.Request, checkoutId string) {
	rec, err := h.checkoutService.GetCheckout(r.Context(), checkoutId)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrRecordNotFound):
			helpers.WriteError(w, http.StatusNotFound, "Checkout not found")
		case errors.Is(err, checkout.ErrLedgerDisabled):
			helpers.WriteError(w, http.StatusServiceUnavailable, "Checkout ledger not configured")
		default:
			handlerLogger.Error().
				Err(err).
				Str("event", "checkout_lookup_failed").
				Str("checkout_id", checkoutId).
				Msg("Checkout lookup failed")
			helpers.WriteError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	helpers.WriteJSON(w, http.StatusOK, rec)
}
