// Package sandbox is a local stand-in for the Yoco checkout API.
package sandbox

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/amakodev/ADM-travels/internal/helpers"
)

var sandboxLogger zerolog.Logger

func init() {
	sandboxLogger = zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("component", "sandbox").
		Logger()
}

type createCheckoutRequest struct {
	Amount     *int64                 `json:"amount"`
	Currency   string                 `json:"currency"`
	CancelURL  string                 `json:"cancelUrl"`
	SuccessURL string                 `json:"successUrl"`
	FailureURL string                 `json:"failureUrl"`
	Metadata   map[string]interface{} `json:"metadata"`
}

type errorResponse struct {
	Message string `json:"message"`
}

type Server struct {
	storage   *Storage
	secretKey string
	baseURL   string
}

// NewServer answers requests authenticated with secretKey. baseURL is used to
// build the redirect URLs of created checkouts.
func NewServer(secretKey, baseURL string) *Server {
	return &Server{
		storage:   NewStorage(),
		secretKey: secretKey,
		baseURL:   baseURL,
	}
}

func (s *Server) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.Recoverer,
		helpers.RequestLogger,
	)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Post("/api/checkouts", s.PostCheckouts)
	router.Get("/api/checkouts/{id}", s.GetCheckout)

	return router
}

func (s *Server) authorized(r *http.Request) bool {
	return r.Header.Get("Authorization") == "Bearer "+s.secretKey
}

// PostCheckouts handles POST /api/checkouts
func (s *Server) PostCheckouts(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		helpers.WriteJSON(w, http.StatusUnauthorized, errorResponse{Message: "Unauthorized"})
		return
	}

	var req createCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.WriteJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body"})
		return
	}
	if req.Amount == nil || *req.Amount <= 0 || req.Currency == "" {
		helpers.WriteJSON(w, http.StatusUnprocessableEntity, errorResponse{Message: "amount and currency are required"})
		return
	}

	key := r.Header.Get("Idempotency-Key")
	checkout, created := s.storage.SaveOnce(key, func() *Checkout {
		id := "ch_" + uuid.NewString()
		return &Checkout{
			ID:             id,
			RedirectURL:    s.baseURL + "/pay/" + id,
			Amount:         *req.Amount,
			Currency:       req.Currency,
			Status:         "created",
			CancelURL:      req.CancelURL,
			SuccessURL:     req.SuccessURL,
			FailureURL:     req.FailureURL,
			Metadata:       req.Metadata,
			ProcessingMode: "test",
			CreatedAt:      time.Now().UTC(),
		}
	})

	sandboxLogger.Info().
		Str("event", "sandbox_checkout").
		Str("checkout_id", checkout.ID).
		Bool("replayed", !created).
		Int64("amount", checkout.Amount).
		Str("currency", checkout.Currency).
		Msg("Sandbox checkout served")

	helpers.WriteJSON(w, http.StatusOK, checkout)
}

// GetCheckout handles GET /api/checkouts/{id}
func (s *Server) GetCheckout(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		helpers.WriteJSON(w, http.StatusUnauthorized, errorResponse{Message: "Unauthorized"})
		return
	}

	checkout, ok := s.storage.Get(chi.URLParam(r, "id"))
	if !ok {
		helpers.WriteJSON(w, http.StatusNotFound, errorResponse{Message: "Checkout not found"})
		return
	}
	helpers.WriteJSON(w, http.StatusOK, checkout)
}
