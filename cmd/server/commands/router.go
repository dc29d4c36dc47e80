package commands

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/amakodev/ADM-travels/api"
	"github.com/amakodev/ADM-travels/internal/config"
	"github.com/amakodev/ADM-travels/internal/domain/checkout"
	"github.com/amakodev/ADM-travels/internal/domain/rates"
	"github.com/amakodev/ADM-travels/internal/handler"
	"github.com/amakodev/ADM-travels/internal/helpers"
)

const requestTimeout = 30 * time.Second

// Server implements api.ServerInterface by delegating to the handlers
type Server struct {
	checkoutHandler *handler.CheckoutHandler
	ratesHandler    *handler.RatesHandler
}

var _ api.ServerInterface = (*Server)(nil)

func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	handler.GetHealth(w, r)
}

func (s *Server) PostYocoCheckout(w http.ResponseWriter, r *http.Request, params api.PostYocoCheckoutParams) {
	s.checkoutHandler.PostYocoCheckout(w, r, params)
}

func (s *Server) GetCheckoutsCheckoutId(w http.ResponseWriter, r *http.Request, checkoutId string) {
	s.checkoutHandler.GetCheckoutsCheckoutId(w, r, checkoutId)
}

func (s *Server) GetExchangeRate(w http.ResponseWriter, r *http.Request) {
	s.ratesHandler.GetExchangeRate(w, r)
}

func (s *Server) GetPricesConvert(w http.ResponseWriter, r *http.Request, params api.GetPricesConvertParams) {
	s.ratesHandler.GetPricesConvert(w, r, params)
}

// NewRouter wires middleware and routes around the given services
func NewRouter(cfg *config.Config, checkoutService checkout.ServiceInterface, ratesService rates.ServiceInterface) (http.Handler, error) {
	doc, err := api.GetSwagger()
	if err != nil {
		return nil, err
	}
	rawDoc, err := doc.MarshalJSON()
	if err != nil {
		return nil, err
	}
	validator, err := helpers.OpenAPIValidator(doc)
	if err != nil {
		return nil, err
	}

	server := &Server{
		checkoutHandler: handler.NewCheckoutHandler(checkoutService),
		ratesHandler:    handler.NewRatesHandler(ratesService),
	}

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		helpers.RequestLogger,
		cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "Idempotency-Key"},
			MaxAge:         300,
		}),
		middleware.Timeout(requestTimeout),
		validator,
	)

	router.Get("/api/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(rawDoc)
	})

	return otelhttp.NewHandler(api.HandlerFromMux(server, router), "admtravels-api"), nil
}
