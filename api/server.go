package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (GET /api/health)
	GetHealth(w http.ResponseWriter, r *http.Request)
	// (POST /api/yoco-checkout)
	PostYocoCheckout(w http.ResponseWriter, r *http.Request, params PostYocoCheckoutParams)
	// (GET /api/exchange-rate)
	GetExchangeRate(w http.ResponseWriter, r *http.Request)
	// (GET /api/prices/convert)
	GetPricesConvert(w http.ResponseWriter, r *http.Request, params GetPricesConvertParams)
	// (GET /api/checkouts/{checkoutId})
	GetCheckoutsCheckoutId(w http.ResponseWriter, r *http.Request, checkoutId string)
}

// ServerInterfaceWrapper converts contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler            ServerInterface
	HandlerMiddlewares []MiddlewareFunc
	ErrorHandlerFunc   func(w http.ResponseWriter, r *http.Request, err error)
}

type MiddlewareFunc func(http.Handler) http.Handler

func (siw *ServerInterfaceWrapper) wrap(h http.Handler) http.Handler {
	for _, middleware := range siw.HandlerMiddlewares {
		h = middleware(h)
	}
	return h
}

// GetHealth operation middleware
func (siw *ServerInterfaceWrapper) GetHealth(w http.ResponseWriter, r *http.Request) {
	siw.wrap(http.HandlerFunc(siw.Handler.GetHealth)).ServeHTTP(w, r)
}

// PostYocoCheckout operation middleware
func (siw *ServerInterfaceWrapper) PostYocoCheckout(w http.ResponseWriter, r *http.Request) {
	var params PostYocoCheckoutParams

	if valueList, found := r.Header[http.CanonicalHeaderKey("Idempotency-Key")]; found {
		if n := len(valueList); n != 1 {
			siw.ErrorHandlerFunc(w, r, &TooManyValuesForParamError{ParamName: "Idempotency-Key", Count: n})
			return
		}

		var idempotencyKey string
		err := runtime.BindStyledParameterWithOptions("simple", "Idempotency-Key", valueList[0], &idempotencyKey,
			runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationHeader, Explode: false, Required: false})
		if err != nil {
			siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "Idempotency-Key", Err: err})
			return
		}
		params.IdempotencyKey = &idempotencyKey
	}

	siw.wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.PostYocoCheckout(w, r, params)
	})).ServeHTTP(w, r)
}

// GetExchangeRate operation middleware
func (siw *ServerInterfaceWrapper) GetExchangeRate(w http.ResponseWriter, r *http.Request) {
	siw.wrap(http.HandlerFunc(siw.Handler.GetExchangeRate)).ServeHTTP(w, r)
}

// GetPricesConvert operation middleware
func (siw *ServerInterfaceWrapper) GetPricesConvert(w http.ResponseWriter, r *http.Request) {
	var params GetPricesConvertParams

	if err := runtime.BindQueryParameter("form", true, true, "amount", r.URL.Query(), &params.Amount); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "amount", Err: err})
		return
	}
	if err := runtime.BindQueryParameter("form", true, true, "currency", r.URL.Query(), &params.Currency); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "currency", Err: err})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "guests", r.URL.Query(), &params.Guests); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "guests", Err: err})
		return
	}

	siw.wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetPricesConvert(w, r, params)
	})).ServeHTTP(w, r)
}

// GetCheckoutsCheckoutId operation middleware
func (siw *ServerInterfaceWrapper) GetCheckoutsCheckoutId(w http.ResponseWriter, r *http.Request) {
	var checkoutId string

	err := runtime.BindStyledParameterWithOptions("simple", "checkoutId", chi.URLParam(r, "checkoutId"), &checkoutId,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "checkoutId", Err: err})
		return
	}

	siw.wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetCheckoutsCheckoutId(w, r, checkoutId)
	})).ServeHTTP(w, r)
}

type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error {
	return e.Err
}

type TooManyValuesForParamError struct {
	ParamName string
	Count     int
}

func (e *TooManyValuesForParamError) Error() string {
	return fmt.Sprintf("Expected one value for %s, got %d", e.ParamName, e.Count)
}

// ChiServerOptions configures HandlerWithOptions.
type ChiServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	Middlewares      []MiddlewareFunc
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// Handler creates http.Handler with routing matching OpenAPI spec.
func Handler(si ServerInterface) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{})
}

// HandlerFromMux creates http.Handler with routing matching OpenAPI spec based on the provided mux.
func HandlerFromMux(si ServerInterface, r chi.Router) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{
		BaseRouter: r,
	})
}

// HandlerWithOptions creates http.Handler with additional options
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter

	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := ServerInterfaceWrapper{
		Handler:            si,
		HandlerMiddlewares: options.Middlewares,
		ErrorHandlerFunc:   options.ErrorHandlerFunc,
	}

	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/api/health", wrapper.GetHealth)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/api/yoco-checkout", wrapper.PostYocoCheckout)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/api/exchange-rate", wrapper.GetExchangeRate)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/api/prices/convert", wrapper.GetPricesConvert)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/api/checkouts/{checkoutId}", wrapper.GetCheckoutsCheckoutId)
	})

	return r
}
