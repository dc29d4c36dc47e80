package helpers

import (
	"errors"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers/gorillamux"
)

const invalidBodyMessage = "Invalid request body"

// OpenAPIValidator rejects requests whose parameters or JSON body do not
// match the document. Paths the document does not describe pass through.
func OpenAPIValidator(doc *openapi3.T) (func(http.Handler) http.Handler, error) {
	doc.Servers = nil
	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, err
	}

	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, pathParams, err := router.FindRoute(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
				logger.Debug().
					Err(err).
					Str("event", "request_validation_failed").
					Str("path", r.URL.Path).
					Msg("Request rejected by OpenAPI validation")
				WriteError(w, http.StatusBadRequest, validationMessage(err))
				return
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}

func validationMessage(err error) string {
	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.RequestBody != nil {
			return invalidBodyMessage
		}
		if reqErr.Parameter != nil {
			return "Invalid parameter " + reqErr.Parameter.Name
		}
	}
	return "Invalid request"
}
