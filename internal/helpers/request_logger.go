package helpers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const (
	// MaxRequestBody caps every POST body read by the API
	MaxRequestBody = 1 << 20

	maxLoggedBody = 1 << 16
)

var logger zerolog.Logger

func init() {
	logger = zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("component", "http").
		Logger()
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.statusCode == 0 {
		lrw.statusCode = http.StatusOK
	}
	if lrw.body.Len() < maxLoggedBody {
		lrw.body.Write(b)
	}
	return lrw.ResponseWriter.Write(b)
}

// extractBookingFields picks the loggable booking fields out of a checkout
// request. Customer contact details are never included.
func extractBookingFields(body []byte) map[string]string {
	fields := make(map[string]string)

	var data map[string]interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return fields
	}

	if nested, ok := data["metadata"].(map[string]interface{}); ok {
		if _, has := data["tourId"]; !has {
			data["tourId"] = nested["tourId"]
		}
		if _, has := data["guests"]; !has {
			data["guests"] = nested["guests"]
		}
	}

	if v := scalarString(data["tourId"]); v != "" {
		fields["tour_id"] = v
	}
	if v := scalarString(data["currency"]); v != "" {
		fields["currency"] = v
	}
	if v := scalarString(data["amount"]); v != "" {
		fields["amount"] = v
	}
	if v := scalarString(data["guests"]); v != "" {
		fields["guests"] = v
	}
	return fields
}

func extractResponseFields(body []byte) map[string]string {
	fields := make(map[string]string)

	var data map[string]interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return fields
	}

	if id, ok := data["id"].(string); ok && id != "" {
		fields["checkout_id"] = id
	}
	if status, ok := data["status"].(string); ok && status != "" {
		fields["checkout_status"] = status
	}
	if source, ok := data["source"].(string); ok && source != "" {
		fields["rate_source"] = source
	}
	return fields
}

func scalarString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := middleware.GetReqID(r.Context())

		logEvent := logger.Info().
			Str("event", "request_start").
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Str("user_agent", r.UserAgent())

		if requestID != "" {
			logEvent = logEvent.Str("request_id", requestID)
		}
		if r.URL.RawQuery != "" {
			logEvent = logEvent.Str("query", r.URL.RawQuery)
		}

		var requestFields map[string]string
		if r.Body != nil && r.Method == http.MethodPost {
			bodyBytes, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxRequestBody))
			if err != nil {
				var tooLarge *http.MaxBytesError
				status, message := http.StatusBadRequest, "Invalid request body"
				if errors.As(err, &tooLarge) {
					status, message = http.StatusRequestEntityTooLarge, "Request body too large"
				}
				logger.Warn().
					Err(err).
					Str("event", "request_body_rejected").
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("request_id", requestID).
					Int("status", status).
					Msg("Request body rejected")
				WriteError(w, status, message)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
			requestFields = extractBookingFields(bodyBytes)
			for k, v := range requestFields {
				logEvent = logEvent.Str(k, v)
			}
			logEvent = logEvent.Int("body_bytes", len(bodyBytes))
		}

		logEvent.Msg("HTTP request started")

		lrw := &loggingResponseWriter{ResponseWriter: w}

		next.ServeHTTP(lrw, r)

		duration := time.Since(start)
		durationMs := float64(duration.Nanoseconds()) / 1e6
		if lrw.statusCode == 0 {
			lrw.statusCode = http.StatusOK
		}

		var logLevel *zerolog.Event
		switch {
		case lrw.statusCode >= 500:
			logLevel = logger.Error()
		case lrw.statusCode >= 400:
			logLevel = logger.Warn()
		default:
			logLevel = logger.Info()
		}

		logEvent = logLevel.
			Str("event", "request_complete").
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status_code", lrw.statusCode).
			Float64("duration_ms", durationMs).
			Str("remote_addr", r.RemoteAddr)

		if requestID != "" {
			logEvent = logEvent.Str("request_id", requestID)
		}
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				logEvent = logEvent.Str("route", pattern)
			}
			if checkoutID := rctx.URLParam("checkoutId"); checkoutID != "" {
				logEvent = logEvent.Str("checkout_id", checkoutID)
			}
		}

		for k, v := range requestFields {
			logEvent = logEvent.Str(k, v)
		}
		if lrw.statusCode < 400 {
			for k, v := range extractResponseFields(lrw.body.Bytes()) {
				logEvent = logEvent.Str(k, v)
			}
		}

		if lrw.statusCode >= 400 {
			logEvent = logEvent.Int("error_code", lrw.statusCode)

			const maxErrorBody = 500
			respBody := lrw.body.String()
			if len(respBody) > maxErrorBody {
				respBody = respBody[:maxErrorBody] + "...(truncated)"
			}
			if respBody != "" {
				logEvent = logEvent.Str("error_response", respBody)
			}
		}

		if lrw.statusCode >= 500 {
			logEvent.Msg("HTTP request failed")
		} else if lrw.statusCode >= 400 {
			logEvent.Msg("HTTP request client error")
		} else {
			logEvent.Msg("HTTP request completed")
		}
	})
}
