package helpers

import (
	"encoding/json"
	"net/http"

	"github.com/amakodev/ADM-travels/api"
)

// WriteJSON writes v as a JSON response with the given status
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error().
			Err(err).
			Str("event", "response_encode_failed").
			Msg("Failed to encode response")
	}
}

// WriteError writes {"error": message}
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, api.ErrorResponse{Error: message})
}
