package handler

import (
	"net/http"

	"github.com/amakodev/ADM-travels/api"
	"github.com/amakodev/ADM-travels/internal/helpers"
)

// GetHealth handles GET /api/health
func GetHealth(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, api.HealthResponse{Status: "ok"})
}
