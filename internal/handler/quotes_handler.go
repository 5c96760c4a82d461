package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/jumpseat/velometro/internal/service"
)

// QuotesHandler exposes the fare calculator directly: the provider
// tariff table and the quote matrix for an arbitrary trip duration.
type QuotesHandler struct {
	fareSvc *service.FareService
}

// NewQuotesHandler creates a new handler wired to the fare service.
func NewQuotesHandler(fareSvc *service.FareService) *QuotesHandler {
	return &QuotesHandler{fareSvc: fareSvc}
}

// ListProviders handles GET /api/v1/providers
//
// Returns the loaded tariff table as-is.
func (h *QuotesHandler) ListProviders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"providers": h.fareSvc.Tariffs(),
	})
}

// Quotes handles GET /api/v1/quotes?duration_min=25
//
// Returns every applicable price across all providers for a cycling
// trip of the given duration.
func (h *QuotesHandler) Quotes(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("duration_min")
	if raw == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("bad_request", "duration_min is required"))
		return
	}

	durationMin, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("bad_request", "duration_min must be a number"))
		return
	}

	quotes, err := h.fareSvc.ComputeAllQuotes(durationMin)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDuration) {
			writeJSON(w, http.StatusBadRequest, errorBody("bad_request", err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorBody("internal_error", "failed to compute quotes"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"duration_min": durationMin,
		"quotes":       quotes,
	})
}
