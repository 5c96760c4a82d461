package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/jumpseat/velometro/pkg/geocode"
)

// AddressSearcher resolves a free-text address to coordinates.
type AddressSearcher interface {
	Search(ctx context.Context, address string) (*geocode.Result, error)
}

// GeocodeHandler handles address lookup HTTP requests.
type GeocodeHandler struct {
	searcher AddressSearcher
}

// NewGeocodeHandler creates a new handler wired to the geocoder.
func NewGeocodeHandler(searcher AddressSearcher) *GeocodeHandler {
	return &GeocodeHandler{searcher: searcher}
}

// Geocode handles GET /api/v1/geocode?q=Eiffel+Tower
//
// Returns the best match within the configured city, or 404 when the
// address cannot be resolved.
func (h *GeocodeHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("bad_request", "q is required"))
		return
	}

	result, err := h.searcher.Search(r.Context(), query)
	if err != nil {
		if errors.Is(err, geocode.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not_found",
				"address not found; try a different search term"))
			return
		}
		log.Printf("[handler] geocode error: %v", err)
		writeJSON(w, http.StatusBadGateway, errorBody("upstream_error", "geocoding service unavailable"))
		return
	}

	writeJSON(w, http.StatusOK, result)
}
