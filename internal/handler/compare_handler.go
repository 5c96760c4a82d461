package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/jumpseat/velometro/internal/model"
	"github.com/jumpseat/velometro/internal/service"
)

// CompareRequest is the JSON body for POST /api/v1/compare.
type CompareRequest struct {
	OriginLat   float64 `json:"origin_lat"`
	OriginLon   float64 `json:"origin_lon"`
	DestLat     float64 `json:"dest_lat"`
	DestLon     float64 `json:"dest_lon"`
	WalkToBikeM float64 `json:"walk_to_bike_m"`
}

// CompareHandler handles trip comparison HTTP requests.
type CompareHandler struct {
	compareSvc *service.CompareService
}

// NewCompareHandler creates a new handler wired to the compare service.
func NewCompareHandler(compareSvc *service.CompareService) *CompareHandler {
	return &CompareHandler{compareSvc: compareSvc}
}

// Compare handles POST /api/v1/compare
//
// Request body:
//
//	{
//	  "origin_lat": 48.8606, "origin_lon": 2.3376,
//	  "dest_lat": 48.8484,   "dest_lon": 2.3958,
//	  "walk_to_bike_m": 50
//	}
//
// Response: a full Comparison document (journeys, quote matrix,
// recommendation).
func (h *CompareHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("bad_request", "invalid JSON body"))
		return
	}

	if req.OriginLat == 0 || req.OriginLon == 0 || req.DestLat == 0 || req.DestLon == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("bad_request",
			"origin_lat, origin_lon, dest_lat, and dest_lon are all required"))
		return
	}

	origin := model.Location{Lat: req.OriginLat, Lon: req.OriginLon}
	dest := model.Location{Lat: req.DestLat, Lon: req.DestLon}

	cmp, err := h.compareSvc.Compare(r.Context(), origin, dest, req.WalkToBikeM)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidLocation),
			errors.Is(err, service.ErrSameLocation):
			writeJSON(w, http.StatusBadRequest, errorBody("bad_request", err.Error()))
		case errors.Is(err, service.ErrNoMetroRoute),
			errors.Is(err, service.ErrNoBikeRoute):
			writeJSON(w, http.StatusNotFound, errorBody("no_route", err.Error()))
		default:
			// Anything else is an upstream routing failure.
			log.Printf("[handler] compare error: %v", err)
			writeJSON(w, http.StatusBadGateway, errorBody("upstream_error",
				"routing service unavailable"))
		}
		return
	}

	writeJSON(w, http.StatusOK, cmp)
}
