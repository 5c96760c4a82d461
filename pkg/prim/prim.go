// Package prim provides clients for the Île-de-France Mobilités PRIM
// marketplace APIs: the Navitia journey planner (metro) and the
// Geovelo route computer (bike and pedestrian).
//
// Both APIs authenticate with a per-request "apikey" header. Route
// search itself is fully delegated to them; this package only shapes
// requests and normalizes responses into domain models.
package prim

import (
	"errors"
	"net/http"

	"github.com/jumpseat/velometro/config"
)

// ─── Errors ─────────────────────────────────────────────────

var (
	// ErrNoJourney is returned when Navitia finds no transit journey
	// between the two points.
	ErrNoJourney = errors.New("prim: no transit journey found")

	// ErrNoRoute is returned when Geovelo finds no bike or walking
	// route between the two points.
	ErrNoRoute = errors.New("prim: no route found")
)

// ─── Client ─────────────────────────────────────────────────

// Client talks to the PRIM marketplace APIs.
type Client struct {
	httpClient *http.Client
	apiKey     string
	navitiaURL string
	geoveloURL string
}

// NewClient creates a PRIM client from configuration.
func NewClient(cfg config.PRIMConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		apiKey:     cfg.APIKey,
		navitiaURL: cfg.NavitiaURL,
		geoveloURL: cfg.GeoveloURL,
	}
}
