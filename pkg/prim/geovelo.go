package prim

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/twpayne/go-polyline"

	"github.com/jumpseat/velometro/internal/model"
)

// ─── Geovelo wire types ─────────────────────────────────────

const (
	transportModeBike       = "BIKE"
	transportModePedestrian = "PEDESTRIAN"
)

type geoveloRequest struct {
	Waypoints      []geoveloWaypoint   `json:"waypoints"`
	BikeDetails    *geoveloBikeDetails `json:"bikeDetails,omitempty"`
	TransportModes []string            `json:"transportModes"`
}

type geoveloWaypoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Title     string  `json:"title"`
}

// geoveloBikeDetails requests a shared (BSS) electric bike with the
// median rider profile, the setup every provider here operates.
type geoveloBikeDetails struct {
	Profile  string `json:"profile"`
	BikeType string `json:"bikeType"`
	EBike    bool   `json:"eBike"`
}

type geoveloRoute struct {
	Duration  int              `json:"duration"`
	Distances geoveloDistances `json:"distances"`
	Sections  []geoveloSection `json:"sections"`
}

type geoveloDistances struct {
	Total float64 `json:"total"`
}

type geoveloSection struct {
	TransportMode string `json:"transportMode"`
	// Geometry is a Google polyline at precision 6, not the usual 5.
	Geometry string `json:"geometry"`
}

// polyline6 decodes Geovelo's precision-6 encoded geometries.
var polyline6 = polyline.Codec{Dim: 2, Scale: 1e6}

// ─── Route planning ─────────────────────────────────────────

// PlanBike asks Geovelo for a shared e-bike route.
func (c *Client) PlanBike(ctx context.Context, from, to model.Location) (*model.StreetJourney, error) {
	return c.planStreet(ctx, from, to, transportModeBike)
}

// PlanWalk asks Geovelo for a pedestrian route.
func (c *Client) PlanWalk(ctx context.Context, from, to model.Location) (*model.StreetJourney, error) {
	return c.planStreet(ctx, from, to, transportModePedestrian)
}

func (c *Client) planStreet(ctx context.Context, from, to model.Location, mode string) (*model.StreetJourney, error) {
	payload := geoveloRequest{
		Waypoints: []geoveloWaypoint{
			{Latitude: from.Lat, Longitude: from.Lon, Title: "Start"},
			{Latitude: to.Lat, Longitude: to.Lon, Title: "End"},
		},
		TransportModes: []string{mode},
	}
	if mode == transportModeBike {
		payload.BikeDetails = &geoveloBikeDetails{
			Profile:  "MEDIAN",
			BikeType: "BSS",
			EBike:    true,
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("geovelo: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.geoveloURL+"?instructions=false&elevations=false&geometry=true&single_result=true",
		bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("geovelo: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geovelo: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geovelo: unexpected status %d", resp.StatusCode)
	}

	// The response is a bare JSON array of routes.
	var routes []geoveloRoute
	if err := json.NewDecoder(resp.Body).Decode(&routes); err != nil {
		return nil, fmt.Errorf("geovelo: decode response: %w", err)
	}

	if len(routes) == 0 {
		return nil, ErrNoRoute
	}

	route := routes[0]
	journey := &model.StreetJourney{
		DurationMin: float64(route.Duration) / 60.0,
		DurationSec: route.Duration,
		DistanceKm:  route.Distances.Total / 1000.0,
	}

	// The geometry lives on the section matching the requested mode,
	// not at the top level.
	for _, s := range route.Sections {
		if s.TransportMode != mode || s.Geometry == "" {
			continue
		}
		path, err := decodePolyline6(s.Geometry)
		if err != nil {
			// A broken geometry shouldn't sink the whole journey;
			// durations and distances are still usable.
			break
		}
		journey.Path = path
		break
	}

	return journey, nil
}

// decodePolyline6 decodes a precision-6 polyline into Locations.
func decodePolyline6(geometry string) ([]model.Location, error) {
	coords, _, err := polyline6.DecodeCoords([]byte(geometry))
	if err != nil {
		return nil, fmt.Errorf("geovelo: decode polyline: %w", err)
	}

	path := make([]model.Location, 0, len(coords))
	for _, c := range coords {
		path = append(path, model.Location{Lat: c[0], Lon: c[1]})
	}
	return path, nil
}
