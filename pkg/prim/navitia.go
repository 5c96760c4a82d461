package prim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jumpseat/velometro/internal/model"
)

// ─── Navitia wire types ─────────────────────────────────────
// Only the fields the comparison consumes are decoded.

type navitiaResponse struct {
	Journeys []navitiaJourney `json:"journeys"`
}

type navitiaJourney struct {
	Duration    int              `json:"duration"`
	NbTransfers int              `json:"nb_transfers"`
	Sections    []navitiaSection `json:"sections"`
}

type navitiaSection struct {
	Type                string          `json:"type"`
	Duration            int             `json:"duration"`
	From                *navitiaPlace   `json:"from"`
	To                  *navitiaPlace   `json:"to"`
	GeoJSON             *navitiaGeoJSON `json:"geojson"`
	DisplayInformations *navitiaDisplay `json:"display_informations"`
}

type navitiaPlace struct {
	Name string `json:"name"`
}

type navitiaGeoJSON struct {
	// Coordinates are GeoJSON order: [lon, lat].
	Coordinates [][]float64 `json:"coordinates"`
}

type navitiaDisplay struct {
	Code string `json:"code"`
}

// ─── Journey planning ───────────────────────────────────────

// PlanTransit asks Navitia for the best public-transport journey and
// normalizes the first result: total duration, transfer count, a
// per-section time breakdown, the boarding/alighting stations, and
// section paths for display.
//
// Returns ErrNoJourney when Navitia has no itinerary for the pair.
func (c *Client) PlanTransit(ctx context.Context, from, to model.Location) (*model.TransitJourney, error) {
	// Navitia expects "lon;lat".
	params := url.Values{}
	params.Set("from", fmt.Sprintf("%f;%f", from.Lon, from.Lat))
	params.Set("to", fmt.Sprintf("%f;%f", to.Lon, to.Lat))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.navitiaURL+"/journeys?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("navitia: build request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("navitia: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("navitia: unexpected status %d", resp.StatusCode)
	}

	var payload navitiaResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("navitia: decode response: %w", err)
	}

	if len(payload.Journeys) == 0 {
		return nil, ErrNoJourney
	}

	return normalizeJourney(payload.Journeys[0]), nil
}

// normalizeJourney flattens a Navitia journey into the domain model,
// summing section durations by type and picking the first and last
// public-transport stations.
func normalizeJourney(j navitiaJourney) *model.TransitJourney {
	out := &model.TransitJourney{
		DurationMin: float64(j.Duration) / 60.0,
		DurationSec: j.Duration,
		Transfers:   j.NbTransfers,
	}

	for _, s := range j.Sections {
		secType := model.TransitSectionType(s.Type)

		switch secType {
		case model.SectionStreetNetwork:
			out.WalkingSec += s.Duration
		case model.SectionTransfer:
			out.TransferSec += s.Duration
		case model.SectionWaiting:
			out.WaitingSec += s.Duration
		case model.SectionPublicTransport:
			out.InVehicleSec += s.Duration
			if out.OriginStation == "" && s.From != nil {
				out.OriginStation = s.From.Name
			}
			if s.To != nil {
				out.DestinationStation = s.To.Name
			}
		default:
			// Section types we don't break down (crow_fly etc.) still
			// count toward the total duration Navitia already gave us.
			continue
		}

		sec := model.TransitSection{
			Type:        secType,
			DurationSec: s.Duration,
		}
		if s.DisplayInformations != nil {
			sec.LineCode = s.DisplayInformations.Code
		}
		if s.GeoJSON != nil {
			sec.Path = lonLatPath(s.GeoJSON.Coordinates)
		}
		out.Sections = append(out.Sections, sec)
	}

	return out
}

// lonLatPath converts GeoJSON [lon, lat] pairs into Locations.
func lonLatPath(coords [][]float64) []model.Location {
	if len(coords) == 0 {
		return nil
	}
	path := make([]model.Location, 0, len(coords))
	for _, c := range coords {
		if len(c) < 2 {
			continue
		}
		path = append(path, model.Location{Lat: c[1], Lon: c[0]})
	}
	return path
}
