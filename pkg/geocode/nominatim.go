// Package geocode resolves free-text addresses to coordinates using
// the OpenStreetMap Nominatim API.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ─── Errors ─────────────────────────────────────────────────

var (
	// ErrNotFound is returned when Nominatim has no result for the query.
	ErrNotFound = errors.New("geocode: address not found")
)

const (
	defaultBaseURL = "https://nominatim.openstreetmap.org"

	// Nominatim's usage policy requires an identifying User-Agent.
	userAgent = "velometro/1.0"
)

// Result is a geocoded address.
type Result struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"display_name"`
}

// Client queries Nominatim. Searches are scoped to one city by
// suffixing every query with the city name.
type Client struct {
	httpClient *http.Client
	baseURL    string
	citySuffix string
}

// NewClient creates a geocoding client scoped to the given city
// (e.g. "Paris, France").
func NewClient(city string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		citySuffix: city,
	}
}

// NewClientWithBaseURL is used by tests to point at a fake server.
func NewClientWithBaseURL(baseURL, city string) *Client {
	c := NewClient(city)
	c.baseURL = baseURL
	return c
}

// nominatimResult decodes the fields we use. Nominatim returns
// coordinates as strings.
type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Search geocodes a free-text address within the client's city.
// Returns ErrNotFound when there is no match.
func (c *Client) Search(ctx context.Context, address string) (*Result, error) {
	params := url.Values{}
	params.Set("q", address+", "+c.citySuffix)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("geocode: build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode: unexpected status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("geocode: decode response: %w", err)
	}

	if len(results) == 0 {
		return nil, ErrNotFound
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("geocode: bad latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("geocode: bad longitude %q: %w", results[0].Lon, err)
	}

	return &Result{Lat: lat, Lon: lon, DisplayName: results[0].DisplayName}, nil
}
