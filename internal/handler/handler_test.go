package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jumpseat/velometro/internal/service"
	"github.com/jumpseat/velometro/internal/tariff"
	"github.com/jumpseat/velometro/pkg/geocode"
)

func testRouter() *mux.Router {
	fareSvc := service.NewFareService(tariff.Defaults())
	quotesHandler := NewQuotesHandler(fareSvc)

	router := mux.NewRouter()
	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/providers", quotesHandler.ListProviders).Methods(http.MethodGet)
	api.HandleFunc("/quotes", quotesHandler.Quotes).Methods(http.MethodGet)
	return router
}

func TestQuotesEndpointReturnsFullMatrix(t *testing.T) {
	server := httptest.NewServer(testRouter())
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/quotes?duration_min=20")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		DurationMin float64 `json:"duration_min"`
		Quotes      []struct {
			Provider string  `json:"provider"`
			Option   string  `json:"option"`
			CostEUR  float64 `json:"cost_eur"`
		} `json:"quotes"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Equal(t, 20.0, body.DurationMin)

	// Built-in table: Voi, Dott, Lime each per-minute + one pass,
	// Velib' two tickets.
	require.Len(t, body.Quotes, 8)
	assert.Equal(t, "Voi", body.Quotes[0].Provider)
	assert.Equal(t, "Per-minute", body.Quotes[0].Option)
	// Voi: no unlock fee, 20 min at €0.25.
	assert.InDelta(t, 5.00, body.Quotes[0].CostEUR, 1e-9)

	for _, q := range body.Quotes {
		assert.GreaterOrEqual(t, q.CostEUR, 0.0)
	}
}

func TestQuotesEndpointRejectsBadDuration(t *testing.T) {
	server := httptest.NewServer(testRouter())
	defer server.Close()

	for _, query := range []string{"", "duration_min=abc", "duration_min=-5"} {
		url := server.URL + "/api/v1/quotes"
		if query != "" {
			url += "?" + query
		}
		resp, err := http.Get(url)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "query %q", query)
	}
}

func TestProvidersEndpointListsTariffs(t *testing.T) {
	server := httptest.NewServer(testRouter())
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/providers")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Providers []tariff.ProviderTariff `json:"providers"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	require.Len(t, body.Providers, 4)
	names := make([]string, 0, len(body.Providers))
	for _, p := range body.Providers {
		names = append(names, p.Provider)
	}
	assert.Equal(t, []string{"Voi", "Dott", "Lime", "Velib'"}, names)
}

// ─── Geocode handler ────────────────────────────────────────

type fakeSearcher struct {
	result *geocode.Result
	err    error
}

func (f *fakeSearcher) Search(ctx context.Context, address string) (*geocode.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func TestGeocodeEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		searcher   *fakeSearcher
		wantStatus int
	}{
		{
			name:       "found",
			query:      "?q=Louvre",
			searcher:   &fakeSearcher{result: &geocode.Result{Lat: 48.8606, Lon: 2.3376, DisplayName: "Louvre"}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing query",
			query:      "",
			searcher:   &fakeSearcher{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "not found",
			query:      "?q=nowhere",
			searcher:   &fakeSearcher{err: geocode.ErrNotFound},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewGeocodeHandler(tt.searcher)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/geocode"+tt.query, nil)
			rec := httptest.NewRecorder()
			h.Geocode(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus == http.StatusOK {
				var res geocode.Result
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
				assert.InDelta(t, 48.8606, res.Lat, 1e-9)
			}
		})
	}
}
