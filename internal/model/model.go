// Package model contains domain models for the metro vs e-bike
// comparison service.
package model

// ─── Location ───────────────────────────────────────────────

// Location represents a WGS-84 geographic point (EPSG:4326).
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ─── Fare quotes ────────────────────────────────────────────

// QuoteKind identifies which tariff option produced a quote.
type QuoteKind string

const (
	// QuotePerMinute is plain unlock-fee + per-minute billing.
	QuotePerMinute QuoteKind = "per_minute"
	// QuoteTimeBundle is a prepaid allotment of minutes.
	QuoteTimeBundle QuoteKind = "time_bundle"
	// QuoteRideBundle is a single- or multi-ride ticket.
	QuoteRideBundle QuoteKind = "ride_bundle"
)

// AllowanceKind says what the Remaining field of a quote counts.
type AllowanceKind string

const (
	AllowanceNone    AllowanceKind = "none"
	AllowanceMinutes AllowanceKind = "minutes"
	AllowanceRides   AllowanceKind = "rides"
)

// PriceQuote is one priced option for a given trip duration.
//
// Remaining is meaningful only when Allowance is not AllowanceNone:
// leftover minutes on a time bundle, or leftover rides on a ticket.
type PriceQuote struct {
	Provider  string        `json:"provider"`
	Option    string        `json:"option"`
	Kind      QuoteKind     `json:"kind"`
	CostEUR   float64       `json:"cost_eur"`
	Allowance AllowanceKind `json:"allowance_kind"`
	Remaining float64       `json:"remaining,omitempty"`

	// CapMinutes is the bundle's included minutes (0 for per-minute
	// quotes). Used by the short-trip filter in the recommendation.
	CapMinutes float64 `json:"cap_minutes,omitempty"`
}

// ─── Journeys ───────────────────────────────────────────────

// TransitSectionType mirrors the Navitia journey section types.
type TransitSectionType string

const (
	SectionStreetNetwork   TransitSectionType = "street_network"
	SectionTransfer        TransitSectionType = "transfer"
	SectionPublicTransport TransitSectionType = "public_transport"
	SectionWaiting         TransitSectionType = "waiting"
)

// TransitSection is one leg of a metro journey, with its path for
// display when Navitia provides one.
type TransitSection struct {
	Type        TransitSectionType `json:"type"`
	DurationSec int                `json:"duration_sec"`
	LineCode    string             `json:"line_code,omitempty"`
	Path        []Location         `json:"path,omitempty"`
}

// TransitJourney is the metro option returned by Navitia.
type TransitJourney struct {
	DurationMin        float64          `json:"duration_min"`
	DurationSec        int              `json:"duration_sec"`
	Transfers          int              `json:"transfers"`
	FareEUR            float64          `json:"fare_eur"`
	WalkingSec         int              `json:"walking_sec"`
	TransferSec        int              `json:"transfer_sec"`
	InVehicleSec       int              `json:"in_vehicle_sec"`
	WaitingSec         int              `json:"waiting_sec"`
	OriginStation      string           `json:"origin_station,omitempty"`
	DestinationStation string           `json:"destination_station,omitempty"`
	Sections           []TransitSection `json:"sections,omitempty"`
}

// StreetJourney is a bike or walking route returned by Geovelo.
// Path is the decoded route geometry, ready to draw.
type StreetJourney struct {
	DurationMin float64    `json:"duration_min"`
	DurationSec int        `json:"duration_sec"`
	DistanceKm  float64    `json:"distance_km"`
	Path        []Location `json:"path,omitempty"`
}

// ─── Comparison ─────────────────────────────────────────────

// Recommendation is the final verdict of a comparison.
type Recommendation string

const (
	RecommendBike  Recommendation = "bike"
	RecommendMetro Recommendation = "metro"
)

// Comparison is the full result document for one origin/destination pair.
type Comparison struct {
	Origin      Location `json:"origin"`
	Destination Location `json:"destination"`
	CrowFlyKm   float64  `json:"crow_fly_km"`

	Metro *TransitJourney `json:"metro"`
	Bike  *StreetJourney  `json:"bike"`
	Walk  *StreetJourney  `json:"walk,omitempty"`

	// WalkToBikeMin is the time to reach the nearest available bike.
	// It counts toward the time comparison but never toward fares.
	WalkToBikeMin float64 `json:"walk_to_bike_min"`
	TotalBikeMin  float64 `json:"total_bike_min"`

	Quotes []PriceQuote `json:"quotes"`

	CheapestEUR       float64  `json:"cheapest_eur"`
	CheapestProviders []string `json:"cheapest_providers"`

	// CheaperCount / ComparableCount cover per-minute and time-bundle
	// quotes only; ride bundles are excluded from the metro comparison.
	CheaperCount    int `json:"cheaper_count"`
	ComparableCount int `json:"comparable_count"`

	// TimeDiffMin is total bike time minus metro time; negative means
	// the bike is faster.
	TimeDiffMin float64 `json:"time_diff_min"`

	Recommendation Recommendation `json:"recommendation"`
}
