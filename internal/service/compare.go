package service

import (
	"context"
	"errors"
	"log"

	"github.com/jumpseat/velometro/config"
	"github.com/jumpseat/velometro/internal/model"
	"github.com/jumpseat/velometro/pkg/geo"
	"github.com/jumpseat/velometro/pkg/prim"
)

// ─── Errors ─────────────────────────────────────────────────

var (
	ErrInvalidLocation = errors.New("origin and destination must be valid coordinates")
	ErrSameLocation    = errors.New("origin and destination are the same point")
	ErrNoMetroRoute    = errors.New("no metro journey found for this trip")
	ErrNoBikeRoute     = errors.New("no cycling route found for this trip")
)

// ─── Collaborator interfaces ────────────────────────────────

// TransitPlanner plans public-transport journeys (Navitia).
type TransitPlanner interface {
	PlanTransit(ctx context.Context, from, to model.Location) (*model.TransitJourney, error)
}

// StreetPlanner plans bike and pedestrian routes (Geovelo).
type StreetPlanner interface {
	PlanBike(ctx context.Context, from, to model.Location) (*model.StreetJourney, error)
	PlanWalk(ctx context.Context, from, to model.Location) (*model.StreetJourney, error)
}

// ComparisonCache caches finished comparisons keyed by trip endpoints.
type ComparisonCache interface {
	Get(ctx context.Context, origin, dest model.Location, walkToBikeMeters float64) (*model.Comparison, bool)
	Set(ctx context.Context, origin, dest model.Location, walkToBikeMeters float64, cmp *model.Comparison)
}

// ─── CompareService ─────────────────────────────────────────

// CompareService builds the full metro vs e-bike vs walking comparison
// for one trip.
//
// Flow:
//  1. Validate the endpoints.
//  2. Serve from cache when the same trip was compared recently.
//  3. Fetch metro, bike, and walking routes from the external planners.
//     A missing walking route only degrades the result; missing metro
//     or bike routes fail the comparison.
//  4. Price the cycling time across every provider tariff.
//  5. Aggregate: cheapest options, cheaper-than-metro counts, time
//     difference, final recommendation.
//
// Fares always use pure cycling time; the walk-to-bike estimate only
// shifts the time comparison.
type CompareService struct {
	transit TransitPlanner
	street  StreetPlanner
	fares   *FareService
	cache   ComparisonCache // may be nil
	cfg     config.CompareConfig
}

// NewCompareService wires the comparison service. cache may be nil to
// disable caching.
func NewCompareService(
	transit TransitPlanner,
	street StreetPlanner,
	fares *FareService,
	cache ComparisonCache,
	cfg config.CompareConfig,
) *CompareService {
	return &CompareService{
		transit: transit,
		street:  street,
		fares:   fares,
		cache:   cache,
		cfg:     cfg,
	}
}

// Compare compares the trip from origin to destination.
// walkToBikeMeters is the caller's estimate of how far they must walk
// to find an available bike.
func (s *CompareService) Compare(
	ctx context.Context,
	origin, destination model.Location,
	walkToBikeMeters float64,
) (*model.Comparison, error) {

	if !validLocation(origin) || !validLocation(destination) || walkToBikeMeters < 0 {
		return nil, ErrInvalidLocation
	}

	crowFlyKm := geo.HaversineKm(origin, destination)
	if crowFlyKm < 0.01 {
		return nil, ErrSameLocation
	}

	if !geo.InParis(origin) || !geo.InParis(destination) {
		// The provider tariff table is Paris-specific; still answer,
		// but flag it.
		log.Printf("[compare] trip (%.4f,%.4f)→(%.4f,%.4f) leaves the Paris boundary",
			origin.Lat, origin.Lon, destination.Lat, destination.Lon)
	}

	// ── Cache fast path ─────────────────────────────────
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, origin, destination, walkToBikeMeters); ok {
			log.Printf("[compare] cache hit for (%.4f,%.4f)→(%.4f,%.4f)",
				origin.Lat, origin.Lon, destination.Lat, destination.Lon)
			return cached, nil
		}
	}

	// ── External routing ────────────────────────────────
	metro, err := s.transit.PlanTransit(ctx, origin, destination)
	if err != nil {
		if errors.Is(err, prim.ErrNoJourney) {
			return nil, ErrNoMetroRoute
		}
		return nil, err
	}
	metro.FareEUR = s.cfg.MetroFareEUR

	bike, err := s.street.PlanBike(ctx, origin, destination)
	if err != nil {
		if errors.Is(err, prim.ErrNoRoute) {
			return nil, ErrNoBikeRoute
		}
		return nil, err
	}

	walk, err := s.street.PlanWalk(ctx, origin, destination)
	if err != nil {
		// Walking is the free baseline, not a required leg.
		log.Printf("[compare] walking route unavailable: %v", err)
		walk = nil
	}

	// ── Fares and aggregation ───────────────────────────
	quotes, err := s.fares.ComputeAllQuotes(bike.DurationMin)
	if err != nil {
		return nil, err
	}

	walkToBikeMin := geo.WalkMinutes(walkToBikeMeters, s.cfg.WalkSpeedMPS)
	totalBikeMin := bike.DurationMin + walkToBikeMin

	cheapest, cheapestProviders := Cheapest(quotes, s.cfg.TieToleranceEUR)
	cheaper, comparable := CountCheaper(quotes, s.cfg.MetroFareEUR)

	recommendation := model.RecommendMetro
	if PracticallyCheaper(quotes, s.cfg.MetroFareEUR, s.cfg.ShortTripThresholdMin) {
		recommendation = model.RecommendBike
	}

	cmp := &model.Comparison{
		Origin:            origin,
		Destination:       destination,
		CrowFlyKm:         crowFlyKm,
		Metro:             metro,
		Bike:              bike,
		Walk:              walk,
		WalkToBikeMin:     walkToBikeMin,
		TotalBikeMin:      totalBikeMin,
		Quotes:            quotes,
		CheapestEUR:       cheapest,
		CheapestProviders: cheapestProviders,
		CheaperCount:      cheaper,
		ComparableCount:   comparable,
		TimeDiffMin:       totalBikeMin - metro.DurationMin,
		Recommendation:    recommendation,
	}

	log.Printf("[compare] metro %.1f min / €%.2f vs bike %.1f min / €%.2f from %v → %s",
		metro.DurationMin, metro.FareEUR, totalBikeMin, cheapest, cheapestProviders, recommendation)

	if s.cache != nil {
		s.cache.Set(ctx, origin, destination, walkToBikeMeters, cmp)
	}

	return cmp, nil
}

func validLocation(l model.Location) bool {
	return l.Lat >= -90 && l.Lat <= 90 && l.Lon >= -180 && l.Lon <= 180
}
