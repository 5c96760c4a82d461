package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jumpseat/velometro/config"
	"github.com/jumpseat/velometro/internal/model"
	"github.com/jumpseat/velometro/internal/tariff"
	"github.com/jumpseat/velometro/pkg/prim"
)

// ─── Fakes ──────────────────────────────────────────────────

type fakeTransit struct {
	journey *model.TransitJourney
	err     error
	calls   int
}

func (f *fakeTransit) PlanTransit(ctx context.Context, from, to model.Location) (*model.TransitJourney, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	j := *f.journey
	return &j, nil
}

type fakeStreet struct {
	bike    *model.StreetJourney
	walk    *model.StreetJourney
	bikeErr error
	walkErr error
}

func (f *fakeStreet) PlanBike(ctx context.Context, from, to model.Location) (*model.StreetJourney, error) {
	if f.bikeErr != nil {
		return nil, f.bikeErr
	}
	j := *f.bike
	return &j, nil
}

func (f *fakeStreet) PlanWalk(ctx context.Context, from, to model.Location) (*model.StreetJourney, error) {
	if f.walkErr != nil {
		return nil, f.walkErr
	}
	j := *f.walk
	return &j, nil
}

type fakeCache struct {
	stored *model.Comparison
	hits   int
}

func (f *fakeCache) Get(ctx context.Context, origin, dest model.Location, walkM float64) (*model.Comparison, bool) {
	if f.stored != nil {
		f.hits++
		return f.stored, true
	}
	return nil, false
}

func (f *fakeCache) Set(ctx context.Context, origin, dest model.Location, walkM float64, cmp *model.Comparison) {
	f.stored = cmp
}

// ─── Fixtures ───────────────────────────────────────────────

var (
	louvre = model.Location{Lat: 48.8606, Lon: 2.3376}
	nation = model.Location{Lat: 48.8484, Lon: 2.3958}
)

func compareConfig() config.CompareConfig {
	return config.CompareConfig{
		MetroFareEUR:          2.50,
		TieToleranceEUR:       0.01,
		ShortTripThresholdMin: 60,
		WalkSpeedMPS:          1.4,
	}
}

func newCompareService(transit TransitPlanner, street StreetPlanner, tariffs []tariff.ProviderTariff, cache ComparisonCache) *CompareService {
	return NewCompareService(transit, street, NewFareService(tariffs), cache, compareConfig())
}

// ─── Tests ──────────────────────────────────────────────────

func TestCompare_RecommendsBikeWhenPracticallyCheaper(t *testing.T) {
	transit := &fakeTransit{journey: &model.TransitJourney{DurationMin: 25, DurationSec: 1500}}
	street := &fakeStreet{
		// 5-minute ride: Voi per-minute = 1 + 5*0.19 = 1.95 < 2.50.
		bike: &model.StreetJourney{DurationMin: 5, DurationSec: 300, DistanceKm: 1.2},
		walk: &model.StreetJourney{DurationMin: 18, DurationSec: 1080, DistanceKm: 1.5},
	}

	s := newCompareService(transit, street, []tariff.ProviderTariff{voiTariff()}, nil)

	cmp, err := s.Compare(context.Background(), louvre, nation, 0)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}

	if cmp.Recommendation != model.RecommendBike {
		t.Errorf("recommendation = %v, want bike", cmp.Recommendation)
	}
	if cmp.Metro.FareEUR != 2.50 {
		t.Errorf("metro fare = %v, want the configured 2.50", cmp.Metro.FareEUR)
	}
	if cmp.CheaperCount != 2 || cmp.ComparableCount != 2 {
		// Per-minute 1.95 and prorated pass 2.99*5/30 both beat 2.50.
		t.Errorf("cheaper/comparable = %d/%d, want 2/2", cmp.CheaperCount, cmp.ComparableCount)
	}
	if cmp.TimeDiffMin >= 0 {
		t.Errorf("time diff = %v, want negative (bike faster)", cmp.TimeDiffMin)
	}
	if cmp.Walk == nil {
		t.Errorf("walking baseline missing")
	}
}

func TestCompare_RideBundlesAloneDoNotFlipRecommendation(t *testing.T) {
	transit := &fakeTransit{journey: &model.TransitJourney{DurationMin: 20}}
	street := &fakeStreet{
		// 40-minute ride: Velib' 24h Pass per-ride share is 2.00 < 2.50,
		// but a day pass is not a single-trip comparison.
		bike: &model.StreetJourney{DurationMin: 40},
		walk: &model.StreetJourney{DurationMin: 90},
	}

	s := newCompareService(transit, street, []tariff.ProviderTariff{velibTariff()}, nil)

	cmp, err := s.Compare(context.Background(), louvre, nation, 0)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}

	if cmp.Recommendation != model.RecommendMetro {
		t.Errorf("recommendation = %v, want metro (only ride bundles undercut it)", cmp.Recommendation)
	}
	if cmp.ComparableCount != 0 {
		t.Errorf("comparable = %d, want 0 (ride bundles excluded)", cmp.ComparableCount)
	}
	if cmp.CheapestEUR != 2.00 {
		t.Errorf("cheapest = %v, want 2.00 (the pass still wins the price table)", cmp.CheapestEUR)
	}
}

func TestCompare_WalkToBikeShiftsTimeOnly(t *testing.T) {
	transit := &fakeTransit{journey: &model.TransitJourney{DurationMin: 12}}
	street := &fakeStreet{
		bike: &model.StreetJourney{DurationMin: 10},
		walk: &model.StreetJourney{DurationMin: 30},
	}

	s := newCompareService(transit, street, []tariff.ProviderTariff{voiTariff()}, nil)

	// 420 m at 1.4 m/s = 5 minutes of walking to the bike.
	cmp, err := s.Compare(context.Background(), louvre, nation, 420)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}

	if got := cmp.WalkToBikeMin; got < 4.99 || got > 5.01 {
		t.Errorf("walk-to-bike = %v min, want 5", got)
	}
	if got := cmp.TotalBikeMin; got < 14.99 || got > 15.01 {
		t.Errorf("total bike = %v min, want 15", got)
	}
	if got := cmp.TimeDiffMin; got < 2.99 || got > 3.01 {
		t.Errorf("time diff = %v, want 3 (metro faster)", got)
	}

	// Fares must be priced on the 10 cycling minutes, not 15:
	// per-minute = 1.00 + 10*0.19 = 2.90.
	if got := cmp.Quotes[0].CostEUR; got < 2.899 || got > 2.901 {
		t.Errorf("per-minute quote = %v, want 2.90 (cycling time only)", got)
	}
}

func TestCompare_MissingWalkDegrades(t *testing.T) {
	transit := &fakeTransit{journey: &model.TransitJourney{DurationMin: 15}}
	street := &fakeStreet{
		bike:    &model.StreetJourney{DurationMin: 9},
		walkErr: prim.ErrNoRoute,
	}

	s := newCompareService(transit, street, []tariff.ProviderTariff{voiTariff()}, nil)

	cmp, err := s.Compare(context.Background(), louvre, nation, 0)
	if err != nil {
		t.Fatalf("Compare() error = %v, want walking to degrade silently", err)
	}
	if cmp.Walk != nil {
		t.Errorf("walk = %v, want nil", cmp.Walk)
	}
}

func TestCompare_RouteErrors(t *testing.T) {
	tests := []struct {
		name    string
		transit *fakeTransit
		street  *fakeStreet
		wantErr error
	}{
		{
			name:    "no metro journey",
			transit: &fakeTransit{err: prim.ErrNoJourney},
			street:  &fakeStreet{bike: &model.StreetJourney{DurationMin: 9}, walk: &model.StreetJourney{DurationMin: 20}},
			wantErr: ErrNoMetroRoute,
		},
		{
			name:    "no bike route",
			transit: &fakeTransit{journey: &model.TransitJourney{DurationMin: 15}},
			street:  &fakeStreet{bikeErr: prim.ErrNoRoute, walk: &model.StreetJourney{DurationMin: 20}},
			wantErr: ErrNoBikeRoute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newCompareService(tt.transit, tt.street, []tariff.ProviderTariff{voiTariff()}, nil)
			_, err := s.Compare(context.Background(), louvre, nation, 0)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Compare() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCompare_InputValidation(t *testing.T) {
	s := newCompareService(&fakeTransit{}, &fakeStreet{}, nil, nil)

	if _, err := s.Compare(context.Background(), model.Location{Lat: 91}, nation, 0); !errors.Is(err, ErrInvalidLocation) {
		t.Errorf("out-of-range latitude: error = %v, want ErrInvalidLocation", err)
	}
	if _, err := s.Compare(context.Background(), louvre, nation, -1); !errors.Is(err, ErrInvalidLocation) {
		t.Errorf("negative walk distance: error = %v, want ErrInvalidLocation", err)
	}
	if _, err := s.Compare(context.Background(), louvre, louvre, 0); !errors.Is(err, ErrSameLocation) {
		t.Errorf("same endpoints: error = %v, want ErrSameLocation", err)
	}
}

func TestCompare_CacheRoundTrip(t *testing.T) {
	transit := &fakeTransit{journey: &model.TransitJourney{DurationMin: 15}}
	street := &fakeStreet{
		bike: &model.StreetJourney{DurationMin: 9},
		walk: &model.StreetJourney{DurationMin: 25},
	}
	cache := &fakeCache{}

	s := newCompareService(transit, street, []tariff.ProviderTariff{voiTariff()}, cache)

	first, err := s.Compare(context.Background(), louvre, nation, 0)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if cache.stored == nil {
		t.Fatalf("comparison was not cached")
	}

	second, err := s.Compare(context.Background(), louvre, nation, 0)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}

	if cache.hits != 1 {
		t.Errorf("cache hits = %d, want 1", cache.hits)
	}
	if transit.calls != 1 {
		t.Errorf("transit planner called %d times, want 1 (second call served from cache)", transit.calls)
	}
	if second != first && second != cache.stored {
		t.Errorf("second call did not return the cached comparison")
	}
}
