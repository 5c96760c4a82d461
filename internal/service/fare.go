// Package service contains the core business logic for the metro vs
// e-bike comparison.
package service

import (
	"errors"
	"fmt"
	"math"

	"github.com/jumpseat/velometro/internal/model"
	"github.com/jumpseat/velometro/internal/tariff"
)

// ─── Errors ─────────────────────────────────────────────────

var (
	// ErrInvalidDuration is returned for negative or non-finite trip
	// durations. Fare math on such input would silently produce
	// negative costs, so it fails fast instead.
	ErrInvalidDuration = errors.New("trip duration must be a finite, non-negative number of minutes")
)

// ─── FareService ────────────────────────────────────────────

// FareService computes every applicable price for a cycling trip under
// every configured pricing scheme: per-minute billing, prepaid time
// bundles, and single/multi-ride tickets.
//
// The service is pure: it only reads the immutable tariff table and
// allocates a fresh result per call, so it is safe for concurrent use
// without locking.
type FareService struct {
	tariffs []tariff.ProviderTariff
}

// NewFareService creates a fare service over a validated tariff table.
func NewFareService(tariffs []tariff.ProviderTariff) *FareService {
	return &FareService{tariffs: tariffs}
}

// Tariffs returns the loaded tariff table.
func (s *FareService) Tariffs() []tariff.ProviderTariff {
	return s.tariffs
}

// ComputeQuotes returns one quote per pricing option of the given
// tariff, in configuration order:
//
//  1. A "Per-minute" quote when the provider bills per minute:
//     unlock fee + minutes × rate. No allowance.
//  2. One quote per bundle:
//     - Time bundle, trip fits (boundary inclusive): cost is prorated
//       to actual usage, leftover minutes are reported.
//     - Time bundle, trip exceeds: full bundle price plus excess
//       minutes at the per-minute rate. Nothing left over.
//     - Ride bundle: per-ride share of the ticket price plus
//       ceil-rounded overage blocks past the per-ride cap; leftover
//       rides are reported. A one-trip ticket is just the degenerate
//       case.
//
// The order carries no cost ranking; it mirrors how providers list
// their options.
func (s *FareService) ComputeQuotes(durationMin float64, t tariff.ProviderTariff) ([]model.PriceQuote, error) {
	if durationMin < 0 || math.IsNaN(durationMin) || math.IsInf(durationMin, 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidDuration, durationMin)
	}

	quotes := make([]model.PriceQuote, 0, len(t.Bundles)+1)

	if t.PerMinuteEUR != nil {
		quotes = append(quotes, model.PriceQuote{
			Provider:  t.Provider,
			Option:    "Per-minute",
			Kind:      model.QuotePerMinute,
			CostEUR:   t.UnlockEUR + durationMin**t.PerMinuteEUR,
			Allowance: model.AllowanceNone,
		})
	}

	for _, b := range t.Bundles {
		switch b.Kind {
		case tariff.TimeBundle:
			quotes = append(quotes, timeBundleQuote(durationMin, t, b))
		case tariff.RideBundle:
			quotes = append(quotes, rideBundleQuote(durationMin, t, b))
		}
	}

	return quotes, nil
}

// ComputeAllQuotes flattens quotes across the whole tariff table.
func (s *FareService) ComputeAllQuotes(durationMin float64) ([]model.PriceQuote, error) {
	var all []model.PriceQuote
	for _, t := range s.tariffs {
		quotes, err := s.ComputeQuotes(durationMin, t)
		if err != nil {
			return nil, err
		}
		all = append(all, quotes...)
	}
	return all, nil
}

func timeBundleQuote(durationMin float64, t tariff.ProviderTariff, b tariff.Bundle) model.PriceQuote {
	q := model.PriceQuote{
		Provider:   t.Provider,
		Option:     b.Name,
		Kind:       model.QuoteTimeBundle,
		Allowance:  model.AllowanceMinutes,
		CapMinutes: b.MinutesIncluded,
	}

	if durationMin <= b.MinutesIncluded {
		// Trip fits in the bundle, prorate to actual usage.
		q.CostEUR = b.PriceEUR * durationMin / b.MinutesIncluded
		q.Remaining = b.MinutesIncluded - durationMin
	} else {
		// Full bundle consumed; marginal minutes at the per-minute
		// rate (Validate guarantees one exists).
		q.CostEUR = b.PriceEUR + (durationMin-b.MinutesIncluded)**t.PerMinuteEUR
		q.Remaining = 0
	}

	return q
}

func rideBundleQuote(durationMin float64, t tariff.ProviderTariff, b tariff.Bundle) model.PriceQuote {
	blocks := 0.0
	if durationMin > b.MinutesIncluded {
		blocks = math.Ceil((durationMin - b.MinutesIncluded) / b.OverageBlockMin)
	}

	return model.PriceQuote{
		Provider:   t.Provider,
		Option:     b.Name,
		Kind:       model.QuoteRideBundle,
		CostEUR:    b.PriceEUR/float64(b.TripsIncluded) + blocks*b.OverageBlockEUR,
		Allowance:  model.AllowanceRides,
		Remaining:  float64(b.TripsIncluded - 1),
		CapMinutes: b.MinutesIncluded,
	}
}

// ─── Cross-provider aggregation ─────────────────────────────

// Cheapest returns the minimum quote cost and the providers offering
// it. Costs within tolEUR of the minimum tie; each provider is listed
// once, in quote order.
func Cheapest(quotes []model.PriceQuote, tolEUR float64) (float64, []string) {
	if len(quotes) == 0 {
		return 0, nil
	}

	minCost := quotes[0].CostEUR
	for _, q := range quotes[1:] {
		if q.CostEUR < minCost {
			minCost = q.CostEUR
		}
	}

	seen := make(map[string]bool)
	var providers []string
	for _, q := range quotes {
		if math.Abs(q.CostEUR-minCost) < tolEUR && !seen[q.Provider] {
			seen[q.Provider] = true
			providers = append(providers, q.Provider)
		}
	}

	return minCost, providers
}

// comparableToFixedFare reports whether a quote belongs in the
// single-trip comparison against the fixed metro fare. Per-minute
// quotes always do; time bundles only when their cap is under the
// short-trip threshold; ride bundles never: buying a multi-ride or
// day pass for one trip is not a like-for-like comparison.
func comparableToFixedFare(q model.PriceQuote, shortTripThresholdMin float64) bool {
	switch q.Kind {
	case model.QuotePerMinute:
		return true
	case model.QuoteTimeBundle:
		return q.CapMinutes < shortTripThresholdMin
	default:
		return false
	}
}

// PracticallyCheaper reports whether at least one practical quote,
// per the comparableToFixedFare policy, undercuts the reference fare.
func PracticallyCheaper(quotes []model.PriceQuote, referenceFareEUR, shortTripThresholdMin float64) bool {
	for _, q := range quotes {
		if comparableToFixedFare(q, shortTripThresholdMin) && q.CostEUR < referenceFareEUR {
			return true
		}
	}
	return false
}

// CountCheaper returns how many non-ride-bundle quotes undercut the
// reference fare, and how many were compared at all.
func CountCheaper(quotes []model.PriceQuote, referenceFareEUR float64) (cheaper, comparable int) {
	for _, q := range quotes {
		if q.Kind == model.QuoteRideBundle {
			continue
		}
		comparable++
		if q.CostEUR < referenceFareEUR {
			cheaper++
		}
	}
	return cheaper, comparable
}
