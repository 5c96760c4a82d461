// Package tariff defines the static pricing configuration for shared
// e-bike providers.
//
// A tariff is loaded once at process start (from Postgres when
// available, otherwise from the built-in Paris table) and never
// mutated afterwards, so it is safe to share across goroutines.
package tariff

import "fmt"

// ─── Bundle variants ────────────────────────────────────────

// BundleKind tags the two prepaid bundle variants. All pricing
// dispatch happens on this tag, never on the provider name.
type BundleKind string

const (
	// TimeBundle is a prepaid allotment of minutes. Trips that fit are
	// prorated to actual usage; excess minutes bill at the provider's
	// per-minute rate.
	TimeBundle BundleKind = "time"

	// RideBundle is a ticket for one or more discrete rides with a
	// per-ride time cap. Usage beyond the cap bills in fixed overage
	// blocks.
	RideBundle BundleKind = "ride"
)

// Bundle is one prepaid option in a provider's tariff.
//
// TimeBundle uses Name, MinutesIncluded, PriceEUR.
// RideBundle additionally uses OverageBlockMin, OverageBlockEUR and
// TripsIncluded (1 = single-ride ticket, N > 1 = multi-ride pass).
type Bundle struct {
	Kind            BundleKind `json:"kind"`
	Name            string     `json:"name"`
	MinutesIncluded float64    `json:"minutes_included"`
	PriceEUR        float64    `json:"price_eur"`
	OverageBlockMin float64    `json:"overage_block_min,omitempty"`
	OverageBlockEUR float64    `json:"overage_block_eur,omitempty"`
	TripsIncluded   int        `json:"trips_included,omitempty"`
}

// ─── Provider tariff ────────────────────────────────────────

// ProviderTariff is one provider's complete pricing configuration.
//
// PerMinuteEUR is nil when the provider offers no pure per-minute
// billing (bundles only).
type ProviderTariff struct {
	Provider     string   `json:"provider"`
	UnlockEUR    float64  `json:"unlock_eur"`
	PerMinuteEUR *float64 `json:"per_minute_eur,omitempty"`
	Bundles      []Bundle `json:"bundles,omitempty"`
}

// Validate checks that the tariff is well-formed. Malformed tariffs
// are a configuration-load error, never a runtime concern of the fare
// calculator.
func (t ProviderTariff) Validate() error {
	if t.Provider == "" {
		return fmt.Errorf("tariff: provider name is empty")
	}
	if t.UnlockEUR < 0 {
		return fmt.Errorf("tariff %s: negative unlock fee", t.Provider)
	}
	if t.PerMinuteEUR != nil && *t.PerMinuteEUR < 0 {
		return fmt.Errorf("tariff %s: negative per-minute rate", t.Provider)
	}

	for i, b := range t.Bundles {
		if b.MinutesIncluded <= 0 {
			return fmt.Errorf("tariff %s: bundle %d: minutes_included must be positive", t.Provider, i)
		}
		if b.PriceEUR < 0 {
			return fmt.Errorf("tariff %s: bundle %d: negative price", t.Provider, i)
		}

		switch b.Kind {
		case TimeBundle:
			// Overage on a time bundle bills at the per-minute rate,
			// so one must exist.
			if t.PerMinuteEUR == nil {
				return fmt.Errorf("tariff %s: bundle %d: time bundle requires a per-minute rate", t.Provider, i)
			}
		case RideBundle:
			if b.TripsIncluded < 1 {
				return fmt.Errorf("tariff %s: bundle %d: trips_included must be at least 1", t.Provider, i)
			}
			if b.OverageBlockMin <= 0 {
				return fmt.Errorf("tariff %s: bundle %d: overage_block_min must be positive", t.Provider, i)
			}
			if b.OverageBlockEUR < 0 {
				return fmt.Errorf("tariff %s: bundle %d: negative overage block price", t.Provider, i)
			}
		default:
			return fmt.Errorf("tariff %s: bundle %d: unknown kind %q", t.Provider, i, b.Kind)
		}
	}

	return nil
}

// ValidateAll validates a whole tariff table.
func ValidateAll(tariffs []ProviderTariff) error {
	seen := make(map[string]bool, len(tariffs))
	for _, t := range tariffs {
		if err := t.Validate(); err != nil {
			return err
		}
		if seen[t.Provider] {
			return fmt.Errorf("tariff: duplicate provider %q", t.Provider)
		}
		seen[t.Provider] = true
	}
	return nil
}

// ─── Built-in Paris table ───────────────────────────────────

func perMin(v float64) *float64 { return &v }

// Defaults returns the built-in Paris provider table, used when no
// tariff rows exist in Postgres. Prices as of late 2025.
func Defaults() []ProviderTariff {
	return []ProviderTariff{
		{
			Provider:     "Voi",
			UnlockEUR:    0.00,
			PerMinuteEUR: perMin(0.25),
			Bundles: []Bundle{
				{Kind: TimeBundle, Name: "30 min pass", MinutesIncluded: 30, PriceEUR: 3.00},
			},
		},
		{
			Provider:     "Dott",
			UnlockEUR:    1.00,
			PerMinuteEUR: perMin(0.35),
			Bundles: []Bundle{
				{Kind: TimeBundle, Name: "30 min pass", MinutesIncluded: 30, PriceEUR: 3.90},
			},
		},
		{
			Provider:     "Lime",
			UnlockEUR:    1.00,
			PerMinuteEUR: perMin(0.28),
			Bundles: []Bundle{
				{Kind: TimeBundle, Name: "30 min pass", MinutesIncluded: 30, PriceEUR: 3.90},
			},
		},
		{
			// Velib' has no per-minute billing: tickets and passes only,
			// with overage billed in 30-minute blocks past the 45-minute
			// per-ride cap.
			Provider:  "Velib'",
			UnlockEUR: 0.00,
			Bundles: []Bundle{
				{
					Kind:            RideBundle,
					Name:            "Ticket V",
					MinutesIncluded: 45,
					PriceEUR:        3.00,
					OverageBlockMin: 30,
					OverageBlockEUR: 2.00,
					TripsIncluded:   1,
				},
				{
					Kind:            RideBundle,
					Name:            "24h Pass",
					MinutesIncluded: 45,
					PriceEUR:        10.00,
					OverageBlockMin: 30,
					OverageBlockEUR: 2.00,
					TripsIncluded:   5,
				},
			},
		},
	}
}
