// Package repository provides Postgres access to the provider tariff
// table and Redis caching for computed comparisons.
//
// Tariffs are read once at boot; nothing here writes at runtime.
package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jumpseat/velometro/internal/tariff"
)

// TariffRepository loads provider tariffs from PostgreSQL.
// Schema lives in migrations/001_create_tariffs.up.sql.
type TariffRepository struct {
	pool *pgxpool.Pool
}

// NewTariffRepository creates a repository backed by the given PG pool.
func NewTariffRepository(pool *pgxpool.Pool) *TariffRepository {
	return &TariffRepository{pool: pool}
}

// LoadTariffs reads the full provider tariff table, bundles included,
// in display order. Returns an empty slice when no providers are
// configured; the caller decides whether to fall back to the built-in
// table.
func (r *TariffRepository) LoadTariffs(ctx context.Context) ([]tariff.ProviderTariff, error) {
	providerQuery := `
		SELECT name, unlock_eur, per_minute_eur
		FROM providers
		ORDER BY display_order, name
	`

	rows, err := r.pool.Query(ctx, providerQuery)
	if err != nil {
		return nil, fmt.Errorf("load providers: %w", err)
	}
	defer rows.Close()

	var tariffs []tariff.ProviderTariff
	index := make(map[string]int)

	for rows.Next() {
		var t tariff.ProviderTariff
		if err := rows.Scan(&t.Provider, &t.UnlockEUR, &t.PerMinuteEUR); err != nil {
			return nil, fmt.Errorf("scan provider: %w", err)
		}
		index[t.Provider] = len(tariffs)
		tariffs = append(tariffs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate providers: %w", err)
	}

	if len(tariffs) == 0 {
		return nil, nil
	}

	bundleQuery := `
		SELECT provider, kind, name, minutes_included, price_eur,
		       COALESCE(overage_block_min, 0),
		       COALESCE(overage_block_eur, 0),
		       COALESCE(trips_included, 0)
		FROM bundles
		ORDER BY provider, position
	`

	bundleRows, err := r.pool.Query(ctx, bundleQuery)
	if err != nil {
		return nil, fmt.Errorf("load bundles: %w", err)
	}
	defer bundleRows.Close()

	for bundleRows.Next() {
		var provider string
		var b tariff.Bundle
		err := bundleRows.Scan(
			&provider, &b.Kind, &b.Name, &b.MinutesIncluded, &b.PriceEUR,
			&b.OverageBlockMin, &b.OverageBlockEUR, &b.TripsIncluded,
		)
		if err != nil {
			return nil, fmt.Errorf("scan bundle: %w", err)
		}

		i, ok := index[provider]
		if !ok {
			return nil, fmt.Errorf("bundle %q references unknown provider %q", b.Name, provider)
		}
		tariffs[i].Bundles = append(tariffs[i].Bundles, b)
	}
	if err := bundleRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bundles: %w", err)
	}

	if err := tariff.ValidateAll(tariffs); err != nil {
		return nil, fmt.Errorf("tariff table invalid: %w", err)
	}

	return tariffs, nil
}
