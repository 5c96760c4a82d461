package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/jumpseat/velometro/config"
	"github.com/jumpseat/velometro/internal/handler"
	"github.com/jumpseat/velometro/internal/middleware"
	"github.com/jumpseat/velometro/internal/repository"
	"github.com/jumpseat/velometro/internal/service"
	"github.com/jumpseat/velometro/internal/tariff"
	"github.com/jumpseat/velometro/pkg/cache"
	"github.com/jumpseat/velometro/pkg/db"
	"github.com/jumpseat/velometro/pkg/geocode"
	"github.com/jumpseat/velometro/pkg/prim"
)

func main() {
	// ── Load configuration ──────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	// ── Connect to PostgreSQL (tariff table) ────────────
	// The tariff store is an override source, not a hard dependency:
	// without it the built-in Paris table applies.
	var pgPool *pgxpool.Pool
	if pool, err := db.NewPostgresPool(ctx, cfg.Postgres); err != nil {
		log.Printf("[main] postgres unavailable (%v), using built-in tariffs", err)
	} else {
		pgPool = pool
		defer pgPool.Close()
		log.Println("[main] postgres connected")
	}

	// ── Connect to Redis ────────────────────────────────
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("[main] redis connected")

	// ── Load tariffs ────────────────────────────────────
	tariffs := loadTariffs(ctx, pgPool)
	log.Printf("[main] %d provider tariffs loaded", len(tariffs))

	// ── Initialize layers ───────────────────────────────
	primClient := prim.NewClient(cfg.PRIM)
	geocoder := geocode.NewClient("Paris, France")
	journeyCache := repository.NewJourneyCache(redisClient, cfg.Compare.RouteCacheTTL)

	fareSvc := service.NewFareService(tariffs)
	compareSvc := service.NewCompareService(primClient, primClient, fareSvc, journeyCache, cfg.Compare)

	compareHandler := handler.NewCompareHandler(compareSvc)
	quotesHandler := handler.NewQuotesHandler(fareSvc)
	geocodeHandler := handler.NewGeocodeHandler(geocoder)

	// ── Setup router ────────────────────────────────────
	router := mux.NewRouter()

	// Health check endpoint.
	router.HandleFunc("/health", healthHandler(pgPool, redisClient)).Methods(http.MethodGet)

	// API v1 routes.
	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/compare", compareHandler.Compare).Methods(http.MethodPost)
	api.HandleFunc("/quotes", quotesHandler.Quotes).Methods(http.MethodGet)
	api.HandleFunc("/providers", quotesHandler.ListProviders).Methods(http.MethodGet)
	api.HandleFunc("/geocode", geocodeHandler.Geocode).Methods(http.MethodGet)

	// Wrap with logging, panic recovery, and CORS for the map frontend.
	wrapped := middleware.CORS(middleware.RequestLogger(middleware.Recoverer(router)))

	// ── Start HTTP server ───────────────────────────────
	srv := &http.Server{
		Addr:         cfg.Server.ServerAddr(),
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in a goroutine so we can listen for shutdown signals.
	go func() {
		log.Printf("[main] server listening on %s", cfg.Server.ServerAddr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// ── Graceful shutdown ───────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("[main] shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("[main] server stopped")
}

// loadTariffs reads the provider table from Postgres, falling back to
// the built-in Paris tariffs when the database is absent or empty.
func loadTariffs(ctx context.Context, pgPool *pgxpool.Pool) []tariff.ProviderTariff {
	if pgPool == nil {
		return tariff.Defaults()
	}

	repo := repository.NewTariffRepository(pgPool)
	tariffs, err := repo.LoadTariffs(ctx)
	if err != nil {
		log.Printf("[main] tariff load failed (%v), using built-in tariffs", err)
		return tariff.Defaults()
	}
	if len(tariffs) == 0 {
		log.Println("[main] tariff table empty, using built-in tariffs")
		return tariff.Defaults()
	}
	return tariffs
}

// HealthResponse represents the /health endpoint response.
type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

// healthHandler returns an HTTP handler that checks PG and Redis
// connectivity. A missing tariff database only degrades the status;
// the built-in table keeps the service functional.
func healthHandler(pgPool *pgxpool.Pool, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{
			Status:   "ok",
			Services: make(map[string]string),
		}

		if pgPool == nil {
			resp.Services["postgres"] = "not configured (built-in tariffs)"
		} else if err := db.HealthCheck(r.Context(), pgPool); err != nil {
			resp.Status = "degraded"
			resp.Services["postgres"] = "unhealthy: " + err.Error()
		} else {
			resp.Services["postgres"] = "healthy"
		}

		if err := cache.HealthCheck(r.Context(), redisClient); err != nil {
			resp.Status = "degraded"
			resp.Services["redis"] = "unhealthy: " + err.Error()
		} else {
			resp.Services["redis"] = "healthy"
		}

		w.Header().Set("Content-Type", "application/json")
		if resp.Status != "ok" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(resp)
	}
}
