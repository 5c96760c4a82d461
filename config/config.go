package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	PRIM     PRIMConfig
	Compare  CompareConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string        `mapstructure:"SERVER_HOST"`
	Port         int           `mapstructure:"SERVER_PORT"`
	ReadTimeout  time.Duration `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"SERVER_WRITE_TIMEOUT"`
	IdleTimeout  time.Duration `mapstructure:"SERVER_IDLE_TIMEOUT"`
}

// PostgresConfig holds PostgreSQL connection settings.
// Postgres only stores the provider tariff table; if it is unreachable
// at boot the server falls back to the built-in tariffs.
type PostgresConfig struct {
	Host     string `mapstructure:"POSTGRES_HOST"`
	Port     int    `mapstructure:"POSTGRES_PORT"`
	User     string `mapstructure:"POSTGRES_USER"`
	Password string `mapstructure:"POSTGRES_PASSWORD"`
	DBName   string `mapstructure:"POSTGRES_DB"`
	SSLMode  string `mapstructure:"POSTGRES_SSLMODE"`
	MaxConns int32  `mapstructure:"POSTGRES_MAX_CONNS"`
	MinConns int32  `mapstructure:"POSTGRES_MIN_CONNS"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     int    `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
	PoolSize int    `mapstructure:"REDIS_POOL_SIZE"`
}

// PRIMConfig holds settings for the Île-de-France Mobilités PRIM
// marketplace APIs (Navitia journey planner + Geovelo bike router).
type PRIMConfig struct {
	APIKey     string        `mapstructure:"PRIM_API_KEY"`
	NavitiaURL string        `mapstructure:"PRIM_NAVITIA_URL"`
	GeoveloURL string        `mapstructure:"PRIM_GEOVELO_URL"`
	Timeout    time.Duration `mapstructure:"PRIM_TIMEOUT"`
}

// CompareConfig holds the comparison policy knobs.
type CompareConfig struct {
	// MetroFareEUR is the fixed reference fare for a single metro trip.
	MetroFareEUR float64 `mapstructure:"COMPARE_METRO_FARE_EUR"`

	// TieToleranceEUR is the band within which two quote costs are
	// considered equal when picking the cheapest providers.
	TieToleranceEUR float64 `mapstructure:"COMPARE_TIE_TOLERANCE_EUR"`

	// ShortTripThresholdMin: only per-minute quotes and time bundles
	// shorter than this count toward the "practically cheaper than
	// metro" verdict. Larger bundles are poor value for a single trip.
	ShortTripThresholdMin float64 `mapstructure:"COMPARE_SHORT_TRIP_THRESHOLD_MIN"`

	// WalkSpeedMPS is the assumed walking speed used to turn the
	// walk-to-bike distance into minutes.
	WalkSpeedMPS float64 `mapstructure:"COMPARE_WALK_SPEED_MPS"`

	// RouteCacheTTL is how long a computed comparison stays in Redis.
	RouteCacheTTL time.Duration `mapstructure:"COMPARE_ROUTE_CACHE_TTL"`
}

// DSN returns the PostgreSQL connection string.
func (p *PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.DBName, p.SSLMode,
	)
}

// Addr returns the Redis address in host:port format.
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// ServerAddr returns the HTTP listen address in host:port format.
func (s *ServerConfig) ServerAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Load reads configuration from environment variables and .env file.
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// ── Defaults ────────────────────────────────────────
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("SERVER_READ_TIMEOUT", "5s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "45s")
	viper.SetDefault("SERVER_IDLE_TIMEOUT", "120s")

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "velometro")
	viper.SetDefault("POSTGRES_PASSWORD", "velometro_secret")
	viper.SetDefault("POSTGRES_DB", "velometro_db")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")
	viper.SetDefault("POSTGRES_MAX_CONNS", 10)
	viper.SetDefault("POSTGRES_MIN_CONNS", 2)

	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", 6379)
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_POOL_SIZE", 50)

	viper.SetDefault("PRIM_API_KEY", "")
	viper.SetDefault("PRIM_NAVITIA_URL", "https://prim.iledefrance-mobilites.fr/marketplace/v2/navitia")
	viper.SetDefault("PRIM_GEOVELO_URL", "https://prim.iledefrance-mobilites.fr/marketplace/computedroutes")
	viper.SetDefault("PRIM_TIMEOUT", "30s")

	viper.SetDefault("COMPARE_METRO_FARE_EUR", 2.50)
	viper.SetDefault("COMPARE_TIE_TOLERANCE_EUR", 0.01)
	viper.SetDefault("COMPARE_SHORT_TRIP_THRESHOLD_MIN", 60)
	viper.SetDefault("COMPARE_WALK_SPEED_MPS", 1.4)
	viper.SetDefault("COMPARE_ROUTE_CACHE_TTL", "5m")

	// Try to read .env file. If it doesn't exist (e.g., inside Docker),
	// env vars injected by docker-compose env_file are used instead.
	_ = viper.ReadInConfig()

	cfg := &Config{}

	// ── Server ──────────────────────────────────────────
	cfg.Server = ServerConfig{
		Host:         viper.GetString("SERVER_HOST"),
		Port:         viper.GetInt("SERVER_PORT"),
		ReadTimeout:  viper.GetDuration("SERVER_READ_TIMEOUT"),
		WriteTimeout: viper.GetDuration("SERVER_WRITE_TIMEOUT"),
		IdleTimeout:  viper.GetDuration("SERVER_IDLE_TIMEOUT"),
	}

	// ── Postgres ────────────────────────────────────────
	cfg.Postgres = PostgresConfig{
		Host:     viper.GetString("POSTGRES_HOST"),
		Port:     viper.GetInt("POSTGRES_PORT"),
		User:     viper.GetString("POSTGRES_USER"),
		Password: viper.GetString("POSTGRES_PASSWORD"),
		DBName:   viper.GetString("POSTGRES_DB"),
		SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		MaxConns: viper.GetInt32("POSTGRES_MAX_CONNS"),
		MinConns: viper.GetInt32("POSTGRES_MIN_CONNS"),
	}

	// ── Redis ───────────────────────────────────────────
	cfg.Redis = RedisConfig{
		Host:     viper.GetString("REDIS_HOST"),
		Port:     viper.GetInt("REDIS_PORT"),
		Password: viper.GetString("REDIS_PASSWORD"),
		DB:       viper.GetInt("REDIS_DB"),
		PoolSize: viper.GetInt("REDIS_POOL_SIZE"),
	}

	// ── PRIM ────────────────────────────────────────────
	cfg.PRIM = PRIMConfig{
		APIKey:     viper.GetString("PRIM_API_KEY"),
		NavitiaURL: viper.GetString("PRIM_NAVITIA_URL"),
		GeoveloURL: viper.GetString("PRIM_GEOVELO_URL"),
		Timeout:    viper.GetDuration("PRIM_TIMEOUT"),
	}
	if cfg.PRIM.APIKey == "" {
		return nil, fmt.Errorf("config: PRIM_API_KEY is required")
	}

	// ── Compare ─────────────────────────────────────────
	cfg.Compare = CompareConfig{
		MetroFareEUR:          viper.GetFloat64("COMPARE_METRO_FARE_EUR"),
		TieToleranceEUR:       viper.GetFloat64("COMPARE_TIE_TOLERANCE_EUR"),
		ShortTripThresholdMin: viper.GetFloat64("COMPARE_SHORT_TRIP_THRESHOLD_MIN"),
		WalkSpeedMPS:          viper.GetFloat64("COMPARE_WALK_SPEED_MPS"),
		RouteCacheTTL:         viper.GetDuration("COMPARE_ROUTE_CACHE_TTL"),
	}

	return cfg, nil
}
