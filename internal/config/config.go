// Package config loads and validates application configuration.
// Values come from defaults, then an optional YAML file, then environment
// variables; each layer overrides the one before it.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the YAML file read when CONFIG_FILE is not set.
const DefaultConfigFile = "config.yaml"

// Store drivers accepted by STORE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Config holds all configuration values for the API server.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "5000".
	Port string `yaml:"port"`

	// Env names the deployment environment (development, production, ...).
	Env string `yaml:"env"`

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// CORSOrigins is the list of allowed cross-origin request origins.
	CORSOrigins []string `yaml:"cors_origins"`

	// MaxBodyBytes caps the size of request bodies.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// StoreDriver selects the record store: "postgres" or "mongo".
	StoreDriver string `yaml:"store_driver"`

	// DatabaseURL is the Postgres connection string. Required for postgres.
	DatabaseURL string `yaml:"database_url"`

	// MongoURI and MongoDatabase locate the MongoDB store. MongoURI is required for mongo.
	MongoURI      string `yaml:"mongo_uri"`
	MongoDatabase string `yaml:"mongo_database"`

	Geocoder Geocoder `yaml:"geocoder"`
}

// Geocoder configures the postal-code and address lookup service.
type Geocoder struct {
	Provider           string        `yaml:"provider"`
	APIKey             string        `yaml:"api_key"`
	BaseURL            string        `yaml:"base_url"`
	CacheEntries       int64         `yaml:"cache_entries"`
	CacheTTL           time.Duration `yaml:"cache_ttl"`
	BreakerMaxFailures int           `yaml:"breaker_max_failures"`
	BreakerTimeout     time.Duration `yaml:"breaker_timeout"`
}

// Defaults returns a Config populated with default values.
func Defaults() Config {
	return Config{
		Port:          "5000",
		Env:           "development",
		LogLevel:      "info",
		CORSOrigins:   []string{"http://localhost:3000"},
		MaxBodyBytes:  1 << 20,
		StoreDriver:   DriverPostgres,
		MongoDatabase: "devcamper",
		Geocoder: Geocoder{
			Provider:           "mapquest",
			BaseURL:            "https://www.mapquestapi.com",
			CacheEntries:       10000,
			CacheTTL:           24 * time.Hour,
			BreakerMaxFailures: 5,
			BreakerTimeout:     30 * time.Second,
		},
	}
}

// Load reads the YAML file named by CONFIG_FILE (or DefaultConfigFile), then
// overlays environment variables. A missing YAML file is not an error.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	return LoadFrom(getEnv("CONFIG_FILE", DefaultConfigFile))
}

// LoadFrom is Load with an explicit YAML path.
func LoadFrom(path string) (Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, path); err != nil {
		return Config{}, fmt.Errorf("config yaml: %w", err)
	}

	if err := loadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("config env: %w", err)
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// loadYAML unmarshals the file at path over cfg.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// loadEnv overlays non-empty environment variables onto cfg.
func loadEnv(cfg *Config) error {
	setString(&cfg.Port, "PORT")
	setString(&cfg.Env, "APP_ENV")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitCSV(v)
	}
	setString(&cfg.StoreDriver, "STORE_DRIVER")
	setString(&cfg.DatabaseURL, "DATABASE_URL")
	setString(&cfg.MongoURI, "MONGO_URI")
	setString(&cfg.MongoDatabase, "MONGO_DATABASE")
	setString(&cfg.Geocoder.Provider, "GEOCODER_PROVIDER")
	setString(&cfg.Geocoder.APIKey, "GEOCODER_API_KEY")
	setString(&cfg.Geocoder.BaseURL, "GEOCODER_BASE_URL")

	return errors.Join(
		setInt64(&cfg.MaxBodyBytes, "MAX_BODY_BYTES"),
		setInt64(&cfg.Geocoder.CacheEntries, "GEOCODE_CACHE_ENTRIES"),
		setDuration(&cfg.Geocoder.CacheTTL, "GEOCODE_CACHE_TTL"),
		setInt(&cfg.Geocoder.BreakerMaxFailures, "GEOCODER_BREAKER_MAX_FAILURES"),
		setDuration(&cfg.Geocoder.BreakerTimeout, "GEOCODER_BREAKER_TIMEOUT"),
	)
}

// validate reports every missing required setting in one error.
func validate(cfg Config) error {
	var missing []string

	switch cfg.StoreDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	case DriverMongo:
		if cfg.MongoURI == "" {
			missing = append(missing, "MONGO_URI")
		}
		if cfg.MongoDatabase == "" {
			missing = append(missing, "MONGO_DATABASE")
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q: want %s or %s", cfg.StoreDriver, DriverPostgres, DriverMongo)
	}

	if len(missing) > 0 {
		return fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}
	return nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setInt64(dst *int64, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
