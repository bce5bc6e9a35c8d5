// Package config loads immutable configuration from the environment once at
// startup. An optional env file (.env by default) fills in unset variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config drives the console and its client SDK.
type Config struct {
	// API
	APIBaseURL     string
	RequestTimeout time.Duration

	// Credentials
	CredentialDir string

	// Logging
	LogLevel  string
	LogFormat string

	// OTel
	OTELServiceName           string
	OTELEnvironment           string
	OTELExporterOTLPEndpoint  string
	OTELExporterOTLPInsecure  bool
	OTELMetricsEnabled        bool
	OTELTracesEnabled         bool
	OTELLogsEnabled           bool
	OTELMetricsExportInterval time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		APIBaseURL:                getEnv("RENTAL_API_URL", "http://localhost:8080/api"),
		LogLevel:                  getEnv("RENTALCTL_LOG_LEVEL", "info"),
		LogFormat:                 getEnv("RENTALCTL_LOG_FORMAT", "text"),
		OTELServiceName:           getEnv("OTEL_SERVICE_NAME", "rentalctl"),
		OTELEnvironment:           getEnv("OTEL_ENVIRONMENT", "dev"),
		OTELExporterOTLPEndpoint:  getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OTELExporterOTLPInsecure:  getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", true),
		OTELMetricsEnabled:        getEnvBool("OTEL_METRICS_ENABLED", false),
		OTELTracesEnabled:         getEnvBool("OTEL_TRACES_ENABLED", false),
		OTELLogsEnabled:           getEnvBool("OTEL_LOGS_ENABLED", false),
		OTELMetricsExportInterval: getEnvDuration("OTEL_METRICS_EXPORT_INTERVAL", 15*time.Second),
	}

	var err error
	cfg.RequestTimeout, err = parseDuration("RENTALCTL_REQUEST_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	cfg.CredentialDir = os.Getenv("RENTALCTL_CREDENTIALS_DIR")
	if cfg.CredentialDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve user config dir: %w", err)
		}
		cfg.CredentialDir = filepath.Join(base, "rentalctl")
	}

	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("validate config: RENTAL_API_URL must not be empty")
	}
	return cfg, nil
}

// ServerConfig drives the bundled development API server (rentald).
type ServerConfig struct {
	ListenAddr string

	// Storage: sqlite file by default, postgres when DATABASE_URL is set.
	DatabaseURL string
	SQLitePath  string

	// Refresh-session store: external redis when set, in-process miniredis
	// otherwise.
	RedisAddr string

	JWTIssuer        string
	JWTAudience      string
	JWTAccessSecret  string
	JWTRefreshSecret string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration

	// Seed admin account, created on first boot when no users exist.
	SeedAdminEmail    string
	SeedAdminPassword string

	LogLevel  string
	LogFormat string
}

func LoadServer() (*ServerConfig, error) {
	cfg := &ServerConfig{
		ListenAddr:        getEnv("RENTALD_ADDR", ":8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		SQLitePath:        getEnv("RENTALD_SQLITE_PATH", "rentald.db"),
		RedisAddr:         os.Getenv("RENTALD_REDIS_ADDR"),
		JWTIssuer:         getEnv("RENTALD_JWT_ISSUER", "rentald"),
		JWTAudience:       getEnv("RENTALD_JWT_AUDIENCE", "rental-api"),
		JWTAccessSecret:   getEnv("RENTALD_JWT_ACCESS_SECRET", "dev-access-secret"),
		JWTRefreshSecret:  getEnv("RENTALD_JWT_REFRESH_SECRET", "dev-refresh-secret"),
		SeedAdminEmail:    getEnv("RENTALD_SEED_ADMIN_EMAIL", "admin@local"),
		SeedAdminPassword: getEnv("RENTALD_SEED_ADMIN_PASSWORD", "admin"),
		LogLevel:          getEnv("RENTALD_LOG_LEVEL", "info"),
		LogFormat:         getEnv("RENTALD_LOG_FORMAT", "json"),
	}

	var err error
	cfg.AccessTokenTTL, err = parseDuration("RENTALD_ACCESS_TOKEN_TTL", "15m")
	if err != nil {
		return nil, err
	}
	cfg.RefreshTokenTTL, err = parseDuration("RENTALD_REFRESH_TOKEN_TTL", "168h")
	if err != nil {
		return nil, err
	}

	if cfg.JWTAccessSecret == cfg.JWTRefreshSecret {
		return nil, fmt.Errorf("validate config: access and refresh secrets must differ")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseDuration(key, fallback string) (time.Duration, error) {
	v := getEnv(key, fallback)
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return parsed, nil
}
