// Package config reads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const devSecret = "dev-secret-change-me"

// Config holds the runtime settings of the API server.
type Config struct {
	Env             string
	HTTPAddr        string
	DatabaseURL     string
	RedisURL        string
	JWTSecret       string
	JWTIssuer       string
	AccessTokenTTL  time.Duration
	BcryptCost      int
	LogLevel        string
	CORSOrigins     []string
	OTLPEndpoint    string
	ShutdownTimeout time.Duration
}

// OTLPEnabled reports whether traces, metrics and logs should be exported.
func (c Config) OTLPEnabled() bool {
	return c.OTLPEndpoint != ""
}

// Load builds a Config from environment variables. Call it after the .env
// file has been loaded.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	cfg := Config{
		Env:          strings.ToLower(withDefault(getenv("APP_ENV"), "development")),
		HTTPAddr:     withDefault(getenv("HTTP_ADDR"), ":8080"),
		DatabaseURL:  withDefault(getenv("DATABASE_URL"), "calculations.db"),
		RedisURL:     getenv("REDIS_URL"),
		JWTSecret:    getenv("JWT_SECRET"),
		JWTIssuer:    withDefault(getenv("JWT_ISSUER"), "calculation-service"),
		LogLevel:     withDefault(getenv("LOG_LEVEL"), "info"),
		CORSOrigins:  splitList(getenv("CORS_ALLOWED_ORIGINS")),
		OTLPEndpoint: getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	var errs []error

	ttl, err := duration(getenv, "ACCESS_TOKEN_TTL", 30*time.Minute)
	errs = append(errs, err)
	cfg.AccessTokenTTL = ttl

	shutdown, err := duration(getenv, "SHUTDOWN_TIMEOUT", 5*time.Second)
	errs = append(errs, err)
	cfg.ShutdownTimeout = shutdown

	cost, err := integer(getenv, "BCRYPT_COST", 10)
	errs = append(errs, err)
	cfg.BcryptCost = cost

	if cfg.JWTSecret == "" {
		if cfg.Env == "production" {
			errs = append(errs, errors.New("JWT_SECRET is required in production"))
		}
		cfg.JWTSecret = devSecret
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func withDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}

func duration(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(getenv(key))
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return def, fmt.Errorf("%s: must be positive, got %s", key, raw)
	}
	return d, nil
}

func integer(getenv func(string) string, key string, def int) (int, error) {
	raw := strings.TrimSpace(getenv(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def, fmt.Errorf("%s: %q is not an integer", key, raw)
	}
	return n, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
