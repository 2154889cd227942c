// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Env       string
	SpannerDB string
	GRPCPort  string
	HTTPPort  string
	LogLevel  string
	LogFormat string

	// PricingLocation decides which calendar day "now" falls on for pricing rules.
	PricingLocation *time.Location
}

// Load reads a .env file (outside production) and then the environment.
// A missing .env file is not an error; values already set in the
// environment are kept.
func Load(envFile string) (Config, error) {
	if os.Getenv("ENV") != "production" && envFile != "" {
		_ = godotenv.Load(envFile)
	}
	return FromEnv()
}

// FromEnv loads configuration from environment variables with defaults.
func FromEnv() (Config, error) {
	cfg := Config{
		Env:       getEnvOrDefault("ENV", "development"),
		SpannerDB: getEnvOrDefault("SPANNER_DATABASE", "projects/test-project/instances/dev-instance/databases/cart-pricing-db"),
		GRPCPort:  getEnvOrDefault("GRPC_PORT", "9090"),
		HTTPPort:  getEnvOrDefault("HTTP_PORT", "8080"),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),
	}

	tz := getEnvOrDefault("PRICING_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return Config{}, fmt.Errorf("invalid PRICING_TIMEZONE %q: %w", tz, err)
	}
	cfg.PricingLocation = loc

	return cfg, nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
