package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"SPANNER_DATABASE", "GRPC_PORT", "HTTP_PORT", "PRICING_TIMEZONE", "LOG_LEVEL", "LOG_FORMAT", "ENV"} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.GRPCPort)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, time.UTC, cfg.PricingLocation)
	assert.Contains(t, cfg.SpannerDB, "cart-pricing-db")
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("GRPC_PORT", "7000")
	t.Setenv("PRICING_TIMEZONE", "UTC")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.GRPCPort)
}

func TestFromEnv_InvalidTimezone(t *testing.T) {
	t.Setenv("PRICING_TIMEZONE", "Not/AZone")

	_, err := FromEnv()
	assert.Error(t, err)
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("HTTP_PORT", "")
	os.Unsetenv("HTTP_PORT")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("HTTP_PORT=8181\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "8181", cfg.HTTPPort)
}

func TestLoad_MissingEnvFile(t *testing.T) {
	t.Setenv("HTTP_PORT", "8282")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "8282", cfg.HTTPPort)
}
