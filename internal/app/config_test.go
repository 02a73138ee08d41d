package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 8000, cfg.Server.Port)
	require.Equal(t, "info", cfg.Server.LogLevel)
	require.Equal(t, "json", cfg.Server.LogFormat)

	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, "./data/inkwell.sqlite", cfg.Database.Path)

	require.Equal(t, "inkwell", cfg.Auth.JWT.Issuer)
	require.Equal(t, 15*time.Minute, cfg.Auth.JWT.TTL)
	require.Empty(t, cfg.Auth.JWT.Secret)

	require.Equal(t, 90, cfg.Audit.RetentionDays)

	require.True(t, cfg.RateLimit.Enabled)
	require.Equal(t, 100, cfg.RateLimit.MaxRequests)
	require.Equal(t, time.Minute, cfg.RateLimit.Window)

	require.True(t, cfg.Monitoring.Prometheus.Enabled)
	require.Equal(t, "/metrics", cfg.Monitoring.Prometheus.Endpoint)

	require.True(t, cfg.Maintenance.Enabled)
	require.Equal(t, "@hourly", cfg.Maintenance.Schedule)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	payload := []byte(`
server:
  port: 9100
  log_level: debug
auth:
  jwt:
    secret: file-secret
    access_token_ttl: 2h
rate_limit:
  enabled: false
database:
  driver: postgres
  host: db.internal
  port: 5432
  username: inkwell
  password: hunter2
  name: inkwell
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), payload, 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	require.Equal(t, 9100, cfg.Server.Port)
	require.Equal(t, "debug", cfg.Server.LogLevel)
	require.Equal(t, "file-secret", cfg.Auth.JWT.Secret)
	require.Equal(t, 2*time.Hour, cfg.Auth.JWT.TTL)
	require.False(t, cfg.RateLimit.Enabled)

	conn := cfg.DatabaseConnection()
	require.Equal(t, "postgres", conn.Driver)
	require.Equal(t, "db.internal", conn.Host)
	require.Equal(t, 5432, conn.Port)
	require.Equal(t, "inkwell", conn.User)
}

func TestLoadConfigEnvironmentOverride(t *testing.T) {
	t.Setenv("INKWELL_SERVER_PORT", "9999")
	t.Setenv("INKWELL_AUTH_JWT_SECRET", "env-secret")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 9999, cfg.Server.Port)
	require.Equal(t, "env-secret", cfg.Auth.JWT.Secret)
}

func TestLoadConfigRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [not a map"), 0o600))

	_, err := LoadConfig(dir)
	require.Error(t, err)
}
