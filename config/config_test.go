package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwt_secret: secret
database:
  dsn: "file:test.db"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 1, cfg.WorkerPool.Size)
	assert.Equal(t, 3600, cfg.Push.TTL)
	assert.Equal(t, 24*time.Hour, cfg.Auth.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshTTL)
	assert.Equal(t, time.Minute, cfg.Reminder.Interval)
	assert.Equal(t, time.Hour, cfg.Reminder.Lead)
	assert.Equal(t, 5*time.Minute, cfg.Flight.CacheTTL)
	assert.Equal(t, 5, cfg.View.PageSize)
	assert.Equal(t, "Europe/Warsaw", cfg.View.Location.String())
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PARKD_JWT_SECRET", "from-env")
	t.Setenv("PARKD_DATABASE_DSN", "host=db")
	path := writeConfig(t, `
auth:
  jwt_secret: from-file
reminder:
  interval_seconds: 15
view:
  timezone: UTC
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, "host=db", cfg.Database.DSN)
	assert.Equal(t, 15*time.Second, cfg.Reminder.Interval)
	assert.Equal(t, time.UTC, cfg.View.Location)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "server: ["))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "view:\n  timezone: UTC\n"))
	assert.ErrorContains(t, err, "jwt_secret")

	_, err = Load(writeConfig(t, "auth:\n  jwt_secret: x\nview:\n  timezone: Mars/Base\n"))
	assert.ErrorContains(t, err, "view.timezone")
}
