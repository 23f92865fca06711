package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FSS_AUTH_JWT_SECRET", "0123456789abcdef")
	t.Setenv("FSS_SERVER_PORT", "9090")
	t.Setenv("FSS_SCHEDULING_TIMEZONE", "America/Chicago")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, 10*time.Second, cfg.Scheduling.LockTTL)
	assert.Equal(t, 4, cfg.Scheduling.OptimizerWorkers)
	assert.Equal(t, "America/Chicago", cfg.Location().String())
	assert.Empty(t, cfg.Redis.Addr)
	assert.Empty(t, cfg.Archive.Bucket)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "fss.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
auth:
  jwt_secret: "a-very-long-secret-value"
redis:
  addr: "localhost:6379"
scheduling:
  optimizer_workers: 8
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 8, cfg.Scheduling.OptimizerWorkers)
}

func TestValidate(t *testing.T) {
	good := Config{
		Server:     ServerConfig{Port: 8080},
		DB:         DBConfig{URL: "postgres://x"},
		Auth:       AuthConfig{JWTSecret: "0123456789abcdef"},
		Scheduling: SchedulingConfig{Timezone: "UTC"},
	}
	assert.NoError(t, good.Validate())

	short := good
	short.Auth.JWTSecret = "short"
	assert.Error(t, short.Validate())

	badPort := good
	badPort.Server.Port = 70000
	assert.Error(t, badPort.Validate())

	badZone := good
	badZone.Scheduling.Timezone = "Nowhere/Land"
	assert.Error(t, badZone.Validate())
}
