package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "medwear.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  baseURL: https://shop.example.com/api
  timeout: 3s
  useMock: false
mock:
  latency: 0s
catalog:
  pageSize: 24
auth:
  email: nurse@example.com
`), 0o600))

	t.Setenv("MEDWEAR_AUTH_PASSWORD", "hunter22")
	t.Setenv("MEDWEAR_API_TIMEOUT", "7s")
	t.Setenv("MEDWEAR_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://shop.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, 7*time.Second, cfg.API.Timeout)
	assert.False(t, cfg.API.UseMock)
	assert.Equal(t, time.Duration(0), cfg.Mock.Latency)
	assert.Equal(t, 24, cfg.Catalog.PageSize)
	assert.Equal(t, "nurse@example.com", cfg.Auth.Email)
	assert.Equal(t, "hunter22", cfg.Auth.Password)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":8000", cfg.Mock.Addr)
}

func TestLoad_InvalidPageSizeFallsBack(t *testing.T) {
	t.Setenv("MEDWEAR_CATALOG_PAGESIZE", "0")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Catalog.PageSize)
}

func TestLoad_BrokenYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "medwear.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [unterminated"), 0o600))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestSetupLogging(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	SetupLogging(Log{Level: "warn"})
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	SetupLogging(Log{Level: "nonsense", Pretty: true})
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestCanonicalKey(t *testing.T) {
	existing := map[string]any{"api": map[string]any{"baseURL": "x"}}
	assert.Equal(t, "api.baseURL", canonicalKey("API_BASEURL", existing))
	assert.Equal(t, "auth.email", canonicalKey("AUTH_EMAIL", existing))
	assert.Equal(t, "log.level", canonicalKey("LOG__LEVEL", nil))
}
