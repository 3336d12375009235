package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpmoralesv/finanzas-cli/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000/api", cfg.API.BaseURL)
	assert.Equal(t, "30s", cfg.API.Timeout)
	assert.False(t, cfg.Email.Enabled)
	assert.Equal(t, "https://api.emailjs.com/api/v1.0/email/send", cfg.Email.Endpoint)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Contains(t, cfg.Storage.Path, "finanzas.db")
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	data := []byte(`
api:
  base_url: https://finanzas.example.com/api
  timeout: 10s
storage:
  path: /tmp/test.db
email:
  enabled: true
  service_id: svc-1
  user_id: usr-1
logging:
  level: debug
`)
	require.NoError(t, os.WriteFile(cfgPath, data, 0o644))

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, "https://finanzas.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, "10s", cfg.API.Timeout)
	assert.Equal(t, "/tmp/test.db", cfg.Storage.Path)
	assert.True(t, cfg.Email.Enabled)
	assert.Equal(t, "svc-1", cfg.Email.ServiceID)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FINZ_API_BASE_URL", "https://env.example.com/api")
	t.Setenv("FINZ_LOGGING_LEVEL", "error")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("invalid: [yaml"), 0o644))

	_, err := config.Load(cfgPath)
	assert.Error(t, err)
}
