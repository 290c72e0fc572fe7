package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "https://www.computrabajo.com.co", cfg.BaseURL)
	assert.Len(t, cfg.SearchTerms, 4)
	assert.Equal(t, 72, cfg.RecencyThresholdHours)
	assert.Equal(t, 72*time.Hour, cfg.RecencyThreshold())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	content := `{
		"base_url": "https://www.computrabajo.com.co",
		"source": "computrabajo",
		"search_terms": ["desarrollador-junior"],
		"region": "bogota-dc",
		"max_offers": 50,
		"max_pages": 5,
		"recency_threshold_hours": 24,
		"blacklist": ["acme"],
		"listen_addr": ":9000"
	}`
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0o644))

	cfg, err := Load(tmpFile)
	require.NoError(t, err)

	assert.Equal(t, []string{"desarrollador-junior"}, cfg.SearchTerms)
	assert.Equal(t, "bogota-dc", cfg.Region)
	assert.Equal(t, 50, cfg.MaxOffers)
	assert.Equal(t, 24*time.Hour, cfg.RecencyThreshold())
	assert.Equal(t, []string{"acme"}, cfg.Blacklist)
	assert.Equal(t, ":9000", cfg.ListenAddr)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().BaseURL, cfg.BaseURL)
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(`{ invalid json }`), 0o644))

	_, err := Load(tmpFile)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cfg := Default()
	cfg.BaseURL = "not a url"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.SearchTerms = nil
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.MaxOffers = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.LogLevel = "loud"
	assert.Error(t, cfg.Validate())
}

func TestApplyEnv_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/radar")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RECENCY_THRESHOLD_HOURS", "48")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost:5432/radar", cfg.DatabaseURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 48*time.Hour, cfg.RecencyThreshold())
}
