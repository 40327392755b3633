package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDefault(t *testing.T) {
	cfg := CreateDefault()

	assert.Equal(t, "data/product_data.json", cfg.Catalog.Path)
	assert.Equal(t, 1, cfg.Catalog.UTCOffsetHours)
	assert.Equal(t, 20*time.Second, cfg.Scraper.Timeout)
	assert.Equal(t, time.Second, cfg.Scraper.MinDelay)
	assert.Equal(t, 3*time.Second, cfg.Scraper.MaxDelay)
	assert.Equal(t, 5, cfg.Schedule.Hour)
	assert.Equal(t, "data/exports", cfg.Export.Dir)
	assert.Equal(t, "/PriceExports", cfg.Dropbox.Folder)
	assert.Equal(t, "data/uploads", cfg.Import.ArchiveDir)
	assert.False(t, cfg.Browser.Enabled)

	assert.NotEmpty(t, cfg.Scraper.UserAgents)
	assert.NotEmpty(t, cfg.Scraper.AcceptHeaders)
	assert.NotEmpty(t, cfg.Scraper.AcceptLanguages)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	// durations are plain nanosecond integers in the YAML form
	yaml := `
catalog:
  path: /var/lib/pricewatch/catalog.json
  utc_offset_hours: 0
scraper:
  timeout: 45000000000
  min_delay: 2000000000
  max_delay: 6000000000
  user_agents:
    - custom-agent
schedule:
  hour: 7
dropbox:
  folder: /Backups
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/pricewatch/catalog.json", cfg.Catalog.Path)
	assert.Equal(t, 45*time.Second, cfg.Scraper.Timeout)
	assert.Equal(t, 7, cfg.Schedule.Hour)
	assert.Equal(t, "/Backups", cfg.Dropbox.Folder)
	assert.Equal(t, []string{"custom-agent"}, cfg.Scraper.UserAgents)

	// unset pools still fall back to the built-in rotation lists
	assert.NotEmpty(t, cfg.Scraper.AcceptHeaders)
	assert.NotEmpty(t, cfg.Scraper.AcceptLanguages)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("catalog: ["), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestApplyEnvFillsSecrets(t *testing.T) {
	t.Setenv("DROPBOX_APP_KEY", "k")
	t.Setenv("DROPBOX_APP_SECRET", "s")
	t.Setenv("DROPBOX_REFRESH_TOKEN", "r")
	t.Setenv("DROPBOX_ACCESS_TOKEN", "a")

	cfg := CreateDefault()
	assert.False(t, cfg.Dropbox.Enabled())

	cfg.ApplyEnv()
	assert.Equal(t, "k", cfg.Dropbox.AppKey)
	assert.Equal(t, "s", cfg.Dropbox.AppSecret)
	assert.Equal(t, "r", cfg.Dropbox.RefreshToken)
	assert.Equal(t, "a", cfg.Dropbox.AccessToken)
	assert.True(t, cfg.Dropbox.Enabled())
}

func TestCatalogLocation(t *testing.T) {
	c := CatalogConfig{UTCOffsetHours: 1}
	when := time.Date(2026, 6, 1, 4, 0, 0, 0, time.UTC).In(c.Location())
	assert.Equal(t, 5, when.Hour())

	utc := CatalogConfig{}
	assert.Equal(t, time.UTC, utc.Location())
}
