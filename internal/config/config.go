package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig holds the complete application configuration
type AppConfig struct {
	Catalog  CatalogConfig  `yaml:"catalog"`
	Scraper  ScraperConfig  `yaml:"scraper"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Export   ExportConfig   `yaml:"export"`
	Dropbox  DropboxConfig  `yaml:"dropbox"`
	Import   ImportConfig   `yaml:"import"`
	Proxies  ProxyConfig    `yaml:"proxies"`
	Browser  BrowserConfig  `yaml:"browser"`
}

// CatalogConfig locates the persisted catalog document and fixes the
// timezone offset used for lastUpdate timestamps.
type CatalogConfig struct {
	Path           string `yaml:"path"`
	UTCOffsetHours int    `yaml:"utc_offset_hours"`
}

// Location returns the fixed zone for catalog timestamps.
func (c CatalogConfig) Location() *time.Location {
	if c.UTCOffsetHours == 0 {
		return time.UTC
	}
	return time.FixedZone(fmt.Sprintf("UTC%+d", c.UTCOffsetHours), c.UTCOffsetHours*3600)
}

// ScraperConfig holds the fetcher configuration
type ScraperConfig struct {
	Timeout         time.Duration `yaml:"timeout"`
	MinDelay        time.Duration `yaml:"min_delay"`
	MaxDelay        time.Duration `yaml:"max_delay"`
	UserAgents      []string      `yaml:"user_agents,omitempty"`
	AcceptHeaders   []string      `yaml:"accept_headers,omitempty"`
	AcceptLanguages []string      `yaml:"accept_languages,omitempty"`
}

// ScheduleConfig holds the daily update trigger settings. Hour is a local
// wall-clock hour in the catalog's timezone.
type ScheduleConfig struct {
	Hour int `yaml:"hour"`
}

// ExportConfig holds local CSV export settings
type ExportConfig struct {
	Dir string `yaml:"dir"`
}

// DropboxConfig holds the remote backup sink settings. Credentials are
// never read from the YAML file; ApplyEnv fills them from the environment.
type DropboxConfig struct {
	Folder       string `yaml:"folder"`
	AppKey       string `yaml:"-"`
	AppSecret    string `yaml:"-"`
	RefreshToken string `yaml:"-"`
	AccessToken  string `yaml:"-"`
}

// Enabled reports whether the backup sink is configured.
func (c DropboxConfig) Enabled() bool {
	return c.AccessToken != "" || c.RefreshToken != ""
}

// ImportConfig holds the spreadsheet importer settings
type ImportConfig struct {
	ArchiveDir string `yaml:"archive_dir"`
}

// ProxyConfig holds the outbound proxy configuration
type ProxyConfig struct {
	Enabled bool     `yaml:"enabled"`
	Rotate  bool     `yaml:"rotate"`
	List    []string `yaml:"list"`
	Auth    struct {
		Username string `yaml:"username"`
		Password string `yaml:"password"`
	} `yaml:"auth"`
}

// BrowserConfig holds the headless-browser fetcher configuration for
// JavaScript-rendered retailers
type BrowserConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Headless bool          `yaml:"headless"`
	WaitTime time.Duration `yaml:"wait_time"`
}

// Load loads the configuration from a YAML file
func Load(filename string) (*AppConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	config := CreateDefault()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}
	config.fillDefaults()

	return config, nil
}

// ApplyEnv overlays secrets from the environment.
func (c *AppConfig) ApplyEnv() {
	if v := os.Getenv("DROPBOX_APP_KEY"); v != "" {
		c.Dropbox.AppKey = v
	}
	if v := os.Getenv("DROPBOX_APP_SECRET"); v != "" {
		c.Dropbox.AppSecret = v
	}
	if v := os.Getenv("DROPBOX_REFRESH_TOKEN"); v != "" {
		c.Dropbox.RefreshToken = v
	}
	if v := os.Getenv("DROPBOX_ACCESS_TOKEN"); v != "" {
		c.Dropbox.AccessToken = v
	}
}

// CreateDefault creates a configuration with all defaults applied.
func CreateDefault() *AppConfig {
	c := &AppConfig{
		Catalog: CatalogConfig{
			Path:           "data/product_data.json",
			UTCOffsetHours: 1, // UK trading hours (BST)
		},
		Scraper: ScraperConfig{
			Timeout:  20 * time.Second,
			MinDelay: 1 * time.Second,
			MaxDelay: 3 * time.Second,
		},
		Schedule: ScheduleConfig{
			Hour: 5,
		},
		Export: ExportConfig{
			Dir: "data/exports",
		},
		Dropbox: DropboxConfig{
			Folder: "/PriceExports",
		},
		Import: ImportConfig{
			ArchiveDir: "data/uploads",
		},
		Browser: BrowserConfig{
			Enabled:  false,
			Headless: true,
			WaitTime: 5 * time.Second,
		},
	}
	c.fillDefaults()
	return c
}

func (c *AppConfig) fillDefaults() {
	if len(c.Scraper.UserAgents) == 0 {
		c.Scraper.UserAgents = DefaultUserAgents
	}
	if len(c.Scraper.AcceptHeaders) == 0 {
		c.Scraper.AcceptHeaders = DefaultAcceptHeaders
	}
	if len(c.Scraper.AcceptLanguages) == 0 {
		c.Scraper.AcceptLanguages = DefaultAcceptLanguages
	}
	if c.Scraper.Timeout <= 0 {
		c.Scraper.Timeout = 20 * time.Second
	}
}
