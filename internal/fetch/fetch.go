// Package fetch retrieves raw page bodies for single URLs with a rotated
// browser-like identity.
package fetch

import (
	"context"

	"github.com/strummet/pricewatch/internal/config"
	"github.com/strummet/pricewatch/pkg/models"
)

// Fetcher defines the interface for retrieving one page
type Fetcher interface {
	Fetch(ctx context.Context, url string) (models.Page, error)
}

// New creates a new fetcher based on the configuration
func New(cfg *config.AppConfig) Fetcher {
	if cfg.Browser.Enabled {
		return NewBrowserFetcher(cfg)
	}
	return NewHTTPFetcher(cfg)
}
