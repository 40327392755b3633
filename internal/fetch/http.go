package fetch

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/strummet/pricewatch/internal/config"
	"github.com/strummet/pricewatch/pkg/models"
)

var timeNow = time.Now

// HTTPFetcher implements plain HTTP fetching with per-call header rotation.
// It never retries; retry policy belongs to the caller.
type HTTPFetcher struct {
	Config *config.AppConfig
	Client *http.Client
}

// NewHTTPFetcher creates a new HTTP fetcher
func NewHTTPFetcher(cfg *config.AppConfig) *HTTPFetcher {
	transport := &http.Transport{}
	if cfg.Proxies.Enabled && len(cfg.Proxies.List) > 0 {
		applyProxy(transport, &cfg.Proxies)
	}
	return &HTTPFetcher{
		Config: cfg,
		Client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Scraper.Timeout,
		},
	}
}

// Fetch issues a GET with a randomly selected user agent, accept and
// accept-language header set. Connection failures and non-2xx statuses are
// both surfaced as errors.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (models.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.Page{}, err
	}

	req.Header.Set("User-Agent", pick(f.Config.Scraper.UserAgents))
	req.Header.Set("Accept", pick(f.Config.Scraper.AcceptHeaders))
	req.Header.Set("Accept-Language", pick(f.Config.Scraper.AcceptLanguages))

	resp, err := f.Client.Do(req)
	if err != nil {
		return models.Page{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.Page{}, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Page{}, err
	}

	return models.Page{
		URL:         url,
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
		FetchedAt:   timeNow(),
	}, nil
}

func pick(pool []string) string {
	if len(pool) == 0 {
		return ""
	}
	return pool[rand.Intn(len(pool))]
}
