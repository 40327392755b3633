package fetch

import (
	"math/rand"
	"net/http"
	"net/url"

	"github.com/strummet/pricewatch/internal/config"
)

// proxyURL selects a proxy from the configured list, rotating when enabled.
func proxyURL(cfg *config.ProxyConfig) (*url.URL, error) {
	if !cfg.Enabled || len(cfg.List) == 0 {
		return nil, nil
	}

	proxyStr := cfg.List[0]
	if cfg.Rotate && len(cfg.List) > 1 {
		proxyStr = cfg.List[rand.Intn(len(cfg.List))]
	}

	u, err := url.Parse(proxyStr)
	if err != nil {
		return nil, err
	}

	if cfg.Auth.Username != "" && cfg.Auth.Password != "" {
		u.User = url.UserPassword(cfg.Auth.Username, cfg.Auth.Password)
	}

	return u, nil
}

// applyProxy installs proxy selection on the transport. Selection runs per
// request so rotation actually rotates over the fetcher's lifetime. A parse
// failure sends that request direct; scraping without a proxy beats not
// scraping.
func applyProxy(transport *http.Transport, cfg *config.ProxyConfig) {
	transport.Proxy = func(*http.Request) (*url.URL, error) {
		u, err := proxyURL(cfg)
		if err != nil {
			return nil, nil
		}
		return u, nil
	}
}
