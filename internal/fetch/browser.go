package fetch

import (
	"context"

	"github.com/chromedp/chromedp"

	"github.com/strummet/pricewatch/internal/config"
	"github.com/strummet/pricewatch/pkg/models"
)

// BrowserFetcher renders pages in a headless browser before returning the
// HTML. Some retailers only inject prices client-side; this fetcher trades
// speed for seeing what a real visitor sees.
type BrowserFetcher struct {
	Config *config.AppConfig
}

// NewBrowserFetcher creates a new browser fetcher
func NewBrowserFetcher(cfg *config.AppConfig) *BrowserFetcher {
	return &BrowserFetcher{Config: cfg}
}

// Fetch navigates to the URL, waits for the configured settle time and
// returns the rendered document.
func (f *BrowserFetcher) Fetch(ctx context.Context, url string) (models.Page, error) {
	ctx, cancel := context.WithTimeout(ctx, f.Config.Scraper.Timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", f.Config.Browser.Headless),
		chromedp.UserAgent(pick(f.Config.Scraper.UserAgents)),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(f.Config.Browser.WaitTime),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return models.Page{}, err
	}

	return models.Page{
		URL:         url,
		Body:        []byte(html),
		ContentType: "text/html",
		StatusCode:  200,
		FetchedAt:   timeNow(),
	}, nil
}
