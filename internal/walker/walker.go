// Package walker runs full catalog update passes: every competitor URL is
// fetched, dispatched to its retailer extractor and mutated in place.
package walker

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/strummet/pricewatch/internal/catalog"
	"github.com/strummet/pricewatch/internal/config"
	"github.com/strummet/pricewatch/internal/extract"
	"github.com/strummet/pricewatch/internal/fetch"
	"github.com/strummet/pricewatch/internal/obs"
	"github.com/strummet/pricewatch/internal/retailers"
	"github.com/strummet/pricewatch/pkg/models"
)

// ResolveFunc maps a URL to its retailer extractor; false means no scraper
// is available for the domain.
type ResolveFunc func(url string) (extract.Extractor, bool)

// ExportFunc is the post-walk export-and-backup hook. Its failure is
// logged, never propagated: the catalog save that preceded it stands.
type ExportFunc func(ctx context.Context, products []models.Product) error

// Walker walks the catalog sequentially, one URL at a time. Sequential
// processing bounds the outbound request rate; competitor sites notice
// parallel hammering.
type Walker struct {
	Store   *catalog.Store
	Fetcher fetch.Fetcher
	Resolve ResolveFunc
	Export  ExportFunc

	// Now and Sleep are replaceable for tests.
	Now   func() time.Time
	Sleep func(ctx context.Context)

	loc      *time.Location
	progress Progress
}

// New creates a walker wired to the default registry and a politeness delay
// drawn from the configured range.
func New(store *catalog.Store, fetcher fetch.Fetcher, cfg *config.AppConfig) *Walker {
	minD, maxD := cfg.Scraper.MinDelay, cfg.Scraper.MaxDelay
	if maxD < minD {
		maxD = minD
	}
	return &Walker{
		Store:   store,
		Fetcher: fetcher,
		Resolve: retailers.Resolve,
		Now:     time.Now,
		Sleep: func(ctx context.Context) {
			d := minD
			if span := maxD - minD; span > 0 {
				d += time.Duration(rand.Int63n(int64(span)))
			}
			select {
			case <-time.After(d):
			case <-ctx.Done():
			}
		},
		loc: cfg.Catalog.Location(),
	}
}

// Progress returns a snapshot of the in-flight walk counters.
func (w *Walker) Progress() models.ProgressSnapshot {
	return w.progress.Snapshot()
}

// Run performs one full walk. The catalog is saved exactly once after the
// walk completes, however many individual URLs failed; a persistence
// failure is the only fatal error. Cancellation is honored between URLs and
// still persists the partial results.
func (w *Walker) Run(ctx context.Context) (models.WalkSummary, error) {
	log := obs.Logger
	summary := models.WalkSummary{
		RunID:   uuid.NewString(),
		Started: w.Now(),
	}

	products, err := w.Store.Load()
	if err != nil {
		return summary, err
	}

	total := 0
	for _, p := range products {
		for _, u := range p.URLs {
			if u.URL != "" {
				total++
			}
		}
	}
	w.progress.begin(total, fmt.Sprintf("Found %d URLs to process", total))
	log.Info("walk started", "run_id", summary.RunID, "urls", total)

	var walkErr error

walk:
	for pi := range products {
		for ui := range products[pi].URLs {
			entry := &products[pi].URLs[ui]
			if entry.URL == "" {
				continue
			}
			if err := ctx.Err(); err != nil {
				walkErr = err
				break walk
			}

			outcome := w.processURL(ctx, entry)
			summary.Processed++
			switch outcome {
			case models.OutcomeUpdated:
				summary.Updated++
			case models.OutcomeUnchanged:
				summary.Unchanged++
			case models.OutcomeFailed:
				summary.Failed++
			}
			w.progress.step(fmt.Sprintf("Scraped %d/%d URLs", summary.Processed, total))

			if summary.Processed < total {
				w.Sleep(ctx)
			}
		}
	}

	// One catalog-wide save, also on cancellation: timestamps from the
	// attempted URLs must not be lost.
	if err := w.Store.Save(products); err != nil {
		w.progress.finish("Saving scraped prices failed")
		return summary, fmt.Errorf("persist catalog: %w", err)
	}

	summary.Finished = w.Now()
	w.progress.finish(fmt.Sprintf("Completed: %d URLs processed", summary.Processed))
	log.Info("walk finished",
		"run_id", summary.RunID,
		"processed", summary.Processed,
		"updated", summary.Updated,
		"unchanged", summary.Unchanged,
		"failed", summary.Failed,
	)

	if walkErr != nil {
		return summary, walkErr
	}

	if w.Export != nil {
		if err := w.Export(ctx, products); err != nil {
			log.Error("post-walk export failed", "run_id", summary.RunID, "error", err)
		}
	}

	return summary, nil
}

// processURL runs one entry through FETCHING and EXTRACTING. Whatever the
// outcome, lastUpdate records that the attempt happened.
func (w *Walker) processURL(ctx context.Context, entry *models.CompetitorURL) models.Outcome {
	log := obs.Logger
	entry.LastUpdate = w.Now().In(w.loc).Format(time.RFC3339)

	extractor, ok := w.Resolve(entry.URL)
	if !ok {
		log.Debug("no scraper for domain", "url", entry.URL)
		return models.OutcomeUnchanged
	}

	page, err := w.Fetcher.Fetch(ctx, entry.URL)
	if err != nil {
		log.Warn("fetch failed", "url", entry.URL, "error", err)
		return models.OutcomeFailed
	}

	result, err := extractor.Extract(page)
	if err != nil {
		log.Warn("extraction failed", "url", entry.URL, "site", extractor.Name(), "error", err)
		return models.OutcomeFailed
	}
	if !result.Found {
		log.Debug("no price found", "url", entry.URL, "site", extractor.Name())
		return models.OutcomeUnchanged
	}

	if result.Price == entry.Price {
		return models.OutcomeUnchanged
	}
	entry.Price = result.Price
	entry.Stock = result.Stock
	log.Info("price updated", "url", entry.URL, "site", extractor.Name(), "price", result.Price)
	return models.OutcomeUpdated
}

// ScrapeURL is the interactive single-URL path: resolve, fetch, extract,
// and surface the raw error to the caller instead of aggregating it.
func ScrapeURL(ctx context.Context, fetcher fetch.Fetcher, rawURL string, loc *time.Location) (models.ScrapeResult, error) {
	domain := retailers.Domain(rawURL)
	if domain == "" {
		return models.ScrapeResult{}, fmt.Errorf("invalid URL format: %q", rawURL)
	}

	extractor, ok := retailers.Resolve(rawURL)
	if !ok {
		return models.ScrapeResult{}, fmt.Errorf("no scraper found for %s", domain)
	}

	res := models.ScrapeResult{
		URL:       rawURL,
		Domain:    domain,
		Price:     "Not found",
		Stock:     "Unknown",
		Timestamp: time.Now().In(loc).Format(time.RFC3339),
	}

	page, err := fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return models.ScrapeResult{}, err
	}

	result, err := extractor.Extract(page)
	if err != nil {
		return models.ScrapeResult{}, err
	}
	if result.Found {
		res.Price = result.Price
		res.Stock = result.Stock
	}
	return res, nil
}
