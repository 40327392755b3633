package models

import (
	"time"
)

// CompetitorURL is one tracked competitor listing attached to a product.
// Price is kept as decimal text exactly as extracted (no rounding, no
// currency symbol). LastUpdate records the last processing attempt, not the
// last price change.
type CompetitorURL struct {
	URL        string `json:"url"`
	Price      string `json:"price,omitempty"`
	Stock      string `json:"stock,omitempty"`
	LastUpdate string `json:"lastUpdate,omitempty"`
}

// Product is a catalog entry with its competitor listings.
type Product struct {
	ProductName string          `json:"productName"`
	ProductCode string          `json:"productCode"`
	URLs        []CompetitorURL `json:"urls"`
}

// Page represents a fetched response for a single URL.
type Page struct {
	URL         string
	Body        []byte
	ContentType string
	StatusCode  int
	FetchedAt   time.Time
}

// Outcome is the terminal state of processing one competitor URL.
type Outcome int

const (
	// OutcomeUpdated means extraction produced a price different from the
	// stored one and the entry was overwritten.
	OutcomeUpdated Outcome = iota
	// OutcomeUnchanged covers equal prices, unsupported domains and
	// extraction misses; the timestamp is still refreshed.
	OutcomeUnchanged
	// OutcomeFailed means the fetch or the extractor errored.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUpdated:
		return "updated"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// WalkSummary aggregates the results of one full catalog walk.
type WalkSummary struct {
	RunID     string    `json:"run_id"`
	Processed int       `json:"processed"`
	Updated   int       `json:"updated"`
	Unchanged int       `json:"unchanged"`
	Failed    int       `json:"failed"`
	Started   time.Time `json:"started"`
	Finished  time.Time `json:"finished"`
}

// ProgressSnapshot is the walker's progress as consumed by the query
// interface.
type ProgressSnapshot struct {
	InProgress bool   `json:"inProgress"`
	Progress   int    `json:"progress"`
	Total      int    `json:"total"`
	Message    string `json:"message"`
}

// ScrapeResult is the response of an interactive single-URL scrape.
type ScrapeResult struct {
	URL       string `json:"url"`
	Domain    string `json:"domain"`
	Price     string `json:"price"`
	Stock     string `json:"stock"`
	Timestamp string `json:"timestamp"`
}
