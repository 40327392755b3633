// Package extract defines the extraction contract shared by all retailer
// scrapers: an ordered cascade of independent strategies run over a fetched
// page, returning the first successful price match.
package extract

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/strummet/pricewatch/pkg/models"
)

// Result is the outcome of running a retailer's extraction cascade.
// Found distinguishes "no strategy matched" from a zero value; a hard
// failure is reported through the Extractor's error return instead.
type Result struct {
	Price string
	Stock string
	Found bool
}

// Extractor is implemented once per supported retailer.
type Extractor interface {
	// Name identifies the retailer for logs and results.
	Name() string
	// Extract runs the retailer's cascade over a fetched page.
	Extract(page models.Page) (Result, error)
}

// Strategy is one independent extraction attempt. doc is nil when the body
// could not be parsed as HTML; strategies that need it must tolerate that.
type Strategy func(page models.Page, doc *goquery.Document) (Result, bool)

// Run executes strategies in order and returns the first match. A strategy
// that panics (malformed payload, absent attribute) counts as a miss and
// never aborts the cascade.
func Run(page models.Page, strategies ...Strategy) Result {
	return RunDoc(page, Document(page), strategies...)
}

// RunDoc is Run for callers that already parsed the body, typically to
// check the page's canonical URL before running the cascade.
func RunDoc(page models.Page, doc *goquery.Document, strategies ...Strategy) Result {
	for _, s := range strategies {
		if r, ok := try(s, page, doc); ok && r.Price != "" {
			if r.Stock == "" {
				r.Stock = "Unknown"
			}
			r.Found = true
			return r
		}
	}
	return Result{}
}

func try(s Strategy, page models.Page, doc *goquery.Document) (r Result, ok bool) {
	defer func() {
		if recover() != nil {
			r, ok = Result{}, false
		}
	}()
	return s(page, doc)
}

// Document parses the page body as HTML. Returns nil on parse failure so
// regex-based strategies can still run.
func Document(page models.Page) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return nil
	}
	return doc
}

var (
	priceChars  = regexp.MustCompile(`[\d,]+(?:\.\d+)?`)
	currencySym = strings.NewReplacer("£", "", "$", "", "€", "", ",", "")
)

// NormalizePrice reduces raw price text to decimal text: currency symbols
// and thousands separators are stripped, nothing is rounded or converted.
func NormalizePrice(raw string) string {
	m := priceChars.FindString(raw)
	if m == "" {
		return ""
	}
	return currencySym.Replace(m)
}

// RegexPrice scans the raw body with a pattern whose first capture group is
// the price.
func RegexPrice(body []byte, re *regexp.Regexp) (string, bool) {
	m := re.FindSubmatch(body)
	if m == nil || len(m) < 2 {
		return "", false
	}
	return NormalizePrice(string(m[1])), true
}

// ScanScripts applies a price pattern to every inline script payload.
// Retailers frequently inject prices via script/JSON rather than static
// markup.
func ScanScripts(doc *goquery.Document, re *regexp.Regexp) (string, bool) {
	if doc == nil {
		return "", false
	}
	var price string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		m := re.FindStringSubmatch(s.Text())
		if m != nil && len(m) >= 2 {
			price = NormalizePrice(m[1])
			return false
		}
		return true
	})
	return price, price != ""
}

// CanonicalMatches validates the page's self-declared identity against the
// requested URL. When the page carries no canonical metadata the check
// passes; when it does, a mismatch means a carousel or cross-sold product
// page was served and any price on it must be rejected.
func CanonicalMatches(doc *goquery.Document, pageURL string) bool {
	if doc == nil {
		return true
	}
	canonical, _ := doc.Find("link[rel='canonical']").Attr("href")
	if canonical == "" {
		canonical, _ = doc.Find("meta[property='og:url']").Attr("content")
	}
	if canonical == "" {
		return true
	}
	return urlKey(canonical) == urlKey(pageURL)
}

func urlKey(u string) string {
	u = strings.TrimSpace(u)
	u = strings.TrimPrefix(u, "https://")
	u = strings.TrimPrefix(u, "http://")
	u = strings.TrimPrefix(u, "www.")
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	return strings.TrimSuffix(u, "/")
}
