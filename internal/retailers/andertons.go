package retailers

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"github.com/strummet/pricewatch/internal/extract"
	"github.com/strummet/pricewatch/pkg/models"
)

// Andertons product pages embed "customers also bought" carousels whose
// entries carry the same markup as the main product, so the page's
// canonical URL must match the requested one before any price is trusted.
var andertonsPriceRe = regexp.MustCompile(`"price":\s*"?(\d+(?:\.\d+)?)"?`)

type andertons struct{}

func (andertons) Name() string { return "andertons" }

func (a andertons) Extract(page models.Page) (extract.Result, error) {
	doc := extract.Document(page)
	if !extract.CanonicalMatches(doc, page.URL) {
		return extract.Result{}, nil
	}
	return extract.RunDoc(page, doc,
		func(_ models.Page, doc *goquery.Document) (extract.Result, bool) {
			if doc == nil {
				return extract.Result{}, false
			}
			if v, ok := doc.Find(`[itemprop="price"]`).First().Attr("content"); ok {
				return extract.Result{Price: extract.NormalizePrice(v)}, true
			}
			text := doc.Find(`[itemprop="price"]`).First().Text()
			price := extract.NormalizePrice(text)
			return extract.Result{Price: price}, price != ""
		},
		func(_ models.Page, doc *goquery.Document) (extract.Result, bool) {
			if doc == nil {
				return extract.Result{}, false
			}
			v, _ := doc.Find(`meta[property="product:price:amount"]`).Attr("content")
			price := extract.NormalizePrice(v)
			return extract.Result{Price: price}, price != ""
		},
		regexStrategy(andertonsPriceRe),
		func(_ models.Page, doc *goquery.Document) (extract.Result, bool) {
			price, ok := extract.ScanScripts(doc, andertonsPriceRe)
			return extract.Result{Price: price}, ok
		},
		jsonLDStrategy,
	), nil
}
