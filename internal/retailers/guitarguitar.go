package retailers

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"github.com/strummet/pricewatch/internal/extract"
	"github.com/strummet/pricewatch/pkg/models"
)

var (
	ggQuotedPriceRe = regexp.MustCompile(`"price":\s*"?(\d+(?:\.\d+)?)"?`)
	ggPoundRe       = regexp.MustCompile(`£\s*(\d{1,3}(?:,\d{3})*(?:\.\d+)?)`)
)

type guitarGuitar struct{}

func (guitarGuitar) Name() string { return "guitarguitar" }

// Extract rejects the whole page when its canonical URL disagrees with the
// requested one; guitarguitar lists related used/new variants of the same
// model on every product page.
func (g guitarGuitar) Extract(page models.Page) (extract.Result, error) {
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
			return extract.Result{}, false
		},
		func(_ models.Page, doc *goquery.Document) (extract.Result, bool) {
			if doc == nil {
				return extract.Result{}, false
			}
			price := extract.NormalizePrice(doc.Find(".price").First().Text())
			return extract.Result{Price: price}, price != ""
		},
		jsonLDStrategy,
		regexStrategy(ggQuotedPriceRe),
		func(p models.Page, _ *goquery.Document) (extract.Result, bool) {
			price, ok := extract.RegexPrice(p.Body, ggPoundRe)
			return extract.Result{Price: price}, ok
		},
	), nil
}
