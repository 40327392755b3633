package retailers

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"github.com/strummet/pricewatch/internal/extract"
	"github.com/strummet/pricewatch/pkg/models"
)

// MusicMatter's storefront API embeds prices as with_tax/without_tax value
// pairs; the tax-inclusive value is the displayed price.
var (
	mmWithTaxRe       = regexp.MustCompile(`"with_tax":\{[^}]*"value":(\d+(?:\.\d+)?)`)
	mmNestedWithTaxRe = regexp.MustCompile(`"price":\{[^}]*"with_tax":\{[^}]*"value":(\d+(?:\.\d+)?)`)
)

type musicMatter struct{}

func (musicMatter) Name() string { return "musicmatter" }

func (m musicMatter) Extract(page models.Page) (extract.Result, error) {
	return extract.Run(page,
		regexStrategy(mmWithTaxRe),
		regexStrategy(mmNestedWithTaxRe),
		func(_ models.Page, doc *goquery.Document) (extract.Result, bool) {
			price, ok := extract.ScanScripts(doc, mmWithTaxRe)
			return extract.Result{Price: price}, ok
		},
		jsonLDStrategy,
	), nil
}
