package retailers

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"github.com/strummet/pricewatch/internal/extract"
	"github.com/strummet/pricewatch/pkg/models"
)

var (
	bonnersAmountRe   = regexp.MustCompile(`"price":\{"amount":(\d+(?:\.\d+)?)`)
	bonnersCurrencyRe = regexp.MustCompile(`"amount":(\d+(?:\.\d+)?),"currencyCode":"GBP"`)
)

type bonners struct{}

func (bonners) Name() string { return "bonners" }

func (b bonners) Extract(page models.Page) (extract.Result, error) {
	return extract.Run(page,
		regexStrategy(bonnersAmountRe),
		regexStrategy(bonnersCurrencyRe),
		func(_ models.Page, doc *goquery.Document) (extract.Result, bool) {
			if price, ok := extract.ScanScripts(doc, bonnersAmountRe); ok {
				return extract.Result{Price: price}, true
			}
			price, ok := extract.ScanScripts(doc, bonnersCurrencyRe)
			return extract.Result{Price: price}, ok
		},
		jsonLDStrategy,
	), nil
}
