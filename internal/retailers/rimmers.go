package retailers

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"github.com/strummet/pricewatch/internal/extract"
	"github.com/strummet/pricewatch/pkg/models"
)

// Rimmers quotes prices as strings and capitalizes the schema.org Offers
// key in its hand-rolled linked data.
var (
	rimmersQuotedRe = regexp.MustCompile(`"price":"(\d+(?:\.\d+)?)"`)
	rimmersOffersRe = regexp.MustCompile(`"Offers":\{[^}]*"price":"(\d+(?:\.\d+)?)"`)
)

type rimmers struct{}

func (rimmers) Name() string { return "rimmers" }

func (r rimmers) Extract(page models.Page) (extract.Result, error) {
	return extract.Run(page,
		regexStrategy(rimmersQuotedRe),
		regexStrategy(rimmersOffersRe),
		func(_ models.Page, doc *goquery.Document) (extract.Result, bool) {
			price, ok := extract.ScanScripts(doc, rimmersQuotedRe)
			return extract.Result{Price: price}, ok
		},
		jsonLDStrategy,
	), nil
}
