package retailers

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"github.com/strummet/pricewatch/internal/extract"
	"github.com/strummet/pricewatch/pkg/models"
)

// Gear4music serializes the asking price into analytics blobs embedded in
// the page; unit_price is the most stable field, unit_sale_price covers
// discounted listings.
var (
	g4mUnitPriceRe   = regexp.MustCompile(`"unit_price":"(\d+(?:\.\d+)?)"`)
	g4mSalePriceRe   = regexp.MustCompile(`"unit_sale_price":"(\d+(?:\.\d+)?)"`)
	g4mPriceRe       = regexp.MustCompile(`"price":(\d+(?:\.\d+)?)`)
	g4mQuotedPriceRe = regexp.MustCompile(`"price":\s*"(\d+(?:\.\d+)?)"`)
)

type gear4Music struct{}

func (gear4Music) Name() string { return "gear4music" }

func (g gear4Music) Extract(page models.Page) (extract.Result, error) {
	return extract.Run(page,
		regexStrategy(g4mUnitPriceRe),
		regexStrategy(g4mSalePriceRe),
		regexStrategy(g4mPriceRe),
		regexStrategy(g4mQuotedPriceRe),
		func(_ models.Page, doc *goquery.Document) (extract.Result, bool) {
			for _, re := range []*regexp.Regexp{g4mUnitPriceRe, g4mSalePriceRe, g4mPriceRe} {
				if price, ok := extract.ScanScripts(doc, re); ok {
					return extract.Result{Price: price}, true
				}
			}
			return extract.Result{}, false
		},
		jsonLDStrategy,
	), nil
}

// regexStrategy adapts a raw-body pattern into a cascade step.
func regexStrategy(re *regexp.Regexp) extract.Strategy {
	return func(p models.Page, _ *goquery.Document) (extract.Result, bool) {
		price, ok := extract.RegexPrice(p.Body, re)
		return extract.Result{Price: price}, ok
	}
}

// jsonLDStrategy is the shared structured linked-data fallback.
func jsonLDStrategy(_ models.Page, doc *goquery.Document) (extract.Result, bool) {
	price, stock, ok := extract.JSONLDOffer(doc)
	return extract.Result{Price: price, Stock: stock}, ok
}
