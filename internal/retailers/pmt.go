package retailers

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"github.com/strummet/pricewatch/internal/extract"
	"github.com/strummet/pricewatch/pkg/models"
)

var pmtPriceRe = regexp.MustCompile(`"price":(\d+(?:\.\d+)?)`)

type pmt struct{}

func (pmt) Name() string { return "pmt" }

func (p pmt) Extract(page models.Page) (extract.Result, error) {
	return extract.Run(page,
		regexStrategy(pmtPriceRe),
		// PMT serializes product JSON into data-attributes on the add-to-cart
		// widget
		func(_ models.Page, doc *goquery.Document) (extract.Result, bool) {
			if doc == nil {
				return extract.Result{}, false
			}
			var price string
			doc.Find("[data-attributes]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
				attrs, _ := s.Attr("data-attributes")
				if m := pmtPriceRe.FindStringSubmatch(attrs); m != nil {
					price = extract.NormalizePrice(m[1])
					return false
				}
				return true
			})
			return extract.Result{Price: price}, price != ""
		},
		func(_ models.Page, doc *goquery.Document) (extract.Result, bool) {
			price, ok := extract.ScanScripts(doc, pmtPriceRe)
			return extract.Result{Price: price}, ok
		},
		jsonLDStrategy,
	), nil
}
