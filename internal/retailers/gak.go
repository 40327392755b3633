package retailers

import (
	"regexp"
	"strconv"

	"github.com/PuerkitoBio/goquery"

	"github.com/strummet/pricewatch/internal/extract"
	"github.com/strummet/pricewatch/pkg/models"
)

var (
	gakDataPriceRe = regexp.MustCompile(`data-price="(\d+(?:\.\d+)?)"`)
	gakJSONPriceRe = regexp.MustCompile(`"price":(\d+(?:\.\d+)?)`)
	gakPoundRe     = regexp.MustCompile(`£(\d+\.\d+)`)
)

type gak struct{}

func (gak) Name() string { return "gak" }

func (g gak) Extract(page models.Page) (extract.Result, error) {
	return extract.Run(page,
		// product cards carry the price in a data attribute
		func(_ models.Page, doc *goquery.Document) (extract.Result, bool) {
			if doc == nil {
				return extract.Result{}, false
			}
			var price string
			doc.Find(".product-card, [data-price]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
				if v, ok := s.Attr("data-price"); ok && v != "" {
					price = extract.NormalizePrice(v)
					return false
				}
				return true
			})
			return extract.Result{Price: price}, price != ""
		},
		func(p models.Page, _ *goquery.Document) (extract.Result, bool) {
			price, ok := extract.RegexPrice(p.Body, gakDataPriceRe)
			return extract.Result{Price: price}, ok
		},
		func(p models.Page, _ *goquery.Document) (extract.Result, bool) {
			price, ok := extract.RegexPrice(p.Body, gakJSONPriceRe)
			return extract.Result{Price: price}, ok
		},
		func(_ models.Page, doc *goquery.Document) (extract.Result, bool) {
			price, ok := extract.ScanScripts(doc, gakJSONPriceRe)
			return extract.Result{Price: price}, ok
		},
		func(_ models.Page, doc *goquery.Document) (extract.Result, bool) {
			price, stock, ok := extract.JSONLDOffer(doc)
			return extract.Result{Price: price, Stock: stock}, ok
		},
		// last resort: highest pound amount inside the price container, so a
		// struck-through sale price does not shadow the asking price
		func(_ models.Page, doc *goquery.Document) (extract.Result, bool) {
			if doc == nil {
				return extract.Result{}, false
			}
			text := doc.Find(".price").First().Text()
			best, bestVal := "", 0.0
			for _, m := range gakPoundRe.FindAllStringSubmatch(text, -1) {
				v, err := strconv.ParseFloat(m[1], 64)
				if err != nil {
					continue
				}
				if v > bestVal {
					best, bestVal = m[1], v
				}
			}
			return extract.Result{Price: best}, best != ""
		},
	), nil
}
