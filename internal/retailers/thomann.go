package retailers

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"github.com/strummet/pricewatch/internal/extract"
	"github.com/strummet/pricewatch/pkg/models"
)

// Thomann renders prices with thousands separators ("£1,444"), so every
// pattern here admits grouped digits; NormalizePrice strips the commas.
var (
	thomannPrimaryRe = regexp.MustCompile(`<span class="fx-typography-price-primary[^>]*>\s*£\s*(\d{1,3}(?:,\d{3})*(?:\.\d+)?)`)
	thomannSymbolRe  = regexp.MustCompile(`<span class="price__symbol">£</span>\s*(\d{1,3}(?:,\d{3})*(?:\.\d+)?)`)
	thomannPoundRe   = regexp.MustCompile(`£\s*(\d{1,3}(?:,\d{3})*(?:\.\d+)?)`)
	thomannScriptRe  = regexp.MustCompile(`"price":\s*"?(\d{1,3}(?:,\d{3})*(?:\.\d+)?)"?`)
)

type thomann struct{}

func (thomann) Name() string { return "thomann" }

func (t thomann) Extract(page models.Page) (extract.Result, error) {
	return extract.Run(page,
		regexStrategy(thomannPrimaryRe),
		regexStrategy(thomannSymbolRe),
		// any span carrying a pound amount
		func(_ models.Page, doc *goquery.Document) (extract.Result, bool) {
			if doc == nil {
				return extract.Result{}, false
			}
			var price string
			doc.Find("span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
				if m := thomannPoundRe.FindStringSubmatch(s.Text()); m != nil {
					price = extract.NormalizePrice(m[1])
					return false
				}
				return true
			})
			return extract.Result{Price: price}, price != ""
		},
		func(_ models.Page, doc *goquery.Document) (extract.Result, bool) {
			price, ok := extract.ScanScripts(doc, thomannScriptRe)
			return extract.Result{Price: price}, ok
		},
		jsonLDStrategy,
	), nil
}
