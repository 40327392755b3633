package extract

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// JSONLDOffer scans embedded schema.org linked-data blocks for an offer
// price. It tolerates a singular object, an array of typed entries and an
// @graph wrapper, and prefers a Product-typed entry's nested offer over a
// bare Offer. Some retailers capitalize the Offers key; both spellings are
// accepted. Availability, when present, is mapped to a stock string.
func JSONLDOffer(doc *goquery.Document) (price, stock string, ok bool) {
	if doc == nil {
		return "", "", false
	}
	var nodes []map[string]any
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var raw any
		if err := json.Unmarshal([]byte(s.Text()), &raw); err != nil {
			return
		}
		nodes = append(nodes, flattenLD(raw)...)
	})

	// first pass: Product-typed entries only
	for _, n := range nodes {
		if !hasType(n, "Product") {
			continue
		}
		if p, st, found := offerPrice(n); found {
			return p, st, true
		}
	}
	// second pass: anything carrying an offer, or a bare Offer node
	for _, n := range nodes {
		if p, st, found := offerPrice(n); found {
			return p, st, true
		}
		if hasType(n, "Offer") {
			if p, found := priceField(n); found {
				return p, availability(n), true
			}
		}
	}
	return "", "", false
}

func flattenLD(raw any) []map[string]any {
	var out []map[string]any
	switch v := raw.(type) {
	case map[string]any:
		if g, ok := v["@graph"].([]any); ok {
			for _, e := range g {
				out = append(out, flattenLD(e)...)
			}
			return out
		}
		out = append(out, v)
	case []any:
		for _, e := range v {
			out = append(out, flattenLD(e)...)
		}
	}
	return out
}

func hasType(n map[string]any, want string) bool {
	switch t := n["@type"].(type) {
	case string:
		return strings.EqualFold(t, want)
	case []any:
		for _, e := range t {
			if s, ok := e.(string); ok && strings.EqualFold(s, want) {
				return true
			}
		}
	}
	return false
}

func offerPrice(n map[string]any) (string, string, bool) {
	offers := n["offers"]
	if offers == nil {
		offers = n["Offers"]
	}
	switch o := offers.(type) {
	case map[string]any:
		if p, ok := priceField(o); ok {
			return p, availability(o), true
		}
	case []any:
		for _, e := range o {
			m, ok := e.(map[string]any)
			if !ok {
				continue
			}
			if p, ok := priceField(m); ok {
				return p, availability(m), true
			}
		}
	}
	return "", "", false
}

func priceField(m map[string]any) (string, bool) {
	switch p := m["price"].(type) {
	case string:
		if n := NormalizePrice(p); n != "" {
			return n, true
		}
	case float64:
		return strconv.FormatFloat(p, 'f', -1, 64), true
	}
	return "", false
}

func availability(m map[string]any) string {
	s, _ := m["availability"].(string)
	switch {
	case strings.Contains(s, "InStock"):
		return "In Stock"
	case strings.Contains(s, "OutOfStock"):
		return "Out of Stock"
	}
	return ""
}
