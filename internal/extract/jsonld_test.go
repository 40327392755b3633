package extract

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ldPage(ld string) string {
	return fmt.Sprintf(`<html><head><script type="application/ld+json">%s</script></head></html>`, ld)
}

func TestJSONLDOfferSingularObject(t *testing.T) {
	doc := Document(htmlPage("u", ldPage(`{"@type":"Product","name":"Strat","offers":{"@type":"Offer","price":"599.00","availability":"https://schema.org/InStock"}}`)))
	price, stock, ok := JSONLDOffer(doc)
	require.True(t, ok)
	assert.Equal(t, "599.00", price)
	assert.Equal(t, "In Stock", stock)
}

func TestJSONLDOfferNumericPrice(t *testing.T) {
	doc := Document(htmlPage("u", ldPage(`{"@type":"Product","offers":{"price":1299.5}}`)))
	price, _, ok := JSONLDOffer(doc)
	require.True(t, ok)
	assert.Equal(t, "1299.5", price)
}

func TestJSONLDOfferArrayPrefersProductEntry(t *testing.T) {
	ld := `[
		{"@type":"Offer","price":"19.99"},
		{"@type":"Product","offers":{"price":"899.00"}}
	]`
	doc := Document(htmlPage("u", ldPage(ld)))
	price, _, ok := JSONLDOffer(doc)
	require.True(t, ok)
	assert.Equal(t, "899.00", price, "Product-typed entry's offer must beat the bare Offer")
}

func TestJSONLDOfferGraphWrapper(t *testing.T) {
	ld := `{"@graph":[{"@type":"WebPage"},{"@type":"Product","offers":[{"price":"749.00","availability":"http://schema.org/OutOfStock"}]}]}`
	doc := Document(htmlPage("u", ldPage(ld)))
	price, stock, ok := JSONLDOffer(doc)
	require.True(t, ok)
	assert.Equal(t, "749.00", price)
	assert.Equal(t, "Out of Stock", stock)
}

func TestJSONLDOfferCapitalisedOffersKey(t *testing.T) {
	doc := Document(htmlPage("u", ldPage(`{"@type":"Product","Offers":{"@type":"Offer","priceCurrency":"GBP","price":"330.00"}}`)))
	price, _, ok := JSONLDOffer(doc)
	require.True(t, ok)
	assert.Equal(t, "330.00", price)
}

func TestJSONLDOfferMalformedBlockIgnored(t *testing.T) {
	body := `<html><head>` +
		`<script type="application/ld+json">{"@type":"Product","offers":</script>` +
		`<script type="application/ld+json">{"@type":"Product","offers":{"price":"42.00"}}</script>` +
		`</head></html>`
	doc := Document(htmlPage("u", body))
	price, _, ok := JSONLDOffer(doc)
	require.True(t, ok, "malformed block must not abort the scan")
	assert.Equal(t, "42.00", price)
}

func TestJSONLDOfferNothingFound(t *testing.T) {
	doc := Document(htmlPage("u", ldPage(`{"@type":"BreadcrumbList"}`)))
	_, _, ok := JSONLDOffer(doc)
	assert.False(t, ok)
}
