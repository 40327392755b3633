// Package export produces the competitor-price CSV and pushes it to the
// remote backup sink.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/strummet/pricewatch/pkg/models"
)

// Header is the fixed export header row.
var Header = []string{"Product Name", "Product Code", "Competitor URL", "Competitor Price", "Date Scraped"}

// Filename returns the date-stamped export name for a run.
func Filename(now time.Time) string {
	return "prices" + now.Format("2006-01-02") + ".csv"
}

// WriteCSV writes one row per (product, competitor URL) pair, ordered by
// product name case-insensitively. A product with no URLs still emits one
// row with blank competitor fields. Product codes are wrapped in Excel's
// text formula form so leading zeros survive a spreadsheet round-trip.
func WriteCSV(w io.Writer, products []models.Product) error {
	sorted := make([]models.Product, len(products))
	copy(sorted, products)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].ProductName) < strings.ToLower(sorted[j].ProductName)
	})

	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}

	for _, p := range sorted {
		code := fmt.Sprintf("=%q", p.ProductCode)
		if len(p.URLs) == 0 {
			if err := cw.Write([]string{p.ProductName, code, "", "", ""}); err != nil {
				return err
			}
			continue
		}
		for _, u := range p.URLs {
			row := []string{p.ProductName, code, u.URL, u.Price, formatScrapeDate(u.LastUpdate)}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// formatScrapeDate reduces a lastUpdate timestamp to a date, passing
// through unparseable values untouched.
func formatScrapeDate(lastUpdate string) string {
	if lastUpdate == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339, lastUpdate)
	if err != nil {
		return lastUpdate
	}
	return t.Format("2006-01-02")
}
