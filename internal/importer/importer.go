// Package importer builds catalog products from an uploaded spreadsheet of
// product listings mapped to competitor URLs.
package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/strummet/pricewatch/pkg/models"
)

// Canonical column names recognized after mapping. Competitor URL columns
// are per-domain: "Competitor URL: gak.co.uk" and so on.
const (
	ColumnProductName = "Product Name"
	ColumnProductCode = "Product Code"
	urlColumnPrefix   = "Competitor URL:"
)

// Mapping translates one spreadsheet column into a canonical field.
type Mapping struct {
	OriginalColumn string `json:"originalColumn"`
	MappedTo       string `json:"mappedTo"`
	Included       bool   `json:"included"`
}

// Importer reads .xlsx workbooks and archives each processed upload.
type Importer struct {
	ArchiveDir string

	// Now is replaceable for tests.
	Now func() time.Time
}

// New creates an importer archiving uploads into dir.
func New(dir string) *Importer {
	return &Importer{ArchiveDir: dir, Now: time.Now}
}

// ImportFile reads the first sheet of the workbook at path, applies the
// column mappings (nil means take every column under its own name) and
// returns the resulting products plus the number of data rows read. The
// source file is archived under a timestamped unique name.
func (imp *Importer) ImportFile(path string, mappings []Mapping) ([]models.Product, int, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, 0, err
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("import %s: empty sheet %q", path, sheet)
	}

	header := rows[0]
	columns := mapColumns(header, mappings)

	var products []models.Product
	count := 0
	for _, row := range rows[1:] {
		p := productFromRow(row, columns)
		if p.ProductName == "" && p.ProductCode == "" && len(p.URLs) == 0 {
			continue
		}
		products = append(products, p)
		count++
	}

	if imp.ArchiveDir != "" {
		if err := imp.archive(path); err != nil {
			return nil, 0, err
		}
	}

	return products, count, nil
}

// column pairs a sheet index with the canonical field it feeds.
type column struct {
	index    int
	mappedTo string
}

func mapColumns(header []string, mappings []Mapping) []column {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}

	if len(mappings) == 0 {
		cols := make([]column, 0, len(header))
		for i, h := range header {
			cols = append(cols, column{index: i, mappedTo: strings.TrimSpace(h)})
		}
		return cols
	}

	var cols []column
	for _, m := range mappings {
		if !m.Included {
			continue
		}
		i, ok := index[m.OriginalColumn]
		if !ok {
			continue
		}
		cols = append(cols, column{index: i, mappedTo: m.MappedTo})
	}
	return cols
}

func productFromRow(row []string, cols []column) models.Product {
	var p models.Product
	for _, c := range cols {
		if c.index >= len(row) {
			continue
		}
		value := strings.TrimSpace(row[c.index])
		switch {
		case c.mappedTo == ColumnProductName:
			p.ProductName = value
		case c.mappedTo == ColumnProductCode:
			p.ProductCode = value
		case strings.HasPrefix(c.mappedTo, urlColumnPrefix):
			if value != "" {
				p.URLs = append(p.URLs, models.CompetitorURL{URL: value, Stock: "Unknown"})
			}
		}
	}
	return p
}

// archive copies the upload under a timestamp+unique-id name so repeated
// imports of the same filename never clobber each other.
func (imp *Importer) archive(path string) error {
	if err := os.MkdirAll(imp.ArchiveDir, 0o755); err != nil {
		return err
	}

	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	name := fmt.Sprintf("%s_%s_%s%s", stem, imp.Now().Format("20060102_150405"), uuid.NewString()[:8], ext)

	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(imp.ArchiveDir, name))
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}
