package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/strummet/pricewatch/pkg/models"
)

func writeWorkbook(t *testing.T, rows [][]string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "stock_list.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func newTestImporter(t *testing.T) *Importer {
	t.Helper()
	imp := New(t.TempDir())
	imp.Now = func() time.Time { return time.Date(2026, 6, 1, 10, 30, 0, 0, time.UTC) }
	return imp
}

func TestImportFileCanonicalHeader(t *testing.T) {
	path := writeWorkbook(t, [][]string{
		{"Product Name", "Product Code", "Competitor URL: gak.co.uk", "Competitor URL: gear4music.com"},
		{"Fender Player Strat", "0451", "https://www.gak.co.uk/p", "https://www.gear4music.com/p"},
		{"Boss DS-1", "77", "", ""},
	})

	imp := newTestImporter(t)
	products, count, err := imp.ImportFile(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.Len(t, products, 2)

	assert.Equal(t, "Fender Player Strat", products[0].ProductName)
	assert.Equal(t, "0451", products[0].ProductCode)
	require.Len(t, products[0].URLs, 2)
	assert.Equal(t, models.CompetitorURL{URL: "https://www.gak.co.uk/p", Stock: "Unknown"}, products[0].URLs[0])

	assert.Equal(t, "Boss DS-1", products[1].ProductName)
	assert.Empty(t, products[1].URLs)
}

func TestImportFileAppliesMappings(t *testing.T) {
	path := writeWorkbook(t, [][]string{
		{"SKU", "Title", "GAK Link", "Internal Notes"},
		{"0042", "Yamaha P-125", "https://www.gak.co.uk/p125", "do not publish"},
	})

	mappings := []Mapping{
		{OriginalColumn: "Title", MappedTo: ColumnProductName, Included: true},
		{OriginalColumn: "SKU", MappedTo: ColumnProductCode, Included: true},
		{OriginalColumn: "GAK Link", MappedTo: "Competitor URL: gak.co.uk", Included: true},
		{OriginalColumn: "Internal Notes", MappedTo: ColumnProductName, Included: false},
	}

	imp := newTestImporter(t)
	products, count, err := imp.ImportFile(path, mappings)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.Len(t, products, 1)

	assert.Equal(t, "Yamaha P-125", products[0].ProductName, "excluded mapping must not overwrite the name")
	assert.Equal(t, "0042", products[0].ProductCode)
	require.Len(t, products[0].URLs, 1)
	assert.Equal(t, "https://www.gak.co.uk/p125", products[0].URLs[0].URL)
}

func TestImportFileSkipsBlankRows(t *testing.T) {
	path := writeWorkbook(t, [][]string{
		{"Product Name", "Product Code"},
		{"", ""},
		{"Boss DS-1", "77"},
	})

	imp := newTestImporter(t)
	products, count, err := imp.ImportFile(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.Len(t, products, 1)
	assert.Equal(t, "Boss DS-1", products[0].ProductName)
}

func TestImportFileArchivesUpload(t *testing.T) {
	path := writeWorkbook(t, [][]string{
		{"Product Name"},
		{"Boss DS-1"},
	})

	imp := newTestImporter(t)
	_, _, err := imp.ImportFile(path, nil)
	require.NoError(t, err)

	entries, err := os.ReadDir(imp.ArchiveDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	name := entries[0].Name()
	assert.True(t, strings.HasPrefix(name, "stock_list_20260601_103000_"), "got %s", name)
	assert.True(t, strings.HasSuffix(name, ".xlsx"), "got %s", name)
}

func TestImportFileMissingFile(t *testing.T) {
	imp := newTestImporter(t)
	_, _, err := imp.ImportFile(filepath.Join(t.TempDir(), "nope.xlsx"), nil)
	require.Error(t, err)
}
