package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strummet/pricewatch/pkg/models"
)

func readRows(t *testing.T, buf *bytes.Buffer) [][]string {
	t.Helper()
	rows, err := csv.NewReader(buf).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteCSVOneRowPerCompetitorURL(t *testing.T) {
	products := []models.Product{
		{
			ProductName: "Yamaha P-125",
			ProductCode: "0123",
			URLs: []models.CompetitorURL{
				{URL: "https://www.gak.co.uk/p", Price: "549.00", LastUpdate: "2026-06-01T05:00:03+01:00"},
				{URL: "https://www.gear4music.com/p", Price: "555.00", LastUpdate: "2026-06-01T05:00:07+01:00"},
			},
		},
		{ProductName: "Boss DS-1", ProductCode: "77"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, products))
	rows := readRows(t, &buf)

	require.Len(t, rows, 4)
	assert.Equal(t, Header, rows[0])

	// sorted case-insensitively, so Boss comes first; the URL-less
	// product still gets one blank row
	assert.Equal(t, []string{"Boss DS-1", `="77"`, "", "", ""}, rows[1])
	assert.Equal(t, []string{"Yamaha P-125", `="0123"`, "https://www.gak.co.uk/p", "549.00", "2026-06-01"}, rows[2])
	assert.Equal(t, []string{"Yamaha P-125", `="0123"`, "https://www.gear4music.com/p", "555.00", "2026-06-01"}, rows[3])
}

func TestWriteCSVSortIsCaseInsensitive(t *testing.T) {
	products := []models.Product{
		{ProductName: "zoom G1X"},
		{ProductName: "Boss DS-1"},
		{ProductName: "alesis Recital"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, products))
	rows := readRows(t, &buf)

	require.Len(t, rows, 4)
	assert.Equal(t, "alesis Recital", rows[1][0])
	assert.Equal(t, "Boss DS-1", rows[2][0])
	assert.Equal(t, "zoom G1X", rows[3][0])
}

func TestWriteCSVDoesNotReorderInput(t *testing.T) {
	products := []models.Product{
		{ProductName: "Zildjian K"},
		{ProductName: "Aria STG"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, products))
	assert.Equal(t, "Zildjian K", products[0].ProductName)
}

func TestWriteCSVUnparseableDatePassedThrough(t *testing.T) {
	products := []models.Product{{
		ProductName: "Korg Minilogue",
		URLs:        []models.CompetitorURL{{URL: "https://www.gak.co.uk/p", Price: "499.00", LastUpdate: "last tuesday"}},
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, products))
	rows := readRows(t, &buf)
	assert.Equal(t, "last tuesday", rows[1][4])
}

func TestWriteCSVEmptyCatalog(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	rows := readRows(t, &buf)
	require.Len(t, rows, 1)
	assert.Equal(t, Header, rows[0])
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 6, 1, 5, 0, 0, 0, time.UTC)
	assert.Equal(t, "prices2026-06-01.csv", Filename(now))
}
