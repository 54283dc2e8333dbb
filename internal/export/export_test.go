package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/farmdesk/internal/api"
)

func sampleSheet() Sheet {
	return Sheet{
		Name:    "Supplies",
		Headers: []string{"Item", "Category", "Quantity"},
		Rows: [][]string{
			{"Layer feed", "FEED", "40"},
			{"Vitamins, B-complex", "MEDICINE", "12"},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleSheet()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Item,Category,Quantity", lines[0])
	assert.Equal(t, "Layer feed,FEED,40", lines[1])
	// A cell containing a comma must come out quoted.
	assert.Equal(t, `"Vitamins, B-complex",MEDICINE,12`, lines[2])
}

func TestWriteXLSXRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleSheet()))

	workbook, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = workbook.Close() }()

	rows, err := workbook.GetRows("Supplies")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Item", "Category", "Quantity"}, rows[0])
	assert.Equal(t, "Layer feed", rows[1][0])
	assert.Equal(t, "Vitamins, B-complex", rows[2][0])
}

func TestSaveSheetTimestampsFilename(t *testing.T) {
	dir := t.TempDir()

	first, err := SaveSheet(dir, sampleSheet(), api.ExportCSV)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(first), "supplies-"))
	assert.True(t, strings.HasSuffix(first, ".csv"))

	content, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Layer feed")
}

func TestSaveDownloadUsesReportedFilename(t *testing.T) {
	dir := t.TempDir()

	path, err := SaveDownload(dir, api.Download{
		Filename: "report-sales.csv",
		Data:     []byte("id,category\n"),
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report-sales.csv"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id,category\n", string(content))
}

func TestSaveDownloadStripsPathComponents(t *testing.T) {
	dir := t.TempDir()
	path, err := SaveDownload(dir, api.Download{Filename: "../outside.csv", Data: []byte("x")})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "outside.csv"), path)
}
