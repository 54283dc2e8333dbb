// Package export writes dashboard data to local files: server-generated
// report downloads as-is, and the currently filtered list as CSV or XLSX
// built client-side.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/farmdesk/internal/api"
)

// Sheet is one exportable table: a header row plus string cells.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// WriteCSV streams the sheet as RFC 4180 CSV.
func WriteCSV(w io.Writer, sheet Sheet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(sheet.Headers); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range sheet.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the sheet as a styled Excel workbook: bold header row,
// frozen pane, columns sized to their widest cell.
func WriteXLSX(w io.Writer, sheet Sheet) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	name := sheet.Name
	if name == "" {
		name = "Export"
	}
	defaultSheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetName(defaultSheet, name); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("build header style: %w", err)
	}

	widths := make([]int, len(sheet.Headers))
	for i, h := range sheet.Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(name, cell, h); err != nil {
			return fmt.Errorf("write header cell: %w", err)
		}
		if err := f.SetCellStyle(name, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("style header cell: %w", err)
		}
		widths[i] = len(h)
	}

	for r, row := range sheet.Rows {
		for c, value := range row {
			if c >= len(widths) {
				break
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(name, cell, value); err != nil {
				return fmt.Errorf("write cell %s: %w", cell, err)
			}
			if len(value) > widths[c] {
				widths[c] = len(value)
			}
		}
	}

	for i, width := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(name, col, col, float64(width)+2); err != nil {
			return fmt.Errorf("size column %s: %w", col, err)
		}
	}

	if err := f.SetPanes(name, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// SaveSheet writes the sheet to dir in the requested format and returns the
// created file path. Filenames are timestamped so repeated exports never
// clobber each other.
func SaveSheet(dir string, sheet Sheet, format api.ExportType) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	base := strings.ToLower(strings.ReplaceAll(sheet.Name, " ", "-"))
	if base == "" {
		base = "export"
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.%s", base, time.Now().Format("20060102-150405"), format))

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer func() { _ = file.Close() }()

	switch format {
	case api.ExportXLSX:
		err = WriteXLSX(file, sheet)
	default:
		err = WriteCSV(file, sheet)
	}
	if err != nil {
		return "", err
	}
	return path, nil
}

// SaveDownload writes a server-generated report blob under dir using the
// filename derived from the response headers.
func SaveDownload(dir string, dl api.Download) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, filepath.Base(dl.Filename))
	if err := os.WriteFile(path, dl.Data, 0o644); err != nil {
		return "", fmt.Errorf("write report file: %w", err)
	}
	return path, nil
}
