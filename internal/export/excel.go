package export

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/goatkit/novadmin/internal/convert"
)

// WorkbookWriter renders a header and rows as a workbook file.
type WorkbookWriter interface {
	Write(sheet string, header []string, rows [][]interface{}) ([]byte, error)
}

const (
	minColumnWidth = 8
	maxColumnWidth = 60
)

// ExcelizeWriter writes .xlsx workbooks with a bold header row and column
// widths sized to their content.
type ExcelizeWriter struct {
	now func() time.Time
}

// NewExcelizeWriter creates a writer stamping workbooks with now.
func NewExcelizeWriter(now func() time.Time) *ExcelizeWriter {
	if now == nil {
		now = time.Now
	}
	return &ExcelizeWriter{now: now}
}

// Write renders one worksheet.
func (w *ExcelizeWriter) Write(sheet string, header []string, rows [][]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = DefaultSheetName
	}
	if sheet != DefaultSheetName {
		if err := f.SetSheetName(DefaultSheetName, sheet); err != nil {
			return nil, fmt.Errorf("name sheet: %w", err)
		}
	}

	widths := make([]int, len(header))
	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
		widths[i] = utf8.RuneCountInString(h)
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
		for j, v := range row {
			if j < len(widths) {
				if n := displayWidth(v); n > widths[j] {
					widths[j] = n
				}
			}
		}
	}

	if len(header) > 0 {
		bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return nil, fmt.Errorf("create header style: %w", err)
		}
		if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
			return nil, fmt.Errorf("style header: %w", err)
		}
	}
	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheet, col, col, float64(clampWidth(width)+2)); err != nil {
			return nil, fmt.Errorf("size column %s: %w", col, err)
		}
	}

	if err := f.SetDocProps(&excelize.DocProperties{
		Creator: "novadmin",
		Created: w.now().UTC().Format(time.RFC3339),
	}); err != nil {
		return nil, fmt.Errorf("set properties: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// displayWidth counts CJK runes twice, roughly how spreadsheet fonts size them.
func displayWidth(v interface{}) int {
	n := 0
	for _, r := range convert.ToString(v, "") {
		if r >= 0x2E80 {
			n += 2
		} else {
			n++
		}
	}
	return n
}

func clampWidth(n int) int {
	if n < minColumnWidth {
		return minColumnWidth
	}
	if n > maxColumnWidth {
		return maxColumnWidth
	}
	return n
}
