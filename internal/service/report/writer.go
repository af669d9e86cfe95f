package report

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the xlsx export
const SheetName = "Attendance"

// WriteCSV renders the header followed by one line per row
func WriteCSV(rows []report.Row) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(report.Columns); err != nil {
		return nil, err
	}
	for _, r := range rows {
		if err := w.Write(r.Values()); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteXLSX renders the same table as WriteCSV into a single-sheet workbook
func WriteXLSX(rows []report.Row) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}

	if err := writeLine(f, 1, report.Columns); err != nil {
		return nil, err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(report.Columns))
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, err
	}

	for i, r := range rows {
		if err := writeLine(f, i+2, r.Values()); err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(SheetName, "A", lastCol, 16); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeLine(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}

	line := make([]interface{}, len(values))
	for i, v := range values {
		line[i] = v
	}
	if err := f.SetSheetRow(SheetName, cell, &line); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}
