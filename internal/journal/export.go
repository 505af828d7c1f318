package journal

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// exportSheet is the sheet name used in exported workbooks
const exportSheet = "History"

var exportHeader = []string{"Time", "Session", "Kind", "Language", "Input", "Output", "Failed", "Reason"}

// ExportXLSX writes entries to an Excel workbook at path
func ExportXLSX(entries []Entry, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	for col, title := range exportHeader {
		if err := setCell(f, col+1, 1, title); err != nil {
			return err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetCellStyle(exportSheet, "A1", "H1", bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, e := range entries {
		row := i + 2
		values := []interface{}{
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			e.SessionID,
			e.Kind,
			e.Language,
			e.Input,
			e.Output,
			e.Failed,
			e.Reason,
		}
		for col, v := range values {
			if err := setCell(f, col+1, row, v); err != nil {
				return err
			}
		}
	}

	if err := f.SetColWidth(exportSheet, "A", "A", 20); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	if err := f.SetColWidth(exportSheet, "E", "F", 40); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("invalid cell: %w", err)
	}
	if err := f.SetCellValue(exportSheet, cell, value); err != nil {
		return fmt.Errorf("failed to write cell %s: %w", cell, err)
	}
	return nil
}
