package reporting

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ducminhle1904/midpoint-reversal-bot/internal/scanner"
)

const scanSheet = "Scan"

// WriteScanXLSX writes the cycle report rows to a single-sheet workbook at path
func WriteScanXLSX(report scanner.CycleReport, path string) error {
	fx := excelize.NewFile()
	defer fx.Close()

	if err := fx.SetSheetName(fx.GetSheetName(0), scanSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headStyle, err := fx.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	header := make([]interface{}, len(scanHeaders))
	for i, h := range scanHeaders {
		header[i] = h
	}
	if err := writeRow(fx, scanSheet, 1, header, headStyle); err != nil {
		return err
	}

	row := 2
	for _, r := range Rows(report) {
		values := []interface{}{r.Symbol, "", "", "", "", "", "", "", "", r.Status}
		if r.HasValues {
			values = []interface{}{r.Symbol, r.Close, r.Midpoint, r.VWAP, r.ATR, r.Touch, r.Direction, "", "", r.Status}
			if r.Signal {
				values[7], values[8] = r.TP, r.SL
			}
		}
		if err := writeRow(fx, scanSheet, row, values, 0); err != nil {
			return err
		}
		row++
	}

	if err := fx.SetPanes(scanSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	if err := fx.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// writeRow fills one sheet row from column A. A zero style leaves cells unstyled.
func writeRow(fx *excelize.File, sheet string, row int, values []interface{}, style int) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", row, err)
		}
		if err := fx.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("failed to write %s: %w", cell, err)
		}
		if style == 0 {
			continue
		}
		if err := fx.SetCellStyle(sheet, cell, cell, style); err != nil {
			return fmt.Errorf("failed to style %s: %w", cell, err)
		}
	}
	return nil
}
