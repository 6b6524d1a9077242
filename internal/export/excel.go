package export

import (
	"fmt"

	"github.com/piwi3910/ZonePlanner/internal/model"
	"github.com/xuri/excelize/v2"
)

const (
	zonesSheet = "Zones"
	rectsSheet = "Rectangles"
)

// ExportExcel writes a workbook with a "Zones" sheet (one row per zone) and a
// "Rectangles" sheet (one row per rectangle with its zone number).
func ExportExcel(path string, zones []model.ZoneSummary) error {
	if len(zones) == 0 {
		return ErrNoZones
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), zonesSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(rectsSheet); err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}

	zoneRows := [][]interface{}{{"Zone", "Rects", "Squares", "X", "Y", "Width", "Height", "Area"}}
	rectRows := [][]interface{}{{"Zone", "X", "Y", "Width", "Height"}}
	for _, z := range zones {
		b := z.Bounds
		zoneRows = append(zoneRows, []interface{}{z.Index + 1, len(z.Rects), z.Squares, b.X, b.Y, b.Width, b.Height, z.Area})
		for _, r := range z.Rects {
			rectRows = append(rectRows, []interface{}{z.Index + 1, r.X, r.Y, r.Width, r.Height})
		}
	}

	if err := writeRows(f, zonesSheet, zoneRows); err != nil {
		return err
	}
	if err := writeRows(f, rectsSheet, rectRows); err != nil {
		return err
	}

	totalRow := len(zoneRows) + 1
	if err := f.SetCellValue(zonesSheet, fmt.Sprintf("B%d", totalRow), "Total"); err != nil {
		return fmt.Errorf("failed to write total label: %w", err)
	}
	if err := f.SetCellValue(zonesSheet, fmt.Sprintf("C%d", totalRow), model.TotalSquares(zones)); err != nil {
		return fmt.Errorf("failed to write total: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return fmt.Errorf("failed to create cell reference: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}
