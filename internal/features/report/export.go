package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// exportPageSize bounds how many rows one export pulls from the provider
const exportPageSize = 10000

// ExportCSV renders a saved report to CSV from the normalized run view
func (s *ReportServiceImpl) ExportCSV(ctx context.Context, id string) ([]byte, string, error) {
	cfg, run, err := s.runForExport(ctx, id)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := make([]string, len(run.Columns))
	for i, col := range run.Columns {
		headers[i] = col.Name
	}
	if err := writer.Write(headers); err != nil {
		return nil, "", err
	}

	for _, row := range run.Rows {
		record := make([]string, len(run.Columns))
		for i, col := range run.Columns {
			record[i] = cellString(row[col.Name])
		}
		if err := writer.Write(record); err != nil {
			return nil, "", err
		}
	}

	if run.Totals != nil {
		record := make([]string, len(run.Columns))
		for i, col := range run.Columns {
			record[i] = cellString(run.Totals[col.Name])
		}
		if err := writer.Write(record); err != nil {
			return nil, "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("%s_report_%s.csv", cfg.Name, time.Now().Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}

// ExportExcel renders a saved report to XLSX, carrying the conditional
// formatting styles into cell styles and appending the totals footer.
func (s *ReportServiceImpl) ExportExcel(ctx context.Context, id string) ([]byte, string, error) {
	cfg, run, err := s.runForExport(ctx, id)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Report"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(index)

	headerRow := 1
	if cfg.ExportSettings.IncludeHeader && cfg.ExportSettings.HeaderText != "" {
		f.SetCellValue(sheetName, "A1", cfg.ExportSettings.HeaderText)
		titleStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: float64(cfg.ExportSettings.FontSize + 4)}})
		f.SetCellStyle(sheetName, "A1", "A1", titleStyle)
		headerRow = 2
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for i, col := range run.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		f.SetCellValue(sheetName, cell, col.Name)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	styleIDs := make(map[CellStyle]int)
	for rowIdx, row := range run.Rows {
		for colIdx, col := range run.Columns {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, headerRow+rowIdx+1)
			f.SetCellValue(sheetName, cell, cellValue(row[col.Name]))

			if rowIdx < len(run.Styles) {
				if style, ok := run.Styles[rowIdx][col.Name]; ok {
					if id := excelStyle(f, style, styleIDs); id > 0 {
						f.SetCellStyle(sheetName, cell, cell, id)
					}
				}
			}
		}
	}

	footerRow := headerRow + len(run.Rows) + 1
	if run.Totals != nil {
		for colIdx, col := range run.Columns {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, footerRow)
			f.SetCellValue(sheetName, cell, cellValue(run.Totals[col.Name]))
			f.SetCellStyle(sheetName, cell, cell, headerStyle)
		}
		footerRow++
	}

	if cfg.ExportSettings.IncludeFooter && cfg.ExportSettings.FooterText != "" {
		cell, _ := excelize.CoordinatesToCellName(1, footerRow+1)
		f.SetCellValue(sheetName, cell, cfg.ExportSettings.FooterText)
	}

	for i, col := range run.Columns {
		name, _ := excelize.ColumnNumberToName(i + 1)
		width := 15.0
		if px, ok := run.Widths[col.Name]; ok {
			// Rough px to character-width conversion
			width = float64(px) / 7.0
		}
		f.SetColWidth(sheetName, name, name, width)
	}

	if cfg.ExportSettings.Orientation == OrientationLandscape {
		orientation := "landscape"
		f.SetPageLayout(sheetName, &excelize.PageLayoutOptions{Orientation: &orientation})
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("%s_report_%s.xlsx", cfg.Name, time.Now().Format("20060102_150405"))
	return buffer.Bytes(), filename, nil
}

func (s *ReportServiceImpl) runForExport(ctx context.Context, id string) (*ReportConfig, *RunResult, error) {
	cfg, err := s.ConfigRepo.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	run, err := s.Run(ctx, cfg, 1, exportPageSize, "")
	if err != nil {
		return nil, nil, err
	}
	return cfg, run, nil
}

func excelStyle(f *excelize.File, style CellStyle, cache map[CellStyle]int) int {
	if id, ok := cache[style]; ok {
		return id
	}

	spec := &excelize.Style{}
	if style.BackgroundColor != "" {
		spec.Fill = excelize.Fill{Type: "pattern", Color: []string{style.BackgroundColor}, Pattern: 1}
	}
	font := &excelize.Font{}
	hasFont := false
	if style.TextColor != "" {
		font.Color = style.TextColor
		hasFont = true
	}
	if style.FontWeight == "bold" {
		font.Bold = true
		hasFont = true
	}
	if style.FontStyle == "italic" {
		font.Italic = true
		hasFont = true
	}
	if hasFont {
		spec.Font = font
	}

	id, err := f.NewStyle(spec)
	if err != nil {
		return 0
	}
	cache[style] = id
	return id
}

func cellString(val any) string {
	if val == nil {
		return ""
	}
	if t, ok := val.(time.Time); ok {
		return t.Format("2006-01-02 15:04:05")
	}
	return fmt.Sprintf("%v", val)
}

func cellValue(val any) any {
	if t, ok := val.(time.Time); ok {
		return t.Format("2006-01-02 15:04:05")
	}
	return val
}
