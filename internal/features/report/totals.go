package report

import (
	common_models "go-reports/internal/common/models"
)

// TotalsLabel is the literal shown in the first non-numeric column of the
// footer row.
const TotalsLabel = "Total"

// ComputeTotals derives the footer row for the current page only, a
// user-visible scope limitation. Numeric columns are summed over
// parseable values; the first non-numeric column in schema order carries the
// Total label; remaining non-numeric columns render empty. The row is never
// persisted, only recomputed when the page rows or the column list change.
func ComputeTotals(rows []map[string]any, columns []common_models.ColumnDescriptor, totals TotalsConfig) map[string]any {
	if !totals.Enabled {
		return nil
	}

	include := make(map[string]bool, len(totals.Columns))
	for _, name := range totals.Columns {
		include[name] = true
	}

	row := make(map[string]any, len(columns))
	labeled := false
	for _, col := range columns {
		if col.IsNumeric() {
			// An empty column list means every numeric column is totaled
			if len(totals.Columns) > 0 && !include[col.Name] {
				row[col.Name] = ""
				continue
			}
			var sum float64
			for _, r := range rows {
				if num, ok := parseNumeric(r[col.Name]); ok {
					sum += num
				}
			}
			row[col.Name] = sum
			continue
		}

		if !labeled {
			row[col.Name] = TotalsLabel
			labeled = true
		} else {
			row[col.Name] = ""
		}
	}

	return row
}
