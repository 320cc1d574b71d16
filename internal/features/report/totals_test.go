package report

import (
	"testing"

	common_models "go-reports/internal/common/models"
)

func TestComputeTotals(t *testing.T) {
	columns := []common_models.ColumnDescriptor{
		{Name: "Name", DataType: "text"},
		{Name: "Amount", DataType: "decimal"},
		{Name: "Region", DataType: "text"},
	}
	rows := []map[string]any{
		{"Name": "A", "Amount": 10.0, "Region": "East"},
		{"Name": "B", "Amount": "20", "Region": "East"},
		{"Name": "C", "Amount": "n/a", "Region": "West"},
	}

	totals := ComputeTotals(rows, columns, TotalsConfig{Enabled: true})
	if totals == nil {
		t.Fatal("ComputeTotals() returned nil with totals enabled")
	}

	if totals["Amount"] != 30.0 {
		t.Errorf("Amount total = %v, want 30 (unparseable excluded)", totals["Amount"])
	}
	if totals["Name"] != TotalsLabel {
		t.Errorf("first non-numeric column = %v, want %q", totals["Name"], TotalsLabel)
	}
	if totals["Region"] != "" {
		t.Errorf("later non-numeric column = %v, want empty", totals["Region"])
	}

	labels := 0
	for _, v := range totals {
		if v == TotalsLabel {
			labels++
		}
	}
	if labels != 1 {
		t.Errorf("exactly one column should carry the label, got %d", labels)
	}
}

func TestComputeTotalsDisabled(t *testing.T) {
	columns := []common_models.ColumnDescriptor{{Name: "Amount", DataType: "decimal"}}
	if got := ComputeTotals(nil, columns, TotalsConfig{}); got != nil {
		t.Errorf("disabled totals should return nil, got %v", got)
	}
}

func TestComputeTotalsRestrictedColumns(t *testing.T) {
	columns := []common_models.ColumnDescriptor{
		{Name: "Amount", DataType: "decimal"},
		{Name: "Qty", DataType: "integer"},
	}
	rows := []map[string]any{
		{"Amount": 10.0, "Qty": 2},
		{"Amount": 5.0, "Qty": 3},
	}

	totals := ComputeTotals(rows, columns, TotalsConfig{Enabled: true, Columns: []string{"Qty"}})
	if totals["Qty"] != 5.0 {
		t.Errorf("Qty total = %v, want 5", totals["Qty"])
	}
	if totals["Amount"] != "" {
		t.Errorf("excluded numeric column should render empty, got %v", totals["Amount"])
	}
}

func TestComputeTotalsEmptyPage(t *testing.T) {
	columns := []common_models.ColumnDescriptor{
		{Name: "Name", DataType: "text"},
		{Name: "Amount", DataType: "decimal"},
	}

	totals := ComputeTotals(nil, columns, TotalsConfig{Enabled: true})
	if totals["Amount"] != 0.0 {
		t.Errorf("empty page sum = %v, want 0", totals["Amount"])
	}
	if totals["Name"] != TotalsLabel {
		t.Errorf("label column = %v, want %q", totals["Name"], TotalsLabel)
	}
}
