package report

import (
	"reflect"
	"testing"
)

func TestApplyTemplateInvoice(t *testing.T) {
	cfg := NewReportConfig()
	cfg.Columns = ColumnLayout{
		Order:    []string{"a", "b"},
		Selected: []string{"a"},
		Widths:   map[string]int{"a": 100},
	}
	cfg.Filters = map[string]string{"a": "x"}
	cfg.Sorting = SortSpec{Column: "a", Order: SortDesc}
	cfg.Formatting = []FormatRule{{ID: "r1", Column: "a", Condition: ConditionEquals, Value: "x", Enabled: true}}

	before := *cfg

	if err := ApplyTemplate(cfg, TemplateInvoice); err != nil {
		t.Fatalf("ApplyTemplate() error = %v", err)
	}

	if !cfg.Totals.Enabled {
		t.Error("invoice template should enable totals")
	}
	if cfg.Grouping.Enabled {
		t.Error("invoice template should disable grouping")
	}
	if cfg.RowHeight != 35 {
		t.Errorf("rowHeight = %d, want 35", cfg.RowHeight)
	}
	if cfg.ExportSettings.Orientation != OrientationPortrait {
		t.Errorf("orientation = %s, want portrait", cfg.ExportSettings.Orientation)
	}
	if cfg.ExportSettings.HeaderText != "INVOICE" {
		t.Errorf("headerText = %q, want INVOICE", cfg.ExportSettings.HeaderText)
	}
	if cfg.ExportSettings.FooterText != "Thank you for your business" {
		t.Errorf("footerText = %q", cfg.ExportSettings.FooterText)
	}
	if cfg.Template != TemplateInvoice {
		t.Errorf("template = %s, want invoice", cfg.Template)
	}

	// Columns, filters, sorting and formatting are untouched
	if !reflect.DeepEqual(cfg.Columns, before.Columns) {
		t.Errorf("columns changed: %+v", cfg.Columns)
	}
	if !reflect.DeepEqual(cfg.Filters, before.Filters) {
		t.Errorf("filters changed: %+v", cfg.Filters)
	}
	if cfg.Sorting != before.Sorting {
		t.Errorf("sorting changed: %+v", cfg.Sorting)
	}
	if !reflect.DeepEqual(cfg.Formatting, before.Formatting) {
		t.Errorf("formatting changed: %+v", cfg.Formatting)
	}
}

func TestApplyTemplatePresets(t *testing.T) {
	tests := []struct {
		name        TemplateName
		totals      bool
		grouping    bool
		rowHeight   int
		orientation Orientation
		header      string
	}{
		{name: TemplateBlank, totals: false, grouping: false, rowHeight: 40, orientation: OrientationPortrait, header: ""},
		{name: TemplateFinancial, totals: true, grouping: true, rowHeight: 32, orientation: OrientationLandscape, header: "Financial Statement"},
		{name: TemplateSummary, totals: true, grouping: true, rowHeight: 38, orientation: OrientationPortrait, header: "Summary Report"},
	}

	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			cfg := NewReportConfig()
			if err := ApplyTemplate(cfg, tt.name); err != nil {
				t.Fatalf("ApplyTemplate() error = %v", err)
			}
			if cfg.Totals.Enabled != tt.totals || cfg.Grouping.Enabled != tt.grouping {
				t.Errorf("totals/grouping = %v/%v, want %v/%v", cfg.Totals.Enabled, cfg.Grouping.Enabled, tt.totals, tt.grouping)
			}
			if cfg.RowHeight != tt.rowHeight {
				t.Errorf("rowHeight = %d, want %d", cfg.RowHeight, tt.rowHeight)
			}
			if cfg.ExportSettings.Orientation != tt.orientation {
				t.Errorf("orientation = %s, want %s", cfg.ExportSettings.Orientation, tt.orientation)
			}
			if cfg.ExportSettings.HeaderText != tt.header {
				t.Errorf("headerText = %q, want %q", cfg.ExportSettings.HeaderText, tt.header)
			}
		})
	}
}

func TestApplyTemplateFooterUnchangedForFinancial(t *testing.T) {
	cfg := NewReportConfig()
	cfg.ExportSettings.FooterText = "custom footer"

	if err := ApplyTemplate(cfg, TemplateFinancial); err != nil {
		t.Fatalf("ApplyTemplate() error = %v", err)
	}
	if cfg.ExportSettings.FooterText != "custom footer" {
		t.Errorf("financial template should leave footer unchanged, got %q", cfg.ExportSettings.FooterText)
	}

	if err := ApplyTemplate(cfg, TemplateBlank); err != nil {
		t.Fatalf("ApplyTemplate() error = %v", err)
	}
	if cfg.ExportSettings.FooterText != "" {
		t.Errorf("blank template should clear footer, got %q", cfg.ExportSettings.FooterText)
	}
}

func TestApplyTemplateUnknown(t *testing.T) {
	cfg := NewReportConfig()
	if err := ApplyTemplate(cfg, "fancy"); err == nil {
		t.Error("unknown template should error")
	}
}
