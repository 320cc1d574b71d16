package report

import "fmt"

// templatePreset is the display-field mutation one template applies.
// Footer text is only overwritten when the preset defines one.
type templatePreset struct {
	totals      bool
	grouping    bool
	rowHeight   int
	orientation Orientation
	header      string
	footer      *string
}

func strptr(s string) *string { return &s }

var templatePresets = map[TemplateName]templatePreset{
	TemplateBlank:     {totals: false, grouping: false, rowHeight: 40, orientation: OrientationPortrait, header: "", footer: strptr("")},
	TemplateInvoice:   {totals: true, grouping: false, rowHeight: 35, orientation: OrientationPortrait, header: "INVOICE", footer: strptr("Thank you for your business")},
	TemplateFinancial: {totals: true, grouping: true, rowHeight: 32, orientation: OrientationLandscape, header: "Financial Statement"},
	TemplateSummary:   {totals: true, grouping: true, rowHeight: 38, orientation: OrientationPortrait, header: "Summary Report"},
}

// ApplyTemplate overwrites the display-oriented fields of the configuration
// with the named preset. Columns, filters, sorting and formatting are never
// touched; manual overrides made afterwards stay valid. Deterministic, no
// external I/O.
func ApplyTemplate(cfg *ReportConfig, name TemplateName) error {
	preset, ok := templatePresets[name]
	if !ok {
		return fmt.Errorf("unknown template: %s", name)
	}

	cfg.Template = name
	cfg.Totals.Enabled = preset.totals
	cfg.Grouping.Enabled = preset.grouping
	cfg.RowHeight = preset.rowHeight
	cfg.ExportSettings.Orientation = preset.orientation
	cfg.ExportSettings.HeaderText = preset.header
	if preset.footer != nil {
		cfg.ExportSettings.FooterText = *preset.footer
	}
	return nil
}

// TemplateNames lists the selectable presets in display order
func TemplateNames() []TemplateName {
	return []TemplateName{TemplateBlank, TemplateInvoice, TemplateFinancial, TemplateSummary}
}
