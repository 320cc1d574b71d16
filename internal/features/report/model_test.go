package report

import (
	"encoding/json"
	"testing"

	"go-reports/internal/connectors"
)

func TestReportConfigSerializationContract(t *testing.T) {
	cfg := NewReportConfig()
	cfg.Name = "Orders"
	cfg.SourceType = connectors.SourceTypeRelational
	cfg.SourceConfig.Relational = &connectors.RelationalSource{SchemaName: "public", TableName: "orders"}

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	// External tooling reads this store; the field names are a contract
	for _, key := range []string{
		"name", "description", "sourceType", "sourceConfig", "columns",
		"filters", "sorting", "grouping", "formatting", "totals",
		"template", "exportSettings", "rowHeight", "dateCreated", "lastModified",
	} {
		if _, ok := doc[key]; !ok {
			t.Errorf("serialized configuration is missing %q", key)
		}
	}

	if doc["template"] != "blank" {
		t.Errorf("default template = %v, want blank", doc["template"])
	}
	if doc["rowHeight"] != 40.0 {
		t.Errorf("default rowHeight = %v, want 40", doc["rowHeight"])
	}
}

func TestNewReportConfigDefaults(t *testing.T) {
	cfg := NewReportConfig()

	if cfg.Template != TemplateBlank {
		t.Errorf("template = %s, want blank", cfg.Template)
	}
	if cfg.RowHeight != 40 {
		t.Errorf("rowHeight = %d, want 40", cfg.RowHeight)
	}
	if cfg.ExportSettings.Orientation != OrientationPortrait {
		t.Errorf("orientation = %s, want portrait", cfg.ExportSettings.Orientation)
	}
	if cfg.Filters == nil || cfg.Grouping.Aggregations == nil || cfg.Columns.Widths == nil {
		t.Error("maps must be initialized so mutation never hits a nil map")
	}
	if !cfg.ID.IsZero() {
		t.Error("a fresh configuration must not carry an id before the first save")
	}
}
