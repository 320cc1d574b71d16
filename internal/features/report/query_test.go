package report

import (
	"reflect"
	"testing"

	"go-reports/internal/connectors"
)

func relationalConfig() *ReportConfig {
	cfg := NewReportConfig()
	cfg.SourceType = connectors.SourceTypeRelational
	cfg.SourceConfig.Relational = &connectors.RelationalSource{
		SchemaName: "public",
		TableName:  "orders",
	}
	cfg.Columns = ColumnLayout{
		Order:    []string{"region", "amount"},
		Selected: []string{"region", "amount"},
		Widths:   map[string]int{},
	}
	return cfg
}

func TestBuildRequest(t *testing.T) {
	cfg := relationalConfig()

	req := BuildRequest(cfg, 2, 25, "acme", "amount", SortDesc)
	if req == nil {
		t.Fatal("BuildRequest() returned nil for a complete source")
	}

	want := &connectors.PageRequest{
		Page:       2,
		PageSize:   25,
		SearchTerm: "acme",
		SortBy:     "amount",
		SortOrder:  "desc",
		Columns:    []string{"region", "amount"},
	}
	if !reflect.DeepEqual(req, want) {
		t.Errorf("BuildRequest() = %+v, want %+v", req, want)
	}
}

func TestBuildRequestIncompleteSource(t *testing.T) {
	tests := []struct {
		name string
		cfg  *ReportConfig
	}{
		{name: "Nil Config", cfg: nil},
		{name: "No Source Type", cfg: NewReportConfig()},
		{
			name: "Relational Without Table",
			cfg: func() *ReportConfig {
				c := NewReportConfig()
				c.SourceType = connectors.SourceTypeRelational
				c.SourceConfig.Relational = &connectors.RelationalSource{SchemaName: "public"}
				return c
			}(),
		},
		{
			name: "BI Missing Dataset",
			cfg: func() *ReportConfig {
				c := NewReportConfig()
				c.SourceType = connectors.SourceTypeBI
				c.SourceConfig.BI = &connectors.BISource{WorkspaceID: "w1", TableName: "sales"}
				return c
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if req := BuildRequest(tt.cfg, 1, 25, "", "", SortAsc); req != nil {
				t.Errorf("BuildRequest() = %+v, want nil", req)
			}
		})
	}
}

func TestBuildRequestClampsPage(t *testing.T) {
	cfg := relationalConfig()
	req := BuildRequest(cfg, 0, 25, "", "", SortAsc)
	if req == nil || req.Page != 1 {
		t.Errorf("page should clamp to 1, got %+v", req)
	}
}

func TestRequestMemo(t *testing.T) {
	cfg := relationalConfig()
	memo := &RequestMemo{}

	first := memo.Build(cfg, 1, 25, "", "", SortAsc)
	second := memo.Build(cfg, 1, 25, "", "", SortAsc)
	if first != second {
		t.Error("identical input tuple should return the identical descriptor")
	}

	third := memo.Build(cfg, 2, 25, "", "", SortAsc)
	if third == first {
		t.Error("changed page should produce a new descriptor")
	}
}

func TestPagerResetsOnInputChange(t *testing.T) {
	cfg := relationalConfig()
	src := cfg.Source()

	p := NewPager()
	p.Observe(src, "", "", SortAsc)
	p.SetPage(4)

	// Nothing changed: the page sticks
	p.Observe(src, "", "", SortAsc)
	if p.Page() != 4 {
		t.Errorf("page = %d, want 4 when inputs are unchanged", p.Page())
	}

	// Search term changed: back to page 1
	p.Observe(src, "acme", "", SortAsc)
	if p.Page() != 1 {
		t.Errorf("page = %d, want 1 after search change", p.Page())
	}

	p.SetPage(3)
	p.Observe(src, "acme", "amount", SortAsc)
	if p.Page() != 1 {
		t.Errorf("page = %d, want 1 after sort column change", p.Page())
	}

	p.SetPage(2)
	p.Observe(src, "acme", "amount", SortDesc)
	if p.Page() != 1 {
		t.Errorf("page = %d, want 1 after sort order change", p.Page())
	}

	p.SetPage(5)
	other := connectors.Source{
		Type:       connectors.SourceTypeRelational,
		Relational: &connectors.RelationalSource{SchemaName: "public", TableName: "invoices"},
	}
	p.Observe(other, "acme", "amount", SortDesc)
	if p.Page() != 1 {
		t.Errorf("page = %d, want 1 after source change", p.Page())
	}
}

func TestLatestWins(t *testing.T) {
	cfg := relationalConfig()
	src := cfg.Source()

	reqA := BuildRequest(cfg, 1, 25, "", "", SortAsc)
	reqB := BuildRequest(cfg, 2, 25, "", "", SortAsc)
	keyA := KeyFor(src, reqA)
	keyB := KeyFor(src, reqB)
	if keyA == keyB {
		t.Fatal("distinct requests must produce distinct keys")
	}

	guard := &LatestWins{}
	guard.Issue(keyA)
	guard.Issue(keyB)

	if guard.Accept(keyA) {
		t.Error("stale response should be rejected")
	}
	if !guard.Accept(keyB) {
		t.Error("latest response should be accepted")
	}
}
