package report

import (
	"time"

	"go-reports/internal/connectors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TemplateName string

const (
	TemplateBlank     TemplateName = "blank"
	TemplateInvoice   TemplateName = "invoice"
	TemplateFinancial TemplateName = "financial"
	TemplateSummary   TemplateName = "summary"
)

type Aggregation string

const (
	AggregationSum   Aggregation = "sum"
	AggregationAvg   Aggregation = "avg"
	AggregationCount Aggregation = "count"
	AggregationMin   Aggregation = "min"
	AggregationMax   Aggregation = "max"
)

type RuleCondition string

const (
	ConditionEquals    RuleCondition = "equals"
	ConditionNotEquals RuleCondition = "not-equals"
	ConditionGreater   RuleCondition = "greater"
	ConditionLess      RuleCondition = "less"
	ConditionContains  RuleCondition = "contains"
	ConditionBetween   RuleCondition = "between"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

type Orientation string

const (
	OrientationPortrait  Orientation = "portrait"
	OrientationLandscape Orientation = "landscape"
)

// MinColumnWidth is the smallest width a resize may produce
const MinColumnWidth = 50

// SourceConfig is the discriminated source payload; exactly one branch is
// set, matching the configuration's SourceType.
type SourceConfig struct {
	Relational *connectors.RelationalSource `json:"relational,omitempty" bson:"relational,omitempty"`
	BI         *connectors.BISource         `json:"bi,omitempty" bson:"bi,omitempty"`
}

// ColumnLayout owns the full column order, the visible subset and per-column
// pixel widths. Selected is always a subset of Order; Order holds every
// column known from the last schema resolution exactly once.
type ColumnLayout struct {
	Selected []string       `json:"selected" bson:"selected"`
	Order    []string       `json:"order" bson:"order"`
	Widths   map[string]int `json:"widths" bson:"widths"`
}

// SortSpec describes the single-column sort; an empty Column means unsorted
type SortSpec struct {
	Column string    `json:"column" bson:"column"`
	Order  SortOrder `json:"order" bson:"order"`
}

// GroupingConfig holds the grouping columns and per-column aggregations.
// Aggregation entries only apply to numeric-typed columns.
type GroupingConfig struct {
	Enabled      bool                   `json:"enabled" bson:"enabled"`
	Columns      []string               `json:"columns" bson:"columns"`
	Aggregations map[string]Aggregation `json:"aggregations" bson:"aggregations"`
}

// RuleFormat is the style override a matching rule contributes. Empty fields
// contribute nothing during the field-by-field merge.
type RuleFormat struct {
	BackgroundColor string `json:"backgroundColor,omitempty" bson:"backgroundColor,omitempty"`
	TextColor       string `json:"textColor,omitempty" bson:"textColor,omitempty"`
	FontWeight      string `json:"fontWeight,omitempty" bson:"fontWeight,omitempty"`
	FontStyle       string `json:"fontStyle,omitempty" bson:"fontStyle,omitempty"`
}

// FormatRule is one conditional formatting rule. Value2 is read only when
// Condition is between. A disabled rule is retained but never evaluated.
type FormatRule struct {
	ID        string        `json:"id" bson:"id"`
	Column    string        `json:"column" bson:"column"`
	Condition RuleCondition `json:"condition" bson:"condition"`
	Value     any           `json:"value" bson:"value"`
	Value2    any           `json:"value2,omitempty" bson:"value2,omitempty"`
	Format    RuleFormat    `json:"format" bson:"format"`
	Enabled   bool          `json:"enabled" bson:"enabled"`
}

type TotalsConfig struct {
	Enabled bool     `json:"enabled" bson:"enabled"`
	Columns []string `json:"columns" bson:"columns"`
}

type Margins struct {
	Top    float64 `json:"top" bson:"top"`
	Bottom float64 `json:"bottom" bson:"bottom"`
	Left   float64 `json:"left" bson:"left"`
	Right  float64 `json:"right" bson:"right"`
}

type ExportSettings struct {
	Orientation   Orientation `json:"orientation" bson:"orientation"`
	Margins       Margins     `json:"margins" bson:"margins"`
	FontSize      int         `json:"fontSize" bson:"fontSize"`
	IncludeHeader bool        `json:"includeHeader" bson:"includeHeader"`
	IncludeFooter bool        `json:"includeFooter" bson:"includeFooter"`
	HeaderText    string      `json:"headerText" bson:"headerText"`
	FooterText    string      `json:"footerText" bson:"footerText"`
}

// ComputedColumn is an optional per-row expression column evaluated against
// the fetched page before grouping and formatting run.
type ComputedColumn struct {
	Name       string `json:"name" bson:"name"`
	Expression string `json:"expression" bson:"expression"`
}

// ReportConfig is the root persisted entity: everything the designer needs
// to reproduce a report view. Field names are the serialization contract.
type ReportConfig struct {
	ID              primitive.ObjectID    `json:"id" bson:"_id,omitempty"`
	Name            string                `json:"name" bson:"name"`
	Description     string                `json:"description" bson:"description"`
	SourceType      connectors.SourceType `json:"sourceType" bson:"sourceType"`
	SourceConfig    SourceConfig          `json:"sourceConfig" bson:"sourceConfig"`
	Columns         ColumnLayout          `json:"columns" bson:"columns"`
	Filters         map[string]string     `json:"filters" bson:"filters"`
	Sorting         SortSpec              `json:"sorting" bson:"sorting"`
	Grouping        GroupingConfig        `json:"grouping" bson:"grouping"`
	Formatting      []FormatRule          `json:"formatting" bson:"formatting"`
	Totals          TotalsConfig          `json:"totals" bson:"totals"`
	Template        TemplateName          `json:"template" bson:"template"`
	ExportSettings  ExportSettings        `json:"exportSettings" bson:"exportSettings"`
	ComputedColumns []ComputedColumn      `json:"computedColumns,omitempty" bson:"computedColumns,omitempty"`
	RowHeight       int                   `json:"rowHeight" bson:"rowHeight"`
	DateCreated     time.Time             `json:"dateCreated" bson:"dateCreated"`
	LastModified    time.Time             `json:"lastModified" bson:"lastModified"`
}

// Source assembles the connector-facing source descriptor
func (c *ReportConfig) Source() connectors.Source {
	return connectors.Source{
		Type:       c.SourceType,
		Relational: c.SourceConfig.Relational,
		BI:         c.SourceConfig.BI,
	}
}

// NewReportConfig returns the in-memory defaults a user starts designing
// with. Nothing is durable until the first explicit save.
func NewReportConfig() *ReportConfig {
	return &ReportConfig{
		Template:   TemplateBlank,
		Filters:    map[string]string{},
		Sorting:    SortSpec{Order: SortAsc},
		Grouping:   GroupingConfig{Aggregations: map[string]Aggregation{}},
		Formatting: []FormatRule{},
		Columns: ColumnLayout{
			Widths: map[string]int{},
		},
		ExportSettings: ExportSettings{
			Orientation:   OrientationPortrait,
			Margins:       Margins{Top: 20, Bottom: 20, Left: 15, Right: 15},
			FontSize:      12,
			IncludeHeader: true,
			IncludeFooter: true,
		},
		RowHeight: 40,
	}
}
