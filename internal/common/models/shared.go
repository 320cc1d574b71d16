package models

import (
	"strings"
	"time"
)

// ColumnDescriptor is the schema contract returned by every data provider.
// Immutable once fetched for a given source; identified by name.
type ColumnDescriptor struct {
	Name      string `json:"name" bson:"name"`
	DataType  string `json:"data_type" bson:"data_type"`
	Nullable  bool   `json:"nullable" bson:"nullable"`
	MaxLength *int   `json:"max_length,omitempty" bson:"max_length,omitempty"`
}

// numericTypes covers the relational information_schema spellings and the
// BI service's type names.
var numericTypes = map[string]bool{
	"smallint": true, "integer": true, "bigint": true, "int": true,
	"int2": true, "int4": true, "int8": true, "tinyint": true,
	"mediumint": true, "decimal": true, "numeric": true, "real": true,
	"double precision": true, "double": true, "float": true, "money": true,
	"int64": true, "currency": true, "number": true,
}

var dateTypes = map[string]bool{
	"date": true, "time": true, "timestamp": true, "datetime": true,
	"timestamp with time zone": true, "timestamp without time zone": true,
	"timestamptz": true,
}

// IsNumeric reports whether the column holds values aggregation and totals
// may operate on.
func (c ColumnDescriptor) IsNumeric() bool {
	return numericTypes[strings.ToLower(c.DataType)]
}

// IsDate reports whether the column holds temporal values.
func (c ColumnDescriptor) IsDate() bool {
	return dateTypes[strings.ToLower(c.DataType)]
}

// PageResult is the uniform paginated result shape every provider emits.
// TotalPages always equals ceil(Total/PageSize).
type PageResult struct {
	Items      []map[string]any `json:"items"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"` // 1-based
	PageSize   int              `json:"pageSize"`
	TotalPages int              `json:"totalPages"`
}

// NewPageResult builds a PageResult and derives TotalPages.
func NewPageResult(items []map[string]any, total int64, page, pageSize int) PageResult {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return PageResult{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// Log is the record shape the async log writer persists
type Log struct {
	Message      string    `bson:"message"`
	Caller       string    `bson:"caller"`
	LogLevelId   int       `bson:"log_level_id"`
	AppId        string    `bson:"app_id"`
	Source       string    `bson:"source,omitempty"`
	CreatedOnUtc time.Time `bson:"created_on_utc"`
}
