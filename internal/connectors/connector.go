package connectors

import (
	"context"
	"errors"
	"fmt"

	common_models "go-reports/internal/common/models"
)

// ErrSchemaUnavailable is returned when a provider cannot produce a schema,
// either because the source selection is incomplete or the backend failed.
var ErrSchemaUnavailable = errors.New("schema unavailable")

// ErrRowFetchFailed is returned when a paginated row fetch fails. Callers
// keep their last rendered page and surface an error indicator.
var ErrRowFetchFailed = errors.New("row fetch failed")

type SourceType string

const (
	SourceTypeRelational SourceType = "relational"
	SourceTypeBI         SourceType = "bi"
)

// RelationalSource addresses a table in the relational provider
type RelationalSource struct {
	SchemaName string `json:"schema_name" bson:"schema_name"`
	TableName  string `json:"table_name" bson:"table_name"`
}

// BISource addresses a table inside a BI workspace dataset
type BISource struct {
	WorkspaceID string `json:"workspace_id" bson:"workspace_id"`
	DatasetID   string `json:"dataset_id" bson:"dataset_id"`
	TableName   string `json:"table_name" bson:"table_name"`
}

// Source is the discriminated source descriptor a report configuration is
// bound to. Exactly one of Relational/BI is set, matching Type.
type Source struct {
	Type       SourceType        `json:"type" bson:"type"`
	Relational *RelationalSource `json:"relational,omitempty" bson:"relational,omitempty"`
	BI         *BISource         `json:"bi,omitempty" bson:"bi,omitempty"`
}

// Complete reports whether the source is fully specified. An incomplete
// source never produces a request.
func (s Source) Complete() bool {
	switch s.Type {
	case SourceTypeRelational:
		return s.Relational != nil && s.Relational.TableName != ""
	case SourceTypeBI:
		return s.BI != nil && s.BI.WorkspaceID != "" && s.BI.DatasetID != "" && s.BI.TableName != ""
	default:
		return false
	}
}

// CacheKey identifies the source for schema caching and stale-response
// matching.
func (s Source) CacheKey() string {
	switch s.Type {
	case SourceTypeRelational:
		if s.Relational == nil {
			return string(s.Type)
		}
		return fmt.Sprintf("relational/%s/%s", s.Relational.SchemaName, s.Relational.TableName)
	case SourceTypeBI:
		if s.BI == nil {
			return string(s.Type)
		}
		return fmt.Sprintf("bi/%s/%s/%s", s.BI.WorkspaceID, s.BI.DatasetID, s.BI.TableName)
	default:
		return string(s.Type)
	}
}

// PageRequest is the uniform request descriptor for a paginated row fetch
type PageRequest struct {
	Page       int      `json:"page"` // 1-based
	PageSize   int      `json:"pageSize"`
	SearchTerm string   `json:"searchTerm"`
	SortBy     string   `json:"sortBy"` // empty means no sort
	SortOrder  string   `json:"sortOrder"`
	Columns    []string `json:"columns,omitempty"` // projection; empty selects all
}

// Connector is the data provider port: a schema contract and a
// (rows, totalCount) contract. The engine consumes nothing else.
type Connector interface {
	GetSchema(ctx context.Context, src Source) ([]common_models.ColumnDescriptor, error)
	Query(ctx context.Context, src Source, req PageRequest) (common_models.PageResult, error)
	TestConnection(ctx context.Context) error
	GetType() SourceType
}

// TableLister is implemented by connectors that can enumerate their
// selectable tables. The BI provider exposes no table listing, so it is an
// optional capability rather than part of Connector.
type TableLister interface {
	ListTables(ctx context.Context) ([]RelationalSource, error)
}

// Registry resolves the connector for a source type
type Registry struct {
	connectors map[SourceType]Connector
}

func NewRegistry(conns ...Connector) *Registry {
	reg := &Registry{connectors: make(map[SourceType]Connector)}
	for _, c := range conns {
		if c != nil {
			reg.connectors[c.GetType()] = c
		}
	}
	return reg
}

// All returns every registered connector
func (r *Registry) All() []Connector {
	conns := make([]Connector, 0, len(r.connectors))
	for _, c := range r.connectors {
		conns = append(conns, c)
	}
	return conns
}

// ForSource returns the connector owning the source's type
func (r *Registry) ForSource(src Source) (Connector, error) {
	conn, ok := r.connectors[src.Type]
	if !ok {
		return nil, fmt.Errorf("%w: no provider for source type %q", ErrSchemaUnavailable, src.Type)
	}
	return conn, nil
}
