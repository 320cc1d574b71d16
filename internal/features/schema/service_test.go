package schema

import (
	"context"
	"errors"
	"testing"
	"time"

	common_models "go-reports/internal/common/models"
	"go-reports/internal/connectors"

	"go.uber.org/zap"
)

type countingConnector struct {
	columns []common_models.ColumnDescriptor
	err     error
	calls   int
}

func (c *countingConnector) GetSchema(ctx context.Context, src connectors.Source) ([]common_models.ColumnDescriptor, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.columns, nil
}

func (c *countingConnector) Query(ctx context.Context, src connectors.Source, req connectors.PageRequest) (common_models.PageResult, error) {
	return common_models.PageResult{}, nil
}

func (c *countingConnector) TestConnection(ctx context.Context) error { return nil }

func (c *countingConnector) GetType() connectors.SourceType { return connectors.SourceTypeRelational }

func testSource(table string) connectors.Source {
	return connectors.Source{
		Type:       connectors.SourceTypeRelational,
		Relational: &connectors.RelationalSource{SchemaName: "public", TableName: table},
	}
}

func newTestSchemaService(conn *countingConnector) SchemaService {
	return NewSchemaService(connectors.NewRegistry(conn), zap.NewNop(), time.Minute)
}

func TestGetColumnsCaches(t *testing.T) {
	conn := &countingConnector{
		columns: []common_models.ColumnDescriptor{
			{Name: "id", DataType: "integer"},
			{Name: "name", DataType: "text"},
		},
	}
	svc := newTestSchemaService(conn)
	ctx := context.Background()

	first, err := svc.GetColumns(ctx, testSource("orders"))
	if err != nil {
		t.Fatalf("GetColumns() error = %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("columns = %d, want 2", len(first))
	}

	if _, err := svc.GetColumns(ctx, testSource("orders")); err != nil {
		t.Fatalf("cached GetColumns() error = %v", err)
	}
	if conn.calls != 1 {
		t.Errorf("provider called %d times, want 1 (second hit served from cache)", conn.calls)
	}

	// A different table is a different cache entry
	if _, err := svc.GetColumns(ctx, testSource("invoices")); err != nil {
		t.Fatalf("GetColumns() error = %v", err)
	}
	if conn.calls != 2 {
		t.Errorf("provider called %d times, want 2", conn.calls)
	}
}

func TestGetColumnsIncompleteSource(t *testing.T) {
	svc := newTestSchemaService(&countingConnector{})

	src := connectors.Source{
		Type:       connectors.SourceTypeRelational,
		Relational: &connectors.RelationalSource{SchemaName: "public"},
	}
	if _, err := svc.GetColumns(context.Background(), src); !errors.Is(err, connectors.ErrSchemaUnavailable) {
		t.Errorf("error = %v, want ErrSchemaUnavailable", err)
	}

	biSrc := connectors.Source{
		Type: connectors.SourceTypeBI,
		BI:   &connectors.BISource{WorkspaceID: "w1", TableName: "sales"},
	}
	if _, err := svc.GetColumns(context.Background(), biSrc); !errors.Is(err, connectors.ErrSchemaUnavailable) {
		t.Errorf("BI source without dataset: error = %v, want ErrSchemaUnavailable", err)
	}
}

func TestGetColumnsNoProvider(t *testing.T) {
	svc := NewSchemaService(connectors.NewRegistry(), zap.NewNop(), time.Minute)

	if _, err := svc.GetColumns(context.Background(), testSource("orders")); err == nil {
		t.Error("expected error when no provider owns the source type")
	}
}

func TestGetColumnsProviderFailure(t *testing.T) {
	conn := &countingConnector{err: errors.New("connection refused")}
	svc := newTestSchemaService(conn)

	if _, err := svc.GetColumns(context.Background(), testSource("orders")); err == nil {
		t.Error("provider failure should surface as an error")
	}

	// Failures are not cached
	conn.err = nil
	conn.columns = []common_models.ColumnDescriptor{{Name: "id", DataType: "integer"}}
	cols, err := svc.GetColumns(context.Background(), testSource("orders"))
	if err != nil || len(cols) != 1 {
		t.Errorf("recovery fetch = %v cols, err %v", len(cols), err)
	}
}

func TestListTablesWithoutCatalog(t *testing.T) {
	// The stub connector exposes no table catalog
	svc := newTestSchemaService(&countingConnector{})

	if _, err := svc.ListTables(context.Background()); !errors.Is(err, connectors.ErrSchemaUnavailable) {
		t.Errorf("error = %v, want ErrSchemaUnavailable", err)
	}
}

func TestInvalidate(t *testing.T) {
	conn := &countingConnector{
		columns: []common_models.ColumnDescriptor{{Name: "id", DataType: "integer"}},
	}
	svc := newTestSchemaService(conn)
	ctx := context.Background()

	if _, err := svc.GetColumns(ctx, testSource("orders")); err != nil {
		t.Fatalf("GetColumns() error = %v", err)
	}
	svc.Invalidate(testSource("orders"))
	if _, err := svc.GetColumns(ctx, testSource("orders")); err != nil {
		t.Fatalf("GetColumns() error = %v", err)
	}
	if conn.calls != 2 {
		t.Errorf("provider called %d times, want 2 after invalidation", conn.calls)
	}
}

func TestRefreshRecent(t *testing.T) {
	conn := &countingConnector{
		columns: []common_models.ColumnDescriptor{{Name: "id", DataType: "integer"}},
	}
	svc := newTestSchemaService(conn)
	ctx := context.Background()

	if _, err := svc.GetColumns(ctx, testSource("orders")); err != nil {
		t.Fatalf("GetColumns() error = %v", err)
	}
	if len(svc.RecentSources()) != 1 {
		t.Fatalf("recent sources = %d, want 1", len(svc.RecentSources()))
	}

	svc.RefreshRecent(ctx)
	if conn.calls != 2 {
		t.Errorf("provider called %d times, want 2 after refresh", conn.calls)
	}

	// The refreshed schema serves from cache again
	if _, err := svc.GetColumns(ctx, testSource("orders")); err != nil {
		t.Fatalf("GetColumns() error = %v", err)
	}
	if conn.calls != 2 {
		t.Errorf("provider called %d times, want 2 (refresh warmed the cache)", conn.calls)
	}
}
