package connectors

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	common_models "go-reports/internal/common/models"

	_ "github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// SQLConnector serves the relational provider over database/sql
type SQLConnector struct {
	driver string // "postgres" or "mysql"
	db     *sql.DB
}

// NewSQLConnector opens the relational provider connection pool
func NewSQLConnector(driver, dsn string) (*SQLConnector, error) {
	if driver != "postgres" && driver != "mysql" {
		return nil, fmt.Errorf("unsupported relational driver: %s", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return &SQLConnector{driver: driver, db: db}, nil
}

func (c *SQLConnector) GetType() SourceType {
	return SourceTypeRelational
}

// TestConnection tests if the database connection is valid
func (c *SQLConnector) TestConnection(ctx context.Context) error {
	if c.db == nil {
		return fmt.Errorf("database connection not established")
	}
	return c.db.PingContext(ctx)
}

// Close releases the connection pool
func (c *SQLConnector) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// GetSchema returns column descriptors for a table via information_schema
func (c *SQLConnector) GetSchema(ctx context.Context, src Source) ([]common_models.ColumnDescriptor, error) {
	if !src.Complete() || src.Type != SourceTypeRelational {
		return nil, fmt.Errorf("%w: relational source selection incomplete", ErrSchemaUnavailable)
	}

	schemaName := src.Relational.SchemaName
	var query string
	var args []interface{}

	if c.driver == "postgres" {
		if schemaName == "" {
			schemaName = "public"
		}
		query = `
			SELECT column_name, data_type, is_nullable, character_maximum_length
			FROM information_schema.columns
			WHERE table_schema = $1 AND table_name = $2
			ORDER BY ordinal_position
		`
		args = []interface{}{schemaName, src.Relational.TableName}
	} else { // mysql
		query = `
			SELECT column_name, data_type, is_nullable, character_maximum_length
			FROM information_schema.columns
			WHERE table_schema = COALESCE(NULLIF(?, ''), DATABASE()) AND table_name = ?
			ORDER BY ordinal_position
		`
		args = []interface{}{schemaName, src.Relational.TableName}
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaUnavailable, err)
	}
	defer rows.Close()

	var columns []common_models.ColumnDescriptor
	for rows.Next() {
		var name, dataType, isNullable string
		var maxLength sql.NullInt64

		if err := rows.Scan(&name, &dataType, &isNullable, &maxLength); err != nil {
			return nil, fmt.Errorf("%w: failed to scan schema row: %v", ErrSchemaUnavailable, err)
		}

		col := common_models.ColumnDescriptor{
			Name:     name,
			DataType: dataType,
			Nullable: isNullable == "YES",
		}
		if maxLength.Valid {
			l := int(maxLength.Int64)
			col.MaxLength = &l
		}
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaUnavailable, err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: table %s not found", ErrSchemaUnavailable, src.Relational.TableName)
	}

	return columns, nil
}

// ListTables enumerates the selectable base tables of the provider
func (c *SQLConnector) ListTables(ctx context.Context) ([]RelationalSource, error) {
	var query string
	if c.driver == "postgres" {
		query = `
			SELECT table_schema, table_name
			FROM information_schema.tables
			WHERE table_type = 'BASE TABLE'
			  AND table_schema NOT IN ('pg_catalog', 'information_schema')
			ORDER BY table_schema, table_name
		`
	} else { // mysql
		query = `
			SELECT table_schema, table_name
			FROM information_schema.tables
			WHERE table_type = 'BASE TABLE' AND table_schema = DATABASE()
			ORDER BY table_name
		`
	}

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaUnavailable, err)
	}
	defer rows.Close()

	var tables []RelationalSource
	for rows.Next() {
		var src RelationalSource
		if err := rows.Scan(&src.SchemaName, &src.TableName); err != nil {
			return nil, fmt.Errorf("%w: failed to scan table row: %v", ErrSchemaUnavailable, err)
		}
		tables = append(tables, src)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaUnavailable, err)
	}

	return tables, nil
}

// Query executes a paginated fetch against the table. Column identifiers in
// the request are checked against the live schema before being interpolated,
// values always travel as bind parameters.
func (c *SQLConnector) Query(ctx context.Context, src Source, req PageRequest) (common_models.PageResult, error) {
	if !src.Complete() || src.Type != SourceTypeRelational {
		return common_models.PageResult{}, fmt.Errorf("%w: relational source selection incomplete", ErrRowFetchFailed)
	}

	schema, err := c.GetSchema(ctx, src)
	if err != nil {
		return common_models.PageResult{}, fmt.Errorf("%w: %v", ErrRowFetchFailed, err)
	}
	known := make(map[string]common_models.ColumnDescriptor, len(schema))
	for _, col := range schema {
		known[col.Name] = col
	}

	where, args := c.buildSearchClause(schema, req.SearchTerm)
	table := c.qualifiedTable(src)

	// Total count with the same predicate
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", table, where)
	var total int64
	if err := c.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return common_models.PageResult{}, fmt.Errorf("%w: count failed: %v", ErrRowFetchFailed, err)
	}

	var query strings.Builder
	query.WriteString("SELECT ")
	query.WriteString(c.projection(req.Columns, known))
	query.WriteString(" FROM ")
	query.WriteString(table)
	query.WriteString(where)

	if req.SortBy != "" {
		if _, ok := known[req.SortBy]; ok {
			dir := "ASC"
			if strings.EqualFold(req.SortOrder, "desc") {
				dir = "DESC"
			}
			query.WriteString(fmt.Sprintf(" ORDER BY %s %s", c.quoteIdent(req.SortBy), dir))
		}
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	query.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", req.PageSize, (page-1)*req.PageSize))

	rows, err := c.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return common_models.PageResult{}, fmt.Errorf("%w: %v", ErrRowFetchFailed, err)
	}
	defer rows.Close()

	items, err := c.rowsToMaps(rows)
	if err != nil {
		return common_models.PageResult{}, fmt.Errorf("%w: %v", ErrRowFetchFailed, err)
	}

	return common_models.NewPageResult(items, total, page, req.PageSize), nil
}

// buildSearchClause builds a free-text predicate across character columns
func (c *SQLConnector) buildSearchClause(schema []common_models.ColumnDescriptor, term string) (string, []interface{}) {
	if term == "" {
		return "", nil
	}

	var conditions []string
	var args []interface{}
	argIndex := 1
	for _, col := range schema {
		if col.IsNumeric() || col.IsDate() {
			continue
		}
		ident := c.quoteIdent(col.Name)
		if c.driver == "postgres" {
			conditions = append(conditions, fmt.Sprintf("CAST(%s AS TEXT) ILIKE $%d", ident, argIndex))
		} else {
			conditions = append(conditions, fmt.Sprintf("LOWER(%s) LIKE LOWER(?)", ident))
		}
		args = append(args, "%"+term+"%")
		argIndex++
	}
	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE (" + strings.Join(conditions, " OR ") + ")", args
}

func (c *SQLConnector) projection(cols []string, known map[string]common_models.ColumnDescriptor) string {
	var idents []string
	for _, col := range cols {
		if _, ok := known[col]; ok {
			idents = append(idents, c.quoteIdent(col))
		}
	}
	if len(idents) == 0 {
		return "*"
	}
	return strings.Join(idents, ", ")
}

func (c *SQLConnector) qualifiedTable(src Source) string {
	if c.driver == "postgres" {
		schemaName := src.Relational.SchemaName
		if schemaName == "" {
			schemaName = "public"
		}
		return c.quoteIdent(schemaName) + "." + c.quoteIdent(src.Relational.TableName)
	}
	if src.Relational.SchemaName != "" {
		return c.quoteIdent(src.Relational.SchemaName) + "." + c.quoteIdent(src.Relational.TableName)
	}
	return c.quoteIdent(src.Relational.TableName)
}

func (c *SQLConnector) quoteIdent(name string) string {
	if c.driver == "postgres" {
		return pq.QuoteIdentifier(name)
	}
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// rowsToMaps converts SQL rows to a slice of maps
func (c *SQLConnector) rowsToMaps(rows *sql.Rows) ([]map[string]interface{}, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := []map[string]interface{}{}

	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		row := make(map[string]interface{})
		for i, col := range columns {
			val := values[i]
			if b, ok := val.([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = val
			}
		}

		result = append(result, row)
	}

	return result, rows.Err()
}
