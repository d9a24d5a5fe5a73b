package mysql

import (
	"context"
	"fmt"

	"github.com/joacominatel/godbc"
)

// information_schema queries backing the godbc.Catalog interface.
const (
	queryListSchemas = `
		SELECT schema_name
		FROM information_schema.schemata
		WHERE schema_name NOT IN ('mysql', 'information_schema', 'performance_schema', 'sys')
		ORDER BY schema_name`

	queryListTables = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = ?
		  AND table_type = 'BASE TABLE'
		ORDER BY table_name`

	queryTableColumns = `
		SELECT
			column_name,
			data_type,
			is_nullable,
			COALESCE(column_default, ''),
			ordinal_position,
			column_key = 'PRI' AS is_primary
		FROM information_schema.columns
		WHERE table_schema = ?
		  AND table_name = ?
		ORDER BY ordinal_position`
)

// Schemas returns all user-visible schemas.
func (c *Conn) Schemas(ctx context.Context) ([]string, error) {
	var schemas []string
	if err := c.db.SelectContext(ctx, &schemas, queryListSchemas); err != nil {
		return nil, fmt.Errorf("list schemas: %w", err)
	}
	return schemas, nil
}

// Tables returns all table names in a schema.
func (c *Conn) Tables(ctx context.Context, schema string) ([]string, error) {
	var tables []string
	if err := c.db.SelectContext(ctx, &tables, queryListTables, schema); err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return tables, nil
}

// TableColumns returns column metadata for a table.
func (c *Conn) TableColumns(ctx context.Context, schema, table string) ([]godbc.TableColumn, error) {
	rows, err := c.db.QueryContext(ctx, queryTableColumns, schema, table)
	if err != nil {
		return nil, fmt.Errorf("get columns: %w", err)
	}
	defer rows.Close()

	var columns []godbc.TableColumn
	for rows.Next() {
		var col godbc.TableColumn
		var nullable string
		if err := rows.Scan(&col.Name, &col.DataType, &nullable, &col.Default, &col.OrdinalPos, &col.IsPrimary); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		col.IsNullable = nullable == "YES"
		columns = append(columns, col)
	}
	return columns, rows.Err()
}
