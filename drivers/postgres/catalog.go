package postgres

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
		WHERE schema_name NOT IN ('pg_catalog', 'information_schema', 'pg_toast')
		ORDER BY schema_name`

	queryListTables = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1
		  AND table_type = 'BASE TABLE'
		ORDER BY table_name`

	queryTableColumns = `
		SELECT
			c.column_name,
			c.data_type,
			c.is_nullable,
			COALESCE(c.column_default, ''),
			c.ordinal_position,
			CASE WHEN pk.column_name IS NOT NULL THEN true ELSE false END AS is_primary
		FROM information_schema.columns c
		LEFT JOIN (
			SELECT ku.column_name
			FROM information_schema.table_constraints tc
			JOIN information_schema.key_column_usage ku
				ON tc.constraint_name = ku.constraint_name
				AND tc.table_schema = ku.table_schema
			WHERE tc.constraint_type = 'PRIMARY KEY'
				AND tc.table_schema = $1
				AND tc.table_name = $2
		) pk ON c.column_name = pk.column_name
		WHERE c.table_schema = $1
		  AND c.table_name = $2
		ORDER BY c.ordinal_position`
)

// Schemas returns all user-created schemas.
func (c *Conn) Schemas(ctx context.Context) ([]string, error) {
	rows, err := c.conn.Query(ctx, queryListSchemas)
	if err != nil {
		return nil, mapError(err, queryListSchemas)
	}
	defer rows.Close()

	var schemas []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan schema: %w", err)
		}
		schemas = append(schemas, name)
	}
	return schemas, rows.Err()
}

// Tables returns all table names in a schema.
func (c *Conn) Tables(ctx context.Context, schema string) ([]string, error) {
	rows, err := c.conn.Query(ctx, queryListTables, schema)
	if err != nil {
		return nil, mapError(err, queryListTables)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// TableColumns returns column metadata for a table.
func (c *Conn) TableColumns(ctx context.Context, schema, table string) ([]godbc.TableColumn, error) {
	rows, err := c.conn.Query(ctx, queryTableColumns, schema, table)
	if err != nil {
		return nil, mapError(err, queryTableColumns)
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
