// Package postgres implements a godbc driver on top of jackc/pgx. Each
// godbc.Connection wraps a single pgx.Conn, matching the layer's
// one-session, single-goroutine model.
package postgres

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/joacominatel/godbc"
)

// DriverName is the canonical driver name.
const DriverName = "postgres"

func init() {
	d := &Driver{}
	godbc.Register("postgres", d)
	godbc.Register("postgresql", d)
}

// Driver implements godbc.Driver for PostgreSQL.
type Driver struct{}

// Name returns the canonical driver name.
func (d *Driver) Name() string { return DriverName }

// Connect opens a session using a postgres:// URL.
func (d *Driver) Connect(ctx context.Context, rawURL string) (godbc.Connection, error) {
	cfg, err := pgx.ParseConfig(rawURL)
	if err != nil {
		return nil, &godbc.ConnectionError{URL: redact(rawURL), Cause: fmt.Errorf("parse dsn: %w", err)}
	}

	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, &godbc.ConnectionError{URL: redact(rawURL), Cause: fmt.Errorf("connect: %w", err)}
	}

	return &Conn{conn: conn, database: cfg.Database}, nil
}

func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Redacted()
}

// Conn is one PostgreSQL session.
type Conn struct {
	conn     *pgx.Conn
	database string
}

var (
	_ godbc.Connection = (*Conn)(nil)
	_ godbc.Catalog    = (*Conn)(nil)
)

// Prepare creates a named server-side prepared statement. The unified ?
// placeholders are rewritten to the $n form postgres expects.
func (c *Conn) Prepare(ctx context.Context, sql string) (godbc.Statement, error) {
	name := "godbc_" + uuid.NewString()
	sd, err := c.conn.Prepare(ctx, name, rebind(sql))
	if err != nil {
		return nil, mapError(err, sql)
	}
	return &Stmt{conn: c, name: name, sql: sql, nparams: len(sd.ParamOIDs)}, nil
}

// ExecuteQuery runs SQL directly and materializes the rows.
func (c *Conn) ExecuteQuery(ctx context.Context, sql string, args ...godbc.Value) (godbc.ResultSet, error) {
	if want := godbc.CountPlaceholders(sql); want != len(args) {
		return nil, &godbc.ParameterError{Want: want, Got: len(args)}
	}
	rows, err := c.conn.Query(ctx, rebind(sql), bindArgs(args)...)
	if err != nil {
		return nil, mapError(err, sql)
	}
	return materialize(rows, sql)
}

// ExecuteUpdate runs SQL directly and returns the affected row count.
func (c *Conn) ExecuteUpdate(ctx context.Context, sql string, args ...godbc.Value) (int64, error) {
	if want := godbc.CountPlaceholders(sql); want != len(args) {
		return 0, &godbc.ParameterError{Want: want, Got: len(args)}
	}
	tag, err := c.conn.Exec(ctx, rebind(sql), bindArgs(args)...)
	if err != nil {
		return 0, mapError(err, sql)
	}
	return tag.RowsAffected(), nil
}

// Ping checks that the session is alive.
func (c *Conn) Ping(ctx context.Context) error {
	if err := c.conn.Ping(ctx); err != nil {
		return &godbc.ConnectionError{Cause: fmt.Errorf("ping: %w", err)}
	}
	return nil
}

// Close ends the session.
func (c *Conn) Close() error {
	return c.conn.Close(context.Background())
}

// DatabaseName returns the connected database's name.
func (c *Conn) DatabaseName() string { return c.database }

// Stmt is a server-side prepared statement.
type Stmt struct {
	conn    *Conn
	name    string
	sql     string
	nparams int
}

var _ godbc.Statement = (*Stmt)(nil)

// ExecuteQuery runs the prepared statement and materializes its rows.
func (s *Stmt) ExecuteQuery(ctx context.Context, args ...godbc.Value) (godbc.ResultSet, error) {
	if len(args) != s.nparams {
		return nil, &godbc.ParameterError{Want: s.nparams, Got: len(args)}
	}
	rows, err := s.conn.conn.Query(ctx, s.name, bindArgs(args)...)
	if err != nil {
		return nil, mapError(err, s.sql)
	}
	return materialize(rows, s.sql)
}

// ExecuteUpdate runs the prepared statement and returns the affected count.
func (s *Stmt) ExecuteUpdate(ctx context.Context, args ...godbc.Value) (int64, error) {
	if len(args) != s.nparams {
		return 0, &godbc.ParameterError{Want: s.nparams, Got: len(args)}
	}
	tag, err := s.conn.conn.Exec(ctx, s.name, bindArgs(args)...)
	if err != nil {
		return 0, mapError(err, s.sql)
	}
	return tag.RowsAffected(), nil
}

// Close deallocates the server-side statement.
func (s *Stmt) Close() error {
	return s.conn.conn.Deallocate(context.Background(), s.name)
}

// rebind rewrites unified ? placeholders into postgres $n placeholders.
// godbc.Rebind is quote-aware, so a literal question mark in the SQL
// survives the rewrite.
func rebind(sql string) string {
	return godbc.Rebind(sql)
}

// bindArgs converts godbc Values into the native arguments pgx binds.
func bindArgs(args []godbc.Value) []any {
	out := make([]any, len(args))
	for i, v := range args {
		out[i] = v.Interface()
	}
	return out
}

// materialize drains a pgx row stream into a godbc.Rows so the connection
// is immediately reusable.
func materialize(rows pgx.Rows, sql string) (*godbc.Rows, error) {
	defer rows.Close()

	fds := rows.FieldDescriptions()
	cols := make([]godbc.Column, len(fds))
	for i, fd := range fds {
		cols[i] = godbc.Column{Name: fd.Name, Type: kindForOID(fd.DataTypeOID)}
	}

	var data [][]godbc.Value
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, mapError(err, sql)
		}
		row := make([]godbc.Value, len(vals))
		for i, v := range vals {
			row[i] = godbc.ValueOf(v)
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, sql)
	}

	return godbc.NewRows(cols, data), nil
}
