// Package mem provides an embedded in-memory driver for godbc. It lets
// tests, demos and the CLI exercise the connectivity layer without a
// database server. Every connection gets a private catalog; connections
// that share state use a named URL such as mem://shared.
package mem

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/joacominatel/godbc"
)

// DriverName is the scheme the driver registers under.
const DriverName = "mem"

func init() {
	godbc.Register(DriverName, &Driver{})
}

// Driver implements godbc.Driver for the in-memory backend.
type Driver struct{}

// Name returns the canonical driver name.
func (d *Driver) Name() string { return DriverName }

var (
	sharedMu sync.Mutex
	shared   = make(map[string]*catalog)
)

// Connect opens an in-memory session. mem:// creates a fresh private
// catalog; mem://<name> attaches to the shared catalog called <name>,
// creating it on first use.
func (d *Driver) Connect(_ context.Context, rawURL string) (godbc.Connection, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, &godbc.ConnectionError{Cause: fmt.Errorf("parse url: %w", err)}
	}
	if u.Scheme != DriverName {
		return nil, &godbc.ConnectionError{URL: u.Redacted(), Cause: fmt.Errorf("scheme %q is not %q", u.Scheme, DriverName)}
	}

	name := u.Host
	if name == "" {
		return &Conn{cat: newCatalog(), database: "memory"}, nil
	}

	sharedMu.Lock()
	defer sharedMu.Unlock()
	cat, ok := shared[name]
	if !ok {
		cat = newCatalog()
		shared[name] = cat
	}
	return &Conn{cat: cat, database: name}, nil
}

// Conn is one session against an in-memory catalog.
type Conn struct {
	cat      *catalog
	database string
	closed   bool
}

var (
	_ godbc.Connection = (*Conn)(nil)
	_ godbc.Catalog    = (*Conn)(nil)
)

// Prepare parses the SQL up front so later executions only substitute
// parameters.
func (c *Conn) Prepare(_ context.Context, sql string) (godbc.Statement, error) {
	if c.closed {
		return nil, c.errClosed()
	}
	stmt, nparams, err := parse(sql)
	if err != nil {
		return nil, &godbc.SyntaxError{SQL: sql, Cause: err}
	}
	return &Stmt{conn: c, sql: sql, stmt: stmt, nparams: nparams}, nil
}

// ExecuteQuery parses and runs SQL expected to return rows.
func (c *Conn) ExecuteQuery(ctx context.Context, sql string, args ...godbc.Value) (godbc.ResultSet, error) {
	stmt, err := c.Prepare(ctx, sql)
	if err != nil {
		return nil, err
	}
	return stmt.ExecuteQuery(ctx, args...)
}

// ExecuteUpdate parses and runs SQL expected to change rows.
func (c *Conn) ExecuteUpdate(ctx context.Context, sql string, args ...godbc.Value) (int64, error) {
	stmt, err := c.Prepare(ctx, sql)
	if err != nil {
		return 0, err
	}
	return stmt.ExecuteUpdate(ctx, args...)
}

// Ping reports whether the session is usable.
func (c *Conn) Ping(context.Context) error {
	if c.closed {
		return c.errClosed()
	}
	return nil
}

// Close ends the session. A private catalog becomes unreachable; a shared
// one stays alive for other connections.
func (c *Conn) Close() error {
	c.closed = true
	return nil
}

// Schemas returns the single schema the in-memory backend has.
func (c *Conn) Schemas(context.Context) ([]string, error) {
	if c.closed {
		return nil, c.errClosed()
	}
	return []string{"main"}, nil
}

// Tables lists the catalog's tables.
func (c *Conn) Tables(_ context.Context, schema string) ([]string, error) {
	if c.closed {
		return nil, c.errClosed()
	}
	if schema != "" && schema != "main" {
		return nil, nil
	}
	return c.cat.tableNames(), nil
}

// TableColumns returns column metadata for a table.
func (c *Conn) TableColumns(_ context.Context, schema, tableName string) ([]godbc.TableColumn, error) {
	if c.closed {
		return nil, c.errClosed()
	}
	if schema != "" && schema != "main" {
		return nil, &godbc.DriverError{Driver: DriverName, Cause: fmt.Errorf("no such schema %q", schema)}
	}
	cols, err := c.cat.tableColumns(tableName)
	if err != nil {
		return nil, &godbc.DriverError{Driver: DriverName, Cause: err}
	}
	return cols, nil
}

func (c *Conn) errClosed() error {
	return &godbc.DriverError{Driver: DriverName, Cause: fmt.Errorf("connection is closed")}
}

// Stmt is a prepared statement against the in-memory backend. Each
// execution sees only the arguments it is given.
type Stmt struct {
	conn    *Conn
	sql     string
	stmt    statement
	nparams int
	closed  bool
}

var _ godbc.Statement = (*Stmt)(nil)

// ExecuteQuery runs the statement and returns its rows.
func (s *Stmt) ExecuteQuery(_ context.Context, args ...godbc.Value) (godbc.ResultSet, error) {
	if err := s.check(args); err != nil {
		return nil, err
	}
	if _, ok := s.stmt.(*selectStmt); !ok {
		return nil, &godbc.DriverError{Driver: DriverName, Cause: fmt.Errorf("statement returns no rows")}
	}
	rs, _, err := s.conn.cat.exec(s.stmt, args)
	if err != nil {
		return nil, &godbc.DriverError{Driver: DriverName, Cause: err}
	}
	return rs, nil
}

// ExecuteUpdate runs the statement and returns the affected row count.
func (s *Stmt) ExecuteUpdate(_ context.Context, args ...godbc.Value) (int64, error) {
	if err := s.check(args); err != nil {
		return 0, err
	}
	if _, ok := s.stmt.(*selectStmt); ok {
		return 0, &godbc.DriverError{Driver: DriverName, Cause: fmt.Errorf("statement returns rows, use ExecuteQuery")}
	}
	_, n, err := s.conn.cat.exec(s.stmt, args)
	if err != nil {
		return 0, &godbc.DriverError{Driver: DriverName, Cause: err}
	}
	return n, nil
}

// Close releases the statement.
func (s *Stmt) Close() error {
	s.closed = true
	return nil
}

func (s *Stmt) check(args []godbc.Value) error {
	if s.closed {
		return &godbc.DriverError{Driver: DriverName, Cause: fmt.Errorf("statement is closed")}
	}
	if s.conn.closed {
		return s.conn.errClosed()
	}
	if len(args) != s.nparams {
		return &godbc.ParameterError{Want: s.nparams, Got: len(args)}
	}
	return nil
}

// ResetShared drops every shared catalog. Tests use it to start clean.
func ResetShared() {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	shared = make(map[string]*catalog)
}
