package repl

import (
	"context"
	"strings"
	"time"

	"github.com/joacominatel/godbc"
)

// Result holds the outcome of one executed statement, ready to render.
type Result struct {
	Columns  []string
	Rows     [][]string
	RowCount int
	Affected int64
	IsQuery  bool
	Duration time.Duration
}

// Session coordinates statement execution between the REPL and a
// connection.
type Session struct {
	conn godbc.Connection
}

// NewSession creates a session over an open connection.
func NewSession(conn godbc.Connection) *Session {
	return &Session{conn: conn}
}

// Execute runs one SQL statement, routing it to the query or update path
// by its leading keyword.
func (s *Session) Execute(ctx context.Context, sql string) (*Result, error) {
	start := time.Now()

	if !returnsRows(sql) {
		n, err := s.conn.ExecuteUpdate(ctx, sql)
		if err != nil {
			return nil, err
		}
		return &Result{Affected: n, Duration: time.Since(start)}, nil
	}

	rs, err := s.conn.ExecuteQuery(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	cols := rs.Columns()
	res := &Result{IsQuery: true, Columns: make([]string, len(cols))}
	for i, c := range cols {
		res.Columns[i] = c.Name
	}

	for rs.Next() {
		row := make([]string, len(cols))
		for i := range cols {
			if v, ok := rs.Get(i); ok {
				row[i] = v.String()
			} else {
				row[i] = "NULL"
			}
		}
		res.Rows = append(res.Rows, row)
	}
	if err := rs.Err(); err != nil {
		return nil, err
	}

	res.RowCount = len(res.Rows)
	res.Duration = time.Since(start)
	return res, nil
}

// Catalog returns the connection's introspection interface, when the
// driver supports it.
func (s *Session) Catalog() (godbc.Catalog, bool) {
	cat, ok := s.conn.(godbc.Catalog)
	return cat, ok
}

// Close ends the underlying connection.
func (s *Session) Close() error {
	return s.conn.Close()
}

// returnsRows reports whether a statement should go through the query
// path. Anything else runs as an update.
func returnsRows(sql string) bool {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return false
	}
	switch strings.ToUpper(fields[0]) {
	case "SELECT", "SHOW", "WITH", "EXPLAIN", "DESCRIBE", "DESC", "VALUES", "TABLE":
		return true
	}
	return false
}
