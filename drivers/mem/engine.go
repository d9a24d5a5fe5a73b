package mem

import (
	"fmt"
	"sort"
	"sync"

	"github.com/joacominatel/godbc"
)

// catalog holds the tables of one in-memory database. Shared catalogs can
// be reached from several connections, so every operation takes the lock.
type catalog struct {
	mu     sync.Mutex
	tables map[string]*table
}

type table struct {
	name string
	cols []columnDef
	rows [][]godbc.Value
}

func newCatalog() *catalog {
	return &catalog{tables: make(map[string]*table)}
}

func (t *table) columnIndex(name string) int {
	for i, c := range t.cols {
		if c.name == name {
			return i
		}
	}
	return -1
}

// exec runs a parsed statement with placeholders already substituted and
// returns either a result set (for SELECT) or an affected row count.
func (c *catalog) exec(stmt statement, args []godbc.Value) (*godbc.Rows, int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch s := stmt.(type) {
	case *createStmt:
		return nil, 0, c.create(s)
	case *dropStmt:
		return nil, 0, c.drop(s)
	case *insertStmt:
		n, err := c.insert(s, args)
		return nil, n, err
	case *selectStmt:
		rs, err := c.query(s, args)
		return rs, 0, err
	case *updateStmt:
		n, err := c.update(s, args)
		return nil, n, err
	case *deleteStmt:
		n, err := c.delete(s, args)
		return nil, n, err
	}
	return nil, 0, fmt.Errorf("unsupported statement")
}

func (c *catalog) create(s *createStmt) error {
	if _, ok := c.tables[s.table]; ok {
		return fmt.Errorf("table %q already exists", s.table)
	}
	cols := make([]columnDef, len(s.cols))
	copy(cols, s.cols)
	c.tables[s.table] = &table{name: s.table, cols: cols}
	return nil
}

func (c *catalog) drop(s *dropStmt) error {
	if _, ok := c.tables[s.table]; !ok {
		if s.ifExists {
			return nil
		}
		return fmt.Errorf("no such table %q", s.table)
	}
	delete(c.tables, s.table)
	return nil
}

func (c *catalog) insert(s *insertStmt, args []godbc.Value) (int64, error) {
	t, ok := c.tables[s.table]
	if !ok {
		return 0, fmt.Errorf("no such table %q", s.table)
	}

	row := make([]godbc.Value, len(t.cols))
	seen := make(map[string]bool, len(s.cols))
	for i, colName := range s.cols {
		ci := t.columnIndex(colName)
		if ci < 0 {
			return 0, fmt.Errorf("no such column %q in table %q", colName, s.table)
		}
		if seen[colName] {
			return 0, fmt.Errorf("column %q named twice", colName)
		}
		seen[colName] = true

		v, err := resolve(s.vals[i], args)
		if err != nil {
			return 0, err
		}
		cv, err := coerce(v, t.cols[ci])
		if err != nil {
			return 0, err
		}
		row[ci] = cv
	}

	for i, col := range t.cols {
		if row[i].IsNull() && col.notNull {
			return 0, fmt.Errorf("column %q is NOT NULL", col.name)
		}
	}

	t.rows = append(t.rows, row)
	return 1, nil
}

func (c *catalog) query(s *selectStmt, args []godbc.Value) (*godbc.Rows, error) {
	t, ok := c.tables[s.table]
	if !ok {
		return nil, fmt.Errorf("no such table %q", s.table)
	}

	var idx []int
	if s.star {
		idx = make([]int, len(t.cols))
		for i := range t.cols {
			idx[i] = i
		}
	} else {
		for _, name := range s.cols {
			ci := t.columnIndex(name)
			if ci < 0 {
				return nil, fmt.Errorf("no such column %q in table %q", name, s.table)
			}
			idx = append(idx, ci)
		}
	}

	cols := make([]godbc.Column, len(idx))
	for i, ci := range idx {
		cols[i] = godbc.Column{Name: t.cols[ci].name, Type: t.cols[ci].kind}
	}

	match, err := c.matcher(t, s.where, args)
	if err != nil {
		return nil, err
	}

	var out [][]godbc.Value
	for _, row := range t.rows {
		if !match(row) {
			continue
		}
		proj := make([]godbc.Value, len(idx))
		for i, ci := range idx {
			proj[i] = row[ci]
		}
		out = append(out, proj)
	}
	return godbc.NewRows(cols, out), nil
}

func (c *catalog) update(s *updateStmt, args []godbc.Value) (int64, error) {
	t, ok := c.tables[s.table]
	if !ok {
		return 0, fmt.Errorf("no such table %q", s.table)
	}

	type resolved struct {
		ci  int
		val godbc.Value
	}
	sets := make([]resolved, 0, len(s.sets))
	for _, a := range s.sets {
		ci := t.columnIndex(a.col)
		if ci < 0 {
			return 0, fmt.Errorf("no such column %q in table %q", a.col, s.table)
		}
		v, err := resolve(a.val, args)
		if err != nil {
			return 0, err
		}
		cv, err := coerce(v, t.cols[ci])
		if err != nil {
			return 0, err
		}
		if cv.IsNull() && t.cols[ci].notNull {
			return 0, fmt.Errorf("column %q is NOT NULL", a.col)
		}
		sets = append(sets, resolved{ci: ci, val: cv})
	}

	match, err := c.matcher(t, s.where, args)
	if err != nil {
		return 0, err
	}

	var n int64
	for _, row := range t.rows {
		if !match(row) {
			continue
		}
		for _, set := range sets {
			row[set.ci] = set.val
		}
		n++
	}
	return n, nil
}

func (c *catalog) delete(s *deleteStmt, args []godbc.Value) (int64, error) {
	t, ok := c.tables[s.table]
	if !ok {
		return 0, fmt.Errorf("no such table %q", s.table)
	}

	match, err := c.matcher(t, s.where, args)
	if err != nil {
		return 0, err
	}

	kept := t.rows[:0]
	var n int64
	for _, row := range t.rows {
		if match(row) {
			n++
			continue
		}
		kept = append(kept, row)
	}
	t.rows = kept
	return n, nil
}

// matcher compiles a WHERE clause into a row predicate. A nil clause
// matches everything. Equality follows SQL semantics: NULL matches nothing.
func (c *catalog) matcher(t *table, w *whereClause, args []godbc.Value) (func([]godbc.Value) bool, error) {
	if w == nil {
		return func([]godbc.Value) bool { return true }, nil
	}
	ci := t.columnIndex(w.col)
	if ci < 0 {
		return nil, fmt.Errorf("no such column %q in table %q", w.col, t.name)
	}
	switch {
	case w.isNull:
		return func(row []godbc.Value) bool { return row[ci].IsNull() }, nil
	case w.notNull:
		return func(row []godbc.Value) bool { return !row[ci].IsNull() }, nil
	default:
		want, err := resolve(w.eq, args)
		if err != nil {
			return nil, err
		}
		return func(row []godbc.Value) bool { return row[ci].Equal(want) }, nil
	}
}

func resolve(e expr, args []godbc.Value) (godbc.Value, error) {
	if e.param < 0 {
		return e.lit, nil
	}
	if e.param >= len(args) {
		return godbc.Value{}, fmt.Errorf("placeholder %d not bound", e.param+1)
	}
	return args[e.param], nil
}

// coerce checks a value against the column type, normalizing numeric kinds
// to the column's kind. NULL passes through; NOT NULL is enforced by the
// caller, which knows whether the write is an insert or an update.
func coerce(v godbc.Value, col columnDef) (godbc.Value, error) {
	if v.IsNull() {
		return v, nil
	}
	switch col.kind {
	case godbc.KindInt16, godbc.KindInt64:
		if n, ok := v.AsInt64(); ok {
			return godbc.Int64(n), nil
		}
	case godbc.KindFloat64:
		if f, ok := v.AsFloat64(); ok {
			return godbc.Float64(f), nil
		}
	case godbc.KindString:
		if s, ok := v.AsString(); ok {
			return godbc.String(s), nil
		}
	case godbc.KindBool:
		if b, ok := v.AsBool(); ok {
			return godbc.Bool(b), nil
		}
	case godbc.KindBytes:
		if raw, ok := v.AsBytes(); ok {
			return godbc.Bytes(raw), nil
		}
	case godbc.KindTime:
		if ts, ok := v.AsTime(); ok {
			return godbc.Time(ts), nil
		}
	}
	return godbc.Value{}, fmt.Errorf("cannot store %s value in %s column %q", v.Kind(), col.typeName, col.name)
}

// tableNames returns the catalog's table names, sorted.
func (c *catalog) tableNames() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, 0, len(c.tables))
	for name := range c.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// tableColumns returns catalog metadata for one table.
func (c *catalog) tableColumns(name string) ([]godbc.TableColumn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.tables[name]
	if !ok {
		return nil, fmt.Errorf("no such table %q", name)
	}
	cols := make([]godbc.TableColumn, len(t.cols))
	for i, col := range t.cols {
		cols[i] = godbc.TableColumn{
			Name:       col.name,
			DataType:   col.typeName,
			IsNullable: !col.notNull,
			IsPrimary:  col.primary,
			OrdinalPos: i + 1,
		}
	}
	return cols, nil
}
