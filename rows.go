package godbc

import "time"

// Rows is a ResultSet over fully materialized row data. Drivers read all
// rows from the backend while the session is theirs, convert the cells to
// Values, and hand back a Rows; that keeps the Connection free for the next
// statement and gives every backend the same cursor semantics.
type Rows struct {
	cols   []Column
	rows   [][]Value
	pos    int // -1 before first row
	done   bool
	closed bool
	err    error
}

var _ ResultSet = (*Rows)(nil)

// NewRows builds a ResultSet over materialized rows. The cursor starts
// before the first row.
func NewRows(cols []Column, rows [][]Value) *Rows {
	return &Rows{cols: cols, rows: rows, pos: -1}
}

// Columns describes the result columns.
func (r *Rows) Columns() []Column {
	cols := make([]Column, len(r.cols))
	copy(cols, r.cols)
	return cols
}

// Len returns the total number of rows in the result.
func (r *Rows) Len() int { return len(r.rows) }

// Next advances the cursor. Once it has returned false it keeps returning
// false; the cursor never rewinds.
func (r *Rows) Next() bool {
	if r.done || r.closed {
		return false
	}
	r.pos++
	if r.pos >= len(r.rows) {
		r.done = true
		return false
	}
	return true
}

// Err returns the first error encountered while iterating.
func (r *Rows) Err() error { return r.err }

// Close discards any remaining rows. Further Next calls return false.
func (r *Rows) Close() error {
	r.closed = true
	return nil
}

// cell returns the value at column i of the current row. The second result
// is false when the cursor is not on a row or i is out of range.
func (r *Rows) cell(i int) (Value, bool) {
	if r.closed || r.done || r.pos < 0 || r.pos >= len(r.rows) {
		return Value{}, false
	}
	row := r.rows[r.pos]
	if i < 0 || i >= len(row) {
		return Value{}, false
	}
	return row[i], true
}

// GetBool returns the bool at column i of the current row.
func (r *Rows) GetBool(i int) (bool, bool) {
	v, ok := r.cell(i)
	if !ok {
		return false, false
	}
	return v.AsBool()
}

// GetInt32 returns the int32 at column i of the current row.
func (r *Rows) GetInt32(i int) (int32, bool) {
	v, ok := r.cell(i)
	if !ok {
		return 0, false
	}
	return v.AsInt32()
}

// GetInt64 returns the int64 at column i of the current row.
func (r *Rows) GetInt64(i int) (int64, bool) {
	v, ok := r.cell(i)
	if !ok {
		return 0, false
	}
	return v.AsInt64()
}

// GetFloat64 returns the float64 at column i of the current row.
func (r *Rows) GetFloat64(i int) (float64, bool) {
	v, ok := r.cell(i)
	if !ok {
		return 0, false
	}
	return v.AsFloat64()
}

// GetString returns the string at column i of the current row.
func (r *Rows) GetString(i int) (string, bool) {
	v, ok := r.cell(i)
	if !ok {
		return "", false
	}
	return v.AsString()
}

// GetBytes returns the binary payload at column i of the current row.
func (r *Rows) GetBytes(i int) ([]byte, bool) {
	v, ok := r.cell(i)
	if !ok {
		return nil, false
	}
	return v.AsBytes()
}

// GetTime returns the timestamp at column i of the current row.
func (r *Rows) GetTime(i int) (time.Time, bool) {
	v, ok := r.cell(i)
	if !ok {
		return time.Time{}, false
	}
	return v.AsTime()
}

// Get returns the raw Value at column i of the current row. Callers that
// render cells generically (like the CLI) use it instead of the typed
// accessors.
func (r *Rows) Get(i int) (Value, bool) {
	return r.cell(i)
}
