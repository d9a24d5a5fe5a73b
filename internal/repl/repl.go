// Package repl implements the interactive shell of the godbc CLI: it reads
// SQL statements terminated by a semicolon, executes them over one
// connection, and renders the results.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

const (
	promptMain = "godbc> "
	promptCont = "   ... "
)

// REPL reads statements from in and writes results to out.
type REPL struct {
	session *Session
	in      io.Reader
	out     io.Writer
	history *History
}

// New creates a REPL over an open session.
func New(session *Session, in io.Reader, out io.Writer) *REPL {
	return &REPL{session: session, in: in, out: out}
}

// UseHistory attaches a persistent statement history. Every executed
// statement is recorded and the file is written back when Run returns.
func (r *REPL) UseHistory(h *History) {
	r.history = h
}

// Run processes input until EOF or the quit command. Statement errors are
// printed and the loop continues; only I/O and context failures end it.
func (r *REPL) Run(ctx context.Context) error {
	if r.history != nil {
		// Best effort; a read-only home dir should not kill the shell.
		defer r.history.Save()
	}

	scanner := bufio.NewScanner(r.in)
	var buf strings.Builder

	fmt.Fprint(r.out, promptMain)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if buf.Len() == 0 && strings.HasPrefix(trimmed, `\`) {
			if quit := r.meta(ctx, trimmed); quit {
				return nil
			}
			fmt.Fprint(r.out, promptMain)
			continue
		}

		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(trimmed)

		if !terminated(buf.String()) {
			fmt.Fprint(r.out, promptCont)
			continue
		}

		stmt := strings.TrimSpace(buf.String())
		buf.Reset()
		sql := strings.TrimSuffix(stmt, ";")
		if strings.TrimSpace(sql) != "" {
			if r.history != nil {
				r.history.Add(stmt)
			}
			r.execute(ctx, sql)
		}
		fmt.Fprint(r.out, promptMain)
	}
	fmt.Fprintln(r.out)
	return scanner.Err()
}

func (r *REPL) execute(ctx context.Context, sql string) {
	res, err := r.session.Execute(ctx, sql)
	if err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return
	}
	fmt.Fprint(r.out, Render(res))
}

// meta handles backslash commands. It returns true when the REPL should
// quit.
func (r *REPL) meta(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case `\q`, `\quit`:
		return true
	case `\d`:
		if len(fields) > 1 {
			r.describeTable(ctx, fields[1])
		} else {
			r.listTables(ctx)
		}
	case `\history`:
		if r.history == nil {
			fmt.Fprintln(r.out, "history is not enabled")
			break
		}
		for _, stmt := range r.history.Entries() {
			fmt.Fprintln(r.out, stmt)
		}
	default:
		fmt.Fprintf(r.out, "unknown command %s (try \\d, \\history or \\q)\n", fields[0])
	}
	return false
}

func (r *REPL) listTables(ctx context.Context) {
	cat, ok := r.session.Catalog()
	if !ok {
		fmt.Fprintln(r.out, "this driver does not support introspection")
		return
	}
	schemas, err := cat.Schemas(ctx)
	if err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return
	}
	for _, schema := range schemas {
		tables, err := cat.Tables(ctx, schema)
		if err != nil {
			fmt.Fprintf(r.out, "Error: %v\n", err)
			return
		}
		for _, table := range tables {
			fmt.Fprintf(r.out, "%s.%s\n", schema, table)
		}
	}
}

func (r *REPL) describeTable(ctx context.Context, name string) {
	cat, ok := r.session.Catalog()
	if !ok {
		fmt.Fprintln(r.out, "this driver does not support introspection")
		return
	}

	schema := ""
	table := name
	if i := strings.IndexByte(name, '.'); i >= 0 {
		schema, table = name[:i], name[i+1:]
	}
	if schema == "" {
		schemas, err := cat.Schemas(ctx)
		if err != nil || len(schemas) == 0 {
			fmt.Fprintf(r.out, "Error: cannot resolve schema: %v\n", err)
			return
		}
		schema = schemas[0]
	}

	cols, err := cat.TableColumns(ctx, schema, table)
	if err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return
	}
	res := &Result{
		IsQuery: true,
		Columns: []string{"column", "type", "nullable", "primary", "default"},
	}
	for _, col := range cols {
		res.Rows = append(res.Rows, []string{
			col.Name,
			col.DataType,
			fmt.Sprintf("%v", col.IsNullable),
			fmt.Sprintf("%v", col.IsPrimary),
			col.Default,
		})
	}
	res.RowCount = len(res.Rows)
	fmt.Fprint(r.out, Render(res))
}

// terminated reports whether the buffered input forms a complete
// statement, i.e. ends with a semicolon outside any string literal.
func terminated(buf string) bool {
	trimmed := strings.TrimRight(buf, " \t")
	if !strings.HasSuffix(trimmed, ";") {
		return false
	}
	// A semicolon inside an unterminated string does not end a statement.
	inString := false
	for i := 0; i < len(trimmed); i++ {
		if trimmed[i] == '\'' {
			inString = !inString
		}
	}
	return !inString
}
