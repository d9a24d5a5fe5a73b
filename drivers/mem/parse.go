package mem

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joacominatel/godbc"
)

// The mem driver understands just enough SQL to exercise the connectivity
// layer end to end: CREATE TABLE, DROP TABLE, INSERT, SELECT with a single
// equality or IS [NOT] NULL predicate, UPDATE and DELETE. It is internal
// plumbing for tests and demos, not a SQL engine.

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokNumber
	tokString
	tokPlaceholder
	tokPunct
)

type token struct {
	kind tokenKind
	text string // uppercased for idents and punct
	raw  string // original spelling
}

func lex(sql string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(sql) {
		c := sql[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '\'':
			j := i + 1
			var sb strings.Builder
			for {
				if j >= len(sql) {
					return nil, fmt.Errorf("unterminated string literal")
				}
				if sql[j] == '\'' {
					if j+1 < len(sql) && sql[j+1] == '\'' {
						sb.WriteByte('\'')
						j += 2
						continue
					}
					j++
					break
				}
				sb.WriteByte(sql[j])
				j++
			}
			toks = append(toks, token{kind: tokString, raw: sb.String()})
			i = j
		case c == '?':
			toks = append(toks, token{kind: tokPlaceholder, text: "?"})
			i++
		case c >= '0' && c <= '9' || (c == '-' && i+1 < len(sql) && sql[i+1] >= '0' && sql[i+1] <= '9'):
			j := i + 1
			for j < len(sql) && (sql[j] >= '0' && sql[j] <= '9' || sql[j] == '.') {
				j++
			}
			toks = append(toks, token{kind: tokNumber, raw: sql[i:j]})
			i = j
		case isIdentStart(c):
			j := i + 1
			for j < len(sql) && isIdentChar(sql[j]) {
				j++
			}
			raw := sql[i:j]
			toks = append(toks, token{kind: tokIdent, text: strings.ToUpper(raw), raw: raw})
			i = j
		case strings.IndexByte("(),=*;", c) >= 0:
			toks = append(toks, token{kind: tokPunct, text: string(c)})
			i++
		default:
			return nil, fmt.Errorf("unexpected character %q", c)
		}
	}
	return toks, nil
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// expr is either a literal value or a positional placeholder.
type expr struct {
	param int // placeholder index, or -1 for a literal
	lit   godbc.Value
}

type columnDef struct {
	name     string
	typeName string
	kind     godbc.Kind
	notNull  bool
	primary  bool
}

type whereClause struct {
	col     string
	isNull  bool // col IS NULL
	notNull bool // col IS NOT NULL
	eq      expr // col = expr, when neither flag is set
}

type assign struct {
	col string
	val expr
}

type createStmt struct {
	table string
	cols  []columnDef
}

type dropStmt struct {
	table    string
	ifExists bool
}

type insertStmt struct {
	table string
	cols  []string
	vals  []expr
}

type selectStmt struct {
	table string
	cols  []string
	star  bool
	where *whereClause
}

type updateStmt struct {
	table string
	sets  []assign
	where *whereClause
}

type deleteStmt struct {
	table string
	where *whereClause
}

type statement interface{ isStatement() }

func (*createStmt) isStatement() {}
func (*dropStmt) isStatement()   {}
func (*insertStmt) isStatement() {}
func (*selectStmt) isStatement() {}
func (*updateStmt) isStatement() {}
func (*deleteStmt) isStatement() {}

// parser consumes the token stream and numbers placeholders as it meets
// them, left to right.
type parser struct {
	toks    []token
	pos     int
	nparams int
}

// parse turns one SQL statement into its parsed form and the number of
// positional placeholders it takes. A trailing semicolon is allowed.
func parse(sql string) (statement, int, error) {
	toks, err := lex(sql)
	if err != nil {
		return nil, 0, err
	}
	p := &parser{toks: toks}

	var stmt statement
	switch {
	case p.peekIs("CREATE"):
		stmt, err = p.parseCreate()
	case p.peekIs("DROP"):
		stmt, err = p.parseDrop()
	case p.peekIs("INSERT"):
		stmt, err = p.parseInsert()
	case p.peekIs("SELECT"):
		stmt, err = p.parseSelect()
	case p.peekIs("UPDATE"):
		stmt, err = p.parseUpdate()
	case p.peekIs("DELETE"):
		stmt, err = p.parseDelete()
	default:
		return nil, 0, fmt.Errorf("unsupported statement")
	}
	if err != nil {
		return nil, 0, err
	}

	p.acceptPunct(";")
	if p.pos < len(p.toks) {
		return nil, 0, fmt.Errorf("unexpected trailing input near %q", p.toks[p.pos].raw)
	}
	return stmt, p.nparams, nil
}

func (p *parser) peekIs(kw string) bool {
	return p.pos < len(p.toks) && p.toks[p.pos].kind == tokIdent && p.toks[p.pos].text == kw
}

func (p *parser) acceptKeyword(kw string) bool {
	if p.peekIs(kw) {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expectKeyword(kw string) error {
	if !p.acceptKeyword(kw) {
		return fmt.Errorf("expected %s", kw)
	}
	return nil
}

func (p *parser) acceptPunct(s string) bool {
	if p.pos < len(p.toks) && p.toks[p.pos].kind == tokPunct && p.toks[p.pos].text == s {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expectPunct(s string) error {
	if !p.acceptPunct(s) {
		return fmt.Errorf("expected %q", s)
	}
	return nil
}

func (p *parser) ident() (string, error) {
	if p.pos >= len(p.toks) || p.toks[p.pos].kind != tokIdent {
		return "", fmt.Errorf("expected identifier")
	}
	name := p.toks[p.pos].raw
	p.pos++
	return name, nil
}

func (p *parser) expr() (expr, error) {
	if p.pos >= len(p.toks) {
		return expr{}, fmt.Errorf("expected value")
	}
	t := p.toks[p.pos]
	switch t.kind {
	case tokPlaceholder:
		p.pos++
		e := expr{param: p.nparams}
		p.nparams++
		return e, nil
	case tokString:
		p.pos++
		return expr{param: -1, lit: godbc.String(t.raw)}, nil
	case tokNumber:
		p.pos++
		if strings.ContainsRune(t.raw, '.') {
			f, err := strconv.ParseFloat(t.raw, 64)
			if err != nil {
				return expr{}, fmt.Errorf("bad number %q", t.raw)
			}
			return expr{param: -1, lit: godbc.Float64(f)}, nil
		}
		n, err := strconv.ParseInt(t.raw, 10, 64)
		if err != nil {
			return expr{}, fmt.Errorf("bad number %q", t.raw)
		}
		return expr{param: -1, lit: godbc.Int64(n)}, nil
	case tokIdent:
		switch t.text {
		case "NULL":
			p.pos++
			return expr{param: -1, lit: godbc.Null()}, nil
		case "TRUE":
			p.pos++
			return expr{param: -1, lit: godbc.Bool(true)}, nil
		case "FALSE":
			p.pos++
			return expr{param: -1, lit: godbc.Bool(false)}, nil
		}
	}
	return expr{}, fmt.Errorf("expected value, got %q", t.raw)
}

func (p *parser) parseCreate() (statement, error) {
	p.pos++ // CREATE
	if err := p.expectKeyword("TABLE"); err != nil {
		return nil, err
	}
	table, err := p.ident()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}

	var cols []columnDef
	for {
		name, err := p.ident()
		if err != nil {
			return nil, err
		}
		typeName, err := p.ident()
		if err != nil {
			return nil, err
		}
		// Skip a length spec like VARCHAR(30).
		if p.acceptPunct("(") {
			for p.pos < len(p.toks) && !p.acceptPunct(")") {
				p.pos++
			}
		}
		kind, ok := kindForTypeName(typeName)
		if !ok {
			return nil, fmt.Errorf("unknown column type %q", typeName)
		}
		col := columnDef{name: name, typeName: strings.ToUpper(typeName), kind: kind}
		for {
			switch {
			case p.acceptKeyword("NOT"):
				if err := p.expectKeyword("NULL"); err != nil {
					return nil, err
				}
				col.notNull = true
			case p.acceptKeyword("PRIMARY"):
				if err := p.expectKeyword("KEY"); err != nil {
					return nil, err
				}
				col.primary = true
				col.notNull = true
			default:
				goto colDone
			}
		}
	colDone:
		cols = append(cols, col)
		if p.acceptPunct(",") {
			continue
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		break
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("table needs at least one column")
	}
	return &createStmt{table: table, cols: cols}, nil
}

func (p *parser) parseDrop() (statement, error) {
	p.pos++ // DROP
	if err := p.expectKeyword("TABLE"); err != nil {
		return nil, err
	}
	stmt := &dropStmt{}
	if p.acceptKeyword("IF") {
		if err := p.expectKeyword("EXISTS"); err != nil {
			return nil, err
		}
		stmt.ifExists = true
	}
	table, err := p.ident()
	if err != nil {
		return nil, err
	}
	stmt.table = table
	return stmt, nil
}

func (p *parser) parseInsert() (statement, error) {
	p.pos++ // INSERT
	if err := p.expectKeyword("INTO"); err != nil {
		return nil, err
	}
	table, err := p.ident()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	var cols []string
	for {
		name, err := p.ident()
		if err != nil {
			return nil, err
		}
		cols = append(cols, name)
		if p.acceptPunct(",") {
			continue
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		break
	}
	if err := p.expectKeyword("VALUES"); err != nil {
		return nil, err
	}
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	var vals []expr
	for {
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		vals = append(vals, e)
		if p.acceptPunct(",") {
			continue
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		break
	}
	if len(vals) != len(cols) {
		return nil, fmt.Errorf("%d columns but %d values", len(cols), len(vals))
	}
	return &insertStmt{table: table, cols: cols, vals: vals}, nil
}

func (p *parser) parseSelect() (statement, error) {
	p.pos++ // SELECT
	stmt := &selectStmt{}
	if p.acceptPunct("*") {
		stmt.star = true
	} else {
		for {
			name, err := p.ident()
			if err != nil {
				return nil, err
			}
			stmt.cols = append(stmt.cols, name)
			if !p.acceptPunct(",") {
				break
			}
		}
	}
	if err := p.expectKeyword("FROM"); err != nil {
		return nil, err
	}
	table, err := p.ident()
	if err != nil {
		return nil, err
	}
	stmt.table = table

	where, err := p.parseWhere()
	if err != nil {
		return nil, err
	}
	stmt.where = where
	return stmt, nil
}

func (p *parser) parseUpdate() (statement, error) {
	p.pos++ // UPDATE
	table, err := p.ident()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("SET"); err != nil {
		return nil, err
	}
	stmt := &updateStmt{table: table}
	for {
		col, err := p.ident()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct("="); err != nil {
			return nil, err
		}
		val, err := p.expr()
		if err != nil {
			return nil, err
		}
		stmt.sets = append(stmt.sets, assign{col: col, val: val})
		if !p.acceptPunct(",") {
			break
		}
	}
	where, err := p.parseWhere()
	if err != nil {
		return nil, err
	}
	stmt.where = where
	return stmt, nil
}

func (p *parser) parseDelete() (statement, error) {
	p.pos++ // DELETE
	if err := p.expectKeyword("FROM"); err != nil {
		return nil, err
	}
	table, err := p.ident()
	if err != nil {
		return nil, err
	}
	where, err := p.parseWhere()
	if err != nil {
		return nil, err
	}
	return &deleteStmt{table: table, where: where}, nil
}

func (p *parser) parseWhere() (*whereClause, error) {
	if !p.acceptKeyword("WHERE") {
		return nil, nil
	}
	col, err := p.ident()
	if err != nil {
		return nil, err
	}
	w := &whereClause{col: col}
	if p.acceptKeyword("IS") {
		if p.acceptKeyword("NOT") {
			if err := p.expectKeyword("NULL"); err != nil {
				return nil, err
			}
			w.notNull = true
			return w, nil
		}
		if err := p.expectKeyword("NULL"); err != nil {
			return nil, err
		}
		w.isNull = true
		return w, nil
	}
	if err := p.expectPunct("="); err != nil {
		return nil, err
	}
	w.eq, err = p.expr()
	if err != nil {
		return nil, err
	}
	return w, nil
}

func kindForTypeName(name string) (godbc.Kind, bool) {
	switch strings.ToUpper(name) {
	case "SMALLINT":
		return godbc.KindInt16, true
	case "INT", "INTEGER", "BIGINT":
		return godbc.KindInt64, true
	case "FLOAT", "REAL", "DOUBLE":
		return godbc.KindFloat64, true
	case "TEXT", "VARCHAR", "CHAR":
		return godbc.KindString, true
	case "BOOL", "BOOLEAN":
		return godbc.KindBool, true
	case "BLOB", "BYTEA":
		return godbc.KindBytes, true
	case "TIMESTAMP", "DATETIME":
		return godbc.KindTime, true
	}
	return godbc.KindNull, false
}
