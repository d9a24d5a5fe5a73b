package godbc

import (
	"strconv"
	"strings"
	"time"
)

// BindNamed replaces :name tokens in sql with the SQL literal rendering of
// the matching parameter. Tokens inside quoted strings, quoted identifiers
// and comments are left alone, as are names with no matching parameter.
//
// Positional ? placeholders bound at execution time are the preferred path;
// BindNamed exists for ad-hoc SQL where server-side binding is unavailable.
func BindNamed(sql string, params map[string]Value) string {
	var out strings.Builder
	out.Grow(len(sql))

	for i := 0; i < len(sql); {
		c := sql[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			j := skipQuoted(sql, i)
			out.WriteString(sql[i:j])
			i = j
		case c == '-' && i+1 < len(sql) && sql[i+1] == '-':
			j := skipLineComment(sql, i)
			out.WriteString(sql[i:j])
			i = j
		case c == ':' && i+1 < len(sql) && sql[i+1] == ':':
			// Postgres cast operator, not a parameter.
			out.WriteString("::")
			i += 2
			for i < len(sql) && isNameChar(sql[i]) {
				out.WriteByte(sql[i])
				i++
			}
		case c == ':' && i+1 < len(sql) && isNameChar(sql[i+1]):
			j := i + 1
			for j < len(sql) && isNameChar(sql[j]) {
				j++
			}
			name := sql[i+1 : j]
			if v, ok := params[name]; ok {
				out.WriteString(Literal(v))
			} else {
				out.WriteString(sql[i:j])
			}
			i = j
		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String()
}

// CountPlaceholders returns the number of positional ? placeholders in sql,
// ignoring any inside quoted strings, quoted identifiers or comments.
func CountPlaceholders(sql string) int {
	n := 0
	for i := 0; i < len(sql); {
		c := sql[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			i = skipQuoted(sql, i)
		case c == '-' && i+1 < len(sql) && sql[i+1] == '-':
			i = skipLineComment(sql, i)
		case c == '?':
			n++
			i++
		default:
			i++
		}
	}
	return n
}

// Rebind rewrites positional ? placeholders into the numbered $1..$n form
// postgres expects. Question marks inside quoted strings, quoted
// identifiers or comments are data, not placeholders, and pass through
// untouched.
func Rebind(sql string) string {
	var out strings.Builder
	out.Grow(len(sql) + 8)

	n := 0
	for i := 0; i < len(sql); {
		c := sql[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			j := skipQuoted(sql, i)
			out.WriteString(sql[i:j])
			i = j
		case c == '-' && i+1 < len(sql) && sql[i+1] == '-':
			j := skipLineComment(sql, i)
			out.WriteString(sql[i:j])
			i = j
		case c == '?':
			n++
			out.WriteByte('$')
			out.WriteString(strconv.Itoa(n))
			i++
		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String()
}

// Literal renders a Value as a SQL literal: strings quoted with doubled
// single quotes, NULL for null, bare digits for numbers.
func Literal(v Value) string {
	switch v.Kind() {
	case KindNull:
		return "NULL"
	case KindString:
		return "'" + strings.ReplaceAll(v.s, "'", "''") + "'"
	case KindTime:
		return "'" + v.t.Format(time.RFC3339Nano) + "'"
	case KindBytes:
		return "'" + v.String() + "'"
	default:
		return v.String()
	}
}

// skipQuoted returns the index just past the quoted region starting at i.
// Doubled quote characters escape themselves, per SQL.
func skipQuoted(sql string, i int) int {
	quote := sql[i]
	j := i + 1
	for j < len(sql) {
		if sql[j] == quote {
			if j+1 < len(sql) && sql[j+1] == quote {
				j += 2
				continue
			}
			return j + 1
		}
		j++
	}
	return j
}

func skipLineComment(sql string, i int) int {
	j := strings.IndexByte(sql[i:], '\n')
	if j < 0 {
		return len(sql)
	}
	return i + j + 1
}

func isNameChar(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
