package godbc

import (
	"strings"
	"testing"
)

func TestBindNamed(t *testing.T) {
	tests := []struct {
		name   string
		sql    string
		params map[string]Value
		want   string
	}{
		{
			name:   "int and string",
			sql:    "INSERT INTO foo (id, name) VALUES (:id, :name)",
			params: map[string]Value{"id": Int32(123), "name": String("Bob")},
			want:   "INSERT INTO foo (id, name) VALUES (123, 'Bob')",
		},
		{
			name:   "null",
			sql:    "UPDATE t SET a = :a",
			params: map[string]Value{"a": Null()},
			want:   "UPDATE t SET a = NULL",
		},
		{
			name:   "quote escaping",
			sql:    "SELECT :v",
			params: map[string]Value{"v": String("O'Brien")},
			want:   "SELECT 'O''Brien'",
		},
		{
			name:   "token inside string literal untouched",
			sql:    "SELECT ':id' FROM t WHERE id = :id",
			params: map[string]Value{"id": Int64(7)},
			want:   "SELECT ':id' FROM t WHERE id = 7",
		},
		{
			name:   "token inside comment untouched",
			sql:    "SELECT 1 -- :id\nFROM t WHERE id = :id",
			params: map[string]Value{"id": Int64(7)},
			want:   "SELECT 1 -- :id\nFROM t WHERE id = 7",
		},
		{
			name:   "unknown name left alone",
			sql:    "SELECT * FROM t WHERE a = :missing",
			params: map[string]Value{"other": Int32(1)},
			want:   "SELECT * FROM t WHERE a = :missing",
		},
		{
			name:   "postgres cast is not a parameter",
			sql:    "SELECT a::text FROM t",
			params: map[string]Value{"text": String("x")},
			want:   "SELECT a::text FROM t",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BindNamed(tt.sql, tt.params); got != tt.want {
				t.Fatalf("BindNamed(%q)\n got %q\nwant %q", tt.sql, got, tt.want)
			}
		})
	}
}

func TestRebind(t *testing.T) {
	tests := []struct {
		sql  string
		want string
	}{
		{"SELECT 1", "SELECT 1"},
		{"SELECT a FROM b WHERE c = ?", "SELECT a FROM b WHERE c = $1"},
		{"INSERT INTO t (a, b) VALUES (?, ?)", "INSERT INTO t (a, b) VALUES ($1, $2)"},
		{"SELECT 'any questions?' FROM t", "SELECT 'any questions?' FROM t"},
		{"SELECT '?' FROM t WHERE a = ?", "SELECT '?' FROM t WHERE a = $1"},
		{"SELECT \"?\" FROM t WHERE a = ? AND b = ?", "SELECT \"?\" FROM t WHERE a = $1 AND b = $2"},
		{"SELECT 1 -- ?\nFROM t WHERE a = ?", "SELECT 1 -- ?\nFROM t WHERE a = $1"},
		{"SELECT 'it''s?' FROM t", "SELECT 'it''s?' FROM t"},
	}

	for _, tt := range tests {
		if got := Rebind(tt.sql); got != tt.want {
			t.Errorf("Rebind(%q) = %q, want %q", tt.sql, got, tt.want)
		}
	}
}

func TestRebindAgreesWithCountPlaceholders(t *testing.T) {
	sqls := []string{
		"SELECT 'any questions?' FROM t",
		"SELECT a FROM b WHERE c = ? AND d = ?",
		"SELECT '?' FROM t WHERE a = ?",
	}
	for _, sql := range sqls {
		want := CountPlaceholders(sql)
		got := strings.Count(Rebind(sql), "$")
		if got != want {
			t.Errorf("Rebind(%q) numbered %d placeholders, CountPlaceholders sees %d", sql, got, want)
		}
	}
}

func TestCountPlaceholders(t *testing.T) {
	tests := []struct {
		sql  string
		want int
	}{
		{"SELECT 1", 0},
		{"SELECT a FROM b WHERE c = ?", 1},
		{"INSERT INTO t (a, b) VALUES (?, ?)", 2},
		{"SELECT '?' FROM t WHERE a = ?", 1},
		{"SELECT \"?\" FROM t", 0},
		{"SELECT 1 -- ?\nFROM t WHERE a = ?", 1},
		{"SELECT 'it''s?' FROM t", 0},
	}

	for _, tt := range tests {
		if got := CountPlaceholders(tt.sql); got != tt.want {
			t.Errorf("CountPlaceholders(%q) = %d, want %d", tt.sql, got, tt.want)
		}
	}
}
