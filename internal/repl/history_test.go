package repl

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHistoryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")

	h := LoadHistory(path)
	if len(h.Entries()) != 0 {
		t.Fatalf("fresh history has %d entries", len(h.Entries()))
	}

	h.Add("SELECT 1;")
	h.Add("CREATE TABLE t (a INT);")
	if err := h.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded := LoadHistory(path)
	got := reloaded.Entries()
	want := []string{"SELECT 1;", "CREATE TABLE t (a INT);"}
	if len(got) != len(want) {
		t.Fatalf("entries = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entries[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestHistorySkipsBlanksAndRepeats(t *testing.T) {
	h := LoadHistory(filepath.Join(t.TempDir(), "history"))
	h.Add("SELECT 1;")
	h.Add("  ")
	h.Add("SELECT 1;")
	h.Add("SELECT 2;")

	got := h.Entries()
	if len(got) != 2 || got[0] != "SELECT 1;" || got[1] != "SELECT 2;" {
		t.Fatalf("entries = %v", got)
	}
}

func TestHistoryCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history")
	h := LoadHistory(path)
	h.Add("SELECT 1;")
	if err := h.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("history file not written: %v", err)
	}
}

func TestRunRecordsHistory(t *testing.T) {
	s := newTestSession(t)
	path := filepath.Join(t.TempDir(), "history")
	in := strings.NewReader(strings.Join([]string{
		"CREATE TABLE t (a INT);",
		"INSERT INTO t (a)",
		"VALUES (7);",
		`\q`,
	}, "\n"))
	var out strings.Builder

	r := New(s, in, &out)
	r.UseHistory(LoadHistory(path))
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	got := LoadHistory(path).Entries()
	want := []string{"CREATE TABLE t (a INT);", "INSERT INTO t (a) VALUES (7);"}
	if len(got) != len(want) {
		t.Fatalf("history = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("history[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMetaHistory(t *testing.T) {
	s := newTestSession(t)
	in := strings.NewReader("CREATE TABLE t (a INT);\n\\history\n\\q\n")
	var out strings.Builder

	r := New(s, in, &out)
	r.UseHistory(LoadHistory(filepath.Join(t.TempDir(), "history")))
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !strings.Contains(out.String(), "CREATE TABLE t (a INT);") {
		t.Errorf("\\history output missing the recorded statement:\n%s", out.String())
	}
}
