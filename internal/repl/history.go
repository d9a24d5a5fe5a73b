package repl

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// maxHistory bounds the history file so it does not grow without limit.
const maxHistory = 1000

// History keeps the statements executed across sessions, oldest first.
// It is loaded from and saved to a plain text file, one statement per
// line; multi-line statements are recorded in their joined single-line
// form.
type History struct {
	path    string
	entries []string
}

// LoadHistory reads the history file at path. A missing or unreadable
// file yields an empty history.
func LoadHistory(path string) *History {
	h := &History{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		return h
	}
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			h.entries = append(h.entries, line)
		}
	}
	if len(h.entries) > maxHistory {
		h.entries = h.entries[len(h.entries)-maxHistory:]
	}
	return h
}

// Add records one executed statement. Blank statements and immediate
// repeats are skipped.
func (h *History) Add(stmt string) {
	stmt = strings.TrimSpace(stmt)
	if stmt == "" {
		return
	}
	if n := len(h.entries); n > 0 && h.entries[n-1] == stmt {
		return
	}
	h.entries = append(h.entries, stmt)
	if len(h.entries) > maxHistory {
		h.entries = h.entries[len(h.entries)-maxHistory:]
	}
}

// Entries returns the recorded statements, oldest first.
func (h *History) Entries() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// Save writes the history back to its file, creating the directory on
// first use.
func (h *History) Save() error {
	if h.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(h.path), 0o700); err != nil {
		return fmt.Errorf("history dir: %w", err)
	}
	var b strings.Builder
	for _, e := range h.entries {
		b.WriteString(e)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(h.path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}
