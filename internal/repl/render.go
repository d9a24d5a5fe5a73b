package repl

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const maxColWidth = 40

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	borderStyle = lipgloss.NewStyle().Faint(true)
)

// Render formats an executed statement's result for the terminal: a
// column-aligned table for queries, a one-line summary for updates.
func Render(res *Result) string {
	if !res.IsQuery {
		return fmt.Sprintf("OK, %d row(s) affected (%s)\n", res.Affected, res.Duration.Round(time.Microsecond))
	}

	var b strings.Builder
	widths := columnWidths(res)

	// Header
	cells := make([]string, len(res.Columns))
	for i, col := range res.Columns {
		cells[i] = headerStyle.Render(pad(col, widths[i]))
	}
	b.WriteString(strings.Join(cells, "  "))
	b.WriteByte('\n')

	// Separator
	for i, w := range widths {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(borderStyle.Render(strings.Repeat("─", w)))
	}
	b.WriteByte('\n')

	// Rows
	for _, row := range res.Rows {
		for i, cell := range row {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(pad(cell, widths[i]))
		}
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "(%d row(s), %s)\n", res.RowCount, res.Duration.Round(time.Microsecond))
	return b.String()
}

// columnWidths measures every column by display width (not byte length),
// capped so one long cell cannot blow up the table.
func columnWidths(res *Result) []int {
	widths := make([]int, len(res.Columns))
	for i, col := range res.Columns {
		widths[i] = lipgloss.Width(col)
	}
	for _, row := range res.Rows {
		for i, cell := range row {
			if i >= len(widths) {
				continue
			}
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i, w := range widths {
		if w < 1 {
			widths[i] = 1
		}
		if w > maxColWidth {
			widths[i] = maxColWidth
		}
	}
	return widths
}

// pad right-pads or truncates a cell to the given display width.
func pad(s string, width int) string {
	if lipgloss.Width(s) > width {
		s = truncate(s, width)
	}
	return s + strings.Repeat(" ", width-lipgloss.Width(s))
}

func truncate(s string, width int) string {
	if width <= 1 {
		return "…"
	}
	runes := []rune(s)
	out := make([]rune, 0, width)
	w := 0
	for _, r := range runes {
		rw := lipgloss.Width(string(r))
		if w+rw > width-1 {
			break
		}
		out = append(out, r)
		w += rw
	}
	return string(out) + "…"
}
