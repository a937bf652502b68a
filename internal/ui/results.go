package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"

	"github.com/datalocus/locus/internal/table"
)

// maxColWidth caps a single pivot column so one long value cannot
// swallow the whole terminal.
const maxColWidth = 40

// RenderTable renders a pivot table for terminal display. The header row is
// muted, cells are truncated to fit the detected terminal width.
func RenderTable(display *DisplayContext, tbl *table.Table) string {
	cols := tbl.Columns()
	if len(cols) == 0 {
		return ""
	}

	widths := columnWidths(display, tbl)

	rows := make([][]string, 0, tbl.Len()+1)
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = TruncateWithEllipsis(c, widths[i])
	}
	rows = append(rows, header)

	for r := 0; r < tbl.Len(); r++ {
		row := tbl.Row(r)
		cells := make([]string, len(cols))
		for i, cell := range row {
			cells[i] = TruncateWithEllipsis(cell, widths[i])
		}
		rows = append(rows, cells)
	}

	out := lgtable.New().
		Border(lipgloss.Border{Middle: "─"}).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderRow(false).
		BorderColumn(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle()
			if row == 0 {
				style = Muted
			}
			if col < len(widths) {
				style = style.Width(widths[col])
			}
			if col < len(cols)-1 {
				style = style.PaddingRight(2)
			}
			return style
		}).
		Rows(rows...)

	return out.Render()
}

// columnWidths sizes each column to its widest cell, capped per column and
// shrunk proportionally when the total exceeds the terminal width.
func columnWidths(display *DisplayContext, tbl *table.Table) []int {
	cols := tbl.Columns()
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = len(c)
	}
	for r := 0; r < tbl.Len(); r++ {
		for i, cell := range tbl.Row(r) {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	const columnPadding = 2
	total := columnPadding * (len(cols) - 1)
	for i := range widths {
		if widths[i] > maxColWidth {
			widths[i] = maxColWidth
		}
		total += widths[i]
	}

	if total > display.TermWidth && total > 0 {
		scale := float64(display.TermWidth) / float64(total)
		for i := range widths {
			w := int(float64(widths[i]) * scale)
			if w < 4 {
				w = 4
			}
			widths[i] = w
		}
	}

	return widths
}

// TruncateWithEllipsis truncates a string to maxLen, adding ellipsis if needed.
func TruncateWithEllipsis(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	truncated := s[:maxLen-3]
	lastSpace := strings.LastIndex(truncated, " ")
	if lastSpace > maxLen/2 {
		truncated = truncated[:lastSpace]
	}
	return truncated + "..."
}
