package ui

import (
	"strings"
)

// Columns renders aligned key/value style rows without borders, for short
// listings like `locus dataset list`.
type Columns struct {
	rows       [][]string
	colWidths  []int
	colPadding int
}

// NewColumns creates a renderer with the given number of columns.
func NewColumns(cols int) *Columns {
	return &Columns{
		colWidths:  make([]int, cols),
		colPadding: 2,
	}
}

// AddRow adds a row, tracking the widest cell per column.
func (c *Columns) AddRow(cells ...string) {
	row := make([]string, len(c.colWidths))
	for i := 0; i < len(c.colWidths) && i < len(cells); i++ {
		row[i] = cells[i]
		if len(cells[i]) > c.colWidths[i] {
			c.colWidths[i] = len(cells[i])
		}
	}
	c.rows = append(c.rows, row)
}

// String renders the rows with space-aligned columns.
func (c *Columns) String() string {
	if len(c.rows) == 0 {
		return ""
	}

	var sb strings.Builder
	padding := strings.Repeat(" ", c.colPadding)

	for _, row := range c.rows {
		for i, cell := range row {
			if i > 0 {
				sb.WriteString(padding)
			}
			if i < len(row)-1 {
				sb.WriteString(cell)
				sb.WriteString(strings.Repeat(" ", c.colWidths[i]-len(cell)))
			} else {
				sb.WriteString(cell)
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
