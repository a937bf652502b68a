// Package table provides the denormalized table type returned by the
// catalog's pivot views.
package table

import "fmt"

// NoValue is the explicit marker stored in a cell when an entity has no
// value for a column. Alignment never fails on sparse annotations; the
// missing cell simply holds NoValue.
const NoValue = ""

// Table is a rectangular table with named columns. Rows always have exactly
// one cell per column.
type Table struct {
	columns []string
	colIdx  map[string]int
	rows    [][]string
}

// New creates a table with the given columns.
func New(columns ...string) *Table {
	t := &Table{colIdx: make(map[string]int, len(columns))}
	for _, c := range columns {
		t.AddColumn(c)
	}
	return t
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	return t.columns
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.colIdx[name]
	return ok
}

// AddColumn appends a column, backfilling existing rows with NoValue.
// Adding a column that already exists is a no-op.
func (t *Table) AddColumn(name string) {
	if _, ok := t.colIdx[name]; ok {
		return
	}
	t.colIdx[name] = len(t.columns)
	t.columns = append(t.columns, name)
	for i := range t.rows {
		t.rows[i] = append(t.rows[i], NoValue)
	}
}

// AppendRow adds a row and returns its index. Missing trailing cells are
// filled with NoValue; extra cells are dropped.
func (t *Table) AppendRow(cells ...string) int {
	row := make([]string, len(t.columns))
	for i := range row {
		if i < len(cells) {
			row[i] = cells[i]
		} else {
			row[i] = NoValue
		}
	}
	t.rows = append(t.rows, row)
	return len(t.rows) - 1
}

// Set writes a cell by row index and column name.
func (t *Table) Set(row int, column, value string) error {
	idx, ok := t.colIdx[column]
	if !ok {
		return fmt.Errorf("table: no column %q", column)
	}
	if row < 0 || row >= len(t.rows) {
		return fmt.Errorf("table: row %d out of range", row)
	}
	t.rows[row][idx] = value
	return nil
}

// Get reads a cell by row index and column name. The second return is false
// when the column does not exist or the cell holds NoValue.
func (t *Table) Get(row int, column string) (string, bool) {
	idx, ok := t.colIdx[column]
	if !ok || row < 0 || row >= len(t.rows) {
		return NoValue, false
	}
	v := t.rows[row][idx]
	return v, v != NoValue
}

// Row returns a copy of the row's cells in column order.
func (t *Table) Row(row int) []string {
	out := make([]string, len(t.columns))
	copy(out, t.rows[row])
	return out
}
