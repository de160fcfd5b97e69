// Package dataset loads tabular files into immutable in-memory tables and
// profiles them: raw and logical column types, missing counts, summary
// statistics. Tables never change after load; filtering and aggregation
// elsewhere work on row-index views.
package dataset

import (
	"fmt"
	"time"
)

// Kind is the raw storage type of a column, as inferred from cell contents.
type Kind string

const (
	KindNumber Kind = "float64"
	KindBool   Kind = "bool"
	KindString Kind = "object"
	KindTime   Kind = "datetime64"
)

// LogicalType is the semantic classification of a column, distinct from its
// raw storage type.
type LogicalType string

const (
	LogicalNumeric     LogicalType = "numeric"
	LogicalCategorical LogicalType = "categorical"
	LogicalText        LogicalType = "text"
	LogicalDatetime    LogicalType = "datetime"
)

type cell struct {
	missing bool
	raw     string
	num     float64
	boolean bool
	ts      time.Time
}

// Column is a named, typed column of cells. Cells keep the original raw text
// alongside the typed value so previews can show what was uploaded.
type Column struct {
	Name  string
	Kind  Kind
	cells []cell
}

// Len returns the number of cells in the column.
func (c *Column) Len() int { return len(c.cells) }

// IsMissing reports whether the cell at row i holds no value.
func (c *Column) IsMissing(i int) bool { return c.cells[i].missing }

// Raw returns the original uploaded text of the cell at row i.
func (c *Column) Raw(i int) string { return c.cells[i].raw }

// Number returns the numeric value at row i. The second return is false for
// missing cells and for columns that are not numeric.
func (c *Column) Number(i int) (float64, bool) {
	cl := c.cells[i]
	if cl.missing || c.Kind != KindNumber {
		return 0, false
	}
	return cl.num, true
}

// Float returns the cell at row i coerced to a float where that makes sense:
// numbers as-is, booleans as 0/1. Used by aggregation and statistics.
func (c *Column) Float(i int) (float64, bool) {
	cl := c.cells[i]
	if cl.missing {
		return 0, false
	}
	switch c.Kind {
	case KindNumber:
		return cl.num, true
	case KindBool:
		if cl.boolean {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// Time returns the timestamp at row i for datetime columns.
func (c *Column) Time(i int) (time.Time, bool) {
	cl := c.cells[i]
	if cl.missing || c.Kind != KindTime {
		return time.Time{}, false
	}
	return cl.ts, true
}

// Value returns the cell at row i as a JSON-friendly value: float64, bool,
// time.Time or string, and nil for missing cells.
func (c *Column) Value(i int) any {
	cl := c.cells[i]
	if cl.missing {
		return nil
	}
	switch c.Kind {
	case KindNumber:
		return cl.num
	case KindBool:
		return cl.boolean
	case KindTime:
		return cl.ts
	default:
		return cl.raw
	}
}

// distinct counts unique non-missing raw values.
func (c *Column) distinct() int {
	seen := make(map[string]struct{})
	for _, cl := range c.cells {
		if cl.missing {
			continue
		}
		seen[cl.raw] = struct{}{}
	}
	return len(seen)
}

// missingCount counts cells with no value.
func (c *Column) missingCount() int {
	n := 0
	for _, cl := range c.cells {
		if cl.missing {
			n++
		}
	}
	return n
}

// Table is an ordered collection of equally sized columns. Tables are
// immutable once built; concurrent readers need no synchronization.
type Table struct {
	cols  []*Column
	index map[string]int
}

// NewTable builds a table from columns, which must all have the same length.
func NewTable(cols []*Column) (*Table, error) {
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		if c.Len() != cols[0].Len() {
			return nil, fmt.Errorf("column %q has %d cells, expected %d", c.Name, c.Len(), cols[0].Len())
		}
		if _, dup := index[c.Name]; dup {
			return nil, fmt.Errorf("duplicate column %q", c.Name)
		}
		index[c.Name] = i
	}
	return &Table{cols: cols, index: index}, nil
}

// Rows returns the number of rows.
func (t *Table) Rows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return t.cols[0].Len()
}

// Cols returns the number of columns.
func (t *Table) Cols() int { return len(t.cols) }

// ColumnNames returns the column names in table order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// Column looks a column up by name.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.cols[i], true
}

// ColumnAt returns the column at position i.
func (t *Table) ColumnAt(i int) *Column { return t.cols[i] }

// Row returns row i as a name → value map.
func (t *Table) Row(i int) map[string]any {
	row := make(map[string]any, len(t.cols))
	for _, c := range t.cols {
		row[c.Name] = c.Value(i)
	}
	return row
}

// HeadRows returns up to n leading rows in upload order.
func (t *Table) HeadRows(n int) []map[string]any {
	if n > t.Rows() {
		n = t.Rows()
	}
	rows := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, t.Row(i))
	}
	return rows
}
