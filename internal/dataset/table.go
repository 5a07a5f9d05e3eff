package dataset

import (
	"fmt"
)

// ColumnKind is the inferred type of a column.
type ColumnKind string

const (
	// Numeric columns hold only numbers and missing cells.
	Numeric ColumnKind = "numeric"
	// Categorical columns hold text and missing cells.
	Categorical ColumnKind = "categorical"
)

// Column is a named sequence of values of one kind.
type Column struct {
	Name   string
	Kind   ColumnKind
	Values []Value
}

// Len returns the number of cells in the column.
func (c *Column) Len() int { return len(c.Values) }

// Floats returns the non-missing numeric cells in row order.
func (c *Column) Floats() []float64 {
	out := make([]float64, 0, len(c.Values))
	for _, v := range c.Values {
		if f, ok := v.Float(); ok {
			out = append(out, f)
		}
	}
	return out
}

// Table is an ordered, immutable collection of equal-length columns.
type Table struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// New builds a table, enforcing equal column lengths and unique names.
func New(columns ...*Column) (*Table, error) {
	t := &Table{
		columns: columns,
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		if c == nil {
			return nil, fmt.Errorf("%w: column %d is nil", ErrMalformedTable, i)
		}
		if _, dup := t.index[c.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrMalformedTable, c.Name)
		}
		if i == 0 {
			t.rows = c.Len()
		} else if c.Len() != t.rows {
			return nil, fmt.Errorf("%w: column %q has %d rows, want %d", ErrMalformedTable, c.Name, c.Len(), t.rows)
		}
		t.index[c.Name] = i
	}
	return t, nil
}

// MustNew is New for fixtures that are known to be well formed.
func MustNew(columns ...*Column) *Table {
	t, err := New(columns...)
	if err != nil {
		panic(err)
	}
	return t
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return t.rows }

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.columns) }

// Columns returns the columns in order. Callers must not modify them.
func (t *Table) Columns() []*Column { return t.columns }

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
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
	return t.columns[i], true
}

// NumericColumns returns the numeric columns in order.
func (t *Table) NumericColumns() []*Column {
	var out []*Column
	for _, c := range t.columns {
		if c.Kind == Numeric {
			out = append(out, c)
		}
	}
	return out
}

// Row returns the cells of row i in column order.
func (t *Table) Row(i int) []Value {
	row := make([]Value, len(t.columns))
	for j, c := range t.columns {
		row[j] = c.Values[i]
	}
	return row
}

// Take returns a new table holding the given rows in the given order. Column
// kinds carry over from t, so an empty selection keeps the same schema.
func (t *Table) Take(rows []int) *Table {
	cols := make([]*Column, len(t.columns))
	for j, c := range t.columns {
		vals := make([]Value, len(rows))
		for k, r := range rows {
			vals[k] = c.Values[r]
		}
		cols[j] = &Column{Name: c.Name, Kind: c.Kind, Values: vals}
	}
	return &Table{columns: cols, index: t.index, rows: len(rows)}
}

// Head returns the first n rows. A negative n or one larger than the table
// returns every row.
func (t *Table) Head(n int) *Table {
	if n < 0 || n > t.rows {
		n = t.rows
	}
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return t.Take(rows)
}
