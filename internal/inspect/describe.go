// Package inspect answers read-only questions about a loaded table: its
// columns and their distinct values, a head preview, summary statistics,
// missing-value counts and the Pearson correlation matrix.
package inspect

import (
	"errors"
	"fmt"

	"dataviz/internal/dataset"
)

var (
	// ErrUnknownColumn is returned when a column name is not in the table.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrNoNumericColumns is returned by numeric-only queries on tables
	// without numeric columns.
	ErrNoNumericColumns = errors.New("no numeric columns")
)

// ColumnDescriptor describes one column of a table.
type ColumnDescriptor struct {
	Name     string             `json:"name"`
	Kind     dataset.ColumnKind `json:"kind"`
	Distinct []dataset.Value    `json:"distinct_values"`
}

// Describe returns a descriptor per column, in column order.
func Describe(table *dataset.Table) []ColumnDescriptor {
	out := make([]ColumnDescriptor, 0, table.NumCols())
	for _, col := range table.Columns() {
		out = append(out, ColumnDescriptor{
			Name:     col.Name,
			Kind:     col.Kind,
			Distinct: distinct(col),
		})
	}
	return out
}

// UniqueValues returns the distinct values of a column in first-seen order.
// A missing cell contributes a single null entry.
func UniqueValues(table *dataset.Table, column string) ([]dataset.Value, error) {
	col, ok := table.Column(column)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	return distinct(col), nil
}

func distinct(col *dataset.Column) []dataset.Value {
	type key struct {
		kind dataset.Kind
		text string
		num  float64
	}
	seen := make(map[key]struct{}, len(col.Values))
	out := make([]dataset.Value, 0)
	for _, v := range col.Values {
		k := key{kind: v.Kind()}
		switch v.Kind() {
		case dataset.KindNumber:
			k.num, _ = v.Float()
		case dataset.KindText:
			k.text = v.String()
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	return out
}

// TableView is a JSON-friendly slice of a table.
type TableView struct {
	Columns   []string          `json:"columns"`
	Rows      [][]dataset.Value `json:"rows"`
	TotalRows int               `json:"total_rows"`
}

// Preview returns the first n rows of table as a view. TotalRows counts the
// whole table.
func Preview(table *dataset.Table, n int) TableView {
	head := table.Head(n)
	rows := make([][]dataset.Value, head.NumRows())
	for i := range rows {
		rows[i] = head.Row(i)
	}
	return TableView{
		Columns:   table.ColumnNames(),
		Rows:      rows,
		TotalRows: table.NumRows(),
	}
}
