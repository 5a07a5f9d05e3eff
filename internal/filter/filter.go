// Package filter selects the rows of a table whose value in one column
// equals a target value.
package filter

import (
	"errors"
	"fmt"
	"strings"

	"dataviz/internal/dataset"
)

// ErrUnknownColumn is returned when a Spec names a column the table lacks.
var ErrUnknownColumn = errors.New("unknown column")

// Spec names a column and the value to keep.
type Spec struct {
	Column string        `json:"column" validate:"required"`
	Value  dataset.Value `json:"value"`
}

// Apply returns the rows of table where the Spec column equals the Spec
// value. A value that never occurs yields an empty table with the same
// columns; that is not an error.
func Apply(table *dataset.Table, spec Spec) (*dataset.Table, error) {
	col, ok := table.Column(spec.Column)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, spec.Column)
	}

	target := coerce(col.Kind, spec.Value)
	rows := make([]int, 0)
	for i, v := range col.Values {
		if v.Equal(target) {
			rows = append(rows, i)
		}
	}
	return table.Take(rows), nil
}

// coerce converts the target to the column's native kind so that "10"
// matches 10 in a numeric column and 10 matches "10" in a categorical one.
// A string that is not a number stays text and therefore matches nothing in a
// numeric column.
func coerce(kind dataset.ColumnKind, v dataset.Value) dataset.Value {
	switch {
	case v.IsNull():
		return v
	case kind == dataset.Numeric && v.Kind() == dataset.KindText:
		if n, ok := dataset.ParseNumber(strings.TrimSpace(v.String())); ok {
			return dataset.Number(n)
		}
	case kind == dataset.Categorical && v.Kind() == dataset.KindNumber:
		return dataset.Text(v.String())
	}
	return v
}
