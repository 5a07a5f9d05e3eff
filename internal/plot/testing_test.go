package plot

import (
	"math"

	"dataviz/internal/dataset"
)

func num(fs ...float64) []dataset.Value {
	out := make([]dataset.Value, len(fs))
	for i, f := range fs {
		out[i] = dataset.Number(f)
	}
	return out
}

func text(ss ...string) []dataset.Value {
	out := make([]dataset.Value, len(ss))
	for i, s := range ss {
		if s == "" {
			out[i] = dataset.Null()
			continue
		}
		out[i] = dataset.Text(s)
	}
	return out
}

// staffTable has two numeric and two categorical columns. The last row has
// a missing age.
func staffTable() *dataset.Table {
	return dataset.MustNew(
		&dataset.Column{Name: "Age", Kind: dataset.Numeric, Values: num(30, 25, 30, 40, 25, math.NaN())},
		&dataset.Column{Name: "Salary", Kind: dataset.Numeric, Values: num(50, 40, 70, 90, 44, 10)},
		&dataset.Column{Name: "Dept", Kind: dataset.Categorical, Values: text("Eng", "Ops", "Eng", "HR", "Ops", "Eng")},
		&dataset.Column{Name: "Status", Kind: dataset.Categorical, Values: text("A", "A", "B", "", "A", "B")},
	)
}

func textOnlyTable() *dataset.Table {
	return dataset.MustNew(
		&dataset.Column{Name: "Name", Kind: dataset.Categorical, Values: text("ann", "bob")},
		&dataset.Column{Name: "City", Kind: dataset.Categorical, Values: text("NYC", "LA")},
	)
}
