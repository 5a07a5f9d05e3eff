package exporter

import (
	"dataviz/internal/dataset"
)

// formatCell renders one table cell for CSV output.
func formatCell(v dataset.Value) string {
	if v.IsNull() {
		return ""
	}
	if f, ok := v.Float(); ok {
		return dataset.FormatNumber(f)
	}
	return v.String()
}

// formatRow renders row i of table.
func formatRow(table *dataset.Table, i int) []string {
	row := table.Row(i)
	out := make([]string, len(row))
	for j, v := range row {
		out[j] = formatCell(v)
	}
	return out
}
