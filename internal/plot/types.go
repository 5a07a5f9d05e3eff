package plot

import "fmt"

// PlotType is the user-facing name of a chart family. The literals are part
// of the external interface and are case sensitive.
type PlotType string

const (
	Line         PlotType = "Line Plot"
	Bar          PlotType = "Bar Chart"
	Scatter      PlotType = "Scatter Plot"
	Distribution PlotType = "Distribution Plot"
	Count        PlotType = "Count Plot"
	Box          PlotType = "Box Plot"
	Heatmap      PlotType = "Heatmap"
	Pie          PlotType = "Pie Chart"
)

var allTypes = []PlotType{Line, Bar, Scatter, Distribution, Count, Box, Heatmap, Pie}

// Types returns every plot type in menu order.
func Types() []PlotType {
	out := make([]PlotType, len(allTypes))
	copy(out, allTypes)
	return out
}

// ParseType maps a literal onto a PlotType.
func ParseType(s string) (PlotType, error) {
	for _, t := range allTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPlotType, s)
}

// RequiresY reports whether the type plots x against a y column.
func (t PlotType) RequiresY() bool {
	switch t {
	case Line, Bar, Scatter, Box:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (t PlotType) String() string { return string(t) }
