package plot

import (
	"fmt"
	"strings"
)

// unsetColumn is the placeholder a selection widget reports when no column
// has been chosen.
const unsetColumn = "None"

// Config is an unvalidated axis selection as it arrives from a form, an API
// request or the command line.
type Config struct {
	Type PlotType `json:"plot_type" yaml:"plot_type"`
	X    string   `json:"x,omitempty" yaml:"x"`
	Y    string   `json:"y,omitempty" yaml:"y"`
}

// Spec is a validated plot configuration. Each plot type has its own
// variant carrying only the columns it uses, so single-axis variants cannot
// reference a y column at all.
type Spec interface {
	Type() PlotType
	XColumn() string
	spec()
}

// TwoAxisSpec is implemented by the variants that plot x against y.
type TwoAxisSpec interface {
	Spec
	YColumn() string
}

type (
	LineSpec    struct{ X, Y string }
	BarSpec     struct{ X, Y string }
	ScatterSpec struct{ X, Y string }
	BoxSpec     struct{ X, Y string }

	DistributionSpec struct{ X string }
	CountSpec        struct{ X string }
	PieSpec          struct{ X string }

	// HeatmapSpec keeps the selected x only for labelling. The heatmap is
	// always drawn over every numeric column of the table.
	HeatmapSpec struct{ X string }
)

func (LineSpec) Type() PlotType         { return Line }
func (BarSpec) Type() PlotType          { return Bar }
func (ScatterSpec) Type() PlotType      { return Scatter }
func (BoxSpec) Type() PlotType          { return Box }
func (DistributionSpec) Type() PlotType { return Distribution }
func (CountSpec) Type() PlotType        { return Count }
func (PieSpec) Type() PlotType          { return Pie }
func (HeatmapSpec) Type() PlotType      { return Heatmap }

func (s LineSpec) XColumn() string         { return s.X }
func (s BarSpec) XColumn() string          { return s.X }
func (s ScatterSpec) XColumn() string      { return s.X }
func (s BoxSpec) XColumn() string          { return s.X }
func (s DistributionSpec) XColumn() string { return s.X }
func (s CountSpec) XColumn() string        { return s.X }
func (s PieSpec) XColumn() string          { return s.X }
func (s HeatmapSpec) XColumn() string      { return s.X }

func (s LineSpec) YColumn() string    { return s.Y }
func (s BarSpec) YColumn() string     { return s.Y }
func (s ScatterSpec) YColumn() string { return s.Y }
func (s BoxSpec) YColumn() string     { return s.Y }

func (LineSpec) spec()         {}
func (BarSpec) spec()          {}
func (ScatterSpec) spec()      {}
func (BoxSpec) spec()          {}
func (DistributionSpec) spec() {}
func (CountSpec) spec()        {}
func (PieSpec) spec()          {}
func (HeatmapSpec) spec()      {}

// Validate turns a Config into the Spec variant for its plot type. It
// returns ErrMissingAxis when x is unset, or when y is unset for a type
// that needs it. The y selection is dropped for single-axis types.
func Validate(cfg Config) (Spec, error) {
	if _, err := ParseType(string(cfg.Type)); err != nil {
		return nil, err
	}

	x, y := normalizeColumn(cfg.X), normalizeColumn(cfg.Y)
	if x == "" {
		return nil, fmt.Errorf("%w: x column not selected", ErrMissingAxis)
	}
	if cfg.Type.RequiresY() && y == "" {
		return nil, fmt.Errorf("%w: %s requires a y column", ErrMissingAxis, cfg.Type)
	}

	switch cfg.Type {
	case Line:
		return LineSpec{X: x, Y: y}, nil
	case Bar:
		return BarSpec{X: x, Y: y}, nil
	case Scatter:
		return ScatterSpec{X: x, Y: y}, nil
	case Box:
		return BoxSpec{X: x, Y: y}, nil
	case Distribution:
		return DistributionSpec{X: x}, nil
	case Count:
		return CountSpec{X: x}, nil
	case Pie:
		return PieSpec{X: x}, nil
	default:
		return HeatmapSpec{X: x}, nil
	}
}

func normalizeColumn(name string) string {
	if strings.TrimSpace(name) == "" || name == unsetColumn {
		return ""
	}
	return name
}
