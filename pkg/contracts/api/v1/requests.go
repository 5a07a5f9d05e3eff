// Package api contains the request and response contracts of the DataViz
// HTTP API. Version v1 is the current stable API version.
package api

// PlotRequest selects a plot type and its axes. Axis columns are checked by
// the plot validator rather than by tags, so an unset axis surfaces as the
// missing-axis advisory instead of a generic field error.
type PlotRequest struct {
	Type   string  `json:"type" validate:"required"`
	X      string  `json:"x"`
	Y      string  `json:"y,omitempty"`
	XLabel *string `json:"x_label,omitempty" validate:"omitempty,max=200"`
	YLabel *string `json:"y_label,omitempty" validate:"omitempty,max=200"`
	Title  *string `json:"title,omitempty" validate:"omitempty,max=200"`
	Width  int     `json:"width,omitempty" validate:"omitempty,min=200,max=4000"`
	Height int     `json:"height,omitempty" validate:"omitempty,min=200,max=4000"`
}

// FilterRequest keeps the rows whose column equals value. Rows bounds the
// returned preview; the export endpoint ignores it.
type FilterRequest struct {
	Column string      `json:"column" validate:"required"`
	Value  interface{} `json:"value"`
	Rows   int         `json:"rows,omitempty" validate:"omitempty,min=1,max=1000"`
}
