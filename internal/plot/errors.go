package plot

import (
	"errors"
	"fmt"
)

// MissingAxisAdvisory is the message shown to users for ErrMissingAxis.
const MissingAxisAdvisory = "Please select valid columns for both X and Y axes."

var (
	// ErrMissingAxis means a required axis was not selected. It is an
	// advisory for the user; nothing was rendered.
	ErrMissingAxis = errors.New("missing axis selection")
	// ErrUnknownPlotType is returned for a plot type literal outside the menu.
	ErrUnknownPlotType = errors.New("unknown plot type")
	// ErrChartClosed is returned when a released chart is used again.
	ErrChartClosed = errors.New("chart is closed")
	// ErrUnsupportedFormat is returned for export formats other than PNG.
	ErrUnsupportedFormat = errors.New("unsupported export format")
)

// Reason classifies a RenderError.
type Reason string

const (
	UnknownColumn    Reason = "UnknownColumn"
	NoNumericColumns Reason = "NoNumericColumns"
	NonNumericColumn Reason = "NonNumericColumn"
	EmptyData        Reason = "EmptyData"
	TooManyColumns   Reason = "TooManyColumns"
)

// RenderError reports why a validated configuration could not be drawn
// against a particular table.
type RenderError struct {
	Reason Reason
	Column string
	Err    error
}

func (e *RenderError) Error() string {
	msg := "render failed: " + string(e.Reason)
	if e.Column != "" {
		msg += fmt.Sprintf(" (column %q)", e.Column)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RenderError) Unwrap() error { return e.Err }

// HasReason reports whether err is a RenderError with the given reason.
func HasReason(err error, reason Reason) bool {
	var re *RenderError
	return errors.As(err, &re) && re.Reason == reason
}

func tooManyColumns(n int, size Size) *RenderError {
	return &RenderError{
		Reason: TooManyColumns,
		Err:    fmt.Errorf("heatmap of %d columns does not fit %dx%d", n, size.Width, size.Height),
	}
}

func renderErr(reason Reason, column string) *RenderError {
	return &RenderError{Reason: reason, Column: column}
}
