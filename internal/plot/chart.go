package plot

import (
	"bytes"
	"fmt"
	"io"
	"sync"
)

const (
	// MIMETypePNG is the content type of an encoded chart.
	MIMETypePNG = "image/png"
	// DefaultFilename is offered when a chart is downloaded.
	DefaultFilename = "plot.png"
)

// Format selects the export encoding.
type Format string

// FormatPNG is the only supported export format.
const FormatPNG Format = "png"

// Size is the pixel size of a rendering surface.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

var (
	defaultSize        = Size{Width: 800, Height: 600}
	defaultHeatmapSize = Size{Width: 800, Height: 800}
)

// Labels are the texts drawn around the plotted data.
type Labels struct {
	XLabel string `json:"x_label"`
	YLabel string `json:"y_label"`
	Title  string `json:"title"`
}

// Overrides replaces individual labels. A nil field keeps the default.
type Overrides struct {
	XLabel *string `json:"x_label,omitempty"`
	YLabel *string `json:"y_label,omitempty"`
	Title  *string `json:"title,omitempty"`
}

// Figure holds the aggregated data of one chart family, ready to draw.
type Figure interface {
	draw(w io.Writer, labels Labels, size Size) error
}

var surfaces = sync.Pool{
	New: func() interface{} { return new(bytes.Buffer) },
}

// Chart is the result of one render. It owns a drawing surface until Close
// is called. A Chart is not safe for concurrent use.
type Chart struct {
	spec     Spec
	figure   Figure
	size     Size
	defaults Labels
	labels   Labels
	surface  *bytes.Buffer
}

func newChart(spec Spec, fig Figure, size Size) *Chart {
	buf := surfaces.Get().(*bytes.Buffer)
	buf.Reset()
	c := &Chart{
		spec:     spec,
		figure:   fig,
		size:     size,
		defaults: DefaultLabels(spec),
		surface:  buf,
	}
	c.labels = c.defaults
	return c
}

// DefaultLabels returns the labels a chart carries before customization.
func DefaultLabels(spec Spec) Labels {
	l := Labels{XLabel: spec.XColumn()}
	if two, ok := spec.(TwoAxisSpec); ok {
		l.YLabel = two.YColumn()
		l.Title = fmt.Sprintf("%s of %s vs %s", spec.Type(), two.YColumn(), spec.XColumn())
		return l
	}
	l.Title = fmt.Sprintf("%s of %s", spec.Type(), spec.XColumn())
	return l
}

// Type returns the plot type the chart was rendered as.
func (c *Chart) Type() PlotType { return c.spec.Type() }

// Spec returns the validated configuration behind the chart.
func (c *Chart) Spec() Spec { return c.spec }

// Figure returns the aggregated data that will be drawn.
func (c *Chart) Figure() Figure { return c.figure }

// Labels returns the current labels.
func (c *Chart) Labels() Labels { return c.labels }

// Size returns the surface size.
func (c *Chart) Size() Size { return c.size }

// Customize applies overrides on top of the default labels. Fields left nil
// fall back to their defaults, so applying the same overrides repeatedly
// always yields the same labels. The plotted data is not touched.
func (c *Chart) Customize(o Overrides) *Chart {
	l := c.defaults
	if o.XLabel != nil {
		l.XLabel = *o.XLabel
	}
	if o.YLabel != nil {
		l.YLabel = *o.YLabel
	}
	if o.Title != nil {
		l.Title = *o.Title
	}
	c.labels = l
	return c
}

// Encode draws the chart in its current state and returns the image bytes.
func (c *Chart) Encode(format Format) ([]byte, error) {
	if c.Closed() {
		return nil, ErrChartClosed
	}
	if format != FormatPNG {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	c.surface.Reset()
	if err := c.figure.draw(c.surface, c.labels, c.size); err != nil {
		return nil, fmt.Errorf("draw %s: %w", c.spec.Type(), err)
	}
	out := make([]byte, c.surface.Len())
	copy(out, c.surface.Bytes())
	return out, nil
}

// Close releases the drawing surface. It is safe to call more than once.
func (c *Chart) Close() error {
	if c.Closed() {
		return nil
	}
	c.surface.Reset()
	surfaces.Put(c.surface)
	c.surface = nil
	return nil
}

// Closed reports whether the surface has been released.
func (c *Chart) Closed() bool { return c.surface == nil }
