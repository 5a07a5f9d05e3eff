package plot

import (
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var chartPadding = chart.Style{
	Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
}

// LineFigure plots the mean of y at each distinct x.
type LineFigure struct {
	X  Axis      `json:"x"`
	Y  Axis      `json:"y"`
	Xs []float64 `json:"xs"`
	Ys []float64 `json:"ys"`
}

func (f *LineFigure) draw(w io.Writer, l Labels, size Size) error {
	ch := xyChart(l, size, f.X.ticks(f.Xs), f.Y.ticks(f.Ys))
	ch.Series = []chart.Series{chart.ContinuousSeries{
		Name:    f.Y.Column,
		XValues: f.Xs,
		YValues: f.Ys,
		Style:   lineStyle(seriesColor(0)),
	}}
	return ch.Render(chart.PNG, w)
}

// ScatterFigure plots raw (x,y) pairs.
type ScatterFigure struct {
	X  Axis      `json:"x"`
	Y  Axis      `json:"y"`
	Xs []float64 `json:"xs"`
	Ys []float64 `json:"ys"`
}

func (f *ScatterFigure) draw(w io.Writer, l Labels, size Size) error {
	ch := xyChart(l, size, f.X.ticks(f.Xs), f.Y.ticks(f.Ys))
	ch.Series = []chart.Series{chart.ContinuousSeries{
		Name:    f.Y.Column,
		XValues: f.Xs,
		YValues: f.Ys,
		Style:   pointStyle(seriesColor(0)),
	}}
	return ch.Render(chart.PNG, w)
}

// BarItem is one labelled bar.
type BarItem struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// BarFigure draws one bar per category. It backs both the bar chart (mean
// of y per x) and the count plot (rows per x).
type BarFigure struct {
	Bars []BarItem `json:"bars"`
}

func (f *BarFigure) draw(w io.Writer, l Labels, size Size) error {
	values := make([]float64, len(f.Bars))
	bars := make([]chart.Value, len(f.Bars))
	for i, b := range f.Bars {
		values[i] = b.Value
		bars[i] = chart.Value{
			Label: b.Label,
			Value: b.Value,
			Style: chart.Style{
				FillColor:   seriesColor(i),
				StrokeColor: seriesColor(i),
				StrokeWidth: 1,
			},
		}
	}
	ticks := zeroBasedTicks(values)
	lo, hi := ticks[0].Value, ticks[len(ticks)-1].Value

	bc := chart.BarChart{
		Title:        l.Title,
		Width:        size.Width,
		Height:       size.Height,
		Background:   chart.Style{Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 40}},
		BarWidth:     barWidth(size.Width, len(bars)),
		XAxis:        chart.Shown(),
		YAxis:        chart.YAxis{Name: l.YLabel, Ticks: ticks, Range: &chart.ContinuousRange{Min: lo, Max: hi}},
		Bars:         bars,
		UseBaseValue: true,
		BaseValue:    0,
		Elements:     []chart.Renderable{xLabelElement(l.XLabel, size)},
	}
	return bc.Render(chart.PNG, w)
}

func barWidth(width, n int) int {
	if n == 0 {
		return chart.DefaultBarWidth
	}
	bw := (width - 120) / n * 2 / 3
	switch {
	case bw < 4:
		return 4
	case bw > 80:
		return 80
	default:
		return bw
	}
}

// BoxGroup is the five-number summary of y for one x category.
type BoxGroup struct {
	Label    string    `json:"label"`
	Q1       float64   `json:"q1"`
	Median   float64   `json:"median"`
	Q3       float64   `json:"q3"`
	Low      float64   `json:"whisker_low"`
	High     float64   `json:"whisker_high"`
	Outliers []float64 `json:"outliers,omitempty"`
}

// BoxFigure draws one box per x category.
type BoxFigure struct {
	X      Axis       `json:"x"`
	Y      Axis       `json:"y"`
	Groups []BoxGroup `json:"groups"`
}

func (f *BoxFigure) draw(w io.Writer, l Labels, size Size) error {
	labels := make([]string, len(f.Groups))
	var extent []float64
	for i, g := range f.Groups {
		labels[i] = g.Label
		extent = append(extent, g.Low, g.High)
		extent = append(extent, g.Outliers...)
	}
	ch := xyChart(l, size, categoryTicks(labels), valueTicks(extent))
	ch.Series = []chart.Series{boxSeries{groups: f.Groups}}
	return ch.Render(chart.PNG, w)
}

// boxSeries draws box-and-whisker glyphs at category positions.
type boxSeries struct {
	groups []BoxGroup
}

func (boxSeries) GetName() string           { return "box" }
func (boxSeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }
func (boxSeries) GetStyle() chart.Style     { return chart.Style{} }
func (boxSeries) Validate() error           { return nil }

func (bs boxSeries) Render(r chart.Renderer, canvas chart.Box, xr, yr chart.Range, _ chart.Style) {
	half := xr.GetDomain() / (len(bs.groups) + 1) / 3
	if half < 3 {
		half = 3
	}
	y := func(v float64) int { return canvas.Bottom - yr.Translate(v) }

	for i, g := range bs.groups {
		col := seriesColor(i)
		cx := canvas.Left + xr.Translate(float64(i))
		line := chart.Style{StrokeColor: drawing.ColorBlack, StrokeWidth: 1.5}

		drawLine(r, cx, y(g.High), cx, y(g.Q3), line)
		drawLine(r, cx, y(g.Q1), cx, y(g.Low), line)
		drawLine(r, cx-half/2, y(g.High), cx+half/2, y(g.High), line)
		drawLine(r, cx-half/2, y(g.Low), cx+half/2, y(g.Low), line)

		chart.Draw.Box(r, chart.Box{Left: cx - half, Right: cx + half, Top: y(g.Q3), Bottom: y(g.Q1)}, chart.Style{
			FillColor:   col.WithAlpha(200),
			StrokeColor: drawing.ColorBlack,
			StrokeWidth: 1.5,
		})
		drawLine(r, cx-half, y(g.Median), cx+half, y(g.Median), chart.Style{StrokeColor: drawing.ColorBlack, StrokeWidth: 2})

		for _, o := range g.Outliers {
			r.SetFillColor(drawing.ColorWhite)
			r.SetStrokeColor(drawing.ColorBlack)
			r.SetStrokeWidth(1)
			r.Circle(3, cx, y(o))
			r.FillStroke()
		}
	}
}

func drawLine(r chart.Renderer, x0, y0, x1, y1 int, s chart.Style) {
	s.GetStrokeOptions().WriteDrawingOptionsToRenderer(r)
	defer r.ResetStyle()
	r.MoveTo(x0, y0)
	r.LineTo(x1, y1)
	r.Stroke()
}

// HistogramFigure is a binned count of x with a density estimate scaled to
// counts. DensityX and DensityY are empty when x has no spread.
type HistogramFigure struct {
	Edges    []float64 `json:"edges"`
	Counts   []int     `json:"counts"`
	DensityX []float64 `json:"density_x,omitempty"`
	DensityY []float64 `json:"density_y,omitempty"`
}

func (f *HistogramFigure) draw(w io.Writer, l Labels, size Size) error {
	counts := make([]float64, len(f.Counts))
	for i, c := range f.Counts {
		counts[i] = float64(c)
	}
	ys := append(append([]float64{}, counts...), f.DensityY...)
	ch := xyChart(l, size, valueTicks(f.Edges), zeroBasedTicks(ys))
	ch.Series = []chart.Series{binSeries{edges: f.Edges, counts: counts}}
	if len(f.DensityX) > 0 {
		ch.Series = append(ch.Series, chart.ContinuousSeries{
			Name:    "density",
			XValues: f.DensityX,
			YValues: f.DensityY,
			Style:   chart.Style{StrokeColor: seriesColor(1), StrokeWidth: 2},
		})
	}
	return ch.Render(chart.PNG, w)
}

// binSeries fills one rectangle per histogram bin, edge to edge.
type binSeries struct {
	edges  []float64
	counts []float64
}

func (binSeries) GetName() string           { return "histogram" }
func (binSeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }
func (binSeries) GetStyle() chart.Style     { return chart.Style{} }

func (bs binSeries) Validate() error {
	if len(bs.edges) != len(bs.counts)+1 {
		return fmt.Errorf("histogram has %d edges for %d bins", len(bs.edges), len(bs.counts))
	}
	return nil
}

func (bs binSeries) Render(r chart.Renderer, canvas chart.Box, xr, yr chart.Range, _ chart.Style) {
	col := seriesColor(0)
	for i, c := range bs.counts {
		chart.Draw.Box(r, chart.Box{
			Left:   canvas.Left + xr.Translate(bs.edges[i]),
			Right:  canvas.Left + xr.Translate(bs.edges[i+1]),
			Top:    canvas.Bottom - yr.Translate(c),
			Bottom: canvas.Bottom - yr.Translate(0),
		}, chart.Style{FillColor: col.WithAlpha(160), StrokeColor: drawing.ColorWhite, StrokeWidth: 1})
	}
}

// Slice is one pie wedge.
type Slice struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Text is the percentage label drawn on the wedge, rounded to one decimal.
func (s Slice) Text() string { return fmt.Sprintf("%.1f%%", s.Percent) }

// PieFigure holds the value proportions of x, largest first.
type PieFigure struct {
	Slices []Slice `json:"slices"`
}

func (f *PieFigure) draw(w io.Writer, l Labels, size Size) error {
	values := make([]chart.Value, len(f.Slices))
	for i, s := range f.Slices {
		values[i] = chart.Value{
			Label: s.Label + " " + s.Text(),
			Value: float64(s.Count),
			Style: chart.Style{FillColor: seriesColor(i), StrokeColor: drawing.ColorWhite, StrokeWidth: 2},
		}
	}
	pc := chart.PieChart{
		Title:      l.Title,
		Width:      size.Width,
		Height:     size.Height,
		Background: chart.Style{Padding: chart.Box{Top: 60, Left: 40, Right: 40, Bottom: 40}},
		Values:     values,
		Elements:   []chart.Renderable{xLabelElement(l.XLabel, size)},
	}
	return pc.Render(chart.PNG, w)
}

func xyChart(l Labels, size Size, xticks, yticks []chart.Tick) chart.Chart {
	return chart.Chart{
		Title:      l.Title,
		Width:      size.Width,
		Height:     size.Height,
		Background: chartPadding,
		XAxis:      chart.XAxis{Name: l.XLabel, Ticks: xticks},
		YAxis:      chart.YAxis{Name: l.YLabel, Ticks: yticks},
	}
}

// xLabelElement centers the x label along the bottom edge for chart kinds
// that do not draw an axis name themselves.
func xLabelElement(label string, size Size) chart.Renderable {
	return func(r chart.Renderer, _ chart.Box, defaults chart.Style) {
		if label == "" {
			return
		}
		style := chart.Style{
			Font:      defaults.Font,
			FontSize:  chart.DefaultAxisFontSize,
			FontColor: drawing.ColorBlack,
		}
		tb := chart.Draw.MeasureText(r, label, style)
		chart.Draw.Text(r, label, (size.Width-tb.Width())/2, size.Height-12, style)
	}
}
