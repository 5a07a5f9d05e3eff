package plot

import (
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// HeatmapFigure is a correlation matrix over the numeric columns. NaN marks
// a pair without variance.
type HeatmapFigure struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}

var (
	coolwarmLow  = drawing.Color{R: 59, G: 76, B: 192, A: 255}
	coolwarmMid  = drawing.Color{R: 221, G: 221, B: 221, A: 255}
	coolwarmHigh = drawing.Color{R: 180, G: 4, B: 38, A: 255}
)

// coolwarm maps r in [-1,1] onto a diverging blue-grey-red scale.
func coolwarm(r float64) drawing.Color {
	if math.IsNaN(r) {
		return drawing.ColorSilver
	}
	r = math.Max(-1, math.Min(1, r))
	if r < 0 {
		return blend(coolwarmMid, coolwarmLow, -r)
	}
	return blend(coolwarmMid, coolwarmHigh, r)
}

func blend(a, b drawing.Color, t float64) drawing.Color {
	mix := func(x, y uint8) uint8 { return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t)) }
	return drawing.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

// heatmapGrid returns the cell area of a size surface whose row labels
// need gutter pixels. The gutter never takes more than a quarter of the
// width, so the grid depends on the surface alone in the worst case.
func heatmapGrid(size Size, gutter int) chart.Box {
	if limit := size.Width / 4; gutter > limit {
		gutter = limit
	}
	return chart.Box{Top: 50, Left: gutter + 40, Right: size.Width - 90, Bottom: size.Height - 60}
}

// fits reports whether every cell gets at least one pixel on size, however
// wide the column names are.
func (f *HeatmapFigure) fits(size Size) bool {
	grid := heatmapGrid(size, size.Width)
	n := len(f.Columns)
	return grid.Right-grid.Left >= n && grid.Bottom-grid.Top >= n
}

// fitLabel shortens s until it measures at most width pixels.
func fitLabel(r chart.Renderer, s string, width int, style chart.Style) string {
	if chart.Draw.MeasureText(r, s, style).Width() <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		short := string(runes) + ".."
		if chart.Draw.MeasureText(r, short, style).Width() <= width {
			return short
		}
	}
	return ""
}

func (f *HeatmapFigure) draw(w io.Writer, l Labels, size Size) error {
	r, err := chart.PNG(size.Width, size.Height)
	if err != nil {
		return err
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return err
	}
	text := func(sz float64, col drawing.Color) chart.Style {
		return chart.Style{Font: font, FontSize: sz, FontColor: col}
	}

	chart.Draw.Box(r, chart.Box{Right: size.Width, Bottom: size.Height}, chart.Style{
		FillColor:   drawing.ColorWhite,
		StrokeColor: drawing.ColorWhite,
		StrokeWidth: 1,
	})

	titleStyle := text(chart.DefaultTitleFontSize, drawing.ColorBlack)
	tb := chart.Draw.MeasureText(r, l.Title, titleStyle)
	chart.Draw.Text(r, l.Title, (size.Width-tb.Width())/2, 30, titleStyle)

	tickStyle := text(chart.DefaultAxisFontSize, drawing.ColorBlack)
	labelWidth := 0
	for _, c := range f.Columns {
		if tw := chart.Draw.MeasureText(r, c, tickStyle).Width(); tw > labelWidth {
			labelWidth = tw
		}
	}

	n := len(f.Columns)
	grid := heatmapGrid(size, labelWidth)
	gutter := grid.Left - 40
	cw := grid.Width() / n
	chh := grid.Height() / n
	if cw < 1 || chh < 1 {
		return tooManyColumns(n, size)
	}

	annot := 12.0
	if cw < 50 || chh < 30 {
		annot = 8
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := f.Values[i][j]
			cell := chart.Box{
				Left:   grid.Left + j*cw,
				Top:    grid.Top + i*chh,
				Right:  grid.Left + (j+1)*cw,
				Bottom: grid.Top + (i+1)*chh,
			}
			chart.Draw.Box(r, cell, chart.Style{FillColor: coolwarm(v), StrokeColor: drawing.ColorWhite, StrokeWidth: 1})

			label := "nan"
			if !math.IsNaN(v) {
				label = fmt.Sprintf("%.2f", v)
			}
			fg := drawing.ColorBlack
			if math.Abs(v) > 0.6 {
				fg = drawing.ColorWhite
			}
			as := text(annot, fg)
			ab := chart.Draw.MeasureText(r, label, as)
			chart.Draw.Text(r, label, cell.Left+(cw-ab.Width())/2, cell.Top+(chh+ab.Height())/2, as)
		}
	}

	for i, c := range f.Columns {
		row := fitLabel(r, c, gutter, tickStyle)
		rb := chart.Draw.MeasureText(r, row, tickStyle)
		chart.Draw.Text(r, row, grid.Left-rb.Width()-6, grid.Top+i*chh+(chh+rb.Height())/2, tickStyle)
		cb := chart.Draw.MeasureText(r, c, tickStyle)
		chart.Draw.Text(r, c, grid.Left+i*cw+(cw-cb.Width())/2, grid.Bottom+cb.Height()+8, tickStyle)
	}

	drawColorbar(r, chart.Box{Top: grid.Top, Left: grid.Right + 20, Right: grid.Right + 40, Bottom: grid.Bottom}, tickStyle)

	labelStyle := text(chart.DefaultAxisFontSize+2, drawing.ColorBlack)
	if l.XLabel != "" {
		xb := chart.Draw.MeasureText(r, l.XLabel, labelStyle)
		chart.Draw.Text(r, l.XLabel, grid.Left+(grid.Width()-xb.Width())/2, size.Height-12, labelStyle)
	}
	if l.YLabel != "" {
		labelStyle.TextRotationDegrees = 270
		yb := chart.Draw.MeasureText(r, l.YLabel, chart.Style{Font: font, FontSize: labelStyle.FontSize})
		chart.Draw.Text(r, l.YLabel, 18, grid.Top+(grid.Height()+yb.Width())/2, labelStyle)
	}

	return r.Save(w)
}

// drawColorbar paints the [-1,1] scale from top (1) to bottom (-1).
func drawColorbar(r chart.Renderer, box chart.Box, tickStyle chart.Style) {
	h := box.Height()
	span := math.Max(float64(h-1), 1)
	for y := 0; y < h; y++ {
		v := 1 - 2*float64(y)/span
		col := coolwarm(v)
		chart.Draw.Box(r, chart.Box{Left: box.Left, Right: box.Right, Top: box.Top + y, Bottom: box.Top + y + 1}, chart.Style{
			FillColor:   col,
			StrokeColor: col,
			StrokeWidth: 0.5,
		})
	}
	for _, v := range []float64{1, 0.5, 0, -0.5, -1} {
		label := formatTick(v)
		tb := chart.Draw.MeasureText(r, label, tickStyle)
		y := box.Top + int(math.Round((1 - v) / 2 * span))
		chart.Draw.Text(r, label, box.Right+6, y+tb.Height()/2, tickStyle)
	}
}
