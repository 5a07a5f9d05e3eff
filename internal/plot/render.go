package plot

import (
	"errors"
	"math"
	"sort"

	"github.com/aclements/go-moremath/stats"
	"github.com/aclements/go-moremath/vec"

	"dataviz/internal/dataset"
	"dataviz/internal/inspect"
)

const (
	minSurface    = 200
	maxSurface    = 4000
	densityPoints = 200
)

// Option adjusts a render.
type Option func(*renderOptions)

type renderOptions struct {
	size *Size
}

// WithSize sets the surface size in pixels. Values are clamped to a sane
// range; zero keeps the default for the plot type.
func WithSize(width, height int) Option {
	return func(o *renderOptions) {
		if width <= 0 || height <= 0 {
			return
		}
		o.size = &Size{Width: clamp(width), Height: clamp(height)}
	}
}

func clamp(v int) int {
	switch {
	case v < minSurface:
		return minSurface
	case v > maxSurface:
		return maxSurface
	default:
		return v
	}
}

// Render aggregates the table for spec and returns a chart owning a fresh
// surface. The caller must Close the chart after encoding. On failure no
// chart is returned.
func Render(table *dataset.Table, spec Spec, opts ...Option) (*Chart, error) {
	var o renderOptions
	for _, opt := range opts {
		opt(&o)
	}

	fig, err := buildFigure(table, spec)
	if err != nil {
		return nil, err
	}

	size := defaultSize
	if spec.Type() == Heatmap {
		size = defaultHeatmapSize
	}
	if o.size != nil {
		size = *o.size
	}
	if hf, ok := fig.(*HeatmapFigure); ok && !hf.fits(size) {
		return nil, tooManyColumns(len(hf.Columns), size)
	}
	return newChart(spec, fig, size), nil
}

func buildFigure(table *dataset.Table, spec Spec) (Figure, error) {
	x, ok := table.Column(spec.XColumn())
	if !ok {
		return nil, renderErr(UnknownColumn, spec.XColumn())
	}
	var y *dataset.Column
	if two, isTwo := spec.(TwoAxisSpec); isTwo {
		if y, ok = table.Column(two.YColumn()); !ok {
			return nil, renderErr(UnknownColumn, two.YColumn())
		}
	}

	switch spec.(type) {
	case LineSpec:
		return lineFigure(x, y)
	case BarSpec:
		return barFigure(x, y)
	case ScatterSpec:
		return scatterFigure(x, y)
	case BoxSpec:
		return boxFigure(x, y)
	case DistributionSpec:
		return histogramFigure(x)
	case CountSpec:
		return countFigure(x)
	case PieSpec:
		return pieFigure(x)
	case HeatmapSpec:
		return heatmapFigure(table)
	default:
		return nil, ErrUnknownPlotType
	}
}

func requireNumeric(col *dataset.Column) error {
	if col.Kind != dataset.Numeric {
		return renderErr(NonNumericColumn, col.Name)
	}
	return nil
}

type group struct {
	label string
	x     float64
	ys    []float64
}

// groupY collects the numeric y values of each x category, skipping rows
// where either side is missing. Categories without values are dropped. For
// a numeric x, group.x is the category's value.
func groupY(x, y *dataset.Column) []group {
	cats := categoriesOf(x)
	groups := make([]group, len(cats.labels))
	for i, l := range cats.labels {
		groups[i] = group{label: l, x: math.NaN()}
		if cats.values != nil {
			groups[i].x = cats.values[i]
		}
	}
	for i, xv := range x.Values {
		pos, ok := cats.position(xv)
		if !ok {
			continue
		}
		if f, ok := y.Values[i].Float(); ok {
			groups[pos].ys = append(groups[pos].ys, f)
		}
	}
	kept := groups[:0]
	for _, g := range groups {
		if len(g.ys) > 0 {
			kept = append(kept, g)
		}
	}
	return kept
}

func mean(xs []float64) float64 {
	return stats.Sample{Xs: xs}.Mean()
}

func lineFigure(x, y *dataset.Column) (Figure, error) {
	if err := requireNumeric(y); err != nil {
		return nil, err
	}
	groups := groupY(x, y)
	if len(groups) == 0 {
		return nil, renderErr(EmptyData, y.Name)
	}

	f := &LineFigure{X: Axis{Column: x.Name}, Y: Axis{Column: y.Name}}
	for i, g := range groups {
		xv := g.x
		if x.Kind != dataset.Numeric {
			xv = float64(i)
			f.X.Categories = append(f.X.Categories, g.label)
		}
		f.Xs = append(f.Xs, xv)
		f.Ys = append(f.Ys, mean(g.ys))
	}
	return f, nil
}

func barFigure(x, y *dataset.Column) (Figure, error) {
	if err := requireNumeric(y); err != nil {
		return nil, err
	}
	groups := groupY(x, y)
	if len(groups) == 0 {
		return nil, renderErr(EmptyData, y.Name)
	}
	f := &BarFigure{Bars: make([]BarItem, len(groups))}
	for i, g := range groups {
		f.Bars[i] = BarItem{Label: g.label, Value: mean(g.ys)}
	}
	return f, nil
}

func scatterFigure(x, y *dataset.Column) (Figure, error) {
	xa, ya := Axis{Column: x.Name}, Axis{Column: y.Name}
	xpos := axisMapper(x, &xa)
	ypos := axisMapper(y, &ya)

	f := &ScatterFigure{X: xa, Y: ya}
	for i := range x.Values {
		xv, okx := xpos(x.Values[i])
		yv, oky := ypos(y.Values[i])
		if okx && oky {
			f.Xs = append(f.Xs, xv)
			f.Ys = append(f.Ys, yv)
		}
	}
	if len(f.Xs) == 0 {
		return nil, renderErr(EmptyData, x.Name)
	}
	return f, nil
}

// axisMapper returns the plotting coordinate of a cell. Categorical
// columns map onto category positions and record their labels on axis.
func axisMapper(col *dataset.Column, axis *Axis) func(dataset.Value) (float64, bool) {
	if col.Kind == dataset.Numeric {
		return dataset.Value.Float
	}
	cats := categoriesOf(col)
	axis.Categories = cats.labels
	return func(v dataset.Value) (float64, bool) {
		p, ok := cats.position(v)
		return float64(p), ok
	}
}

func boxFigure(x, y *dataset.Column) (Figure, error) {
	if err := requireNumeric(y); err != nil {
		return nil, err
	}
	groups := groupY(x, y)
	if len(groups) == 0 {
		return nil, renderErr(EmptyData, y.Name)
	}
	f := &BoxFigure{X: Axis{Column: x.Name, Categories: []string{}}, Y: Axis{Column: y.Name}}
	for _, g := range groups {
		f.X.Categories = append(f.X.Categories, g.label)
		f.Groups = append(f.Groups, summarizeBox(g.label, g.ys))
	}
	return f, nil
}

// summarizeBox computes quartiles by linear interpolation and whiskers at
// the most extreme values within 1.5 IQR of the box.
func summarizeBox(label string, ys []float64) BoxGroup {
	sort.Float64s(ys)
	g := BoxGroup{
		Label:  label,
		Q1:     inspect.Quantile(ys, 0.25),
		Median: inspect.Quantile(ys, 0.5),
		Q3:     inspect.Quantile(ys, 0.75),
	}
	iqr := g.Q3 - g.Q1
	lo, hi := g.Q1-1.5*iqr, g.Q3+1.5*iqr
	g.Low, g.High = g.Q1, g.Q3
	for _, v := range ys {
		if v < lo || v > hi {
			g.Outliers = append(g.Outliers, v)
			continue
		}
		g.Low = math.Min(g.Low, v)
		g.High = math.Max(g.High, v)
	}
	return g
}

// sturges returns the Sturges bin count for n observations.
func sturges(n int) int {
	if n < 2 {
		return 1
	}
	return int(math.Ceil(math.Log2(float64(n)))) + 1
}

func histogramFigure(x *dataset.Column) (Figure, error) {
	if err := requireNumeric(x); err != nil {
		return nil, err
	}
	sample := stats.Sample{Xs: x.Floats()}
	if len(sample.Xs) == 0 {
		return nil, renderErr(EmptyData, x.Name)
	}
	sample.Sort()
	lo, hi := sample.Bounds()
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	bins := sturges(len(sample.Xs))
	hist := stats.NewLinearHist(lo, hi, bins)
	for _, v := range sample.Xs {
		hist.Add(v)
	}
	_, counts, over := hist.Counts()

	f := &HistogramFigure{Edges: vec.Linspace(lo, hi, bins+1), Counts: make([]int, bins)}
	for i, c := range counts {
		f.Counts[i] = int(c)
	}
	// The maximum lands exactly on the upper edge, which LinearHist treats
	// as overflow.
	f.Counts[bins-1] += int(over)

	if sd := sample.StdDev(); sd > 0 {
		bw := stats.BandwidthScott(sample)
		if bw <= 0 {
			bw = stats.BandwidthSilverman(sample)
		}
		kde := &stats.KDE{Sample: sample, Kernel: stats.GaussianKernel, Bandwidth: bw}
		binWidth := (hi - lo) / float64(bins)
		scale := float64(len(sample.Xs)) * binWidth
		f.DensityX = vec.Linspace(lo, hi, densityPoints)
		f.DensityY = vec.Map(func(v float64) float64 { return kde.PDF(v) * scale }, f.DensityX)
	}
	return f, nil
}

// valueCounts tallies the non-missing values of col in category order.
func valueCounts(col *dataset.Column) ([]string, []int) {
	cats := categoriesOf(col)
	counts := make([]int, len(cats.labels))
	for _, v := range col.Values {
		if p, ok := cats.position(v); ok {
			counts[p]++
		}
	}
	return cats.labels, counts
}

func countFigure(x *dataset.Column) (Figure, error) {
	labels, counts := valueCounts(x)
	if len(labels) == 0 {
		return nil, renderErr(EmptyData, x.Name)
	}
	f := &BarFigure{Bars: make([]BarItem, len(labels))}
	for i := range labels {
		f.Bars[i] = BarItem{Label: labels[i], Value: float64(counts[i])}
	}
	return f, nil
}

// pieFigure counts x values, largest first with ties in
// order of first appearance.
func pieFigure(x *dataset.Column) (Figure, error) {
	order := []string{}
	counts := map[string]int{}
	total := 0
	for _, v := range x.Values {
		if v.IsNull() {
			continue
		}
		k := v.String()
		if _, ok := counts[k]; !ok {
			order = append(order, k)
		}
		counts[k]++
		total++
	}
	if total == 0 {
		return nil, renderErr(EmptyData, x.Name)
	}

	f := &PieFigure{Slices: make([]Slice, len(order))}
	for i, k := range order {
		f.Slices[i] = Slice{Label: k, Count: counts[k], Percent: float64(counts[k]) / float64(total) * 100}
	}
	sort.SliceStable(f.Slices, func(i, j int) bool { return f.Slices[i].Count > f.Slices[j].Count })
	return f, nil
}

func heatmapFigure(table *dataset.Table) (Figure, error) {
	m, err := inspect.Correlation(table)
	if errors.Is(err, inspect.ErrNoNumericColumns) {
		return nil, &RenderError{Reason: NoNumericColumns, Err: err}
	}
	if err != nil {
		return nil, err
	}
	f := &HeatmapFigure{Columns: m.Columns, Values: make([][]float64, len(m.Columns))}
	for i := range m.Columns {
		f.Values[i] = make([]float64, len(m.Columns))
		for j := range m.Columns {
			f.Values[i][j] = m.At(i, j)
		}
	}
	return f, nil
}
