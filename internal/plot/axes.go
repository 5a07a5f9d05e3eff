package plot

import (
	"fmt"
	"math"
	"sort"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"dataviz/internal/dataset"
)

const desiredTicks = 6

// niceAxisBounds expands [min,max] by a small margin and rounds to nice numbers.
func niceAxisBounds(min, max float64) (float64, float64) {
	if math.IsNaN(min) || math.IsNaN(max) {
		return min, max
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	pad := span * 0.05
	a := min - pad
	b := max + pad
	mag := math.Pow(10, math.Floor(math.Log10(span)))
	if !math.IsInf(mag, 0) && mag > 0 {
		a = math.Floor(a/mag) * mag
		b = math.Ceil(b/mag) * mag
	}
	return a, b
}

// niceTicks generates about n ticks covering [min,max] in steps of 1, 2,
// 2.5 or 5 times a power of ten.
func niceTicks(min, max float64, n int) []chart.Tick {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	bestStep, bestScore := mag, math.MaxFloat64
	for _, c := range []float64{1, 2, 2.5, 5, 10} {
		step := c * mag
		count := math.Max(math.Ceil(span/step), 2)
		if score := math.Abs(count - float64(n)); score < bestScore {
			bestScore, bestStep = score, step
		}
	}
	start := math.Floor(min/bestStep) * bestStep
	end := math.Ceil(max/bestStep) * bestStep
	ticks := []chart.Tick{}
	for i := 0; ; i++ {
		v := start + float64(i)*bestStep
		if v > end+bestStep/2 || len(ticks) > n+2 {
			break
		}
		ticks = append(ticks, chart.Tick{Value: v, Label: formatTick(v)})
	}
	return ticks
}

func formatTick(v float64) string {
	av := math.Abs(v)
	switch {
	case v == 0:
		return "0"
	case av >= 100:
		return fmt.Sprintf("%.0f", v)
	case av >= 10:
		return fmt.Sprintf("%.1f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// valueTicks pads the data bounds and returns ticks over them.
func valueTicks(values []float64) []chart.Tick {
	lo, hi := bounds(values)
	lo, hi = niceAxisBounds(lo, hi)
	return niceTicks(lo, hi, desiredTicks)
}

// zeroBasedTicks returns ticks from zero up past the largest value.
func zeroBasedTicks(values []float64) []chart.Tick {
	lo, hi := bounds(values)
	lo, hi = math.Min(lo, 0), math.Max(hi, 0)
	if hi > 0 {
		hi *= 1.05
	}
	if lo < 0 {
		lo *= 1.05
	}
	return niceTicks(lo, hi, desiredTicks)
}

// categoryTicks places labels at 0..n-1 with blank ticks half a step
// outside, which keeps the first and last category off the chart edge.
func categoryTicks(labels []string) []chart.Tick {
	ticks := make([]chart.Tick, 0, len(labels)+2)
	ticks = append(ticks, chart.Tick{Value: -0.5})
	for i, l := range labels {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: l})
	}
	return append(ticks, chart.Tick{Value: float64(len(labels)) - 0.5})
}

func bounds(values []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	if len(values) == 0 {
		return 0, 1
	}
	return lo, hi
}

// Axis describes how a column is laid out along one chart axis. Categories
// is nil for a continuous axis.
type Axis struct {
	Column     string   `json:"column"`
	Categories []string `json:"categories,omitempty"`
}

// Categorical reports whether values sit at category positions.
func (a Axis) Categorical() bool { return a.Categories != nil }

func (a Axis) ticks(values []float64) []chart.Tick {
	if a.Categorical() {
		return categoryTicks(a.Categories)
	}
	return valueTicks(values)
}

// categories is the ordered set of distinct non-missing values of a column.
// Numeric columns are ordered ascending, categorical ones by first
// appearance.
type categories struct {
	labels []string
	values []float64
	pos    map[string]int
}

func categoriesOf(col *dataset.Column) categories {
	c := categories{pos: make(map[string]int)}
	if col.Kind == dataset.Numeric {
		seen := make(map[float64]struct{})
		nums := []float64{}
		for _, v := range col.Values {
			if v.IsNull() {
				continue
			}
			f, _ := v.Float()
			if _, ok := seen[f]; !ok {
				seen[f] = struct{}{}
				nums = append(nums, f)
			}
		}
		sort.Float64s(nums)
		for _, f := range nums {
			c.add(dataset.FormatNumber(f))
		}
		c.values = nums
		return c
	}
	for _, v := range col.Values {
		if !v.IsNull() {
			c.add(v.String())
		}
	}
	return c
}

func (c *categories) add(label string) {
	if _, ok := c.pos[label]; ok {
		return
	}
	c.pos[label] = len(c.labels)
	c.labels = append(c.labels, label)
}

func (c categories) position(v dataset.Value) (int, bool) {
	if v.IsNull() {
		return 0, false
	}
	i, ok := c.pos[v.String()]
	return i, ok
}

func seriesColor(i int) drawing.Color { return chart.GetDefaultColor(i) }

// pointStyle renders dots only, without connecting lines.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    4,
		DotColor:    col,
	}
}

func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeColor: col,
		StrokeWidth: 2,
		DotColor:    col,
		DotWidth:    3,
	}
}
