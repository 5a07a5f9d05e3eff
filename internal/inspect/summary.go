package inspect

import (
	"math"
	"strconv"

	"github.com/aclements/go-moremath/stats"

	"dataviz/internal/dataset"
)

// Float is a float64 that encodes NaN and infinities as JSON null.
type Float float64

// MarshalJSON implements json.Marshaler.
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(v, 'g', -1, 64)), nil
}

// ColumnSummary holds describe()-style statistics for one numeric column.
type ColumnSummary struct {
	Column string `json:"column"`
	Count  int    `json:"count"`
	Mean   Float  `json:"mean"`
	Std    Float  `json:"std"`
	Min    Float  `json:"min"`
	Q25    Float  `json:"25%"`
	Median Float  `json:"50%"`
	Q75    Float  `json:"75%"`
	Max    Float  `json:"max"`
}

// Summary computes count, mean, sample standard deviation, min, quartiles
// and max for every numeric column. Statistics that need more data than the
// column has are NaN.
func Summary(table *dataset.Table) []ColumnSummary {
	numeric := table.NumericColumns()
	out := make([]ColumnSummary, 0, len(numeric))
	for _, col := range numeric {
		out = append(out, summarize(col.Name, col.Floats()))
	}
	return out
}

func summarize(name string, xs []float64) ColumnSummary {
	s := ColumnSummary{Column: name, Count: len(xs)}
	nan := Float(math.NaN())
	if len(xs) == 0 {
		s.Mean, s.Std, s.Min, s.Q25, s.Median, s.Q75, s.Max = nan, nan, nan, nan, nan, nan, nan
		return s
	}

	sample := stats.Sample{Xs: append([]float64(nil), xs...)}
	sample.Sort()
	lo, hi := sample.Bounds()

	s.Mean = Float(sample.Mean())
	s.Std = nan
	if len(xs) > 1 {
		s.Std = Float(sample.StdDev())
	}
	s.Min = Float(lo)
	s.Q25 = Float(Quantile(sample.Xs, 0.25))
	s.Median = Float(Quantile(sample.Xs, 0.5))
	s.Q75 = Float(Quantile(sample.Xs, 0.75))
	s.Max = Float(hi)
	return s
}

// Quantile returns the q-quantile of sorted using linear interpolation
// between closest ranks. It returns NaN for an empty slice.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// MissingCount is the number of missing cells in one column.
type MissingCount struct {
	Column  string `json:"column"`
	Missing int    `json:"missing"`
}

// MissingCounts counts missing cells per column, in column order.
func MissingCounts(table *dataset.Table) []MissingCount {
	out := make([]MissingCount, 0, table.NumCols())
	for _, col := range table.Columns() {
		n := 0
		for _, v := range col.Values {
			if v.IsNull() {
				n++
			}
		}
		out = append(out, MissingCount{Column: col.Name, Missing: n})
	}
	return out
}
