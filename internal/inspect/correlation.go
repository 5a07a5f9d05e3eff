package inspect

import (
	"math"

	"dataviz/internal/dataset"
)

// Matrix is a symmetric Pearson correlation matrix.
type Matrix struct {
	Columns []string  `json:"columns"`
	Values  [][]Float `json:"values"`
}

// At returns the coefficient for columns i and j.
func (m Matrix) At(i, j int) float64 { return float64(m.Values[i][j]) }

// pairAcc accumulates centered moments with Welford's update, so columns
// with a large common offset keep their precision.
type pairAcc struct {
	n, meanX, meanY, m2X, m2Y, coXY float64
}

func (p *pairAcc) add(x, y float64) {
	p.n++
	dx := x - p.meanX
	p.meanX += dx / p.n
	dy := y - p.meanY
	p.meanY += dy / p.n
	p.m2X += dx * (x - p.meanX)
	p.m2Y += dy * (y - p.meanY)
	p.coXY += dx * (y - p.meanY)
}

func (p *pairAcc) r() float64 {
	if p.n < 2 || p.m2X <= 0 || p.m2Y <= 0 {
		return math.NaN()
	}
	r := p.coXY / math.Sqrt(p.m2X*p.m2Y)
	if math.IsNaN(r) {
		return r
	}
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}

// Correlation computes Pearson's r for every pair of numeric columns using
// the rows where both cells are present. Pairs without variance are NaN.
func Correlation(table *dataset.Table) (Matrix, error) {
	cols := table.NumericColumns()
	if len(cols) == 0 {
		return Matrix{}, ErrNoNumericColumns
	}

	n := len(cols)
	m := Matrix{
		Columns: make([]string, n),
		Values:  make([][]Float, n),
	}
	for i, c := range cols {
		m.Columns[i] = c.Name
		m.Values[i] = make([]Float, n)
	}

	for a := 0; a < n; a++ {
		for b := a; b < n; b++ {
			var acc pairAcc
			for row := 0; row < table.NumRows(); row++ {
				x, okx := cols[a].Values[row].Float()
				y, oky := cols[b].Values[row].Float()
				if okx && oky {
					acc.add(x, y)
				}
			}
			r := acc.r()
			if a == b && !math.IsNaN(r) {
				r = 1
			}
			m.Values[a][b] = Float(r)
			m.Values[b][a] = Float(r)
		}
	}
	return m, nil
}
