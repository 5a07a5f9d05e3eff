package plot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_MissingAxisIffRequiredAxisUnset(t *testing.T) {
	for _, typ := range Types() {
		for _, x := range []string{"", "None", "Age"} {
			for _, y := range []string{"", "None", "Salary"} {
				xUnset := x != "Age"
				yUnset := y != "Salary"
				wantMissing := xUnset || (yUnset && typ.RequiresY())

				spec, err := Validate(Config{Type: typ, X: x, Y: y})
				if wantMissing {
					assert.ErrorIs(t, err, ErrMissingAxis, "%s x=%q y=%q", typ, x, y)
					assert.Nil(t, spec)
					continue
				}
				require.NoError(t, err, "%s x=%q y=%q", typ, x, y)
				assert.Equal(t, typ, spec.Type())
				assert.Equal(t, "Age", spec.XColumn())
			}
		}
	}
}

func TestValidate_Variants(t *testing.T) {
	tests := []struct {
		typ  PlotType
		want Spec
	}{
		{Line, LineSpec{X: "Age", Y: "Salary"}},
		{Bar, BarSpec{X: "Age", Y: "Salary"}},
		{Scatter, ScatterSpec{X: "Age", Y: "Salary"}},
		{Box, BoxSpec{X: "Age", Y: "Salary"}},
		{Distribution, DistributionSpec{X: "Age"}},
		{Count, CountSpec{X: "Age"}},
		{Pie, PieSpec{X: "Age"}},
		{Heatmap, HeatmapSpec{X: "Age"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			spec, err := Validate(Config{Type: tt.typ, X: "Age", Y: "Salary"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, spec)

			_, twoAxis := spec.(TwoAxisSpec)
			assert.Equal(t, tt.typ.RequiresY(), twoAxis)
		})
	}
}

func TestValidate_UnknownType(t *testing.T) {
	_, err := Validate(Config{Type: "line plot", X: "Age", Y: "Salary"})
	assert.ErrorIs(t, err, ErrUnknownPlotType)
}

func TestParseType(t *testing.T) {
	typ, err := ParseType("Pie Chart")
	require.NoError(t, err)
	assert.Equal(t, Pie, typ)

	_, err = ParseType("Violin Plot")
	assert.ErrorIs(t, err, ErrUnknownPlotType)

	assert.Len(t, Types(), 8)
	assert.Equal(t, Line, Types()[0])
}
