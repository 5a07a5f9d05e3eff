package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataviz/internal/dataset"
)

func salesTable() *dataset.Table {
	return dataset.MustNew(
		&dataset.Column{Name: "City", Kind: dataset.Categorical, Values: []dataset.Value{
			dataset.Text("NYC"), dataset.Text("LA"), dataset.Text("NYC"), dataset.Null(),
		}},
		&dataset.Column{Name: "Sales", Kind: dataset.Numeric, Values: []dataset.Value{
			dataset.Number(10), dataset.Number(20), dataset.Number(30), dataset.Number(20),
		}},
	)
}

func TestApply_KeepsMatchingRows(t *testing.T) {
	tbl := dataset.MustNew(
		&dataset.Column{Name: "City", Kind: dataset.Categorical, Values: []dataset.Value{
			dataset.Text("NYC"), dataset.Text("LA"), dataset.Text("NYC"),
		}},
		&dataset.Column{Name: "Sales", Kind: dataset.Numeric, Values: []dataset.Value{
			dataset.Number(10), dataset.Number(20), dataset.Number(30),
		}},
	)

	out, err := Apply(tbl, Spec{Column: "City", Value: dataset.Text("NYC")})
	require.NoError(t, err)

	require.Equal(t, 2, out.NumRows())
	assert.Equal(t, []string{"NYC", "10"}, []string{out.Row(0)[0].String(), out.Row(0)[1].String()})
	assert.Equal(t, []string{"NYC", "30"}, []string{out.Row(1)[0].String(), out.Row(1)[1].String()})
}

func TestApply(t *testing.T) {
	tests := []struct {
		name     string
		spec     Spec
		wantRows int
	}{
		{"numeric match", Spec{Column: "Sales", Value: dataset.Number(20)}, 2},
		{"numeric column with string target", Spec{Column: "Sales", Value: dataset.Text("20")}, 2},
		{"numeric column with non-numeric string", Spec{Column: "Sales", Value: dataset.Text("twenty")}, 0},
		{"null matches missing cells", Spec{Column: "City", Value: dataset.Null()}, 1},
		{"absent value is an empty result", Spec{Column: "City", Value: dataset.Text("Paris")}, 0},
		{"exact equality is case sensitive", Spec{Column: "City", Value: dataset.Text("nyc")}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Apply(salesTable(), tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRows, out.NumRows())
		})
	}
}

func TestApply_EmptyResultKeepsColumns(t *testing.T) {
	tbl := salesTable()

	out, err := Apply(tbl, Spec{Column: "City", Value: dataset.Text("Paris")})
	require.NoError(t, err)

	assert.Equal(t, 0, out.NumRows())
	assert.Equal(t, tbl.ColumnNames(), out.ColumnNames())
}

func TestApply_UnknownColumn(t *testing.T) {
	_, err := Apply(salesTable(), Spec{Column: "Region", Value: dataset.Text("x")})
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	tbl := salesTable()

	_, err := Apply(tbl, Spec{Column: "City", Value: dataset.Text("LA")})
	require.NoError(t, err)
	assert.Equal(t, 4, tbl.NumRows())
}
