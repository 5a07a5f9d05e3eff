package exporter

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataviz/internal/dataset"
)

func salesTable(t *testing.T) *dataset.Table {
	t.Helper()
	tbl, err := dataset.New(
		&dataset.Column{Name: "City", Kind: dataset.Categorical, Values: []dataset.Value{
			dataset.Text("NYC"), dataset.Text("Los Angeles, CA"), dataset.Null(),
		}},
		&dataset.Column{Name: "Sales", Kind: dataset.Numeric, Values: []dataset.Value{
			dataset.Number(10), dataset.Null(), dataset.Number(30.5),
		}},
	)
	require.NoError(t, err)
	return tbl
}

func TestWriteTable(t *testing.T) {
	tests := []struct {
		name    string
		options WriteOptions
		want    string
	}{
		{
			name: "plain",
			want: "City,Sales\nNYC,10\n\"Los Angeles, CA\",\n,30.5\n",
		},
		{
			name:    "bom prefix",
			options: WriteOptions{BOMPrefix: true},
			want:    "\ufeffCity,Sales\nNYC,10\n\"Los Angeles, CA\",\n,30.5\n",
		},
		{
			name:    "semicolon",
			options: WriteOptions{Comma: ';'},
			want:    "City;Sales\nNYC;10\nLos Angeles, CA;\n;30.5\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteTable(&buf, salesTable(t), tt.options))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestWriteTable_EmptyKeepsHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, salesTable(t).Take(nil), WriteOptions{}))
	assert.Equal(t, "City,Sales\n", buf.String())
}

func TestWriteTable_RoundTripsThroughLoader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, salesTable(t), WriteOptions{BOMPrefix: true}))

	loaded, err := dataset.Load(context.Background(), "out.csv", &buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"City", "Sales"}, loaded.ColumnNames())
	assert.Equal(t, 3, loaded.NumRows())

	sales, ok := loaded.Column("Sales")
	require.True(t, ok)
	assert.Equal(t, dataset.Numeric, sales.Kind)
	assert.Equal(t, []float64{10, 30.5}, sales.Floats())
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports", "filtered.csv")
	require.NoError(t, WriteFile(path, salesTable(t), WriteOptions{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "City,Sales\nNYC,10\n\"Los Angeles, CA\",\n,30.5\n", string(data))
}
