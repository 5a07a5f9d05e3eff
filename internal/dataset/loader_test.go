package dataset

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestLoad_CSV(t *testing.T) {
	input := "City,Sales,Note\nNYC,10,ok\nLA,20,\nNYC,30,NA\n"

	tbl, err := Load(context.Background(), "sales.csv", strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 3, tbl.NumRows())
	assert.Equal(t, []string{"City", "Sales", "Note"}, tbl.ColumnNames())

	city, _ := tbl.Column("City")
	assert.Equal(t, Categorical, city.Kind)

	sales, _ := tbl.Column("Sales")
	assert.Equal(t, Numeric, sales.Kind)
	assert.Equal(t, []float64{10, 20, 30}, sales.Floats())

	note, _ := tbl.Column("Note")
	assert.True(t, note.Values[1].IsNull())
	assert.True(t, note.Values[2].IsNull())
}

func TestLoad_CSVDelimiterSniffing(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"semicolon", "a;b\n1;x\n2;y\n"},
		{"tab", "a\tb\n1\tx\n2\ty\n"},
		{"pipe", "a|b\n1|x\n2|y\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := Load(context.Background(), "data.csv", strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "b"}, tbl.ColumnNames())
			assert.Equal(t, 2, tbl.NumRows())
		})
	}
}

func TestLoad_CSVHeaderNormalization(t *testing.T) {
	input := "\ufeffx, x ,,y\n1,2,3,4\n5\n"

	tbl, err := Load(context.Background(), "h.csv", strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"x", "x.1", "Unnamed: 2", "y"}, tbl.ColumnNames())
	assert.Equal(t, 2, tbl.NumRows())

	y, _ := tbl.Column("y")
	assert.True(t, y.Values[1].IsNull(), "short rows are padded with missing cells")
}

func TestLoad_CSVNumberParsing(t *testing.T) {
	input := "plain,thousands,mixed,text\n1.5,\"1,234\",\"1.234,5\",12a\n-2,\"10,000.25\",\"2.000,0\",7\n"

	tbl, err := Load(context.Background(), "n.csv", strings.NewReader(input))
	require.NoError(t, err)

	plain, _ := tbl.Column("plain")
	assert.Equal(t, []float64{1.5, -2}, plain.Floats())

	thousands, _ := tbl.Column("thousands")
	assert.Equal(t, []float64{1234, 10000.25}, thousands.Floats())

	mixed, _ := tbl.Column("mixed")
	assert.Equal(t, []float64{1234.5, 2000}, mixed.Floats())

	text, _ := tbl.Column("text")
	assert.Equal(t, Categorical, text.Kind)
	assert.Equal(t, "7", text.Values[1].String())
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(context.Background(), "data.json", strings.NewReader("{}"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Load(context.Background(), "empty.csv", strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestLoad_XLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Name", "Score"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"ann", 90}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"bob", 75.5}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	tbl, err := Load(context.Background(), "scores.XLSX", buf)
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Score"}, tbl.ColumnNames())
	score, _ := tbl.Column("Score")
	assert.Equal(t, Numeric, score.Kind)
	assert.Equal(t, []float64{90, 75.5}, score.Floats())
}

func TestLoad_Parquet(t *testing.T) {
	mem := memory.NewGoAllocator()
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
		{Name: "name", Type: arrow.BinaryTypes.String, Nullable: true},
	}, nil)

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()
	b.Field(0).(*array.Int64Builder).AppendValues([]int64{1, 0, 3}, []bool{true, false, true})
	b.Field(1).(*array.StringBuilder).AppendValues([]string{"a", "b", "c"}, nil)
	rec := b.NewRecord()
	defer rec.Release()

	src := array.NewTableFromRecords(schema, []arrow.Record{rec})
	defer src.Release()

	var buf bytes.Buffer
	require.NoError(t, pqarrow.WriteTable(src, &buf, 1024, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps()))

	tbl, err := Load(context.Background(), "data.parquet", &buf)
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name"}, tbl.ColumnNames())
	id, _ := tbl.Column("id")
	assert.Equal(t, Numeric, id.Kind)
	assert.True(t, id.Values[1].IsNull())
	assert.Equal(t, []float64{1, 3}, id.Floats())

	name, _ := tbl.Column("name")
	assert.Equal(t, Categorical, name.Kind)
	assert.Equal(t, "c", name.Values[2].String())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cities.csv")
	require.NoError(t, os.WriteFile(path, []byte("City,Sales\nNYC,10\n"), 0644))

	tbl, err := LoadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.NumRows())

	_, err = LoadFile(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestDetectFormat(t *testing.T) {
	for name, want := range map[string]Format{
		"a.csv":     FormatCSV,
		"a.TSV":     FormatCSV,
		"a.txt":     FormatCSV,
		"a.xlsx":    FormatXLSX,
		"a.parquet": FormatParquet,
	} {
		got, err := DetectFormat(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
}
