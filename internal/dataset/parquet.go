package dataset

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

func loadParquet(ctx context.Context, r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet: %w", err)
	}

	pf, err := file.NewParquetReader(bytes.NewReader(data), file.WithReadProps(&parquet.ReaderProperties{}))
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet reader: %w", err)
	}
	defer pf.Close()

	reader, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, memory.NewGoAllocator())
	if err != nil {
		return nil, fmt.Errorf("failed to create arrow reader: %w", err)
	}

	tbl, err := reader.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet data: %w", err)
	}
	defer tbl.Release()

	return fromArrow(tbl)
}

// fromArrow copies an arrow table into a Table. Integer and floating point
// columns become numbers, everything else is kept as its string form.
func fromArrow(tbl arrow.Table) (*Table, error) {
	if tbl.NumCols() == 0 {
		return nil, ErrEmptyDataset
	}

	names := make([]string, tbl.NumCols())
	for i := range names {
		names[i] = tbl.Column(i).Name()
	}
	names = normalizeHeader(names)

	columns := make([]*Column, tbl.NumCols())
	for i := range columns {
		col := tbl.Column(i)
		vals := make([]Value, 0, col.Len())
		for _, chunk := range col.Data().Chunks() {
			for j := 0; j < chunk.Len(); j++ {
				vals = append(vals, arrowValue(chunk, j))
			}
		}
		columns[i] = typedColumn(names[i], vals)
	}
	return New(columns...)
}

func arrowValue(arr arrow.Array, i int) Value {
	if arr.IsNull(i) {
		return Null()
	}
	switch a := arr.(type) {
	case *array.Float64:
		return Number(a.Value(i))
	case *array.Float32:
		return Number(float64(a.Value(i)))
	case *array.Int64:
		return Number(float64(a.Value(i)))
	case *array.Int32:
		return Number(float64(a.Value(i)))
	case *array.Int16:
		return Number(float64(a.Value(i)))
	case *array.Int8:
		return Number(float64(a.Value(i)))
	case *array.Uint64:
		return Number(float64(a.Value(i)))
	case *array.Uint32:
		return Number(float64(a.Value(i)))
	case *array.Uint16:
		return Number(float64(a.Value(i)))
	case *array.Uint8:
		return Number(float64(a.Value(i)))
	case *array.String:
		return Text(a.Value(i))
	case *array.LargeString:
		return Text(a.Value(i))
	default:
		return Text(arr.ValueStr(i))
	}
}
