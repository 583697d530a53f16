package parquet2bcf

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow/go/v15/arrow"
	"github.com/apache/arrow/go/v15/arrow/array"
	"github.com/apache/arrow/go/v15/arrow/memory"
	"github.com/apache/arrow/go/v15/parquet"
	"github.com/apache/arrow/go/v15/parquet/pqarrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stringArray(values ...string) arrow.Array {
	b := array.NewStringBuilder(memory.DefaultAllocator)
	defer b.Release()
	b.AppendValues(values, nil)
	return b.NewArray()
}

func int32Array(values ...int32) arrow.Array {
	b := array.NewInt32Builder(memory.DefaultAllocator)
	defer b.Release()
	b.AppendValues(values, nil)
	return b.NewArray()
}

func int64Array(values ...int64) arrow.Array {
	b := array.NewInt64Builder(memory.DefaultAllocator)
	defer b.Release()
	b.AppendValues(values, nil)
	return b.NewArray()
}

// writeParquet writes the named columns as one parquet file.
func writeParquet(t *testing.T, path string, names []string, columns []arrow.Array) {
	t.Helper()
	require.Equal(t, len(names), len(columns))

	fields := make([]arrow.Field, len(names))
	for i, name := range names {
		fields[i] = arrow.Field{Name: name, Type: columns[i].DataType(), Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	rec := array.NewRecord(schema, columns, int64(columns[0].Len()))
	defer rec.Release()
	tbl := array.NewTableFromRecords(schema, []arrow.Record{rec})
	defer tbl.Release()

	var buf bytes.Buffer
	require.NoError(t, pqarrow.WriteTable(tbl, &buf, 2, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps()))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

var callColumns = []string{ColumnChrom, ColumnPos, ColumnRef, ColumnAlt, ColumnCarrier}

func TestReadParquetIntegerCarriers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.parquet")
	writeParquet(t, path, append(callColumns, "qual"), []arrow.Array{
		stringArray("chr1", "chr1", "chr2"),
		int32Array(1, 2, 3),
		stringArray("A", "T", "C"),
		stringArray("T", "G", "A"),
		int32Array(1, 2, 1),
		int64Array(30, 40, 50),
	})

	table, err := ReadParquet(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, &CallTable{
		Chrom:   []string{"chr1", "chr1", "chr2"},
		Pos:     []int64{1, 2, 3},
		Ref:     []string{"A", "T", "C"},
		Alt:     []string{"T", "G", "A"},
		Carrier: []string{"1", "2", "1"},
	}, table)
}

func TestReadParquetStringCarriers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.parquet")
	writeParquet(t, path, callColumns, []arrow.Array{
		stringArray("chr1"),
		int64Array(100),
		stringArray("A"),
		stringArray("T"),
		stringArray("007"),
	})

	table, err := ReadParquet(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"007"}, table.Carrier)
}

func TestReadParquetMissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.parquet")
	writeParquet(t, path, callColumns[:4], []arrow.Array{
		stringArray("chr1"),
		int64Array(100),
		stringArray("A"),
		stringArray("T"),
	})

	_, err := ReadParquet(context.Background(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchema)
	assert.Contains(t, err.Error(), `"eid"`)
}

func TestReadParquetWrongType(t *testing.T) {
	b := array.NewFloat64Builder(memory.DefaultAllocator)
	b.AppendValues([]float64{100.5}, nil)
	pos := b.NewArray()
	b.Release()

	path := filepath.Join(t.TempDir(), "calls.parquet")
	writeParquet(t, path, callColumns, []arrow.Array{
		stringArray("chr1"),
		pos,
		stringArray("A"),
		stringArray("T"),
		int32Array(1),
	})

	_, err := ReadParquet(context.Background(), path)
	assert.ErrorIs(t, err, ErrSchema)
}

func TestReadParquetNullValue(t *testing.T) {
	b := array.NewStringBuilder(memory.DefaultAllocator)
	b.AppendValues([]string{"A", "", "G"}, []bool{true, false, true})
	ref := b.NewArray()
	b.Release()

	path := filepath.Join(t.TempDir(), "calls.parquet")
	writeParquet(t, path, callColumns, []arrow.Array{
		stringArray("chr1", "chr1", "chr1"),
		int32Array(1, 2, 3),
		ref,
		stringArray("T", "T", "T"),
		int32Array(1, 1, 1),
	})

	_, err := ReadParquet(context.Background(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchema)

	var ce *ConversionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 1, ce.Row)
}

func TestReadParquetMissingFile(t *testing.T) {
	_, err := ReadParquet(context.Background(), filepath.Join(t.TempDir(), "absent.parquet"))
	assert.ErrorIs(t, err, ErrIO)
}
