package parquet2bcf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/apache/arrow/go/v15/arrow"
	"github.com/apache/arrow/go/v15/arrow/array"
	"github.com/apache/arrow/go/v15/arrow/memory"
	"github.com/apache/arrow/go/v15/parquet/file"
	"github.com/apache/arrow/go/v15/parquet/pqarrow"
	"github.com/carbocation/pfx"
)

const parquetBatchSize = 64 * 1024

// ReadParquet loads the chrom, pos, ref, alt and eid columns of a parquet
// file. Other columns are never decoded. Integer eid values are rendered in
// base 10, so an eid of 7 matches the sample "7" but not "007".
func ReadParquet(ctx context.Context, path string) (*CallTable, error) {
	var (
		pf  *file.Reader
		err error
	)
	if IsRemote(path) {
		// Parquet needs random access; remote objects are buffered in memory.
		var src io.ReadCloser
		if src, err = openSource(ctx, path); err != nil {
			return nil, newError(ErrIO, componentTable, err)
		}
		data, rerr := io.ReadAll(src)
		src.Close()
		if rerr != nil {
			return nil, newError(ErrIO, componentTable, pfx.Err(rerr))
		}
		pf, err = file.NewParquetReader(bytes.NewReader(data))
	} else {
		pf, err = file.OpenParquetFile(ExpandHome(path), false)
	}
	if err != nil {
		return nil, newError(ErrIO, componentTable, pfx.Err(fmt.Errorf("%s: %w", path, err)))
	}
	defer pf.Close()

	return readParquet(ctx, pf)
}

func readParquet(ctx context.Context, pf *file.Reader) (*CallTable, error) {
	schema := pf.MetaData().Schema
	leaves := make([]int, 0, len(requiredColumns))
	for _, name := range requiredColumns {
		i := schema.ColumnIndexByName(name)
		if i < 0 {
			return nil, newError(ErrSchema, componentTable, fmt.Errorf("required column %q is missing", name))
		}
		leaves = append(leaves, i)
	}

	fr, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{BatchSize: parquetBatchSize}, memory.DefaultAllocator)
	if err != nil {
		return nil, newError(ErrIO, componentTable, pfx.Err(err))
	}

	rr, err := fr.GetRecordReader(ctx, leaves, nil)
	if err != nil {
		return nil, newError(ErrIO, componentTable, pfx.Err(err))
	}
	defer rr.Release()

	t := &CallTable{}
	t.grow(int(pf.NumRows()))

	row := 0
	for rr.Next() {
		rec := rr.Record()
		if err := appendRecord(t, rec, row); err != nil {
			return nil, err
		}
		row += int(rec.NumRows())
	}
	if err := rr.Err(); err != nil && err != io.EOF {
		return nil, newRowError(ErrIO, componentTable, row, pfx.Err(err))
	}

	return t, nil
}

func (t *CallTable) grow(n int) {
	t.Chrom = make([]string, 0, n)
	t.Pos = make([]int64, 0, n)
	t.Ref = make([]string, 0, n)
	t.Alt = make([]string, 0, n)
	t.Carrier = make([]string, 0, n)
}

// appendRecord converts one record batch. offset is the table row of the
// batch's first row, used in diagnostics.
func appendRecord(t *CallTable, rec arrow.Record, offset int) error {
	column := func(name string) (arrow.Array, error) {
		idx := rec.Schema().FieldIndices(name)
		if len(idx) == 0 {
			return nil, newError(ErrSchema, componentTable, fmt.Errorf("required column %q is missing", name))
		}
		return rec.Column(idx[0]), nil
	}

	var err error
	var chrom, pos, ref, alt, eid arrow.Array
	if chrom, err = column(ColumnChrom); err != nil {
		return err
	}
	if pos, err = column(ColumnPos); err != nil {
		return err
	}
	if ref, err = column(ColumnRef); err != nil {
		return err
	}
	if alt, err = column(ColumnAlt); err != nil {
		return err
	}
	if eid, err = column(ColumnCarrier); err != nil {
		return err
	}

	if t.Chrom, err = appendStrings(t.Chrom, chrom, ColumnChrom, offset); err != nil {
		return err
	}
	if t.Pos, err = appendInts(t.Pos, pos, ColumnPos, offset); err != nil {
		return err
	}
	if t.Ref, err = appendStrings(t.Ref, ref, ColumnRef, offset); err != nil {
		return err
	}
	if t.Alt, err = appendStrings(t.Alt, alt, ColumnAlt, offset); err != nil {
		return err
	}
	if t.Carrier, err = appendIdentifiers(t.Carrier, eid, offset); err != nil {
		return err
	}

	return nil
}

type stringValuer interface {
	arrow.Array
	Value(int) string
}

type byteValuer interface {
	arrow.Array
	Value(int) []byte
}

type intValuer[T int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64] interface {
	arrow.Array
	Value(int) T
}

func nullError(name string, row int) error {
	return newRowError(ErrSchema, componentTable, row, fmt.Errorf("column %q is null", name))
}

func appendStrings(dst []string, arr arrow.Array, name string, offset int) ([]string, error) {
	if d, ok := arr.(*array.Dictionary); ok {
		values, err := appendStrings(nil, d.Dictionary(), name, offset)
		if err != nil {
			return nil, err
		}
		for i := 0; i < d.Len(); i++ {
			if d.IsNull(i) {
				return nil, nullError(name, offset+i)
			}
			dst = append(dst, values[d.GetValueIndex(i)])
		}
		return dst, nil
	}

	switch a := arr.(type) {
	case stringValuer:
		for i := 0; i < a.Len(); i++ {
			if a.IsNull(i) {
				return nil, nullError(name, offset+i)
			}
			dst = append(dst, a.Value(i))
		}
	case byteValuer:
		for i := 0; i < a.Len(); i++ {
			if a.IsNull(i) {
				return nil, nullError(name, offset+i)
			}
			dst = append(dst, string(a.Value(i)))
		}
	default:
		return nil, newError(ErrSchema, componentTable, fmt.Errorf("column %q has type %s; expected a string type", name, arr.DataType()))
	}
	return dst, nil
}

func appendInts(dst []int64, arr arrow.Array, name string, offset int) ([]int64, error) {
	var err error
	switch a := arr.(type) {
	case *array.Int8:
		dst, err = appendIntValues[int8](dst, a, name, offset)
	case *array.Int16:
		dst, err = appendIntValues[int16](dst, a, name, offset)
	case *array.Int32:
		dst, err = appendIntValues[int32](dst, a, name, offset)
	case *array.Int64:
		dst, err = appendIntValues[int64](dst, a, name, offset)
	case *array.Uint8:
		dst, err = appendIntValues[uint8](dst, a, name, offset)
	case *array.Uint16:
		dst, err = appendIntValues[uint16](dst, a, name, offset)
	case *array.Uint32:
		dst, err = appendIntValues[uint32](dst, a, name, offset)
	case *array.Uint64:
		dst, err = appendIntValues[uint64](dst, a, name, offset)
	default:
		return nil, newError(ErrSchema, componentTable, fmt.Errorf("column %q has type %s; expected an integer type", name, arr.DataType()))
	}
	return dst, err
}

func appendIntValues[T int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64](dst []int64, a intValuer[T], name string, offset int) ([]int64, error) {
	for i := 0; i < a.Len(); i++ {
		if a.IsNull(i) {
			return nil, nullError(name, offset+i)
		}
		dst = append(dst, int64(a.Value(i)))
	}
	return dst, nil
}

// appendIdentifiers accepts integer or string carrier columns.
func appendIdentifiers(dst []string, arr arrow.Array, offset int) ([]string, error) {
	if !arrow.IsInteger(arr.DataType().ID()) {
		return appendStrings(dst, arr, ColumnCarrier, offset)
	}

	ints, err := appendInts(nil, arr, ColumnCarrier, offset)
	if err != nil {
		return nil, err
	}
	for _, v := range ints {
		dst = append(dst, strconv.FormatInt(v, 10))
	}
	return dst, nil
}
