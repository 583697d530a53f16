package parquet2bcf

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
)

// ReadDelimited reads a call table from tab-separated text (comma-separated
// if the name ends in .csv or .csv.gz, in any case). The first line names the
// columns; extra columns are ignored.
func ReadDelimited(ctx context.Context, path string) (*CallTable, error) {
	r, err := openText(ctx, path)
	if err != nil {
		return nil, newError(ErrIO, componentTable, err)
	}
	defer r.Close()

	return readDelimited(r, delimiter(path))
}

// delimiter is a comma for .csv names, in any case, and a tab otherwise.
func delimiter(path string) rune {
	if strings.HasSuffix(tableName(path), ".csv") {
		return ','
	}
	return '\t'
}

func readDelimited(r io.Reader, comma rune) (*CallTable, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.ReuseRecord = true
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, newError(ErrSchema, componentTable, fmt.Errorf("table is empty; expected a header line"))
		}
		return nil, newError(ErrIO, componentTable, pfx.Err(err))
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	idx := make([]int, len(requiredColumns))
	for i, name := range requiredColumns {
		col, ok := columns[name]
		if !ok {
			return nil, newError(ErrSchema, componentTable, fmt.Errorf("required column %q is missing (have %v)", name, header))
		}
		idx[i] = col
	}

	t := &CallTable{}
	for row := 0; ; row++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, newRowError(ErrIO, componentTable, row, pfx.Err(err))
		}

		pos, err := strconv.ParseInt(fields[idx[1]], 10, 64)
		if err != nil {
			return nil, newRowError(ErrSchema, componentTable, row, fmt.Errorf("column %q: %w", ColumnPos, err))
		}
		t.Append(CallRecord{
			Variant: VariantKey{
				Chrom: fields[idx[0]],
				Pos:   pos,
				Ref:   fields[idx[2]],
				Alt:   fields[idx[3]],
			},
			Carrier: fields[idx[4]],
		})
	}

	return t, nil
}
