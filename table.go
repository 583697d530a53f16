package parquet2bcf

import (
	"context"
	"fmt"
	"strings"
)

// Columns every call table must provide.
const (
	ColumnChrom   = "chrom"
	ColumnPos     = "pos"
	ColumnRef     = "ref"
	ColumnAlt     = "alt"
	ColumnCarrier = "eid"
)

var requiredColumns = []string{ColumnChrom, ColumnPos, ColumnRef, ColumnAlt, ColumnCarrier}

// TableFormat is the on-disk encoding of the call table.
type TableFormat uint8

const (
	// TableAuto picks a format from the file name.
	TableAuto TableFormat = iota
	TableParquet
	TableDelimited
)

func (f TableFormat) String() string {
	switch f {
	case TableAuto:
		return "auto"
	case TableParquet:
		return "parquet"
	case TableDelimited:
		return "tsv"

	default:
		return "Illegal selection"
	}
}

// ParseTableFormat maps the String form back to a TableFormat.
func ParseTableFormat(s string) (TableFormat, error) {
	for f := TableAuto; f <= TableDelimited; f++ {
		if f.String() == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown table format %q", s)
}

// tableName lowercases path and drops a trailing .gz so extensions can be
// compared directly.
func tableName(path string) string {
	return strings.TrimSuffix(strings.ToLower(path), ".gz")
}

// detectTableFormat resolves TableAuto from the path's extension. Anything
// that is not recognisably delimited text is read as parquet.
func detectTableFormat(path string) TableFormat {
	name := tableName(path)
	for _, ext := range []string{".tsv", ".txt", ".csv"} {
		if strings.HasSuffix(name, ext) {
			return TableDelimited
		}
	}
	return TableParquet
}

// LoadTable reads the call table at path, projected to the required
// columns, and validates it.
func LoadTable(ctx context.Context, path string, format TableFormat) (*CallTable, error) {
	if format == TableAuto {
		format = detectTableFormat(path)
	}

	var (
		t   *CallTable
		err error
	)
	switch format {
	case TableParquet:
		t, err = ReadParquet(ctx, path)
	case TableDelimited:
		t, err = ReadDelimited(ctx, path)
	default:
		return nil, newError(ErrSchema, componentTable, fmt.Errorf("unsupported table format %s", format))
	}
	if err != nil {
		return nil, err
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}

	return t, nil
}
