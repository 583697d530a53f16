package parquet2bcf

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectTableFormat(t *testing.T) {
	for path, want := range map[string]TableFormat{
		"calls.parquet":         TableParquet,
		"calls":                 TableParquet,
		"gs://bucket/calls.pq":  TableParquet,
		"calls.tsv":             TableDelimited,
		"calls.TSV.gz":          TableDelimited,
		"calls.csv":             TableDelimited,
		"calls.txt.gz":          TableDelimited,
		"gs://bucket/calls.tsv": TableDelimited,
		"gs://bucket/calls":     TableParquet,
		"CALLS.TXT":             TableDelimited,
		"CALLS.CSV":             TableDelimited,
	} {
		assert.Equal(t, want, detectTableFormat(path), path)
	}
}

func TestParseTableFormat(t *testing.T) {
	for _, f := range []TableFormat{TableAuto, TableParquet, TableDelimited} {
		got, err := ParseTableFormat(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}

	_, err := ParseTableFormat("arrow")
	assert.Error(t, err)
}

func TestLoadTableMissingFile(t *testing.T) {
	_, err := LoadTable(context.Background(), filepath.Join(t.TempDir(), "absent.parquet"), TableAuto)
	assert.ErrorIs(t, err, ErrIO)
}
