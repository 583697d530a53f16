package parquet2bcf

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTable(rows ...CallRecord) *CallTable {
	t := &CallTable{}
	for _, r := range rows {
		t.Append(r)
	}
	return t
}

func call(chrom string, pos int64, ref, alt, carrier string) CallRecord {
	return CallRecord{Variant: VariantKey{Chrom: chrom, Pos: pos, Ref: ref, Alt: alt}, Carrier: carrier}
}

func TestUniqueVariantsKeepsFirstOccurrenceOrder(t *testing.T) {
	table := newTable(
		call("chr2", 50, "G", "C", "s2"),
		call("chr1", 100, "A", "T", "s1"),
		call("chr2", 50, "G", "C", "s3"),
		call("chr1", 100, "A", "G", "s1"),
		call("chr1", 100, "A", "T", "s3"),
	)

	assert.Equal(t, []VariantKey{
		{"chr2", 50, "G", "C"},
		{"chr1", 100, "A", "T"},
		{"chr1", 100, "A", "G"},
	}, UniqueVariants(table))
}

func TestUniqueVariantsIsCaseSensitive(t *testing.T) {
	table := newTable(
		call("chr1", 100, "A", "T", "s1"),
		call("chr1", 100, "a", "t", "s1"),
		call("CHR1", 100, "A", "T", "s1"),
	)

	assert.Len(t, UniqueVariants(table), 3)
}

func TestUniqueVariantsEmptyTable(t *testing.T) {
	assert.Empty(t, UniqueVariants(&CallTable{}))
}

func TestValidateRejectsZeroPosition(t *testing.T) {
	table := newTable(
		call("chr1", 1, "A", "T", "s1"),
		call("chr1", 0, "A", "T", "s1"),
	)

	err := table.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchema))

	var ce *ConversionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 1, ce.Row)
}

func TestValidateRejectsRaggedColumns(t *testing.T) {
	table := newTable(call("chr1", 1, "A", "T", "s1"))
	table.Carrier = nil

	assert.ErrorIs(t, table.Validate(), ErrSchema)
}

func TestVariantKeyString(t *testing.T) {
	assert.Equal(t, "chr1:100:A:T", VariantKey{"chr1", 100, "A", "T"}.String())
}
