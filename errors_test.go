package parquet2bcf

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversionErrorMessage(t *testing.T) {
	err := newVariantError(ErrUnknownContig, componentAssembler, VariantKey{"chr99", 7, "C", "G"}, errors.New("not declared"))
	assert.Equal(t, "output assembler: unknown contig: variant chr99:7:C:G: not declared", err.Error())

	err = newRowError(ErrSchema, componentTable, 12, errors.New("column \"pos\" is null"))
	assert.Equal(t, "call table: schema error: row 12: column \"pos\" is null", err.Error())
}

func TestConversionErrorUnwrap(t *testing.T) {
	err := newError(ErrIO, componentSamples, io.ErrUnexpectedEOF)

	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.NotErrorIs(t, err, ErrSchema)
}
