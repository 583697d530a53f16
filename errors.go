package parquet2bcf

import (
	"errors"
	"fmt"
	"strings"
)

// Failure kinds. Every error returned by this package matches exactly one of
// these with errors.Is.
var (
	ErrIO             = errors.New("io error")
	ErrSchema         = errors.New("schema error")
	ErrUnknownContig  = errors.New("unknown contig")
	ErrAlleleEncoding = errors.New("allele encoding error")
	ErrEncoding       = errors.New("encoding error")
)

const (
	componentSamples   = "sample registry"
	componentTable     = "call table"
	componentDedup     = "variant deduplicator"
	componentCarriers  = "carrier index"
	componentMatrix    = "genotype matrix builder"
	componentAssembler = "output assembler"
	componentIndex     = "variant index"
)

// ConversionError reports which component failed and, when known, the
// offending table row or variant.
type ConversionError struct {
	Kind      error
	Component string
	Row       int // zero-based table row, -1 if not applicable
	Variant   *VariantKey
	Err       error
}

func newError(kind error, component string, err error) *ConversionError {
	return &ConversionError{Kind: kind, Component: component, Row: -1, Err: err}
}

func newRowError(kind error, component string, row int, err error) *ConversionError {
	e := newError(kind, component, err)
	e.Row = row
	return e
}

func newVariantError(kind error, component string, v VariantKey, err error) *ConversionError {
	e := newError(kind, component, err)
	e.Variant = &v
	return e
}

func (e *ConversionError) Error() string {
	parts := []string{e.Component, e.Kind.Error()}
	if e.Row >= 0 {
		parts = append(parts, fmt.Sprintf("row %d", e.Row))
	}
	if e.Variant != nil {
		parts = append(parts, "variant "+e.Variant.String())
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *ConversionError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
