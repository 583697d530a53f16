package parquet2bcf

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weinstockj/parquet2bcf/bcf"
)

// capture records a copy of every record handed to it.
type capture struct {
	records []bcf.Record
	err     error
}

func (c *capture) Write(r *bcf.Record) error {
	if c.err != nil {
		return c.err
	}
	cp := *r
	cp.Alleles = append([]string(nil), r.Alleles...)
	cp.Genotypes = append([]bcf.Genotype(nil), r.Genotypes...)
	c.records = append(c.records, cp)
	return nil
}

func TestBuildHeader(t *testing.T) {
	samples := NewSampleRegistry([]Sample{{"s1"}, {"s2"}})
	h, err := BuildHeader(samples, GRCh38())
	require.NoError(t, err)

	assert.Equal(t, []string{"s1", "s2"}, h.Samples())
	require.Len(t, h.Contigs(), 25)
	assert.Equal(t, "chr1", h.Contigs()[0].ID)
	assert.Equal(t, "chrM", h.Contigs()[24].ID)
	assert.Equal(t, []bcf.Format{bcf.GenotypeFormat}, h.Formats())
	assert.Contains(t, h.Text(), `##FORMAT=<ID=GT,Number=1,Type=String,Description="Genotype">`)
}

func TestAssemblerEmit(t *testing.T) {
	c := &capture{}
	a := NewAssembler(GRCh38(), c)
	gts := []bcf.Genotype{{bcf.Unphased(0), bcf.Unphased(1)}}

	require.NoError(t, a.Emit(VariantKey{"chr2", 50, "G", "C"}, gts))
	require.NoError(t, a.Emit(VariantKey{"chrX", 1, "AT", "A"}, gts))

	require.Len(t, c.records, 2)
	assert.Equal(t, 1, c.records[0].RID)
	assert.Equal(t, int64(49), c.records[0].Pos)
	assert.Equal(t, []string{"G", "C"}, c.records[0].Alleles)
	assert.Equal(t, gts, c.records[0].Genotypes)

	assert.Equal(t, 22, c.records[1].RID)
	assert.Equal(t, int64(0), c.records[1].Pos)
	assert.Equal(t, []string{"AT", "A"}, c.records[1].Alleles)
}

func TestAssemblerUnknownContig(t *testing.T) {
	c := &capture{}
	err := NewAssembler(GRCh38(), c).Emit(VariantKey{"chrUn", 5, "A", "T"}, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownContig)
	assert.Contains(t, err.Error(), "chrUn:5:A:T")
	assert.Empty(t, c.records)
}

func TestAssemblerRejectsMalformedAlleles(t *testing.T) {
	c := &capture{}
	a := NewAssembler(GRCh38(), c)

	for _, k := range []VariantKey{
		{"chr1", 5, "", "T"},
		{"chr1", 5, "A", ""},
		{"chr1", 5, "A", "T,G"},
		{"chr1", 5, "A T", "G"},
		{"chr1", 5, "A", "T\tX"},
		{"chr1", 5, "A", "T\n"},
		{"chr1", 5, "R", "T"},
		{"chr1", 5, "A", "."},
		{"chr1", 5, "A", "<>"},
		{"chr1", 5, "A", "<DEL,DUP>"},
	} {
		err := a.Emit(k, nil)
		assert.ErrorIs(t, err, ErrAlleleEncoding, "%q", k.String())
	}
	assert.Empty(t, c.records)
}

func TestAssemblerAcceptsVCFAlleles(t *testing.T) {
	c := &capture{}
	a := NewAssembler(GRCh38(), c)

	for _, k := range []VariantKey{
		{"chr1", 5, "acgtn", "A"},
		{"chr1", 5, "A", "*"},
		{"chr1", 5, "A", "<DEL>"},
		{"chr1", 5, "A", "<INS:ME:ALU>"},
	} {
		assert.NoError(t, a.Emit(k, nil), "%q", k.String())
	}
	assert.Len(t, c.records, 4)
}

func TestAssemblerEncodingFailure(t *testing.T) {
	c := &capture{err: errors.New("disk full")}
	err := NewAssembler(GRCh38(), c).Emit(VariantKey{"chr1", 5, "A", "T"}, nil)

	assert.ErrorIs(t, err, ErrEncoding)
	assert.Contains(t, err.Error(), "disk full")
}
