package bcf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenotypeEncoding(t *testing.T) {
	cases := []struct {
		allele GenotypeAllele
		want   int64
	}{
		{Unphased(0), 2},
		{Phased(0), 3},
		{Unphased(1), 4},
		{Phased(1), 5},
		{GenotypeAllele{Index: -1}, 0},
		{GenotypeAllele{Index: -1, Phased: true}, 1},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, c.allele.encode(), "%+v", c.allele)
		assert.Equal(t, c.allele, decodeAllele(c.want))
	}
}

func TestParseGenotype(t *testing.T) {
	cases := map[string]Genotype{
		"0|0": {Phased(0), Phased(0)},
		"0/1": {Unphased(0), Unphased(1)},
		"1|0": {Phased(1), Phased(0)},
		"./.": {{Index: -1}, {Index: -1}},
		"1":   {Unphased(1)},
	}

	for in, want := range cases {
		got, err := ParseGenotype(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%s: got %v", in, got)
		assert.Equal(t, in, got.String())
	}

	_, err := ParseGenotype("0/x")
	assert.Error(t, err)
}
