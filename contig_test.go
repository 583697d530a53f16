package parquet2bcf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGRCh38(t *testing.T) {
	c := GRCh38()
	require.Equal(t, 25, c.Len())

	contigs := c.Contigs()
	assert.Equal(t, Contig{"chr1", 248956422}, contigs[0])
	assert.Equal(t, Contig{"chr22", 50818468}, contigs[21])
	assert.Equal(t, Contig{"chrX", 156040895}, contigs[22])
	assert.Equal(t, Contig{"chrY", 57227415}, contigs[23])
	assert.Equal(t, Contig{"chrM", 16569}, contigs[24])

	rid, ok := c.Lookup("chr10")
	assert.True(t, ok)
	assert.Equal(t, 9, rid)

	for _, name := range []string{"1", "chrMT", "chrUn", "CHR1"} {
		_, ok := c.Lookup(name)
		assert.False(t, ok, name)
	}
}

func TestGRCh38ReturnsIndependentCatalogs(t *testing.T) {
	a, b := GRCh38(), GRCh38()
	a.Contigs()[0].Length = 1

	assert.Equal(t, int64(248956422), b.Contigs()[0].Length)
}

func TestNewContigCatalogRejectsDuplicates(t *testing.T) {
	_, err := NewContigCatalog([]Contig{{"chr1", 10}, {"chr1", 20}})
	assert.Error(t, err)
}
