package parquet2bcf

import (
	"fmt"

	"github.com/carbocation/pfx"
)

// Contig is a reference sequence and its length in bases.
type Contig struct {
	Name   string
	Length int64
}

// ContigCatalog is an ordered, immutable set of contigs. Its order is the
// order of the ##contig lines and therefore the CHROM index of every record.
type ContigCatalog struct {
	contigs []Contig
	index   map[string]int
}

// NewContigCatalog copies contigs into a catalog. Names must be unique.
func NewContigCatalog(contigs []Contig) (*ContigCatalog, error) {
	c := &ContigCatalog{
		contigs: make([]Contig, len(contigs)),
		index:   make(map[string]int, len(contigs)),
	}
	copy(c.contigs, contigs)

	for i, contig := range c.contigs {
		if _, exists := c.index[contig.Name]; exists {
			return nil, pfx.Err(fmt.Errorf("contig %s appears twice in the catalog", contig.Name))
		}
		c.index[contig.Name] = i
	}

	return c, nil
}

// GRCh38 returns the primary GRCh38 assembly with UCSC-style names: chr1-22,
// chrX, chrY and chrM.
func GRCh38() *ContigCatalog {
	c, err := NewContigCatalog([]Contig{
		{"chr1", 248956422},
		{"chr2", 242193529},
		{"chr3", 198295559},
		{"chr4", 190214555},
		{"chr5", 181538259},
		{"chr6", 170805979},
		{"chr7", 159345973},
		{"chr8", 145138636},
		{"chr9", 138394717},
		{"chr10", 133797422},
		{"chr11", 135086622},
		{"chr12", 133275309},
		{"chr13", 114364328},
		{"chr14", 107043718},
		{"chr15", 101991189},
		{"chr16", 90338345},
		{"chr17", 83257441},
		{"chr18", 80373285},
		{"chr19", 58617616},
		{"chr20", 64444167},
		{"chr21", 46709983},
		{"chr22", 50818468},
		{"chrX", 156040895},
		{"chrY", 57227415},
		{"chrM", 16569},
	})
	if err != nil {
		panic(err)
	}
	return c
}

// Contigs returns the catalog in order. The slice must not be modified.
func (c *ContigCatalog) Contigs() []Contig {
	return c.contigs
}

// Lookup returns the index of the named contig.
func (c *ContigCatalog) Lookup(name string) (int, bool) {
	i, ok := c.index[name]
	return i, ok
}

func (c *ContigCatalog) Len() int {
	return len(c.contigs)
}
