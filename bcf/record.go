package bcf

import (
	"fmt"
	"math"
	"strings"
)

// Record is one BCF site. Only the fields this package needs are modelled:
// QUAL and ID are always written as missing, FILTER as empty and INFO as
// absent. Genotypes, when present, become the GT FORMAT field.
type Record struct {
	RID       int
	Pos       int64 // 0-based
	Alleles   []string
	Genotypes []Genotype

	// Filled in by the reader only.
	ID     string
	Filter []int
}

// SetRID sets the CHROM index.
func (r *Record) SetRID(rid int) { r.RID = rid }

// SetPos sets the 0-based position.
func (r *Record) SetPos(pos int64) { r.Pos = pos }

// separatorOrSpace reports runes that cannot appear in a VCF allele: the
// ALT list separator, whitespace, control and non-ASCII characters.
func separatorOrSpace(r rune) bool {
	return r == ',' || r <= ' ' || r > '~'
}

// SetAlleles replaces the REF and ALT alleles. The first allele is REF.
func (r *Record) SetAlleles(alleles ...string) error {
	if len(alleles) == 0 {
		return fmt.Errorf("a record needs at least a reference allele")
	}
	for i, a := range alleles {
		if a == "" {
			return fmt.Errorf("allele %d is empty", i)
		}
		if j := strings.IndexFunc(a, separatorOrSpace); j >= 0 {
			return fmt.Errorf("allele %d (%q) contains %q", i, a, a[j])
		}
	}
	r.Alleles = append(r.Alleles[:0], alleles...)
	return nil
}

// SetGenotypes attaches one genotype per header sample, in header order. The
// slice is retained, not copied, until the record is written.
func (r *Record) SetGenotypes(gts []Genotype) { r.Genotypes = gts }

// Reset clears the record for reuse.
func (r *Record) Reset() {
	r.RID, r.Pos = 0, 0
	r.Alleles = r.Alleles[:0]
	r.Genotypes = nil
	r.ID = ""
	r.Filter = r.Filter[:0]
}

// encodeShared writes the site-level block.
func (r *Record) encodeShared(e *encoder, nSamples, nFormats int) {
	rlen := 0
	if len(r.Alleles) > 0 {
		rlen = len(r.Alleles[0])
	}
	e.int32(int32(r.RID))
	e.int32(int32(r.Pos))
	e.int32(int32(rlen))
	e.uint32(missingFloat)
	e.uint32(uint32(len(r.Alleles)) << 16) // n_info is always 0
	e.uint32(uint32(nFormats)<<24 | uint32(nSamples))
	e.typedString(r.ID)
	for _, a := range r.Alleles {
		e.typedString(a)
	}
	e.descriptor(0, TypeMissing) // FILTER
}

// encodeGenotypes writes the GT FORMAT field for every sample. All samples
// must share one ploidy.
func (r *Record) encodeGenotypes(e *encoder, gtKey int) error {
	ploidy := 0
	if len(r.Genotypes) > 0 {
		ploidy = len(r.Genotypes[0])
	}
	var lo, hi int64 = math.MaxInt64, math.MinInt64
	for i, g := range r.Genotypes {
		if len(g) != ploidy {
			return fmt.Errorf("sample %d has ploidy %d; expected %d", i, len(g), ploidy)
		}
		for _, a := range g {
			if a.Index >= len(r.Alleles) {
				return fmt.Errorf("sample %d calls allele %d but the record has %d alleles", i, a.Index, len(r.Alleles))
			}
			v := a.encode()
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	if ploidy == 0 {
		lo, hi = 0, 0
	}
	t := smallestIntType(lo, hi)

	e.typedInt(int64(gtKey))
	e.descriptor(ploidy, t)
	for _, g := range r.Genotypes {
		for _, a := range g {
			e.intValue(t, a.encode())
		}
	}
	return nil
}
