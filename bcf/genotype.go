package bcf

import (
	"fmt"
	"strconv"
	"strings"
)

// GenotypeAllele is one allele call of a genotype. Phased refers to the
// separator preceding this allele, so the phase bit of the first allele is
// carried through the encoding but ignored when rendering.
type GenotypeAllele struct {
	Index  int
	Phased bool
}

// Phased returns a phased call of allele index i.
func Phased(i int) GenotypeAllele { return GenotypeAllele{Index: i, Phased: true} }

// Unphased returns an unphased call of allele index i.
func Unphased(i int) GenotypeAllele { return GenotypeAllele{Index: i} }

// encode packs the allele into the BCF GT integer form. A missing call
// (negative index) keeps only the phase bit.
func (a GenotypeAllele) encode() int64 {
	var v int64
	if a.Index >= 0 {
		v = int64(a.Index+1) << 1
	}
	if a.Phased {
		v |= 1
	}
	return v
}

func decodeAllele(v int64) GenotypeAllele {
	return GenotypeAllele{Index: int(v>>1) - 1, Phased: v&1 == 1}
}

// Genotype is the ordered list of allele calls for one sample. Every sample
// in a record must carry the same ploidy.
type Genotype []GenotypeAllele

// String renders the genotype in VCF notation, e.g. "0|0" or "0/1".
func (g Genotype) String() string {
	var sb strings.Builder
	for i, a := range g {
		if i > 0 {
			if a.Phased {
				sb.WriteByte('|')
			} else {
				sb.WriteByte('/')
			}
		}
		if a.Index < 0 {
			sb.WriteByte('.')
			continue
		}
		sb.WriteString(strconv.Itoa(a.Index))
	}
	return sb.String()
}

// Equal reports whether g and o carry the same alleles and phase bits.
func (g Genotype) Equal(o Genotype) bool {
	if len(g) != len(o) {
		return false
	}
	for i := range g {
		if g[i] != o[i] {
			return false
		}
	}
	return true
}

// ParseGenotype reads VCF notation such as "0/1" or "1|0". The first allele
// takes the phase of the separator that follows it, matching how htslib
// encodes phased genotypes.
func ParseGenotype(s string) (Genotype, error) {
	var g Genotype
	start := 0
	phased := false
	for i := 0; i <= len(s); i++ {
		if i < len(s) && s[i] != '/' && s[i] != '|' {
			continue
		}
		field := s[start:i]
		idx := -1
		if field != "." {
			v, err := strconv.Atoi(field)
			if err != nil || v < 0 {
				return nil, fmt.Errorf("invalid allele %q in genotype %q", field, s)
			}
			idx = v
		}
		g = append(g, GenotypeAllele{Index: idx, Phased: phased})
		if i < len(s) {
			phased = s[i] == '|'
		}
		start = i + 1
	}
	if len(g) > 1 {
		g[0].Phased = g[1].Phased
	}
	return g, nil
}
