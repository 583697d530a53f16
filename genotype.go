package parquet2bcf

import (
	"fmt"

	"github.com/weinstockj/parquet2bcf/bcf"
)

// Phasing selects how the ALT allele of a carrier genotype is flagged. The
// REF allele of a carrier is always unphased.
type Phasing uint8

const (
	// PhasingUnphased writes carriers as 0/1.
	PhasingUnphased Phasing = iota
	// PhasingPhased writes carriers as 0|1.
	PhasingPhased
)

func (p Phasing) String() string {
	switch p {
	case PhasingUnphased:
		return "unphased"
	case PhasingPhased:
		return "phased"

	default:
		return "Illegal selection"
	}
}

// ParsePhasing maps the String form back to a Phasing.
func ParsePhasing(s string) (Phasing, error) {
	switch s {
	case "unphased":
		return PhasingUnphased, nil
	case "phased":
		return PhasingPhased, nil
	}
	return 0, fmt.Errorf("unknown carrier phasing %q; expected unphased or phased", s)
}

// GenotypeEncoding holds the only two genotypes a sample can take.
type GenotypeEncoding struct {
	NonCarrier bcf.Genotype
	Carrier    bcf.Genotype
}

// NewGenotypeEncoding returns homozygous-reference 0|0 for non-carriers and
// a heterozygous call phased according to p for carriers.
func NewGenotypeEncoding(p Phasing) GenotypeEncoding {
	carrier := bcf.Genotype{bcf.Unphased(0), bcf.Unphased(1)}
	if p == PhasingPhased {
		carrier[1] = bcf.Phased(1)
	}

	return GenotypeEncoding{
		NonCarrier: bcf.Genotype{bcf.Phased(0), bcf.Phased(0)},
		Carrier:    carrier,
	}
}
