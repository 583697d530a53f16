package parquet2bcf

import "github.com/weinstockj/parquet2bcf/bcf"

// MatrixBuilder turns a CarrierSet into a genotype vector over the sample
// registry. It reuses one scratch vector, so each result is only valid until
// the next call to Build.
type MatrixBuilder struct {
	samples  *SampleRegistry
	encoding GenotypeEncoding
	scratch  []bcf.Genotype
}

func NewMatrixBuilder(samples *SampleRegistry, encoding GenotypeEncoding) *MatrixBuilder {
	return &MatrixBuilder{
		samples:  samples,
		encoding: encoding,
		scratch:  make([]bcf.Genotype, samples.Len()),
	}
}

// Build returns one genotype per sample, in registry order: the carrier
// genotype for every column whose identifier is in carriers, the
// non-carrier genotype elsewhere. unmatched counts carriers that are not in
// the registry; they do not appear in the vector.
func (m *MatrixBuilder) Build(carriers CarrierSet) (gts []bcf.Genotype, unmatched int) {
	for i := range m.scratch {
		m.scratch[i] = m.encoding.NonCarrier
	}

	for id := range carriers {
		positions := m.samples.Positions(id)
		if len(positions) == 0 {
			unmatched++
			continue
		}
		for _, i := range positions {
			m.scratch[i] = m.encoding.Carrier
		}
	}

	return m.scratch, unmatched
}
