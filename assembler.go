package parquet2bcf

import (
	"fmt"
	"strings"

	"github.com/weinstockj/parquet2bcf/bcf"
)

// BuildHeader assembles the file metadata: the sample columns in registry
// order, then every catalog contig in catalog order, then the GT FORMAT
// declaration.
func BuildHeader(samples *SampleRegistry, catalog *ContigCatalog) (*bcf.Header, error) {
	h := bcf.NewHeader()

	for i, s := range samples.Samples() {
		if err := h.AddSample(s.SampleID); err != nil {
			return nil, newError(ErrEncoding, componentAssembler, fmt.Errorf("sample %d: %w", i, err))
		}
	}
	for _, c := range catalog.Contigs() {
		if err := h.AddContig(c.Name, c.Length); err != nil {
			return nil, newError(ErrEncoding, componentAssembler, err)
		}
	}
	if err := h.AddFormat(bcf.GenotypeFormat); err != nil {
		return nil, newError(ErrEncoding, componentAssembler, err)
	}

	return h, nil
}

// RecordWriter consumes encoded records in the order they are given.
type RecordWriter interface {
	Write(*bcf.Record) error
}

// Assembler turns (variant, genotype vector) pairs into records. It reuses a
// single record, so it is not safe for concurrent use.
type Assembler struct {
	catalog *ContigCatalog
	w       RecordWriter
	record  bcf.Record
}

func NewAssembler(catalog *ContigCatalog, w RecordWriter) *Assembler {
	return &Assembler{
		catalog: catalog,
		w:       w,
	}
}

// Emit writes one record for k carrying gts. Positions are converted from
// 1-based to 0-based.
func (a *Assembler) Emit(k VariantKey, gts []bcf.Genotype) error {
	rid, ok := a.catalog.Lookup(k.Chrom)
	if !ok {
		return newVariantError(ErrUnknownContig, componentAssembler, k,
			fmt.Errorf("contig %q is not in the reference catalog", k.Chrom))
	}
	if k.Pos < 1 {
		return newVariantError(ErrSchema, componentAssembler, k, fmt.Errorf("position %d is not 1-based", k.Pos))
	}

	if err := checkAlleles(k); err != nil {
		return newVariantError(ErrAlleleEncoding, componentAssembler, k, err)
	}

	r := &a.record
	r.Reset()
	r.SetRID(rid)
	r.SetPos(k.Pos - 1)
	if err := r.SetAlleles(k.Ref, k.Alt); err != nil {
		return newVariantError(ErrAlleleEncoding, componentAssembler, k, err)
	}
	r.SetGenotypes(gts)

	if err := a.w.Write(r); err != nil {
		return newVariantError(ErrEncoding, componentAssembler, k, err)
	}

	r.SetGenotypes(nil)
	return nil
}

// checkAlleles accepts a REF of nucleotides and an ALT that is either
// nucleotides, the spanning deletion "*" or a symbolic allele such as <DEL>.
// Case is not significant.
func checkAlleles(k VariantKey) error {
	if k.Ref == "" || k.Alt == "" {
		return fmt.Errorf("empty allele")
	}
	if !isBases(k.Ref) {
		return fmt.Errorf("reference allele %q is not a nucleotide sequence", k.Ref)
	}
	switch {
	case isBases(k.Alt), k.Alt == "*":
	case len(k.Alt) > 2 && k.Alt[0] == '<' && k.Alt[len(k.Alt)-1] == '>' &&
		!strings.ContainsAny(k.Alt[1:len(k.Alt)-1], "<>, \t\r\n"):
	default:
		return fmt.Errorf("alternate allele %q is not a nucleotide sequence, * or <ID>", k.Alt)
	}
	return nil
}

func isBases(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'A', 'C', 'G', 'T', 'N', 'a', 'c', 'g', 't', 'n':
		default:
			return false
		}
	}
	return s != ""
}
