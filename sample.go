package parquet2bcf

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/rs/zerolog/log"
)

// Sample is one genotype column of the output.
type Sample struct {
	SampleID string
}

// ReadSamples reads one sample identifier per line. Lines are taken verbatim
// apart from a trailing carriage return; lines that are empty or contain only
// whitespace are skipped. Repeated identifiers are kept, each as its own
// column.
func ReadSamples(r io.Reader) ([]Sample, error) {
	var samples []Sample

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		samples = append(samples, Sample{SampleID: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, pfx.Err(err)
	}

	return samples, nil
}

// SampleRegistry is the fixed column order of every genotype vector. It is
// read-only once built.
type SampleRegistry struct {
	samples []Sample

	// positions maps an identifier to every column it occupies.
	positions map[string][]int
}

// NewSampleRegistry indexes samples in the given order.
func NewSampleRegistry(samples []Sample) *SampleRegistry {
	sr := &SampleRegistry{
		samples:   samples,
		positions: make(map[string][]int, len(samples)),
	}
	for i, s := range samples {
		sr.positions[s.SampleID] = append(sr.positions[s.SampleID], i)
	}
	return sr
}

// LoadSamples reads the sample list at path, which may be local, gs:// and
// optionally gzip compressed.
func LoadSamples(ctx context.Context, path string) (*SampleRegistry, error) {
	r, err := openText(ctx, path)
	if err != nil {
		return nil, newError(ErrIO, componentSamples, err)
	}
	defer r.Close()

	samples, err := ReadSamples(r)
	if err != nil {
		return nil, newError(ErrIO, componentSamples, err)
	}

	sr := NewSampleRegistry(samples)
	if dup := len(samples) - len(sr.positions); dup > 0 {
		log.Warn().Str("path", path).Int("duplicates", dup).Msg("Sample list repeats identifiers; each line stays its own column")
	}

	return sr, nil
}

func (sr *SampleRegistry) Len() int {
	return len(sr.samples)
}

func (sr *SampleRegistry) Samples() []Sample {
	return sr.samples
}

// IDs returns the sample identifiers in column order.
func (sr *SampleRegistry) IDs() []string {
	ids := make([]string, len(sr.samples))
	for i, s := range sr.samples {
		ids[i] = s.SampleID
	}
	return ids
}

// Positions returns the columns held by id, or nil if id is not a sample.
func (sr *SampleRegistry) Positions(id string) []int {
	return sr.positions[id]
}
