// Package parquet2bcf converts a long-format table of variant carriers, one
// row per (variant, carrier) observation, into a BCF genotype matrix with one
// record per unique variant and a GT column for every cohort sample.
package parquet2bcf

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/weinstockj/parquet2bcf/bcf"
)

// DefaultProgressInterval is how many variants pass between progress logs.
const DefaultProgressInterval = 10000

// Options configures a conversion run.
type Options struct {
	TablePath   string
	SamplesPath string
	OutputPath  string
	TableFormat TableFormat

	// Threads is handed to the BGZF encoder and never affects record order.
	Threads     int
	Compression bcf.Compression
	Phasing     Phasing

	// IndexPath, if set, receives a SQLite index of the written variants.
	IndexPath string

	ProgressInterval int

	// Catalog defaults to GRCh38.
	Catalog *ContigCatalog
	// Metrics defaults to a fresh, unexported set.
	Metrics *Metrics
}

// Stats summarises a finished run.
type Stats struct {
	Rows              int
	Samples           int
	Variants          int
	CarrierGenotypes  int
	UnmatchedCarriers int
}

// Convert loads the call table and sample list named in opts and writes the
// BCF. Any failure aborts the run; no partial-output mode exists.
func Convert(ctx context.Context, opts Options) (Stats, error) {
	opts = opts.withDefaults()

	start := time.Now()
	table, samples, err := Load(ctx, opts)
	if err != nil {
		recordFailure(opts.Metrics, err)
		return Stats{}, err
	}
	opts.Metrics.StageDuration.WithLabelValues("load").Set(time.Since(start).Seconds())

	return Write(ctx, table, samples, opts)
}

// Load reads the call table and the sample list concurrently.
func Load(ctx context.Context, opts Options) (*CallTable, *SampleRegistry, error) {
	var (
		table   *CallTable
		samples *SampleRegistry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		table, err = LoadTable(gctx, opts.TablePath, opts.TableFormat)
		if err != nil {
			return err
		}
		log.Info().Str("path", opts.TablePath).Int("rows", table.Len()).Msg("Read call table")
		return nil
	})
	g.Go(func() error {
		var err error
		samples, err = LoadSamples(gctx, opts.SamplesPath)
		if err != nil {
			return err
		}
		log.Info().Str("path", opts.SamplesPath).Int("samples", samples.Len()).Msg("Read samples")
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return table, samples, nil
}

// Write converts an in-memory table. Variants are emitted in first-occurrence
// order; the output file is flushed and closed on every return path and
// removed again if the run fails after creating it. A file already at the
// output path is untouched by failures that happen before that point.
func Write(ctx context.Context, table *CallTable, samples *SampleRegistry, opts Options) (stats Stats, err error) {
	opts = opts.withDefaults()
	m := opts.Metrics
	defer func() {
		if err != nil {
			recordFailure(m, err)
		}
	}()

	if err := table.Validate(); err != nil {
		return stats, err
	}
	stats.Rows = table.Len()
	stats.Samples = samples.Len()
	m.RowsRead.Add(float64(stats.Rows))
	m.Samples.Set(float64(stats.Samples))

	start := time.Now()
	variants := UniqueVariants(table)
	carriers := BuildCarrierIndex(table)
	m.StageDuration.WithLabelValues("group").Set(time.Since(start).Seconds())
	log.Info().Int("rows", stats.Rows).Int("variants", len(variants)).Msg("Grouped carriers by variant")

	header, err := BuildHeader(samples, opts.Catalog)
	if err != nil {
		return stats, err
	}

	w, err := bcf.Create(ExpandHome(opts.OutputPath), header, bcf.Options{
		Threads: opts.Threads,
		Level:   opts.Compression,
	})
	if err != nil {
		return stats, newError(ErrIO, componentAssembler, err)
	}
	// Closed on every path, and removed again if the run failed.
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = newError(ErrIO, componentAssembler, cerr)
		}
		if err != nil {
			if rerr := os.Remove(w.Path); rerr != nil && !os.IsNotExist(rerr) {
				log.Warn().Err(rerr).Str("path", w.Path).Msg("Could not remove incomplete output")
			}
		}
	}()

	var index *IndexWriter
	if opts.IndexPath != "" {
		if index, err = CreateIndex(opts.IndexPath); err != nil {
			return stats, err
		}
		defer func() {
			if err != nil {
				index.Abort()
			}
		}()
	}

	log.Info().
		Str("path", opts.OutputPath).
		Int("samples", stats.Samples).
		Int("contigs", opts.Catalog.Len()).
		Int("threads", opts.Threads).
		Msg("Now writing to bcf")

	start = time.Now()
	builder := NewMatrixBuilder(samples, NewGenotypeEncoding(opts.Phasing))
	assembler := NewAssembler(opts.Catalog, w)
	for i, k := range variants {
		if opts.ProgressInterval > 0 && i%opts.ProgressInterval == 0 {
			if err := ctx.Err(); err != nil {
				return stats, newError(ErrIO, componentAssembler, err)
			}
			log.Info().Int("variant", i).Int("of", len(variants)).Msg("Writing variants")
		}

		set := carriers.Carriers(k)
		gts, unmatched := builder.Build(set)
		if err := assembler.Emit(k, gts); err != nil {
			return stats, err
		}
		nCarriers := countCarriers(samples, set)
		if index != nil {
			if err := index.Add(k, nCarriers); err != nil {
				return stats, err
			}
		}

		stats.Variants++
		stats.CarrierGenotypes += nCarriers
		stats.UnmatchedCarriers += unmatched
	}

	if err := w.Close(); err != nil {
		return stats, newError(ErrIO, componentAssembler, err)
	}
	m.StageDuration.WithLabelValues("write").Set(time.Since(start).Seconds())

	if index != nil {
		if err := index.Finish(w.Path); err != nil {
			return stats, err
		}
	}

	m.VariantsWritten.Add(float64(stats.Variants))
	m.CarrierGenotypes.Add(float64(stats.CarrierGenotypes))
	m.UnmatchedCarriers.Add(float64(stats.UnmatchedCarriers))
	if stats.UnmatchedCarriers > 0 {
		log.Warn().Int("unmatched", stats.UnmatchedCarriers).Msg("Some carrier identifiers match no sample and were not written")
	}
	log.Info().Int("variants", stats.Variants).Int("carrier_genotypes", stats.CarrierGenotypes).Msg("Done writing variants to bcf")

	return stats, nil
}

// countCarriers counts the genotype columns set to the carrier genotype,
// which differs from len(set) when the sample list repeats identifiers.
func countCarriers(samples *SampleRegistry, set CarrierSet) int {
	n := 0
	for id := range set {
		n += len(samples.Positions(id))
	}
	return n
}

func (o Options) withDefaults() Options {
	if o.Catalog == nil {
		o.Catalog = GRCh38()
	}
	if o.Metrics == nil {
		o.Metrics = NewMetrics()
	}
	if o.Threads < 1 {
		o.Threads = 1
	}
	return o
}

func recordFailure(m *Metrics, err error) {
	component := "unknown"
	var ce *ConversionError
	if errors.As(err, &ce) {
		component = ce.Component
	}
	m.Failures.WithLabelValues(component).Inc()
}
