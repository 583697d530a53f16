// Command parquet2bcf converts a long-format table of variant carriers into a
// BCF genotype matrix covering every sample in a cohort list.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/weinstockj/parquet2bcf"
	"github.com/weinstockj/parquet2bcf/internal/config"
)

func main() {
	cfg, err := config.Load(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	zerolog.SetGlobalLevel(cfg.Level())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := cfg.Options()
	opts.TablePath = parquet2bcf.ExpandHome(opts.TablePath)
	opts.SamplesPath = parquet2bcf.ExpandHome(opts.SamplesPath)
	opts.OutputPath = parquet2bcf.ExpandHome(opts.OutputPath)
	opts.IndexPath = parquet2bcf.ExpandHome(opts.IndexPath)
	opts.Metrics = parquet2bcf.NewMetrics()

	log.Info().
		Str("table", opts.TablePath).
		Str("samples", opts.SamplesPath).
		Str("output", opts.OutputPath).
		Int("threads", opts.Threads).
		Str("phasing", opts.Phasing.String()).
		Msg("Starting conversion")

	stats, err := parquet2bcf.Convert(ctx, opts)

	if cfg.MetricsPath != "" {
		if merr := opts.Metrics.WriteToTextfile(parquet2bcf.ExpandHome(cfg.MetricsPath)); merr != nil {
			log.Error().Err(merr).Str("path", cfg.MetricsPath).Msg("Could not write metrics")
		}
	}

	if err != nil {
		event := log.Fatal().Err(err)
		var cerr *parquet2bcf.ConversionError
		if errors.As(err, &cerr) {
			event = event.Str("component", cerr.Component)
			if cerr.Variant != nil {
				event = event.Stringer("variant", cerr.Variant)
			}
		}
		event.Msg("Conversion failed")
	}

	log.Info().
		Int("rows", stats.Rows).
		Int("samples", stats.Samples).
		Int("variants", stats.Variants).
		Int("carrier_genotypes", stats.CarrierGenotypes).
		Int("unmatched_carriers", stats.UnmatchedCarriers).
		Str("output", opts.OutputPath).
		Msg("Conversion complete")
}
