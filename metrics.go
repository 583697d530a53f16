package parquet2bcf

import (
	"github.com/carbocation/pfx"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for one conversion run. A batch
// job has nothing to scrape, so the registry is exported to a node_exporter
// textfile at the end of the run.
type Metrics struct {
	registry *prometheus.Registry

	RowsRead          prometheus.Counter
	Samples           prometheus.Gauge
	VariantsWritten   prometheus.Counter
	CarrierGenotypes  prometheus.Counter
	UnmatchedCarriers prometheus.Counter
	StageDuration     *prometheus.GaugeVec
	Failures          *prometheus.CounterVec
}

// NewMetrics creates and registers all collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "parquet2bcf_call_rows_total",
			Help: "Rows read from the long-format call table.",
		}),
		Samples: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "parquet2bcf_samples",
			Help: "Genotype columns in the output.",
		}),
		VariantsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "parquet2bcf_variants_written_total",
			Help: "BCF records written.",
		}),
		CarrierGenotypes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "parquet2bcf_carrier_genotypes_total",
			Help: "Heterozygous genotypes written.",
		}),
		UnmatchedCarriers: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "parquet2bcf_unmatched_carriers_total",
			Help: "Carrier identifiers that matched no sample.",
		}),
		StageDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "parquet2bcf_stage_duration_seconds",
			Help: "Wall time spent per conversion stage.",
		}, []string{"stage"}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "parquet2bcf_failures_total",
			Help: "Failed runs by component.",
		}, []string{"component"}),
	}

	m.registry.MustRegister(
		m.RowsRead,
		m.Samples,
		m.VariantsWritten,
		m.CarrierGenotypes,
		m.UnmatchedCarriers,
		m.StageDuration,
		m.Failures,
	)

	return m
}

// Registry exposes the collectors, e.g. for tests or an HTTP handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteToTextfile writes the current values in the text exposition format.
func (m *Metrics) WriteToTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return pfx.Err(err)
	}
	return nil
}
