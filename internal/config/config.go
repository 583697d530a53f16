// Package config resolves the converter's settings from, in increasing
// precedence: built-in defaults, an optional YAML file, PARQUET2BCF_*
// environment variables and command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/weinstockj/parquet2bcf"
	"github.com/weinstockj/parquet2bcf/bcf"
)

const envPrefix = "PARQUET2BCF"

type Config struct {
	TablePath   string `yaml:"parquet_path" envconfig:"PARQUET_PATH"`
	SamplesPath string `yaml:"samples_path" envconfig:"SAMPLES_PATH"`
	OutputPath  string `yaml:"output_path" envconfig:"OUTPUT_PATH"`
	Threads     int    `yaml:"n_threads" envconfig:"N_THREADS"`

	TableFormat      string `yaml:"table_format" envconfig:"TABLE_FORMAT"`
	CarrierPhasing   string `yaml:"carrier_phasing" envconfig:"CARRIER_PHASING"`
	Compression      string `yaml:"compression" envconfig:"COMPRESSION"`
	IndexPath        string `yaml:"index_path" envconfig:"INDEX_PATH"`
	MetricsPath      string `yaml:"metrics_path" envconfig:"METRICS_PATH"`
	LogLevel         string `yaml:"log_level" envconfig:"LOG_LEVEL"`
	ProgressInterval int    `yaml:"progress_interval" envconfig:"PROGRESS_INTERVAL"`
}

// Default returns the settings used when nothing overrides them.
func Default() *Config {
	return &Config{
		TablePath:        "test_variants.parquet",
		SamplesPath:      "samples.txt",
		OutputPath:       "output.bcf",
		Threads:          2,
		TableFormat:      parquet2bcf.TableAuto.String(),
		CarrierPhasing:   parquet2bcf.PhasingUnphased.String(),
		Compression:      bcf.CompressionDefault.String(),
		LogLevel:         zerolog.InfoLevel.String(),
		ProgressInterval: parquet2bcf.DefaultProgressInterval,
	}
}

// bind registers every setting as a flag writing into c. Both -name and
// --name are accepted.
func bind(fs *flag.FlagSet, c *Config) {
	fs.StringVar(&c.TablePath, "parquet-path", c.TablePath, "Long-format call table (parquet, or .tsv/.csv optionally gzipped; gs:// accepted)")
	fs.StringVar(&c.SamplesPath, "samples-path", c.SamplesPath, "Sample list, one identifier per line")
	fs.StringVar(&c.OutputPath, "output-path", c.OutputPath, "BCF file to write")
	fs.IntVar(&c.Threads, "n-threads", c.Threads, "BGZF compression threads")
	fs.StringVar(&c.TableFormat, "table-format", c.TableFormat, "Call table format: auto, parquet or tsv")
	fs.StringVar(&c.CarrierPhasing, "carrier-phasing", c.CarrierPhasing, "Carrier genotype: unphased (0/1) or phased (0|1)")
	fs.StringVar(&c.Compression, "compression", c.Compression, "BGZF compression: default, none, fastest or best")
	fs.StringVar(&c.IndexPath, "index-path", c.IndexPath, "Optional SQLite index of written variants")
	fs.StringVar(&c.MetricsPath, "metrics-path", c.MetricsPath, "Optional Prometheus textfile for run metrics")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level: debug, info, warn or error")
	fs.IntVar(&c.ProgressInterval, "progress-interval", c.ProgressInterval, "Log progress every N variants (0 disables)")
}

// Load resolves the configuration for the given command-line arguments.
// flag.ErrHelp is returned unchanged when -h was requested.
func Load(args []string, output io.Writer) (*Config, error) {
	fromFlags := Default()
	fs := flag.NewFlagSet("parquet2bcf", flag.ContinueOnError)
	fs.SetOutput(output)
	configPath := fs.String("config", "", "Optional YAML configuration file")
	bind(fs, fromFlags)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	c := Default()
	if *configPath != "" {
		if err := c.loadFile(*configPath); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process(envPrefix, c); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	// Flags given explicitly win over everything else.
	overrides := flag.NewFlagSet("overrides", flag.ContinueOnError)
	bind(overrides, c)
	var setErr error
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			return
		}
		if err := overrides.Set(f.Name, f.Value.String()); err != nil && setErr == nil {
			setErr = err
		}
	})
	if setErr != nil {
		return nil, setErr
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(parquet2bcf.ExpandHome(path))
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.TablePath == "" {
		errs = append(errs, errors.New("parquet path is required"))
	}
	if c.SamplesPath == "" {
		errs = append(errs, errors.New("samples path is required"))
	}
	if c.OutputPath == "" {
		errs = append(errs, errors.New("output path is required"))
	}
	if c.Threads < 1 {
		errs = append(errs, fmt.Errorf("n-threads must be at least 1, got %d", c.Threads))
	}
	if c.ProgressInterval < 0 {
		errs = append(errs, fmt.Errorf("progress interval must not be negative, got %d", c.ProgressInterval))
	}
	if _, err := parquet2bcf.ParseTableFormat(c.TableFormat); err != nil {
		errs = append(errs, err)
	}
	if _, err := parquet2bcf.ParsePhasing(c.CarrierPhasing); err != nil {
		errs = append(errs, err)
	}
	if _, err := bcf.ParseCompression(c.Compression); err != nil {
		errs = append(errs, err)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Level is the parsed log level. Call only after Validate.
func (c *Config) Level() zerolog.Level {
	level, _ := zerolog.ParseLevel(c.LogLevel)
	return level
}

// Options translates the configuration into conversion options. Call only
// after Validate.
func (c *Config) Options() parquet2bcf.Options {
	format, _ := parquet2bcf.ParseTableFormat(c.TableFormat)
	phasing, _ := parquet2bcf.ParsePhasing(c.CarrierPhasing)
	compression, _ := bcf.ParseCompression(c.Compression)

	return parquet2bcf.Options{
		TablePath:        c.TablePath,
		SamplesPath:      c.SamplesPath,
		OutputPath:       c.OutputPath,
		TableFormat:      format,
		Threads:          c.Threads,
		Compression:      compression,
		Phasing:          phasing,
		IndexPath:        c.IndexPath,
		ProgressInterval: c.ProgressInterval,
	}
}
