// Package config loads the run configuration of the demsweep tool from
// defaults, environment variables (prefix DEMS) and an optional YAML file.
package config

import (
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/sartorproj/godems/baseline"
	"github.com/sartorproj/godems/experiment"
	"github.com/sartorproj/godems/integrate"
	"github.com/sartorproj/godems/sweep"
	"github.com/sartorproj/godems/timeseries"
)

// EnvPrefix prefixes every environment variable, e.g. DEMS_SWEEP_TIME_SHIFTS.
const EnvPrefix = "DEMS"

// Config is the run configuration.
type Config struct {
	Sweep    SweepConfig    `yaml:"sweep" envconfig:"SWEEP"`
	Baseline BaselineConfig `yaml:"baseline" envconfig:"BASELINE"`
	Data     DataConfig     `yaml:"data" envconfig:"DATA"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	// Limits are keyed by region name, e.g. "Q_tot_j".
	Limits map[string]integrate.LimitSpec `yaml:"limits" ignored:"true"`
}

// SweepConfig holds the parameter grid.
type SweepConfig struct {
	TimeShifts       []float64 `yaml:"time_shifts" envconfig:"TIME_SHIFTS" default:"-0.3,-0.35,-0.4,-0.45" validate:"min=1"`
	KShifts          []float64 `yaml:"k_shifts" envconfig:"K_SHIFTS" default:"-0.02,0,0.02" validate:"min=1"`
	FixedKs          []float64 `yaml:"fixed_ks" envconfig:"FIXED_KS" validate:"dive,gt=0"`
	VertexLimitLower *float64  `yaml:"vertex_limit_lower" envconfig:"VERTEX_LIMIT_LOWER"`
	VertexLimitUpper *float64  `yaml:"vertex_limit_upper" envconfig:"VERTEX_LIMIT_UPPER"`
	Filter           bool      `yaml:"filter" envconfig:"FILTER" default:"false"`
	Workers          int       `yaml:"workers" envconfig:"WORKERS" validate:"gte=0"`
}

// BaselineConfig holds the ion current correction window and filter.
type BaselineConfig struct {
	Mass        int `yaml:"mass" envconfig:"MASS" default:"44" validate:"gt=0"`
	Start       int `yaml:"start" envconfig:"START" default:"0" validate:"gte=0"`
	Stop        int `yaml:"stop" envconfig:"STOP" default:"50" validate:"gtfield=Start"`
	FilterWidth int `yaml:"filter_width" envconfig:"FILTER_WIDTH" default:"9" validate:"gt=0"`
}

// DataConfig describes the measurement files.
type DataConfig struct {
	ElectrodeDiameter float64 `yaml:"electrode_diameter" envconfig:"ELECTRODE_DIAMETER" default:"0.7" validate:"gt=0"`
	Extension         string  `yaml:"extension" envconfig:"EXTENSION" default:".csv" validate:"required"`
	Delimiter         string  `yaml:"delimiter" envconfig:"DELIMITER" default:"," validate:"len=1"`
}

// LoggingConfig selects the log level and format.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=trace debug info warn warning error"`
	Format string `yaml:"format" envconfig:"FORMAT" default:"text" validate:"oneof=text json"`
}

var validate = validator.New()

// Load reads defaults and the environment, then applies the YAML file at
// path when path is not empty. Values in the file win.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field ranges and region names.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if _, err := integrate.ParseLimits(c.Limits); err != nil {
		return fmt.Errorf("limits: %w", err)
	}
	return nil
}

// BaselineOptions returns the baseline correction options.
func (c *Config) BaselineOptions() baseline.Options {
	return baseline.Options{
		Mass:        c.Baseline.Mass,
		Start:       c.Baseline.Start,
		Stop:        c.Baseline.Stop,
		FilterWidth: c.Baseline.FilterWidth,
	}
}

// LoaderOptions returns the cycle loading options.
func (c *Config) LoaderOptions(logger logrus.FieldLogger) experiment.LoaderOptions {
	csv := timeseries.DefaultCSVOptions()
	csv.Extension = c.Data.Extension
	if r, _ := utf8.DecodeRuneInString(c.Data.Delimiter); r != utf8.RuneError {
		csv.Delimiter = r
	}
	return experiment.LoaderOptions{
		CSV:               csv,
		ElectrodeDiameter: c.Data.ElectrodeDiameter,
		Workers:           c.Sweep.Workers,
		Logger:            logger,
	}
}

// SweepConfig returns the sweep configuration.
func (c *Config) SweepConfig(logger logrus.FieldLogger) (sweep.Config, error) {
	limits, err := integrate.ParseLimits(c.Limits)
	if err != nil {
		return sweep.Config{}, err
	}
	return sweep.Config{
		TimeShifts:       c.Sweep.TimeShifts,
		KShifts:          c.Sweep.KShifts,
		FixedKs:          c.Sweep.FixedKs,
		VertexLimitLower: c.Sweep.VertexLimitLower,
		VertexLimitUpper: c.Sweep.VertexLimitUpper,
		Filter:           c.Sweep.Filter,
		Limits:           limits,
		Baseline:         c.BaselineOptions(),
		Workers:          c.Sweep.Workers,
		Logger:           logger,
	}, nil
}
