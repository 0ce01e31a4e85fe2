package observability

import (
	"context"
	"errors"
	"time"

	"github.com/kbukum/accessmatrix/logger"
	"github.com/kbukum/accessmatrix/validation"
)

// Config toggles OpenTelemetry export. When disabled the global providers
// stay no-op and every span and instrument is free.
type Config struct {
	Enabled        bool          `yaml:"enabled" mapstructure:"enabled"`
	Endpoint       string        `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure       bool          `yaml:"insecure" mapstructure:"insecure"`
	SampleRate     float64       `yaml:"sample_rate" mapstructure:"sample_rate"`
	MetricInterval time.Duration `yaml:"metric_interval" mapstructure:"metric_interval"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.MetricInterval == 0 {
		c.MetricInterval = 15 * time.Second
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.New().
		Custom(!c.Enabled || c.Endpoint != "", "observability.endpoint", "is required when enabled").
		Custom(c.SampleRate >= 0 && c.SampleRate <= 1, "observability.sample_rate", "must be between 0 and 1").
		Err()
}

// Resource identifies the process in exported telemetry.
type Resource struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
}

// Shutdown flushes and stops whatever Init started.
type Shutdown func(ctx context.Context) error

// Init installs the tracer and meter providers described by cfg. With
// export disabled it returns a no-op Shutdown.
func Init(ctx context.Context, cfg Config, res Resource) (Shutdown, error) {
	if !cfg.Enabled {
		logger.Debug("telemetry export disabled")
		return func(context.Context) error { return nil }, nil
	}

	tp, err := InitTracer(ctx, &TracerConfig{
		ServiceName:    res.ServiceName,
		ServiceVersion: res.ServiceVersion,
		Environment:    res.Environment,
		Endpoint:       cfg.Endpoint,
		Insecure:       cfg.Insecure,
		SampleRate:     cfg.SampleRate,
	})
	if err != nil {
		return nil, err
	}
	mp, err := InitMeter(ctx, &MeterConfig{
		ServiceName:    res.ServiceName,
		ServiceVersion: res.ServiceVersion,
		Environment:    res.Environment,
		Endpoint:       cfg.Endpoint,
		Insecure:       cfg.Insecure,
		Interval:       cfg.MetricInterval,
	})
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}
	return func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}, nil
}
