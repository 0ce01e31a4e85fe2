package kafka

import (
	"time"

	"github.com/kbukum/accessmatrix/security"
	"github.com/kbukum/accessmatrix/validation"
)

// SASL mechanisms accepted by Config.
var saslMechanisms = []string{"PLAIN", "SCRAM-SHA-256", "SCRAM-SHA-512"}

// Compression codecs accepted by Config.
var compressions = []string{"none", "gzip", "snappy", "lz4", "zstd"}

// Config holds Kafka producer configuration. Durations are strings such as
// "1s" or "250ms".
type Config struct {
	// Enabled controls whether a producer is created at all.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// Brokers is the list of broker addresses.
	Brokers []string `yaml:"brokers" mapstructure:"brokers"`

	TLS security.TLSConfig `yaml:"tls" mapstructure:"tls"`

	// SASL
	EnableSASL    bool   `yaml:"enable_sasl" mapstructure:"enable_sasl"`
	SASLMechanism string `yaml:"sasl_mechanism" mapstructure:"sasl_mechanism"`
	Username      string `yaml:"username" mapstructure:"username"`
	Password      string `yaml:"password" mapstructure:"password"`

	// Producer settings
	Compression  string `yaml:"compression" mapstructure:"compression"`
	Retries      int    `yaml:"retries" mapstructure:"retries"`
	BatchSize    int    `yaml:"batch_size" mapstructure:"batch_size"`
	BatchTimeout string `yaml:"batch_timeout" mapstructure:"batch_timeout"`
	WriteTimeout string `yaml:"write_timeout" mapstructure:"write_timeout"`
	RequiredAcks int    `yaml:"required_acks" mapstructure:"required_acks"`
	// Async makes writes return before the brokers acknowledge them.
	// Failures are then only logged.
	Async bool `yaml:"async" mapstructure:"async"`

	// Connection settings
	IdleTimeout string `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	MetadataTTL string `yaml:"metadata_ttl" mapstructure:"metadata_ttl"`
}

// ApplyDefaults sets defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if len(c.Brokers) == 0 {
		c.Brokers = []string{"localhost:9092"}
	}
	if c.Compression == "" {
		c.Compression = "snappy"
	}
	if c.Retries <= 0 {
		c.Retries = 3
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 100
	}
	if c.BatchTimeout == "" {
		c.BatchTimeout = "1s"
	}
	if c.WriteTimeout == "" {
		c.WriteTimeout = "10s"
	}
	if c.RequiredAcks == 0 {
		c.RequiredAcks = -1 // all replicas
	}
	if c.IdleTimeout == "" {
		c.IdleTimeout = "30s"
	}
	if c.MetadataTTL == "" {
		c.MetadataTTL = "6s"
	}
	if c.SASLMechanism == "" && c.EnableSASL {
		c.SASLMechanism = "PLAIN"
	}
}

// Validate checks the configuration when Kafka is enabled.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	v := validation.New().
		Custom(len(c.Brokers) > 0, "kafka.brokers", "at least one broker is required").
		OneOf("kafka.compression", c.Compression, compressions).
		Min("kafka.retries", c.Retries, 1).
		Min("kafka.batch_size", c.BatchSize, 1).
		Range("kafka.required_acks", c.RequiredAcks, -1, 1)
	v.Duration("kafka.batch_timeout", c.BatchTimeout).
		Duration("kafka.write_timeout", c.WriteTimeout).
		Duration("kafka.idle_timeout", c.IdleTimeout).
		Duration("kafka.metadata_ttl", c.MetadataTTL)
	c.TLS.ValidateInto(v, "kafka.tls")
	if c.EnableSASL {
		v.OneOf("kafka.sasl_mechanism", c.SASLMechanism, saslMechanisms).
			Required("kafka.username", c.Username)
	}
	return v.Err()
}

// ParseDuration parses a duration string, returning zero on empty or
// malformed input.
func ParseDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
